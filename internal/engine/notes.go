package engine

import (
	"fmt"
	"strings"

	"github.com/MikeSquared-Agency/lure/internal/session"
)

var scamTypeLabels = map[string]string{
	"bank_fraud":   "bank impersonation",
	"upi_fraud":    "UPI payment fraud",
	"phishing":     "phishing",
	"tech_support": "tech support scam",
	"lottery":      "lottery scam",
	"job_scam":     "job offer scam",
	"kyc_fraud":    "KYC verification fraud",
	"other":        "unclassified scam",
	"unknown":      "unclassified scam",
}

// Tactic labels keyed by intelligence category; a non-empty category means
// the tactic was observed in this engagement.
var tacticLabels = []struct {
	category string
	label    string
}{
	{"bankAccounts", "bank account collection"},
	{"upiIds", "UPI handle drops"},
	{"phoneNumbers", "callback number push"},
	{"phishingLinks", "phishing links"},
	{"suspiciousKeywords", "pressure language"},
	{"emailAddresses", "email lure"},
	{"caseIds", "fake case references"},
	{"policyNumbers", "fake policy references"},
	{"orderNumbers", "fake order references"},
}

// buildNotes summarises the engagement for the report payload. It is a pure
// function of session state, so repeated turns with no new intelligence
// produce identical notes.
func (e *Engine) buildNotes(sess *session.Session) string {
	if !sess.ScamDetected {
		return fmt.Sprintf("No scam confirmed after %d messages; continuing engagement.", sess.MessageCount())
	}

	label, ok := scamTypeLabels[sess.ScamType]
	if !ok {
		label = "unclassified scam"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Engaged %s operator across %d messages (confidence %.2f).", label, sess.MessageCount(), sess.Confidence)

	counts := sess.Intelligence.CategoryCounts()
	var tactics []string
	for _, t := range tacticLabels {
		if counts[t.category] > 0 {
			tactics = append(tactics, t.label)
		}
	}
	if len(tactics) > 0 {
		fmt.Fprintf(&b, " Tactics observed: %s.", strings.Join(tactics, ", "))
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total > 0 {
		fmt.Fprintf(&b, " Intelligence items captured: %d.", total)
	} else {
		b.WriteString(" No actionable identifiers captured yet.")
	}

	return truncate(b.String(), e.notesMaxLen)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
