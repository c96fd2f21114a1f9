package intel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// JSONCompleter is the structured-output capability of the external model.
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, prompt string) (json.RawMessage, error)
}

// ExtractText runs the deterministic pattern pass over text. Pure function,
// no external calls.
func ExtractText(text string) Record {
	return extractWith(text, DefaultSafeDomains)
}

func extractWith(text string, safeDomains []string) Record {
	caseIDs, policyNumbers, orderNumbers := extractRefs(text)
	return Record{
		BankAccounts:       extractAccounts(text),
		UPIIDs:             extractUPIIDs(text),
		PhoneNumbers:       extractPhones(text),
		PhishingLinks:      extractLinks(text, safeDomains),
		SuspiciousKeywords: extractKeywords(text),
		EmailAddresses:     extractEmails(text),
		CaseIDs:            caseIDs,
		PolicyNumbers:      policyNumbers,
		OrderNumbers:       orderNumbers,
	}
}

// Extractor combines the deterministic pass with an LLM enrichment pass.
type Extractor struct {
	llm         JSONCompleter
	logger      *slog.Logger
	safeDomains []string
}

func NewExtractor(llm JSONCompleter, logger *slog.Logger) *Extractor {
	return &Extractor{llm: llm, logger: logger, safeDomains: DefaultSafeDomains}
}

// SetSafeDomains replaces the phishing-link denylist.
func (e *Extractor) SetSafeDomains(domains []string) {
	e.safeDomains = domains
}

// llmRecord mirrors the category set the enrichment prompt asks for.
type llmRecord struct {
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	PhishingLinks      []string `json:"phishingLinks"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
	EmailAddresses     []string `json:"emailAddresses"`
	CaseIDs            []string `json:"caseIds"`
	PolicyNumbers      []string `json:"policyNumbers"`
	OrderNumbers       []string `json:"orderNumbers"`
}

// Extract runs both passes and merges. The deterministic result is
// authoritative: any enrichment failure is logged and swallowed so the turn
// never stalls on the model.
func (e *Extractor) Extract(ctx context.Context, text string) Record {
	det := extractWith(text, e.safeDomains)

	if e.llm == nil {
		return det
	}

	raw, err := e.llm.CompleteJSON(ctx, fmt.Sprintf(enrichmentPrompt, text))
	if err != nil {
		e.logger.Warn("intel enrichment call failed", "error", err)
		return det
	}

	var resp llmRecord
	if err := json.Unmarshal(raw, &resp); err != nil {
		e.logger.Warn("intel enrichment returned unparseable output", "error", err)
		return det
	}

	return det.Merge(e.normalizeLLM(resp))
}

// normalizeLLM applies the deterministic layer's canonical forms to the
// model's findings so set-union dedup works across both passes.
func (e *Extractor) normalizeLLM(resp llmRecord) Record {
	out := NewRecord()

	for _, v := range resp.BankAccounts {
		if acct := digitsOnly(v); len(acct) >= accountMinDigits && len(acct) <= accountMaxDigits {
			out.BankAccounts = append(out.BankAccounts, acct)
		}
	}
	for _, v := range resp.UPIIDs {
		out.UPIIDs = append(out.UPIIDs, lower(v))
	}
	for _, v := range resp.PhoneNumbers {
		if n, ok := normalizePhone(v); ok {
			out.PhoneNumbers = append(out.PhoneNumbers, n)
		}
	}
	for _, v := range resp.PhishingLinks {
		link := lower(v)
		if link == "" || isSafeDomain(link, e.safeDomains) {
			continue
		}
		if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
			link = "http://" + link
		}
		out.PhishingLinks = append(out.PhishingLinks, link)
	}
	for _, v := range resp.SuspiciousKeywords {
		out.SuspiciousKeywords = append(out.SuspiciousKeywords, lower(v))
	}
	for _, v := range resp.EmailAddresses {
		out.EmailAddresses = append(out.EmailAddresses, lower(v))
	}
	out.CaseIDs = append(out.CaseIDs, upperAll(resp.CaseIDs)...)
	out.PolicyNumbers = append(out.PolicyNumbers, upperAll(resp.PolicyNumbers)...)
	out.OrderNumbers = append(out.OrderNumbers, upperAll(resp.OrderNumbers)...)

	// Re-run Merge against the empty record to dedup and sort.
	return NewRecord().Merge(out)
}
