package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/lure/internal/intel"
)

const (
	SenderScammer = "scammer"
	SenderAgent   = "agent"
)

// Turn is one message appended to a session's transcript. Immutable once
// appended; ordering is arrival order.
type Turn struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the durable state of one ongoing conversation with a scammer.
// The store owns sessions; the orchestrator borrows one per request under
// the per-id lock.
type Session struct {
	ID           string       `json:"id"`
	Turns        []Turn       `json:"turns"`
	ScamDetected bool         `json:"scam_detected"`
	ScamType     string       `json:"scam_type"`
	Confidence   float64      `json:"confidence"`
	Intelligence intel.Record `json:"intelligence"`
	Notes        string       `json:"notes"`
	CallbackSent bool         `json:"callback_sent"`
	PersonaKey   string       `json:"persona_key"`
	CreatedAt    time.Time    `json:"created_at"`
	LastActiveAt time.Time    `json:"last_active_at"`
}

func New(id, personaKey string, now time.Time) *Session {
	return &Session{
		ID:           id,
		ScamType:     "unknown",
		Intelligence: intel.NewRecord(),
		PersonaKey:   personaKey,
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// Clone returns a session sharing no mutable storage with s, so readers can
// hold it while the original keeps being mutated under the per-id lock.
func (s *Session) Clone() *Session {
	c := *s
	c.Turns = make([]Turn, len(s.Turns))
	copy(c.Turns, s.Turns)
	c.Intelligence = s.Intelligence.Clone()
	return &c
}

// AddTurn appends a message and bumps the activity clock.
func (s *Session) AddTurn(sender, text string, ts time.Time) {
	s.Turns = append(s.Turns, Turn{Sender: sender, Text: text, Timestamp: ts})
	s.LastActiveAt = time.Now().UTC()
}

// MarkScam records a classifier verdict. ScamDetected is monotonic: once
// true it never flips back, and type/confidence stop being overwritten
// because classification is skipped from then on.
func (s *Session) MarkScam(isScam bool, scamType string, confidence float64) {
	s.ScamDetected = s.ScamDetected || isScam
	s.ScamType = scamType
	s.Confidence = confidence
}

func (s *Session) MessageCount() int {
	return len(s.Turns)
}

// DurationSeconds is the engagement span from creation to last activity.
func (s *Session) DurationSeconds() int {
	d := int(s.LastActiveAt.Sub(s.CreatedAt).Seconds())
	if d < 0 {
		return 0
	}
	return d
}

// Expired reports whether the idle time since last activity exceeds timeout.
func (s *Session) Expired(timeout time.Duration, now time.Time) bool {
	return now.Sub(s.LastActiveAt) > timeout
}

// TranscriptText is the concatenation of all turn texts, the extractor's
// input shape.
func (s *Session) TranscriptText() string {
	parts := make([]string, 0, len(s.Turns))
	for _, t := range s.Turns {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, "\n")
}

// HistoryText renders the transcript with sender labels for the classifier.
func (s *Session) HistoryText() string {
	parts := make([]string, 0, len(s.Turns))
	for _, t := range s.Turns {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.ToUpper(t.Sender), t.Text))
	}
	return strings.Join(parts, "\n")
}
