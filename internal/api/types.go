package api

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/lure/internal/session"
)

// Timestamp accepts the formats upstream platforms actually send: RFC 3339
// strings, epoch seconds and epoch milliseconds. An absent or unparseable
// value decodes to the zero time and the server fills in receipt time.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil
		}
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			t.Time = parsed.UTC()
		}
		return nil
	}

	epoch, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	// Values past the year 5138 in seconds can only be milliseconds.
	if epoch > 1e11 {
		epoch /= 1000
	}
	sec := int64(epoch)
	nsec := int64((epoch - float64(sec)) * 1e9)
	t.Time = time.Unix(sec, nsec).UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339))
}

type Message struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp Timestamp `json:"timestamp"`
}

type AnalyzeRequest struct {
	SessionID           string         `json:"sessionId"`
	Message             Message        `json:"message"`
	ConversationHistory []Message      `json:"conversationHistory"`
	Metadata            map[string]any `json:"metadata"`
}

// toTurn maps a wire message onto a transcript turn. Anything that is not
// recognisably the agent side is attributed to the scammer.
func (m Message) toTurn() session.Turn {
	sender := session.SenderScammer
	switch strings.ToLower(m.Sender) {
	case "agent", "assistant", "bot", "honeypot":
		sender = session.SenderAgent
	}
	return session.Turn{Sender: sender, Text: m.Text, Timestamp: m.Timestamp.Time}
}

type engagementMetrics struct {
	TotalMessagesExchanged    int `json:"totalMessagesExchanged"`
	EngagementDurationSeconds int `json:"engagementDurationSeconds"`
}

// analyzeResponse carries the flat fields the scoring platform reads plus
// the aliases older integrations still expect (agentResponse mirrors reply,
// engagementMetrics mirrors the flat counters).
type analyzeResponse struct {
	Status                    string            `json:"status"`
	Reply                     string            `json:"reply"`
	AgentResponse             string            `json:"agentResponse"`
	ScamDetected              bool              `json:"scamDetected"`
	ScamType                  string            `json:"scamType"`
	ConfidenceLevel           float64           `json:"confidenceLevel"`
	ExtractedIntelligence     any               `json:"extractedIntelligence"`
	TotalMessagesExchanged    int               `json:"totalMessagesExchanged"`
	EngagementDurationSeconds int               `json:"engagementDurationSeconds"`
	EngagementMetrics         engagementMetrics `json:"engagementMetrics"`
	AgentNotes                string            `json:"agentNotes"`
}

type sessionResponse struct {
	Status                    string         `json:"status"`
	SessionID                 string         `json:"sessionId"`
	PersonaKey                string         `json:"personaKey"`
	ScamDetected              bool           `json:"scamDetected"`
	ScamType                  string         `json:"scamType"`
	ConfidenceLevel           float64        `json:"confidenceLevel"`
	ExtractedIntelligence     any            `json:"extractedIntelligence"`
	TotalMessagesExchanged    int            `json:"totalMessagesExchanged"`
	EngagementDurationSeconds int            `json:"engagementDurationSeconds"`
	AgentNotes                string         `json:"agentNotes"`
	CallbackSent              bool           `json:"callbackSent"`
	CreatedAt                 time.Time      `json:"createdAt"`
	LastActiveAt              time.Time      `json:"lastActiveAt"`
	Messages                  []session.Turn `json:"messages"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
