package detector

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

// Analysis is the classifier's verdict for one message in context.
type Analysis struct {
	IsScam     bool     `json:"is_scam"`
	Confidence float64  `json:"confidence"`
	ScamType   string   `json:"scam_type"`
	Indicators []string `json:"indicators"`
}

// High-signal terms used by the deterministic fallback when the model is
// unreachable.
var fallbackKeywords = []string{
	"urgent", "otp", "blocked", "verify", "bank", "upi", "kyc", "aadhar",
	"lottery", "arrest", "suspend", "refund",
}

type Detector struct {
	llm    JSONCompleter
	logger *slog.Logger
}

func New(llm JSONCompleter, logger *slog.Logger) *Detector {
	return &Detector{llm: llm, logger: logger}
}

// Classify analyzes a message for scam intent. It never returns an error:
// every failure path degrades to a deterministic verdict. The fallback is
// biased toward positives — in this domain a missed scam costs more than an
// extra engagement with a benign sender.
func (d *Detector) Classify(ctx context.Context, message, history string) Analysis {
	prompt := buildDetectionPrompt(message, history)

	raw, err := d.llm.CompleteJSON(ctx, prompt)
	if err != nil {
		d.logger.Warn("classifier call failed, using keyword fallback", "error", err)
		return keywordFallback(message)
	}

	var a Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		d.logger.Warn("classifier returned unparseable output", "error", err)
		return parseErrorFallback(string(raw))
	}

	a.Confidence = clamp01(a.Confidence)
	if a.ScamType == "" {
		a.ScamType = "unknown"
	}
	if a.Indicators == nil {
		a.Indicators = []string{}
	}
	return a
}

// keywordFallback handles total external-call failure.
func keywordFallback(message string) Analysis {
	lower := strings.ToLower(message)
	for _, kw := range fallbackKeywords {
		if strings.Contains(lower, kw) {
			return Analysis{
				IsScam:     true,
				Confidence: 0.65,
				ScamType:   "unknown",
				Indicators: []string{"keyword_match"},
			}
		}
	}
	return Analysis{
		IsScam:     true,
		Confidence: 0.4,
		ScamType:   "unknown",
		Indicators: []string{"fallback_default"},
	}
}

// parseErrorFallback handles a model response that was not valid JSON. If the
// raw text still reads like a scam verdict, keep the higher confidence.
func parseErrorFallback(raw string) Analysis {
	lower := strings.ToLower(raw)
	confidence := 0.5
	for _, hint := range []string{"scam", "fraud", "suspicious", "phishing"} {
		if strings.Contains(lower, hint) {
			confidence = 0.7
			break
		}
	}
	return Analysis{
		IsScam:     true,
		Confidence: confidence,
		ScamType:   "unknown",
		Indicators: []string{"parse_error"},
	}
}

func buildDetectionPrompt(message, history string) string {
	historyContext := ""
	if history != "" {
		historyContext = fmt.Sprintf("\nCONVERSATION CONTEXT:\n%s", history)
	}
	return fmt.Sprintf(detectionPrompt, message, historyContext)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
