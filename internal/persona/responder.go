package persona

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MikeSquared-Agency/lure/internal/gemini"
	"github.com/MikeSquared-Agency/lure/internal/session"
)

// TextCompleter is the free-text generation capability of the external model.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string, opts gemini.Options) (string, error)
}

type Responder struct {
	llm           TextCompleter
	logger        *slog.Logger
	historyWindow int
}

// NewResponder builds a responder. historyWindow bounds how many recent turns
// are fed to the prompt; the session's full log is never truncated.
func NewResponder(llm TextCompleter, historyWindow int, logger *slog.Logger) *Responder {
	if historyWindow <= 0 {
		historyWindow = 8
	}
	return &Responder{llm: llm, logger: logger, historyWindow: historyWindow}
}

// Respond generates an in-character reply to the scammer's latest message.
// It never returns an error: generation failures degrade to a topic-matched
// canned reply so the conversation keeps moving.
func (r *Responder) Respond(ctx context.Context, message string, history []session.Turn, personaKey, sessionID string) string {
	p := ProfileFor(personaKey)
	prompt := buildReplyPrompt(p, history, message, r.historyWindow)

	raw, err := r.llm.Complete(ctx, prompt, gemini.Options{Temperature: 0.85, MaxTokens: 512})
	if err != nil {
		r.logger.Warn("reply generation failed, using canned fallback",
			"session_id", sessionID,
			"persona", p.Key,
			"error", err,
		)
		return FallbackReply(message, p.Language)
	}

	reply := cleanReply(raw, p.Name)
	if reply == "" {
		return FallbackReply(message, p.Language)
	}

	r.logger.Info("reply generated",
		"session_id", sessionID,
		"persona", p.Key,
		"reply_len", len(reply),
	)
	return reply
}

func buildReplyPrompt(p Profile, history []session.Turn, message string, window int) string {
	if len(history) > window {
		history = history[len(history)-window:]
	}

	var conv strings.Builder
	for _, turn := range history {
		if turn.Sender == session.SenderScammer {
			fmt.Fprintf(&conv, "THEM: %s\n", turn.Text)
		} else {
			fmt.Fprintf(&conv, "YOU (%s): %s\n", p.Name, turn.Text)
		}
	}
	conversation := strings.TrimRight(conv.String(), "\n")
	if conversation == "" {
		conversation = "(This is the start of the conversation)"
	}

	return fmt.Sprintf(replyPrompt, personaPrompt(p), conversation, message, p.Name)
}

func personaPrompt(p Profile) string {
	return fmt.Sprintf(personaTemplate,
		p.Name, p.Age, p.Background,
		bulleted(p.Traits),
		bulleted(p.SpeakingRules),
		quoted(p.Examples),
	)
}

func bulleted(lines []string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "- " + l
	}
	return strings.Join(out, "\n")
}

func quoted(lines []string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = `- "` + l + `"`
	}
	return strings.Join(out, "\n")
}

// cleanReply strips role-label artifacts and wrapping quotes the generator
// sometimes emits.
func cleanReply(raw, name string) string {
	reply := strings.TrimSpace(raw)
	if len(reply) >= 2 && strings.HasPrefix(reply, `"`) && strings.HasSuffix(reply, `"`) {
		reply = strings.TrimSpace(reply[1 : len(reply)-1])
	}

	prefixes := []string{
		"YOUR RESPONSE:", "RESPONSE:", "REPLY:", "YOU:", "ME:",
		strings.ToUpper(name) + ":", name + ":",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(reply), strings.ToUpper(prefix)) {
			reply = strings.TrimSpace(reply[len(prefix):])
		}
	}
	return reply
}
