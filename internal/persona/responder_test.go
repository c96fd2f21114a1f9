package persona

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/lure/internal/gemini"
	"github.com/MikeSquared-Agency/lure/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func modelServer(t *testing.T, reply string, capture *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			var req struct {
				Contents []struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"contents"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err == nil && len(req.Contents) > 0 {
				*capture = req.Contents[0].Parts[0].Text
			}
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": reply}}}},
			},
		})
	}))
}

func TestLanguageFor_StablePerSession(t *testing.T) {
	first := LanguageFor("session-abc")
	for i := 0; i < 10; i++ {
		if got := LanguageFor("session-abc"); got != first {
			t.Fatalf("language flipped for the same session: %q then %q", first, got)
		}
	}
	if first != "english" && first != "hinglish" {
		t.Errorf("unexpected language %q", first)
	}
}

func TestKeyFor_StableAndLanguageConsistent(t *testing.T) {
	key := KeyFor("session-abc", "elderly")
	if key != KeyFor("session-abc", "elderly") {
		t.Error("persona key must be deterministic for a stable session key")
	}

	p := ProfileFor(key)
	if p.Language != LanguageFor("session-abc") {
		t.Errorf("profile language %q does not match session language %q", p.Language, LanguageFor("session-abc"))
	}
}

func TestKeyFor_ExplicitArchetypes(t *testing.T) {
	if got := KeyFor("x", "young_professional"); got != "young_professional" {
		t.Errorf("expected young_professional, got %q", got)
	}
	if got := KeyFor("x", "worried_parent"); got != "worried_parent" {
		t.Errorf("expected worried_parent, got %q", got)
	}
}

func TestProfileFor_UnknownKeyDefaults(t *testing.T) {
	p := ProfileFor("no-such-persona")
	if p.Key != "elderly_english" {
		t.Errorf("expected default profile, got %q", p.Key)
	}
}

func TestRespond_Success(t *testing.T) {
	server := modelServer(t, "Haan ji, kaun sa account?", nil)
	defer server.Close()

	llm := gemini.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	r := NewResponder(llm, 8, discardLogger())
	got := r.Respond(context.Background(), "your account is blocked", nil, "elderly_hinglish", "S1")

	if got != "Haan ji, kaun sa account?" {
		t.Errorf("unexpected reply %q", got)
	}
}

func TestRespond_StripsArtifacts(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"wrapping quotes", `"Oh no, what happened?"`, "Oh no, what happened?"},
		{"reply label", "REPLY: Oh no, what happened?", "Oh no, what happened?"},
		{"character name", "KAMALA DEVI: Haan ji bataiye", "Haan ji bataiye"},
		{"your response label", "YOUR RESPONSE: Theek hai ji", "Theek hai ji"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := modelServer(t, tc.raw, nil)
			defer server.Close()

			llm := gemini.NewClient("test-key", "test-model")
			llm.SetTestTransport(server.URL)

			r := NewResponder(llm, 8, discardLogger())
			got := r.Respond(context.Background(), "hello", nil, "elderly_hinglish", "S1")
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRespond_HistoryBounded(t *testing.T) {
	var prompt string
	server := modelServer(t, "ok", &prompt)
	defer server.Close()

	llm := gemini.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	history := make([]session.Turn, 0, 20)
	for i := 0; i < 20; i++ {
		history = append(history, session.Turn{
			Sender:    session.SenderScammer,
			Text:      "old message " + strings.Repeat("x", i),
			Timestamp: time.Now().UTC(),
		})
	}

	r := NewResponder(llm, 8, discardLogger())
	r.Respond(context.Background(), "latest", history, "elderly_english", "S1")

	if strings.Contains(prompt, "old message x\n") {
		t.Error("prompt should only contain the most recent turns")
	}
	if !strings.Contains(prompt, "old message "+strings.Repeat("x", 19)) {
		t.Error("prompt is missing the most recent history turn")
	}
}

func TestRespond_FallbackOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	llm := gemini.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)

	r := NewResponder(llm, 8, discardLogger())
	got := r.Respond(context.Background(), "share your OTP now", nil, "elderly_english", "S1")

	if got == "" {
		t.Fatal("fallback reply must not be empty")
	}
	if !strings.Contains(strings.ToLower(got), "otp") && !strings.Contains(strings.ToLower(got), "messages") {
		t.Errorf("expected otp-topic fallback, got %q", got)
	}
}

func TestFallbackReply_TopicMatched(t *testing.T) {
	got := FallbackReply("we will block your account", "english")
	if !strings.Contains(strings.ToLower(got), "block") {
		t.Errorf("expected block-topic reply, got %q", got)
	}

	got = FallbackReply("completely unrelated text", "english")
	if got == "" {
		t.Error("generic fallback must not be empty")
	}
}

func TestFallbackReply_Deterministic(t *testing.T) {
	first := FallbackReply("please verify your account", "hinglish")
	for i := 0; i < 5; i++ {
		if got := FallbackReply("please verify your account", "hinglish"); got != first {
			t.Fatalf("fallback not deterministic: %q then %q", first, got)
		}
	}
}
