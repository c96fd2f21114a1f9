package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/lure/internal/engine"
	"github.com/MikeSquared-Agency/lure/internal/session"
)

// Paths reachable without an API key, for platform liveness probes.
var exemptPaths = map[string]bool{
	"/":       true,
	"/health": true,
}

type Server struct {
	router *chi.Mux
	engine *engine.Engine
	logger *slog.Logger
	model  string
	port   int

	httpServer *http.Server
}

func NewServer(port int, apiKey, model string, eng *engine.Engine, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	s := &Server{
		router: router,
		engine: eng,
		logger: logger,
		model:  model,
		port:   port,
	}

	router.Use(apiKeyMiddleware(apiKey))

	router.Get("/", s.root)
	router.Get("/health", s.health)
	router.Post("/api/v1/analyze", s.analyze)
	router.Get("/api/v1/sessions/{sessionID}", s.getSession)
	router.Delete("/api/v1/sessions/{sessionID}", s.deleteSession)

	return s
}

// Handler exposes the routing tree, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("api server starting", "addr", addr)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// apiKeyMiddleware enforces the x-api-key header on every non-exempt path.
// A missing key and a wrong key are distinct failures. With no key
// configured the check is disabled entirely.
func apiKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" || exemptPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			got := r.Header.Get("x-api-key")
			if got == "" {
				writeError(w, http.StatusUnauthorized, "missing API key")
				return
			}
			if got != apiKey {
				writeError(w, http.StatusForbidden, "invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"agent":  "lure",
		"status": "ok",
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	count, err := s.engine.SessionCount(r.Context())
	if err != nil {
		s.logger.Warn("session count failed", "error", err)
		count = -1
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"agent":          "lure",
		"model":          s.model,
		"activeSessions": count,
	})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	if strings.TrimSpace(req.Message.Text) == "" {
		writeError(w, http.StatusBadRequest, "message.text is required")
		return
	}

	seed := make([]session.Turn, 0, len(req.ConversationHistory))
	for _, m := range req.ConversationHistory {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		seed = append(seed, m.toTurn())
	}

	result, err := s.engine.ProcessTurn(r.Context(), req.SessionID, req.Message.Text, req.Message.Timestamp.Time, seed)
	if err != nil {
		s.logger.Error("turn processing failed", "session_id", req.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Status:                    "success",
		Reply:                     result.Reply,
		AgentResponse:             result.Reply,
		ScamDetected:              result.ScamDetected,
		ScamType:                  result.ScamType,
		ConfidenceLevel:           result.Confidence,
		ExtractedIntelligence:     result.Intelligence,
		TotalMessagesExchanged:    result.MessageCount,
		EngagementDurationSeconds: result.DurationSeconds,
		EngagementMetrics: engagementMetrics{
			TotalMessagesExchanged:    result.MessageCount,
			EngagementDurationSeconds: result.DurationSeconds,
		},
		AgentNotes: result.Notes,
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	sess, err := s.engine.Inspect(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		s.logger.Error("session lookup failed", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Status:                    "success",
		SessionID:                 sess.ID,
		PersonaKey:                sess.PersonaKey,
		ScamDetected:              sess.ScamDetected,
		ScamType:                  sess.ScamType,
		ConfidenceLevel:           sess.Confidence,
		ExtractedIntelligence:     sess.Intelligence,
		TotalMessagesExchanged:    sess.MessageCount(),
		EngagementDurationSeconds: sess.DurationSeconds(),
		AgentNotes:                sess.Notes,
		CallbackSent:              sess.CallbackSent,
		CreatedAt:                 sess.CreatedAt,
		LastActiveAt:              sess.LastActiveAt,
		Messages:                  sess.Turns,
	})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	if err := s.engine.Terminate(r.Context(), id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		s.logger.Error("session termination failed", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to terminate session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "session terminated",
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{Status: "error", Message: message})
}
