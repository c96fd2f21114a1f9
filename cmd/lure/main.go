package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MikeSquared-Agency/lure/internal/api"
	"github.com/MikeSquared-Agency/lure/internal/archive"
	"github.com/MikeSquared-Agency/lure/internal/callback"
	"github.com/MikeSquared-Agency/lure/internal/config"
	"github.com/MikeSquared-Agency/lure/internal/detector"
	"github.com/MikeSquared-Agency/lure/internal/engine"
	"github.com/MikeSquared-Agency/lure/internal/gemini"
	"github.com/MikeSquared-Agency/lure/internal/hermes"
	"github.com/MikeSquared-Agency/lure/internal/intel"
	"github.com/MikeSquared-Agency/lure/internal/persona"
	"github.com/MikeSquared-Agency/lure/internal/session"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("lure starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.GeminiAPIKey == "" {
		slog.Error("GEMINI_API_KEY is required")
		os.Exit(1)
	}
	llm := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	slog.Info("gemini client ready", "model", cfg.GeminiModel)

	timeout := time.Duration(cfg.SessionTimeout) * time.Second

	// Session store: Redis when configured, otherwise in-process memory.
	var store session.Store
	if cfg.RedisAddr != "" {
		redisStore, err := session.NewRedisStore(ctx, cfg.RedisAddr, timeout)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		store = redisStore
		slog.Info("redis session store ready", "addr", cfg.RedisAddr)
	} else {
		store = session.NewMemoryStore(timeout)
		slog.Warn("using in-memory session store, sessions are lost on restart")
	}

	// Engagement archive (optional)
	var archiveStore *archive.Store
	if cfg.DatabaseURL != "" {
		var err error
		archiveStore, err = archive.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer archiveStore.Close()
		slog.Info("engagement archive ready")
	} else {
		slog.Warn("DATABASE_URL not set, engagements will not be archived")
	}

	// Swarm messaging (optional)
	var hermesClient *hermes.Client
	if cfg.NatsURL != "" {
		var err error
		hermesClient, err = hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer hermesClient.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS_URL not set, running without swarm signals")
	}

	dispatcher := callback.NewDispatcher(cfg.CallbackURL, slog.Default())
	defer dispatcher.Close()
	if cfg.CallbackURL == "" {
		slog.Warn("CALLBACK_URL not set, reports will not be delivered")
	}

	opts := engine.Options{
		Store:       store,
		Classifier:  detector.New(llm, slog.Default()),
		Responder:   persona.NewResponder(llm, cfg.HistoryWindow, slog.Default()),
		Extractor:   intel.NewExtractor(llm, slog.Default()),
		Reporter:    dispatcher,
		Logger:      slog.Default(),
		NotesMaxLen: cfg.NotesMaxLen,
	}
	if hermesClient != nil {
		opts.Publisher = hermesClient
	}
	if archiveStore != nil {
		opts.Archiver = archiveStore
	}
	eng := engine.New(opts)

	if hermesClient != nil {
		if err := hermesClient.Subscribe(hermes.SubjectPurge, eng.HandlePurgeSignal); err != nil {
			slog.Error("failed to subscribe to purge signals", "error", err)
			os.Exit(1)
		}
	}

	srv := api.NewServer(cfg.Port, cfg.APIKey, llm.Model(), eng, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	if hermesClient != nil {
		err := hermesClient.Publish(hermes.SubjectRegistered, hermes.RegistrationSignal{
			AgentID: "lure",
			ModelID: llm.Model(),
			Role:    "honeypot",
		})
		if err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	slog.Info("lure ready", "port", cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown error", "error", err)
	}
	cancel()
	slog.Info("lure stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
