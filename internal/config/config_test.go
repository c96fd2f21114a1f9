package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"LURE_PORT", "LURE_API_KEY", "GEMINI_API_KEY", "LURE_MODEL",
		"CALLBACK_URL", "SESSION_TIMEOUT_SECONDS", "REDIS_ADDR",
		"DATABASE_URL", "NATS_URL", "NATS_TOKEN", "LOG_LEVEL",
		"LURE_HISTORY_WINDOW", "LURE_NOTES_MAX_LEN",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != 8760 {
		t.Errorf("expected default port 8760, got %d", cfg.Port)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("expected default model, got %s", cfg.GeminiModel)
	}
	if cfg.SessionTimeout != 3600 {
		t.Errorf("expected default session timeout 3600, got %d", cfg.SessionTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.HistoryWindow != 8 {
		t.Errorf("expected default history window 8, got %d", cfg.HistoryWindow)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("expected empty default redis addr, got %s", cfg.RedisAddr)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("LURE_PORT", "9001")
	t.Setenv("LURE_API_KEY", "secret-key")
	t.Setenv("GEMINI_API_KEY", "gm-test-key")
	t.Setenv("LURE_MODEL", "gemini-2.5-pro")
	t.Setenv("CALLBACK_URL", "https://scores.example.com/report")
	t.Setenv("SESSION_TIMEOUT_SECONDS", "120")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Port != 9001 {
		t.Errorf("expected port 9001, got %d", cfg.Port)
	}
	if cfg.APIKey != "secret-key" {
		t.Errorf("expected api key secret-key, got %s", cfg.APIKey)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("expected model gemini-2.5-pro, got %s", cfg.GeminiModel)
	}
	if cfg.CallbackURL != "https://scores.example.com/report" {
		t.Errorf("unexpected callback url %s", cfg.CallbackURL)
	}
	if cfg.SessionTimeout != 120 {
		t.Errorf("expected session timeout 120, got %d", cfg.SessionTimeout)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("expected redis addr localhost:6379, got %s", cfg.RedisAddr)
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("LURE_PORT", "not-a-number")

	cfg := Load()

	if cfg.Port != 8760 {
		t.Errorf("expected fallback port 8760 on bad value, got %d", cfg.Port)
	}
}
