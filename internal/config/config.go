package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port           int
	APIKey         string
	GeminiAPIKey   string
	GeminiModel    string
	CallbackURL    string
	SessionTimeout int // seconds of idle time before a session expires
	RedisAddr      string
	DatabaseURL    string
	NatsURL        string
	NatsToken      string
	LogLevel       string
	HistoryWindow  int // turns handed to the responder prompt
	NotesMaxLen    int
}

func Load() Config {
	return Config{
		Port:           envInt("LURE_PORT", 8760),
		APIKey:         envStr("LURE_API_KEY", ""),
		GeminiAPIKey:   envStr("GEMINI_API_KEY", ""),
		GeminiModel:    envStr("LURE_MODEL", "gemini-2.5-flash"),
		CallbackURL:    envStr("CALLBACK_URL", ""),
		SessionTimeout: envInt("SESSION_TIMEOUT_SECONDS", 3600),
		RedisAddr:      envStr("REDIS_ADDR", ""),
		DatabaseURL:    envStr("DATABASE_URL", ""),
		NatsURL:        envStr("NATS_URL", ""),
		NatsToken:      envStr("NATS_TOKEN", ""),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		HistoryWindow:  envInt("LURE_HISTORY_WINDOW", 8),
		NotesMaxLen:    envInt("LURE_NOTES_MAX_LEN", 300),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
