// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the counseling service.
type Config struct {
	Port    string
	Address string

	// RulesDir holds the static drug interaction tables.
	RulesDir string
	// CounselingDir is the root of the per-language counseling record files.
	CounselingDir string
	// VoicesDir is the root of the per-language synthesized audio files.
	VoicesDir string

	ChatModel string
	TTSModel  string
	TTSVoice  string

	// ProviderTimeout bounds a single generation call. Zero means no timeout,
	// matching the behaviour of the original deployment.
	ProviderTimeout time.Duration

	// DBPersistence enables the optional MySQL mirror of the counseling store.
	DBPersistence bool

	LogLevel string
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "5050"),
		Address:       getEnv("ADDRESS", "127.0.0.1"),
		RulesDir:      getEnv("RULES_DIR", "data/drug_interactions"),
		CounselingDir: getEnv("COUNSELING_DIR", "data/counseling_json"),
		VoicesDir:     getEnv("VOICES_DIR", "voices"),
		ChatModel:     getEnv("CHAT_MODEL", "gpt-4o"),
		TTSModel:      getEnv("TTS_MODEL", "tts-1"),
		TTSVoice:      getEnv("TTS_VOICE", "alloy"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if v := os.Getenv("OPENAI_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid OPENAI_TIMEOUT_SECONDS: %q", v)
		}
		cfg.ProviderTimeout = time.Duration(n) * time.Second
	}

	if v := os.Getenv("DB_PERSISTENCE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_PERSISTENCE: %q", v)
		}
		cfg.DBPersistence = b
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
