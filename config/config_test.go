package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("OPENAI_TIMEOUT_SECONDS", "")
	t.Setenv("DB_PERSISTENCE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5050", cfg.Port)
	assert.Equal(t, "gpt-4o", cfg.ChatModel)
	assert.Equal(t, "tts-1", cfg.TTSModel)
	assert.Equal(t, "alloy", cfg.TTSVoice)
	assert.Equal(t, time.Duration(0), cfg.ProviderTimeout)
	assert.False(t, cfg.DBPersistence)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("OPENAI_TIMEOUT_SECONDS", "30")
	t.Setenv("DB_PERSISTENCE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	assert.True(t, cfg.DBPersistence)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	t.Setenv("OPENAI_TIMEOUT_SECONDS", "-5")
	_, err := Load()
	require.Error(t, err)
}
