package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/innerguide/internal/config"
)

func TestParseDelayRange(t *testing.T) {
	r, err := config.ParseDelayRange("1000-2000")
	require.NoError(t, err)
	assert.Equal(t, time.Second, r.Min)
	assert.Equal(t, 2*time.Second, r.Max)

	r, err = config.ParseDelayRange(" 250 ")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, r.Min)
	assert.Equal(t, r.Min, r.Max)

	for _, bad := range []string{"", "abc", "2000-1000", "10-x"} {
		_, err := config.ParseDelayRange(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("INNERGUIDE_MODE", "")
	t.Setenv("INNERGUIDE_LLM_PROVIDER", "")
	t.Setenv("INNERGUIDE_STORAGE_BACKEND", "")
	t.Setenv("INNERGUIDE_THINKING_DELAY_MS", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.ModeLocal, cfg.Mode)
	assert.Equal(t, config.LLMOpenAI, cfg.LLMProvider)
	assert.Equal(t, config.StorageMemory, cfg.StorageBackend)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, time.Second, cfg.ThinkingDelay.Min)
	assert.Equal(t, 2*time.Second, cfg.ThinkingDelay.Max)
	assert.False(t, cfg.CompletionConfigured())
}

func TestLoadWithCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("INNERGUIDE_THINKING_DELAY_MS", "0-10")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.CompletionConfigured())
	assert.Equal(t, 10*time.Millisecond, cfg.ThinkingDelay.Max)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("provider", func(t *testing.T) {
		t.Setenv("INNERGUIDE_LLM_PROVIDER", "llama")
		_, err := config.Load()
		assert.Error(t, err)
	})
	t.Run("firestore without project", func(t *testing.T) {
		t.Setenv("INNERGUIDE_STORAGE_BACKEND", "firestore")
		t.Setenv("INNERGUIDE_GCP_PROJECT", "")
		_, err := config.Load()
		assert.Error(t, err)
	})
	t.Run("gcp mode without project", func(t *testing.T) {
		t.Setenv("INNERGUIDE_MODE", "gcp")
		t.Setenv("INNERGUIDE_GCP_PROJECT", "")
		_, err := config.Load()
		assert.Error(t, err)
	})
	t.Run("delay", func(t *testing.T) {
		t.Setenv("INNERGUIDE_THINKING_DELAY_MS", "3000-1000")
		_, err := config.Load()
		assert.Error(t, err)
	})
}
