package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	Init("")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 1536, cfg.EmbeddingDimensions)
	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, 30, cfg.RequestTimeoutSeconds)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoadEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("HACKMATE_PORT", "9191")
	t.Setenv("HACKMATE_MODEL", "gpt-4o-mini")

	Init("")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
}

func TestLoadClampsInvalidValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	Init("")
	viper.Set("port", -1)
	viper.Set("embedding_dimensions", 0)
	viper.Set("request_timeout_seconds", 0)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 1536, cfg.EmbeddingDimensions)
	assert.Equal(t, 30, cfg.RequestTimeoutSeconds)
}

func TestPaths(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/hm"}
	assert.Equal(t, "/tmp/hm/hackmate.db", cfg.DatabasePath())
	assert.Equal(t, "/tmp/hm/vectorstore", cfg.VectorDir())
}
