package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORYBRANCH_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-4.1", cfg.AI.Model)
	assert.Equal(t, "italiano", cfg.Generation.Language)
	assert.Equal(t, 10, cfg.Generation.NodeCount)
	assert.True(t, cfg.Generation.Enrich)
	assert.True(t, cfg.Generation.CombinedExcel)
}

func TestLoadConfig_YAML(t *testing.T) {
	t.Setenv("STORYBRANCH_API_KEY", "")
	t.Setenv("STORYBRANCH_AI_PROVIDER", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ai:
  provider: gemini
  model: gemini-2.0-flash
  api_key: from-yaml
generation:
  language: english
  node_count: 5
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	assert.Equal(t, "from-yaml", cfg.AI.APIKey)
	assert.Equal(t, "english", cfg.Generation.Language)
	assert.Equal(t, 5, cfg.Generation.NodeCount)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STORYBRANCH_API_KEY", "from-env")
	t.Setenv("STORYBRANCH_AI_PROVIDER", "gemini")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AI.APIKey)
	assert.Equal(t, "gemini", cfg.AI.Provider)
}

func TestLoadConfig_ProviderKeyFallback(t *testing.T) {
	t.Setenv("STORYBRANCH_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	// The fallback variable follows the configured provider.
	t.Setenv("STORYBRANCH_AI_PROVIDER", "gemini")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cfg.AI.APIKey)

	t.Setenv("STORYBRANCH_AI_PROVIDER", "openai")
	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "openai-key", cfg.AI.APIKey)

	// STORYBRANCH_API_KEY wins over both.
	t.Setenv("STORYBRANCH_API_KEY", "explicit-key")
	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "explicit-key", cfg.AI.APIKey)
}
