package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := LoadConfig(nil, "")
	require.NoError(t, err)

	assert.Equal(t, ".cache/resume-selector", cfg.CacheDir)
	assert.Equal(t, "configs/selection_config_v1.json", cfg.SelectionConfigPath)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, 3072, cfg.Embedding.Dims)
	assert.Equal(t, 128, cfg.Embedding.ChunkSize)
	assert.Equal(t, 30*24*time.Hour, cfg.RedisTTL)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	content := `{
		"cache_dir": "/tmp/cache-from-file",
		"embedding": {"provider": "seeded", "dims": 64},
		"redis_ttl": "1h"
	}`
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("RESUME_SELECTOR_EMBEDDING_DIMS", "32")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("REDIS_ADDR", "localhost:6380")

	cfg, err := LoadConfig(nil, path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/cache-from-file", cfg.CacheDir)
	assert.Equal(t, "seeded", cfg.Embedding.Provider)
	assert.Equal(t, 32, cfg.Embedding.Dims, "environment overrides the file")
	assert.Equal(t, time.Hour, cfg.RedisTTL)
	assert.Equal(t, "sk-env", cfg.OpenAIAPIKey)
	assert.Equal(t, "localhost:6380", cfg.RedisAddr)
}

func TestLoadConfig_ExplicitValueWins(t *testing.T) {
	v := viper.New()
	v.Set("embedding.model", "text-embedding-3-small")

	cfg, err := LoadConfig(v, "")
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		path    string
	}{
		{name: "missing file", path: filepath.Join(t.TempDir(), "nope.json")},
		{name: "invalid json", content: `{ invalid json }`},
		{name: "unknown provider", content: `{"embedding": {"provider": "bogus"}}`},
		{name: "negative dims", content: `{"embedding": {"dims": -1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if path == "" {
				path = filepath.Join(t.TempDir(), "settings.json")
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			}

			_, err := LoadConfig(nil, path)
			require.Error(t, err)
			var ce *ConfigurationError
			assert.True(t, errors.As(err, &ce))
		})
	}
}

func TestConfig_APIKey(t *testing.T) {
	cfg := &Config{OpenAIAPIKey: "openai", GeminiAPIKey: "gemini"}
	assert.Equal(t, "openai", cfg.APIKey())

	cfg.Embedding.Provider = "gemini"
	assert.Equal(t, "gemini", cfg.APIKey())
}
