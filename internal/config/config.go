// Package config loads the selection configuration document and the runtime
// settings of the CLI.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. RESUME_SELECTOR_CACHE_DIR
const EnvPrefix = "RESUME_SELECTOR"

// Config holds runtime settings. Values are layered: defaults, then an optional
// config file, then environment, then any flags bound to the viper instance.
type Config struct {
	// Paths
	CacheDir            string `mapstructure:"cache_dir" validate:"required"`
	RunsDir             string `mapstructure:"runs_dir" validate:"required"`
	RulesPath           string `mapstructure:"rules_path" validate:"required"`
	SelectionConfigPath string `mapstructure:"selection_config_path" validate:"required"`

	// Embeddings
	Embedding EmbeddingSettings `mapstructure:"embedding"`

	// Backends
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" validate:"gte=0"`
	RedisTTL      time.Duration `mapstructure:"redis_ttl" validate:"gte=0"`
	DatabaseURL   string        `mapstructure:"database_url"`

	// Credentials
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`

	// Behavior
	LogJSON bool `mapstructure:"log_json"`
	Debug   bool `mapstructure:"debug"`
}

// EmbeddingSettings configures the embedding provider
type EmbeddingSettings struct {
	Provider    string `mapstructure:"provider" validate:"omitempty,oneof=openai gemini seeded"`
	Model       string `mapstructure:"model" validate:"required"`
	Dims        int    `mapstructure:"dims" validate:"gt=0"`
	ChunkSize   int    `mapstructure:"chunk_size" validate:"gt=0"`
	Concurrency int    `mapstructure:"concurrency" validate:"gt=0"`
	BaseURL     string `mapstructure:"base_url"`
	MockMode    bool   `mapstructure:"mock_mode"`
}

// APIKey returns the credential for the configured provider
func (c *Config) APIKey() string {
	if c.Embedding.Provider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// LoadConfig loads settings from defaults, an optional file and the environment.
// v may carry bound flags; nil uses a fresh instance.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &ConfigurationError{Path: path, Message: "failed to read config file", Cause: err}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range map[string]string{
		"openai_api_key": "OPENAI_API_KEY",
		"gemini_api_key": "GEMINI_API_KEY",
		"database_url":   "DATABASE_URL",
		"redis_addr":     "REDIS_ADDR",
	} {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key), env); err != nil {
			return nil, &ConfigurationError{Message: fmt.Sprintf("failed to bind %s", env), Cause: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigurationError{Path: path, Message: "failed to decode settings", Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the settings have valid values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return &ConfigurationError{Message: "invalid settings", Cause: err}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache_dir", ".cache/resume-selector")
	v.SetDefault("runs_dir", "runs")
	v.SetDefault("rules_path", "configs/evidence_rules_v1.json")
	v.SetDefault("selection_config_path", "configs/selection_config_v1.json")

	v.SetDefault("embedding.provider", "openai")
	v.SetDefault("embedding.model", "text-embedding-3-large")
	v.SetDefault("embedding.dims", 3072)
	v.SetDefault("embedding.chunk_size", 128)
	v.SetDefault("embedding.concurrency", 4)
	v.SetDefault("embedding.base_url", "")
	v.SetDefault("embedding.mock_mode", false)

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_ttl", 30*24*time.Hour)
	v.SetDefault("database_url", "")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("log_json", false)
	v.SetDefault("debug", false)
}
