package embedding

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-selector/internal/cache"
	"github.com/jonathan/resume-selector/internal/types"
)

// Defaults for the embedding configuration and relevance pruning
const (
	DefaultModel              = "text-embedding-3-large"
	DefaultDims               = 3072
	DefaultPreprocessVersion  = PreprocessV1
	DefaultChunkSize          = 128
	DefaultConcurrency        = 4
	DefaultMinScore           = 0.25
	DefaultTopKPerRequirement = 12
	DefaultTopKPerBullet      = 8
)

// Config identifies how texts are embedded. Model, Dims and PreprocessVersion
// form the cache key; ChunkSize and Concurrency only shape provider calls.
type Config struct {
	Model             string `validate:"required"`
	Dims              int    `validate:"gt=0"`
	PreprocessVersion string `validate:"required"`
	ChunkSize         int    `validate:"gt=0"`
	Concurrency       int    `validate:"gt=0"`
}

// DefaultConfig returns the default embedding configuration
func DefaultConfig() Config {
	return Config{
		Model:             DefaultModel,
		Dims:              DefaultDims,
		PreprocessVersion: DefaultPreprocessVersion,
		ChunkSize:         DefaultChunkSize,
		Concurrency:       DefaultConcurrency,
	}
}

// WithDefaults fills zero fields from DefaultConfig
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Model == "" {
		c.Model = d.Model
	}
	if c.Dims <= 0 {
		c.Dims = d.Dims
	}
	if c.PreprocessVersion == "" {
		c.PreprocessVersion = d.PreprocessVersion
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	return c
}

// Validate checks the configuration
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return &Error{Message: "invalid embedding configuration", Cause: err}
	}
	return nil
}

// KeyHash is the cache key component derived from model, preprocess version and dims
func (c Config) KeyHash() string {
	return cache.SHA256String(fmt.Sprintf("%s|%s|dims=%d", c.Model, c.PreprocessVersion, c.Dims))
}

// CacheSpec returns the cache expectation for a resume embedded with this configuration
func (c Config) CacheSpec(resumeHash string) cache.EmbeddingSpec {
	return cache.EmbeddingSpec{
		MasterResumeHash:  resumeHash,
		EmbedKeyHash:      c.KeyHash(),
		Model:             c.Model,
		Dims:              c.Dims,
		PreprocessVersion: c.PreprocessVersion,
	}
}

// DefaultThresholds returns the default relevance pruning thresholds
func DefaultThresholds() types.RelevanceThresholds {
	return types.RelevanceThresholds{
		MinScore:           DefaultMinScore,
		TopKPerRequirement: DefaultTopKPerRequirement,
		TopKPerBullet:      DefaultTopKPerBullet,
	}
}
