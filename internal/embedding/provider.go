package embedding

import (
	"context"
	"fmt"
	"strings"
)

// Provider names
const (
	ProviderSeeded = "seeded"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Provider turns texts into vectors, one per text in input order
type Provider interface {
	Name() string
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// ProviderOptions selects and configures a provider
type ProviderOptions struct {
	// Name is seeded, openai or gemini; empty means openai
	Name    string
	APIKey  string
	BaseURL string
	Model   string
	Dims    int
	// MockMode forces the seeded provider regardless of Name
	MockMode bool
}

// NewProvider builds the provider described by opts
func NewProvider(ctx context.Context, opts ProviderOptions) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(opts.Name))
	if opts.MockMode || name == ProviderSeeded {
		return NewSeededProvider(opts.Dims), nil
	}

	switch name {
	case "", ProviderOpenAI:
		if opts.APIKey == "" {
			return nil, &Error{Message: "OPENAI_API_KEY is not set for embeddings"}
		}
		return NewOpenAIProvider(opts.APIKey, opts.BaseURL, opts.Model, opts.Dims), nil
	case ProviderGemini:
		if opts.APIKey == "" {
			return nil, &Error{Message: "GEMINI_API_KEY is not set for embeddings"}
		}
		return NewGeminiProvider(ctx, opts.APIKey, opts.Model)
	default:
		return nil, &Error{Message: fmt.Sprintf("unknown embedding provider %q", opts.Name)}
	}
}
