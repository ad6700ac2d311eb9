package embedding

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-selector/internal/observability"
)

// EmbedTexts embeds texts in chunks of cfg.ChunkSize, running up to cfg.Concurrency
// chunks at once. Results keep input order and every vector must have cfg.Dims entries.
func EmbedTexts(ctx context.Context, provider Provider, texts []string, cfg Config) ([][]float64, error) {
	cfg = cfg.WithDefaults()
	vectors := make([][]float64, len(texts))
	if len(texts) == 0 {
		return vectors, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	for start := 0; start < len(texts); start += cfg.ChunkSize {
		end := min(start+cfg.ChunkSize, len(texts))
		chunk := texts[start:end]
		offset := start

		g.Go(func() error {
			out, err := provider.Embed(gctx, chunk)
			if err != nil {
				observability.EmbeddingRequestsTotal.WithLabelValues(provider.Name(), "error").Inc()
				return err
			}
			observability.EmbeddingRequestsTotal.WithLabelValues(provider.Name(), "ok").Inc()

			if len(out) != len(chunk) {
				return &Error{Message: fmt.Sprintf("provider returned %d vectors for %d texts", len(out), len(chunk))}
			}
			for i, vector := range out {
				if len(vector) != cfg.Dims {
					return &Error{Message: fmt.Sprintf("Embedding dimension mismatch: expected %d, got %d", cfg.Dims, len(vector))}
				}
				vectors[offset+i] = vector
			}
			observability.EmbeddedTextsTotal.WithLabelValues(provider.Name()).Add(float64(len(chunk)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
