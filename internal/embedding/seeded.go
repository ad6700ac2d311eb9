package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand/v2"
)

// SeededProvider derives a deterministic pseudo-random vector from each text.
// It is used for offline runs and tests.
type SeededProvider struct {
	dims int
}

// NewSeededProvider creates a seeded provider producing dims-length vectors
func NewSeededProvider(dims int) *SeededProvider {
	return &SeededProvider{dims: dims}
}

// Name returns the provider name
func (p *SeededProvider) Name() string {
	return ProviderSeeded
}

// Embed returns one seeded vector per text
func (p *SeededProvider) Embed(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = SeededVector(text, p.dims)
	}
	return vectors, nil
}

// SeededVector returns dims values in [-1, 1], rounded to six decimals, seeded from
// the sha256 of text
func SeededVector(text string, dims int) []float64 {
	seed := sha256.Sum256([]byte(text))
	rng := rand.New(rand.NewPCG(binary.BigEndian.Uint64(seed[0:8]), binary.BigEndian.Uint64(seed[8:16])))

	vector := make([]float64, dims)
	for i := range vector {
		v := rng.Float64()*2 - 1
		vector[i] = math.Round(v*1e6) / 1e6
	}
	return vector
}
