package embedding

import (
	"context"
	"time"

	"github.com/jonathan/resume-selector/internal/cache"
	"github.com/jonathan/resume-selector/internal/experience"
	"github.com/jonathan/resume-selector/internal/types"
)

const previewLength = 180

// BuildResumeEmbeddings embeds every resume bullet after preprocessing
func BuildResumeEmbeddings(
	ctx context.Context,
	provider Provider,
	resume *types.Resume,
	resumeHash string,
	cfg Config,
) (*types.ResumeEmbeddings, error) {
	cfg = cfg.WithDefaults()
	bullets := experience.Bullets(resume)

	texts := make([]string, len(bullets))
	for i, b := range bullets {
		texts[i] = Preprocess(b.Text, cfg.PreprocessVersion)
	}

	vectors, err := EmbedTexts(ctx, provider, texts, cfg)
	if err != nil {
		return nil, err
	}

	out := &types.ResumeEmbeddings{
		Version:           types.ResumeEmbeddingsVersion,
		MasterResumeHash:  resumeHash,
		EmbeddingModel:    cfg.Model,
		Dims:              cfg.Dims,
		PreprocessVersion: cfg.PreprocessVersion,
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
		Bullets:           make([]types.BulletEmbedding, 0, len(bullets)),
	}
	for i, b := range bullets {
		out.Bullets = append(out.Bullets, types.BulletEmbedding{
			BulletID:    b.BulletID,
			TextHash:    cache.Prefixed(cache.SHA256String(texts[i])),
			TextPreview: preview(texts[i], previewLength),
			Vector:      vectors[i],
		})
	}
	return out, nil
}

// ResumeResult is the outcome of ComputeResumeEmbeddings
type ResumeResult struct {
	Embeddings *types.ResumeEmbeddings
	CacheHit   bool
	CachePath  string
	ComputeMs  int64
}

// ComputeResumeEmbeddings returns resume embeddings from the cache when a valid entry
// exists, otherwise embeds the resume and stores the result. store may be nil.
func ComputeResumeEmbeddings(
	ctx context.Context,
	provider Provider,
	resume *types.Resume,
	resumeHash string,
	cfg Config,
	store *cache.EmbeddingCache,
	runID string,
) (*ResumeResult, error) {
	cfg = cfg.WithDefaults()
	started := time.Now()

	compute := func(ctx context.Context) (*types.ResumeEmbeddings, error) {
		emb, err := BuildResumeEmbeddings(ctx, provider, resume, resumeHash, cfg)
		if err != nil {
			return nil, err
		}
		emb.RunID = runID
		return emb, nil
	}

	if store == nil {
		emb, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		return &ResumeResult{Embeddings: emb, ComputeMs: time.Since(started).Milliseconds()}, nil
	}

	spec := cfg.CacheSpec(resumeHash)
	emb, hit, err := store.GetOrCompute(ctx, spec, compute)
	if err != nil {
		return nil, err
	}

	result := &ResumeResult{
		Embeddings: emb,
		CacheHit:   hit,
		CachePath:  store.Location(spec),
	}
	if !hit {
		result.ComputeMs = time.Since(started).Milliseconds()
	}
	return result, nil
}
