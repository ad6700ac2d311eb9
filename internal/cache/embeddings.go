package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/resume-selector/internal/schemas"
	"github.com/jonathan/resume-selector/internal/types"
)

// EmbeddingSpec identifies the embedding configuration a cached entry must match
type EmbeddingSpec struct {
	MasterResumeHash  string
	EmbedKeyHash      string
	Model             string
	Dims              int
	PreprocessVersion string
}

// EmbeddingCache stores resume bullet embeddings keyed by (resume hash, embed key hash)
type EmbeddingCache struct {
	store  Store
	logger *zap.Logger
	group  singleflight.Group
}

// NewEmbeddingCache creates an embedding cache over store
func NewEmbeddingCache(store Store, logger *zap.Logger) *EmbeddingCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmbeddingCache{store: store, logger: logger}
}

// EmbeddingsKey addresses resume_bullet_embeddings.json for a spec
func EmbeddingsKey(spec EmbeddingSpec) Key {
	return Key{
		Namespace: NamespaceResumeBullets,
		Parts:     []string{bareHash(spec.MasterResumeHash), bareHash(spec.EmbedKeyHash)},
		File:      EmbeddingsFile,
	}
}

// Location returns where the entry for spec lives
func (c *EmbeddingCache) Location(spec EmbeddingSpec) string {
	return c.store.Location(EmbeddingsKey(spec))
}

// Read looks up cached embeddings and checks them against spec
func (c *EmbeddingCache) Read(ctx context.Context, spec EmbeddingSpec) (Lookup[types.ResumeEmbeddings], error) {
	return readEntry(ctx, c.store, EmbeddingsKey(spec), schemas.ResumeEmbeddings, func(e *types.ResumeEmbeddings) []string {
		return CheckEmbeddings(e, spec)
	})
}

// CheckEmbeddings lists every way cached embeddings disagree with spec
func CheckEmbeddings(e *types.ResumeEmbeddings, spec EmbeddingSpec) []string {
	var problems []string
	if e.Version != types.ResumeEmbeddingsVersion {
		problems = append(problems, fmt.Sprintf("version %q != %q", e.Version, types.ResumeEmbeddingsVersion))
	}
	if bareHash(e.MasterResumeHash) != bareHash(spec.MasterResumeHash) {
		problems = append(problems, "master_resume_hash mismatch")
	}
	if e.EmbeddingModel != spec.Model {
		problems = append(problems, fmt.Sprintf("embedding_model %q != %q", e.EmbeddingModel, spec.Model))
	}
	if e.Dims != spec.Dims {
		problems = append(problems, fmt.Sprintf("dims %d != %d", e.Dims, spec.Dims))
	}
	if e.PreprocessVersion != spec.PreprocessVersion {
		problems = append(problems, fmt.Sprintf("preprocess_version %q != %q", e.PreprocessVersion, spec.PreprocessVersion))
	}
	for i, b := range e.Bullets {
		if b.BulletID == "" {
			problems = append(problems, fmt.Sprintf("bullets[%d] missing bullet_id", i))
		}
		if b.TextHash == "" {
			problems = append(problems, fmt.Sprintf("bullets[%d] missing text_hash", i))
		}
		if len(b.Vector) != spec.Dims {
			problems = append(problems, fmt.Sprintf("bullets[%d] vector length %d != %d", i, len(b.Vector), spec.Dims))
		}
	}
	return problems
}

// Write stores embeddings and their manifest and returns the payload location
func (c *EmbeddingCache) Write(ctx context.Context, spec EmbeddingSpec, embeddings *types.ResumeEmbeddings) (string, error) {
	key := EmbeddingsKey(spec)
	manifest := EmbeddingsManifest{
		Version:           EmbeddingsManifestVersion,
		CachedAt:          nowStamp(),
		MasterResumeHash:  bareHash(spec.MasterResumeHash),
		EmbedKeyHash:      bareHash(spec.EmbedKeyHash),
		EmbeddingModel:    spec.Model,
		Dims:              spec.Dims,
		PreprocessVersion: spec.PreprocessVersion,
		SourceRunID:       embeddings.RunID,
	}
	if err := writeEntry(ctx, c.store, key, embeddings, manifest); err != nil {
		return "", err
	}
	return c.store.Location(key), nil
}

// GetOrCompute returns cached embeddings or computes, stores and returns them.
// The boolean reports a cache hit.
func (c *EmbeddingCache) GetOrCompute(
	ctx context.Context,
	spec EmbeddingSpec,
	compute func(ctx context.Context) (*types.ResumeEmbeddings, error),
) (*types.ResumeEmbeddings, bool, error) {
	lookup, err := c.Read(ctx, spec)
	if err != nil {
		return nil, false, err
	}
	if lookup.Hit() {
		return lookup.Data, true, nil
	}
	if lookup.Reason != ReasonMissing {
		c.logger.Warn("ignoring unusable embedding cache entry",
			zap.String("path", lookup.Path),
			zap.String("reason", lookup.Reason),
			zap.Strings("errors", lookup.Errors))
	}

	key := EmbeddingsKey(spec)
	result, err, _ := c.group.Do(key.String(), func() (any, error) {
		embeddings, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := c.Write(ctx, spec, embeddings); err != nil {
			c.logger.Warn("failed to write embedding cache", zap.Error(err))
		}
		return embeddings, nil
	})
	if err != nil {
		return nil, false, err
	}
	return result.(*types.ResumeEmbeddings), false, nil
}
