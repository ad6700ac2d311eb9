package cache

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/resume-selector/internal/schemas"
	"github.com/jonathan/resume-selector/internal/types"
)

// EvidenceCache stores evidence scores keyed by (resume hash, rules hash)
type EvidenceCache struct {
	store  Store
	logger *zap.Logger
	group  singleflight.Group
}

// NewEvidenceCache creates an evidence cache over store
func NewEvidenceCache(store Store, logger *zap.Logger) *EvidenceCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvidenceCache{store: store, logger: logger}
}

// EvidenceKey addresses evidence_scores.json for a resume and rules pair
func EvidenceKey(resumeHash, rulesHash string) Key {
	return Key{
		Namespace: NamespaceEvidence,
		Parts:     []string{bareHash(resumeHash), bareHash(rulesHash)},
		File:      EvidenceFile,
	}
}

// Location returns where the entry for a resume and rules pair lives
func (c *EvidenceCache) Location(resumeHash, rulesHash string) string {
	return c.store.Location(EvidenceKey(resumeHash, rulesHash))
}

// Read looks up cached scores
func (c *EvidenceCache) Read(ctx context.Context, resumeHash, rulesHash string) (Lookup[types.EvidenceScores], error) {
	return readEntry[types.EvidenceScores](ctx, c.store, EvidenceKey(resumeHash, rulesHash), schemas.EvidenceScores, nil)
}

// Write stores scores and their manifest and returns the payload location
func (c *EvidenceCache) Write(ctx context.Context, resumeHash, rulesHash string, scores *types.EvidenceScores) (string, error) {
	key := EvidenceKey(resumeHash, rulesHash)
	manifest := EvidenceManifest{
		ResumeHash:        bareHash(resumeHash),
		RulesHash:         bareHash(rulesHash),
		CachedAt:          nowStamp(),
		SourceRunID:       scores.RunID,
		SourceGeneratedAt: scores.GeneratedAt,
	}
	if err := writeEntry(ctx, c.store, key, scores, manifest); err != nil {
		return "", err
	}
	return c.store.Location(key), nil
}

// GetOrCompute returns cached scores or computes, stores and returns them.
// Concurrent callers for the same key share one computation. The boolean
// reports a cache hit.
func (c *EvidenceCache) GetOrCompute(
	ctx context.Context,
	resumeHash, rulesHash string,
	compute func(ctx context.Context) (*types.EvidenceScores, error),
) (*types.EvidenceScores, bool, error) {
	lookup, err := c.Read(ctx, resumeHash, rulesHash)
	if err != nil {
		return nil, false, err
	}
	if lookup.Hit() {
		return lookup.Data, true, nil
	}
	if lookup.Reason != ReasonMissing {
		c.logger.Warn("ignoring unusable evidence cache entry",
			zap.String("path", lookup.Path),
			zap.String("reason", lookup.Reason),
			zap.Strings("errors", lookup.Errors))
	}

	key := EvidenceKey(resumeHash, rulesHash)
	result, err, _ := c.group.Do(key.String(), func() (any, error) {
		scores, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := c.Write(ctx, resumeHash, rulesHash, scores); err != nil {
			c.logger.Warn("failed to write evidence cache", zap.Error(err))
		}
		return scores, nil
	})
	if err != nil {
		return nil, false, err
	}
	return result.(*types.EvidenceScores), false, nil
}
