package embedding

import (
	"context"

	"github.com/jonathan/resume-selector/internal/cache"
	"github.com/jonathan/resume-selector/internal/types"
)

// BuildRequirementEmbeddings embeds every rubric requirement in rubric order
func BuildRequirementEmbeddings(
	ctx context.Context,
	provider Provider,
	requirements []types.Requirement,
	cfg Config,
) (*types.RequirementEmbeddings, error) {
	cfg = cfg.WithDefaults()

	texts := make([]string, len(requirements))
	for i, r := range requirements {
		texts[i] = Preprocess(r.Statement(), cfg.PreprocessVersion)
	}

	vectors, err := EmbedTexts(ctx, provider, texts, cfg)
	if err != nil {
		return nil, err
	}

	out := &types.RequirementEmbeddings{
		Version:           types.RequirementEmbeddingsVersion,
		EmbeddingModel:    cfg.Model,
		Dims:              cfg.Dims,
		PreprocessVersion: cfg.PreprocessVersion,
		Requirements:      make([]types.RequirementEmbedding, 0, len(requirements)),
	}
	for i, r := range requirements {
		out.Requirements = append(out.Requirements, types.RequirementEmbedding{
			ReqID:    r.ReqID,
			Type:     r.Type,
			Weight:   r.Weight,
			TextHash: cache.Prefixed(cache.SHA256String(texts[i])),
			Text:     texts[i],
			Vector:   vectors[i],
		})
	}
	return out, nil
}
