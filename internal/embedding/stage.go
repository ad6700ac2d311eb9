package embedding

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-selector/internal/cache"
	"github.com/jonathan/resume-selector/internal/logger"
	"github.com/jonathan/resume-selector/internal/schemas"
	"github.com/jonathan/resume-selector/internal/types"
	"github.com/jonathan/resume-selector/internal/workspace"
)

// StageOptions configures RunStage
type StageOptions struct {
	RunID      string
	Workspace  *workspace.Dir
	Resume     *types.Resume
	ResumeHash string
	Config     Config
	Thresholds types.RelevanceThresholds
	Provider   Provider
	// Cache holds resume embeddings across runs; nil disables caching
	Cache  *cache.EmbeddingCache
	Logger *zap.Logger
}

// StageResult is the outcome of the embedding stage
type StageResult struct {
	ResumeEmbeddings      *types.ResumeEmbeddings
	RequirementEmbeddings *types.RequirementEmbeddings
	Matrix                *types.RelevanceMatrix
	Summary               *types.RelevanceSummary
	CacheHit              bool
	CachePath             string
	ComputeMs             int64
}

// RunStage embeds the resume and the workspace rubric, then writes the requirement
// embeddings, relevance matrix and relevance summary into the workspace
func RunStage(ctx context.Context, opts StageOptions) (*StageResult, error) {
	started := time.Now()
	log := logger.ForStage(opts.Logger, StageName, opts.RunID)

	if opts.Provider == nil {
		return nil, &Error{Message: "no embedding provider configured"}
	}
	cfg := opts.Config.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	thresholds := opts.Thresholds
	if thresholds == (types.RelevanceThresholds{}) {
		thresholds = DefaultThresholds()
	}

	var rubric types.Rubric
	raw, err := opts.Workspace.ReadJSON(workspace.FileRubric, &rubric)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateArtifact(schemas.Rubric, raw); err != nil {
		return nil, &Error{Message: "invalid " + workspace.FileRubric, Cause: err}
	}

	resumeResult, err := ComputeResumeEmbeddings(ctx, opts.Provider, opts.Resume, opts.ResumeHash, cfg, opts.Cache, opts.RunID)
	if err != nil {
		return nil, err
	}
	log.Info("resume embeddings ready",
		zap.Bool(logger.FieldCacheHit, resumeResult.CacheHit),
		zap.String(logger.FieldResumeHash, opts.ResumeHash),
		zap.String("provider", opts.Provider.Name()),
		zap.Int("bullets", len(resumeResult.Embeddings.Bullets)))

	reqEmb, err := BuildRequirementEmbeddings(ctx, opts.Provider, rubric.Requirements, cfg)
	if err != nil {
		return nil, err
	}
	reqEmb.RunID = opts.RunID
	reqEmb.JobExtractedHash = opts.Workspace.JobExtractedHash(&rubric)
	reqEmb.RubricHash = workspace.RubricHash(&rubric, raw)

	matrix := BuildMatrix(resumeResult.Embeddings, reqEmb, thresholds)
	matrix.RunID = opts.RunID
	summary := BuildSummary(matrix, rubric.Requirements)

	if _, err := opts.Workspace.WriteJSON(workspace.FileRequirementEmbeddings, reqEmb); err != nil {
		return nil, err
	}
	if _, err := opts.Workspace.WriteJSON(workspace.FileRelevanceMatrix, matrix); err != nil {
		return nil, err
	}
	if _, err := opts.Workspace.WriteJSON(workspace.FileRelevanceSummary, summary); err != nil {
		return nil, err
	}

	result := &StageResult{
		ResumeEmbeddings:      resumeResult.Embeddings,
		RequirementEmbeddings: reqEmb,
		Matrix:                matrix,
		Summary:               summary,
		CacheHit:              resumeResult.CacheHit,
		CachePath:             resumeResult.CachePath,
		ComputeMs:             time.Since(started).Milliseconds(),
	}
	log.Info("relevance matrix ready",
		zap.Int("requirements", len(rubric.Requirements)),
		zap.Float64("min_score", thresholds.MinScore),
		zap.Int64("compute_ms", result.ComputeMs))
	return result, nil
}
