package evidence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-selector/internal/cache"
	"github.com/jonathan/resume-selector/internal/experience"
	"github.com/jonathan/resume-selector/internal/logger"
	"github.com/jonathan/resume-selector/internal/types"
	"github.com/jonathan/resume-selector/internal/workspace"
)

// StageName identifies the evidence stage in logs and errors
const StageName = "evidence"

// StageOptions configures RunStage
type StageOptions struct {
	RunID      string
	ResumePath string
	RulesPath  string
	// Workspace receives evidence_scores.json when set
	Workspace *workspace.Dir
	// Cache is consulted before scoring when set
	Cache  *cache.EvidenceCache
	Logger *zap.Logger
}

// StageResult is the outcome of the evidence stage
type StageResult struct {
	Scores     *types.EvidenceScores
	Resume     *types.Resume
	ResumeRaw  []byte
	ResumeHash string
	RulesHash  string
	CacheHit   bool
	CachePath  string
	ComputeMs  int64
}

// RunStage loads the master resume and rules, then scores every bullet or reuses
// cached scores for the same (resume hash, rules hash) pair
func RunStage(ctx context.Context, opts StageOptions) (*StageResult, error) {
	started := time.Now()
	log := logger.ForStage(opts.Logger, StageName, opts.RunID)

	master, raw, err := experience.LoadMasterResume(opts.ResumePath)
	if err != nil {
		return nil, err
	}
	resume, err := experience.Normalize(master)
	if err != nil {
		return nil, err
	}
	resumeHash, err := cache.ResumeHash(raw)
	if err != nil {
		return nil, &Error{Message: "failed to hash master resume", Cause: err}
	}

	rules, rulesHash, err := LoadRules(opts.RulesPath)
	if err != nil {
		return nil, err
	}

	compute := func(context.Context) (*types.EvidenceScores, error) {
		scores, err := ScoreResume(resume, rules)
		if err != nil {
			return nil, err
		}
		scores.RunID = opts.RunID
		scores.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
		scores.ResumeHash = resumeHash
		scores.RulesHash = rulesHash
		return scores, nil
	}

	result := &StageResult{Resume: resume, ResumeRaw: raw, ResumeHash: resumeHash, RulesHash: rulesHash}
	if opts.Cache != nil {
		result.Scores, result.CacheHit, err = opts.Cache.GetOrCompute(ctx, resumeHash, rulesHash, compute)
		if err != nil {
			return nil, err
		}
		result.CachePath = opts.Cache.Location(resumeHash, rulesHash)
	} else {
		result.Scores, err = compute(ctx)
		if err != nil {
			return nil, err
		}
	}
	if result.CacheHit {
		result.Scores.RunID = opts.RunID
	}

	if opts.Workspace != nil {
		if _, err := opts.Workspace.WriteJSON(workspace.FileEvidenceScores, result.Scores); err != nil {
			return nil, err
		}
	}

	result.ComputeMs = time.Since(started).Milliseconds()
	log.Info("evidence scores ready",
		zap.Bool(logger.FieldCacheHit, result.CacheHit),
		zap.String(logger.FieldResumeHash, resumeHash),
		zap.Int("bullets", len(result.Scores.Bullets)),
		zap.Int("strong", result.Scores.Summary.Strong),
		zap.Int64("compute_ms", result.ComputeMs))
	return result, nil
}
