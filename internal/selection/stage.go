package selection

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-selector/internal/cache"
	"github.com/jonathan/resume-selector/internal/config"
	"github.com/jonathan/resume-selector/internal/embedding"
	"github.com/jonathan/resume-selector/internal/experience"
	"github.com/jonathan/resume-selector/internal/logger"
	"github.com/jonathan/resume-selector/internal/observability"
	"github.com/jonathan/resume-selector/internal/schemas"
	"github.com/jonathan/resume-selector/internal/types"
	"github.com/jonathan/resume-selector/internal/workspace"
)

const missingEmbeddingsMessage = "Cached resume embeddings missing for redundancy checks"

// StageOptions configures RunStage
type StageOptions struct {
	RunID     string
	Workspace *workspace.Dir
	// ConfigPath is the selection configuration document; ignored when Config is set
	ConfigPath string
	Config     *types.SelectionConfig
	// ConfigHash is reported for Config; computed from Config when empty
	ConfigHash string
	// Embedding locates cached resume embeddings for redundancy checks
	Embedding      embedding.Config
	EmbeddingCache *cache.EmbeddingCache
	// ResumeEmbeddings bypasses the cache when set
	ResumeEmbeddings *types.ResumeEmbeddings
	Logger           *zap.Logger
}

// StageResult is the outcome of the selection stage
type StageResult struct {
	Plan      *types.SelectionPlan
	Debug     *types.SelectionDebug
	Meta      types.SelectionMeta
	PlanPath  string
	DebugPath string
}

// RunStage reads the rubric, evidence scores, relevance matrix and baseline resume
// from the workspace, runs selection and writes selection_plan.json and
// selection_debug.json. Any missing input aborts the stage before anything is written.
func RunStage(ctx context.Context, opts StageOptions) (*StageResult, error) {
	started := time.Now()
	log := logger.ForStage(opts.Logger, StageName, opts.RunID)

	// 1. Configuration is checked before any input is read
	cfg, configHash, err := loadStageConfig(opts)
	if err != nil {
		return nil, err
	}

	// 2. Required artifacts
	ws := opts.Workspace
	var rubric types.Rubric
	rubricRaw, err := readArtifact(ws, workspace.FileRubric, schemas.Rubric, &rubric)
	if err != nil {
		return nil, err
	}
	var evidence types.EvidenceScores
	if _, err := readArtifact(ws, workspace.FileEvidenceScores, schemas.EvidenceScores, &evidence); err != nil {
		return nil, err
	}
	var matrix types.RelevanceMatrix
	if _, err := readArtifact(ws, workspace.FileRelevanceMatrix, schemas.RelevanceMatrix, &matrix); err != nil {
		return nil, err
	}
	var master types.MasterResume
	baselineRaw, err := readArtifact(ws, workspace.FileBaselineResume, schemas.BaselineResume, &master)
	if err != nil {
		return nil, err
	}
	baseline, err := experience.Normalize(&master)
	if err != nil {
		return nil, &Error{Message: "invalid " + workspace.FileBaselineResume, Cause: err}
	}

	resumeHash := evidence.ResumeHash
	if resumeHash == "" {
		if resumeHash, err = cache.ResumeHash(baselineRaw); err != nil {
			return nil, &Error{Message: "failed to hash baseline resume", Cause: err}
		}
	}

	// 3. Resume vectors for redundancy checks
	embedCfg := opts.Embedding.WithDefaults()
	vectors, cachePath, err := loadVectors(ctx, opts, embedCfg, resumeHash)
	if err != nil {
		return nil, err
	}

	// 4. Selection
	in := Inputs{
		Requirements: rubric.Requirements,
		Evidence:     evidence.Bullets,
		Relevance:    NewRelevanceLookup(&matrix),
		Baseline:     baseline,
		Vectors:      vectors,
		Config:       *cfg,
	}
	out := Select(in)

	plan := BuildPlan(in, out)
	plan.RunID = opts.RunID
	plan.MasterResumeHash = cache.Prefixed(resumeHash)
	plan.JobExtractedHash = ws.JobExtractedHash(&rubric)
	plan.RubricHash = workspace.RubricHash(&rubric, rubricRaw)
	plan.EmbeddingModel = embedCfg.Model

	debug := &types.SelectionDebug{
		OrderedRequirements:   make([]string, 0, len(out.Ordered)),
		CandidateCounts:       out.CandidateCounts,
		SelectionDurationMs:   time.Since(started).Milliseconds(),
		ConfigHash:            configHash,
		ResumeEmbeddingsCache: cachePath,
		Passes:                out.Passes,
	}
	for _, req := range out.Ordered {
		debug.OrderedRequirements = append(debug.OrderedRequirements, req.ReqID)
	}

	// 5. Outputs
	planData, err := json.Marshal(plan)
	if err != nil {
		return nil, &Error{Message: "failed to encode selection plan", Cause: err}
	}
	if err := schemas.ValidateArtifact(schemas.SelectionPlan, planData); err != nil {
		return nil, &Error{Message: "selection plan failed validation", Cause: err}
	}
	if _, err := ws.WriteJSON(workspace.FileSelectionPlan, plan); err != nil {
		return nil, err
	}
	if _, err := ws.WriteJSON(workspace.FileSelectionDebug, debug); err != nil {
		return nil, err
	}

	result := &StageResult{
		Plan:      plan,
		Debug:     debug,
		PlanPath:  ws.Join(workspace.FileSelectionPlan),
		DebugPath: ws.Join(workspace.FileSelectionDebug),
		Meta: types.SelectionMeta{
			PlanVersion:       types.SelectionPlanVersion,
			PlanHash:          cache.Prefixed(cache.SHA256Hex(planData)),
			ConfigHash:        configHash,
			ComputeMs:         time.Since(started).Milliseconds(),
			MustCovered:       plan.Coverage.MustCovered,
			MustTotal:         plan.Coverage.MustTotal,
			ExperienceBullets: plan.BudgetsUsed.ExperienceBullets,
			ProjectBullets:    plan.BudgetsUsed.ProjectBullets,
		},
	}
	if plan.Coverage.MustTotal > 0 {
		observability.MustCoverageRatio.Set(float64(plan.Coverage.MustCovered) / float64(plan.Coverage.MustTotal))
	}

	log.Info("selection plan written",
		zap.String("path", result.PlanPath),
		zap.Int("must_covered", plan.Coverage.MustCovered),
		zap.Int("must_total", plan.Coverage.MustTotal),
		zap.Int("experience_bullets", plan.BudgetsUsed.ExperienceBullets),
		zap.Int("project_bullets", plan.BudgetsUsed.ProjectBullets),
		zap.Int("dropped_redundancy", len(plan.SelectionNotes.DroppedDueToRedundancy)),
		zap.Int("dropped_budget", len(plan.SelectionNotes.DroppedDueToBudget)),
		zap.Int64("compute_ms", result.Meta.ComputeMs))
	return result, nil
}

func loadStageConfig(opts StageOptions) (*types.SelectionConfig, string, error) {
	if opts.Config != nil {
		if err := config.ValidateSelectionConfig(opts.Config); err != nil {
			return nil, "", err
		}
		if opts.ConfigHash != "" {
			return opts.Config, opts.ConfigHash, nil
		}
		hash, err := config.SelectionConfigHash(opts.Config)
		if err != nil {
			return nil, "", err
		}
		return opts.Config, hash, nil
	}
	return config.LoadSelectionConfig(opts.ConfigPath)
}

// readArtifact decodes a required workspace artifact after checking its shape
func readArtifact(ws *workspace.Dir, name, schema string, v any) ([]byte, error) {
	raw, err := ws.ReadRaw(name)
	if err != nil {
		var missing *workspace.MissingArtifactError
		if errors.As(err, &missing) {
			return nil, &MissingArtifactError{Name: name}
		}
		return nil, &Error{Message: "failed to read " + name, Cause: err}
	}
	if err := schemas.ValidateArtifact(schema, raw); err != nil {
		return nil, &Error{Message: "invalid " + name, Cause: err}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, &Error{Message: "failed to decode " + name, Cause: err}
	}
	return raw, nil
}

func loadVectors(
	ctx context.Context,
	opts StageOptions,
	cfg embedding.Config,
	resumeHash string,
) (map[string][]float64, string, error) {
	if opts.ResumeEmbeddings != nil {
		return opts.ResumeEmbeddings.VectorLookup(), "", nil
	}
	if opts.EmbeddingCache == nil {
		return nil, "", &MissingArtifactError{Name: cache.EmbeddingsFile, Message: missingEmbeddingsMessage}
	}

	spec := cfg.CacheSpec(resumeHash)
	lookup, err := opts.EmbeddingCache.Read(ctx, spec)
	if err != nil {
		return nil, "", &Error{Message: "failed to read resume embeddings cache", Cause: err}
	}
	if !lookup.Hit() {
		return nil, "", &MissingArtifactError{Name: cache.EmbeddingsFile, Message: missingEmbeddingsMessage}
	}
	return lookup.Data.VectorLookup(), lookup.Path, nil
}
