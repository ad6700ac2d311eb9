// Package pipeline provides the high-level orchestration of the selection process:
// evidence scoring, embeddings and relevance, then bullet selection.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-selector/internal/cache"
	"github.com/jonathan/resume-selector/internal/config"
	"github.com/jonathan/resume-selector/internal/db"
	"github.com/jonathan/resume-selector/internal/embedding"
	"github.com/jonathan/resume-selector/internal/evidence"
	"github.com/jonathan/resume-selector/internal/experience"
	"github.com/jonathan/resume-selector/internal/logger"
	"github.com/jonathan/resume-selector/internal/observability"
	"github.com/jonathan/resume-selector/internal/pipeline/steps"
	"github.com/jonathan/resume-selector/internal/selection"
	"github.com/jonathan/resume-selector/internal/types"
	"github.com/jonathan/resume-selector/internal/workspace"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Recorder persists run status, step status and stage artifacts. *db.DB satisfies it.
type Recorder interface {
	CreateRun(ctx context.Context, input db.RunInput) (uuid.UUID, error)
	SetRunResumeHash(ctx context.Context, runID uuid.UUID, resumeHash string) error
	CompleteRun(ctx context.Context, runID uuid.UUID, status, message string) error
	SaveArtifact(ctx context.Context, runID uuid.UUID, step, category string, content any) error
	CreateRunStep(ctx context.Context, runID uuid.UUID, input *db.RunStepInput) (*db.RunStep, error)
	UpdateRunStepStatus(ctx context.Context, runID uuid.UUID, stepName, status string, errorMsg *string) error
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	// RunID names the run directory; a new uuid is used when empty
	RunID string
	// WorkspaceDir overrides RunsDir/RunID as the run directory
	WorkspaceDir string
	RunsDir      string
	ResumePath   string
	// RubricPath is copied into the run directory when set
	RubricPath string
	RulesPath  string

	SelectionConfigPath string
	// SelectionConfig takes precedence over SelectionConfigPath
	SelectionConfig *types.SelectionConfig

	Embedding  embedding.Config
	Thresholds types.RelevanceThresholds
	Provider   embedding.Provider
	// Store backs the evidence and embedding caches; nil disables caching
	Store cache.Store

	// From starts the run at the named step; earlier outputs must already exist
	From string

	Recorder   Recorder
	Logger     *zap.Logger
	Verbose    bool
	Out        io.Writer
	OnProgress ProgressCallback
}

// RunResult holds the outputs of every stage that ran
type RunResult struct {
	RunID      string
	Workspace  *workspace.Dir
	Evidence   *evidence.StageResult
	Embeddings *embedding.StageResult
	Selection  *selection.StageResult
}

// StageError wraps the failure of a single pipeline stage
type StageError struct {
	Stage string
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

var stepTitles = map[string]string{
	steps.StepScoreEvidence: "Scoring bullet evidence",
	steps.StepEmbed:         "Embedding resume and requirements",
	steps.StepSelect:        "Selecting bullets",
}

type runner struct {
	opts     RunOptions
	ws       *workspace.Dir
	log      *zap.Logger
	out      io.Writer
	printer  *observability.Printer
	runID    string
	recordID uuid.UUID

	evidenceCache  *cache.EvidenceCache
	embeddingCache *cache.EmbeddingCache
}

// Run executes the pipeline stages in order, starting at opts.From when set.
// Each stage failure is returned as a *StageError and recorded as the run status.
func Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	r, err := newRunner(opts)
	if err != nil {
		return nil, err
	}

	toRun, err := steps.StepsFrom(opts.From)
	if err != nil {
		return nil, err
	}
	if err := steps.ValidateDependencies(r.ws, toRun[0]); err != nil {
		return nil, err
	}

	// 1. Selection configuration is checked before any stage runs
	selectionConfig, configHash, err := loadSelectionConfig(opts)
	if err != nil {
		return nil, &StageError{Stage: steps.StepSelect, Cause: err}
	}

	// 2. Run directory inputs
	if err := r.prepareWorkspace(); err != nil {
		return nil, err
	}
	r.beginRecord(ctx, configHash)

	result := &RunResult{RunID: r.runID, Workspace: r.ws}
	for i, step := range toRun {
		var stageErr error
		switch step {
		case steps.StepScoreEvidence:
			stageErr = r.execute(ctx, i+1, len(toRun), step, func(ctx context.Context) (string, any, error) {
				res, err := r.scoreEvidence(ctx)
				if err != nil {
					return "", nil, err
				}
				result.Evidence = res
				return fmt.Sprintf("Scored %d bullets (%d strong)", res.Scores.Summary.Count, res.Scores.Summary.Strong),
					res.Scores.Summary, nil
			})
		case steps.StepEmbed:
			stageErr = r.execute(ctx, i+1, len(toRun), step, func(ctx context.Context) (string, any, error) {
				res, err := r.embed(ctx, result.Evidence)
				if err != nil {
					return "", nil, err
				}
				result.Embeddings = res
				return fmt.Sprintf("Built relevance for %d requirements", res.Summary.RequirementsCount),
					res.Summary, nil
			})
		case steps.StepSelect:
			stageErr = r.execute(ctx, i+1, len(toRun), step, func(ctx context.Context) (string, any, error) {
				res, err := r.selectBullets(ctx, selectionConfig, configHash, result.Embeddings)
				if err != nil {
					return "", nil, err
				}
				result.Selection = res
				return fmt.Sprintf("Covered %d/%d must requirements", res.Meta.MustCovered, res.Meta.MustTotal),
					res.Meta, nil
			})
		}
		if stageErr != nil {
			r.completeRecord(ctx, db.RunStatusFailed, stageErr.Error())
			return result, stageErr
		}
	}

	r.completeRecord(ctx, db.RunStatusCompleted, "")
	fmt.Fprintf(r.out, "Done! Selection plan written to %s\n", r.ws.Join(workspace.FileSelectionPlan))
	return result, nil
}

func newRunner(opts RunOptions) (*runner, error) {
	if opts.ResumePath == "" {
		return nil, fmt.Errorf("resume path is required")
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.New().String()
	}
	dir := opts.WorkspaceDir
	if dir == "" {
		if opts.RunsDir == "" {
			return nil, fmt.Errorf("either a workspace directory or a runs directory is required")
		}
		dir = filepath.Join(opts.RunsDir, runID)
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	r := &runner{
		opts:    opts,
		ws:      workspace.New(dir),
		log:     logger.WithFields(opts.Logger, zap.String(logger.FieldRunID, runID)),
		out:     out,
		printer: observability.NewPrinter(out),
		runID:   runID,
	}
	if opts.Store != nil {
		r.evidenceCache = cache.NewEvidenceCache(opts.Store, opts.Logger)
		r.embeddingCache = cache.NewEmbeddingCache(opts.Store, opts.Logger)
	}
	return r, nil
}

func loadSelectionConfig(opts RunOptions) (*types.SelectionConfig, string, error) {
	if opts.SelectionConfig == nil {
		return config.LoadSelectionConfig(opts.SelectionConfigPath)
	}
	if err := config.ValidateSelectionConfig(opts.SelectionConfig); err != nil {
		return nil, "", err
	}
	hash, err := config.SelectionConfigHash(opts.SelectionConfig)
	if err != nil {
		return nil, "", err
	}
	return opts.SelectionConfig, hash, nil
}

// prepareWorkspace copies the rubric and the baseline resume into the run directory
func (r *runner) prepareWorkspace() error {
	if r.opts.RubricPath != "" {
		data, err := os.ReadFile(r.opts.RubricPath)
		if err != nil {
			return fmt.Errorf("failed to read rubric: %w", err)
		}
		if err := r.ws.WriteRaw(workspace.FileRubric, data); err != nil {
			return err
		}
	}
	if !r.ws.Exists(workspace.FileBaselineResume) {
		data, err := os.ReadFile(r.opts.ResumePath)
		if err != nil {
			return fmt.Errorf("failed to read master resume: %w", err)
		}
		if err := r.ws.WriteRaw(workspace.FileBaselineResume, data); err != nil {
			return err
		}
	}
	return nil
}

// execute runs one stage with progress output, metrics and step records
func (r *runner) execute(ctx context.Context, index, total int, step string, fn func(context.Context) (string, any, error)) error {
	def := steps.StepRegistry[step]
	fmt.Fprintf(r.out, "Step %d/%d: %s...\n", index, total, stepTitles[step])
	r.recordStep(ctx, def, db.StepStatusInProgress, nil)

	started := time.Now()
	message, content, err := fn(ctx)
	observability.StageDuration.WithLabelValues(step).Observe(time.Since(started).Seconds())
	if err != nil {
		observability.StageTotal.WithLabelValues(step, "error").Inc()
		msg := err.Error()
		r.recordStep(ctx, def, db.StepStatusFailed, &msg)
		r.log.Error("stage failed", zap.String(logger.FieldStage, step), zap.Error(err))
		return &StageError{Stage: step, Cause: err}
	}

	observability.StageTotal.WithLabelValues(step, "ok").Inc()
	r.recordStep(ctx, def, db.StepStatusCompleted, nil)
	r.emit(step, def.Category, message, content)
	return nil
}

func (r *runner) emit(step, category, message string, content any) {
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			RunID:    r.runID,
			Content:  content,
		})
	}
}

func (r *runner) scoreEvidence(ctx context.Context) (*evidence.StageResult, error) {
	res, err := evidence.RunStage(ctx, evidence.StageOptions{
		RunID:      r.runID,
		ResumePath: r.opts.ResumePath,
		RulesPath:  r.opts.RulesPath,
		Workspace:  r.ws,
		Cache:      r.evidenceCache,
		Logger:     r.opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	if r.opts.Verbose {
		r.printer.PrintEvidenceSummary(res.Scores)
	}
	if r.recording() {
		if err := r.opts.Recorder.SetRunResumeHash(ctx, r.recordID, res.ResumeHash); err != nil {
			r.log.Warn("failed to record resume hash", zap.Error(err))
		}
	}
	r.saveArtifact(ctx, db.StepEvidenceScores, db.StepCategoryEvidence, res.Scores)
	return res, nil
}

func (r *runner) embed(ctx context.Context, prior *evidence.StageResult) (*embedding.StageResult, error) {
	var resume *types.Resume
	var resumeHash string
	if prior != nil {
		resume, resumeHash = prior.Resume, prior.ResumeHash
	} else {
		master, raw, err := experience.LoadMasterResume(r.opts.ResumePath)
		if err != nil {
			return nil, err
		}
		if resume, err = experience.Normalize(master); err != nil {
			return nil, err
		}
		if resumeHash, err = cache.ResumeHash(raw); err != nil {
			return nil, fmt.Errorf("failed to hash master resume: %w", err)
		}
	}

	res, err := embedding.RunStage(ctx, embedding.StageOptions{
		RunID:      r.runID,
		Workspace:  r.ws,
		Resume:     resume,
		ResumeHash: resumeHash,
		Config:     r.opts.Embedding,
		Thresholds: r.opts.Thresholds,
		Provider:   r.opts.Provider,
		Cache:      r.embeddingCache,
		Logger:     r.opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	if r.opts.Verbose {
		r.printer.PrintRelevanceSummary(res.Summary)
	}
	r.saveArtifact(ctx, db.StepRequirementEmbeddings, db.StepCategoryEmbeddings, res.RequirementEmbeddings)
	r.saveArtifact(ctx, db.StepRelevanceMatrix, db.StepCategoryEmbeddings, res.Matrix)
	r.saveArtifact(ctx, db.StepRelevanceSummary, db.StepCategoryEmbeddings, res.Summary)
	return res, nil
}

func (r *runner) selectBullets(
	ctx context.Context,
	cfg *types.SelectionConfig,
	configHash string,
	prior *embedding.StageResult,
) (*selection.StageResult, error) {
	opts := selection.StageOptions{
		RunID:          r.runID,
		Workspace:      r.ws,
		Config:         cfg,
		ConfigHash:     configHash,
		Embedding:      r.opts.Embedding,
		EmbeddingCache: r.embeddingCache,
		Logger:         r.opts.Logger,
	}
	if prior != nil {
		opts.ResumeEmbeddings = prior.ResumeEmbeddings
	}

	res, err := selection.RunStage(ctx, opts)
	if err != nil {
		return nil, err
	}
	if r.opts.Verbose {
		r.printer.PrintSelectionPlan(res.Plan)
		r.printer.PrintUncovered(res.Plan)
	}
	r.saveArtifact(ctx, db.StepSelectionPlan, db.StepCategorySelection, res.Plan)
	r.saveArtifact(ctx, db.StepSelectionDebug, db.StepCategorySelection, res.Debug)
	return res, nil
}

func (r *runner) recording() bool {
	return r.opts.Recorder != nil && r.recordID != uuid.Nil
}

// beginRecord creates the run record. Persistence failures never fail the run.
func (r *runner) beginRecord(ctx context.Context, configHash string) {
	if r.opts.Recorder == nil {
		return
	}
	id, _ := uuid.Parse(r.runID)
	recordID, err := r.opts.Recorder.CreateRun(ctx, db.RunInput{
		ID:         id,
		ResumePath: r.opts.ResumePath,
		ConfigHash: configHash,
	})
	if err != nil {
		r.log.Warn("failed to create run record, continuing without persistence", zap.Error(err))
		return
	}
	r.recordID = recordID
}

func (r *runner) completeRecord(ctx context.Context, status, message string) {
	if !r.recording() {
		return
	}
	if err := r.opts.Recorder.CompleteRun(ctx, r.recordID, status, message); err != nil {
		r.log.Warn("failed to complete run record", zap.Error(err))
	}
}

func (r *runner) recordStep(ctx context.Context, def steps.StepDefinition, status string, errorMsg *string) {
	if !r.recording() {
		return
	}
	var err error
	if status == db.StepStatusInProgress {
		_, err = r.opts.Recorder.CreateRunStep(ctx, r.recordID, &db.RunStepInput{
			Step:     def.Name,
			Category: def.Category,
			Status:   status,
			Parameters: map[string]any{
				"workspace": r.ws.Path(),
				"from":      r.opts.From,
			},
		})
	} else {
		err = r.opts.Recorder.UpdateRunStepStatus(ctx, r.recordID, def.Name, status, errorMsg)
	}
	if err != nil {
		r.log.Warn("failed to record step", zap.String(logger.FieldStage, def.Name), zap.Error(err))
	}
}

func (r *runner) saveArtifact(ctx context.Context, step, category string, content any) {
	if !r.recording() {
		return
	}
	if err := r.opts.Recorder.SaveArtifact(ctx, r.recordID, step, category, content); err != nil {
		r.log.Warn("failed to save artifact", zap.String("artifact", step), zap.Error(err))
	}
}
