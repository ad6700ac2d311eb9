package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-selector/internal/cache"
	"github.com/jonathan/resume-selector/internal/evidence"
	"github.com/jonathan/resume-selector/internal/observability"
	"github.com/jonathan/resume-selector/internal/workspace"
)

var scoreEvidenceCmd = &cobra.Command{
	Use:   "score-evidence",
	Short: "Score every resume bullet for evidence strength",
	Long:  "Scores each bullet of a master resume with the lexical evidence rules and writes evidence_scores.json into the run workspace. Scores are cached per (resume, rules) pair.",
	RunE:  runScoreEvidence,
}

var (
	scoreEvidenceResume    string
	scoreEvidenceRules     string
	scoreEvidenceWorkspace string
	scoreEvidenceRunID     string
	scoreEvidenceNoCache   bool
	scoreEvidenceVerbose   bool
)

func init() {
	scoreEvidenceCmd.Flags().StringVarP(&scoreEvidenceResume, "resume", "r", "", "Path to master resume JSON file (required)")
	scoreEvidenceCmd.Flags().StringVar(&scoreEvidenceRules, "rules", "", "Path to evidence rules JSON (defaults to rules_path setting)")
	scoreEvidenceCmd.Flags().StringVarP(&scoreEvidenceWorkspace, "workspace", "w", "", "Run workspace directory")
	scoreEvidenceCmd.Flags().StringVar(&scoreEvidenceRunID, "run-id", "", "Run id (workspace is <runs_dir>/<run id>)")
	scoreEvidenceCmd.Flags().BoolVar(&scoreEvidenceNoCache, "no-cache", false, "Always recompute scores")
	scoreEvidenceCmd.Flags().BoolVarP(&scoreEvidenceVerbose, "verbose", "v", false, "Print a summary of the scores")

	if err := scoreEvidenceCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreEvidenceCmd)
}

func runScoreEvidence(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// 1. Workspace
	ws, runID, err := resolveWorkspace(scoreEvidenceWorkspace, scoreEvidenceRunID, settings.RunsDir, true)
	if err != nil {
		return err
	}
	rules := scoreEvidenceRules
	if rules == "" {
		rules = settings.RulesPath
	}

	// 2. Cache
	var evidenceCache *cache.EvidenceCache
	if !scoreEvidenceNoCache {
		store, closeStore, err := openStore(ctx, settings, log)
		if err != nil {
			return err
		}
		defer closeStore()
		evidenceCache = cache.NewEvidenceCache(store, log)
	}

	// 3. Score
	result, err := evidence.RunStage(ctx, evidence.StageOptions{
		RunID:      runID,
		ResumePath: scoreEvidenceResume,
		RulesPath:  rules,
		Workspace:  ws,
		Cache:      evidenceCache,
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("failed to score evidence: %w", err)
	}

	// 4. Baseline resume for later stages
	if !ws.Exists(workspace.FileBaselineResume) {
		if err := ws.WriteRaw(workspace.FileBaselineResume, result.ResumeRaw); err != nil {
			return err
		}
	}

	if scoreEvidenceVerbose {
		observability.NewPrinter(os.Stdout).PrintEvidenceSummary(result.Scores)
	}
	log.Debug("evidence stage finished", zap.String("cache_path", result.CachePath))

	_, _ = fmt.Fprintf(os.Stdout, "Scored %d bullets (cache hit: %t) to %s\n",
		result.Scores.Summary.Count, result.CacheHit, ws.Join(workspace.FileEvidenceScores))
	return nil
}
