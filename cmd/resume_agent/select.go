package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-selector/internal/cache"
	"github.com/jonathan/resume-selector/internal/observability"
	"github.com/jonathan/resume-selector/internal/selection"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select resume bullets for the job requirements",
	Long: `Reads jd_rubric.json, evidence_scores.json, relevance_matrix.json and baseline_resume.json from the run
workspace and writes selection_plan.json and selection_debug.json. Resume vectors for redundancy checks come
from the embedding cache. Stage metadata is printed as JSON.`,
	RunE: runSelect,
}

var (
	selectWorkspace string
	selectRunID     string
	selectConfig    string
	selectVerbose   bool
)

func init() {
	selectCmd.Flags().StringVarP(&selectWorkspace, "workspace", "w", "", "Run workspace directory")
	selectCmd.Flags().StringVar(&selectRunID, "run-id", "", "Run id (workspace is <runs_dir>/<run id>)")
	selectCmd.Flags().StringVar(&selectConfig, "selection-config", "", "Path to selection config JSON (defaults to selection_config_path setting)")
	selectCmd.Flags().BoolVarP(&selectVerbose, "verbose", "v", false, "Print the selected bullets and uncovered requirements")

	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	ws, runID, err := resolveWorkspace(selectWorkspace, selectRunID, settings.RunsDir, false)
	if err != nil {
		return err
	}
	configPath := selectConfig
	if configPath == "" {
		configPath = settings.SelectionConfigPath
	}

	store, closeStore, err := openStore(ctx, settings, log)
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := selection.RunStage(ctx, selection.StageOptions{
		RunID:          runID,
		Workspace:      ws,
		ConfigPath:     configPath,
		Embedding:      embeddingConfig(settings),
		EmbeddingCache: cache.NewEmbeddingCache(store, log),
		Logger:         log,
	})
	if err != nil {
		return err
	}

	if selectVerbose {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintSelectionPlan(result.Plan)
		printer.PrintUncovered(result.Plan)
	}

	meta, err := json.MarshalIndent(result.Meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal selection meta: %w", err)
	}
	_, _ = fmt.Fprintln(os.Stdout, string(meta))
	return nil
}
