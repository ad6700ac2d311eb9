package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-selector/internal/pipeline"
	"github.com/jonathan/resume-selector/internal/pipeline/steps"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run evidence scoring, embeddings and selection end-to-end",
	Long: fmt.Sprintf(`Orchestrates the selection process: score_evidence -> embed -> select.

Use --from to resume a run at a later step; the outputs of earlier steps must already exist in the
workspace. Steps: %v. Runs and artifacts are stored in Postgres when database_url is set.`, steps.Order),
	RunE: runPipelineCmd,
}

var (
	runResume    string
	runRubric    string
	runRules     string
	runSelection string
	runWorkspace string
	runID        string
	runFrom      string
	runNoCache   bool
	runVerbose   bool
)

func init() {
	runCommand.Flags().StringVarP(&runResume, "resume", "r", "", "Path to master resume JSON file (required)")
	runCommand.Flags().StringVar(&runRubric, "rubric", "", "Path to a jd_rubric.json to copy into the workspace")
	runCommand.Flags().StringVar(&runRules, "rules", "", "Path to evidence rules JSON (defaults to rules_path setting)")
	runCommand.Flags().StringVar(&runSelection, "selection-config", "", "Path to selection config JSON (defaults to selection_config_path setting)")
	runCommand.Flags().StringVarP(&runWorkspace, "workspace", "w", "", "Run workspace directory")
	runCommand.Flags().StringVar(&runID, "run-id", "", "Run id (a new one is generated when empty)")
	runCommand.Flags().StringVar(&runFrom, "from", "", "Start at this step")
	runCommand.Flags().BoolVar(&runNoCache, "no-cache", false, "Disable the evidence and embedding caches")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed stage summaries")

	if err := runCommand.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Step 1: Resolve the workspace and file settings
	ws, id, err := resolveWorkspace(runWorkspace, runID, settings.RunsDir, true)
	if err != nil {
		return err
	}
	rules := runRules
	if rules == "" {
		rules = settings.RulesPath
	}
	selectionConfig := runSelection
	if selectionConfig == "" {
		selectionConfig = settings.SelectionConfigPath
	}

	opts := pipeline.RunOptions{
		RunID:               id,
		WorkspaceDir:        ws.Path(),
		ResumePath:          runResume,
		RubricPath:          runRubric,
		RulesPath:           rules,
		SelectionConfigPath: selectionConfig,
		Embedding:           embeddingConfig(settings),
		From:                runFrom,
		Logger:              log,
		Verbose:             runVerbose,
	}

	// Step 2: Embedding provider, only needed when the embed step runs
	toRun, err := steps.StepsFrom(runFrom)
	if err != nil {
		return err
	}
	for _, step := range toRun {
		if step == steps.StepEmbed {
			provider, err := newProvider(ctx, settings)
			if err != nil {
				return err
			}
			defer closeProvider(provider)
			opts.Provider = provider
		}
	}

	// Step 3: Cache and persistence backends
	if !runNoCache {
		store, closeStore, err := openStore(ctx, settings, log)
		if err != nil {
			return err
		}
		defer closeStore()
		opts.Store = store
	}
	if database := openDatabase(ctx, settings, log); database != nil {
		defer database.Close()
		opts.Recorder = database
	}

	_, err = pipeline.Run(ctx, opts)
	return err
}
