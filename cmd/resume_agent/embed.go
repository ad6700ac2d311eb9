package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-selector/internal/cache"
	"github.com/jonathan/resume-selector/internal/embedding"
	"github.com/jonathan/resume-selector/internal/experience"
	"github.com/jonathan/resume-selector/internal/observability"
	"github.com/jonathan/resume-selector/internal/types"
	"github.com/jonathan/resume-selector/internal/workspace"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed resume bullets and job requirements and build the relevance matrix",
	Long:  "Embeds every resume bullet (cached per resume and model) and every rubric requirement, then writes jd_requirement_embeddings.json, relevance_matrix.json and relevance_summary.json into the run workspace.",
	RunE:  runEmbed,
}

var (
	embedResume    string
	embedRubric    string
	embedWorkspace string
	embedRunID     string
	embedMinScore  float64
	embedTopKReq   int
	embedTopKBul   int
	embedVerbose   bool
)

func init() {
	embedCmd.Flags().StringVarP(&embedResume, "resume", "r", "", "Path to master resume JSON file (required)")
	embedCmd.Flags().StringVar(&embedRubric, "rubric", "", "Path to a jd_rubric.json to copy into the workspace")
	embedCmd.Flags().StringVarP(&embedWorkspace, "workspace", "w", "", "Run workspace directory")
	embedCmd.Flags().StringVar(&embedRunID, "run-id", "", "Run id (workspace is <runs_dir>/<run id>)")
	embedCmd.Flags().Float64Var(&embedMinScore, "min-score", embedding.DefaultMinScore, "Minimum cosine kept in the relevance matrix")
	embedCmd.Flags().IntVar(&embedTopKReq, "top-k-per-requirement", embedding.DefaultTopKPerRequirement, "Bullets kept per requirement")
	embedCmd.Flags().IntVar(&embedTopKBul, "top-k-per-bullet", embedding.DefaultTopKPerBullet, "Requirements kept per bullet")
	embedCmd.Flags().BoolVarP(&embedVerbose, "verbose", "v", false, "Print the relevance summary")

	if err := embedCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// 1. Workspace and rubric
	ws, runID, err := resolveWorkspace(embedWorkspace, embedRunID, settings.RunsDir, false)
	if err != nil {
		return err
	}
	if embedRubric != "" {
		data, err := os.ReadFile(embedRubric)
		if err != nil {
			return fmt.Errorf("failed to read rubric file %s: %w", embedRubric, err)
		}
		if err := ws.WriteRaw(workspace.FileRubric, data); err != nil {
			return err
		}
	}

	// 2. Resume
	master, raw, err := experience.LoadMasterResume(embedResume)
	if err != nil {
		return fmt.Errorf("failed to load master resume: %w", err)
	}
	resume, err := experience.Normalize(master)
	if err != nil {
		return err
	}
	resumeHash, err := cache.ResumeHash(raw)
	if err != nil {
		return fmt.Errorf("failed to hash master resume: %w", err)
	}

	// 3. Provider and cache
	provider, err := newProvider(ctx, settings)
	if err != nil {
		return err
	}
	defer closeProvider(provider)

	store, closeStore, err := openStore(ctx, settings, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// 4. Embed
	result, err := embedding.RunStage(ctx, embedding.StageOptions{
		RunID:      runID,
		Workspace:  ws,
		Resume:     resume,
		ResumeHash: resumeHash,
		Config:     embeddingConfig(settings),
		Thresholds: thresholdsFromFlags(),
		Provider:   provider,
		Cache:      cache.NewEmbeddingCache(store, log),
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("failed to build relevance: %w", err)
	}

	if embedVerbose {
		observability.NewPrinter(os.Stdout).PrintRelevanceSummary(result.Summary)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Embedded %d bullets and %d requirements (cache hit: %t) to %s\n",
		result.Summary.BulletsCount, result.Summary.RequirementsCount, result.CacheHit,
		ws.Join(workspace.FileRelevanceMatrix))
	return nil
}

func thresholdsFromFlags() types.RelevanceThresholds {
	return types.RelevanceThresholds{
		MinScore:           embedMinScore,
		TopKPerRequirement: embedTopKReq,
		TopKPerBullet:      embedTopKBul,
	}
}
