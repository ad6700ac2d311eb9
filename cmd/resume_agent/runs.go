package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-selector/internal/db"
	"github.com/jonathan/resume-selector/internal/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect pipeline runs recorded in Postgres",
	Long:  "Lists, shows and deletes run records. Requires database_url.",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs as JSON, newest first",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run with its steps, or one of its stored artifacts",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run and its steps and artifacts",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

var (
	runsLimit    int
	runsArtifact string
)

func init() {
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")
	runsShowCmd.Flags().StringVar(&runsArtifact, "artifact", "", "Print a stored artifact instead: evidence, relevance, plan or debug")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

// runStore is the part of db.DB the runs commands read and delete through
type runStore interface {
	ListRuns(ctx context.Context, limit int) ([]db.Run, error)
	GetRun(ctx context.Context, runID uuid.UUID) (*db.Run, error)
	ListRunSteps(ctx context.Context, runID uuid.UUID, status *string) ([]db.RunStep, error)
	DeleteRun(ctx context.Context, runID uuid.UUID) error
	GetEvidenceScoresByRunID(ctx context.Context, runID uuid.UUID) (*types.EvidenceScores, error)
	GetRelevanceMatrixByRunID(ctx context.Context, runID uuid.UUID) (*types.RelevanceMatrix, error)
	GetSelectionPlanByRunID(ctx context.Context, runID uuid.UUID) (*types.SelectionPlan, error)
	GetSelectionDebugByRunID(ctx context.Context, runID uuid.UUID) (*types.SelectionDebug, error)
}

// runDetail is the output of runs show
type runDetail struct {
	Run   *db.Run      `json:"run"`
	Steps []db.RunStep `json:"steps"`
}

func requireDatabase(cmd *cobra.Command) (*db.DB, error) {
	if settings.DatabaseURL == "" {
		return nil, fmt.Errorf("runs requires database_url (or DATABASE_URL) to be set")
	}
	return db.Connect(cmd.Context(), settings.DatabaseURL)
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	database, err := requireDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := listRuns(cmd.Context(), database, runsLimit)
	if err != nil {
		return err
	}
	return printJSON(runs)
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	database, err := requireDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	out, err := showRun(cmd.Context(), database, args[0], runsArtifact)
	if err != nil {
		return err
	}
	return printJSON(out)
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	database, err := requireDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}
	if err := database.DeleteRun(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("Deleted run %s\n", id)
	return nil
}

func parseRunID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid run id %q: %w", raw, err)
	}
	return id, nil
}

func listRuns(ctx context.Context, store runStore, limit int) ([]db.Run, error) {
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []db.Run{}
	}
	return runs, nil
}

// showRun returns the run with its steps, or the named artifact when one is given
func showRun(ctx context.Context, store runStore, rawID, artifact string) (any, error) {
	id, err := parseRunID(rawID)
	if err != nil {
		return nil, err
	}
	run, err := store.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("run not found: %s", id)
	}

	var (
		out   any
		found bool
	)
	switch artifact {
	case "":
		steps, err := store.ListRunSteps(ctx, id, nil)
		if err != nil {
			return nil, err
		}
		if steps == nil {
			steps = []db.RunStep{}
		}
		return runDetail{Run: run, Steps: steps}, nil
	case "evidence":
		v, err := store.GetEvidenceScoresByRunID(ctx, id)
		out, found = v, v != nil
		if err != nil {
			return nil, err
		}
	case "relevance":
		v, err := store.GetRelevanceMatrixByRunID(ctx, id)
		out, found = v, v != nil
		if err != nil {
			return nil, err
		}
	case "plan":
		v, err := store.GetSelectionPlanByRunID(ctx, id)
		out, found = v, v != nil
		if err != nil {
			return nil, err
		}
	case "debug":
		v, err := store.GetSelectionDebugByRunID(ctx, id)
		out, found = v, v != nil
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown artifact %q (expected evidence, relevance, plan or debug)", artifact)
	}
	if !found {
		return nil, fmt.Errorf("run %s has no %s artifact", id, artifact)
	}
	return out, nil
}
