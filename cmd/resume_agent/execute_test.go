package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-selector/internal/types"
	"github.com/jonathan/resume-selector/internal/workspace"
)

func TestExecute_SelectRequiresWorkspace(t *testing.T) {
	err := executeAgent(t, "select")

	assert.ErrorContains(t, err, "either --workspace or --run-id is required")
}

func TestExecute_SelectMissingArtifacts(t *testing.T) {
	wsDir := t.TempDir()

	err := executeAgent(t, "select", "--workspace", wsDir)

	assert.ErrorContains(t, err, "select: missing jd_rubric.json")
	assert.NoFileExists(t, filepath.Join(wsDir, workspace.FileSelectionPlan))
}

func TestExecute_RunThenSelect(t *testing.T) {
	wsDir := t.TempDir()
	t.Setenv("RESUME_SELECTOR_CACHE_DIR", t.TempDir())
	resume := filepath.Join("..", "..", cliResume)
	rubric := filepath.Join("..", "..", cliRubric)

	require.NoError(t, executeAgent(t, "run", "--resume", resume, "--rubric", rubric, "--workspace", wsDir))
	first, err := os.ReadFile(filepath.Join(wsDir, workspace.FileSelectionPlan))
	require.NoError(t, err)

	require.NoError(t, executeAgent(t, "select", "--workspace", wsDir))
	second, err := os.ReadFile(filepath.Join(wsDir, workspace.FileSelectionPlan))
	require.NoError(t, err)

	var plan types.SelectionPlan
	require.NoError(t, json.Unmarshal(second, &plan))
	assert.Equal(t, types.SelectionPlanVersion, plan.Version)
	assert.Equal(t, 2, plan.Coverage.MustTotal)
	assert.Equal(t, filepath.Base(wsDir), plan.RunID)
	assert.JSONEq(t, string(first), string(second))
}

func TestExecute_CacheClearUnknownNamespace(t *testing.T) {
	err := executeAgent(t, "cache", "clear", "--namespace", "plans")

	assert.ErrorContains(t, err, `unknown cache namespace "plans"`)
}

func TestExecute_FlagsResetBetweenRuns(t *testing.T) {
	wsDir := t.TempDir()
	require.Error(t, executeAgent(t, "select", "--workspace", wsDir))

	err := executeAgent(t, "select")

	assert.ErrorContains(t, err, "either --workspace or --run-id is required")
}

func TestRootCommand_Hooks(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentPreRunE)
	assert.NotNil(t, rootCmd.PersistentPostRunE)

	names := make([]string, 0, len(rootCmd.Commands()))
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Subset(t, names, []string{"score-evidence", "embed", "select", "run", "cache", "runs"})
}
