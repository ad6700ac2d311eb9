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

const (
	cliResume = "testdata/valid/master_resume.json"
	cliRubric = "testdata/valid/jd_rubric.json"
)

func TestScoreEvidenceCommand_MissingResumeFlag(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := agentCommand(t, binaryPath, "score-evidence").CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "required")
}

func TestSelectCommand_RequiresWorkspace(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := agentCommand(t, binaryPath, "select").CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "either --workspace or --run-id is required")
}

func TestSelectCommand_MissingArtifacts(t *testing.T) {
	binaryPath := getBinaryPath(t)
	wsDir := t.TempDir()

	output, err := agentCommand(t, binaryPath, "select", "--workspace", wsDir).CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "select: missing jd_rubric.json")
	_, statErr := os.Stat(filepath.Join(wsDir, workspace.FileSelectionPlan))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStageCommands_EndToEnd(t *testing.T) {
	binaryPath := getBinaryPath(t)
	wsDir := t.TempDir()
	cacheDir := t.TempDir()

	run := func(args ...string) string {
		cmd := agentCommand(t, binaryPath, args...)
		cmd.Env = append(cmd.Env, "RESUME_SELECTOR_CACHE_DIR="+cacheDir)
		output, err := cmd.Output()
		require.NoError(t, err, string(output))
		return string(output)
	}

	out := run("score-evidence", "--resume", cliResume, "--workspace", wsDir)
	assert.Contains(t, out, "Scored 6 bullets (cache hit: false)")

	out = run("embed", "--resume", cliResume, "--rubric", cliRubric, "--workspace", wsDir)
	assert.Contains(t, out, "4 requirements")

	out = run("select", "--workspace", wsDir)
	var meta types.SelectionMeta
	require.NoError(t, json.Unmarshal([]byte(out), &meta), out)
	assert.Equal(t, types.SelectionPlanVersion, meta.PlanVersion)
	assert.Equal(t, 2, meta.MustTotal)

	for _, name := range []string{workspace.FileBaselineResume, workspace.FileSelectionPlan, workspace.FileSelectionDebug} {
		assert.FileExists(t, filepath.Join(wsDir, name))
	}

	out = run("score-evidence", "--resume", cliResume, "--workspace", wsDir)
	assert.Contains(t, out, "cache hit: true")

	out = run("cache", "status")
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.Contains(t, report, "evidence_scores")
	assert.Contains(t, report, "resume_embeddings")
}

func TestRunCommand_FullPipeline(t *testing.T) {
	binaryPath := getBinaryPath(t)
	wsDir := t.TempDir()
	metrics := filepath.Join(t.TempDir(), "metrics.prom")

	output, err := agentCommand(t, binaryPath,
		"run", "--resume", cliResume, "--rubric", cliRubric,
		"--workspace", wsDir, "--metrics-out", metrics).Output()
	require.NoError(t, err, string(output))

	assert.Contains(t, string(output), "Step 1/3")
	assert.Contains(t, string(output), "Step 3/3")
	assert.FileExists(t, filepath.Join(wsDir, workspace.FileSelectionPlan))

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "resume_selector_pipeline_stage_total")
}

func TestRunCommand_FromWithoutUpstreamOutputs(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := agentCommand(t, binaryPath,
		"run", "--resume", cliResume, "--workspace", t.TempDir(), "--from", "select").CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "missing dependencies")
}

func TestRunCommand_UnknownFrom(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := agentCommand(t, binaryPath,
		"run", "--resume", cliResume, "--workspace", t.TempDir(), "--from", "render").CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "unknown step: render")
}

func TestCacheClearCommand_UnknownNamespace(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := agentCommand(t, binaryPath, "cache", "clear", "--namespace", "plans").CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "unknown cache namespace")
}
