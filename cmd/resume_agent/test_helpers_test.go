package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// getBinaryPath returns the absolute path to the resume_agent binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "resume_agent"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath, err := filepath.Abs(filepath.Join("..", "..", "bin", binaryName))
	if err != nil {
		t.Fatalf("failed to resolve binary path: %v", err)
	}
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/resume_agent ./cmd/resume_agent'", binaryPath)
	}

	return binaryPath
}

// agentCommand runs the binary from the repository root with mock embeddings and
// private cache and runs directories
func agentCommand(t *testing.T, binaryPath string, args ...string) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = filepath.Join("..", "..")
	cmd.Env = append(os.Environ(),
		"RESUME_SELECTOR_EMBEDDING_MOCK_MODE=true",
		"RESUME_SELECTOR_EMBEDDING_DIMS=16",
		"RESUME_SELECTOR_EMBEDDING_MODEL=seeded-cli",
		"RESUME_SELECTOR_CACHE_DIR="+filepath.Join(t.TempDir(), "cache"),
		"RESUME_SELECTOR_RUNS_DIR="+filepath.Join(t.TempDir(), "runs"),
		"REDIS_ADDR=",
		"DATABASE_URL=",
	)
	return cmd
}

// executeAgent runs rootCmd in-process with mock embeddings and private cache and
// runs directories. Flag values and settings are reset afterwards since they live
// in package variables.
func executeAgent(t *testing.T, args ...string) error {
	t.Helper()
	repoRoot := filepath.Join("..", "..")
	t.Setenv("RESUME_SELECTOR_EMBEDDING_MOCK_MODE", "true")
	t.Setenv("RESUME_SELECTOR_EMBEDDING_DIMS", "16")
	t.Setenv("RESUME_SELECTOR_EMBEDDING_MODEL", "seeded-cli")
	t.Setenv("RESUME_SELECTOR_RULES_PATH", filepath.Join(repoRoot, "configs", "evidence_rules_v1.json"))
	t.Setenv("RESUME_SELECTOR_SELECTION_CONFIG_PATH", filepath.Join(repoRoot, "configs", "selection_config_v1.json"))
	if os.Getenv("RESUME_SELECTOR_CACHE_DIR") == "" {
		t.Setenv("RESUME_SELECTOR_CACHE_DIR", filepath.Join(t.TempDir(), "cache"))
	}
	t.Setenv("RESUME_SELECTOR_RUNS_DIR", filepath.Join(t.TempDir(), "runs"))

	defer resetCommandState(rootCmd)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func resetCommandState(root *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if slice, ok := f.Value.(pflag.SliceValue); ok {
			_ = slice.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	root.PersistentFlags().VisitAll(reset)
	for _, cmd := range root.Commands() {
		cmd.Flags().VisitAll(reset)
		for _, sub := range cmd.Commands() {
			sub.Flags().VisitAll(reset)
		}
	}
	root.SetArgs(nil)
	settings, log = nil, nil
}
