// Package main provides the resume_agent CLI: evidence scoring, embeddings and
// relevance, and bullet selection over a per-run workspace.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/resume-selector/internal/config"
	"github.com/jonathan/resume-selector/internal/logger"
	"github.com/jonathan/resume-selector/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "Evidence-aware resume bullet selection",
	Long: `Scores resume bullets for evidence, relates them to job requirements through embeddings,
and selects a budget-constrained, non-redundant set of bullets that covers the requirements.

Settings are layered: defaults, then --config, then RESUME_SELECTOR_* environment variables, then flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	settingsPath string
	metricsOut   string

	settings *config.Config
	log      *zap.Logger
)

func init() {
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentPostRunE = teardown

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&settingsPath, "config", "", "Path to a settings file (yaml, json or toml)")
	flags.Bool("debug", false, "Enable debug logging")
	flags.Bool("json", false, "Emit logs as JSON")
	flags.String("cache-dir", "", "Cache root directory")
	flags.String("runs-dir", "", "Directory holding per-run workspaces")
	flags.StringVar(&metricsOut, "metrics-out", "", "Write Prometheus metrics to this file on exit")
}

func bindSettings(v *viper.Viper, cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"debug":     "debug",
		"log_json":  "json",
		"cache_dir": "cache-dir",
		"runs_dir":  "runs-dir",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", flag, err)
		}
	}
	return nil
}

func setup(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	if err := bindSettings(v, cmd); err != nil {
		return err
	}
	cfg, err := config.LoadConfig(v, settingsPath)
	if err != nil {
		return err
	}
	settings = cfg

	log, err = logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if log != nil {
		_ = log.Sync()
	}
	if metricsOut == "" {
		return nil
	}
	if err := observability.WriteMetrics(metricsOut); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
