package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-selector/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the evidence and embedding caches",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report valid, invalid and corrupt cache entries as JSON",
	RunE:  runCacheStatus,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached entries",
	Long:  "Removes cached evidence scores and resume embeddings. With redis configured the mirrored keys are removed too.",
	RunE:  runCacheClear,
}

var cacheClearNamespaces []string

// namespaceAliases maps CLI names to cache namespaces
var namespaceAliases = map[string]string{
	"evidence":   cache.NamespaceEvidence,
	"embeddings": cache.NamespaceResumeBullets,
}

func init() {
	cacheClearCmd.Flags().StringSliceVar(&cacheClearNamespaces, "namespace", nil, "Namespaces to clear: evidence, embeddings (default both)")

	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStatus(cmd *cobra.Command, _ []string) error {
	report, err := cache.Status(cmd.Context(), cache.NewFileStore(settings.CacheDir))
	if err != nil {
		return fmt.Errorf("failed to scan cache: %w", err)
	}
	return printJSON(report)
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	namespaces, err := resolveNamespaces(cacheClearNamespaces)
	if err != nil {
		return err
	}

	report, err := cache.Clear(cache.NewFileStore(settings.CacheDir), namespaces...)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	if settings.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cache.RedisOptions{
			Addr:     settings.RedisAddr,
			Password: settings.RedisPassword,
			DB:       settings.RedisDB,
		})
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		remote := cache.NewRedisStore(client, "", settings.RedisTTL)
		if len(namespaces) == 0 {
			namespaces = []string{cache.NamespaceEvidence, cache.NamespaceResumeBullets}
		}
		for _, ns := range namespaces {
			removed, err := remote.Clear(ctx, ns)
			if err != nil {
				return err
			}
			log.Info("cleared redis namespace", zap.String("namespace", ns), zap.Int("keys", removed))
		}
	}
	return printJSON(report)
}

func resolveNamespaces(names []string) ([]string, error) {
	var namespaces []string
	for _, name := range names {
		ns, ok := namespaceAliases[name]
		if !ok {
			return nil, fmt.Errorf("unknown cache namespace %q (expected evidence or embeddings)", name)
		}
		namespaces = append(namespaces, ns)
	}
	return namespaces, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, _ = fmt.Fprintln(os.Stdout, string(out))
	return nil
}
