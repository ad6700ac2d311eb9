package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-selector/internal/cache"
	"github.com/jonathan/resume-selector/internal/config"
	"github.com/jonathan/resume-selector/internal/db"
	"github.com/jonathan/resume-selector/internal/embedding"
	"github.com/jonathan/resume-selector/internal/workspace"
)

// openStore returns the file cache, mirrored to redis when an address is configured.
// The returned close function releases the redis client.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Store, func(), error) {
	files := cache.NewFileStore(cfg.CacheDir)
	if cfg.RedisAddr == "" {
		return files, func() {}, nil
	}

	client, err := cache.NewRedisClient(ctx, cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, err
	}
	remote := cache.NewRedisStore(client, "", cfg.RedisTTL)
	return cache.NewTieredStore(files, remote, logger), func() { _ = client.Close() }, nil
}

// embeddingConfig maps the runtime settings onto the embedding cache key configuration
func embeddingConfig(cfg *config.Config) embedding.Config {
	return embedding.Config{
		Model:       cfg.Embedding.Model,
		Dims:        cfg.Embedding.Dims,
		ChunkSize:   cfg.Embedding.ChunkSize,
		Concurrency: cfg.Embedding.Concurrency,
	}.WithDefaults()
}

func newProvider(ctx context.Context, cfg *config.Config) (embedding.Provider, error) {
	return embedding.NewProvider(ctx, embedding.ProviderOptions{
		Name:     cfg.Embedding.Provider,
		APIKey:   cfg.APIKey(),
		BaseURL:  cfg.Embedding.BaseURL,
		Model:    cfg.Embedding.Model,
		Dims:     cfg.Embedding.Dims,
		MockMode: cfg.Embedding.MockMode,
	})
}

// closeProvider releases providers that hold a client
func closeProvider(p embedding.Provider) {
	if c, ok := p.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}

// openDatabase connects to Postgres and applies the schema when a URL is configured.
// A nil database means persistence is off.
func openDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) *db.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Warn("failed to connect to database, continuing without persistence", zap.Error(err))
		return nil
	}
	if err := database.Migrate(ctx); err != nil {
		logger.Warn("failed to migrate database, continuing without persistence", zap.Error(err))
		database.Close()
		return nil
	}
	return database
}

// resolveWorkspace picks the run directory from --workspace or <runs_dir>/<run id>.
// A new run id is generated when neither a workspace nor a run id is given and
// allowNew is set.
func resolveWorkspace(dir, runID, runsDir string, allowNew bool) (*workspace.Dir, string, error) {
	if dir != "" {
		if runID == "" {
			runID = filepath.Base(filepath.Clean(dir))
		}
		return workspace.New(dir), runID, nil
	}
	if runID == "" {
		if !allowNew {
			return nil, "", fmt.Errorf("either --workspace or --run-id is required")
		}
		runID = uuid.New().String()
	}
	return workspace.New(filepath.Join(runsDir, runID)), runID, nil
}
