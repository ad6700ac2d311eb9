package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-selector/internal/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "selection_config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSelectionConfig_Shipped(t *testing.T) {
	cfg, hash, err := LoadSelectionConfig(filepath.Join("..", "..", "configs", "selection_config_v1.json"))
	require.NoError(t, err)

	assert.Equal(t, DefaultSelectionConfig(), *cfg)
	assert.Contains(t, hash, "sha256:")
}

func TestLoadSelectionConfig_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"budgets": {"experience_bullets_max": 4, "per_role_caps": {"most_recent": 1}},
		"thresholds": {"redundancy": {"hard_block": 0.95}}
	}`)

	cfg, _, err := LoadSelectionConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Budgets.ExperienceBulletsMax)
	assert.Equal(t, 3, cfg.Budgets.ProjectBulletsMax)
	assert.Equal(t, 1, cfg.Budgets.PerRoleCaps.MostRecent)
	assert.Equal(t, 3, cfg.Budgets.PerRoleCaps.Next)
	assert.Equal(t, 0.95, cfg.Thresholds.Redundancy.HardBlock)
	assert.Equal(t, 0.85, cfg.Thresholds.Redundancy.PenaltyStart)
	assert.Equal(t, types.TierMedium, cfg.Thresholds.MinEvidenceTierNice)
	assert.Equal(t, 0.6, cfg.Weights.Edge.WRel)
}

func TestLoadSelectionConfig_HashFollowsBytes(t *testing.T) {
	_, a, err := LoadSelectionConfig(writeConfig(t, `{"guards": {"top_global": 1}}`))
	require.NoError(t, err)
	_, b, err := LoadSelectionConfig(writeConfig(t, `{"guards": {"top_global": 2}}`))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLoadSelectionConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "not json", content: `{ nope`, want: "schema"},
		{name: "wrong section type", content: `{"budgets": []}`, want: "schema"},
		{name: "bad tier", content: `{"thresholds": {"min_evidence_tier_nice": "gold"}}`, want: "invalid selection config"},
		{name: "negative budget", content: `{"budgets": {"experience_bullets_max": -1}}`, want: "invalid selection config"},
		{name: "penalty above hard block", content: `{"thresholds": {"redundancy": {"hard_block": 0.8, "penalty_start": 0.9}}}`, want: "invalid selection config"},
		{name: "relevance out of range", content: `{"thresholds": {"must_min_rel": 1.5}}`, want: "invalid selection config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, _, err := LoadSelectionConfig(path)
			require.Error(t, err)

			var ce *ConfigurationError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, path, ce.Path)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadSelectionConfig_MissingFile(t *testing.T) {
	_, _, err := LoadSelectionConfig(filepath.Join(t.TempDir(), "missing.json"))
	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))

	_, _, err = LoadSelectionConfig("")
	require.True(t, errors.As(err, &ce))
}

func TestSelectionConfigHash(t *testing.T) {
	cfg := DefaultSelectionConfig()
	a, err := SelectionConfigHash(&cfg)
	require.NoError(t, err)

	cfg.Guards.TopGlobal = 3
	b, err := SelectionConfigHash(&cfg)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
