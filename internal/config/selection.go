package config

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-selector/internal/cache"
	"github.com/jonathan/resume-selector/internal/schemas"
	"github.com/jonathan/resume-selector/internal/types"
)

// SelectionConfigVersion is the version stamped on the default selection configuration
const SelectionConfigVersion = "selection_config_v1"

// DefaultSelectionConfig returns the selection configuration used when a document
// omits a section or field
func DefaultSelectionConfig() types.SelectionConfig {
	return types.SelectionConfig{
		ConfigVersion: SelectionConfigVersion,
		Budgets: types.Budgets{
			ExperienceBulletsMax: 10,
			ProjectBulletsMax:    3,
			AwardLinesMax:        2,
			PerRoleCaps: types.RoleCaps{
				MostRecent: 4,
				Next:       3,
				Older:      2,
			},
			MaxBulletsPerRequirement: 2,
		},
		Thresholds: types.Thresholds{
			MustMinRel:     0.35,
			NiceMinRel:     0.30,
			CoverThreshold: 0.45,
			Redundancy: types.RedundancyThreshold{
				HardBlock:    0.92,
				PenaltyStart: 0.85,
			},
			MinEvidenceTierNice: types.TierMedium,
		},
		Weights: types.Weights{
			Edge: types.EdgeWeights{WRel: 0.6, WEvd: 0.35, WRed: 0.2, WRisk: 0.15},
			Fill: types.FillWeights{Alpha: 0.5, Beta: 0.3, Gamma: 0.2},
		},
		Guards: types.Guards{TopPerRole: 0, TopGlobal: 0},
	}
}

// LoadSelectionConfig reads a selection configuration document and returns it with
// the sha256 of its raw bytes
func LoadSelectionConfig(path string) (*types.SelectionConfig, string, error) {
	if path == "" {
		return nil, "", &ConfigurationError{Message: "selection config path is empty"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", &ConfigurationError{Path: path, Message: "failed to read selection config", Cause: err}
	}

	cfg, err := ParseSelectionConfig(data)
	if err != nil {
		var ce *ConfigurationError
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return nil, "", err
	}
	return cfg, cache.Prefixed(cache.SHA256Hex(data)), nil
}

// ParseSelectionConfig decodes a selection configuration onto the defaults, so any
// missing section or field keeps its default value, then validates it
func ParseSelectionConfig(data []byte) (*types.SelectionConfig, error) {
	if err := schemas.ValidateArtifact(schemas.SelectionConfig, data); err != nil {
		return nil, &ConfigurationError{Message: "selection config failed schema validation", Cause: err}
	}

	cfg := DefaultSelectionConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigurationError{Message: "failed to parse selection config", Cause: err}
	}

	if err := ValidateSelectionConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateSelectionConfig checks ranges, tiers and the redundancy ordering
func ValidateSelectionConfig(cfg *types.SelectionConfig) error {
	if err := validator.New().Struct(cfg); err != nil {
		return &ConfigurationError{Message: "invalid selection config", Cause: err}
	}
	return nil
}

// SelectionConfigHash hashes the canonical JSON form of cfg. It is used when the
// configuration did not come from a file.
func SelectionConfigHash(cfg *types.SelectionConfig) (string, error) {
	data, err := cache.CanonicalValue(cfg)
	if err != nil {
		return "", &ConfigurationError{Message: "failed to hash selection config", Cause: err}
	}
	return cache.Prefixed(cache.SHA256Hex(data)), nil
}
