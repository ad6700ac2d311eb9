package selection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-selector/internal/types"
)

func TestComputeRedundancy(t *testing.T) {
	cfg := types.RedundancyThreshold{HardBlock: 0.92, PenaltyStart: 0.85}
	midpoint := 0.885

	tests := []struct {
		name     string
		vector   []float64
		selected []SelectedVector
		want     RedundancyInfo
	}{
		{
			name:   "nothing selected",
			vector: []float64{1, 0},
			want:   RedundancyInfo{},
		},
		{
			name:     "missing vector",
			selected: []SelectedVector{{BulletID: "a", Vector: []float64{1, 0}}},
			want:     RedundancyInfo{},
		},
		{
			name:     "orthogonal",
			vector:   []float64{0, 1},
			selected: []SelectedVector{{BulletID: "a", Vector: []float64{1, 0}}},
			want:     RedundancyInfo{},
		},
		{
			name:     "identical blocks",
			vector:   []float64{1, 0},
			selected: []SelectedVector{{BulletID: "a", Vector: []float64{2, 0}}},
			want:     RedundancyInfo{MaxSim: 1, Blocked: true, Penalty: 1},
		},
		{
			name:   "penalty between thresholds",
			vector: []float64{midpoint, math.Sqrt(1 - midpoint*midpoint)},
			selected: []SelectedVector{
				{BulletID: "a", Vector: []float64{0, -1}},
				{BulletID: "b", Vector: []float64{1, 0}},
			},
			want: RedundancyInfo{MaxSim: midpoint, Penalty: 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRedundancy(tt.vector, tt.selected, cfg)
			assert.InDelta(t, tt.want.MaxSim, got.MaxSim, 1e-9)
			assert.Equal(t, tt.want.Blocked, got.Blocked)
			assert.InDelta(t, tt.want.Penalty, got.Penalty, 1e-6)
		})
	}
}

func TestRiskPenalty(t *testing.T) {
	tests := []struct {
		name     string
		features types.EvidenceFeatures
		want     float64
	}{
		{name: "clean with outcome", features: types.EvidenceFeatures{OutcomeScore: 0.5}, want: 0},
		{name: "no outcome", features: types.EvidenceFeatures{}, want: 0.15},
		{name: "fluff and no outcome", features: types.EvidenceFeatures{FluffPenalty: -0.35}, want: 0.5},
		{name: "clamped", features: types.EvidenceFeatures{FluffPenalty: -0.95}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RiskPenalty(&types.ScoredBullet{Features: tt.features})
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEdgeScore(t *testing.T) {
	w := types.EdgeWeights{WRel: 0.6, WEvd: 0.35, WRed: 0.2, WRisk: 0.15}

	assert.InDelta(t, 0.795, EdgeScore(0.8, 0.9, 0, 0, w), 1e-9)
	assert.InDelta(t, 0.795-0.1-0.075, EdgeScore(0.8, 0.9, 0.5, 0.5, w), 1e-9)
}

func TestTierAllowed(t *testing.T) {
	tests := []struct {
		tier    string
		reqType string
		minNice string
		want    bool
	}{
		{types.TierWeak, types.RequirementMust, types.TierMedium, true},
		{types.TierWeak, types.RequirementNice, types.TierMedium, false},
		{types.TierMedium, types.RequirementNice, types.TierMedium, true},
		{types.TierStrong, types.RequirementNice, types.TierMedium, true},
		{types.TierMedium, types.RequirementNice, types.TierStrong, false},
		{types.TierWeak, types.RequirementNice, types.TierWeak, true},
	}

	for _, tt := range tests {
		t.Run(tt.tier+"/"+tt.reqType+"/"+tt.minNice, func(t *testing.T) {
			assert.Equal(t, tt.want, TierAllowed(tt.tier, tt.reqType, tt.minNice))
		})
	}
}

func TestRewriteIntent(t *testing.T) {
	tests := []struct {
		tier     string
		evidence float64
		want     string
	}{
		{types.TierStrong, 0.85, types.RewriteLight},
		{types.TierStrong, 0.8, types.RewriteLight},
		{types.TierStrong, 0.75, types.RewriteMedium},
		{types.TierMedium, 0.6, types.RewriteMedium},
		{types.TierWeak, 0.3, types.RewriteHeavy},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RewriteIntent(tt.tier, tt.evidence), "%s %.2f", tt.tier, tt.evidence)
	}
}
