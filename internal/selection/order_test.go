package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-selector/internal/types"
)

func reqIDs(reqs []types.Requirement) []string {
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ReqID)
	}
	return ids
}

func TestCandidateCounts(t *testing.T) {
	thresholds := testConfig().Thresholds
	bullets := []types.ScoredBullet{
		scored("strong", types.ParentExperience, "r", 0.9, types.TierStrong),
		scored("weak", types.ParentExperience, "r", 0.2, types.TierWeak),
	}
	evidence := map[string]*types.ScoredBullet{}
	for i := range bullets {
		evidence[bullets[i].BulletID] = &bullets[i]
	}
	lookup := NewRelevanceLookup(relMatrix(map[string]map[string]float64{
		"must_a": {"strong": 0.5, "weak": 0.4, "unknown": 0.9},
		"nice_a": {"strong": 0.31, "weak": 0.9},
		"must_b": {"strong": 0.34},
	}))

	counts := CandidateCounts(
		[]types.Requirement{must("must_a", 1), nice("nice_a", 1), must("must_b", 1), must("must_c", 1)},
		evidence, lookup, thresholds,
	)

	assert.Equal(t, map[string]int{"must_a": 2, "nice_a": 1, "must_b": 0, "must_c": 0}, counts)
}

func TestRankRequirements(t *testing.T) {
	tests := []struct {
		name   string
		reqs   []types.Requirement
		counts map[string]int
		want   []string
	}{
		{
			name:   "must before nice regardless of weight",
			reqs:   []types.Requirement{nice("n", 9), must("m", 1)},
			counts: map[string]int{"n": 1, "m": 1},
			want:   []string{"m", "n"},
		},
		{
			name:   "weight descending",
			reqs:   []types.Requirement{must("low", 1), must("high", 5)},
			counts: map[string]int{"low": 1, "high": 1},
			want:   []string{"high", "low"},
		},
		{
			name:   "scarcer first at equal weight",
			reqs:   []types.Requirement{must("common", 3), must("rare", 3)},
			counts: map[string]int{"common": 5, "rare": 1},
			want:   []string{"rare", "common"},
		},
		{
			name:   "uncounted after counted",
			reqs:   []types.Requirement{must("uncounted", 3), must("counted", 3)},
			counts: map[string]int{"counted": 9},
			want:   []string{"counted", "uncounted"},
		},
		{
			name:   "req_id breaks ties",
			reqs:   []types.Requirement{nice("b", 2), nice("a", 2)},
			counts: map[string]int{"a": 1, "b": 1},
			want:   []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reqIDs(RankRequirements(tt.reqs, tt.counts)))
		})
	}
}

func TestNewRelevanceLookup(t *testing.T) {
	matrix := &types.RelevanceMatrix{
		PerRequirementTopBullets: map[string][]types.BulletScore{
			"req_a": {{BulletID: "b2", Score: 0.7}, {BulletID: "b1", Score: 0.6}},
		},
		PerBulletTopRequirements: map[string][]types.RequirementScore{
			"b1": {{ReqID: "req_a", Score: 0.1}, {ReqID: "req_b", Score: 0.5}},
		},
	}

	lookup := NewRelevanceLookup(matrix)

	assert.Equal(t, 3, lookup.Len())
	assert.InDelta(t, 0.6, lookup.Rel("b1", "req_a"), 1e-9, "per-requirement score wins")
	assert.InDelta(t, 0.5, lookup.Rel("b1", "req_b"), 1e-9)
	assert.Zero(t, lookup.Rel("b3", "req_a"))
	assert.Equal(t, []relevanceEntry{{BulletID: "b1", Rel: 0.6}, {BulletID: "b2", Rel: 0.7}}, lookup.ForRequirement("req_a"))
	assert.Empty(t, NewRelevanceLookup(nil).ForRequirement("req_a"))
}

func TestRoleCaps(t *testing.T) {
	caps := types.RoleCaps{MostRecent: 4, Next: 3, Older: 2}

	got := roleCaps(baselineRoles("r1", "r2", "r3", "r4"), caps)

	assert.Equal(t, map[string]int{"r1": 4, "r2": 3, "r3": 2, "r4": 2}, got)
	assert.Empty(t, roleCaps(nil, caps))
}
