package selection

import (
	"math"
	"sort"

	"github.com/jonathan/resume-selector/internal/types"
)

// CandidateCounts counts, per requirement, the bullets whose relevance clears the
// requirement's minimum and whose evidence tier is eligible
func CandidateCounts(
	requirements []types.Requirement,
	evidence map[string]*types.ScoredBullet,
	lookup *RelevanceLookup,
	thresholds types.Thresholds,
) map[string]int {
	counts := make(map[string]int, len(requirements))
	for _, req := range requirements {
		minRel := thresholds.MinRel(req.Type)
		count := 0
		for _, entry := range lookup.ForRequirement(req.ReqID) {
			bullet, ok := evidence[entry.BulletID]
			if !ok || entry.Rel < minRel {
				continue
			}
			if !TierAllowed(bullet.Tier, req.Type, thresholds.MinEvidenceTierNice) {
				continue
			}
			count++
		}
		counts[req.ReqID] = count
	}
	return counts
}

// RankRequirements orders requirements must before nice, then by weight descending,
// then by scarcity ascending, then by req_id. Requirements without a count sort last
// within their weight.
func RankRequirements(requirements []types.Requirement, counts map[string]int) []types.Requirement {
	scarcity := func(req types.Requirement) int {
		if count, ok := counts[req.ReqID]; ok {
			return count
		}
		return math.MaxInt
	}

	ordered := make([]types.Requirement, len(requirements))
	copy(ordered, requirements)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.IsMust() != b.IsMust() {
			return a.IsMust()
		}
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		if sa, sb := scarcity(a), scarcity(b); sa != sb {
			return sa < sb
		}
		return a.ReqID < b.ReqID
	})
	return ordered
}
