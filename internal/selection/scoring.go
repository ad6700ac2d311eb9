package selection

import (
	"math"

	"github.com/jonathan/resume-selector/internal/embedding"
	"github.com/jonathan/resume-selector/internal/types"
)

// missingOutcomeRisk is added to the risk penalty when no outcome cue matched
const missingOutcomeRisk = 0.15

// RedundancyInfo is the outcome of comparing a candidate with the selected set
type RedundancyInfo struct {
	MaxSim  float64
	Blocked bool
	Penalty float64
}

// ComputeRedundancy compares vector against every selected vector. A similarity at or
// above hard_block blocks the candidate; between penalty_start and hard_block the
// penalty rises linearly from 0 to 1.
func ComputeRedundancy(vector []float64, selected []SelectedVector, cfg types.RedundancyThreshold) RedundancyInfo {
	if len(vector) == 0 || len(selected) == 0 {
		return RedundancyInfo{}
	}

	maxSim := 0.0
	for _, s := range selected {
		if sim := embedding.Cosine(vector, s.Vector); sim > maxSim {
			maxSim = sim
		}
	}

	switch {
	case maxSim >= cfg.HardBlock:
		return RedundancyInfo{MaxSim: maxSim, Blocked: true, Penalty: 1}
	case maxSim >= cfg.PenaltyStart:
		return RedundancyInfo{MaxSim: maxSim, Penalty: (maxSim - cfg.PenaltyStart) / (cfg.HardBlock - cfg.PenaltyStart)}
	default:
		return RedundancyInfo{MaxSim: maxSim}
	}
}

// RiskPenalty is min(1, |fluff penalty| + 0.15 when no outcome cue matched)
func RiskPenalty(bullet *types.ScoredBullet) float64 {
	risk := math.Abs(bullet.Features.FluffPenalty)
	if bullet.Features.OutcomeScore == 0 {
		risk += missingOutcomeRisk
	}
	return math.Min(1, risk)
}

// EdgeScore ranks a (bullet, requirement) pairing
func EdgeScore(rel, evidence, redundancyPenalty, riskPenalty float64, w types.EdgeWeights) float64 {
	return w.WRel*rel + w.WEvd*evidence - w.WRed*redundancyPenalty - w.WRisk*riskPenalty
}

// TierAllowed reports whether a bullet of tier may serve a requirement of reqType.
// Must-haves accept any tier.
func TierAllowed(tier, reqType, minNiceTier string) bool {
	if reqType == types.RequirementMust {
		return true
	}
	return types.TierRank(tier) >= types.TierRank(minNiceTier)
}

// RewriteIntent says how much a selected bullet should be rewritten
func RewriteIntent(tier string, evidence float64) string {
	rank := types.TierRank(tier)
	switch {
	case rank >= types.TierRank(types.TierStrong) && evidence >= 0.8:
		return types.RewriteLight
	case rank >= types.TierRank(types.TierMedium):
		return types.RewriteMedium
	default:
		return types.RewriteHeavy
	}
}
