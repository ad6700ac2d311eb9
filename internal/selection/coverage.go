package selection

import (
	"sort"

	"github.com/jonathan/resume-selector/internal/types"
)

type coverageCandidate struct {
	bullet *types.ScoredBullet
	rel    float64
	edge   float64
	red    RedundancyInfo
}

// CoveragePass walks requirements in priority order and gives each uncovered one its
// best surviving candidate. The pool holds bullets that clear the requirement's
// minimum relevance and tier, narrowed to tier medium or better when any exist.
// A requirement with an empty pool is marked no_supporting_bullet_found; one whose
// candidates were all rejected is marked blocked_by_budget_or_redundancy.
func CoveragePass(s *State, ordered []types.Requirement) types.PassTrace {
	trace := s.begin(PassCoverage)
	thresholds := s.cfg.Thresholds

	for _, req := range ordered {
		if s.IsCovered(req.ReqID) {
			s.record("", req.ReqID, ActionSkippedCovered)
			continue
		}

		// 1. Eligible pool, preferring medium-or-better evidence
		minRel := thresholds.MinRel(req.Type)
		var eligible, preferred []relevanceEntry
		for _, entry := range s.lookup.ForRequirement(req.ReqID) {
			b, ok := s.evidence[entry.BulletID]
			if !ok || entry.Rel < minRel {
				continue
			}
			if !TierAllowed(b.Tier, req.Type, thresholds.MinEvidenceTierNice) {
				continue
			}
			eligible = append(eligible, entry)
			if types.TierRank(b.Tier) >= types.TierRank(types.TierMedium) {
				preferred = append(preferred, entry)
			}
		}
		pool := eligible
		if len(preferred) > 0 {
			pool = preferred
		}
		if len(pool) == 0 {
			s.markUncovered(req.ReqID, types.ReasonNoSupportingBullet)
			continue
		}

		// 2. Live redundancy and budget filtering, then rank by edge
		var scored []coverageCandidate
		held := 0
		if !s.reqCapExceeded(req.ReqID) {
			for _, entry := range pool {
				b := s.evidence[entry.BulletID]
				if s.credited(b.BulletID, req.ReqID) {
					held++
					continue
				}
				var red RedundancyInfo
				if s.IsSelected(b.BulletID) {
					red = s.acceptedRed[b.BulletID]
				} else {
					var ok bool
					if red, ok = s.screen(b); !ok {
						continue
					}
				}
				edge := EdgeScore(entry.Rel, b.EvidenceScore, red.Penalty, RiskPenalty(b), s.cfg.Weights.Edge)
				scored = append(scored, coverageCandidate{bullet: b, rel: entry.Rel, edge: edge, red: red})
			}
		}
		if len(scored) == 0 {
			// weak credits already held leave the reason to the plan's fallback
			if held < len(pool) {
				s.markUncovered(req.ReqID, types.ReasonBlocked)
			}
			continue
		}
		sort.SliceStable(scored, func(i, j int) bool {
			if scored[i].edge != scored[j].edge {
				return scored[i].edge > scored[j].edge
			}
			return scored[i].bullet.BulletID < scored[j].bullet.BulletID
		})

		best := scored[0]
		s.selectFor(best.bullet, req, best.rel, best.red)
	}

	return *trace
}
