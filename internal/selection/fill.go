package selection

import (
	"github.com/jonathan/resume-selector/internal/types"
)

type fillCandidate struct {
	bullet   *types.ScoredBullet
	gain     float64
	red      RedundancyInfo
	eligible []eligibleMatch
}

// FillPass spends the remaining experience and project budget greedily. Each round
// scores every unselected bullet with at least one eligible match by
//
//	alpha*newly covered + beta*avg relevance + gamma*evidence - w_red*redundancy - w_risk*risk
//
// where the average runs over the matches that are still uncovered, or over all
// eligible matches when none are. The best bullet is selected and credited to its
// eligible requirements, highest relevance first, subject to per-requirement caps.
func FillPass(s *State) types.PassTrace {
	trace := s.begin(PassFill)
	fill := s.cfg.Weights.Fill
	edge := s.cfg.Weights.Edge

	var remaining []*types.ScoredBullet
	for _, b := range s.bullets {
		if !s.IsSelected(b.BulletID) {
			remaining = append(remaining, b)
		}
	}

	for s.budgetRemains() {
		var best *fillCandidate
		for _, b := range remaining {
			eligible := s.eligibleMatches(b)
			if len(eligible) == 0 {
				continue
			}
			red, ok := s.screen(b)
			if !ok {
				continue
			}

			newlyCovering := 0
			var uncoveredRel, allRel float64
			for _, m := range eligible {
				allRel += m.Rel
				if !s.IsCovered(m.Req.ReqID) {
					newlyCovering++
					uncoveredRel += m.Rel
				}
			}
			avgRel := allRel / float64(len(eligible))
			if newlyCovering > 0 {
				avgRel = uncoveredRel / float64(newlyCovering)
			}

			gain := fill.Alpha*float64(newlyCovering) +
				fill.Beta*avgRel +
				fill.Gamma*b.EvidenceScore -
				edge.WRed*red.Penalty -
				edge.WRisk*RiskPenalty(b)

			if best == nil || gain > best.gain || (gain == best.gain && b.BulletID < best.bullet.BulletID) {
				best = &fillCandidate{bullet: b, gain: gain, red: red, eligible: eligible}
			}
		}
		if best == nil {
			break
		}

		primary := best.eligible[0]
		s.selectFor(best.bullet, primary.Req, primary.Rel, best.red)
		for _, m := range best.eligible[1:] {
			if s.reqCapExceeded(m.Req.ReqID) {
				continue
			}
			s.credit(best.bullet, m.Req, m.Rel, false)
		}

		remaining = removeBullet(remaining, best.bullet.BulletID)
	}

	return *trace
}

func removeBullet(bullets []*types.ScoredBullet, bulletID string) []*types.ScoredBullet {
	out := bullets[:0]
	for _, b := range bullets {
		if b.BulletID != bulletID {
			out = append(out, b)
		}
	}
	return out
}
