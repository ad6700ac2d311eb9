package selection

import (
	"sort"

	"github.com/jonathan/resume-selector/internal/types"
)

// guardEntry is a bullet's single best eligible requirement match
type guardEntry struct {
	bullet *types.ScoredBullet
	req    types.Requirement
	rel    float64
	edge   float64
}

// GuardPass locks in high-confidence picks before requirement-priority selection.
// Each bullet's best match is computed without redundancy; then the top
// guards.top_per_role entries of every parent and the top guards.top_global entries
// overall are selected, each through the live redundancy and budget checks.
func GuardPass(s *State) types.PassTrace {
	trace := s.begin(PassGuard)
	guards := s.cfg.Guards
	if guards.TopPerRole <= 0 && guards.TopGlobal <= 0 {
		return *trace
	}

	// 1. Best match per bullet, grouped by parent in order of first appearance
	var all []guardEntry
	perParent := make(map[string][]guardEntry)
	var parents []string
	for _, b := range s.bullets {
		if b.ParentType != types.ParentExperience && b.ParentType != types.ParentProject {
			continue
		}
		best, ok := s.bestGuardEntry(b)
		if !ok {
			continue
		}
		all = append(all, best)
		if _, seen := perParent[b.ParentID]; !seen {
			parents = append(parents, b.ParentID)
		}
		perParent[b.ParentID] = append(perParent[b.ParentID], best)
	}

	// 2. Per-parent quota
	if guards.TopPerRole > 0 {
		for _, parent := range parents {
			entries := sortGuardEntries(perParent[parent])
			placed := 0
			for _, entry := range entries {
				if placed >= guards.TopPerRole {
					break
				}
				if s.trySelectGuard(entry) {
					placed++
				}
			}
		}
	}

	// 3. Global quota over whatever is still unselected
	if guards.TopGlobal > 0 {
		var remaining []guardEntry
		for _, entry := range all {
			if !s.IsSelected(entry.bullet.BulletID) {
				remaining = append(remaining, entry)
			}
		}
		placed := 0
		for _, entry := range sortGuardEntries(remaining) {
			if placed >= guards.TopGlobal {
				break
			}
			if s.trySelectGuard(entry) {
				placed++
			}
		}
	}

	return *trace
}

func (s *State) bestGuardEntry(b *types.ScoredBullet) (guardEntry, bool) {
	thresholds := s.cfg.Thresholds
	risk := RiskPenalty(b)

	var best guardEntry
	found := false
	for _, req := range s.requirements {
		rel := s.lookup.Rel(b.BulletID, req.ReqID)
		if rel < thresholds.MinRel(req.Type) {
			continue
		}
		if !TierAllowed(b.Tier, req.Type, thresholds.MinEvidenceTierNice) {
			continue
		}
		edge := EdgeScore(rel, b.EvidenceScore, 0, risk, s.cfg.Weights.Edge)
		if !found || edge > best.edge {
			best = guardEntry{bullet: b, req: req, rel: rel, edge: edge}
			found = true
		}
	}
	return best, found
}

func (s *State) trySelectGuard(entry guardEntry) bool {
	if s.IsSelected(entry.bullet.BulletID) || s.reqCapExceeded(entry.req.ReqID) {
		return false
	}
	red, ok := s.screen(entry.bullet)
	if !ok {
		return false
	}
	s.selectFor(entry.bullet, entry.req, entry.rel, red)
	return true
}

func sortGuardEntries(entries []guardEntry) []guardEntry {
	sorted := make([]guardEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].edge != sorted[j].edge {
			return sorted[i].edge > sorted[j].edge
		}
		return sorted[i].bullet.BulletID < sorted[j].bullet.BulletID
	})
	return sorted
}
