package selection

import (
	"github.com/jonathan/resume-selector/internal/types"
)

// Inputs is everything the engine needs, already loaded and normalized
type Inputs struct {
	Requirements []types.Requirement
	// Evidence lists scored bullets in resume order
	Evidence  []types.ScoredBullet
	Relevance *RelevanceLookup
	Baseline  *types.Resume
	// Vectors maps bullet ids to embeddings for redundancy checks
	Vectors map[string][]float64
	Config  types.SelectionConfig
}

// Outcome is the final selection state of one invocation
type Outcome struct {
	Ordered         []types.Requirement
	CandidateCounts map[string]int
	// Selected holds planned bullets in acceptance order
	Selected        []*types.PlannedBullet
	Coverage        map[string]*CoverageState
	Experience      int
	Projects        int
	PerRole         map[string]int
	RedundancyDrops []string
	BudgetDrops     []string
	Passes          []types.PassTrace
}

// Select runs the guard, coverage and fill passes in that order. Identical inputs
// always produce an identical outcome.
func Select(in Inputs) *Outcome {
	s := NewState(in)

	counts := CandidateCounts(in.Requirements, s.evidence, s.lookup, in.Config.Thresholds)
	ordered := RankRequirements(in.Requirements, counts)

	passes := []types.PassTrace{
		GuardPass(s),
		CoveragePass(s, ordered),
		FillPass(s),
	}

	// Requirements no pass touched have nothing supporting them
	for _, req := range in.Requirements {
		if _, ok := s.coverage[req.ReqID]; !ok {
			s.coverage[req.ReqID] = &CoverageState{Reason: types.ReasonNoSupportingBullet}
		}
	}

	out := &Outcome{
		Ordered:         ordered,
		CandidateCounts: counts,
		Selected:        make([]*types.PlannedBullet, 0, len(s.acceptOrder)),
		Coverage:        s.coverage,
		Experience:      s.experience,
		Projects:        s.projects,
		PerRole:         s.perRole,
		RedundancyDrops: append([]string{}, s.redundancyDrops...),
		BudgetDrops:     append([]string{}, s.budgetDrops...),
		Passes:          passes,
	}
	for _, id := range s.acceptOrder {
		out.Selected = append(out.Selected, s.selected[id])
	}
	return out
}
