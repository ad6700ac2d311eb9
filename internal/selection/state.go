package selection

import (
	"fmt"
	"sort"

	"github.com/jonathan/resume-selector/internal/observability"
	"github.com/jonathan/resume-selector/internal/types"
)

// Pass names used in traces and metrics
const (
	PassGuard    = "guard"
	PassCoverage = "coverage"
	PassFill     = "fill"
)

// Trace actions
const (
	ActionSelected          = "selected"
	ActionCredited          = "credited"
	ActionDroppedRedundancy = "dropped_redundancy"
	ActionDroppedBudget     = "dropped_budget"
	ActionSkippedCovered    = "skipped_covered"
	ActionUncovered         = "uncovered"
)

// SelectedVector is an accepted bullet's embedding, kept in acceptance order
type SelectedVector struct {
	BulletID string
	Vector   []float64
}

// CoverageState tracks one requirement across passes
type CoverageState struct {
	Covered     bool
	Assignments int
	Reason      string
}

// eligibleMatch is a requirement a bullet may be credited against
type eligibleMatch struct {
	Req types.Requirement
	Rel float64
}

// State is the selection state threaded through the guard, coverage and fill passes.
// It belongs to a single invocation.
type State struct {
	cfg          types.SelectionConfig
	requirements []types.Requirement
	bullets      []*types.ScoredBullet
	evidence     map[string]*types.ScoredBullet
	lookup       *RelevanceLookup
	vectors      map[string][]float64
	roleCaps     map[string]int

	selected        map[string]*types.PlannedBullet
	acceptOrder     []string
	acceptedRed     map[string]RedundancyInfo
	selectedVectors []SelectedVector

	experience int
	projects   int
	perRole    map[string]int
	reqCounts  map[string]int
	coverage   map[string]*CoverageState

	redundancyDrops []string
	budgetDrops     []string
	droppedRed      map[string]bool
	droppedBudget   map[string]bool

	pass  string
	trace *types.PassTrace
}

// NewState prepares an empty selection state for in
func NewState(in Inputs) *State {
	s := &State{
		cfg:           in.Config,
		requirements:  in.Requirements,
		evidence:      make(map[string]*types.ScoredBullet, len(in.Evidence)),
		lookup:        in.Relevance,
		vectors:       in.Vectors,
		roleCaps:      roleCaps(in.Baseline, in.Config.Budgets.PerRoleCaps),
		selected:      make(map[string]*types.PlannedBullet),
		acceptedRed:   make(map[string]RedundancyInfo),
		perRole:       make(map[string]int),
		reqCounts:     make(map[string]int),
		coverage:      make(map[string]*CoverageState),
		droppedRed:    make(map[string]bool),
		droppedBudget: make(map[string]bool),
	}
	if s.lookup == nil {
		s.lookup = NewRelevanceLookup(nil)
	}
	if s.vectors == nil {
		s.vectors = map[string][]float64{}
	}
	for i := range in.Evidence {
		b := &in.Evidence[i]
		if _, dup := s.evidence[b.BulletID]; dup {
			continue
		}
		s.evidence[b.BulletID] = b
		s.bullets = append(s.bullets, b)
	}
	return s
}

func (s *State) begin(pass string) *types.PassTrace {
	s.pass = pass
	s.trace = &types.PassTrace{Pass: pass, Decisions: []types.PassDecision{}}
	return s.trace
}

func (s *State) record(bulletID, reqID, action string) {
	if s.trace == nil {
		return
	}
	s.trace.Decisions = append(s.trace.Decisions, types.PassDecision{BulletID: bulletID, ReqID: reqID, Action: action})
}

// IsSelected reports whether a bullet has been accepted
func (s *State) IsSelected(bulletID string) bool {
	_, ok := s.selected[bulletID]
	return ok
}

// IsCovered reports whether a requirement is covered
func (s *State) IsCovered(reqID string) bool {
	c, ok := s.coverage[reqID]
	return ok && c.Covered
}

func (s *State) reqCapExceeded(reqID string) bool {
	limit := s.cfg.Budgets.MaxBulletsPerRequirement
	return limit > 0 && s.reqCounts[reqID] >= limit
}

// budgetAllows checks the global caps and the per-role cap for the bullet's parent.
// Roles missing from the baseline have no per-role cap.
func (s *State) budgetAllows(b *types.ScoredBullet) bool {
	budgets := s.cfg.Budgets
	switch b.ParentType {
	case types.ParentExperience:
		if s.experience >= budgets.ExperienceBulletsMax {
			return false
		}
		if limit, ok := s.roleCaps[b.ParentID]; ok && s.perRole[b.ParentID] >= limit {
			return false
		}
		return true
	case types.ParentProject:
		return s.projects < budgets.ProjectBulletsMax
	default:
		return false
	}
}

func (s *State) budgetRemains() bool {
	return s.experience < s.cfg.Budgets.ExperienceBulletsMax || s.projects < s.cfg.Budgets.ProjectBulletsMax
}

// screen runs the live redundancy and budget checks in that order, recording drops
func (s *State) screen(b *types.ScoredBullet) (RedundancyInfo, bool) {
	red := ComputeRedundancy(s.vectors[b.BulletID], s.selectedVectors, s.cfg.Thresholds.Redundancy)
	if red.Blocked {
		s.drop(b.BulletID, &s.redundancyDrops, s.droppedRed, "redundancy")
		s.record(b.BulletID, "", ActionDroppedRedundancy)
		return red, false
	}
	if !s.budgetAllows(b) {
		s.drop(b.BulletID, &s.budgetDrops, s.droppedBudget, "budget")
		s.record(b.BulletID, "", ActionDroppedBudget)
		return red, false
	}
	return red, true
}

func (s *State) drop(bulletID string, list *[]string, seen map[string]bool, reason string) {
	if seen[bulletID] {
		return
	}
	seen[bulletID] = true
	*list = append(*list, bulletID)
	observability.DroppedBullets.WithLabelValues(reason).Inc()
}

// eligibleMatches lists the uncapped requirements the bullet clears relevance and tier
// for, best relevance first with req_id tie-break
func (s *State) eligibleMatches(b *types.ScoredBullet) []eligibleMatch {
	thresholds := s.cfg.Thresholds
	var out []eligibleMatch
	for _, req := range s.requirements {
		if s.reqCapExceeded(req.ReqID) {
			continue
		}
		rel := s.lookup.Rel(b.BulletID, req.ReqID)
		if rel < thresholds.MinRel(req.Type) {
			continue
		}
		if !TierAllowed(b.Tier, req.Type, thresholds.MinEvidenceTierNice) {
			continue
		}
		out = append(out, eligibleMatch{Req: req, Rel: rel})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rel != out[j].Rel {
			return out[i].Rel > out[j].Rel
		}
		return out[i].Req.ReqID < out[j].Req.ReqID
	})
	return out
}

// accept adds a bullet to the selection and charges its budget
func (s *State) accept(b *types.ScoredBullet, red RedundancyInfo) {
	if s.IsSelected(b.BulletID) {
		return
	}
	s.selected[b.BulletID] = &types.PlannedBullet{
		BulletID:     b.BulletID,
		ParentType:   b.ParentType,
		ParentID:     b.ParentID,
		OriginalText: b.Text,
		Evidence:     types.EvidenceRef{Score: b.EvidenceScore, Tier: b.Tier},
		Matches:      []types.Match{},
		Redundancy: types.Redundancy{
			MaxSim:  red.MaxSim,
			Blocked: red.Blocked,
			Penalty: red.Penalty,
		},
		RewriteIntent: RewriteIntent(b.Tier, b.EvidenceScore),
		Reasons:       []string{},
	}
	s.acceptOrder = append(s.acceptOrder, b.BulletID)
	s.acceptedRed[b.BulletID] = red

	switch b.ParentType {
	case types.ParentExperience:
		s.experience++
		s.perRole[b.ParentID]++
	case types.ParentProject:
		s.projects++
	}
	if vector, ok := s.vectors[b.BulletID]; ok {
		s.selectedVectors = append(s.selectedVectors, SelectedVector{BulletID: b.BulletID, Vector: vector})
	}
	observability.SelectedBullets.WithLabelValues(s.pass, b.ParentType).Inc()
	s.record(b.BulletID, "", ActionSelected)
}

// credit attributes a selected bullet to a requirement and updates coverage. The edge
// uses the redundancy penalty the bullet carried when it was accepted. A bullet is
// counted against a requirement at most once.
func (s *State) credit(b *types.ScoredBullet, req types.Requirement, rel float64, withReasons bool) float64 {
	planned := s.selected[b.BulletID]
	for _, m := range planned.Matches {
		if m.ReqID == req.ReqID {
			return m.EdgeScore
		}
	}

	red := s.acceptedRed[b.BulletID]
	edge := EdgeScore(rel, b.EvidenceScore, red.Penalty, RiskPenalty(b), s.cfg.Weights.Edge)
	planned.Matches = append(planned.Matches, types.Match{ReqID: req.ReqID, Rel: rel, EdgeScore: edge})

	if withReasons {
		kind := "covers_nice"
		if req.IsMust() {
			kind = "covers_must"
		}
		planned.Reasons = append(planned.Reasons,
			fmt.Sprintf("%s:%s", kind, req.ReqID),
			fmt.Sprintf("high_relevance:%.2f", rel),
			fmt.Sprintf("%s_evidence:%.2f", b.Tier, b.EvidenceScore),
		)
		if red.Penalty > 0 {
			planned.Reasons = append(planned.Reasons, fmt.Sprintf("redundancy_penalty:%.2f", red.Penalty))
		}
	}

	s.reqCounts[req.ReqID]++
	entry := s.coverageEntry(req.ReqID)
	entry.Assignments++
	if edge >= s.cfg.Thresholds.CoverThreshold {
		entry.Covered = true
		entry.Reason = ""
	}
	s.record(b.BulletID, req.ReqID, ActionCredited)
	return edge
}

// credited reports whether the selected bullet already matches reqID
func (s *State) credited(bulletID, reqID string) bool {
	planned, ok := s.selected[bulletID]
	if !ok {
		return false
	}
	for _, m := range planned.Matches {
		if m.ReqID == reqID {
			return true
		}
	}
	return false
}

// selectFor accepts a bullet if needed and credits it to req
func (s *State) selectFor(b *types.ScoredBullet, req types.Requirement, rel float64, red RedundancyInfo) {
	s.accept(b, red)
	s.credit(b, req, rel, true)
}

func (s *State) coverageEntry(reqID string) *CoverageState {
	entry, ok := s.coverage[reqID]
	if !ok {
		entry = &CoverageState{}
		s.coverage[reqID] = entry
	}
	return entry
}

func (s *State) markUncovered(reqID, reason string) {
	s.coverageEntry(reqID).Reason = reason
	s.record("", reqID, ActionUncovered+":"+reason)
}
