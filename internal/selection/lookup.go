package selection

import (
	"sort"

	"github.com/jonathan/resume-selector/internal/types"
)

// relevanceEntry is one bullet scored against a requirement
type relevanceEntry struct {
	BulletID string
	Rel      float64
}

// RelevanceLookup is the symmetric bullet/requirement relevance index built from a
// pruned relevance matrix
type RelevanceLookup struct {
	pairs map[pairKey]float64
	byReq map[string][]relevanceEntry
}

type pairKey struct {
	bulletID string
	reqID    string
}

// NewRelevanceLookup merges both directions of matrix. When a pair appears in both,
// the per-requirement score is kept.
func NewRelevanceLookup(matrix *types.RelevanceMatrix) *RelevanceLookup {
	l := &RelevanceLookup{
		pairs: make(map[pairKey]float64),
		byReq: make(map[string][]relevanceEntry),
	}
	if matrix == nil {
		return l
	}

	for _, reqID := range sortedKeys(matrix.PerRequirementTopBullets) {
		for _, entry := range matrix.PerRequirementTopBullets[reqID] {
			l.add(entry.BulletID, reqID, entry.Score)
		}
	}
	for _, bulletID := range sortedKeys(matrix.PerBulletTopRequirements) {
		for _, entry := range matrix.PerBulletTopRequirements[bulletID] {
			l.add(bulletID, entry.ReqID, entry.Score)
		}
	}

	for reqID, entries := range l.byReq {
		sort.Slice(entries, func(i, j int) bool { return entries[i].BulletID < entries[j].BulletID })
		l.byReq[reqID] = entries
	}
	return l
}

func (l *RelevanceLookup) add(bulletID, reqID string, score float64) {
	key := pairKey{bulletID: bulletID, reqID: reqID}
	if _, exists := l.pairs[key]; exists {
		return
	}
	l.pairs[key] = score
	l.byReq[reqID] = append(l.byReq[reqID], relevanceEntry{BulletID: bulletID, Rel: score})
}

// Rel returns the relevance of a bullet to a requirement, or 0 when the pair was pruned
func (l *RelevanceLookup) Rel(bulletID, reqID string) float64 {
	return l.pairs[pairKey{bulletID: bulletID, reqID: reqID}]
}

// ForRequirement lists every bullet scored against reqID, ordered by bullet id
func (l *RelevanceLookup) ForRequirement(reqID string) []relevanceEntry {
	return l.byReq[reqID]
}

// Len reports the number of distinct pairs
func (l *RelevanceLookup) Len() int {
	return len(l.pairs)
}

// baselineMeta is the baseline resume indexed for output grouping and role caps
type baselineMeta struct {
	roles     map[string]types.Role
	roleOrder map[string]int
	projects  map[string]types.Project
	projOrder map[string]int
	awards    []types.Award
}

func newBaselineMeta(baseline *types.Resume) baselineMeta {
	meta := baselineMeta{
		roles:     make(map[string]types.Role),
		roleOrder: make(map[string]int),
		projects:  make(map[string]types.Project),
		projOrder: make(map[string]int),
	}
	if baseline == nil {
		return meta
	}
	for i, role := range baseline.Roles {
		meta.roles[role.ID] = role
		meta.roleOrder[role.ID] = i
	}
	for i, project := range baseline.Projects {
		meta.projects[project.ID] = project
		meta.projOrder[project.ID] = i
	}
	meta.awards = baseline.Awards
	return meta
}

// roleCaps assigns each baseline role its cap by recency: the first role is the most
// recent, the second is next, every later role is older
func roleCaps(baseline *types.Resume, caps types.RoleCaps) map[string]int {
	out := make(map[string]int)
	if baseline == nil {
		return out
	}
	for i, role := range baseline.Roles {
		switch i {
		case 0:
			out[role.ID] = caps.MostRecent
		case 1:
			out[role.ID] = caps.Next
		default:
			out[role.ID] = caps.Older
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
