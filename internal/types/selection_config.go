package types

// SelectionConfig is the versioned selection configuration document
type SelectionConfig struct {
	ConfigVersion string     `json:"config_version,omitempty"`
	Budgets       Budgets    `json:"budgets"`
	Thresholds    Thresholds `json:"thresholds"`
	Weights       Weights    `json:"weights"`
	Guards        Guards     `json:"guards"`
}

// Budgets caps how many bullets may be selected
type Budgets struct {
	ExperienceBulletsMax int      `json:"experience_bullets_max" validate:"gte=0"`
	ProjectBulletsMax    int      `json:"project_bullets_max" validate:"gte=0"`
	AwardLinesMax        int      `json:"award_lines_max" validate:"gte=0"`
	PerRoleCaps          RoleCaps `json:"per_role_caps"`
	// MaxBulletsPerRequirement of 0 means unlimited
	MaxBulletsPerRequirement int `json:"max_bullets_per_requirement" validate:"gte=0"`
}

// RoleCaps are per-role bullet caps keyed by recency tier
type RoleCaps struct {
	MostRecent int `json:"most_recent" validate:"gte=0"`
	Next       int `json:"next" validate:"gte=0"`
	Older      int `json:"older" validate:"gte=0"`
}

// Thresholds holds relevance, coverage and redundancy cut-offs
type Thresholds struct {
	MustMinRel          float64             `json:"must_min_rel" validate:"gte=0,lte=1"`
	NiceMinRel          float64             `json:"nice_min_rel" validate:"gte=0,lte=1"`
	CoverThreshold      float64             `json:"cover_threshold" validate:"gte=0"`
	Redundancy          RedundancyThreshold `json:"redundancy"`
	MinEvidenceTierNice string              `json:"min_evidence_tier_nice" validate:"oneof=strong medium weak"`
}

// MinRel returns the minimum relevance for a requirement type
func (t Thresholds) MinRel(reqType string) float64 {
	if reqType == RequirementMust {
		return t.MustMinRel
	}
	return t.NiceMinRel
}

// RedundancyThreshold configures near-duplicate suppression
type RedundancyThreshold struct {
	HardBlock    float64 `json:"hard_block" validate:"gt=0,lte=1,gtfield=PenaltyStart"`
	PenaltyStart float64 `json:"penalty_start" validate:"gte=0,lte=1"`
}

// Weights holds the edge and fill scoring weights
type Weights struct {
	Edge EdgeWeights `json:"edge"`
	Fill FillWeights `json:"fill"`
}

// EdgeWeights weight the (bullet, requirement) edge score
type EdgeWeights struct {
	WRel  float64 `json:"w_rel" validate:"gte=0"`
	WEvd  float64 `json:"w_evd" validate:"gte=0"`
	WRed  float64 `json:"w_red" validate:"gte=0"`
	WRisk float64 `json:"w_risk" validate:"gte=0"`
}

// FillWeights weight the greedy fill gain
type FillWeights struct {
	Alpha float64 `json:"alpha" validate:"gte=0"`
	Beta  float64 `json:"beta" validate:"gte=0"`
	Gamma float64 `json:"gamma" validate:"gte=0"`
}

// Guards reserves slots before requirement-priority selection runs
type Guards struct {
	TopPerRole int `json:"top_per_role" validate:"gte=0"`
	TopGlobal  int `json:"top_global" validate:"gte=0"`
}
