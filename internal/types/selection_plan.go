package types

// SelectionPlanVersion is the version written into every plan
const SelectionPlanVersion = "selection_plan_v1"

// Rewrite intents
const (
	RewriteLight  = "light"
	RewriteMedium = "medium"
	RewriteHeavy  = "heavy"
)

// Uncovered requirement reasons
const (
	ReasonNoSupportingBullet = "no_supporting_bullet_found"
	ReasonBlocked            = "blocked_by_budget_or_redundancy"
	ReasonNotCovered         = "not_covered"
)

// SelectionPlan is the selection_plan.json artifact
type SelectionPlan struct {
	Version          string          `json:"version"`
	RunID            string          `json:"run_id,omitempty"`
	MasterResumeHash string          `json:"master_resume_hash"`
	JobExtractedHash string          `json:"job_extracted_hash"`
	RubricHash       string          `json:"rubric_hash"`
	EmbeddingModel   string          `json:"embedding_model,omitempty"`
	Config           SelectionConfig `json:"config"`
	Coverage         Coverage        `json:"coverage"`
	Selected         PlanSelections  `json:"selected"`
	BudgetsUsed      BudgetsUsed     `json:"budgets_used"`
	SelectionNotes   SelectionNotes  `json:"selection_notes"`
}

// Coverage summarizes which requirements the plan satisfies
type Coverage struct {
	MustTotal             int                    `json:"must_total"`
	NiceTotal             int                    `json:"nice_total"`
	MustCovered           int                    `json:"must_covered"`
	NiceCovered           int                    `json:"nice_covered"`
	UncoveredRequirements []UncoveredRequirement `json:"uncovered_requirements"`
}

// UncoveredRequirement names a requirement the plan could not satisfy
type UncoveredRequirement struct {
	ReqID  string `json:"req_id"`
	Type   string `json:"type"`
	Weight int    `json:"weight"`
	Reason string `json:"reason"`
}

// PlanSelections groups selected bullets by parent in baseline order
type PlanSelections struct {
	WorkExperience []RoleSelection    `json:"work_experience"`
	Projects       []ProjectSelection `json:"projects"`
	Awards         []AwardSelection   `json:"awards"`
}

// RoleSelection is one role with its selected bullets
type RoleSelection struct {
	RoleID    string          `json:"role_id"`
	Company   string          `json:"company"`
	Title     string          `json:"title"`
	DateRange string          `json:"date_range"`
	Bullets   []PlannedBullet `json:"bullets"`
}

// ProjectSelection is one project with its selected bullets
type ProjectSelection struct {
	ProjectID string          `json:"project_id"`
	Name      string          `json:"name"`
	Date      string          `json:"date"`
	Bullets   []PlannedBullet `json:"bullets"`
}

// AwardSelection marks an award line for inclusion
type AwardSelection struct {
	AwardID string `json:"award_id"`
	Include bool   `json:"include"`
	Reason  string `json:"reason"`
}

// PlannedBullet is a selected bullet with the justification for picking it
type PlannedBullet struct {
	BulletID      string      `json:"bullet_id"`
	ParentType    string      `json:"parent_type"`
	ParentID      string      `json:"parent_id"`
	OriginalText  string      `json:"original_text"`
	Evidence      EvidenceRef `json:"evidence"`
	Matches       []Match     `json:"matches"`
	Redundancy    Redundancy  `json:"redundancy"`
	RewriteIntent string      `json:"rewrite_intent"`
	Reasons       []string    `json:"reasons"`
}

// EvidenceRef is the evidence score and tier of a planned bullet
type EvidenceRef struct {
	Score float64 `json:"score"`
	Tier  string  `json:"tier"`
}

// Match credits a bullet against a requirement
type Match struct {
	ReqID     string  `json:"req_id"`
	Rel       float64 `json:"rel"`
	EdgeScore float64 `json:"edge_score"`
}

// Redundancy is the outcome of comparing a bullet with earlier selections
type Redundancy struct {
	MaxSim  float64 `json:"max_sim"`
	Blocked bool    `json:"blocked"`
	Penalty float64 `json:"penalty"`
}

// BudgetsUsed reports consumed budget
type BudgetsUsed struct {
	ExperienceBullets int            `json:"experience_bullets"`
	ProjectBullets    int            `json:"project_bullets"`
	AwardLines        int            `json:"award_lines"`
	PerRole           map[string]int `json:"per_role"`
}

// SelectionNotes lists bullets dropped during selection
type SelectionNotes struct {
	DroppedDueToRedundancy []string `json:"dropped_due_to_redundancy"`
	DroppedDueToBudget     []string `json:"dropped_due_to_budget"`
}

// PassDecision records one decision a selection pass made
type PassDecision struct {
	BulletID string `json:"bullet_id,omitempty"`
	ReqID    string `json:"req_id,omitempty"`
	Action   string `json:"action"`
}

// PassTrace is the decision log of one selection pass
type PassTrace struct {
	Pass      string         `json:"pass"`
	Decisions []PassDecision `json:"decisions"`
}

// SelectionDebug is the selection_debug.json artifact
type SelectionDebug struct {
	OrderedRequirements   []string       `json:"ordered_requirements"`
	CandidateCounts       map[string]int `json:"candidate_counts"`
	SelectionDurationMs   int64          `json:"selection_duration_ms"`
	ConfigHash            string         `json:"config_hash"`
	ResumeEmbeddingsCache string         `json:"resume_embeddings_cache,omitempty"`
	Passes                []PassTrace    `json:"passes,omitempty"`
}

// SelectionMeta is reported back to the run record
type SelectionMeta struct {
	PlanVersion       string `json:"selection_plan_version"`
	PlanHash          string `json:"selection_plan_hash"`
	ConfigHash        string `json:"selection_config_hash"`
	ComputeMs         int64  `json:"selection_compute_ms"`
	MustCovered       int    `json:"selection_must_covered"`
	MustTotal         int    `json:"selection_must_total"`
	ExperienceBullets int    `json:"selection_bullets_experience"`
	ProjectBullets    int    `json:"selection_bullets_projects"`
}
