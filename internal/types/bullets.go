// Package types provides type definitions for structured data used throughout the resume-selector system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Parent types a bullet can belong to
const (
	ParentExperience = "experience"
	ParentProject    = "project"
)

// Evidence tiers
const (
	TierStrong = "strong"
	TierMedium = "medium"
	TierWeak   = "weak"
)

// TierRank orders evidence tiers; unknown tiers rank lowest.
func TierRank(tier string) int {
	switch tier {
	case TierStrong:
		return 3
	case TierMedium:
		return 2
	case TierWeak:
		return 1
	default:
		return 0
	}
}

// EvidenceFeatures is the per-component breakdown behind an evidence score
type EvidenceFeatures struct {
	ActionScore    float64  `json:"action_score"`
	ToolScore      float64  `json:"tool_score"`
	OutcomeScore   float64  `json:"outcome_score"`
	MetricScore    float64  `json:"metric_score"`
	ScopeScore     float64  `json:"scope_score"`
	FluffPenalty   float64  `json:"fluff_penalty"`
	ActionVerb     string   `json:"action_verb,omitempty"`
	ToolMatches    []string `json:"tool_matches"`
	MetricMatches  []string `json:"metric_matches"`
	OutcomeMatches []string `json:"outcome_matches"`
	ScopeMatches   []string `json:"scope_matches"`
	FluffMatches   []string `json:"fluff_matches"`
}

// EvidenceReason is a coded finding, e.g. ACTION_STRONG or METRIC_FOUND
type EvidenceReason struct {
	Code    string   `json:"code"`
	Matches []string `json:"matches,omitempty"`
}

// ScoredBullet is a resume bullet with its evidence assessment.
// Created once per scoring pass and not mutated afterwards.
type ScoredBullet struct {
	BulletID      string           `json:"bullet_id"`
	ParentType    string           `json:"parent_type"`
	ParentID      string           `json:"parent_id"`
	Text          string           `json:"text"`
	EvidenceScore float64          `json:"evidence_score"`
	Tier          string           `json:"tier"`
	Features      EvidenceFeatures `json:"features"`
	Reasons       []EvidenceReason `json:"reasons,omitempty"`
}

// BulletScoreSummary is the short form of a scored bullet used in summaries
type BulletScoreSummary struct {
	BulletID      string  `json:"bullet_id"`
	ParentType    string  `json:"parent_type"`
	ParentID      string  `json:"parent_id"`
	Text          string  `json:"text"`
	EvidenceScore float64 `json:"evidence_score"`
	Tier          string  `json:"tier"`
}

// EvidenceSummary aggregates a scoring pass
type EvidenceSummary struct {
	Count  int                  `json:"count"`
	Strong int                  `json:"strong"`
	Medium int                  `json:"medium"`
	Weak   int                  `json:"weak"`
	Min    float64              `json:"min"`
	Max    float64              `json:"max"`
	Mean   float64              `json:"mean"`
	Top    []BulletScoreSummary `json:"top"`
	Bottom []BulletScoreSummary `json:"bottom"`
}

// EvidenceScores is the evidence_scores.json artifact
type EvidenceScores struct {
	RunID           string          `json:"run_id,omitempty"`
	GeneratedAt     string          `json:"generated_at,omitempty"`
	RulesVersion    string          `json:"rules_version"`
	RulesHash       string          `json:"rules_hash"`
	ResumeHash      string          `json:"resume_hash,omitempty"`
	ToolLexiconSize int             `json:"tool_lexicon_size"`
	Summary         EvidenceSummary `json:"summary"`
	Bullets         []ScoredBullet  `json:"bullets"`
}
