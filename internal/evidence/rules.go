package evidence

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jonathan/resume-selector/internal/cache"
	"github.com/jonathan/resume-selector/internal/schemas"
	"github.com/jonathan/resume-selector/internal/types"
)

// Rules is an evidence rule document. Absent keys keep the values from DefaultRules.
type Rules struct {
	Version        string         `json:"version"`
	Verbs          VerbRules      `json:"verbs"`
	ToolLexicon    []string       `json:"tool_lexicon"`
	ToolScoring    ToolScoring    `json:"tool_scoring"`
	FluffPatterns  FluffPatterns  `json:"fluff_patterns"`
	FluffPenalties FluffPenalties `json:"fluff_penalties"`
	OutcomeCues    []string       `json:"outcome_cues"`
	MetricRegexes  []string       `json:"metric_regexes"`
	ScopeCues      []string       `json:"scope_cues"`
	Weights        RuleWeights    `json:"weights"`
	TierThresholds TierThresholds `json:"tier_thresholds"`
}

// VerbRules lists action verbs by strength
type VerbRules struct {
	Strong []string `json:"strong"`
	Medium []string `json:"medium"`
}

// ToolScoring sets how tool matches turn into a score
type ToolScoring struct {
	PerMatch float64 `json:"per_match"`
	MaxScore float64 `json:"max_score"`
}

// FluffPatterns lists filler phrases by severity
type FluffPatterns struct {
	Hard []string `json:"hard"`
	Soft []string `json:"soft"`
}

// FluffPenalties are non-positive penalties per fluff match and their floor
type FluffPenalties struct {
	Hard       float64 `json:"hard"`
	Soft       float64 `json:"soft"`
	MaxPenalty float64 `json:"max_penalty"`
}

// RuleWeights weight the evidence components
type RuleWeights struct {
	Action  float64 `json:"action"`
	Tools   float64 `json:"tools"`
	Outcome float64 `json:"outcome"`
	Metric  float64 `json:"metric"`
	Scope   float64 `json:"scope"`
}

// TierThresholds map a score to a tier
type TierThresholds struct {
	StrongMin float64 `json:"strong_min"`
	MediumMin float64 `json:"medium_min"`
}

// DefaultRules returns the numeric defaults with empty phrase lists
func DefaultRules() Rules {
	return Rules{
		ToolScoring:    ToolScoring{PerMatch: 0.5, MaxScore: 1},
		FluffPenalties: FluffPenalties{Hard: -0.35, Soft: -0.15, MaxPenalty: -0.5},
		Weights:        RuleWeights{Action: 0.2, Tools: 0.15, Outcome: 0.25, Metric: 0.25, Scope: 0.15},
		TierThresholds: TierThresholds{StrongMin: 0.72, MediumMin: 0.55},
	}
}

// LoadRules reads a rule document and returns it with the sha256 of its bytes
func LoadRules(path string) (*Rules, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", &RulesError{Message: fmt.Sprintf("rules file not found at %s", path), Cause: err}
	}
	rules, err := ParseRules(content)
	if err != nil {
		return nil, "", err
	}
	return rules, cache.SHA256Hex(content), nil
}

// ParseRules validates and decodes a rule document on top of DefaultRules
func ParseRules(content []byte) (*Rules, error) {
	if err := schemas.ValidateArtifact(schemas.EvidenceRules, content); err != nil {
		return nil, &RulesError{Message: "invalid rule document", Cause: err}
	}

	rules := DefaultRules()
	if err := json.Unmarshal(content, &rules); err != nil {
		return nil, &RulesError{Message: "failed to decode rule document", Cause: err}
	}
	if _, err := compileMetricPatterns(rules.MetricRegexes); err != nil {
		return nil, err
	}
	return &rules, nil
}

// Tier maps a score onto strong, medium or weak
func (r *Rules) Tier(score float64) string {
	switch {
	case score >= r.TierThresholds.StrongMin:
		return types.TierStrong
	case score >= r.TierThresholds.MediumMin:
		return types.TierMedium
	default:
		return types.TierWeak
	}
}

// compileMetricPatterns turns metric_regexes into case-insensitive regexps.
// Doubled backslashes are collapsed so patterns survive double escaping.
func compileMetricPatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		normalized := strings.ReplaceAll(p, `\\`, `\`)
		re, err := regexp.Compile("(?i)" + normalized)
		if err != nil {
			return nil, &RulesError{Message: fmt.Sprintf("invalid metric regex %q", p), Cause: err}
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
