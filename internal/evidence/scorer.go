package evidence

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-selector/internal/types"
)

// Action strengths and the score each earns
const (
	actionStrongScore = 1.0
	actionMediumScore = 0.6
	actionWeakScore   = 0.2
)

// Result is the evidence assessment of one bullet
type Result struct {
	EvidenceScore float64
	Tier          string
	Features      types.EvidenceFeatures
	Reasons       []types.EvidenceReason
}

// Scorer scores bullet text against compiled rules and a tool lexicon
type Scorer struct {
	rules     *Rules
	strong    []phrase
	medium    []phrase
	tools     []phrase
	outcomes  []phrase
	scopes    []phrase
	fluffHard []phrase
	fluffSoft []phrase
	metrics   []*regexp.Regexp
}

// NewScorer compiles rules and lexicon into a Scorer
func NewScorer(rules *Rules, lexicon []string) (*Scorer, error) {
	metrics, err := compileMetricPatterns(rules.MetricRegexes)
	if err != nil {
		return nil, err
	}
	return &Scorer{
		rules:     rules,
		strong:    compilePhrases(rules.Verbs.Strong),
		medium:    compilePhrases(rules.Verbs.Medium),
		tools:     compilePhrases(lexicon),
		outcomes:  compilePhrases(rules.OutcomeCues),
		scopes:    compilePhrases(rules.ScopeCues),
		fluffHard: compilePhrases(rules.FluffPatterns.Hard),
		fluffSoft: compilePhrases(rules.FluffPatterns.Soft),
		metrics:   metrics,
	}, nil
}

// ScoreBullet scores a single bullet; callers scoring many bullets should reuse a Scorer
func ScoreBullet(text string, rules *Rules, lexicon []string) (*Result, error) {
	s, err := NewScorer(rules, lexicon)
	if err != nil {
		return nil, err
	}
	return s.Score(text), nil
}

// Score assesses one bullet
func (s *Scorer) Score(bulletText string) *Result {
	text := strings.TrimSpace(bulletText)
	lower := strings.ToLower(text)

	verb, strength, actionScore := s.detectAction(lower)
	toolMatches := unique(collectMatches(text, s.tools))
	outcomeMatches := collectMatches(lower, s.outcomes)
	metricMatches := collectMetricMatches(text, s.metrics)
	scopeMatches := collectMatches(lower, s.scopes)
	hardMatches := collectMatches(lower, s.fluffHard)
	softMatches := collectMatches(lower, s.fluffSoft)
	fluffPenalty := s.fluffPenalty(len(hardMatches), len(softMatches))

	toolScore := min(s.rules.ToolScoring.MaxScore, float64(len(toolMatches))*s.rules.ToolScoring.PerMatch)
	outcomeScore := indicator(len(outcomeMatches))
	metricScore := indicator(len(metricMatches))
	scopeScore := indicator(len(scopeMatches))

	w := s.rules.Weights
	weighted := actionScore*w.Action +
		toolScore*w.Tools +
		outcomeScore*w.Outcome +
		metricScore*w.Metric +
		scopeScore*w.Scope
	score := clamp(weighted+fluffPenalty, 0, 1)

	reasons := []types.EvidenceReason{{Code: "ACTION_" + strings.ToUpper(strength)}}
	if verb != "" {
		reasons[0].Matches = []string{verb}
	}
	reasons = appendReason(reasons, "TOOLS_FOUND", toolMatches)
	reasons = appendReason(reasons, "OUTCOME_FOUND", outcomeMatches)
	reasons = appendReason(reasons, "METRIC_FOUND", metricMatches)
	reasons = appendReason(reasons, "SCOPE_FOUND", scopeMatches)
	reasons = appendReason(reasons, "FLUFF_HARD", hardMatches)
	reasons = appendReason(reasons, "FLUFF_SOFT", softMatches)

	fluffMatches := make([]string, 0, len(hardMatches)+len(softMatches))
	fluffMatches = append(fluffMatches, hardMatches...)
	fluffMatches = append(fluffMatches, softMatches...)

	return &Result{
		EvidenceScore: score,
		Tier:          s.rules.Tier(score),
		Features: types.EvidenceFeatures{
			ActionScore:    actionScore,
			ToolScore:      toolScore,
			OutcomeScore:   outcomeScore,
			MetricScore:    metricScore,
			ScopeScore:     scopeScore,
			FluffPenalty:   fluffPenalty,
			ActionVerb:     verb,
			ToolMatches:    toolMatches,
			MetricMatches:  metricMatches,
			OutcomeMatches: outcomeMatches,
			ScopeMatches:   scopeMatches,
			FluffMatches:   fluffMatches,
		},
		Reasons: reasons,
	}
}

func (s *Scorer) detectAction(lower string) (verb, strength string, score float64) {
	if v := firstMatch(lower, s.strong); v != "" {
		return v, types.TierStrong, actionStrongScore
	}
	if v := firstMatch(lower, s.medium); v != "" {
		return v, types.TierMedium, actionMediumScore
	}
	return "", types.TierWeak, actionWeakScore
}

// fluffPenalty is never positive and never below the configured floor
func (s *Scorer) fluffPenalty(hard, soft int) float64 {
	if hard == 0 && soft == 0 {
		return 0
	}
	p := s.rules.FluffPenalties
	combined := float64(hard)*p.Hard + float64(soft)*p.Soft
	return min(0, max(p.MaxPenalty, combined))
}

func appendReason(reasons []types.EvidenceReason, code string, matches []string) []types.EvidenceReason {
	if len(matches) == 0 {
		return reasons
	}
	return append(reasons, types.EvidenceReason{Code: code, Matches: matches})
}

func indicator(n int) float64 {
	if n > 0 {
		return 1
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
