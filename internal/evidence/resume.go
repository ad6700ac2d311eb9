package evidence

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-selector/internal/experience"
	"github.com/jonathan/resume-selector/internal/types"
)

const summaryListSize = 10

// BuildToolLexicon merges the rule lexicon with resume-derived tool terms.
// Entries are deduplicated case-insensitively and the first spelling wins.
func BuildToolLexicon(rules *Rules, resume *types.Resume) []string {
	candidates := make([]string, 0, len(rules.ToolLexicon))
	candidates = append(candidates, rules.ToolLexicon...)
	if resume != nil {
		candidates = append(candidates, experience.ToolTerms(resume)...)
	}

	seen := make(map[string]struct{}, len(candidates))
	lexicon := make([]string, 0, len(candidates))
	for _, item := range candidates {
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		lexicon = append(lexicon, item)
	}
	return lexicon
}

// ScoreResume scores every bullet of a normalized resume, experience first then projects
func ScoreResume(resume *types.Resume, rules *Rules) (*types.EvidenceScores, error) {
	lexicon := BuildToolLexicon(rules, resume)
	scorer, err := NewScorer(rules, lexicon)
	if err != nil {
		return nil, err
	}

	bullets := []types.ScoredBullet{}
	for _, b := range experience.Bullets(resume) {
		result := scorer.Score(b.Text)
		bullets = append(bullets, types.ScoredBullet{
			BulletID:      b.BulletID,
			ParentType:    b.ParentType,
			ParentID:      b.ParentID,
			Text:          b.Text,
			EvidenceScore: result.EvidenceScore,
			Tier:          result.Tier,
			Features:      result.Features,
			Reasons:       result.Reasons,
		})
	}

	return &types.EvidenceScores{
		RulesVersion:    rules.Version,
		ToolLexiconSize: len(lexicon),
		Summary:         Summarize(bullets),
		Bullets:         bullets,
	}, nil
}

// Summarize aggregates scored bullets. Top and Bottom hold up to ten bullets each,
// ordered by score with bullet_id breaking ties.
func Summarize(bullets []types.ScoredBullet) types.EvidenceSummary {
	summary := types.EvidenceSummary{
		Count:  len(bullets),
		Top:    []types.BulletScoreSummary{},
		Bottom: []types.BulletScoreSummary{},
	}
	if len(bullets) == 0 {
		return summary
	}

	summary.Min = bullets[0].EvidenceScore
	summary.Max = bullets[0].EvidenceScore
	total := 0.0
	for _, b := range bullets {
		switch b.Tier {
		case types.TierStrong:
			summary.Strong++
		case types.TierMedium:
			summary.Medium++
		case types.TierWeak:
			summary.Weak++
		}
		summary.Min = min(summary.Min, b.EvidenceScore)
		summary.Max = max(summary.Max, b.EvidenceScore)
		total += b.EvidenceScore
	}
	summary.Mean = total / float64(len(bullets))

	sorted := make([]types.ScoredBullet, len(bullets))
	copy(sorted, bullets)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].EvidenceScore != sorted[j].EvidenceScore {
			return sorted[i].EvidenceScore > sorted[j].EvidenceScore
		}
		return sorted[i].BulletID < sorted[j].BulletID
	})

	for i := 0; i < len(sorted) && i < summaryListSize; i++ {
		summary.Top = append(summary.Top, summarize(sorted[i]))
	}
	for i := len(sorted) - 1; i >= 0 && len(summary.Bottom) < summaryListSize; i-- {
		summary.Bottom = append(summary.Bottom, summarize(sorted[i]))
	}
	return summary
}

func summarize(b types.ScoredBullet) types.BulletScoreSummary {
	return types.BulletScoreSummary{
		BulletID:      b.BulletID,
		ParentType:    b.ParentType,
		ParentID:      b.ParentID,
		Text:          b.Text,
		EvidenceScore: b.EvidenceScore,
		Tier:          b.Tier,
	}
}
