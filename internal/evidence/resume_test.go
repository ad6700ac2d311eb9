package evidence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-selector/internal/cache"
	"github.com/jonathan/resume-selector/internal/experience"
	"github.com/jonathan/resume-selector/internal/types"
	"github.com/jonathan/resume-selector/internal/workspace"
)

var fixtureResume = filepath.Join("..", "..", "testdata", "valid", "master_resume.json")

func loadResume(t *testing.T) *types.Resume {
	t.Helper()
	master, _, err := experience.LoadMasterResume(fixtureResume)
	require.NoError(t, err)
	resume, err := experience.Normalize(master)
	require.NoError(t, err)
	return resume
}

func TestBuildToolLexicon(t *testing.T) {
	rules := loadTestRules(t)
	lexicon := BuildToolLexicon(rules, loadResume(t))

	assert.Len(t, lexicon, 19)
	assert.Contains(t, lexicon, "PySpark")
	assert.NotContains(t, lexicon, "pyspark")
	assert.Equal(t, "Postgres", lexicon[17])
	assert.Equal(t, "LLM", lexicon[18])
}

func TestScoreResume(t *testing.T) {
	rules := loadTestRules(t)
	scores, err := ScoreResume(loadResume(t), rules)
	require.NoError(t, err)

	require.Len(t, scores.Bullets, 6)
	assert.Equal(t, 19, scores.ToolLexiconSize)
	assert.Equal(t, "evidence_rules_v1", scores.RulesVersion)

	first := scores.Bullets[0]
	assert.Equal(t, "acme_b1", first.BulletID)
	assert.Equal(t, types.ParentExperience, first.ParentType)
	assert.InDelta(t, 0.85, first.EvidenceScore, 1e-9)
	assert.Equal(t, types.TierStrong, first.Tier)

	fluff := scores.Bullets[2]
	assert.Equal(t, "acme_b3", fluff.BulletID)
	assert.Equal(t, types.TierWeak, fluff.Tier)

	last := scores.Bullets[5]
	assert.Equal(t, "project_1_b1", last.BulletID)
	assert.Equal(t, types.ParentProject, last.ParentType)
	assert.Contains(t, last.Features.ToolMatches, "Postgres")

	assert.Equal(t, 6, scores.Summary.Count)
	assert.Equal(t, 6, scores.Summary.Strong+scores.Summary.Medium+scores.Summary.Weak)
}

func TestSummarize(t *testing.T) {
	bullets := []types.ScoredBullet{
		{BulletID: "c", EvidenceScore: 0.5, Tier: types.TierWeak},
		{BulletID: "a", EvidenceScore: 0.9, Tier: types.TierStrong},
		{BulletID: "b", EvidenceScore: 0.5, Tier: types.TierWeak},
		{BulletID: "d", EvidenceScore: 0.6, Tier: types.TierMedium},
	}

	summary := Summarize(bullets)

	assert.Equal(t, 4, summary.Count)
	assert.Equal(t, 1, summary.Strong)
	assert.Equal(t, 1, summary.Medium)
	assert.Equal(t, 2, summary.Weak)
	assert.Equal(t, 0.5, summary.Min)
	assert.Equal(t, 0.9, summary.Max)
	assert.InDelta(t, 0.625, summary.Mean, 1e-9)

	var top, bottom []string
	for _, s := range summary.Top {
		top = append(top, s.BulletID)
	}
	for _, s := range summary.Bottom {
		bottom = append(bottom, s.BulletID)
	}
	assert.Equal(t, []string{"a", "d", "b", "c"}, top)
	assert.Equal(t, []string{"c", "b", "d", "a"}, bottom)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.Count)
	assert.NotNil(t, summary.Top)
	assert.NotNil(t, summary.Bottom)
}

func TestRunStage_CachesByContent(t *testing.T) {
	ctx := context.Background()
	store := cache.NewFileStore(t.TempDir())
	evidenceCache := cache.NewEvidenceCache(store, nil)
	ws := workspace.New(t.TempDir())

	opts := StageOptions{
		RunID:      "run-1",
		ResumePath: fixtureResume,
		RulesPath:  filepath.Join("..", "..", "configs", "evidence_rules_v1.json"),
		Workspace:  ws,
		Cache:      evidenceCache,
	}

	first, err := RunStage(ctx, opts)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.FileExists(t, first.CachePath)
	assert.True(t, ws.Exists(workspace.FileEvidenceScores))
	assert.Equal(t, first.ResumeHash, first.Scores.ResumeHash)

	opts.RunID = "run-2"
	second, err := RunStage(ctx, opts)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, "run-2", second.Scores.RunID)
	assert.Equal(t, first.Scores.Bullets, second.Scores.Bullets)
}

func TestRunStage_MissingResume(t *testing.T) {
	_, err := RunStage(context.Background(), StageOptions{
		ResumePath: "missing.json",
		RulesPath:  filepath.Join("..", "..", "configs", "evidence_rules_v1.json"),
	})
	require.Error(t, err)

	var loadErr *experience.LoadError
	assert.ErrorAs(t, err, &loadErr)
}
