package observability

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/resume-selector/internal/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintEvidenceSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	scores := &types.EvidenceScores{
		RulesVersion: "evidence_rules_v1",
		Summary: types.EvidenceSummary{
			Count: 3, Strong: 1, Medium: 1, Weak: 1,
			Min: 0.2, Max: 0.9, Mean: 0.55,
			Top:    []types.BulletScoreSummary{{BulletID: "exp_1_b1", EvidenceScore: 0.9, Tier: "strong"}},
			Bottom: []types.BulletScoreSummary{{BulletID: "exp_1_b3", EvidenceScore: 0.2, Tier: "weak"}},
		},
	}

	p.PrintEvidenceSummary(scores)
	output := buf.String()

	assert.Contains(t, output, "EVIDENCE SCORES")
	assert.Contains(t, output, "strong 1")
	assert.Contains(t, output, "exp_1_b1")
	assert.Contains(t, output, "exp_1_b3")
	assert.Contains(t, output, "evidence_rules_v1")
}

func TestPrintEvidenceSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEvidenceSummary(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRelevanceSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRelevanceSummary(&types.RelevanceSummary{
		BulletsCount:      4,
		RequirementsCount: 2,
		Thresholds:        types.RelevanceThresholds{MinScore: 0.25},
		Sample: &types.RelevanceSample{
			ReqID:      "R1",
			TopBullets: []types.BulletScore{{BulletID: "b1", Score: 0.812}},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "RELEVANCE MATRIX")
	assert.Contains(t, output, "Top bullets for R1")
	assert.Contains(t, output, "0.812 b1")
}

func TestPrintSelectionPlan(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	plan := &types.SelectionPlan{
		Coverage: types.Coverage{MustTotal: 2, MustCovered: 1},
		Selected: types.PlanSelections{
			WorkExperience: []types.RoleSelection{{
				RoleID: "role_1", Company: "Acme", Title: "Engineer",
				Bullets: []types.PlannedBullet{{
					BulletID:      "role_1_b1",
					OriginalText:  "Built a streaming ingestion pipeline processing 2B events per day",
					RewriteIntent: types.RewriteLight,
				}},
			}},
		},
		BudgetsUsed: types.BudgetsUsed{ExperienceBullets: 1},
	}
	plan.Config.Budgets.ExperienceBulletsMax = 10

	p.PrintSelectionPlan(plan)
	output := buf.String()

	assert.Contains(t, output, "SELECTION PLAN")
	assert.Contains(t, output, "Must covered:  1/2")
	assert.Contains(t, output, "Engineer @ Acme")
	assert.Contains(t, output, "[light]")
	assert.Contains(t, output, "...")
}

func TestPrintUncovered(t *testing.T) {
	tests := []struct {
		name     string
		plan     *types.SelectionPlan
		contains string
	}{
		{
			name:     "nil plan",
			plan:     nil,
			contains: "ALL REQUIREMENTS COVERED",
		},
		{
			name: "uncovered requirement",
			plan: &types.SelectionPlan{Coverage: types.Coverage{
				UncoveredRequirements: []types.UncoveredRequirement{
					{ReqID: "R9", Type: "must", Weight: 5, Reason: types.ReasonNoSupportingBullet},
				},
			}},
			contains: "no_supporting_bullet_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf).PrintUncovered(tt.plan)
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 200))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}

func TestMetrics_CacheLookupCounter(t *testing.T) {
	before := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("test_ns", "hit"))
	CacheLookupsTotal.WithLabelValues("test_ns", "hit").Inc()
	after := testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("test_ns", "hit"))

	assert.InDelta(t, 1.0, after-before, 1e-9)
}

func TestWriteMetrics(t *testing.T) {
	StageTotal.WithLabelValues("score-evidence", "ok").Inc()
	path := filepath.Join(t.TempDir(), "metrics.prom")

	require.NoError(t, WriteMetrics(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "resume_selector_pipeline_stage_total")
}
