package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-selector/internal/types"
)

func TestBuildPlan_GroupsByBaselineOrder(t *testing.T) {
	baseline := baselineRoles("newest", "older")
	baseline.Projects = []types.Project{{ID: "proj_1", Name: "Lakehouse", Date: "2023"}}
	baseline.Awards = []types.Award{{ID: "award_1"}, {ID: "award_2"}, {ID: "award_3"}}

	cfg := testConfig()
	in := Inputs{Baseline: baseline, Config: cfg, Requirements: []types.Requirement{must("m", 1), nice("n", 1)}}
	out := &Outcome{
		Selected: []*types.PlannedBullet{
			{BulletID: "o2", ParentType: types.ParentExperience, ParentID: "older"},
			{BulletID: "x1", ParentType: types.ParentExperience, ParentID: "unlisted"},
			{BulletID: "n2", ParentType: types.ParentExperience, ParentID: "newest"},
			{BulletID: "n1", ParentType: types.ParentExperience, ParentID: "newest"},
			{BulletID: "p1", ParentType: types.ParentProject, ParentID: "proj_1"},
		},
		Coverage: map[string]*CoverageState{
			"m": {Covered: true, Assignments: 1},
			"n": {},
		},
		Experience:      4,
		Projects:        1,
		PerRole:         map[string]int{"newest": 2, "older": 1, "unlisted": 1},
		RedundancyDrops: []string{},
		BudgetDrops:     []string{"z9"},
	}

	plan := BuildPlan(in, out)

	var roles []string
	for _, r := range plan.Selected.WorkExperience {
		roles = append(roles, r.RoleID)
	}
	assert.Equal(t, []string{"newest", "older", "unlisted"}, roles)
	require.Len(t, plan.Selected.WorkExperience[0].Bullets, 2)
	assert.Equal(t, "n1", plan.Selected.WorkExperience[0].Bullets[0].BulletID)
	assert.Equal(t, "Company newest", plan.Selected.WorkExperience[0].Company)

	require.Len(t, plan.Selected.Projects, 1)
	assert.Equal(t, "Lakehouse", plan.Selected.Projects[0].Name)

	assert.Len(t, plan.Selected.Awards, cfg.Budgets.AwardLinesMax)
	assert.Equal(t, "award_1", plan.Selected.Awards[0].AwardID)

	assert.Equal(t, 1, plan.Coverage.MustTotal)
	assert.Equal(t, 1, plan.Coverage.MustCovered)
	assert.Equal(t, 1, plan.Coverage.NiceTotal)
	assert.Equal(t, []types.UncoveredRequirement{
		{ReqID: "n", Type: types.RequirementNice, Weight: 1, Reason: types.ReasonNotCovered},
	}, plan.Coverage.UncoveredRequirements)

	assert.Equal(t, 4, plan.BudgetsUsed.ExperienceBullets)
	assert.Equal(t, 2, plan.BudgetsUsed.AwardLines)
	assert.Equal(t, []string{"z9"}, plan.SelectionNotes.DroppedDueToBudget)
	assert.Equal(t, types.SelectionPlanVersion, plan.Version)
}

func TestBuildPlan_EmptySelection(t *testing.T) {
	in := Inputs{Config: testConfig()}
	plan := BuildPlan(in, &Outcome{Coverage: map[string]*CoverageState{}})

	assert.NotNil(t, plan.Selected.WorkExperience)
	assert.NotNil(t, plan.Selected.Projects)
	assert.Empty(t, plan.Selected.Awards)
	assert.NotNil(t, plan.Coverage.UncoveredRequirements)
}
