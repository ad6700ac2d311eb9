package selection

import (
	"sort"

	"github.com/jonathan/resume-selector/internal/types"
)

// awardReason marks awards included because award budget remained
const awardReason = "budget_available"

// BuildPlan assembles the plan body from an outcome: coverage summary, selections
// grouped by parent in baseline order, awards, budget usage and drop notes. Hashes
// and the run id are filled in by the caller.
func BuildPlan(in Inputs, out *Outcome) *types.SelectionPlan {
	meta := newBaselineMeta(in.Baseline)
	work, projects := groupSelections(out.Selected, meta)
	awards := selectAwards(meta.awards, in.Config.Budgets.AwardLinesMax)

	perRole := make(map[string]int, len(out.PerRole))
	for k, v := range out.PerRole {
		perRole[k] = v
	}

	return &types.SelectionPlan{
		Version:  types.SelectionPlanVersion,
		Config:   in.Config,
		Coverage: summarizeCoverage(in.Requirements, out.Coverage),
		Selected: types.PlanSelections{
			WorkExperience: work,
			Projects:       projects,
			Awards:         awards,
		},
		BudgetsUsed: types.BudgetsUsed{
			ExperienceBullets: out.Experience,
			ProjectBullets:    out.Projects,
			AwardLines:        len(awards),
			PerRole:           perRole,
		},
		SelectionNotes: types.SelectionNotes{
			DroppedDueToRedundancy: out.RedundancyDrops,
			DroppedDueToBudget:     out.BudgetDrops,
		},
	}
}

func summarizeCoverage(requirements []types.Requirement, coverage map[string]*CoverageState) types.Coverage {
	summary := types.Coverage{UncoveredRequirements: []types.UncoveredRequirement{}}
	for _, req := range requirements {
		state := coverage[req.ReqID]
		covered := state != nil && state.Covered
		switch {
		case req.IsMust():
			summary.MustTotal++
			if covered {
				summary.MustCovered++
			}
		case req.Type == types.RequirementNice:
			summary.NiceTotal++
			if covered {
				summary.NiceCovered++
			}
		}
		if covered {
			continue
		}
		reason := types.ReasonNotCovered
		if state != nil && state.Reason != "" {
			reason = state.Reason
		}
		summary.UncoveredRequirements = append(summary.UncoveredRequirements, types.UncoveredRequirement{
			ReqID:  req.ReqID,
			Type:   req.Type,
			Weight: req.Weight,
			Reason: reason,
		})
	}
	return summary
}

// groupSelections groups planned bullets under their role or project. Parents are in
// baseline order; parents missing from the baseline sort after, by id. Bullets are
// ordered by id.
func groupSelections(selected []*types.PlannedBullet, meta baselineMeta) ([]types.RoleSelection, []types.ProjectSelection) {
	roleBullets := make(map[string][]types.PlannedBullet)
	projectBullets := make(map[string][]types.PlannedBullet)
	for _, b := range selected {
		switch b.ParentType {
		case types.ParentExperience:
			roleBullets[b.ParentID] = append(roleBullets[b.ParentID], *b)
		case types.ParentProject:
			projectBullets[b.ParentID] = append(projectBullets[b.ParentID], *b)
		}
	}

	work := make([]types.RoleSelection, 0, len(roleBullets))
	for _, roleID := range orderParents(roleBullets, meta.roleOrder) {
		role := meta.roles[roleID]
		work = append(work, types.RoleSelection{
			RoleID:    roleID,
			Company:   role.Company,
			Title:     role.Title,
			DateRange: role.DateRange,
			Bullets:   sortByBulletID(roleBullets[roleID]),
		})
	}

	projects := make([]types.ProjectSelection, 0, len(projectBullets))
	for _, projectID := range orderParents(projectBullets, meta.projOrder) {
		project := meta.projects[projectID]
		projects = append(projects, types.ProjectSelection{
			ProjectID: projectID,
			Name:      project.Name,
			Date:      project.Date,
			Bullets:   sortByBulletID(projectBullets[projectID]),
		})
	}
	return work, projects
}

func orderParents(groups map[string][]types.PlannedBullet, order map[string]int) []string {
	ids := sortedKeys(groups)
	sort.SliceStable(ids, func(i, j int) bool {
		oi, iKnown := order[ids[i]]
		oj, jKnown := order[ids[j]]
		if iKnown != jKnown {
			return iKnown
		}
		return oi < oj
	})
	return ids
}

func sortByBulletID(bullets []types.PlannedBullet) []types.PlannedBullet {
	sort.Slice(bullets, func(i, j int) bool { return bullets[i].BulletID < bullets[j].BulletID })
	return bullets
}

func selectAwards(awards []types.Award, limit int) []types.AwardSelection {
	out := []types.AwardSelection{}
	for i, award := range awards {
		if i >= limit {
			break
		}
		out = append(out, types.AwardSelection{AwardID: award.ID, Include: true, Reason: awardReason})
	}
	return out
}
