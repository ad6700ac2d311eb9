package selection

import (
	"github.com/jonathan/resume-selector/internal/config"
	"github.com/jonathan/resume-selector/internal/types"
)

// scored builds an evidence entry with an outcome cue so its risk penalty is zero
func scored(id, parentType, parentID string, evidence float64, tier string) types.ScoredBullet {
	return types.ScoredBullet{
		BulletID:      id,
		ParentType:    parentType,
		ParentID:      parentID,
		Text:          "text of " + id,
		EvidenceScore: evidence,
		Tier:          tier,
		Features:      types.EvidenceFeatures{OutcomeScore: 1},
	}
}

// relMatrix builds a relevance matrix from req -> bullet -> score
func relMatrix(rel map[string]map[string]float64) *types.RelevanceMatrix {
	m := &types.RelevanceMatrix{
		Version:                  types.RelevanceMatrixVersion,
		Cosine:                   true,
		PerRequirementTopBullets: map[string][]types.BulletScore{},
		PerBulletTopRequirements: map[string][]types.RequirementScore{},
	}
	for reqID, row := range rel {
		for bulletID, score := range row {
			m.PerRequirementTopBullets[reqID] = append(m.PerRequirementTopBullets[reqID], types.BulletScore{BulletID: bulletID, Score: score})
			m.PerBulletTopRequirements[bulletID] = append(m.PerBulletTopRequirements[bulletID], types.RequirementScore{ReqID: reqID, Score: score})
		}
	}
	return m
}

func must(id string, weight int) types.Requirement {
	return types.Requirement{ReqID: id, Type: types.RequirementMust, Weight: weight, Requirement: "requirement " + id}
}

func nice(id string, weight int) types.Requirement {
	return types.Requirement{ReqID: id, Type: types.RequirementNice, Weight: weight, Requirement: "requirement " + id}
}

func baselineRoles(ids ...string) *types.Resume {
	resume := &types.Resume{Roles: []types.Role{}, Projects: []types.Project{}, Awards: []types.Award{}}
	for _, id := range ids {
		resume.Roles = append(resume.Roles, types.Role{ID: id, Company: "Company " + id, Title: "Engineer", DateRange: "2020 - 2022"})
	}
	return resume
}

func testConfig() types.SelectionConfig {
	return config.DefaultSelectionConfig()
}

// scenarioA: three bullets relevant to one requirement, the second a near duplicate
// of the first, with room for two experience bullets
func scenarioA() Inputs {
	cfg := testConfig()
	cfg.Budgets.ExperienceBulletsMax = 2
	cfg.Budgets.ProjectBulletsMax = 0

	return Inputs{
		Requirements: []types.Requirement{must("req_etl", 5)},
		Evidence: []types.ScoredBullet{
			scored("b1", types.ParentExperience, "role_a", 0.9, types.TierStrong),
			scored("b2", types.ParentExperience, "role_a", 0.85, types.TierStrong),
			scored("b3", types.ParentExperience, "role_a", 0.7, types.TierMedium),
		},
		Relevance: NewRelevanceLookup(relMatrix(map[string]map[string]float64{
			"req_etl": {"b1": 0.8, "b2": 0.8, "b3": 0.8},
		})),
		Baseline: baselineRoles("role_a"),
		Vectors: map[string][]float64{
			"b1": {1, 0},
			"b2": {0.99, 0.01},
			"b3": {0, 1},
		},
		Config: cfg,
	}
}
