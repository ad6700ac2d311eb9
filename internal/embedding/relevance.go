package embedding

import (
	"sort"

	"github.com/jonathan/resume-selector/internal/types"
)

// BuildMatrix scores every bullet against every requirement and keeps, per requirement
// and per bullet, the top-K pairs scoring at least thresholds.MinScore. Ties are broken
// by id so the matrix is reproducible.
func BuildMatrix(
	resume *types.ResumeEmbeddings,
	requirements *types.RequirementEmbeddings,
	thresholds types.RelevanceThresholds,
) *types.RelevanceMatrix {
	perReq := make(map[string][]types.BulletScore, len(requirements.Requirements))
	perBullet := make(map[string][]types.RequirementScore, len(resume.Bullets))

	for _, b := range resume.Bullets {
		perBullet[b.BulletID] = []types.RequirementScore{}
	}

	for _, r := range requirements.Requirements {
		row := []types.BulletScore{}
		for _, b := range resume.Bullets {
			score := Cosine(b.Vector, r.Vector)
			if score < thresholds.MinScore {
				continue
			}
			row = append(row, types.BulletScore{BulletID: b.BulletID, Score: score})
			perBullet[b.BulletID] = append(perBullet[b.BulletID], types.RequirementScore{ReqID: r.ReqID, Score: score})
		}
		sort.SliceStable(row, func(i, j int) bool {
			if row[i].Score != row[j].Score {
				return row[i].Score > row[j].Score
			}
			return row[i].BulletID < row[j].BulletID
		})
		perReq[r.ReqID] = truncate(row, thresholds.TopKPerRequirement)
	}

	for id, col := range perBullet {
		sort.SliceStable(col, func(i, j int) bool {
			if col[i].Score != col[j].Score {
				return col[i].Score > col[j].Score
			}
			return col[i].ReqID < col[j].ReqID
		})
		perBullet[id] = truncate(col, thresholds.TopKPerBullet)
	}

	return &types.RelevanceMatrix{
		Version:                  types.RelevanceMatrixVersion,
		EmbeddingModel:           resume.EmbeddingModel,
		Dims:                     resume.Dims,
		Cosine:                   true,
		Thresholds:               thresholds,
		PerRequirementTopBullets: perReq,
		PerBulletTopRequirements: perBullet,
	}
}

// BuildSummary describes a matrix: counts plus the first requirement's top bullets
func BuildSummary(matrix *types.RelevanceMatrix, requirements []types.Requirement) *types.RelevanceSummary {
	summary := &types.RelevanceSummary{
		Version:           types.RelevanceSummaryVersion,
		RunID:             matrix.RunID,
		BulletsCount:      len(matrix.PerBulletTopRequirements),
		RequirementsCount: len(requirements),
		Thresholds:        matrix.Thresholds,
	}
	if len(requirements) > 0 {
		first := requirements[0].ReqID
		top := matrix.PerRequirementTopBullets[first]
		if top == nil {
			top = []types.BulletScore{}
		}
		summary.Sample = &types.RelevanceSample{ReqID: first, TopBullets: top}
	}
	return summary
}

func truncate[T any](items []T, k int) []T {
	if k > 0 && len(items) > k {
		return items[:k]
	}
	return items
}
