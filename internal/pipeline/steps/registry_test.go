package steps

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbpkg "github.com/jonathan/resume-selector/internal/db"
	"github.com/jonathan/resume-selector/internal/workspace"
)

type presentArtifacts map[string]bool

func (p presentArtifacts) Exists(name string) bool { return p[name] }

func TestStepRegistry(t *testing.T) {
	for _, stepName := range Order {
		def, ok := StepRegistry[stepName]
		require.True(t, ok, "Step %s should be in registry", stepName)
		assert.Equal(t, stepName, def.Name)
		assert.NotEmpty(t, def.Category)
		assert.NotEmpty(t, def.Outputs)
		for _, dep := range def.Dependencies {
			_, ok := StepRegistry[dep]
			assert.True(t, ok, "dependency %s of %s is registered", dep, stepName)
		}
	}
	assert.Len(t, StepRegistry, len(Order))
}

func TestStepRegistryCategories(t *testing.T) {
	assert.Equal(t, dbpkg.StepCategoryEvidence, StepRegistry[StepScoreEvidence].Category)
	assert.Equal(t, dbpkg.StepCategoryEmbeddings, StepRegistry[StepEmbed].Category)
	assert.Equal(t, dbpkg.StepCategorySelection, StepRegistry[StepSelect].Category)
}

func TestValidateDependencies(t *testing.T) {
	all := presentArtifacts{}
	for _, def := range StepRegistry {
		for _, name := range def.Outputs {
			all[name] = true
		}
	}

	tests := []struct {
		name        string
		step        string
		present     presentArtifacts
		wantDeps    []string
		wantMissing []string
	}{
		{name: "no dependencies", step: StepScoreEvidence, present: presentArtifacts{}},
		{name: "select with everything", step: StepSelect, present: all},
		{
			name:        "select without relevance",
			step:        StepSelect,
			present:     presentArtifacts{workspace.FileEvidenceScores: true},
			wantDeps:    []string{StepEmbed},
			wantMissing: []string{workspace.FileRequirementEmbeddings, workspace.FileRelevanceMatrix, workspace.FileRelevanceSummary},
		},
		{
			name:        "select with nothing",
			step:        StepSelect,
			present:     presentArtifacts{},
			wantDeps:    []string{StepScoreEvidence, StepEmbed},
			wantMissing: []string{workspace.FileEvidenceScores, workspace.FileRequirementEmbeddings, workspace.FileRelevanceMatrix, workspace.FileRelevanceSummary},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDependencies(tt.present, tt.step)
			if tt.wantDeps == nil {
				assert.NoError(t, err)
				return
			}
			var depErr *DependencyError
			require.True(t, errors.As(err, &depErr))
			assert.Equal(t, tt.step, depErr.Step)
			assert.Equal(t, tt.wantDeps, depErr.MissingDependencies)
			assert.Equal(t, tt.wantMissing, depErr.MissingArtifacts)
			assert.Contains(t, err.Error(), "missing dependencies")
		})
	}
}

func TestValidateDependencies_UnknownStep(t *testing.T) {
	err := ValidateDependencies(presentArtifacts{}, "unknown_step")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown step")
}

func TestStepsFrom(t *testing.T) {
	tests := []struct {
		from    string
		want    []string
		wantErr bool
	}{
		{from: "", want: []string{StepScoreEvidence, StepEmbed, StepSelect}},
		{from: StepEmbed, want: []string{StepEmbed, StepSelect}},
		{from: StepSelect, want: []string{StepSelect}},
		{from: "render", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			got, err := StepsFrom(tt.from)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unknown step: render")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
