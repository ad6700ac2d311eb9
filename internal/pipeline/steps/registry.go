// Package steps provides step definitions and dependency validation for the
// selection pipeline.
package steps

import (
	"fmt"
	"strings"

	dbpkg "github.com/jonathan/resume-selector/internal/db"
	"github.com/jonathan/resume-selector/internal/workspace"
)

// Step names
const (
	StepScoreEvidence = "score_evidence"
	StepEmbed         = "embed"
	StepSelect        = "select"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	// Inputs are workspace artifacts the step reads that no step produces
	Inputs []string
	// Outputs are workspace artifacts the step writes
	Outputs []string
}

// Order is the execution order of the steps
var Order = []string{StepScoreEvidence, StepEmbed, StepSelect}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	StepScoreEvidence: {
		Name:         StepScoreEvidence,
		Category:     dbpkg.StepCategoryEvidence,
		Dependencies: []string{},
		Outputs:      []string{workspace.FileEvidenceScores},
	},
	StepEmbed: {
		Name:         StepEmbed,
		Category:     dbpkg.StepCategoryEmbeddings,
		Dependencies: []string{},
		Inputs:       []string{workspace.FileRubric},
		Outputs: []string{
			workspace.FileRequirementEmbeddings,
			workspace.FileRelevanceMatrix,
			workspace.FileRelevanceSummary,
		},
	},
	StepSelect: {
		Name:         StepSelect,
		Category:     dbpkg.StepCategorySelection,
		Dependencies: []string{StepScoreEvidence, StepEmbed},
		Inputs:       []string{workspace.FileRubric, workspace.FileBaselineResume},
		Outputs:      []string{workspace.FileSelectionPlan, workspace.FileSelectionDebug},
	},
}

// ArtifactChecker reports whether a workspace artifact exists
type ArtifactChecker interface {
	Exists(name string) bool
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
	MissingArtifacts    []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v (artifacts: %s)",
		e.Step, e.MissingDependencies, strings.Join(e.MissingArtifacts, ", "))
}

// ValidateDependencies checks that every dependency of stepName has left its outputs
// in ws
func ValidateDependencies(ws ArtifactChecker, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missingDeps, missingArtifacts []string
	for _, dep := range def.Dependencies {
		depMissing := false
		for _, name := range StepRegistry[dep].Outputs {
			if !ws.Exists(name) {
				missingArtifacts = append(missingArtifacts, name)
				depMissing = true
			}
		}
		if depMissing {
			missingDeps = append(missingDeps, dep)
		}
	}

	if len(missingDeps) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missingDeps,
			MissingArtifacts:    missingArtifacts,
		}
	}
	return nil
}

// StepsFrom returns the steps to run when starting at from, in execution order.
// An empty from selects every step.
func StepsFrom(from string) ([]string, error) {
	if from == "" {
		return append([]string{}, Order...), nil
	}
	for i, name := range Order {
		if name == from {
			return append([]string{}, Order[i:]...), nil
		}
	}
	return nil, fmt.Errorf("unknown step: %s (expected one of %s)", from, strings.Join(Order, ", "))
}
