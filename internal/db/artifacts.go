package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/resume-selector/internal/types"
)

// artifactGetter is the part of DB the typed loaders need
type artifactGetter interface {
	GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error)
}

// loadArtifact decodes the artifact stored for step; a missing artifact is nil
func loadArtifact[T any](ctx context.Context, store artifactGetter, runID uuid.UUID, step string) (*T, error) {
	content, err := store.GetArtifact(ctx, runID, step)
	if err != nil {
		return nil, err
	}
	return decodeArtifact[T](content, step)
}

func decodeArtifact[T any](content []byte, step string) (*T, error) {
	if content == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(content, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", step, err)
	}
	return &v, nil
}

// GetEvidenceScoresByRunID loads evidence scores from database for a run
func (db *DB) GetEvidenceScoresByRunID(ctx context.Context, runID uuid.UUID) (*types.EvidenceScores, error) {
	return loadArtifact[types.EvidenceScores](ctx, db, runID, StepEvidenceScores)
}

// GetRelevanceMatrixByRunID loads the relevance matrix from database for a run
func (db *DB) GetRelevanceMatrixByRunID(ctx context.Context, runID uuid.UUID) (*types.RelevanceMatrix, error) {
	return loadArtifact[types.RelevanceMatrix](ctx, db, runID, StepRelevanceMatrix)
}

// GetSelectionPlanByRunID loads the selection plan from database for a run
func (db *DB) GetSelectionPlanByRunID(ctx context.Context, runID uuid.UUID) (*types.SelectionPlan, error) {
	return loadArtifact[types.SelectionPlan](ctx, db, runID, StepSelectionPlan)
}

// GetSelectionDebugByRunID loads selection debug output from database for a run
func (db *DB) GetSelectionDebugByRunID(ctx context.Context, runID uuid.UUID) (*types.SelectionDebug, error) {
	return loadArtifact[types.SelectionDebug](ctx, db, runID, StepSelectionDebug)
}
