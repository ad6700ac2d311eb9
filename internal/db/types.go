package db

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run represents a pipeline run record
type Run struct {
	ID           uuid.UUID  `json:"id"`
	ResumePath   string     `json:"resume_path"`
	ResumeHash   string     `json:"resume_hash"`
	ConfigHash   string     `json:"config_hash"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// RunInput describes a run to create
type RunInput struct {
	ID         uuid.UUID
	ResumePath string
	ResumeHash string
	ConfigHash string
}

// Artifact step names, one per persisted stage output
const (
	StepEvidenceScores        = "evidence_scores"
	StepRequirementEmbeddings = "jd_requirement_embeddings"
	StepRelevanceMatrix       = "relevance_matrix"
	StepRelevanceSummary      = "relevance_summary"
	StepSelectionPlan         = "selection_plan"
	StepSelectionDebug        = "selection_debug"
)
