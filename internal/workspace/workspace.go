// Package workspace provides access to the per-run artifact directory shared by pipeline stages.
package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Artifact file names inside a run directory
const (
	FileRubric                = "jd_rubric.json"
	FileJobExtracted          = "job_extracted.txt"
	FileBaselineResume        = "baseline_resume.json"
	FileEvidenceScores        = "evidence_scores.json"
	FileRequirementEmbeddings = "jd_requirement_embeddings.json"
	FileRelevanceMatrix       = "relevance_matrix.json"
	FileRelevanceSummary      = "relevance_summary.json"
	FileSelectionPlan         = "selection_plan.json"
	FileSelectionDebug        = "selection_debug.json"
)

// MissingArtifactError is returned when a required artifact is absent
type MissingArtifactError struct {
	Name string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("missing %s", e.Name)
}

// Error represents an I/O or decoding failure on an artifact that exists
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Dir is a run directory
type Dir struct {
	path string
}

// New returns a Dir rooted at path. The directory is created on first write.
func New(path string) *Dir {
	return &Dir{path: path}
}

// Path returns the directory path
func (d *Dir) Path() string {
	return d.path
}

// Join returns the path of an artifact
func (d *Dir) Join(name string) string {
	return filepath.Join(d.path, name)
}

// Exists reports whether an artifact is present
func (d *Dir) Exists(name string) bool {
	_, err := os.Stat(d.Join(name))
	return err == nil
}

// ReadRaw reads an artifact's bytes
func (d *Dir) ReadRaw(name string) ([]byte, error) {
	data, err := os.ReadFile(d.Join(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingArtifactError{Name: name}
		}
		return nil, &Error{Message: fmt.Sprintf("failed to read %s", name), Cause: err}
	}
	return data, nil
}

// ReadJSON decodes an artifact into v and returns the raw bytes
func (d *Dir) ReadJSON(name string, v any) ([]byte, error) {
	data, err := d.ReadRaw(name)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to decode %s", name), Cause: err}
	}
	return data, nil
}

// WriteJSON writes v as indented JSON and returns the bytes written
func (d *Dir) WriteJSON(name string, v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to encode %s", name), Cause: err}
	}
	if err := d.WriteRaw(name, data); err != nil {
		return nil, err
	}
	return data, nil
}

// WriteRaw writes an artifact's bytes
func (d *Dir) WriteRaw(name string, data []byte) error {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return &Error{Message: fmt.Sprintf("failed to create run directory %s", d.path), Cause: err}
	}
	if err := os.WriteFile(d.Join(name), data, 0o644); err != nil {
		return &Error{Message: fmt.Sprintf("failed to write %s", name), Cause: err}
	}
	return nil
}
