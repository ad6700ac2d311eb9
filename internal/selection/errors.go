// Package selection chooses a budget-constrained, non-redundant set of resume bullets
// that best covers a weighted requirement rubric.
package selection

import (
	"fmt"

	"github.com/jonathan/resume-selector/internal/config"
)

// StageName identifies the selection stage in errors and logs
const StageName = "select"

// ConfigurationError reports a malformed or missing selection configuration
type ConfigurationError = config.ConfigurationError

// MissingArtifactError is returned when a required upstream artifact is absent.
// No plan is written when it occurs.
type MissingArtifactError struct {
	Name    string
	Message string
}

func (e *MissingArtifactError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", StageName, e.Message)
	}
	return fmt.Sprintf("%s: missing %s", StageName, e.Name)
}

// Stage reports the stage the error belongs to
func (e *MissingArtifactError) Stage() string {
	return StageName
}

// Error represents any other failure of the selection stage
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", StageName, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", StageName, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
