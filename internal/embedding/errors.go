// Package embedding produces resume bullet and requirement vectors and derives the
// pruned bullet to requirement relevance matrix.
package embedding

import "fmt"

// StageName identifies the embedding stage in errors and logs
const StageName = "embeddings"

// Error represents a failure in the embedding stage
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

// Stage reports the stage the error belongs to
func (e *Error) Stage() string {
	return StageName
}
