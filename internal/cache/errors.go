// Package cache provides a content-addressed store for evidence scores and resume embeddings.
package cache

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by a Store when no blob exists for a key
var ErrNotFound = errors.New("cache entry not found")

// Error represents an error that occurs while reading or writing the cache
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

// ValidationError reports a cached artifact that failed its shape check.
// Callers treat it as a miss.
type ValidationError struct {
	Artifact string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cached %s failed validation: %s", e.Artifact, strings.Join(e.Problems, "; "))
}
