// Package evidence scores resume bullets for lexical evidence of impact.
package evidence

import "fmt"

// RulesError represents a problem loading or compiling an evidence rule document
type RulesError struct {
	Message string
	Cause   error
}

func (e *RulesError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("evidence rules: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("evidence rules: %s", e.Message)
}

func (e *RulesError) Unwrap() error {
	return e.Cause
}

// Error represents a failure in the evidence stage
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
