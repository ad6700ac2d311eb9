// Package experience loads master resumes and normalizes them into roles, projects and bullets.
package experience

import (
	"fmt"
	"strings"
)

// LoadError is returned when a master resume cannot be read or decoded. Path is
// empty when the document came from memory.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("master resume")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// NormalizationError rejects a master resume whose bullets cannot be addressed
// uniquely. BulletID names the offending bullet when there is one.
type NormalizationError struct {
	BulletID string
	Message  string
}

func (e *NormalizationError) Error() string {
	if e.BulletID != "" {
		return fmt.Sprintf("cannot normalize master resume at bullet %s: %s", e.BulletID, e.Message)
	}
	return fmt.Sprintf("cannot normalize master resume: %s", e.Message)
}
