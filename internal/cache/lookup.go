package cache

import (
	"strings"
	"time"
)

// Lookup miss reasons
const (
	ReasonMissing = "missing"
	ReasonInvalid = "invalid"
	ReasonCorrupt = "corrupt"
)

// Lookup is the result of reading a typed cache entry.
// Data is nil on a miss and Reason says why.
type Lookup[T any] struct {
	Data   *T
	Path   string
	Reason string
	Errors []string
}

// Hit reports whether the entry was found and valid
func (l Lookup[T]) Hit() bool {
	return l.Data != nil
}

// Result is the metric label for the lookup
func (l Lookup[T]) Result() string {
	if l.Hit() {
		return "hit"
	}
	return l.Reason
}

func bareHash(h string) string {
	return strings.TrimPrefix(h, "sha256:")
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
