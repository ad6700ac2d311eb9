package cache

import (
	"context"
	"strings"
)

// Namespaces under the cache root
const (
	NamespaceEvidence      = "evidence_scores"
	NamespaceResumeBullets = "embeddings/resume_bullets"
)

// Key addresses one blob: a namespace, the content hashes that identify it, and a file name
type Key struct {
	Namespace string
	Parts     []string
	File      string
}

// Sibling returns a key in the same directory with a different file name
func (k Key) Sibling(file string) Key {
	return Key{Namespace: k.Namespace, Parts: k.Parts, File: file}
}

func (k Key) String() string {
	segments := append([]string{k.Namespace}, k.Parts...)
	return strings.Join(append(segments, k.File), "/")
}

// Store is a blob store addressed by content-derived keys.
// Writes of the same key are equivalent, so no locking is required.
type Store interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	Put(ctx context.Context, key Key, data []byte) error
	Delete(ctx context.Context, key Key) error
	// Location describes where a key lives, for logs and debug artifacts
	Location(key Key) string
}
