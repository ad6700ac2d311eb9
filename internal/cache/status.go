package cache

import (
	"context"
	"encoding/json"

	"github.com/jonathan/resume-selector/internal/schemas"
	"github.com/jonathan/resume-selector/internal/types"
)

// EntryStatus describes one cached entry
type EntryStatus struct {
	Path   string   `json:"path"`
	State  string   `json:"state"`
	Errors []string `json:"errors,omitempty"`
}

// NamespaceStatus aggregates entries of one namespace
type NamespaceStatus struct {
	Namespace string        `json:"namespace"`
	Valid     int           `json:"valid"`
	Invalid   int           `json:"invalid"`
	Corrupt   int           `json:"corrupt"`
	Entries   []EntryStatus `json:"entries"`
}

// StatusReport is the result of scanning a cache root
type StatusReport struct {
	Root       string          `json:"root"`
	Evidence   NamespaceStatus `json:"evidence_scores"`
	Embeddings NamespaceStatus `json:"resume_embeddings"`
}

// Status scans the file cache and classifies every entry as valid, invalid or corrupt
func Status(ctx context.Context, store *FileStore) (*StatusReport, error) {
	report := &StatusReport{Root: store.Root()}

	evidence, err := scanNamespace(ctx, store, NamespaceEvidence, EvidenceFile, func(key Key) (string, []string, error) {
		lookup, err := readEntry[types.EvidenceScores](ctx, store, key, schemas.EvidenceScores, nil)
		return lookup.Result(), lookup.Errors, err
	})
	if err != nil {
		return nil, err
	}
	report.Evidence = evidence

	embeddings, err := scanNamespace(ctx, store, NamespaceResumeBullets, EmbeddingsFile, func(key Key) (string, []string, error) {
		lookup, err := readEntry(ctx, store, key, schemas.ResumeEmbeddings, func(e *types.ResumeEmbeddings) []string {
			return CheckEmbeddings(e, specFromEntry(ctx, store, key, e))
		})
		return lookup.Result(), lookup.Errors, err
	})
	if err != nil {
		return nil, err
	}
	report.Embeddings = embeddings

	return report, nil
}

// specFromEntry rebuilds the expected spec from the key path and manifest so an
// entry is checked for internal consistency
func specFromEntry(ctx context.Context, store Store, key Key, e *types.ResumeEmbeddings) EmbeddingSpec {
	spec := EmbeddingSpec{
		MasterResumeHash:  key.Parts[0],
		Model:             e.EmbeddingModel,
		Dims:              e.Dims,
		PreprocessVersion: e.PreprocessVersion,
	}
	if data, err := store.Get(ctx, key.Sibling(ManifestFile)); err == nil {
		var manifest EmbeddingsManifest
		if json.Unmarshal(data, &manifest) == nil && manifest.EmbeddingModel != "" {
			spec.Model = manifest.EmbeddingModel
			spec.Dims = manifest.Dims
			spec.PreprocessVersion = manifest.PreprocessVersion
		}
	}
	return spec
}

func scanNamespace(
	ctx context.Context,
	store *FileStore,
	namespace, file string,
	classify func(Key) (string, []string, error),
) (NamespaceStatus, error) {
	status := NamespaceStatus{Namespace: namespace, Entries: []EntryStatus{}}

	keys, err := store.Keys(namespace, file)
	if err != nil {
		return status, err
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return status, err
		}
		result, problems, err := classify(key)
		if err != nil {
			return status, err
		}
		state := "valid"
		switch result {
		case "hit":
			status.Valid++
		case ReasonCorrupt:
			state = ReasonCorrupt
			status.Corrupt++
		default:
			state = ReasonInvalid
			status.Invalid++
		}
		status.Entries = append(status.Entries, EntryStatus{Path: store.Location(key), State: state, Errors: problems})
	}
	return status, nil
}

// ClearReport lists what Clear removed
type ClearReport struct {
	Root    string   `json:"root"`
	Cleared []string `json:"cleared"`
}

// Clear removes cached entries. An empty namespace list clears both namespaces.
func Clear(store *FileStore, namespaces ...string) (*ClearReport, error) {
	if len(namespaces) == 0 {
		namespaces = []string{NamespaceEvidence, NamespaceResumeBullets}
	}
	report := &ClearReport{Root: store.Root(), Cleared: []string{}}
	for _, ns := range namespaces {
		removed, err := store.Clear(ns)
		if err != nil {
			return report, err
		}
		if removed {
			report.Cleared = append(report.Cleared, ns)
		}
	}
	return report, nil
}
