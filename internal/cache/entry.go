package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jonathan/resume-selector/internal/observability"
	"github.com/jonathan/resume-selector/internal/schemas"
)

// readEntry loads a blob, checks it against its artifact schema and decodes it.
// A read failure other than ErrNotFound is returned as an error; every other
// problem becomes a miss with a reason.
func readEntry[T any](ctx context.Context, store Store, key Key, schemaName string, check func(*T) []string) (Lookup[T], error) {
	lookup := Lookup[T]{Path: store.Location(key)}

	data, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			lookup.Reason = ReasonMissing
			record(key.Namespace, lookup.Result())
			return lookup, nil
		}
		return lookup, err
	}

	if !json.Valid(data) {
		lookup.Reason = ReasonCorrupt
		lookup.Errors = []string{"cached file is not valid JSON"}
		record(key.Namespace, lookup.Result())
		return lookup, nil
	}

	if err := schemas.ValidateArtifact(schemaName, data); err != nil {
		lookup.Reason = ReasonInvalid
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			lookup.Errors = ve.Messages()
		} else {
			lookup.Errors = []string{err.Error()}
		}
		record(key.Namespace, lookup.Result())
		return lookup, nil
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		lookup.Reason = ReasonCorrupt
		lookup.Errors = []string{err.Error()}
		record(key.Namespace, lookup.Result())
		return lookup, nil
	}

	if check != nil {
		if problems := check(&value); len(problems) > 0 {
			lookup.Reason = ReasonInvalid
			lookup.Errors = problems
			record(key.Namespace, lookup.Result())
			return lookup, nil
		}
	}

	lookup.Data = &value
	record(key.Namespace, lookup.Result())
	return lookup, nil
}

// writeEntry writes the payload first and the manifest second
func writeEntry(ctx context.Context, store Store, key Key, payload, manifest any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return &Error{Message: "failed to encode cache payload", Cause: err}
	}
	if err := store.Put(ctx, key, data); err != nil {
		observability.CacheWritesTotal.WithLabelValues(key.Namespace, "error").Inc()
		return err
	}

	meta, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return &Error{Message: "failed to encode cache manifest", Cause: err}
	}
	if err := store.Put(ctx, key.Sibling(ManifestFile), meta); err != nil {
		observability.CacheWritesTotal.WithLabelValues(key.Namespace, "error").Inc()
		return err
	}

	observability.CacheWritesTotal.WithLabelValues(key.Namespace, "ok").Inc()
	return nil
}

func record(namespace, result string) {
	observability.CacheLookupsTotal.WithLabelValues(namespace, result).Inc()
}
