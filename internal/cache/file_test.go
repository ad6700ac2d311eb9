package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())
	key := Key{Namespace: NamespaceEvidence, Parts: []string{"aaa", "bbb"}, File: EvidenceFile}

	_, err := store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, key, []byte(`{"ok":true}`)))

	data, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
	assert.Equal(t, filepath.Join(store.Root(), "evidence_scores", "aaa", "bbb", "evidence_scores.json"), store.Location(key))

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_PutLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())
	key := Key{Namespace: NamespaceResumeBullets, Parts: []string{"r", "k"}, File: EmbeddingsFile}

	require.NoError(t, store.Put(ctx, key, []byte("{}")))
	require.NoError(t, store.Put(ctx, key, []byte(`{"second":1}`)))

	entries, err := os.ReadDir(filepath.Dir(store.Location(key)))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, EmbeddingsFile, entries[0].Name())
}

func TestFileStore_KeysAndClear(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	for _, parts := range [][]string{{"r2", "k1"}, {"r1", "k1"}, {"r1", "k2"}} {
		key := Key{Namespace: NamespaceEvidence, Parts: parts, File: EvidenceFile}
		require.NoError(t, store.Put(ctx, key, []byte("{}")))
	}
	// a directory without the payload file is not a key
	require.NoError(t, os.MkdirAll(filepath.Join(store.Root(), "evidence_scores", "r3", "k9"), 0o755))

	keys, err := store.Keys(NamespaceEvidence, EvidenceFile)
	require.NoError(t, err)
	require.Len(t, keys, 3)
	assert.Equal(t, []string{"r1", "k1"}, keys[0].Parts)
	assert.Equal(t, []string{"r1", "k2"}, keys[1].Parts)
	assert.Equal(t, []string{"r2", "k1"}, keys[2].Parts)

	removed, err := store.Clear(NamespaceEvidence)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Clear(NamespaceEvidence)
	require.NoError(t, err)
	assert.False(t, removed)

	keys, err = store.Keys(NamespaceEvidence, EvidenceFile)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestKey_String(t *testing.T) {
	key := Key{Namespace: NamespaceResumeBullets, Parts: []string{"a", "b"}, File: EmbeddingsFile}
	assert.Equal(t, "embeddings/resume_bullets/a/b/resume_bullet_embeddings.json", key.String())
	assert.Equal(t, "embeddings/resume_bullets/a/b/manifest.json", key.Sibling(ManifestFile).String())
}
