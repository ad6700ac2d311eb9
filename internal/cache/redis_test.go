package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, "test", time.Hour), mr
}

func TestRedisStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)
	key := Key{Namespace: NamespaceResumeBullets, Parts: []string{"r", "k"}, File: EmbeddingsFile}

	_, err := store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, key, []byte(`{"v":1}`)))
	assert.True(t, mr.Exists("test:embeddings:resume_bullets:r:k:resume_bullet_embeddings.json"))
	assert.Equal(t, time.Hour, mr.TTL("test:embeddings:resume_bullets:r:k:resume_bullet_embeddings.json"))

	data, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(data))
	assert.Equal(t, "redis://test:embeddings:resume_bullets:r:k:resume_bullet_embeddings.json", store.Location(key))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Clear(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t)

	for _, parts := range [][]string{{"a", "1"}, {"b", "2"}} {
		require.NoError(t, store.Put(ctx, Key{Namespace: NamespaceEvidence, Parts: parts, File: EvidenceFile}, []byte("{}")))
	}
	require.NoError(t, store.Put(ctx, Key{Namespace: NamespaceResumeBullets, Parts: []string{"c", "3"}, File: EmbeddingsFile}, []byte("{}")))

	removed, err := store.Clear(ctx, NamespaceEvidence)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = store.Get(ctx, Key{Namespace: NamespaceResumeBullets, Parts: []string{"c", "3"}, File: EmbeddingsFile})
	assert.NoError(t, err)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), RedisOptions{Addr: addr})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping redis")
}

func TestTieredStore_BackfillsLocalFromRemote(t *testing.T) {
	ctx := context.Background()
	local := NewFileStore(t.TempDir())
	remote, _ := newTestRedisStore(t)
	tiered := NewTieredStore(local, remote, zaptest.NewLogger(t))
	key := Key{Namespace: NamespaceEvidence, Parts: []string{"r", "k"}, File: EvidenceFile}

	require.NoError(t, remote.Put(ctx, key, []byte(`{"from":"remote"}`)))

	data, err := tiered.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"from":"remote"}`, string(data))

	backfilled, err := local.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"from":"remote"}`, string(backfilled))
}

func TestTieredStore_WritesBothTiers(t *testing.T) {
	ctx := context.Background()
	local := NewFileStore(t.TempDir())
	remote, _ := newTestRedisStore(t)
	tiered := NewTieredStore(local, remote, nil)
	key := Key{Namespace: NamespaceEvidence, Parts: []string{"r", "k"}, File: EvidenceFile}

	require.NoError(t, tiered.Put(ctx, key, []byte("{}")))

	_, err := local.Get(ctx, key)
	assert.NoError(t, err)
	_, err = remote.Get(ctx, key)
	assert.NoError(t, err)
	assert.Equal(t, local.Location(key), tiered.Location(key))

	require.NoError(t, tiered.Delete(ctx, key))
	_, err = tiered.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}
