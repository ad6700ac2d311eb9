package cache

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// TieredStore reads the local tier first and falls back to a shared tier,
// backfilling the local tier on a remote hit. Writes go to both tiers.
type TieredStore struct {
	local  Store
	remote Store
	logger *zap.Logger
}

// NewTieredStore combines a local and a remote store
func NewTieredStore(local, remote Store, logger *zap.Logger) *TieredStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TieredStore{local: local, remote: remote, logger: logger}
}

// Location reports the local location
func (s *TieredStore) Location(key Key) string {
	return s.local.Location(key)
}

// Get reads local, then remote
func (s *TieredStore) Get(ctx context.Context, key Key) ([]byte, error) {
	data, err := s.local.Get(ctx, key)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	data, err = s.remote.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.local.Put(ctx, key, data); err != nil {
		s.logger.Warn("cache backfill failed", zap.String("key", key.String()), zap.Error(err))
	}
	return data, nil
}

// Put writes both tiers; a remote failure is logged, not returned
func (s *TieredStore) Put(ctx context.Context, key Key, data []byte) error {
	if err := s.local.Put(ctx, key, data); err != nil {
		return err
	}
	if err := s.remote.Put(ctx, key, data); err != nil {
		s.logger.Warn("remote cache write failed", zap.String("key", key.String()), zap.Error(err))
	}
	return nil
}

// Delete removes the key from both tiers
func (s *TieredStore) Delete(ctx context.Context, key Key) error {
	if err := s.local.Delete(ctx, key); err != nil {
		return err
	}
	return s.remote.Delete(ctx, key)
}
