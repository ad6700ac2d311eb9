package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the redis mirror
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// RedisStore keeps blobs in redis under <prefix>:<namespace>:<parts...>:<file>
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisClient connects to redis and verifies the connection
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, &Error{Message: fmt.Sprintf("failed to ping redis at %s", opts.Addr), Cause: err}
	}
	return client, nil
}

// NewRedisStore wraps an existing client
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "resume-selector"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) redisKey(key Key) string {
	segments := []string{s.prefix, strings.ReplaceAll(key.Namespace, "/", ":")}
	segments = append(segments, key.Parts...)
	return strings.Join(append(segments, key.File), ":")
}

// Location returns the redis key
func (s *RedisStore) Location(key Key) string {
	return "redis://" + s.redisKey(key)
}

// Get reads the blob for key
func (s *RedisStore) Get(ctx context.Context, key Key) ([]byte, error) {
	val, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, &Error{Message: fmt.Sprintf("failed to read %s from redis", key), Cause: err}
	}
	return val, nil
}

// Put writes the blob with the configured TTL (0 keeps it forever)
func (s *RedisStore) Put(ctx context.Context, key Key, data []byte) error {
	if err := s.client.Set(ctx, s.redisKey(key), data, s.ttl).Err(); err != nil {
		return &Error{Message: fmt.Sprintf("failed to write %s to redis", key), Cause: err}
	}
	return nil
}

// Delete removes the blob for key
func (s *RedisStore) Delete(ctx context.Context, key Key) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return &Error{Message: fmt.Sprintf("failed to delete %s from redis", key), Cause: err}
	}
	return nil
}

// Clear deletes every key in a namespace and returns how many were removed
func (s *RedisStore) Clear(ctx context.Context, namespace string) (int, error) {
	pattern := s.prefix + ":" + strings.ReplaceAll(namespace, "/", ":") + ":*"
	removed := 0
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, &Error{Message: "failed to clear redis namespace", Cause: err}
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, &Error{Message: "failed to scan redis namespace", Cause: err}
	}
	return removed, nil
}
