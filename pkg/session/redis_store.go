package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "session"

// RedisStore keeps session values in Redis hashes, one key per session.
// Expiration is handled by Redis, so no purge is needed.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisStoreOption configures the RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisPrefix sets the key namespace. Keys are stored as "{prefix}:{id}".
// Default: "session".
func WithRedisPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore creates a store backed by client.
// The client should be obtained from pkg/redis.Open.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the hash stored for id.
func (s *RedisStore) Load(ctx context.Context, id string) (map[string]string, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	values, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, err
	}
	// HGETALL on a missing key yields an empty map.
	if len(values) == 0 {
		return nil, ErrNotFound
	}
	return values, nil
}

// Save replaces the hash for id in a single transaction.
// Saving an empty value set deletes the key.
func (s *RedisStore) Save(ctx context.Context, id string, values map[string]string, ttl time.Duration) error {
	if id == "" {
		return ErrEmptyID
	}

	key := s.key(id)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) == 0 {
			return nil
		}
		fields := make([]any, 0, len(values)*2)
		for k, v := range values {
			fields = append(fields, k, v)
		}
		pipe.HSet(ctx, key, fields...)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}

// Delete removes the hash for id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *RedisStore) key(id string) string {
	return s.prefix + ":" + id
}

var _ Store = (*RedisStore)(nil)
