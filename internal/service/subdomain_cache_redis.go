package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisSubdomainCacheStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisSubdomainCacheStore stores entries under prefix + key. An empty
// prefix keeps the bare "subdomain:<name>" keys.
func NewRedisSubdomainCacheStore(client redis.UniversalClient, prefix string) *RedisSubdomainCacheStore {
	return &RedisSubdomainCacheStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisSubdomainCacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.client == nil {
		return nil, false, nil
	}
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *RedisSubdomainCacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s.client == nil || ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.prefix+key, value, ttl).Err()
}
