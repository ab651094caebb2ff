package service

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// redisCacheFixture is a RedisSubdomainCacheStore backed by miniredis.
type redisCacheFixture struct {
	server *miniredis.Miniredis
	client *redis.Client
	store  *RedisSubdomainCacheStore
}

func newRedisCacheFixture(t *testing.T, prefix string) *redisCacheFixture {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &redisCacheFixture{
		server: server,
		client: client,
		store:  NewRedisSubdomainCacheStore(client, prefix),
	}
}

// keys lists what the resolver has written, for failure messages.
func (f *redisCacheFixture) keys() []string {
	return f.server.Keys()
}
