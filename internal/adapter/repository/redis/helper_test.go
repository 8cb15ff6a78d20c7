package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// redisFixture is a summary cache and an idempotency store sharing one
// in-process redis, closed when the test ends.
type redisFixture struct {
	mr     *miniredis.Miniredis
	client *redislib.Client
	cache  *Cache
	idem   *IdempotencyStore
}

func newRedisFixture(t *testing.T) *redisFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &redisFixture{
		mr:     mr,
		client: client,
		cache:  NewCache(client),
		idem:   NewIdempotencyStore(client),
	}
}
