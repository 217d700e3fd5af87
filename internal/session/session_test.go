package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ fiber.Storage = (*RedisStorage)(nil)

func TestMapBag(t *testing.T) {
	b := NewMapBag()
	assert.Nil(t, b.Get("watchlist"))

	b.Set("watchlist", "[]")
	assert.Equal(t, "[]", b.Get("watchlist"))

	b.Delete("watchlist")
	assert.Nil(t, b.Get("watchlist"))
}

// Runs only against a real server: REDIS_TEST_ADDR=localhost:6379.
func TestRedisStorageRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	s := NewRedisStorage(rdb, "test-session:")
	ctx := context.Background()
	require.NoError(t, s.ResetWithContext(ctx))

	got, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Set("abc", []byte("payload"), time.Minute))
	got, err = s.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	require.NoError(t, s.Delete("abc"))
	got, err = s.Get("abc")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Set("", []byte("x"), 0))
	require.NoError(t, s.Reset())
}
