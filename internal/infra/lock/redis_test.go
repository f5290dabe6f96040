package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLocker(t *testing.T, wait time.Duration) (*RedisDateLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDateLocker(client, 5*time.Second, wait), mr
}

func TestRedisLockAcquireAndRelease(t *testing.T) {
	l, mr := newRedisLocker(t, 100*time.Millisecond)

	called := false
	err := l.WithDateLock(context.Background(), "2025-06-01", func(ctx context.Context) error {
		called = true
		assert.True(t, mr.Exists(dateKey("2025-06-01")))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.False(t, mr.Exists(dateKey("2025-06-01")), "lock released")
}

func TestRedisLockContention(t *testing.T) {
	l, mr := newRedisLocker(t, 60*time.Millisecond)

	require.NoError(t, mr.Set(dateKey("2025-06-01"), "someone-else"))

	err := l.WithDateLock(context.Background(), "2025-06-01", func(context.Context) error {
		t.Fatal("must not run without the lock")
		return nil
	})
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	// o token alheio não pode ser apagado
	v, err := mr.Get(dateKey("2025-06-01"))
	require.NoError(t, err)
	assert.Equal(t, "someone-else", v)
}

func TestRedisLockWaitsForRelease(t *testing.T) {
	l, mr := newRedisLocker(t, time.Second)

	require.NoError(t, mr.Set(dateKey("2025-06-01"), "other"))
	go func() {
		time.Sleep(50 * time.Millisecond)
		mr.Del(dateKey("2025-06-01"))
	}()

	err := l.WithDateLock(context.Background(), "2025-06-01", func(context.Context) error { return nil })
	assert.NoError(t, err)
}
