package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisLocker_Exclusive(t *testing.T) {
	_, rdb := newRedis(t)
	l := NewRedisLocker(rdb, "pay")
	ctx := context.Background()

	lease, err := l.Acquire(ctx, "reservation:1", time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "reservation:1", time.Minute)
	assert.ErrorIs(t, err, ErrHeld)

	other, err := l.Acquire(ctx, "reservation:2", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, lease.Release(ctx))
	require.NoError(t, lease.Release(ctx))

	again, err := l.Acquire(ctx, "reservation:1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestRedisLocker_ExpiredLeaseDoesNotReleaseNewHolder(t *testing.T) {
	mr, rdb := newRedis(t)
	l := NewRedisLocker(rdb, "pay")
	ctx := context.Background()

	stale, err := l.Acquire(ctx, "reservation:1", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	fresh, err := l.Acquire(ctx, "reservation:1", time.Minute)
	require.NoError(t, err)

	require.NoError(t, stale.Release(ctx))
	assert.True(t, mr.Exists("pay:reservation:1"))

	require.NoError(t, fresh.Release(ctx))
	assert.False(t, mr.Exists("pay:reservation:1"))
}

func TestLocalLocker(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLocalLocker()
	l.now = func() time.Time { return now }
	ctx := context.Background()

	lease, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)
	_, err = l.Acquire(ctx, "k", time.Second)
	assert.ErrorIs(t, err, ErrHeld)

	now = now.Add(2 * time.Second)
	fresh, err := l.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)

	require.NoError(t, lease.Release(ctx))
	_, err = l.Acquire(ctx, "k", time.Second)
	assert.ErrorIs(t, err, ErrHeld)

	require.NoError(t, fresh.Release(ctx))
	_, err = l.Acquire(ctx, "k", time.Second)
	assert.NoError(t, err)
}
