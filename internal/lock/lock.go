// Package lock provides short-lived mutual exclusion keyed by string.  It
// serializes concurrent payment attempts against one reservation.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrHeld is returned by Acquire when another holder owns the key.
var ErrHeld = errors.New("lock held")

// Locker hands out exclusive leases.  A lease expires on its own after ttl
// so a crashed holder cannot wedge the key.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error)
}

// Lease is a held lock.  Release is safe to call more than once.
type Lease struct {
	once    sync.Once
	release func(context.Context) error
}

// Release gives the key back.
func (l *Lease) Release(ctx context.Context) error {
	var err error
	l.once.Do(func() { err = l.release(ctx) })
	return err
}

// compare-and-delete: only the holder's token may remove the key
var unlockScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX, so it holds across
// instances sharing the same Redis.
type RedisLocker struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisLocker(rdb *redis.Client, prefix string) *RedisLocker {
	if prefix == "" {
		prefix = "lock"
	}
	return &RedisLocker{rdb: rdb, prefix: prefix}
}

func (r *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	k := r.prefix + ":" + key
	token := uuid.NewString()
	ok, err := r.rdb.SetNX(ctx, k, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrHeld
	}
	return &Lease{release: func(ctx context.Context) error {
		return unlockScript.Run(ctx, r.rdb, []string{k}, token).Err()
	}}, nil
}

// LocalLocker is the single-process fallback used when Redis is not
// reachable.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: map[string]time.Time{}, now: time.Now}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if exp, ok := l.held[key]; ok && now.Before(exp) {
		return nil, ErrHeld
	}
	exp := now.Add(ttl)
	l.held[key] = exp
	return &Lease{release: func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		// a lease that expired and was re-acquired by someone else is left alone
		if cur, ok := l.held[key]; ok && cur.Equal(exp) {
			delete(l.held, key)
		}
		return nil
	}}, nil
}
