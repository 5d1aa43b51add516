package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock key only when it still holds our token,
// so a lease that expired and was re-acquired elsewhere is never released
// by the original holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// ScopeLocker serializes mutations per ordering scope across all process
// instances using a Redis SET NX lease.
type ScopeLocker struct {
	client *Client
	ttl    time.Duration
	retry  time.Duration
}

func NewScopeLocker(client *Client, ttl time.Duration) *ScopeLocker {
	return &ScopeLocker{
		client: client,
		ttl:    ttl,
		retry:  25 * time.Millisecond,
	}
}

// Lock blocks until the scope lease is acquired or ctx is done. The
// returned function releases the lease; release failures only shorten the
// lease to its TTL, they cannot corrupt the lock.
func (l *ScopeLocker) Lock(ctx context.Context, scope string) (func(), error) {
	key := "lock:" + scope
	token := uuid.NewString()

	for {
		ok, err := l.client.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis.ScopeLocker.Lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("redis.ScopeLocker.Lock: %w", ctx.Err())
		case <-time.After(l.retry):
		}
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client.rdb, []string{key}, token).Err()
	}

	return release, nil
}
