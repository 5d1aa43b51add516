package mutate

import (
	"context"
	"fmt"
	"sync"
)

// MemoryLocker is an in-process ScopeLocker for tests and single-instance
// deployments. Multi-instance deployments need the Redis-backed locker.
// Scope entries are reference-counted and removed once no holder or
// waiter remains, so the map stays bounded by concurrent use.
type MemoryLocker struct {
	mu     sync.Mutex
	scopes map[string]*scopeLock
}

type scopeLock struct {
	ch   chan struct{}
	refs int
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{scopes: make(map[string]*scopeLock)}
}

func (l *MemoryLocker) Lock(ctx context.Context, scope string) (func(), error) {
	l.mu.Lock()
	sl, ok := l.scopes[scope]
	if !ok {
		sl = &scopeLock{ch: make(chan struct{}, 1)}
		l.scopes[scope] = sl
	}
	sl.refs++
	l.mu.Unlock()

	select {
	case sl.ch <- struct{}{}:
		return func() {
			<-sl.ch
			l.unref(scope, sl)
		}, nil
	case <-ctx.Done():
		l.unref(scope, sl)
		return nil, fmt.Errorf("mutate.MemoryLocker.Lock: %w", ctx.Err())
	}
}

func (l *MemoryLocker) unref(scope string, sl *scopeLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sl.refs--
	if sl.refs == 0 {
		delete(l.scopes, scope)
	}
}
