package rate

import (
	"context"
	"sync"
	"time"

	xrate "golang.org/x/time/rate"
)

// Decision is the outcome of one rate-limit check.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter admits or rejects one request for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// KeyedLimiter keeps one token bucket per key in process memory. Buckets
// refill at perMinute tokens per minute and hold at most perMinute tokens.
type KeyedLimiter struct {
	mu              sync.Mutex
	limit           xrate.Limit
	burst           int
	items           map[string]*keyedEntry
	lastCleanup     time.Time
	cleanupInterval time.Duration
	now             func() time.Time
}

type keyedEntry struct {
	limiter  *xrate.Limiter
	lastSeen time.Time
}

func NewKeyedLimiter(perMinute int) *KeyedLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &KeyedLimiter{
		limit:           xrate.Every(time.Minute / time.Duration(perMinute)),
		burst:           perMinute,
		items:           make(map[string]*keyedEntry),
		lastCleanup:     time.Now(),
		cleanupInterval: time.Minute,
		now:             time.Now,
	}
}

func (l *KeyedLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeCleanup(now)

	entry, ok := l.items[key]
	if !ok {
		entry = &keyedEntry{limiter: xrate.NewLimiter(l.limit, l.burst)}
		l.items[key] = entry
	}
	entry.lastSeen = now

	r := entry.limiter.ReserveN(now, 1)
	if !r.OK() {
		return Decision{}, nil
	}
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
		return Decision{Allowed: false, RetryAfter: delay}, nil
	}
	return Decision{Allowed: true}, nil
}

// maybeCleanup drops buckets idle long enough to have refilled completely.
func (l *KeyedLimiter) maybeCleanup(now time.Time) {
	if l.cleanupInterval <= 0 {
		return
	}
	if !l.lastCleanup.IsZero() && now.Sub(l.lastCleanup) < l.cleanupInterval {
		return
	}
	for key, entry := range l.items {
		if now.Sub(entry.lastSeen) >= time.Minute {
			delete(l.items, key)
		}
	}
	l.lastCleanup = now
}
