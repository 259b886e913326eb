// Package quota enforces the per-client daily analysis allowance.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/pagepulse/seo-audit/internal/metrics"
)

// DefaultDailyLimit applies when no limit is configured.
const DefaultDailyLimit = 5

// Counter is the storage primitive behind the limiter. Incr must be
// atomic: concurrent calls for the same key may never lose an update.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Get(ctx context.Context, key string) (int64, error)
}

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed    bool      `json:"canUse"`
	Remaining  int       `json:"remaining"`
	TotalLimit int       `json:"totalLimit"`
	ResetTime  time.Time `json:"resetTime"`
}

// Limiter applies a fixed daily window on top of a Counter.
type Limiter struct {
	counter Counter
	limit   int
}

// NewLimiter builds a Limiter. A non-positive limit falls back to
// DefaultDailyLimit.
func NewLimiter(counter Counter, limit int) *Limiter {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &Limiter{counter: counter, limit: limit}
}

// window returns the storage key and reset instant for the UTC day
// containing now.
func window(clientID string, now time.Time) (string, time.Time) {
	day := now.UTC().Truncate(24 * time.Hour)
	reset := day.Add(24 * time.Hour)
	return fmt.Sprintf("quota:%s:%s", clientID, day.Format("2006-01-02")), reset
}

// CheckAndIncrement consumes one unit of the client's allowance and
// reports whether the request may proceed. The increment and the check
// are a single atomic step in the underlying Counter.
func (l *Limiter) CheckAndIncrement(ctx context.Context, clientID string, now time.Time) (Decision, error) {
	key, reset := window(clientID, now)
	count, err := l.counter.Incr(ctx, key, reset.Sub(now))
	if err != nil {
		return Decision{}, fmt.Errorf("increment quota counter: %w", err)
	}
	decision := l.decide(count, reset)
	metrics.ObserveQuota(decision.Allowed)
	return decision, nil
}

// Peek reports the client's current allowance without consuming any.
func (l *Limiter) Peek(ctx context.Context, clientID string, now time.Time) (Decision, error) {
	key, reset := window(clientID, now)
	count, err := l.counter.Get(ctx, key)
	if err != nil {
		return Decision{}, fmt.Errorf("read quota counter: %w", err)
	}
	// Remaining reflects what is already used; Allowed asks whether
	// the next request would still fit.
	decision := l.decide(count, reset)
	decision.Allowed = count < int64(l.limit)
	return decision, nil
}

func (l *Limiter) decide(count int64, reset time.Time) Decision {
	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:    count <= int64(l.limit),
		Remaining:  remaining,
		TotalLimit: l.limit,
		ResetTime:  reset,
	}
}
