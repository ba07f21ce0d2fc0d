package ratelimit

import (
	"context"
	"time"
)

// Store counts requests per key over a fixed window. Allow reports whether
// the call identified by key may proceed, incrementing the counter as a side
// effect. Implementations must make the check-and-increment atomic with
// respect to concurrent calls for the same key.
type Store interface {
	Allow(ctx context.Context, key string, maxRequests int, window time.Duration) (bool, error)
}

// Policy decides what a Limiter does when its Store fails.
type Policy int

const (
	// FailClosed denies the request on store errors. Used for
	// submission/auth-sensitive limits where an outage must not open the door.
	FailClosed Policy = iota
	// FailOpen allows the request on store errors. Used for low-stakes
	// toggles where blocking legitimate users is worse than missing a count.
	FailOpen
)

// Limiter binds a Store to an explicit failure policy.
type Limiter struct {
	store  Store
	policy Policy
}

func NewLimiter(store Store, policy Policy) *Limiter {
	return &Limiter{store: store, policy: policy}
}

// Allow never returns an error: store failures resolve through the policy.
func (l *Limiter) Allow(ctx context.Context, key string, maxRequests int, window time.Duration) bool {
	allowed, err := l.store.Allow(ctx, key, maxRequests, window)
	if err != nil {
		return l.policy == FailOpen
	}
	return allowed
}
