package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// EndpointLimiter throttles outbound calls per optimizer endpoint so a burst
// of searches cannot flood the solver.
type EndpointLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Limit
}

type Limit struct {
	PerSecond float64
	Burst     int
}

func DefaultLimit() Limit {
	return Limit{
		PerSecond: 2,
		Burst:     4,
	}
}

func NewEndpointLimiter(defaults Limit) *EndpointLimiter {
	return &EndpointLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: defaults,
	}
}

func (l *EndpointLimiter) limiter(endpoint string) *rate.Limiter {
	l.mu.RLock()
	lim, ok := l.limiters[endpoint]
	l.mu.RUnlock()
	if ok {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok = l.limiters[endpoint]; ok {
		return lim
	}
	lim = rate.NewLimiter(rate.Limit(l.defaults.PerSecond), l.defaults.Burst)
	l.limiters[endpoint] = lim
	return lim
}

func (l *EndpointLimiter) SetLimit(endpoint string, limit Limit) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.limiters[endpoint] = rate.NewLimiter(rate.Limit(limit.PerSecond), limit.Burst)
}

// Wait blocks until endpoint may be called or ctx ends.
func (l *EndpointLimiter) Wait(ctx context.Context, endpoint string) error {
	return l.limiter(endpoint).Wait(ctx)
}
