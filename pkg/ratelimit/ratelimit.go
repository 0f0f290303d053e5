// Package ratelimit bounds the request rate of a scan run. It wraps
// golang.org/x/time/rate with per-host limiters so one slow target does
// not starve probes against another.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/probekit/probekit/pkg/defaults"
)

// Limiter provides request rate limiting, optionally per host.
type Limiter struct {
	rps     int
	perHost bool

	global *rate.Limiter

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// New creates a limiter allowing rps requests per second. A zero or
// negative rps returns nil; callers treat a nil *Limiter as unlimited.
func New(rps int, perHost bool) *Limiter {
	if rps <= 0 {
		return nil
	}
	burst := rps / defaults.RateBurstDivisor
	if burst < 1 {
		burst = 1
	}
	l := &Limiter{rps: rps, perHost: perHost}
	if perHost {
		l.hosts = make(map[string]*rate.Limiter)
	} else {
		l.global = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return l
}

// Wait blocks until a request against host may proceed or ctx is done.
// A nil receiver never blocks.
func (l *Limiter) Wait(ctx context.Context, host string) error {
	if l == nil {
		return nil
	}
	return l.limiterFor(host).Wait(ctx)
}

// Allow reports whether a request against host may proceed right now,
// without blocking. A nil receiver always allows.
func (l *Limiter) Allow(host string) bool {
	if l == nil {
		return true
	}
	return l.limiterFor(host).Allow()
}

func (l *Limiter) limiterFor(host string) *rate.Limiter {
	if !l.perHost {
		return l.global
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.hosts[host]
	if !ok {
		burst := l.rps / defaults.RateBurstDivisor
		if burst < 1 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(l.rps), burst)
		l.hosts[host] = lim
	}
	return lim
}
