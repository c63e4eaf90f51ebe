// Package ratelimit provides per-host request pacing so a run never
// hammers one job board, whichever strategy fetches it.
package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces requests per host
type Limiter interface {
	// Wait blocks until a request to the URL's host may proceed, or the
	// context is cancelled.
	Wait(ctx context.Context, urlStr string) error

	// Allow reports whether a request may proceed immediately
	Allow(urlStr string) bool
}

// HostLimiter implements token-bucket pacing per host. Hosts get their
// limiter lazily on first request.
type HostLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	perHost  rate.Limit
	burst    int
}

// NewHostLimiter creates a limiter allowing requestsPerSecond per host
func NewHostLimiter(requestsPerSecond float64, burst int) *HostLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2.0
	}
	if burst <= 0 {
		burst = 4
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until the URL's host bucket has a token
func (hl *HostLimiter) Wait(ctx context.Context, urlStr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	host := hostOf(urlStr)
	if host == "" {
		// Invalid URL, let the fetch surface the real error
		return nil
	}
	return hl.limiterFor(host).Wait(ctx)
}

// Allow reports whether the URL's host bucket has a token right now
func (hl *HostLimiter) Allow(urlStr string) bool {
	host := hostOf(urlStr)
	if host == "" {
		return true
	}
	return hl.limiterFor(host).Allow()
}

// SetHostLimit overrides the rate for one host
func (hl *HostLimiter) SetHostLimit(host string, requestsPerSecond float64, burst int) {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	if limiter, ok := hl.limiters[host]; ok {
		limiter.SetLimit(rate.Limit(requestsPerSecond))
		limiter.SetBurst(burst)
		return
	}
	hl.limiters[host] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func (hl *HostLimiter) limiterFor(host string) *rate.Limiter {
	hl.mu.RLock()
	limiter, ok := hl.limiters[host]
	hl.mu.RUnlock()
	if ok {
		return limiter
	}

	hl.mu.Lock()
	defer hl.mu.Unlock()
	if limiter, ok := hl.limiters[host]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(hl.perHost, hl.burst)
	hl.limiters[host] = limiter
	return limiter
}

func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}
