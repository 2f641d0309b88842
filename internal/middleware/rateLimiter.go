package middleware

import (
	"sync"

	"github.com/vgorule/GeminiQA/internal/config"
	"golang.org/x/time/rate"
)

var limiterInstance = NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)

// IPRateLimiter hands out one token bucket per client address. Buckets are
// created on first sight and live for the process lifetime.
//
// TODO: move the buckets into redis once more than one instance runs behind
// a load balancer.
type IPRateLimiter struct {
	buckets map[string]*rate.Limiter
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
}

func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   limit,
		burst:   burst,
	}
}

func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	bucket, exists := l.buckets[ip]
	if !exists {
		bucket = rate.NewLimiter(l.limit, l.burst)
		l.buckets[ip] = bucket
	}
	return bucket
}
