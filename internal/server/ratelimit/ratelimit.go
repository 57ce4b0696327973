// Package ratelimit provides per-client rate limiting using a token bucket algorithm.
package ratelimit

import (
	"sync"
	"time"
)

// bucketTTL is how long an idle bucket is kept before cleanup removes it.
const bucketTTL = time.Hour

// TokenBucket allows up to capacity requests at once and refills at a steady
// rate of refillRate tokens per second.
type TokenBucket struct {
	capacity   int
	refillRate float64
	tokens     float64
	lastRefill time.Time
	lastAccess time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate float64, now time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: now,
		lastAccess: now,
	}
}

// refill adds the tokens earned since the last refill. Caller holds mu.
func (tb *TokenBucket) refill(now time.Time) {
	if elapsed := now.Sub(tb.lastRefill); elapsed > 0 {
		tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed.Seconds()*tb.refillRate)
	}
	tb.lastRefill = now
}

// take consumes a token if one is available and reports the bucket state
// afterwards: tokens left, when the bucket is full again, and when the next
// token arrives.
func (tb *TokenBucket) take(now time.Time) (allowed bool, remaining int, resetTime time.Time, retryAfter time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(now)
	tb.lastAccess = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		allowed = true
	} else {
		retryAfter = time.Duration((1.0 - tb.tokens) / tb.refillRate * float64(time.Second))
	}

	remaining = int(tb.tokens)
	resetTime = now
	if missing := float64(tb.capacity) - tb.tokens; missing > 0 {
		resetTime = now.Add(time.Duration(missing / tb.refillRate * float64(time.Second)))
	}
	return allowed, remaining, resetTime, retryAfter
}

func (tb *TokenBucket) idleSince(cutoff time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lastAccess.Before(cutoff)
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter keeps one token bucket per client, endpoint and method.
type Limiter struct {
	config  *Config
	now     func() time.Time
	buckets map[string]*TokenBucket
	mu      sync.RWMutex

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config, opts ...Option) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    DefaultLimit,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
			EndpointConfigs: DefaultEndpointConfigs(),
		}
	}

	limiter := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*TokenBucket),
	}
	for _, opt := range opts {
		opt(limiter)
	}

	if config.Enabled && config.CleanupInterval > 0 {
		limiter.cleanupTicker = time.NewTicker(config.CleanupInterval)
		limiter.cleanupStop = make(chan struct{})
		go limiter.cleanup()
	}

	return limiter
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
// Returns true if allowed, false if rate limited, along with rate limit information.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if endpointConfig == nil {
		endpointConfig = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
		}
	}

	if endpointConfig.Unlimited || endpointConfig.Limit <= 0 || endpointConfig.Window <= 0 {
		return true, Info{Allowed: true}
	}

	// Matched prefix configs share one bucket per client
	key := clientID + ":" + method + ":" + endpointConfig.key(endpoint)
	now := l.now()
	bucket := l.getBucket(key, endpointConfig, now)

	allowed, remaining, resetTime, retryAfter := bucket.take(now)
	return allowed, Info{
		Allowed:    allowed,
		Limit:      endpointConfig.Limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

func (l *Limiter) getBucket(key string, cfg *EndpointConfig, now time.Time) *TokenBucket {
	l.mu.RLock()
	bucket, exists := l.buckets[key]
	l.mu.RUnlock()
	if exists {
		return bucket
	}

	capacity := cfg.Burst
	if capacity <= 0 {
		capacity = cfg.Limit
	}
	refillRate := float64(cfg.Limit) / cfg.Window.Seconds()

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, exists := l.buckets[key]; exists {
		return existing
	}
	bucket = newTokenBucket(capacity, refillRate, now)
	l.buckets[key] = bucket
	return bucket
}

// BucketCount returns the number of tracked buckets.
func (l *Limiter) BucketCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.buckets)
}

func (l *Limiter) cleanup() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.cleanupBuckets()
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupBuckets removes buckets idle for longer than bucketTTL.
func (l *Limiter) cleanupBuckets() {
	cutoff := l.now().Add(-bucketTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, bucket := range l.buckets {
		if bucket.idleSince(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop stops the cleanup goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupTicker != nil {
			l.cleanupTicker.Stop()
		}
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
