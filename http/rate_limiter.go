package http

import (
	"sync"
	"time"
)

const (
	idleBucketTTL = time.Hour
	sweepEvery    = 30 * time.Minute
)

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// take refills the bucket when a full window has passed, then spends one
// token if any is left.
func (b *bucket) take(now time.Time, capacity int, window time.Duration) bool {
	if now.Sub(b.lastRefill) >= window {
		b.tokens = capacity
		b.lastRefill = now
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// RateLimiter keeps one token bucket per client. A bucket holds capacity
// tokens and refills in full once window has passed since its last refill.
type RateLimiter struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	buckets  map[string]*bucket
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		capacity: capacity,
		window:   window,
		buckets:  make(map[string]*bucket),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

func (r *RateLimiter) Allow(client string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	b, ok := r.buckets[client]
	if !ok {
		b = &bucket{tokens: r.capacity, lastRefill: now}
		r.buckets[client] = b
	}
	return b.take(now, r.capacity, r.window)
}

// Stop ends the sweeper. It is safe to call more than once.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

func (r *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.done:
			return
		}
	}
}

// cleanup forgets clients idle for longer than idleBucketTTL.
func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idleBucketTTL)
	for client, b := range r.buckets {
		if b.lastRefill.Before(cutoff) {
			delete(r.buckets, client)
		}
	}
}

func (r *RateLimiter) clientCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buckets)
}
