package logging

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle limits how often a repeated message is logged, per key.
type Throttle struct {
	bucket map[string]*rate.Limiter
	every  time.Duration
	mu     sync.Mutex
}

// NewThrottle allows one message per key every interval.
func NewThrottle(every time.Duration) *Throttle {
	return &Throttle{
		bucket: make(map[string]*rate.Limiter),
		every:  every,
	}
}

// Allow reports whether a message under key may be logged now.
func (t *Throttle) Allow(key string) bool {
	return t.AllowAt(key, time.Now())
}

// AllowAt is Allow with an explicit clock.
func (t *Throttle) AllowAt(key string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	limiter, ok := t.bucket[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(t.every), 1)
		t.bucket[key] = limiter
	}
	return limiter.AllowN(now, 1)
}

// Forget drops the state of key so its next message passes.
func (t *Throttle) Forget(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.bucket, key)
}
