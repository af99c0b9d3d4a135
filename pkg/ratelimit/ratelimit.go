package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket. The dispatch loop takes one token per send,
// which paces outbound traffic under the provider's rate limit without
// hand-rolled sleeps scattered through the loop.
type Limiter struct {
	mu       sync.Mutex
	rate     float64 // tokens per second
	burst    float64
	tokens   float64
	last     time.Time
	now      func() time.Time
	sleepFor func(ctx context.Context, d time.Duration) error
}

// New creates a limiter that refills at rate tokens per second up to burst.
func New(rate float64, burst int) *Limiter {
	l := &Limiter{
		rate:     rate,
		burst:    float64(burst),
		tokens:   float64(burst),
		now:      time.Now,
		sleepFor: sleepContext,
	}
	l.last = l.now()
	return l
}

// NewWithClock is New with an injectable clock. Waits complete instantly;
// the caller's clock controls refill. Test use only.
func NewWithClock(rate float64, burst int, now func() time.Time) *Limiter {
	l := New(rate, burst)
	l.now = now
	l.last = now()
	l.sleepFor = func(ctx context.Context, d time.Duration) error { return nil }
	return l
}

// Wait blocks until a token is available or the context is done.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		l.refill()
		if l.tokens >= 1 {
			l.tokens--
			l.mu.Unlock()
			return nil
		}
		need := (1 - l.tokens) / l.rate
		l.mu.Unlock()

		if err := l.sleepFor(ctx, time.Duration(need*float64(time.Second))); err != nil {
			return err
		}
	}
}

// Allow reports whether a token is available right now and consumes it.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refill()
	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

func (l *Limiter) refill() {
	now := l.now()
	elapsed := now.Sub(l.last).Seconds()
	if elapsed <= 0 {
		return
	}
	l.last = now
	l.tokens += elapsed * l.rate
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
