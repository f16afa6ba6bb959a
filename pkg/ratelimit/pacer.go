package ratelimit

import (
	"context"
	"sync"
	"time"

	"crypto-meanrev/pkg/httpclient"
)

// Pacer spaces successive calls by a jittered interval, to stay under
// upstream rate limits even when every request succeeds first try.
// Waiters are serialized, so concurrent callers still respect the spacing.
type Pacer struct {
	interval time.Duration
	mu       sync.Mutex
	next     time.Time
}

func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait blocks until the caller's slot arrives or the context is done.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	now := time.Now()
	at := p.next
	if at.Before(now) {
		at = now
	}
	p.next = at.Add(httpclient.Jitter(p.interval))
	p.mu.Unlock()

	wait := time.Until(at)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Interval reports the configured base interval without jitter.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}
