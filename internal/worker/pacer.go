// Package worker provides pacing for outbound oracle calls.
package worker

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer throttles successive oracle calls with a rate limit plus a fixed
// inter-call delay. The delay is a scheduling policy for external rate
// limits, not a correctness requirement; both knobs may be zero.
type Pacer struct {
	limiter *rate.Limiter
	delay   time.Duration
}

// NewPacer creates a pacer. callsPerSecond <= 0 disables the rate limit,
// delay <= 0 disables the fixed delay.
func NewPacer(callsPerSecond float64, delay time.Duration) *Pacer {
	var limiter *rate.Limiter
	if callsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(callsPerSecond), 1)
	}
	return &Pacer{limiter: limiter, delay: delay}
}

// Wait blocks until the next call is allowed. A nil pacer never blocks.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.delay):
		}
	}
	return nil
}
