package ratelimit

import (
	"log/slog"
	"math/rand/v2"
	"time"
)

const (
	// MinBaseSeconds and MaxBaseSeconds bound the admissible base delay.
	MinBaseSeconds = 1.0
	MaxBaseSeconds = 3.0

	// maxJitterSeconds caps the random addition on top of the base delay.
	maxJitterSeconds = 1.0
)

// Limiter derives per-request sleep durations from a configured base delay.
// It is not safe for concurrent use; give each account walk its own instance.
type Limiter struct {
	base      float64
	randFloat func() float64
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithRandFloat overrides the jitter source (useful for tests). The function
// must return values in [0, 1).
func WithRandFloat(fn func() float64) Option {
	return func(l *Limiter) {
		if fn != nil {
			l.randFloat = fn
		}
	}
}

// New constructs a Limiter from the operator-supplied base delay in seconds.
// Out-of-range values are clamped into [MinBaseSeconds, MaxBaseSeconds] with a
// single warning.
func New(base float64, logger *slog.Logger, opts ...Option) *Limiter {
	clamped := base
	if clamped < MinBaseSeconds {
		clamped = MinBaseSeconds
	} else if clamped > MaxBaseSeconds {
		clamped = MaxBaseSeconds
	}
	if clamped != base && logger != nil {
		logger.Warn("delay out of range, clamped",
			"requested_seconds", base,
			"clamped_seconds", clamped,
		)
	}

	limiter := &Limiter{
		base:      clamped,
		randFloat: rand.Float64,
	}
	for _, opt := range opts {
		opt(limiter)
	}
	return limiter
}

// Base returns the clamped base delay in seconds.
func (l *Limiter) Base() float64 {
	return l.base
}

// NextDelay returns the steady-state delay for the next request: the base
// delay plus uniform jitter, never exceeding MaxBaseSeconds.
func (l *Limiter) NextDelay() time.Duration {
	headroom := MaxBaseSeconds - l.base
	if headroom > maxJitterSeconds {
		headroom = maxJitterSeconds
	}
	seconds := l.base + l.randFloat()*headroom
	return time.Duration(seconds * float64(time.Second))
}

// BackoffDelay returns the delay to sleep before retry number attempt
// (1-based). The jittered base grows linearly with the attempt number.
func (l *Limiter) BackoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return l.NextDelay() * time.Duration(attempt)
}
