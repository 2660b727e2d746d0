package ratelimit_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"reelfetch/internal/logging"
	"reelfetch/internal/ratelimit"
)

func TestNewClampsBaseIntoRange(t *testing.T) {
	tests := []struct {
		name string
		base float64
		want float64
	}{
		{name: "below minimum", base: 0.2, want: 1.0},
		{name: "negative", base: -5, want: 1.0},
		{name: "above maximum", base: 10, want: 3.0},
		{name: "lower bound", base: 1.0, want: 1.0},
		{name: "upper bound", base: 3.0, want: 3.0},
		{name: "in range", base: 2.5, want: 2.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			limiter := ratelimit.New(tc.base, logging.NewNop())
			if got := limiter.Base(); got != tc.want {
				t.Fatalf("Base() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewWarnsExactlyOnceOnClamp(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	limiter := ratelimit.New(0.1, logger)
	for i := 0; i < 5; i++ {
		limiter.NextDelay()
	}

	if got := strings.Count(buf.String(), "clamped"); got != 1 {
		t.Fatalf("expected exactly one clamp warning, got %d: %s", got, buf.String())
	}
}

func TestNewDoesNotWarnForInRangeBase(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ratelimit.New(2.0, logger)

	if buf.Len() != 0 {
		t.Fatalf("unexpected log output: %s", buf.String())
	}
}

func TestNextDelayStaysWithinBounds(t *testing.T) {
	for _, base := range []float64{1.0, 1.5, 2.4, 3.0} {
		limiter := ratelimit.New(base, logging.NewNop())
		floor := time.Duration(base * float64(time.Second))
		ceiling := 3 * time.Second
		for i := 0; i < 200; i++ {
			delay := limiter.NextDelay()
			if delay < floor || delay > ceiling {
				t.Fatalf("base %v: delay %v outside [%v, %v]", base, delay, floor, ceiling)
			}
		}
	}
}

func TestNextDelayNeverExceedsCeilingAtMaxBase(t *testing.T) {
	limiter := ratelimit.New(3.0, logging.NewNop(), ratelimit.WithRandFloat(func() float64 {
		return 0.999999
	}))
	if delay := limiter.NextDelay(); delay > 3*time.Second {
		t.Fatalf("delay %v exceeds 3s ceiling", delay)
	}
}

func TestBackoffDelayGrowsLinearly(t *testing.T) {
	limiter := ratelimit.New(2.0, logging.NewNop(), ratelimit.WithRandFloat(func() float64 {
		return 0
	}))

	base := limiter.BackoffDelay(1)
	if base != 2*time.Second {
		t.Fatalf("BackoffDelay(1) = %v, want 2s", base)
	}
	if got := limiter.BackoffDelay(3); got != 3*base {
		t.Fatalf("BackoffDelay(3) = %v, want %v", got, 3*base)
	}
	if got := limiter.BackoffDelay(0); got != base {
		t.Fatalf("BackoffDelay(0) = %v, want %v", got, base)
	}
}
