package criteria

import (
	"context"
	"fmt"
	"log/slog"

	"reelfetch/internal/platform"
)

// Thresholds holds the optional admission criteria. A zero value disables the
// corresponding check.
type Thresholds struct {
	MinSizeMB          float64
	MinDurationSeconds float64
}

// Enabled reports whether any threshold is configured.
func (t Thresholds) Enabled() bool {
	return t.MinSizeMB > 0 || t.MinDurationSeconds > 0
}

// Filter evaluates candidates against configured thresholds, probing item
// metadata through the platform client only when a threshold requires it.
type Filter struct {
	client     platform.Client
	thresholds Thresholds
	logger     *slog.Logger
}

// New constructs a Filter. A nil logger discards diagnostics.
func New(client platform.Client, thresholds Thresholds, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Filter{client: client, thresholds: thresholds, logger: logger}
}

// Admits reports whether the item meets the configured criteria, with a short
// operator-facing reason on rejection. Size is evaluated before duration and
// the first failing check wins. A failed or incomplete metadata probe rejects
// the item.
func (f *Filter) Admits(ctx context.Context, item platform.ItemRef) (bool, string) {
	if !f.thresholds.Enabled() {
		return true, ""
	}

	meta, err := f.client.FetchMetadata(ctx, item)
	if err != nil {
		f.logger.Warn("criteria probe failed, rejecting item",
			"item", item.ID,
			"error", err,
		)
		return false, "metadata probe failed"
	}

	if f.thresholds.MinSizeMB > 0 {
		sizeMB, known := meta.SizeMB()
		if !known {
			f.logger.Warn("size unknown, rejecting item", "item", item.ID)
			return false, "size unknown"
		}
		if sizeMB < f.thresholds.MinSizeMB {
			return false, fmt.Sprintf("size %.1f MB below minimum %.1f MB", sizeMB, f.thresholds.MinSizeMB)
		}
	}

	if f.thresholds.MinDurationSeconds > 0 {
		duration, known := meta.Duration()
		if !known {
			f.logger.Warn("duration unknown, rejecting item", "item", item.ID)
			return false, "duration unknown"
		}
		if duration < f.thresholds.MinDurationSeconds {
			return false, fmt.Sprintf("duration %.1fs below minimum %.1fs", duration, f.thresholds.MinDurationSeconds)
		}
	}

	return true, ""
}
