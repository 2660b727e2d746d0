package acquire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"reelfetch/internal/criteria"
	"reelfetch/internal/fetch"
	"reelfetch/internal/history"
	"reelfetch/internal/platform"
	"reelfetch/internal/ratelimit"
)

// Summary reports the outcome of one batch run.
type Summary struct {
	Account           string
	Succeeded         int
	Failed            int
	AlreadyDownloaded int
	SkippedCriteria   int
	TotalConsidered   int
}

// RunOptions carries per-run settings for a batch acquisition.
type RunOptions struct {
	// Limit bounds how many eligible items are collected; zero means no limit.
	Limit int

	Thresholds criteria.Thresholds

	// Progress, when set, is invoked after each transfer with the number of
	// completed items and the eligible total.
	Progress func(completed, total int)
}

// Orchestrator wires the platform client, history store, eligibility filter,
// and retrying fetcher into the sequential acquisition pipeline.
type Orchestrator struct {
	client      platform.Client
	history     *history.Store
	fetcher     *fetch.Fetcher
	limiter     *ratelimit.Limiter
	downloadDir string
	logger      *slog.Logger
	out         io.Writer
	sleep       func(ctx context.Context, d time.Duration) error
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithOutput redirects operator-facing progress lines (defaults to stdout).
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) {
		if w != nil {
			o.out = w
		}
	}
}

// WithSleeper overrides the inter-item pacing sleep (useful for tests).
func WithSleeper(sleeper func(ctx context.Context, d time.Duration) error) Option {
	return func(o *Orchestrator) {
		if sleeper != nil {
			o.sleep = sleeper
		}
	}
}

// New constructs an Orchestrator. downloadDir is the base downloads
// directory; per-account files land under <downloadDir>/<platform>/<account>.
func New(
	client platform.Client,
	store *history.Store,
	fetcher *fetch.Fetcher,
	limiter *ratelimit.Limiter,
	downloadDir string,
	logger *slog.Logger,
	opts ...Option,
) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	orch := &Orchestrator{
		client:      client,
		history:     store,
		fetcher:     fetcher,
		limiter:     limiter,
		downloadDir: downloadDir,
		logger:      logger,
		out:         os.Stdout,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(orch)
	}
	return orch
}

// AccountDir returns the destination directory for an account's downloads.
func (o *Orchestrator) AccountDir(account string) string {
	return filepath.Join(o.downloadDir, o.client.Name(), account)
}

// Run acquires all new eligible items for the account. Per-item fetch
// failures are reported and counted but never abort the run; a non-nil error
// is returned only when candidate enumeration itself fails.
func (o *Orchestrator) Run(ctx context.Context, account string, opts RunOptions) (*Summary, error) {
	runID := uuid.New().String()
	logger := o.logger.With("run_id", runID, "account", account, "platform", o.client.Name())
	logger.Info("starting acquisition run",
		"limit", opts.Limit,
		"min_size_mb", opts.Thresholds.MinSizeMB,
		"min_duration_seconds", opts.Thresholds.MinDurationSeconds,
	)

	accountDir := o.AccountDir(account)
	filter := criteria.New(o.client, opts.Thresholds, logger)
	summary := &Summary{Account: account}

	fmt.Fprintf(o.out, "Analyzing items for %s...\n", account)

	eligible, err := o.collectEligible(ctx, account, accountDir, filter, opts.Limit, summary, logger)
	if err != nil {
		return nil, fmt.Errorf("list items for %s: %w", account, err)
	}

	fmt.Fprintf(o.out, "Found %d new items matching criteria (already downloaded: %d, skipped: %d)\n",
		len(eligible), summary.AlreadyDownloaded, summary.SkippedCriteria)
	if len(eligible) == 0 {
		return summary, nil
	}

	for i, item := range eligible {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, err := o.fetcher.Fetch(ctx, item, accountDir)
		if err != nil {
			summary.Failed++
			logger.Warn("item failed after retries", "item", item.ID, "error", err)
			fmt.Fprintf(o.out, "Skipped %s: %v\n", item.ID, err)
		} else {
			if err := o.history.MarkDownloaded(item.Platform, account, item.ID); err != nil {
				logger.Warn("record download in history", "item", item.ID, "error", err)
			}
			summary.Succeeded++
			fmt.Fprintf(o.out, "Downloaded %s (%s%s)\n", item.ID,
				humanize.Bytes(uint64(result.BytesWritten)), durationSuffix(result.Meta))
		}

		if opts.Progress != nil {
			opts.Progress(i+1, len(eligible))
		}

		// Steady-state pacing applies after failures too.
		if i < len(eligible)-1 {
			if err := o.sleep(ctx, o.limiter.NextDelay()); err != nil {
				return summary, err
			}
		}
	}

	logger.Info("acquisition run finished",
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"already_downloaded", summary.AlreadyDownloaded,
		"skipped_criteria", summary.SkippedCriteria,
		"total_considered", summary.TotalConsidered,
	)
	return summary, nil
}

// collectEligible walks the candidate stream applying the dedupe and
// eligibility checks, stopping once limit eligible items are gathered.
func (o *Orchestrator) collectEligible(
	ctx context.Context,
	account, accountDir string,
	filter *criteria.Filter,
	limit int,
	summary *Summary,
	logger *slog.Logger,
) ([]platform.ItemRef, error) {
	iter, err := o.client.ListItems(ctx, account)
	if err != nil {
		return nil, err
	}

	var eligible []platform.ItemRef
	for iter.Next(ctx) {
		item := iter.Item()
		if !item.IsVideo {
			continue
		}
		summary.TotalConsidered++

		if o.history.IsDownloaded(item.Platform, account, item.ID, accountDir) {
			summary.AlreadyDownloaded++
			continue
		}

		if admitted, reason := filter.Admits(ctx, item); !admitted {
			summary.SkippedCriteria++
			logger.Debug("item rejected by criteria", "item", item.ID, "reason", reason)
			continue
		}

		eligible = append(eligible, item)
		if limit > 0 && len(eligible) >= limit {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return eligible, nil
}

// DownloadOne runs the same pipeline for a single item URL. Unlike a batch
// run, retry exhaustion here is an error the caller should treat as fatal.
func (o *Orchestrator) DownloadOne(ctx context.Context, rawURL string) error {
	item, err := o.client.ParseItemURL(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("parse item url: %w", err)
	}

	// A bare item URL carries no account or publish time; backfill both from
	// a metadata probe so the file lands next to the account's batch
	// downloads under its usual name.
	if item.Account == "" || item.PostedAt.IsZero() {
		if meta, err := o.client.FetchMetadata(ctx, item); err == nil {
			if item.Account == "" {
				item.Account = meta.Author
			}
			if item.PostedAt.IsZero() {
				item.PostedAt = meta.PostedAt
			}
		} else {
			o.logger.Warn("probe item metadata", "item", item.ID, "error", err)
		}
	}

	accountDir := o.AccountDir(item.Account)
	if o.history.IsDownloaded(item.Platform, item.Account, item.ID, accountDir) {
		fmt.Fprintf(o.out, "Item %s already downloaded\n", item.ID)
		return nil
	}

	result, err := o.fetcher.Fetch(ctx, item, accountDir)
	if err != nil {
		return err
	}
	if err := o.history.MarkDownloaded(item.Platform, item.Account, item.ID); err != nil {
		o.logger.Warn("record download in history", "item", item.ID, "error", err)
	}

	fmt.Fprintf(o.out, "Downloaded %s to %s\n", item.ID, result.MediaPath)
	return nil
}

func durationSuffix(meta platform.Metadata) string {
	if duration, known := meta.Duration(); known {
		return fmt.Sprintf(", %.1fs", duration)
	}
	return ""
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
