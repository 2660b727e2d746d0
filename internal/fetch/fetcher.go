package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"reelfetch/internal/fileutil"
	"reelfetch/internal/platform"
	"reelfetch/internal/ratelimit"
)

const (
	// DefaultMaxAttempts bounds retries per item unless overridden.
	DefaultMaxAttempts = 3

	// chunkSize bounds memory use regardless of media size.
	chunkSize = 8 * 1024

	defaultHTTPTimeout = 10 * time.Minute

	timestampLayout = "2006-01-02_15-04-05"
)

// Result describes one successfully persisted download. Meta holds whatever
// metadata the sidecar probe returned; its optional fields may be nil.
type Result struct {
	Item         platform.ItemRef
	Meta         platform.Metadata
	MediaPath    string
	SidecarPath  string
	BytesWritten int64
	Attempts     int
}

// Fetcher downloads media items through a platform client.
type Fetcher struct {
	client      platform.Client
	limiter     *ratelimit.Limiter
	httpClient  *http.Client
	logger      *slog.Logger
	maxAttempts int
	sleep       func(ctx context.Context, d time.Duration) error
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithMaxAttempts overrides the retry budget per item.
func WithMaxAttempts(attempts int) Option {
	return func(f *Fetcher) {
		if attempts > 0 {
			f.maxAttempts = attempts
		}
	}
}

// WithSleeper overrides how backoff sleeps are performed (useful for tests).
func WithSleeper(sleeper func(ctx context.Context, d time.Duration) error) Option {
	return func(f *Fetcher) {
		if sleeper != nil {
			f.sleep = sleeper
		}
	}
}

// New constructs a Fetcher.
func New(client platform.Client, limiter *ratelimit.Limiter, logger *slog.Logger, opts ...Option) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fetcher := &Fetcher{
		client:      client,
		limiter:     limiter,
		httpClient:  &http.Client{Timeout: defaultHTTPTimeout},
		logger:      logger,
		maxAttempts: DefaultMaxAttempts,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(fetcher)
	}
	return fetcher
}

// MaxAttempts returns the configured retry budget.
func (f *Fetcher) MaxAttempts() int {
	return f.maxAttempts
}

// Fetch downloads the item into destDir, retrying transient failures with
// increasing backoff. On success the media file and its sidecar are both in
// place. On exhaustion the last classified error is returned and no files
// remain.
func (f *Fetcher) Fetch(ctx context.Context, item platform.ItemRef, destDir string) (*Result, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create download directory %q: %w", destDir, err)
	}

	mediaPath := filepath.Join(destDir, mediaFileName(item))
	var lastErr error

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		result, err := f.attempt(ctx, item, mediaPath)
		if err == nil {
			result.Attempts = attempt
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err

		f.logger.Warn("fetch attempt failed",
			"item", item.ID,
			"attempt", attempt,
			"max_attempts", f.maxAttempts,
			"error", err,
		)

		if !platform.Retryable(err) || attempt == f.maxAttempts {
			break
		}
		if err := f.sleep(ctx, f.limiter.BackoffDelay(attempt)); err != nil {
			return nil, err
		}
	}

	if lastErr == nil {
		lastErr = errors.New("unknown fetch failure")
	}
	return nil, fmt.Errorf("fetch %s: failed after %d attempts: %w", item.ID, f.maxAttempts, lastErr)
}

func (f *Fetcher) attempt(ctx context.Context, item platform.ItemRef, mediaPath string) (*Result, error) {
	mediaURL, err := f.client.ResolveMediaURL(ctx, item)
	if err != nil {
		var resolution *platform.ResolutionError
		if errors.As(err, &resolution) {
			return nil, err
		}
		return nil, &platform.ResolutionError{Item: item, Err: err}
	}

	written, err := f.transfer(ctx, item, mediaURL, mediaPath)
	if err != nil {
		return nil, err
	}

	sidecarPath, meta, err := f.writeSidecar(ctx, item, mediaPath)
	if err != nil {
		// The verified media file stays; a sidecar write failure is an IO
		// problem a retry will not fix.
		return nil, fmt.Errorf("write sidecar for %s: %w", item.ID, err)
	}

	return &Result{
		Item:         item,
		Meta:         meta,
		MediaPath:    mediaPath,
		SidecarPath:  sidecarPath,
		BytesWritten: written,
	}, nil
}

// transfer streams the media body to mediaPath via a staging file, verifying
// a non-empty result before renaming into place.
func (f *Fetcher) transfer(ctx context.Context, item platform.ItemRef, mediaURL, mediaPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return 0, &platform.TransferError{Item: item, Err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, &platform.TransferError{Item: item, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &platform.TransferError{Item: item, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	stagingPath := mediaPath + ".part"
	staging, err := os.Create(stagingPath)
	if err != nil {
		return 0, &platform.TransferError{Item: item, Err: fmt.Errorf("create staging file: %w", err)}
	}

	written, err := io.CopyBuffer(staging, resp.Body, make([]byte, chunkSize))
	if closeErr := staging.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(stagingPath)
		return 0, &platform.TransferError{Item: item, Err: err}
	}

	removed, err := fileutil.RemoveIfEmpty(stagingPath)
	if err != nil {
		_ = os.Remove(stagingPath)
		return 0, &platform.TransferError{Item: item, Err: fmt.Errorf("verify staging file: %w", err)}
	}
	if removed {
		return 0, &platform.VerificationError{Item: item, Err: errors.New("zero-byte download")}
	}

	if err := os.Rename(stagingPath, mediaPath); err != nil {
		_ = os.Remove(stagingPath)
		return 0, &platform.TransferError{Item: item, Err: fmt.Errorf("finalize media file: %w", err)}
	}
	return written, nil
}

func mediaFileName(item platform.ItemRef) string {
	posted := item.PostedAt
	if posted.IsZero() {
		posted = time.Now().UTC()
	}
	return fmt.Sprintf("%s_%s_%s.mp4", item.Account, posted.Format(timestampLayout), item.ID)
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
