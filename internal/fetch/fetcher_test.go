package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"reelfetch/internal/fetch"
	"reelfetch/internal/logging"
	"reelfetch/internal/platform"
	"reelfetch/internal/ratelimit"
	"reelfetch/internal/testsupport"
)

func testLimiter() *ratelimit.Limiter {
	return ratelimit.New(1.0, logging.NewNop(), ratelimit.WithRandFloat(func() float64 {
		return 0
	}))
}

func noSleep(ctx context.Context, d time.Duration) error { return ctx.Err() }

func testItem() platform.ItemRef {
	return platform.ItemRef{
		Platform:  "instagram",
		Account:   "alice",
		ID:        "abc123",
		SourceURL: "https://example.invalid/reel/abc123/",
		IsVideo:   true,
		PostedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestFetchWritesMediaAndSidecar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("video-bytes"))
	}))
	defer server.Close()

	item := testItem()
	client := &testsupport.FakeClient{
		Items: []testsupport.FakeItem{{
			Ref:      item,
			MediaURL: server.URL,
			Meta: platform.Metadata{
				Caption:   "beach day",
				PostedAt:  item.PostedAt,
				LikeCount: testsupport.Int64(42),
			},
		}},
	}

	destDir := t.TempDir()
	fetcher := fetch.New(client, testLimiter(), nil, fetch.WithSleeper(noSleep))

	result, err := fetcher.Fetch(context.Background(), item, destDir)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	wantMedia := filepath.Join(destDir, "alice_2024-05-01_10-00-00_abc123.mp4")
	if result.MediaPath != wantMedia {
		t.Fatalf("media path %q, want %q", result.MediaPath, wantMedia)
	}
	if result.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", result.Attempts)
	}
	media, err := os.ReadFile(result.MediaPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(media) != "video-bytes" {
		t.Fatalf("media content %q", media)
	}

	sidecar, err := os.ReadFile(result.SidecarPath)
	if err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
	for _, want := range []string{"Item ID: abc123", "Caption: beach day", "Likes: 42", "Source URL: https://example.invalid/reel/abc123/"} {
		if !strings.Contains(string(sidecar), want) {
			t.Fatalf("sidecar missing %q:\n%s", want, sidecar)
		}
	}
}

func TestFetchZeroByteResultIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	item := testItem()
	client := &testsupport.FakeClient{
		Items: []testsupport.FakeItem{{Ref: item, MediaURL: server.URL}},
	}

	destDir := t.TempDir()
	fetcher := fetch.New(client, testLimiter(), nil, fetch.WithSleeper(noSleep))

	_, err := fetcher.Fetch(context.Background(), item, destDir)
	if err == nil {
		t.Fatal("expected failure for zero-byte download")
	}
	var verification *platform.VerificationError
	if !errors.As(err, &verification) {
		t.Fatalf("expected VerificationError, got %v", err)
	}

	entries, readErr := os.ReadDir(destDir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("failure left files behind: %v", entries)
	}
}

func TestFetchRetriesAtMostMaxAttempts(t *testing.T) {
	item := testItem()
	client := &testsupport.FakeClient{
		Items: []testsupport.FakeItem{{
			Ref:        item,
			ResolveErr: &platform.ResolutionError{Item: item, Err: errors.New("no media address")},
		}},
	}

	var delays []time.Duration
	fetcher := fetch.New(client, testLimiter(), nil,
		fetch.WithMaxAttempts(4),
		fetch.WithSleeper(func(ctx context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		}),
	)

	_, err := fetcher.Fetch(context.Background(), item, t.TempDir())
	if err == nil {
		t.Fatal("expected exhaustion failure")
	}
	if got := client.ResolveCalls(item.ID); got != 4 {
		t.Fatalf("resolved %d times, want 4", got)
	}

	// Backoff grows linearly with the attempt number (base 1s, no jitter).
	want := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("slept %d times, want %d", len(delays), len(want))
	}
	for i, d := range delays {
		if d != want[i] {
			t.Fatalf("delay[%d] = %v, want %v", i, d, want[i])
		}
	}
}

func TestFetchRecoversAfterTransientFailure(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("video"))
	}))
	defer server.Close()

	item := testItem()
	client := &testsupport.FakeClient{
		Items: []testsupport.FakeItem{{Ref: item, MediaURL: server.URL}},
	}

	fetcher := fetch.New(client, testLimiter(), nil, fetch.WithSleeper(noSleep))
	result, err := fetcher.Fetch(context.Background(), item, t.TempDir())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if result.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", result.Attempts)
	}
	// Each attempt resolves afresh; resolved URLs are never cached.
	if got := client.ResolveCalls(item.ID); got != 2 {
		t.Fatalf("resolved %d times, want 2", got)
	}
}

func TestFetchHonorsContextCancellation(t *testing.T) {
	item := testItem()
	client := &testsupport.FakeClient{
		Items: []testsupport.FakeItem{{
			Ref:        item,
			ResolveErr: &platform.ResolutionError{Item: item, Err: errors.New("down")},
		}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	fetcher := fetch.New(client, testLimiter(), nil, fetch.WithSleeper(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}))

	_, err := fetcher.Fetch(ctx, item, t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFetchWritesPartialSidecarWhenProbeFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("video"))
	}))
	defer server.Close()

	item := testItem()
	client := &testsupport.FakeClient{
		Items: []testsupport.FakeItem{{
			Ref:      item,
			MediaURL: server.URL,
			MetaErr:  &platform.ProbeError{Item: item, Err: errors.New("rate limited")},
		}},
	}

	fetcher := fetch.New(client, testLimiter(), nil, fetch.WithSleeper(noSleep))
	result, err := fetcher.Fetch(context.Background(), item, t.TempDir())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	sidecar, err := os.ReadFile(result.SidecarPath)
	if err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
	if !strings.Contains(string(sidecar), "Item ID: abc123") {
		t.Fatalf("partial sidecar missing item id:\n%s", sidecar)
	}
	if !strings.Contains(string(sidecar), "Likes: unknown") {
		t.Fatalf("partial sidecar should report unknown likes:\n%s", sidecar)
	}
}
