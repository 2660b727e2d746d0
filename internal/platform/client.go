package platform

import "context"

// Client is the capability set one platform implementation provides.
type Client interface {
	// Name returns the platform identifier used in history records and
	// download paths (for example "instagram").
	Name() string

	// ListItems starts a lazy, newest-first walk over the account's published
	// items. The sequence is finite and not restartable mid-stream; calling
	// ListItems again restarts from the newest item.
	ListItems(ctx context.Context, account string) (ItemIterator, error)

	// ResolveMediaURL returns a direct media URL for the item. Resolved URLs
	// expire quickly, so callers must re-resolve before every transfer
	// attempt. Returns a *ResolutionError when the platform has no media
	// address for the item.
	ResolveMediaURL(ctx context.Context, item ItemRef) (string, error)

	// FetchMetadata probes the platform for the item's descriptive metadata.
	// Fields may be partially populated.
	FetchMetadata(ctx context.Context, item ItemRef) (Metadata, error)

	// ParseItemURL converts a user-supplied item page URL into an ItemRef.
	// Returns ErrUnsupportedURL when the URL does not belong to this platform.
	ParseItemURL(ctx context.Context, rawURL string) (ItemRef, error)
}

// ItemIterator walks a platform's item sequence one element at a time.
//
// Usage follows the bufio.Scanner shape: Next advances and reports whether an
// item is available, Item returns the current element, and Err surfaces the
// first error encountered once Next returns false.
type ItemIterator interface {
	Next(ctx context.Context) bool
	Item() ItemRef
	Err() error
}
