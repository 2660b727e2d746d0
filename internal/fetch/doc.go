// Package fetch downloads a resolved media item to disk with bounded retries
// and jittered, linearly increasing backoff.
//
// Every attempt re-resolves the media URL (resolved URLs expire quickly),
// streams the body to a staging file in fixed-size chunks, verifies the
// result is non-empty, and only then renames it into place and writes the
// metadata sidecar. A failure at any stage leaves neither a partial media
// file nor an orphaned sidecar behind.
package fetch
