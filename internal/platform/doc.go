// Package platform defines the capability surface a content platform must
// provide for acquisition: enumerating an account's published items, resolving
// a fresh media URL for an item, and probing item metadata.
//
// The orchestrator and fetcher consume only these interfaces and value types,
// so they never branch on platform identity. Concrete clients live in
// subpackages (for example platform/instagram) and register themselves here.
//
// The package also owns the error taxonomy shared across the download
// pipeline; use Retryable to decide whether a failure warrants another
// attempt.
package platform
