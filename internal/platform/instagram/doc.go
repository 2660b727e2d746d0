// Package instagram implements the platform client for Instagram's web API.
//
// The client talks to two surfaces: the per-post metadata document served at
// /p/{shortcode}/?__a=1, which carries the short-lived direct video URL along
// with caption, duration and like data, and the private feed API under
// /api/v1/feed/user/, which pages through an account's published items newest
// first. All requests authenticate with a session cookie and present a
// browser user agent; anonymous access is rejected by Instagram for most
// accounts.
//
// Direct media URLs expire within minutes of being minted, so callers
// re-resolve through ResolveMediaURL immediately before each transfer rather
// than caching the address from an earlier probe.
package instagram
