package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"reelfetch/internal/platform"
)

const (
	// PlatformName is the identifier recorded in history entries and used
	// to build per-platform download directories.
	PlatformName = "instagram"

	defaultBaseURL     = "https://www.instagram.com"
	defaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultHTTPTimeout = 30 * time.Second

	// App identifier the instagram.com web client sends with API requests.
	webAppID = "936619743392459"
)

// Client fetches reel listings and metadata from Instagram's web API.
type Client struct {
	sessionID  string
	userAgent  string
	baseURL    string
	httpClient *http.Client
}

// Option customizes the Instagram client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default site base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithUserAgent overrides the default browser user agent.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		agent = strings.TrimSpace(agent)
		if agent != "" {
			c.userAgent = agent
		}
	}
}

// NewClient constructs an Instagram web API client. The session ID is the
// value of the sessionid cookie from a logged-in browser session; it may be
// empty, in which case Instagram serves only what it exposes anonymously.
func NewClient(sessionID string, opts ...Option) *Client {
	client := &Client{
		sessionID:  strings.TrimSpace(sessionID),
		userAgent:  defaultUserAgent,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Name identifies the platform in history records and download paths.
func (c *Client) Name() string { return PlatformName }

// ParseItemURL extracts an ItemRef from a reel or post page URL. Accepts
// /reel/{shortcode}/ and /p/{shortcode}/ paths on any instagram.com host.
func (c *Client) ParseItemURL(_ context.Context, rawURL string) (platform.ItemRef, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return platform.ItemRef{}, fmt.Errorf("%w: %q", platform.ErrUnsupportedURL, rawURL)
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	if host != "instagram.com" && !strings.HasSuffix(host, ".instagram.com") {
		return platform.ItemRef{}, fmt.Errorf("%w: host %q", platform.ErrUnsupportedURL, parsed.Hostname())
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	shortcode := ""
	for i, segment := range segments {
		if (segment == "reel" || segment == "reels" || segment == "p") && i+1 < len(segments) {
			shortcode = segments[i+1]
			break
		}
	}
	if shortcode == "" {
		return platform.ItemRef{}, fmt.Errorf("%w: no shortcode in %q", platform.ErrUnsupportedURL, rawURL)
	}
	return platform.ItemRef{
		Platform:  PlatformName,
		ID:        shortcode,
		SourceURL: fmt.Sprintf("%s/reel/%s/", defaultBaseURL, shortcode),
		IsVideo:   true,
	}, nil
}

// ResolveMediaURL queries the post metadata document for a fresh direct video
// URL. The returned address is short lived and must be used promptly.
func (c *Client) ResolveMediaURL(ctx context.Context, item platform.ItemRef) (string, error) {
	media, err := c.fetchShortcodeMedia(ctx, item.ID)
	if err != nil {
		return "", &platform.ResolutionError{Item: item, Err: err}
	}
	if media.VideoURL == "" {
		return "", &platform.ResolutionError{Item: item, Err: errors.New("no video url in response")}
	}
	return media.VideoURL, nil
}

// FetchMetadata probes the post metadata document and the media's
// Content-Length header. Size is omitted when the HEAD request fails; the
// remaining fields come straight from the document.
func (c *Client) FetchMetadata(ctx context.Context, item platform.ItemRef) (platform.Metadata, error) {
	media, err := c.fetchShortcodeMedia(ctx, item.ID)
	if err != nil {
		return platform.Metadata{}, err
	}

	meta := platform.Metadata{
		Caption: media.caption(),
		Author:  media.Owner.Username,
	}
	if media.VideoDuration > 0 {
		duration := media.VideoDuration
		meta.DurationSeconds = &duration
	}
	likes := media.LikeCount()
	meta.LikeCount = &likes
	if media.TakenAtTimestamp > 0 {
		meta.PostedAt = time.Unix(media.TakenAtTimestamp, 0).UTC()
	}
	if media.VideoURL != "" {
		if size, err := c.headContentLength(ctx, media.VideoURL); err == nil && size > 0 {
			meta.SizeBytes = &size
		}
	}
	return meta, nil
}

// fetchShortcodeMedia retrieves the JSON document Instagram serves for a
// single post.
func (c *Client) fetchShortcodeMedia(ctx context.Context, shortcode string) (*shortcodeMedia, error) {
	if shortcode == "" {
		return nil, errors.New("instagram: shortcode required")
	}
	endpoint := fmt.Sprintf("%s/p/%s/?__a=1&__d=dis", c.baseURL, url.PathEscape(shortcode))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	var doc postDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("instagram: decode post %s: %w", shortcode, err)
	}
	if doc.GraphQL.ShortcodeMedia == nil {
		return nil, fmt.Errorf("instagram: post %s: empty media document", shortcode)
	}
	return doc.GraphQL.ShortcodeMedia, nil
}

// headContentLength issues a HEAD request against a direct media URL and
// returns the advertised byte size.
func (c *Client) headContentLength(ctx context.Context, mediaURL string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, mediaURL, nil)
	if err != nil {
		return 0, fmt.Errorf("instagram: head request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("instagram: head request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("instagram: head request: http %d", resp.StatusCode)
	}
	size, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("instagram: parse content-length: %w", err)
	}
	return size, nil
}

// get issues an authenticated GET and returns the response body.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("instagram: request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-IG-App-ID", webAppID)
	req.Header.Set("Accept", "application/json")
	if c.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: c.sessionID})
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instagram: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("instagram: read response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("instagram: http %d: session cookie missing or expired", resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("instagram: http 404: item not found or removed")
	default:
		return nil, fmt.Errorf("instagram: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}
