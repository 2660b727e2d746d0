package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"reelfetch/internal/platform"
)

// feedPageSize is the item count requested per feed API page. 12 matches
// what the instagram.com web client asks for.
const feedPageSize = 12

// ListItems walks an account's published items newest first via the private
// feed API, fetching pages lazily as the iterator advances.
func (c *Client) ListItems(_ context.Context, account string) (platform.ItemIterator, error) {
	account = strings.TrimSpace(strings.TrimPrefix(account, "@"))
	if account == "" {
		return nil, fmt.Errorf("instagram: account name required")
	}
	return &feedIterator{client: c, account: account, more: true}, nil
}

type feedIterator struct {
	client  *Client
	account string

	pending []platform.ItemRef
	current platform.ItemRef
	nextMax string
	more    bool
	err     error
}

func (it *feedIterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	for len(it.pending) == 0 {
		if !it.more {
			return false
		}
		if err := ctx.Err(); err != nil {
			it.err = err
			return false
		}
		if err := it.fetchPage(ctx); err != nil {
			it.err = err
			return false
		}
	}
	it.current = it.pending[0]
	it.pending = it.pending[1:]
	return true
}

func (it *feedIterator) Item() platform.ItemRef { return it.current }

func (it *feedIterator) Err() error { return it.err }

func (it *feedIterator) fetchPage(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/api/v1/feed/user/%s/username/?count=%d",
		it.client.baseURL, url.PathEscape(it.account), feedPageSize)
	if it.nextMax != "" {
		endpoint += "&max_id=" + url.QueryEscape(it.nextMax)
	}
	body, err := it.client.get(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("instagram: list items for %s: %w", it.account, err)
	}
	var page feedPage
	if err := json.Unmarshal(body, &page); err != nil {
		return fmt.Errorf("instagram: decode feed for %s: %w", it.account, err)
	}
	for _, item := range page.Items {
		it.pending = append(it.pending, item.toRef(it.account))
	}
	it.nextMax = page.NextMaxID
	it.more = page.MoreAvailable && page.NextMaxID != ""
	return nil
}

// feedPage is one page of the private feed API response.
type feedPage struct {
	Items         []feedItem `json:"items"`
	MoreAvailable bool       `json:"more_available"`
	NextMaxID     string     `json:"next_max_id"`
}

// feedItem is the subset of a feed entry needed to build an ItemRef.
// media_type 2 marks video posts.
type feedItem struct {
	Code      string `json:"code"`
	MediaType int    `json:"media_type"`
	TakenAt   int64  `json:"taken_at"`
}

func (f feedItem) toRef(account string) platform.ItemRef {
	ref := platform.ItemRef{
		Platform:  PlatformName,
		Account:   account,
		ID:        f.Code,
		SourceURL: fmt.Sprintf("%s/reel/%s/", defaultBaseURL, f.Code),
		IsVideo:   f.MediaType == 2,
	}
	if f.TakenAt > 0 {
		ref.PostedAt = time.Unix(f.TakenAt, 0).UTC()
	}
	return ref
}

// postDocument is the JSON served at /p/{shortcode}/?__a=1.
type postDocument struct {
	GraphQL struct {
		ShortcodeMedia *shortcodeMedia `json:"shortcode_media"`
	} `json:"graphql"`
}

type shortcodeMedia struct {
	Shortcode        string  `json:"shortcode"`
	IsVideo          bool    `json:"is_video"`
	VideoURL         string  `json:"video_url"`
	VideoDuration    float64 `json:"video_duration"`
	TakenAtTimestamp int64   `json:"taken_at_timestamp"`
	EdgeLike         struct {
		Count int64 `json:"count"`
	} `json:"edge_media_preview_like"`
	Owner struct {
		Username string `json:"username"`
	} `json:"owner"`
	EdgeCaption struct {
		Edges []struct {
			Node struct {
				Text string `json:"text"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_caption"`
}

func (m *shortcodeMedia) caption() string {
	if len(m.EdgeCaption.Edges) == 0 {
		return ""
	}
	return m.EdgeCaption.Edges[0].Node.Text
}

func (m *shortcodeMedia) LikeCount() int64 { return m.EdgeLike.Count }
