package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reelfetch/internal/fileutil"
	"reelfetch/internal/platform"
)

// writeSidecar persists the plain-text metadata file next to the media file,
// sharing its stem. Metadata is fetched best-effort: a probe failure after a
// verified transfer still yields a sidecar populated from the ItemRef alone.
func (f *Fetcher) writeSidecar(ctx context.Context, item platform.ItemRef, mediaPath string) (string, platform.Metadata, error) {
	meta, err := f.client.FetchMetadata(ctx, item)
	if err != nil {
		f.logger.Warn("sidecar metadata probe failed, writing partial sidecar",
			"item", item.ID,
			"error", err,
		)
		meta = platform.Metadata{PostedAt: item.PostedAt}
	}

	sidecarPath := strings.TrimSuffix(mediaPath, ".mp4") + ".txt"
	if err := fileutil.WriteFileAtomic(sidecarPath, []byte(renderSidecar(item, meta)), 0o644); err != nil {
		return "", platform.Metadata{}, err
	}
	return sidecarPath, meta, nil
}

func renderSidecar(item platform.ItemRef, meta platform.Metadata) string {
	caption := strings.TrimSpace(meta.Caption)
	if caption == "" {
		caption = "No caption"
	}

	posted := meta.PostedAt
	if posted.IsZero() {
		posted = item.PostedAt
	}
	postedText := "unknown"
	if !posted.IsZero() {
		postedText = posted.Format(time.DateTime)
	}

	likes := "unknown"
	if meta.LikeCount != nil {
		likes = fmt.Sprintf("%d", *meta.LikeCount)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Item ID: %s\n", item.ID)
	fmt.Fprintf(&b, "Caption: %s\n", caption)
	fmt.Fprintf(&b, "Posted: %s\n", postedText)
	fmt.Fprintf(&b, "Likes: %s\n", likes)
	fmt.Fprintf(&b, "Source URL: %s\n", item.SourceURL)
	return b.String()
}
