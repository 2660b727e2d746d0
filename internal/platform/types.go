package platform

import "time"

// ItemRef identifies one candidate media item on a platform. Values are
// produced by a Client and treated as immutable from then on.
type ItemRef struct {
	Platform  string
	Account   string
	ID        string
	SourceURL string
	IsVideo   bool
	PostedAt  time.Time
}

// Metadata carries the descriptive attributes of an item needed for filtering
// and sidecar output. Pointer fields are nil until the platform has been
// probed for them; probing costs a network round trip, so callers request
// metadata lazily.
type Metadata struct {
	SizeBytes       *int64
	DurationSeconds *float64
	Caption         string
	PostedAt        time.Time
	LikeCount       *int64

	// Author is the publishing account's name. Used to backfill an ItemRef
	// parsed from a bare item URL, where the account is not known up front.
	Author string
}

// SizeMB returns the probed size in megabytes and whether it is known.
func (m Metadata) SizeMB() (float64, bool) {
	if m.SizeBytes == nil {
		return 0, false
	}
	return float64(*m.SizeBytes) / (1024 * 1024), true
}

// Duration returns the probed duration in seconds and whether it is known.
func (m Metadata) Duration() (float64, bool) {
	if m.DurationSeconds == nil {
		return 0, false
	}
	return *m.DurationSeconds, true
}
