// Package history persists the per-account record of downloaded item IDs.
//
// The record is a flat JSON index keyed by platform then account, flushed
// atomically after every mutation so a crash mid-run loses at most the
// in-flight item. Lookups additionally reconcile against files already on
// disk: a media file whose name contains the item ID counts as downloaded
// even when the record was never written, and the record is repaired on the
// spot. An item present by record or by file is never fetched again.
package history
