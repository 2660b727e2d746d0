// Package acquire orchestrates the acquisition pipeline: it streams candidate
// items from a platform client, applies dedupe and eligibility checks,
// fetches each eligible item with bounded retries, and records durable
// history so re-runs never download the same item twice.
//
// Processing is strictly sequential: one item, one network operation at a
// time, with a jittered pause between items. A per-item failure never aborts
// a batch run; only the single-item mode treats retry exhaustion as fatal.
package acquire
