// Package criteria decides whether a candidate item meets the operator's
// quality thresholds before any transfer time is committed to it.
//
// Thresholds are independently optional. Metadata is only probed when at
// least one threshold is set, and any probe failure rejects the item rather
// than crashing the run (fail closed).
package criteria
