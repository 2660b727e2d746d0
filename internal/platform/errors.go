package platform

import (
	"errors"
	"fmt"
)

// ErrUnsupportedURL indicates a user-supplied URL does not belong to the
// platform asked to parse it.
var ErrUnsupportedURL = errors.New("unsupported item url")

// ErrEndOfItems is returned by iterators that have exhausted the account's
// published items.
var ErrEndOfItems = errors.New("no more items")

// ResolutionError indicates the platform returned no usable media address for
// an item. Retryable: resolved URLs are minted per request and a later attempt
// may succeed.
type ResolutionError struct {
	Item ItemRef
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve media url for %s: %v", e.Item.ID, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// TransferError indicates a network or IO failure mid-download. Retryable.
type TransferError struct {
	Item ItemRef
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %s: %v", e.Item.ID, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// VerificationError indicates the transferred file failed post-download
// verification (zero-byte or truncated). Treated identically to a transfer
// failure for retry purposes.
type VerificationError struct {
	Item ItemRef
	Err  error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verify %s: %v", e.Item.ID, e.Err)
}

func (e *VerificationError) Unwrap() error { return e.Err }

// ProbeError indicates a metadata probe failed while evaluating filter
// criteria. Never retried: the eligibility filter fails closed and rejects
// the item instead.
type ProbeError struct {
	Item ItemRef
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe metadata for %s: %v", e.Item.ID, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// Retryable reports whether the error class warrants another fetch attempt.
func Retryable(err error) bool {
	var resolution *ResolutionError
	var transfer *TransferError
	var verification *VerificationError
	return errors.As(err, &resolution) || errors.As(err, &transfer) || errors.As(err, &verification)
}
