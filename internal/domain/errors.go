package domain

import "errors"

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrCityRequired    = errors.New("city is required")
	ErrBuyerRequired   = errors.New("buyer name is required")
	ErrNegativePrice   = errors.New("price cannot be negative")
	ErrInvalidID       = errors.New("invalid listing id")
	ErrListingNotFound = errors.New("listing not found")

	// ErrTxnUnsupported is the internal signal that the backend rejected
	// the transactional capability itself. It triggers the non-atomic
	// fallback and is never surfaced to callers. It must never be returned
	// for a transaction that aborted for any other reason.
	ErrTxnUnsupported = errors.New("transactions not supported by backend")
)

// IsValidation reports whether err is an input-validation failure: no side
// effects occurred and the caller can retry with corrected input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrTitleRequired) ||
		errors.Is(err, ErrCityRequired) ||
		errors.Is(err, ErrBuyerRequired) ||
		errors.Is(err, ErrNegativePrice) ||
		errors.Is(err, ErrInvalidID)
}
