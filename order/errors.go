package order

import "errors"

var (
	// ErrInvalidChoice reports a choice referencing a remediation option that
	// is not in the most recently offered set. The session's candidate is left
	// untouched; re-offer the current options.
	ErrInvalidChoice = errors.New("choice not among offered remediation options")

	// ErrNotValidated reports finalize being called on a candidate that does
	// not validate cleanly. This is a caller-protocol violation, not a guest
	// error.
	ErrNotValidated = errors.New("order has not passed validation")

	// ErrPlacementFailed wraps a failure from the placement collaborator. The
	// underlying error is surfaced unchanged; retrying is the caller's call.
	ErrPlacementFailed = errors.New("order placement failed")
)
