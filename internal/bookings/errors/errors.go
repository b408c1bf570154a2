package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrLockHeld = errors.New("slot lock already held")

	// ErrStaleStatus means a conditional status update matched nothing: the
	// booking's status changed after it was read.
	ErrStaleStatus = errors.New("booking status changed concurrently")
)
