package repository

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrSeatUnavailable = errors.New("seat unavailable")
	ErrSeatDisabled    = errors.New("seat disabled")
	ErrStaleTicket     = errors.New("ticket state changed")
	ErrRetryExhausted  = errors.New("serialization retries exhausted")
)
