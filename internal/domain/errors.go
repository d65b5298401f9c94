package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by a service wraps exactly one of them,
// so callers branch with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrSeatConflict = errors.New("seat already taken")
	ErrInvalidState = errors.New("invalid state")
	ErrTimeout      = errors.New("timeout")
)

// InvalidInputError names the offending field.
type InvalidInputError struct {
	Field string
	Msg   string
}

func (e InvalidInputError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e InvalidInputError) Unwrap() error { return ErrInvalidInput }

// SeatNumbersConflictError lists seat numbers that collide within a batch or
// with entries already stored.
type SeatNumbersConflictError struct {
	SeatNumbers []string
}

func (e SeatNumbersConflictError) Error() string {
	return fmt.Sprintf("duplicate seat numbers: %s", strings.Join(e.SeatNumbers, ", "))
}

func (e SeatNumbersConflictError) Unwrap() error { return ErrConflict }

// ActiveBookingsError lists seats that are booked on an upcoming or ongoing
// trip and therefore cannot be disabled.
type ActiveBookingsError struct {
	SeatNumbers []string
}

func (e ActiveBookingsError) Error() string {
	return fmt.Sprintf("seats booked on active trips: %s", strings.Join(e.SeatNumbers, ", "))
}

func (e ActiveBookingsError) Unwrap() error { return ErrConflict }

// Kind returns the error kind wrapped by err, or nil when err carries none.
func Kind(err error) error {
	for _, k := range []error{
		ErrSeatConflict,
		ErrInvalidInput,
		ErrNotFound,
		ErrConflict,
		ErrInvalidState,
		ErrTimeout,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
