package booking

import (
	"fmt"
	"time"

	"github.com/kirinyoku/busseat-go/internal/domain"
)

var (
	ErrTripNotFound     = fmt.Errorf("trip %w", domain.ErrNotFound)
	ErrSeatNotFound     = fmt.Errorf("seat %w on this trip", domain.ErrNotFound)
	ErrTicketNotFound   = fmt.Errorf("ticket %w", domain.ErrNotFound)
	ErrSeatTaken        = fmt.Errorf("booking: %w", domain.ErrSeatConflict)
	ErrSeatDisabled     = fmt.Errorf("seat is under maintenance: %w", domain.ErrInvalidState)
	ErrTripNotBookable  = fmt.Errorf("trip is not open for booking: %w", domain.ErrInvalidState)
	ErrBookingTimeout   = fmt.Errorf("booking deadline exceeded: %w", domain.ErrTimeout)
	ErrIdempotencyReuse = fmt.Errorf("idempotency key already used for another trip: %w", domain.ErrConflict)
	ErrIdempotencyBusy  = fmt.Errorf("request with this idempotency key is in progress: %w", domain.ErrConflict)
	ErrTicketUnpaid     = fmt.Errorf("ticket has no payment: %w", domain.ErrInvalidState)
	ErrSeatLinkLost     = fmt.Errorf("seat is no longer held by this ticket: %w", domain.ErrConflict)
)

// TicketStateError rejects an operation the ticket's current status does not
// allow.
type TicketStateError struct {
	Op     string
	Status domain.TicketStatus
}

func (e TicketStateError) Error() string {
	return fmt.Sprintf("cannot %s a %s ticket", e.Op, e.Status)
}

func (e TicketStateError) Unwrap() error { return domain.ErrInvalidState }

// RateLimitedError is returned when a client exceeds its booking budget.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}
