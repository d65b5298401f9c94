package trips

import (
	"fmt"

	"github.com/kirinyoku/busseat-go/internal/domain"
)

var (
	ErrTripNotFound        = fmt.Errorf("trip %w", domain.ErrNotFound)
	ErrVehicleNotFound     = fmt.Errorf("vehicle %w", domain.ErrNotFound)
	ErrAlreadyInstantiated = fmt.Errorf("trip seats already instantiated: %w", domain.ErrConflict)
	ErrStatusChanged       = fmt.Errorf("trip status changed concurrently: %w", domain.ErrConflict)
	ErrContention          = fmt.Errorf("too many concurrent changes, try again: %w", domain.ErrConflict)
)

// TransitionError rejects a status change the trip lifecycle does not allow.
type TransitionError struct {
	From, To domain.TripStatus
}

func (e TransitionError) Error() string {
	return fmt.Sprintf("trip cannot move from %s to %s", e.From, e.To)
}

func (e TransitionError) Unwrap() error { return domain.ErrInvalidState }
