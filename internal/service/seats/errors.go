package seats

import (
	"fmt"

	"github.com/kirinyoku/busseat-go/internal/domain"
)

var (
	ErrVehicleTypeNotFound = fmt.Errorf("vehicle type %w", domain.ErrNotFound)
	ErrSeatNotFound        = fmt.Errorf("seat %w", domain.ErrNotFound)
	ErrSeatInUse           = fmt.Errorf("seat is referenced by trip inventory: %w", domain.ErrConflict)
	ErrContention          = fmt.Errorf("too many concurrent changes, try again: %w", domain.ErrConflict)
)
