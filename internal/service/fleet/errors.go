package fleet

import (
	"fmt"

	"github.com/kirinyoku/busseat-go/internal/domain"
)

var (
	ErrVehicleTypeNotFound = fmt.Errorf("vehicle type %w", domain.ErrNotFound)
	ErrVehicleTypeConflict = fmt.Errorf("vehicle type name: %w", domain.ErrConflict)
	ErrVehicleConflict     = fmt.Errorf("license plate: %w", domain.ErrConflict)
	ErrContention          = fmt.Errorf("too many concurrent changes, try again: %w", domain.ErrConflict)
)
