package availability

import (
	"fmt"

	"github.com/kirinyoku/busseat-go/internal/domain"
)

var (
	ErrVehicleTypeNotFound = fmt.Errorf("vehicle type %w", domain.ErrNotFound)
	ErrTripNotFound        = fmt.Errorf("trip %w", domain.ErrNotFound)
)
