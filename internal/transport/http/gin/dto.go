package httpgin

import (
	"time"

	"github.com/kirinyoku/busseat-go/internal/domain"
)

type CreateVehicleTypeRequest struct {
	Name       string `json:"name" binding:"required"`
	Capacity   int    `json:"capacity" binding:"required"`
	PriceCents int64  `json:"price_cents"`
	Layout     string `json:"layout"`
}

type CreateVehicleTypeResponse struct {
	VehicleType *domain.VehicleType     `json:"vehicle_type"`
	Seats       []domain.SeatDescriptor `json:"seats"`
}

type SeatInput struct {
	SeatNumber string `json:"seat_number" binding:"required"`
	Row        int    `json:"row" binding:"required,gt=0"`
	Column     int    `json:"column" binding:"required,gt=0"`
}

type CreateSeatsRequest struct {
	Seats []SeatInput `json:"seats" binding:"required,min=1,dive"`
}

type UpdateSeatsRequest struct {
	Updates []domain.SeatUpdate `json:"updates" binding:"required,min=1"`
}

type DeleteSeatsRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type SetEnabledBulkRequest struct {
	Enabled     *bool    `json:"enabled" binding:"required"`
	SeatNumbers []string `json:"seat_numbers"`
}

type SetEnabledBulkResponse struct {
	Updated int64 `json:"updated"`
}

type CreateVehicleRequest struct {
	LicensePlate  string `json:"license_plate" binding:"required"`
	VehicleTypeID int64  `json:"vehicle_type_id" binding:"required"`
}

type StopInput struct {
	Location  string `json:"location" binding:"required"`
	ArrivesAt string `json:"arrives_at" binding:"required"`
	DepartsAt string `json:"departs_at" binding:"required"`
}

type CreateTripRequest struct {
	VehicleID int64       `json:"vehicle_id" binding:"required"`
	DepartsAt string      `json:"departs_at" binding:"required"`
	Stops     []StopInput `json:"stops" binding:"required,min=2,dive"`
}

type CreateTripResponse struct {
	Trip  *domain.Trip `json:"trip"`
	Seats int64        `json:"seats"`
}

type InstantiateResponse struct {
	Seats int64 `json:"seats"`
}

type SetTripStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type BookTicketRequest struct {
	SeatNumber    string `json:"seat_number"`
	PickupStopID  int64  `json:"pickup_stop_id" binding:"required"`
	DropoffStopID int64  `json:"dropoff_stop_id" binding:"required"`
	PriceCents    int64  `json:"price_cents"`
}

type RecordPaymentRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Method      string `json:"method" binding:"required"`
}

type LayoutPreviewResponse struct {
	Template string                  `json:"template"`
	Capacity int                     `json:"capacity"`
	Seats    []domain.SeatDescriptor `json:"seats"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Kind    string   `json:"kind,omitempty"`
	Details []string `json:"details,omitempty"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
