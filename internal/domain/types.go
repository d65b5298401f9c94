package domain

import (
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripUpcoming  TripStatus = "upcoming"
	TripOngoing   TripStatus = "ongoing"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
	TripDelayed   TripStatus = "delayed"
)

func (s TripStatus) Valid() bool {
	switch s {
	case TripUpcoming, TripOngoing, TripCompleted, TripCancelled, TripDelayed:
		return true
	}
	return false
}

// Bookable reports whether tickets may still be sold for a trip in this status.
func (s TripStatus) Bookable() bool {
	return s == TripUpcoming || s == TripDelayed
}

// Active reports whether the trip still holds live inventory. Seats booked on
// an active trip cannot be put under maintenance.
func (s TripStatus) Active() bool {
	return s == TripUpcoming || s == TripDelayed || s == TripOngoing
}

// ActiveTripStatuses lists every status for which Active is true.
func ActiveTripStatuses() []string {
	return []string{string(TripUpcoming), string(TripDelayed), string(TripOngoing)}
}

type TicketStatus string

const (
	TicketBooked    TicketStatus = "booked"
	TicketCompleted TicketStatus = "completed"
	TicketCancelled TicketStatus = "cancelled"
	TicketRefunded  TicketStatus = "refunded"
)

// Active reports whether a ticket in this status still occupies its seat.
func (s TicketStatus) Active() bool {
	return s == TicketBooked || s == TicketCompleted
}

type VehicleType struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Capacity   int       `json:"capacity"`
	PriceCents int64     `json:"price_cents"`
	Layout     string    `json:"layout"`
	CreatedAt  time.Time `json:"created_at"`
}

// SeatDescriptor is one generated or submitted seat position.
type SeatDescriptor struct {
	SeatNumber string `json:"seat_number"`
	Row        int    `json:"row"`
	Column     int    `json:"column"`
}

type SeatTemplateEntry struct {
	ID            int64 `json:"id"`
	VehicleTypeID int64 `json:"vehicle_type_id"`
	SeatDescriptor
	Enabled bool `json:"enabled"`
}

// SeatUpdate renames or moves one template entry. Nil fields are left as is.
type SeatUpdate struct {
	ID         int64   `json:"id"`
	SeatNumber *string `json:"seat_number,omitempty"`
	Row        *int    `json:"row,omitempty"`
	Column     *int    `json:"column,omitempty"`
}

type Vehicle struct {
	ID            int64  `json:"id"`
	LicensePlate  string `json:"license_plate"`
	VehicleTypeID int64  `json:"vehicle_type_id"`
}

type Stop struct {
	ID        int64     `json:"id"`
	TripID    int64     `json:"trip_id"`
	Seq       int       `json:"seq"`
	Location  string    `json:"location"`
	ArrivesAt time.Time `json:"arrives_at"`
	DepartsAt time.Time `json:"departs_at"`
}

type Trip struct {
	ID        int64      `json:"id"`
	VehicleID int64      `json:"vehicle_id"`
	Status    TripStatus `json:"status"`
	DepartsAt time.Time  `json:"departs_at"`
	Stops     []Stop     `json:"stops,omitempty"`
}

type TripSeat struct {
	ID         int64      `json:"id"`
	TripID     int64      `json:"trip_id"`
	SeatNumber string     `json:"seat_number"`
	Row        int        `json:"row"`
	Column     int        `json:"column"`
	IsBooked   bool       `json:"is_booked"`
	TicketID   *uuid.UUID `json:"ticket_id,omitempty"`
}

// Buyer is the authenticated customer supplied by the session layer.
type Buyer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

type Ticket struct {
	ID              uuid.UUID    `json:"id"`
	TripID          int64        `json:"trip_id"`
	SeatNumber      string       `json:"seat_number"`
	Buyer           Buyer        `json:"buyer"`
	PickupStopID    int64        `json:"pickup_stop_id"`
	DropoffStopID   int64        `json:"dropoff_stop_id"`
	PriceCents      int64        `json:"price_cents"`
	Status          TicketStatus `json:"status"`
	IdempotencyKey  string       `json:"-"`
	PaymentDeadline time.Time    `json:"payment_deadline"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

type Payment struct {
	ID          uuid.UUID `json:"id"`
	TicketID    uuid.UUID `json:"ticket_id"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method"`
	PaidAt      time.Time `json:"paid_at"`
}

// Availability is an occupancy projection over either a vehicle type's
// template or a trip's inventory.
type Availability struct {
	Total       int64   `json:"total"`
	Available   int64   `json:"available"`
	Unavailable int64   `json:"unavailable"`
	Rate        float64 `json:"rate"`
}

// NewAvailability derives the rate; it is 0 when there are no seats.
func NewAvailability(available, unavailable int64) Availability {
	a := Availability{
		Total:       available + unavailable,
		Available:   available,
		Unavailable: unavailable,
	}
	if a.Total > 0 {
		a.Rate = float64(available) / float64(a.Total)
	}
	return a
}
