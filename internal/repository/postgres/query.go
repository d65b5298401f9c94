package postgresrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kirinyoku/busseat-go/internal/domain"
)

type QueryRepo struct {
	pool Pool
	db   DB
}

func (r *QueryRepo) With(db DB) *QueryRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *QueryRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// TemplateCounts counts enabled and disabled template seats of a vehicle type
// in a single statement.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - vehicleTypeID: unique identifier of the vehicle type.
//
// Returns:
//   - domain.Availability: enabled seats as available, disabled as unavailable.
//   - error: repository.ErrNotFound if the vehicle type does not exist.
func (r *QueryRepo) TemplateCounts(ctx context.Context, vehicleTypeID int64) (domain.Availability, error) {
	const op = "postgresrepo.QueryRepo.TemplateCounts"

	db := r.handle()

	var enabled, disabled int64
	err := db.QueryRow(ctx,
		`SELECT
       	 	COUNT(st.id) FILTER (WHERE st.enabled),
       	 	COUNT(st.id) FILTER (WHERE NOT st.enabled)
     	 FROM vehicle_types vt
     	 LEFT JOIN seat_templates st ON st.vehicle_type_id = vt.id
     	 WHERE vt.id = $1
     	 GROUP BY vt.id`,
		vehicleTypeID,
	).Scan(&enabled, &disabled)
	if err != nil {
		return domain.Availability{}, wrapDBErr(op, err)
	}

	return domain.NewAvailability(enabled, disabled), nil
}

// TripCounts counts free and booked seats of a trip in a single statement.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - tripID: unique identifier of the trip.
//
// Returns:
//   - domain.Availability: free seats as available, booked as unavailable.
//   - error: repository.ErrNotFound if the trip does not exist.
func (r *QueryRepo) TripCounts(ctx context.Context, tripID int64) (domain.Availability, error) {
	const op = "postgresrepo.QueryRepo.TripCounts"

	db := r.handle()

	var free, booked int64
	err := db.QueryRow(ctx,
		`SELECT
       	 	COUNT(ts.id) FILTER (WHERE NOT ts.is_booked),
       	 	COUNT(ts.id) FILTER (WHERE ts.is_booked)
     	 FROM trips t
     	 LEFT JOIN trip_seats ts ON ts.trip_id = t.id
     	 WHERE t.id = $1
     	 GROUP BY t.id`,
		tripID,
	).Scan(&free, &booked)
	if err != nil {
		return domain.Availability{}, wrapDBErr(op, err)
	}

	return domain.NewAvailability(free, booked), nil
}

// ListTripSeats lists the inventory of a trip in layout order.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - tripID: unique identifier of the trip.
//   - onlyAvailable: flag to filter only free seats.
//
// Returns:
//   - []domain.TripSeat: the seats, empty when the trip has none.
func (r *QueryRepo) ListTripSeats(ctx context.Context, tripID int64, onlyAvailable bool) ([]domain.TripSeat, error) {
	const op = "postgresrepo.QueryRepo.ListTripSeats"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, trip_id, seat_number, row_no, col_no, is_booked, ticket_id
       	 FROM trip_seats
      	 WHERE trip_id = $1 AND (NOT $2 OR NOT is_booked)
      	 ORDER BY row_no, col_no, seat_number`,
		tripID, onlyAvailable,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TripSeat, error) {
		var s domain.TripSeat
		var ticketID *uuid.UUID
		if err := row.Scan(&s.ID, &s.TripID, &s.SeatNumber, &s.Row, &s.Column, &s.IsBooked, &ticketID); err != nil {
			return s, err
		}
		s.TicketID = ticketID
		return s, nil
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
