package postgresrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kirinyoku/busseat-go/internal/domain"
	"github.com/kirinyoku/busseat-go/internal/repository"
)

type TripRepo struct {
	pool Pool
	db   DB
}

func (r *TripRepo) With(db DB) *TripRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *TripRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *TripRepo) CreateTrip(ctx context.Context, vehicleID int64, departsAt time.Time) (int64, error) {
	const op = "postgresrepo.TripRepo.CreateTrip"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO trips(vehicle_id, status, departs_at)
       	 VALUES ($1, 'upcoming', $2)
     	 RETURNING id`,
		vehicleID, departsAt,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

// AddStops inserts the stops in order; Seq is assigned from the slice index.
func (r *TripRepo) AddStops(ctx context.Context, tripID int64, stops []domain.Stop) ([]domain.Stop, error) {
	const op = "postgresrepo.TripRepo.AddStops"

	db := r.handle()

	batch := &pgx.Batch{}
	for i, s := range stops {
		batch.Queue(
			`INSERT INTO trip_stops(trip_id, seq, location, arrives_at, departs_at)
         	 VALUES ($1, $2, $3, $4, $5)
       		 RETURNING id`,
			tripID, i+1, s.Location, s.ArrivesAt, s.DepartsAt,
		)
	}

	br := db.SendBatch(ctx, batch)
	defer br.Close()

	out := make([]domain.Stop, len(stops))
	for i, s := range stops {
		s.TripID = tripID
		s.Seq = i + 1
		if err := br.QueryRow().Scan(&s.ID); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out[i] = s
	}

	if err := br.Close(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// GetTrip returns the trip without its stops.
func (r *TripRepo) GetTrip(ctx context.Context, id int64) (*domain.Trip, error) {
	const op = "postgresrepo.TripRepo.GetTrip"

	db := r.handle()

	var t domain.Trip
	var status string
	if err := db.QueryRow(ctx,
		`SELECT id, vehicle_id, status, departs_at
       	 FROM trips WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.VehicleID, &status, &t.DepartsAt); err != nil {
		return nil, wrapDBErr(op, err)
	}

	t.Status = domain.TripStatus(status)

	return &t, nil
}

func (r *TripRepo) ListStops(ctx context.Context, tripID int64) ([]domain.Stop, error) {
	const op = "postgresrepo.TripRepo.ListStops"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, trip_id, seq, location, arrives_at, departs_at
       	 FROM trip_stops
      	 WHERE trip_id = $1
      	 ORDER BY seq`,
		tripID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Stop
	for rows.Next() {
		var s domain.Stop
		if err := rows.Scan(&s.ID, &s.TripID, &s.Seq, &s.Location, &s.ArrivesAt, &s.DepartsAt); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// SetStatus moves the trip to status "to" only if it is currently "from".
//
// Returns:
//   - error: repository.ErrConflict if the trip is no longer in "from".
func (r *TripRepo) SetStatus(ctx context.Context, id int64, from, to domain.TripStatus) error {
	const op = "postgresrepo.TripRepo.SetStatus"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE trips SET status = $3 WHERE id = $1 AND status = $2`,
		id, string(from), string(to),
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrConflict)
	}

	return nil
}

// MarkSeatsInstantiated records that the trip's inventory has been created.
//
// Returns:
//   - error: repository.ErrConflict if the trip was already marked or does
//     not exist.
func (r *TripRepo) MarkSeatsInstantiated(ctx context.Context, tripID int64) error {
	const op = "postgresrepo.TripRepo.MarkSeatsInstantiated"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE trips
       	 SET seats_instantiated_at = now()
      	 WHERE id = $1 AND seats_instantiated_at IS NULL`,
		tripID,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrConflict)
	}

	return nil
}

// InitTripSeats copies the current seat template of the trip's vehicle type
// into the trip's inventory and returns the number of seats created.
func (r *TripRepo) InitTripSeats(ctx context.Context, tripID int64) (int64, error) {
	const op = "postgresrepo.TripRepo.InitTripSeats"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`INSERT INTO trip_seats(trip_id, seat_number, row_no, col_no, is_booked)
       	 SELECT t.id, st.seat_number, st.row_no, st.col_no, false
         FROM trips t
         JOIN vehicles v ON v.id = t.vehicle_id
         JOIN seat_templates st ON st.vehicle_type_id = v.vehicle_type_id
         WHERE t.id = $1`,
		tripID,
	)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}
