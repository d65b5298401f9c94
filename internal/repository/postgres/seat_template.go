package postgresrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kirinyoku/busseat-go/internal/domain"
	"github.com/kirinyoku/busseat-go/internal/repository"
)

type SeatTemplateRepo struct {
	pool Pool
	db   DB
}

func (r *SeatTemplateRepo) With(db DB) *SeatTemplateRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *SeatTemplateRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// ExistingNumbers returns which of seatNumbers are already used by the
// vehicle type, sorted.
func (r *SeatTemplateRepo) ExistingNumbers(
	ctx context.Context,
	vehicleTypeID int64,
	seatNumbers []string,
) ([]string, error) {
	const op = "postgresrepo.SeatTemplateRepo.ExistingNumbers"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT seat_number
       	 FROM seat_templates
      	 WHERE vehicle_type_id = $1 AND seat_number = ANY($2)
      	 ORDER BY seat_number`,
		vehicleTypeID, seatNumbers,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// BatchInsert inserts all seats in one round trip. A unique violation on any
// row fails the whole batch.
func (r *SeatTemplateRepo) BatchInsert(
	ctx context.Context,
	vehicleTypeID int64,
	seats []domain.SeatDescriptor,
) error {
	const op = "postgresrepo.SeatTemplateRepo.BatchInsert"

	db := r.handle()

	batch := &pgx.Batch{}
	for _, s := range seats {
		batch.Queue(
			`INSERT INTO seat_templates(vehicle_type_id, seat_number, row_no, col_no)
         	 VALUES ($1, $2, $3, $4)`,
			vehicleTypeID, s.SeatNumber, s.Row, s.Column,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *SeatTemplateRepo) Get(ctx context.Context, id int64) (*domain.SeatTemplateEntry, error) {
	const op = "postgresrepo.SeatTemplateRepo.Get"

	db := r.handle()

	var e domain.SeatTemplateEntry
	if err := db.QueryRow(ctx,
		`SELECT id, vehicle_type_id, seat_number, row_no, col_no, enabled
       	 FROM seat_templates WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.VehicleTypeID, &e.SeatNumber, &e.Row, &e.Column, &e.Enabled); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &e, nil
}

func (r *SeatTemplateRepo) List(ctx context.Context, vehicleTypeID int64) ([]domain.SeatTemplateEntry, error) {
	const op = "postgresrepo.SeatTemplateRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, vehicle_type_id, seat_number, row_no, col_no, enabled
       	 FROM seat_templates
      	 WHERE vehicle_type_id = $1
      	 ORDER BY row_no, col_no, seat_number`,
		vehicleTypeID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.SeatTemplateEntry
	for rows.Next() {
		var e domain.SeatTemplateEntry
		if err := rows.Scan(&e.ID, &e.VehicleTypeID, &e.SeatNumber, &e.Row, &e.Column, &e.Enabled); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// Update applies the non-nil fields of u. A seat number that trip inventory
// already references cannot be renamed; moving it on the grid is allowed.
//
// Returns:
//   - *domain.SeatTemplateEntry: the entry after the update.
//   - error: repository.ErrNotFound if the entry does not exist.
//   - error: repository.ErrConflict if the new seat number is taken.
//   - error: repository.ErrSeatUnavailable if a referenced seat is renamed.
func (r *SeatTemplateRepo) Update(ctx context.Context, u domain.SeatUpdate) (*domain.SeatTemplateEntry, error) {
	const op = "postgresrepo.SeatTemplateRepo.Update"

	db := r.handle()

	cur, err := lockEntry(ctx, db, u.ID)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	if u.SeatNumber != nil && *u.SeatNumber != cur.seatNumber && cur.referenced {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrSeatUnavailable)
	}

	var e domain.SeatTemplateEntry
	if err := db.QueryRow(ctx,
		`UPDATE seat_templates
       	 SET seat_number = COALESCE($2, seat_number),
       	     row_no = COALESCE($3, row_no),
       	     col_no = COALESCE($4, col_no)
      	 WHERE id = $1
     	 RETURNING id, vehicle_type_id, seat_number, row_no, col_no, enabled`,
		u.ID, u.SeatNumber, u.Row, u.Column,
	).Scan(&e.ID, &e.VehicleTypeID, &e.SeatNumber, &e.Row, &e.Column, &e.Enabled); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &e, nil
}

// Delete removes an entry unless its seat number appears in the inventory of
// any trip run by a vehicle of the same type.
//
// Returns:
//   - int64: the vehicle type the entry belonged to.
//   - error: repository.ErrNotFound if the entry does not exist.
//   - error: repository.ErrSeatUnavailable if trip inventory references it.
func (r *SeatTemplateRepo) Delete(ctx context.Context, id int64) (int64, error) {
	const op = "postgresrepo.SeatTemplateRepo.Delete"

	db := r.handle()

	cur, err := lockEntry(ctx, db, id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	if cur.referenced {
		return cur.vehicleTypeID, fmt.Errorf("%s: %w", op, repository.ErrSeatUnavailable)
	}

	if _, err := db.Exec(ctx, `DELETE FROM seat_templates WHERE id = $1`, id); err != nil {
		return cur.vehicleTypeID, wrapDBErr(op, err)
	}

	return cur.vehicleTypeID, nil
}

type lockedEntry struct {
	vehicleTypeID int64
	seatNumber    string
	referenced    bool
}

// lockEntry locks one template row and reports whether any trip of the same
// vehicle type carries its seat number.
func lockEntry(ctx context.Context, db DB, id int64) (lockedEntry, error) {
	var e lockedEntry
	err := db.QueryRow(ctx,
		`SELECT st.vehicle_type_id, st.seat_number, EXISTS (
       	     SELECT 1
       	     FROM trip_seats ts
       	     JOIN trips t ON t.id = ts.trip_id
       	     JOIN vehicles v ON v.id = t.vehicle_id
      	     WHERE v.vehicle_type_id = st.vehicle_type_id
       	       AND ts.seat_number = st.seat_number
       	 )
       	 FROM seat_templates st
      	 WHERE st.id = $1
       	 FOR UPDATE OF st`,
		id,
	).Scan(&e.vehicleTypeID, &e.seatNumber, &e.referenced)

	return e, err
}

// ActiveBookedNumbers returns the seat numbers of the vehicle type that are
// booked on a trip whose status is active. A nil seatNumbers checks every seat
// of the type.
func (r *SeatTemplateRepo) ActiveBookedNumbers(
	ctx context.Context,
	vehicleTypeID int64,
	seatNumbers []string,
) ([]string, error) {
	const op = "postgresrepo.SeatTemplateRepo.ActiveBookedNumbers"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT DISTINCT ts.seat_number
       	 FROM trip_seats ts
       	 JOIN trips t ON t.id = ts.trip_id
       	 JOIN vehicles v ON v.id = t.vehicle_id
      	 WHERE v.vehicle_type_id = $1
       	   AND ts.is_booked
       	   AND t.status = ANY($3)
       	   AND ($2::text[] IS NULL OR ts.seat_number = ANY($2))
      	 ORDER BY ts.seat_number`,
		vehicleTypeID, seatNumbers, domain.ActiveTripStatuses(),
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}

// SetEnabled flips the flag for the given seats of a vehicle type, or for all
// of them when seatNumbers is nil. It returns the number of rows touched.
func (r *SeatTemplateRepo) SetEnabled(
	ctx context.Context,
	vehicleTypeID int64,
	enabled bool,
	seatNumbers []string,
) (int64, error) {
	const op = "postgresrepo.SeatTemplateRepo.SetEnabled"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE seat_templates
       	 SET enabled = $2
      	 WHERE vehicle_type_id = $1
       	   AND ($3::text[] IS NULL OR seat_number = ANY($3))`,
		vehicleTypeID, enabled, seatNumbers,
	)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}
