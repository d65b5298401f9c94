package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kirinyoku/busseat-go/internal/domain"
	"github.com/kirinyoku/busseat-go/internal/repository"
)

type BookingRepo struct {
	pool Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// BookingTarget is what a booking needs to know about the trip it sells.
type BookingTarget struct {
	TripID     int64
	Status     domain.TripStatus
	PriceCents int64
	Stops      []domain.Stop
}

const activeSeatIndex = "tickets_active_seat_key"

const ticketColumns = `id, trip_id, seat_number, buyer_id, buyer_name, buyer_contact,
       	 pickup_stop_id, dropoff_stop_id, price_cents, status,
       	 COALESCE(idempotency_key, ''), payment_deadline, created_at, updated_at`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	var status string
	if err := row.Scan(
		&t.ID,
		&t.TripID,
		&t.SeatNumber,
		&t.Buyer.ID,
		&t.Buyer.Name,
		&t.Buyer.Contact,
		&t.PickupStopID,
		&t.DropoffStopID,
		&t.PriceCents,
		&status,
		&t.IdempotencyKey,
		&t.PaymentDeadline,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Status = domain.TicketStatus(status)
	return &t, nil
}

// Target loads the trip status, the per-seat price of its vehicle type and
// the trip's stops.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - tripID: unique identifier of the trip being sold.
//
// Returns:
//   - *BookingTarget: trip status, default price and ordered stops.
//   - error: repository.ErrNotFound if the trip does not exist.
func (r *BookingRepo) Target(ctx context.Context, tripID int64) (*BookingTarget, error) {
	const op = "postgresrepo.BookingRepo.Target"

	db := r.handle()

	bt := BookingTarget{TripID: tripID}
	var status string
	if err := db.QueryRow(ctx,
		`SELECT t.status, vt.price_cents
       	 FROM trips t
       	 JOIN vehicles v ON v.id = t.vehicle_id
       	 JOIN vehicle_types vt ON vt.id = v.vehicle_type_id
      	 WHERE t.id = $1`,
		tripID,
	).Scan(&status, &bt.PriceCents); err != nil {
		return nil, wrapDBErr(op, err)
	}
	bt.Status = domain.TripStatus(status)

	stops, err := (&TripRepo{pool: r.pool, db: r.db}).ListStops(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	bt.Stops = stops

	return &bt, nil
}

// TicketByIdempotencyKey finds the ticket a buyer already created with key.
//
// Returns:
//   - *domain.Ticket: the earlier ticket.
//   - error: repository.ErrNotFound if the key is unused.
func (r *BookingRepo) TicketByIdempotencyKey(ctx context.Context, buyerID int64, key string) (*domain.Ticket, error) {
	const op = "postgresrepo.BookingRepo.TicketByIdempotencyKey"

	db := r.handle()

	t, err := scanTicket(db.QueryRow(ctx,
		`SELECT `+ticketColumns+`
       	 FROM tickets
      	 WHERE buyer_id = $1 AND idempotency_key = $2`,
		buyerID, key,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return t, nil
}

// LowestFreeSeat returns the first unbooked, enabled seat of the trip in
// layout order (row, column, seat number).
//
// Returns:
//   - string: the seat number.
//   - error: repository.ErrSeatUnavailable if every seat is taken.
func (r *BookingRepo) LowestFreeSeat(ctx context.Context, tripID int64) (string, error) {
	const op = "postgresrepo.BookingRepo.LowestFreeSeat"

	db := r.handle()

	var seat string
	err := db.QueryRow(ctx,
		`SELECT ts.seat_number
       	 FROM trip_seats ts
       	 JOIN trips t ON t.id = ts.trip_id
       	 JOIN vehicles v ON v.id = t.vehicle_id
       	 LEFT JOIN seat_templates st
       	        ON st.vehicle_type_id = v.vehicle_type_id
       	       AND st.seat_number = ts.seat_number
      	 WHERE ts.trip_id = $1
       	   AND NOT ts.is_booked
       	   AND COALESCE(st.enabled, true)
      	 ORDER BY ts.row_no, ts.col_no, ts.seat_number
      	 LIMIT 1`,
		tripID,
	).Scan(&seat)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, repository.ErrSeatUnavailable)
		}
		return "", wrapDBErr(op, err)
	}

	return seat, nil
}

// CheckSeat verifies that a seat exists in the trip's inventory, is not
// booked and is not under maintenance.
//
// Returns:
//   - error: repository.ErrNotFound if the seat was never instantiated.
//   - error: repository.ErrSeatUnavailable if the seat is booked.
//   - error: repository.ErrSeatDisabled if the template entry is disabled.
func (r *BookingRepo) CheckSeat(ctx context.Context, tripID int64, seatNumber string) error {
	const op = "postgresrepo.BookingRepo.CheckSeat"

	db := r.handle()

	var booked, enabled bool
	if err := db.QueryRow(ctx,
		`SELECT ts.is_booked, COALESCE(st.enabled, true)
       	 FROM trip_seats ts
       	 JOIN trips t ON t.id = ts.trip_id
       	 JOIN vehicles v ON v.id = t.vehicle_id
       	 LEFT JOIN seat_templates st
       	        ON st.vehicle_type_id = v.vehicle_type_id
       	       AND st.seat_number = ts.seat_number
      	 WHERE ts.trip_id = $1 AND ts.seat_number = $2`,
		tripID, seatNumber,
	).Scan(&booked, &enabled); err != nil {
		return wrapDBErr(op, err)
	}

	if booked {
		return fmt.Errorf("%s: %w", op, repository.ErrSeatUnavailable)
	}

	if !enabled {
		return fmt.Errorf("%s: %w", op, repository.ErrSeatDisabled)
	}

	return nil
}

// InsertTicket stores a new ticket. The partial unique index on active
// tickets rejects a second active ticket for the same seat.
//
// Returns:
//   - error: repository.ErrSeatUnavailable if the seat already has an active ticket.
//   - error: repository.ErrConflict if the idempotency key was used concurrently.
func (r *BookingRepo) InsertTicket(ctx context.Context, t domain.Ticket) error {
	const op = "postgresrepo.BookingRepo.InsertTicket"

	db := r.handle()

	var key *string
	if t.IdempotencyKey != "" {
		key = &t.IdempotencyKey
	}

	_, err := db.Exec(ctx,
		`INSERT INTO tickets(id, trip_id, seat_number, buyer_id, buyer_name, buyer_contact,
       	                     pickup_stop_id, dropoff_stop_id, price_cents, status,
       	                     idempotency_key, payment_deadline)
       	 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.TripID, t.SeatNumber, t.Buyer.ID, t.Buyer.Name, t.Buyer.Contact,
		t.PickupStopID, t.DropoffStopID, t.PriceCents, string(t.Status),
		key, t.PaymentDeadline,
	)
	if err != nil {
		var pge *pgconn.PgError
		if errors.As(err, &pge) && pge.Code == codeUniqueViolation && pge.ConstraintName == activeSeatIndex {
			return fmt.Errorf("%s: %w", op, repository.ErrSeatUnavailable)
		}
		return wrapDBErr(op, err)
	}

	return nil
}

// ClaimSeat links the seat to the ticket, but only while it is still free.
// This compare-and-swap is the booking's claim: zero rows updated means
// someone else got there first.
//
// Returns:
//   - error: repository.ErrSeatUnavailable if the seat is no longer free.
func (r *BookingRepo) ClaimSeat(ctx context.Context, tripID int64, seatNumber string, ticketID uuid.UUID) error {
	const op = "postgresrepo.BookingRepo.ClaimSeat"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE trip_seats
       	 SET is_booked = true, ticket_id = $3
      	 WHERE trip_id = $1 AND seat_number = $2 AND NOT is_booked`,
		tripID, seatNumber, ticketID,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%s: %w", op, repository.ErrSeatUnavailable)
	}

	return nil
}

// ReleaseSeat frees a seat only if it is still linked to ticketID, so a stale
// cancel can never unlink a newer booking.
//
// Returns:
//   - error: repository.ErrStaleTicket if the seat is not held by ticketID.
func (r *BookingRepo) ReleaseSeat(ctx context.Context, tripID int64, seatNumber string, ticketID uuid.UUID) error {
	const op = "postgresrepo.BookingRepo.ReleaseSeat"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE trip_seats
       	 SET is_booked = false, ticket_id = NULL
      	 WHERE trip_id = $1 AND seat_number = $2 AND ticket_id = $3`,
		tripID, seatNumber, ticketID,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%s: %w", op, repository.ErrStaleTicket)
	}

	return nil
}

// GetTicket retrieves a ticket by its ID.
//
// Returns:
//   - *domain.Ticket: the ticket when found.
//   - error: repository.ErrNotFound if the ticket does not exist.
func (r *BookingRepo) GetTicket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const op = "postgresrepo.BookingRepo.GetTicket"

	db := r.handle()

	t, err := scanTicket(db.QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return t, nil
}

// SetTicketStatus moves a ticket from one status to another.
//
// Returns:
//   - error: repository.ErrStaleTicket if the ticket is not in status "from".
func (r *BookingRepo) SetTicketStatus(ctx context.Context, id uuid.UUID, from, to domain.TicketStatus) error {
	const op = "postgresrepo.BookingRepo.SetTicketStatus"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE tickets
       	 SET status = $3, updated_at = now()
      	 WHERE id = $1 AND status = $2`,
		id, string(from), string(to),
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%s: %w", op, repository.ErrStaleTicket)
	}

	return nil
}

// InsertPayment appends a payment fact to a ticket.
func (r *BookingRepo) InsertPayment(ctx context.Context, p domain.Payment) error {
	const op = "postgresrepo.BookingRepo.InsertPayment"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO payments(id, ticket_id, amount_cents, method, paid_at)
       	 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.TicketID, p.AmountCents, p.Method, p.PaidAt,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// IsPaid reports whether at least one payment was recorded for the ticket.
func (r *BookingRepo) IsPaid(ctx context.Context, ticketID uuid.UUID) (bool, error) {
	const op = "postgresrepo.BookingRepo.IsPaid"

	db := r.handle()

	var paid bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payments WHERE ticket_id = $1)`,
		ticketID,
	).Scan(&paid); err != nil {
		return false, wrapDBErr(op, err)
	}

	return paid, nil
}

// ExpiredUnpaid lists booked tickets past their payment deadline that never
// received a payment, oldest first.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - now: reference time for the deadline.
//   - limit: maximum number of tickets to return.
func (r *BookingRepo) ExpiredUnpaid(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	const op = "postgresrepo.BookingRepo.ExpiredUnpaid"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT t.id
       	 FROM tickets t
      	 WHERE t.status = 'booked'
       	   AND t.payment_deadline <= $1
       	   AND NOT EXISTS (SELECT 1 FROM payments p WHERE p.ticket_id = t.id)
      	 ORDER BY t.payment_deadline
      	 LIMIT $2`,
		now, limit,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return ids, nil
}

// CompleteBooked moves every paid booked ticket of a trip to completed and
// returns how many changed. Seats stay linked to their tickets.
func (r *BookingRepo) CompleteBooked(ctx context.Context, tripID int64) (int64, error) {
	const op = "postgresrepo.BookingRepo.CompleteBooked"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE tickets t
       	 SET status = 'completed', updated_at = now()
      	 WHERE t.trip_id = $1
       	   AND t.status = 'booked'
       	   AND EXISTS (SELECT 1 FROM payments p WHERE p.ticket_id = t.id)`,
		tripID,
	)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}

// CancelUnpaidOnTrip cancels every booked ticket of a trip that has no payment
// and frees the seats they held. It returns how many tickets changed.
func (r *BookingRepo) CancelUnpaidOnTrip(ctx context.Context, tripID int64) (int64, error) {
	const op = "postgresrepo.BookingRepo.CancelUnpaidOnTrip"

	db := r.handle()

	var n int64
	if err := db.QueryRow(ctx,
		`WITH cancelled AS (
       	     UPDATE tickets t
       	     SET status = 'cancelled', updated_at = now()
      	     WHERE t.trip_id = $1
       	       AND t.status = 'booked'
       	       AND NOT EXISTS (SELECT 1 FROM payments p WHERE p.ticket_id = t.id)
     	     RETURNING t.id, t.seat_number
       	 ), released AS (
       	     UPDATE trip_seats ts
       	     SET is_booked = false, ticket_id = NULL
       	     FROM cancelled c
      	     WHERE ts.trip_id = $1
       	       AND ts.seat_number = c.seat_number
       	       AND ts.ticket_id = c.id
     	     RETURNING ts.id
       	 )
       	 SELECT COUNT(*) FROM cancelled`,
		tripID,
	).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}
