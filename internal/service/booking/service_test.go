package booking

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/busseat-go/internal/domain"
	"github.com/kirinyoku/busseat-go/internal/repository"
	postgresrepo "github.com/kirinyoku/busseat-go/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/busseat-go/internal/repository/redis"
)

var (
	txOpts = pgx.TxOptions{IsoLevel: pgx.Serializable, AccessMode: pgx.ReadWrite}
	fixed  = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
)

const (
	pickup  = int64(10)
	dropoff = int64(11)
)

var ticketCols = []string{
	"id", "trip_id", "seat_number", "buyer_id", "buyer_name", "buyer_contact",
	"pickup_stop_id", "dropoff_stop_id", "price_cents", "status",
	"idempotency_key", "payment_deadline", "created_at", "updated_at",
}

func newService(t *testing.T, cfg Config) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	svc := New(postgresrepo.NewStore(mock), nil, nil, nil, cfg)
	svc.now = func() time.Time { return fixed }
	return svc, mock
}

func request() BookRequest {
	return BookRequest{
		TripID:        1,
		Buyer:         domain.Buyer{ID: 7, Name: "Ann", Contact: "+100"},
		PickupStopID:  pickup,
		DropoffStopID: dropoff,
	}
}

func expectTarget(mock pgxmock.PgxPoolIface, status domain.TripStatus) {
	mock.ExpectQuery("SELECT t.status, vt.price_cents").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"status", "price_cents"}).AddRow(string(status), int64(1500)))
	mock.ExpectQuery("FROM trip_stops").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "trip_id", "seq", "location", "arrives_at", "departs_at"}).
			AddRow(pickup, int64(1), 1, "Hanoi", fixed, fixed.Add(10*time.Minute)).
			AddRow(dropoff, int64(1), 2, "Hai Phong", fixed.Add(2*time.Hour), fixed.Add(2*time.Hour)))
}

// insertArgs matches the InsertTicket call of request() for seat.
func insertArgs(seat string, price int64) []any {
	return []any{
		pgxmock.AnyArg(), int64(1), seat, int64(7), "Ann", "+100",
		pickup, dropoff, price, "booked",
		(*string)(nil), pgxmock.AnyArg(),
	}
}

func ticketRow(id uuid.UUID, tripID int64, status domain.TicketStatus, deadline time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(ticketCols).AddRow(
		id, tripID, "A1", int64(7), "Ann", "+100",
		pickup, dropoff, int64(1500), string(status),
		"", deadline, fixed, fixed,
	)
}

func TestBookPinnedSeat(t *testing.T) {
	svc, mock := newService(t, Config{PaymentTTL: 15 * time.Minute})

	mock.ExpectBeginTx(txOpts)
	expectTarget(mock, domain.TripUpcoming)
	mock.ExpectQuery("SELECT ts.is_booked").
		WithArgs(int64(1), "A1").
		WillReturnRows(pgxmock.NewRows([]string{"is_booked", "enabled"}).AddRow(false, true))
	mock.ExpectExec("INSERT INTO tickets").
		WithArgs(insertArgs("A1", 1500)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("SET is_booked = true").
		WithArgs(int64(1), "A1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	req := request()
	req.SeatNumber = " A1 "

	ticket, created, err := svc.Book(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "A1", ticket.SeatNumber)
	assert.Equal(t, domain.TicketBooked, ticket.Status)
	assert.Equal(t, int64(1500), ticket.PriceCents, "zero price falls back to the vehicle type price")
	assert.Equal(t, fixed.Add(15*time.Minute), ticket.PaymentDeadline)
	assert.NotEqual(t, uuid.Nil, ticket.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookLowestFreeSeat(t *testing.T) {
	svc, mock := newService(t, Config{})

	mock.ExpectBeginTx(txOpts)
	expectTarget(mock, domain.TripDelayed)
	mock.ExpectQuery("SELECT ts.seat_number").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"seat_number"}).AddRow("B2"))
	mock.ExpectExec("INSERT INTO tickets").
		WithArgs(insertArgs("B2", 900)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("SET is_booked = true").
		WithArgs(int64(1), "B2", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	req := request()
	req.PriceCents = 900

	ticket, _, err := svc.Book(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "B2", ticket.SeatNumber)
	assert.Equal(t, int64(900), ticket.PriceCents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookSeatErrors(t *testing.T) {
	tests := []struct {
		name   string
		expect func(pgxmock.PgxPoolIface)
		seat   string
		want   error
		kind   error
	}{
		{
			name: "no seat left",
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT ts.seat_number").
					WithArgs(int64(1)).
					WillReturnRows(pgxmock.NewRows([]string{"seat_number"}))
			},
			want: ErrSeatTaken,
			kind: domain.ErrSeatConflict,
		},
		{
			name: "pinned seat booked",
			seat: "A1",
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT ts.is_booked").
					WithArgs(int64(1), "A1").
					WillReturnRows(pgxmock.NewRows([]string{"is_booked", "enabled"}).AddRow(true, true))
			},
			want: ErrSeatTaken,
			kind: domain.ErrSeatConflict,
		},
		{
			name: "pinned seat disabled",
			seat: "A1",
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT ts.is_booked").
					WithArgs(int64(1), "A1").
					WillReturnRows(pgxmock.NewRows([]string{"is_booked", "enabled"}).AddRow(false, false))
			},
			want: ErrSeatDisabled,
			kind: domain.ErrInvalidState,
		},
		{
			name: "unknown seat",
			seat: "Z9",
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT ts.is_booked").
					WithArgs(int64(1), "Z9").
					WillReturnRows(pgxmock.NewRows([]string{"is_booked", "enabled"}))
			},
			want: ErrSeatNotFound,
			kind: domain.ErrNotFound,
		},
		{
			name: "active ticket exists",
			seat: "A1",
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT ts.is_booked").
					WithArgs(int64(1), "A1").
					WillReturnRows(pgxmock.NewRows([]string{"is_booked", "enabled"}).AddRow(false, true))
				m.ExpectExec("INSERT INTO tickets").
					WithArgs(insertArgs("A1", 1500)...).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "tickets_active_seat_key"})
			},
			want: ErrSeatTaken,
			kind: domain.ErrSeatConflict,
		},
		{
			name: "claim lost",
			seat: "A1",
			expect: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT ts.is_booked").
					WithArgs(int64(1), "A1").
					WillReturnRows(pgxmock.NewRows([]string{"is_booked", "enabled"}).AddRow(false, true))
				m.ExpectExec("INSERT INTO tickets").
					WithArgs(insertArgs("A1", 1500)...).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				m.ExpectExec("SET is_booked = true").
					WithArgs(int64(1), "A1", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			want: ErrSeatTaken,
			kind: domain.ErrSeatConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := newService(t, Config{})

			mock.ExpectBeginTx(txOpts)
			expectTarget(mock, domain.TripUpcoming)
			tt.expect(mock)
			mock.ExpectRollback()

			req := request()
			req.SeatNumber = tt.seat

			ticket, created, err := svc.Book(context.Background(), req)
			assert.Nil(t, ticket)
			assert.False(t, created)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.kind, domain.Kind(err))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookClosedTrip(t *testing.T) {
	for _, status := range []domain.TripStatus{domain.TripOngoing, domain.TripCompleted, domain.TripCancelled} {
		t.Run(string(status), func(t *testing.T) {
			svc, mock := newService(t, Config{})

			mock.ExpectBeginTx(txOpts)
			expectTarget(mock, status)
			mock.ExpectRollback()

			_, _, err := svc.Book(context.Background(), request())
			assert.ErrorIs(t, err, ErrTripNotBookable)
			assert.ErrorIs(t, err, domain.ErrInvalidState)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookUnknownTrip(t *testing.T) {
	svc, mock := newService(t, Config{})

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("SELECT t.status, vt.price_cents").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"status", "price_cents"}))
	mock.ExpectRollback()

	_, _, err := svc.Book(context.Background(), request())
	assert.ErrorIs(t, err, ErrTripNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRouteOrder(t *testing.T) {
	svc, mock := newService(t, Config{})

	mock.ExpectBeginTx(txOpts)
	expectTarget(mock, domain.TripUpcoming)
	mock.ExpectRollback()

	req := request()
	req.PickupStopID, req.DropoffStopID = dropoff, pickup

	_, _, err := svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookIdempotentReplay(t *testing.T) {
	svc, mock := newService(t, Config{})
	prev := uuid.New()

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("WHERE buyer_id = \\$1 AND idempotency_key = \\$2").
		WithArgs(int64(7), "key-1").
		WillReturnRows(ticketRow(prev, 1, domain.TicketBooked, fixed.Add(time.Minute)))
	mock.ExpectCommit()

	req := request()
	req.IdempotencyKey = "key-1"

	ticket, created, err := svc.Book(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, prev, ticket.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookIdempotencyKeyReusedForOtherTrip(t *testing.T) {
	svc, mock := newService(t, Config{})

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("idempotency_key = ").
		WithArgs(int64(7), "key-1").
		WillReturnRows(ticketRow(uuid.New(), 2, domain.TicketBooked, fixed))
	mock.ExpectRollback()

	req := request()
	req.IdempotencyKey = "key-1"

	_, _, err := svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrIdempotencyReuse)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRetriesThenGivesUp(t *testing.T) {
	svc, mock := newService(t, Config{MaxRetries: 1})

	for range 2 {
		mock.ExpectBeginTx(txOpts)
		expectTarget(mock, domain.TripUpcoming)
		mock.ExpectQuery("SELECT ts.is_booked").
			WithArgs(int64(1), "A1").
			WillReturnRows(pgxmock.NewRows([]string{"is_booked", "enabled"}).AddRow(false, true))
		mock.ExpectExec("INSERT INTO tickets").
			WithArgs(insertArgs("A1", 1500)...).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("SET is_booked = true").
			WithArgs(int64(1), "A1", pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "40001"})
		mock.ExpectRollback()
	}

	req := request()
	req.SeatNumber = "A1"

	_, _, err := svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.ErrorIs(t, err, repository.ErrRetryExhausted)
	assert.Equal(t, domain.ErrSeatConflict, domain.Kind(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookTimeout(t *testing.T) {
	svc, mock := newService(t, Config{Timeout: 20 * time.Millisecond})

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("SELECT t.status, vt.price_cents").
		WithArgs(int64(1)).
		WillDelayFor(time.Second).
		WillReturnRows(pgxmock.NewRows([]string{"status", "price_cents"}).AddRow("upcoming", int64(1)))
	mock.ExpectRollback()

	_, _, err := svc.Book(context.Background(), request())
	assert.ErrorIs(t, err, ErrBookingTimeout)
	assert.Equal(t, domain.ErrTimeout, domain.Kind(err))
}

func TestBookValidation(t *testing.T) {
	svc, mock := newService(t, Config{})

	tests := []struct {
		name   string
		mutate func(*BookRequest)
	}{
		{"no trip", func(r *BookRequest) { r.TripID = 0 }},
		{"no buyer", func(r *BookRequest) { r.Buyer.ID = 0 }},
		{"blank name", func(r *BookRequest) { r.Buyer.Name = "  " }},
		{"same stops", func(r *BookRequest) { r.DropoffStopID = r.PickupStopID }},
		{"missing stop", func(r *BookRequest) { r.PickupStopID = 0 }},
		{"negative price", func(r *BookRequest) { r.PriceCents = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request()
			tt.mutate(&req)
			_, _, err := svc.Book(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	svc, mock := newService(t, Config{})
	svc.limiter = redisrepo.NewSlidingWindowLimiter(rdb, "book", 0, time.Minute)

	req := request()
	req.RateKey = "ip:10.0.0.1"

	_, _, err := svc.Book(context.Background(), req)

	var rl RateLimitedError
	require.ErrorAs(t, err, &rl)
	assert.Greater(t, rl.RetryAfter, time.Duration(0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel(t *testing.T) {
	svc, mock := newService(t, Config{})
	id := uuid.New()

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(id).
		WillReturnRows(ticketRow(id, 1, domain.TicketBooked, fixed))
	mock.ExpectExec("UPDATE tickets").
		WithArgs(id, "booked", "cancelled").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("SET is_booked = false").
		WithArgs(int64(1), "A1", id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	ticket, err := svc.Cancel(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketCancelled, ticket.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelTwice(t *testing.T) {
	svc, mock := newService(t, Config{})
	id := uuid.New()

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(id).
		WillReturnRows(ticketRow(id, 1, domain.TicketCancelled, fixed))
	mock.ExpectRollback()

	_, err := svc.Cancel(context.Background(), id)

	var state TicketStateError
	require.ErrorAs(t, err, &state)
	assert.Equal(t, domain.TicketCancelled, state.Status)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelUnknownTicket(t *testing.T) {
	svc, mock := newService(t, Config{})

	id := uuid.New()

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(ticketCols))
	mock.ExpectRollback()

	_, err := svc.Cancel(context.Background(), id)
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelSeatLinkLost(t *testing.T) {
	svc, mock := newService(t, Config{})
	id := uuid.New()

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(id).
		WillReturnRows(ticketRow(id, 1, domain.TicketBooked, fixed))
	mock.ExpectExec("UPDATE tickets").
		WithArgs(id, "booked", "cancelled").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("SET is_booked = false").
		WithArgs(int64(1), "A1", id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	_, err := svc.Cancel(context.Background(), id)
	assert.ErrorIs(t, err, ErrSeatLinkLost)
	assert.Equal(t, domain.ErrConflict, domain.Kind(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteAndRefund(t *testing.T) {
	svc, mock := newService(t, Config{})
	id := uuid.New()

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(id).
		WillReturnRows(ticketRow(id, 1, domain.TicketBooked, fixed))
	mock.ExpectQuery("FROM payments").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("UPDATE tickets").
		WithArgs(id, "booked", "completed").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(id).
		WillReturnRows(ticketRow(id, 1, domain.TicketCompleted, fixed))
	mock.ExpectExec("UPDATE tickets").
		WithArgs(id, "completed", "refunded").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	completed, err := svc.Complete(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketCompleted, completed.Status)

	refunded, err := svc.Refund(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketRefunded, refunded.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteUnpaidTicket(t *testing.T) {
	svc, mock := newService(t, Config{})
	id := uuid.New()

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(id).
		WillReturnRows(ticketRow(id, 1, domain.TicketBooked, fixed))
	mock.ExpectQuery("FROM payments").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	ticket, err := svc.Complete(context.Background(), id)
	assert.Nil(t, ticket)
	assert.ErrorIs(t, err, ErrTicketUnpaid)
	assert.Equal(t, domain.ErrInvalidState, domain.Kind(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundBookedTicket(t *testing.T) {
	svc, mock := newService(t, Config{})
	id := uuid.New()

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(id).
		WillReturnRows(ticketRow(id, 1, domain.TicketBooked, fixed))
	mock.ExpectRollback()

	_, err := svc.Refund(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.EqualError(t, err, "service.booking.Refund:cannot refund a booked ticket")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPayment(t *testing.T) {
	svc, mock := newService(t, Config{})
	id := uuid.New()

	_, err := svc.RecordPayment(context.Background(), id, 0, "cash")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.RecordPayment(context.Background(), id, 100, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(id).
		WillReturnRows(ticketRow(id, 1, domain.TicketBooked, fixed))
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(pgxmock.AnyArg(), id, int64(1500), "card", fixed).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	p, err := svc.RecordPayment(context.Background(), id, 1500, "card")
	require.NoError(t, err)
	assert.Equal(t, id, p.TicketID)
	assert.Equal(t, fixed, p.PaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseUnpaid(t *testing.T) {
	svc, mock := newService(t, Config{ReleaseBatch: 10})
	expired, paid := uuid.New(), uuid.New()

	mock.ExpectQuery("FROM tickets t").
		WithArgs(fixed, 10).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(expired).AddRow(paid))

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(expired).
		WillReturnRows(ticketRow(expired, 1, domain.TicketBooked, fixed.Add(-time.Minute)))
	mock.ExpectQuery("FROM payments").
		WithArgs(expired).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(expired).
		WillReturnRows(ticketRow(expired, 1, domain.TicketBooked, fixed.Add(-time.Minute)))
	mock.ExpectExec("UPDATE tickets").
		WithArgs(expired, "booked", "cancelled").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("SET is_booked = false").
		WithArgs(int64(1), "A1", expired).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	mock.ExpectBeginTx(txOpts)
	mock.ExpectQuery("FROM tickets WHERE id").
		WithArgs(paid).
		WillReturnRows(ticketRow(paid, 1, domain.TicketBooked, fixed.Add(-time.Minute)))
	mock.ExpectQuery("FROM payments").
		WithArgs(paid).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectCommit()

	n, err := svc.ReleaseUnpaid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckRoute(t *testing.T) {
	stops := []domain.Stop{{ID: 1, Seq: 1}, {ID: 2, Seq: 2}, {ID: 3, Seq: 3}}

	assert.NoError(t, checkRoute(stops, 1, 3))
	assert.NoError(t, checkRoute(stops, 2, 3))
	assert.ErrorIs(t, checkRoute(stops, 3, 1), domain.ErrInvalidInput)
	assert.ErrorIs(t, checkRoute(stops, 9, 1), domain.ErrInvalidInput)
	assert.ErrorIs(t, checkRoute(stops, 1, 9), domain.ErrInvalidInput)
}
