package httpgin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/busseat-go/internal/domain"
	"github.com/kirinyoku/busseat-go/internal/repository"
	postgresrepo "github.com/kirinyoku/busseat-go/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/busseat-go/internal/repository/redis"
	"github.com/kirinyoku/busseat-go/internal/service"
	"github.com/kirinyoku/busseat-go/internal/service/booking"
	"github.com/kirinyoku/busseat-go/internal/service/fleet"
	"github.com/kirinyoku/busseat-go/internal/service/seats"
	"github.com/kirinyoku/busseat-go/internal/service/trips"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router http.Handler
	mock   pgxmock.PgxPoolIface
	mr     *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	svcs := service.NewServices(postgresrepo.NewStore(mock), redisrepo.New(rdb), nil, nil, service.Config{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testServer{
		router: NewRouter(svcs, redisrepo.NewIdempotencyStore(rdb, time.Hour), logger),
		mock:   mock,
		mr:     mr,
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func bookRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/trips/1/tickets", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Buyer-ID", "7")
	req.Header.Set("X-Buyer-Name", "Ann")
	return req
}

const bookBody = `{"seat_number":"A1","pickup_stop_id":10,"dropoff_stop_id":11}`

var (
	txOpts     = pgx.TxOptions{IsoLevel: pgx.Serializable, AccessMode: pgx.ReadWrite}
	ticketCols = []string{
		"id", "trip_id", "seat_number", "buyer_id", "buyer_name", "buyer_contact",
		"pickup_stop_id", "dropoff_stop_id", "price_cents", "status",
		"idempotency_key", "payment_deadline", "created_at", "updated_at",
	}
)

// expectUnusedKey answers the ticket lookup by buyer 7 and key with no rows.
func (s *testServer) expectUnusedKey(key string) {
	s.mock.ExpectQuery("idempotency_key = ").
		WithArgs(int64(7), key).
		WillReturnRows(pgxmock.NewRows(ticketCols))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var out ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestPreviewLayout(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/layouts/preview?capacity=45", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var out LayoutPreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "standard", out.Template)
	assert.Len(t, out.Seats, 45)

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/layouts/preview?capacity=45", nil)
	req.Header.Set("If-None-Match", etag)
	rec = s.do(req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestPreviewLayoutBadCapacity(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(httptest.NewRequest(http.MethodGet, "/layouts/preview?capacity=81", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", decodeError(t, rec).Kind)
}

func TestBookRequiresBuyer(t *testing.T) {
	s := newTestServer(t)

	req := bookRequest(bookBody)
	req.Header.Del("X-Buyer-ID")
	rec := s.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error, "X-Buyer-ID")

	req = bookRequest(bookBody)
	req.Header.Set("X-Buyer-Name", " ")
	rec = s.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestBookBadPath(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/trips/abc/tickets", strings.NewReader(bookBody))
	rec := s.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookCreatesAndStoresResult(t *testing.T) {
	s := newTestServer(t)
	now := time.Now()

	key := "k1"

	s.mock.ExpectBeginTx(txOpts)
	s.expectUnusedKey(key)
	s.mock.ExpectQuery("SELECT t.status, vt.price_cents").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"status", "price_cents"}).AddRow("upcoming", int64(1500)))
	s.mock.ExpectQuery("FROM trip_stops").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "trip_id", "seq", "location", "arrives_at", "departs_at"}).
			AddRow(int64(10), int64(1), 1, "A", now, now).
			AddRow(int64(11), int64(1), 2, "B", now.Add(time.Hour), now.Add(time.Hour)))
	s.mock.ExpectQuery("SELECT ts.is_booked").
		WithArgs(int64(1), "A1").
		WillReturnRows(pgxmock.NewRows([]string{"is_booked", "enabled"}).AddRow(false, true))
	s.mock.ExpectExec("INSERT INTO tickets").
		WithArgs(
			pgxmock.AnyArg(), int64(1), "A1", int64(7), "Ann", "",
			int64(10), int64(11), int64(1500), "booked",
			&key, pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	s.mock.ExpectExec("SET is_booked = true").
		WithArgs(int64(1), "A1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	s.mock.ExpectCommit()

	req := bookRequest(bookBody)
	req.Header.Set("Idempotency-Key", "k1")
	rec := s.do(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var ticket domain.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ticket))
	assert.Equal(t, "A1", ticket.SeatNumber)
	assert.Equal(t, int64(1500), ticket.PriceCents)
	assert.Equal(t, "k1", rec.Header().Get("Idempotency-Key"))

	stored, err := s.mr.Get(redisrepo.KeyIdemBooking(1, 7, "k1"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, "RES:201:"))

	// The retry is answered from the stored result without a transaction.
	req = bookRequest(bookBody)
	req.Header.Set("Idempotency-Key", "k1")
	replay := s.do(req)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, rec.Body.String(), replay.Body.String())

	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestBookIdempotencyKeyInFlight(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.mr.Set(redisrepo.KeyIdemBooking(1, 7, "k2"), "LOCK"))

	req := bookRequest(bookBody)
	req.Header.Set("Idempotency-Key", "k2")
	rec := s.do(req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, "conflict", decodeError(t, rec).Kind)
}

func TestBookFailureReleasesIdempotencyKey(t *testing.T) {
	s := newTestServer(t)

	s.mock.ExpectBeginTx(txOpts)
	s.expectUnusedKey("k3")
	s.mock.ExpectQuery("SELECT t.status, vt.price_cents").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"status", "price_cents"}))
	s.mock.ExpectRollback()

	req := bookRequest(bookBody)
	req.Header.Set("Idempotency-Key", "k3")
	rec := s.do(req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "trip not found", decodeError(t, rec).Error)
	assert.False(t, s.mr.Exists(redisrepo.KeyIdemBooking(1, 7, "k3")))
	assert.NoError(t, s.mock.ExpectationsWereMet())
}

func TestTicketRoutesRejectBadID(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/tickets/nope", "/tickets/nope/cancel"} {
		method := http.MethodGet
		if strings.HasSuffix(path, "cancel") {
			method = http.MethodPost
		}
		rec := s.do(httptest.NewRequest(method, path, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestRespondErr(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		kind    string
		message string
	}{
		{"invalid input", fmt.Errorf("op:%w", domain.InvalidInputError{Field: "capacity", Msg: "too big"}), 400, "invalid_input", "capacity: too big"},
		{"not found", fmt.Errorf("op:%w", booking.ErrTripNotFound), 404, "not_found", "trip not found"},
		{"seat conflict", fmt.Errorf("op:%w", booking.ErrSeatTaken), 409, "seat_conflict", "booking: seat already taken"},
		{"conflict", fmt.Errorf("op:%w", domain.SeatNumbersConflictError{SeatNumbers: []string{"A1"}}), 409, "conflict", "duplicate seat numbers: A1"},
		{"invalid state", fmt.Errorf("op:%w", trips.TransitionError{From: "completed", To: "ongoing"}), 422, "invalid_state", "trip cannot move from completed to ongoing"},
		{"timeout", fmt.Errorf("op:%w", booking.ErrBookingTimeout), 504, "timeout", "booking deadline exceeded: timeout"},
		{"internal", errors.New("connection reset"), 500, "", "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			respondErr(c, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			out := decodeError(t, rec)
			assert.Equal(t, tt.kind, out.Kind)
			assert.Equal(t, tt.message, out.Error)
		})
	}
}

func TestRespondErrNeverHidesServiceErrors(t *testing.T) {
	exhausted := fmt.Errorf("%w: %w", repository.ErrRetryExhausted, errors.New("40001"))

	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"seat template contention", fmt.Errorf("%w: %w", seats.ErrContention, exhausted), 409, "conflict"},
		{"trip contention", fmt.Errorf("%w: %w", trips.ErrContention, exhausted), 409, "conflict"},
		{"fleet contention", fmt.Errorf("%w: %w", fleet.ErrContention, exhausted), 409, "conflict"},
		{"trip status race", trips.ErrStatusChanged, 409, "conflict"},
		{"seat link lost", booking.ErrSeatLinkLost, 409, "conflict"},
		{"unpaid ticket", booking.ErrTicketUnpaid, 422, "invalid_state"},
		{"renamed seat in use", seats.ErrSeatInUse, 409, "conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			respondErr(c, fmt.Errorf("op:%w", tt.err))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.kind, decodeError(t, rec).Kind)
			assert.Empty(t, c.Errors)
		})
	}
}

func TestRespondErrDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	respondErr(c, fmt.Errorf("op:%w", domain.ActiveBookingsError{SeatNumbers: []string{"A1", "B2"}}))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, []string{"A1", "B2"}, decodeError(t, rec).Details)
}

func TestRespondErrRateLimited(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	respondErr(c, fmt.Errorf("op:%w", booking.RateLimitedError{RetryAfter: 1500 * time.Millisecond}))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limited", decodeError(t, rec).Kind)
}

func TestRespondErrRecordsInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	respondErr(c, errors.New("boom"))

	require.Len(t, c.Errors, 1)
	assert.EqualError(t, c.Errors[0].Err, "boom")
}

func TestETagMatches(t *testing.T) {
	tag := etagFor([]byte(`{"a":1}`), true)
	strong := etagFor([]byte(`{"a":1}`), false)

	assert.True(t, strings.HasPrefix(tag, `W/"`))
	assert.True(t, etagMatches(tag, tag))
	assert.True(t, etagMatches(strong, tag))
	assert.True(t, etagMatches(`"other", `+tag, tag))
	assert.True(t, etagMatches("*", tag))
	assert.False(t, etagMatches("", tag))
	assert.False(t, etagMatches(`"other"`, tag))
}

func TestLoggingMiddlewareLevels(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestIDMiddleware(), LoggingMiddleware(logger))
	r.GET("/ok/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/busy", func(c *gin.Context) { c.Status(http.StatusTooManyRequests) })
	r.GET("/fail", func(c *gin.Context) { respondErr(c, errors.New("boom")) })

	tests := []struct {
		path  string
		level string
		route string
	}{
		{"/ok/7", "INFO", "/ok/:id"},
		{"/busy", "WARN", "/busy"},
		{"/fail", "ERROR", "/fail"},
		{"/nowhere", "INFO", "unmatched"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			buf.Reset()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("X-Buyer-ID", "42")
			r.ServeHTTP(httptest.NewRecorder(), req)

			var rec struct {
				Level string `json:"level"`
				HTTP  struct {
					Route     string `json:"route"`
					BuyerID   string `json:"buyer_id"`
					RequestID string `json:"request_id"`
				} `json:"http"`
			}
			require.NoError(t, json.Unmarshal([]byte(buf.String()), &rec))
			assert.Equal(t, tt.level, rec.Level)
			assert.Equal(t, tt.route, rec.HTTP.Route)
			assert.Equal(t, "42", rec.HTTP.BuyerID)
			assert.NotEmpty(t, rec.HTTP.RequestID)
		})
	}
}
