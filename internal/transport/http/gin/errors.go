package httpgin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/busseat-go/internal/domain"
	"github.com/kirinyoku/busseat-go/internal/service/booking"
)

type errorKind struct {
	err    error
	status int
	name   string
}

// kinds is ordered: a seat conflict also reads as a conflict to callers that
// only know the broader kind.
var kinds = []errorKind{
	{domain.ErrSeatConflict, http.StatusConflict, "seat_conflict"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{domain.ErrConflict, http.StatusConflict, "conflict"},
	{domain.ErrInvalidState, http.StatusUnprocessableEntity, "invalid_state"},
	{domain.ErrTimeout, http.StatusGatewayTimeout, "timeout"},
}

// respondErr writes the HTTP rendering of a service error. Errors without a
// kind are recorded on the context for the logging middleware and answered
// with a generic 500.
func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var rl booking.RateLimitedError
	if errors.As(err, &rl) {
		c.Header("Retry-After", retryAfterSeconds(rl))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: rl.Error(), Kind: "rate_limited"})
		return
	}

	for _, k := range kinds {
		if errors.Is(err, k.err) {
			c.JSON(k.status, ErrorResponse{
				Error:   publicMessage(err, k.err),
				Kind:    k.name,
				Details: details(err),
			})
			return
		}
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// publicMessage drops the operation prefixes services add while wrapping and
// keeps the innermost descriptive error.
func publicMessage(err, kind error) string {
	var (
		inv   domain.InvalidInputError
		seats domain.SeatNumbersConflictError
		busy  domain.ActiveBookingsError
	)

	switch {
	case errors.As(err, &inv):
		return inv.Error()
	case errors.As(err, &seats):
		return seats.Error()
	case errors.As(err, &busy):
		return busy.Error()
	}

	// The sentinel a service wrapped around the kind carries the useful text.
	for e := err; e != nil; e = errors.Unwrap(e) {
		if next := errors.Unwrap(e); next == kind {
			return e.Error()
		}
	}

	return kind.Error()
}

func details(err error) []string {
	var seats domain.SeatNumbersConflictError
	if errors.As(err, &seats) {
		return seats.SeatNumbers
	}

	var busy domain.ActiveBookingsError
	if errors.As(err, &busy) {
		return busy.SeatNumbers
	}

	return nil
}

func retryAfterSeconds(rl booking.RateLimitedError) string {
	secs := int(rl.RetryAfter.Seconds())
	if rl.RetryAfter > 0 && secs == 0 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
