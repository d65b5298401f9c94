package httpgin

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/busseat-go/internal/domain"
	redisrepo "github.com/kirinyoku/busseat-go/internal/repository/redis"
	"github.com/kirinyoku/busseat-go/internal/service"
	"github.com/kirinyoku/busseat-go/internal/service/booking"
)

const idemLockTTL = 30 * time.Second

// @Summary  Preview generated layout
// @Tags     layouts
// @Param    capacity  query  int  true  "Seat count (1..80)"
// @Success  200 {object} LayoutPreviewResponse
// @Failure  400 {object} ErrorResponse
// @Router   /layouts/preview [get]
func handlePreviewLayout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		capacity := parseIntDefault(c.Query("capacity"), 0)
		tmpl, seats, err := svcs.Fleet.PreviewLayout(capacity)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, LayoutPreviewResponse{
			Template: tmpl.Name,
			Capacity: capacity,
			Seats:    seats,
		}, "public, max-age=3600", false)
	}
}

// @Summary  Get trip with stops
// @Tags     trips
// @Param    id  path  int  true  "Trip ID"
// @Success  200 {object} domain.Trip
// @Failure  404 {object} ErrorResponse
// @Router   /trips/{id} [get]
func handleGetTrip(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		trip, err := svcs.Trips.Get(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, trip, "public, max-age=60", true)
	}
}

// @Summary  Trip availability (free vs booked)
// @Tags     trips
// @Param    id  path  int  true  "Trip ID"
// @Success  200 {object} domain.Availability
// @Router   /trips/{id}/availability [get]
func handleTripAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		a, err := svcs.Availability.ForTrip(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, a, "public, max-age=15", true)
	}
}

// @Summary  Trip seat map
// @Tags     trips
// @Param    id    path   int     true  "Trip ID"
// @Param    only  query  string  false "available"
// @Success  200 {array} domain.TripSeat
// @Router   /trips/{id}/seats [get]
func handleListTripSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		onlyAvailable := c.Query("only") == "available" || c.Query("only_available") == "true"
		seats, err := svcs.Availability.ListTripSeats(c.Request.Context(), id, onlyAvailable)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, seats, "public, max-age=15", true)
	}
}

// @Summary  Book a seat (idempotent)
// @Tags     tickets
// @Param    id               path    int     true   "Trip ID"
// @Param    X-Buyer-ID       header  int     true   "Buyer ID"
// @Param    X-Buyer-Name     header  string  true   "Buyer name"
// @Param    X-Buyer-Contact  header  string  false  "Buyer contact"
// @Param    Idempotency-Key  header  string  false  "Client retry token"
// @Param    req body  BookTicketRequest true "payload; empty seat_number takes the lowest free seat"
// @Success  201 {object} domain.Ticket
// @Success  200 {object} domain.Ticket "replayed"
// @Failure  409 {object} ErrorResponse "seat taken / idempotency key in progress"
// @Failure  422 {object} ErrorResponse "trip closed or seat disabled"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Failure  504 {object} ErrorResponse "booking deadline exceeded"
// @Router   /trips/{id}/tickets [post]
func handleBookTicket(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		buyer, ok := buyerFromHeaders(c)
		if !ok {
			return
		}
		var req BookTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		ctx := c.Request.Context()

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemBooking(tripID, buyer.ID, idemKey)

			if replayStored(c, idem, idemStorageKey, idemKey) {
				return
			}

			locked, err := idem.AcquireLock(ctx, idemStorageKey, idemLockTTL)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if replayStored(c, idem, idemStorageKey, idemKey) {
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{
					Error: "idempotency key in progress",
					Kind:  "conflict",
				})
				return
			}
		}

		ticket, created, err := svcs.Booking.Book(ctx, booking.BookRequest{
			TripID:         tripID,
			SeatNumber:     req.SeatNumber,
			Buyer:          buyer,
			PickupStopID:   req.PickupStopID,
			DropoffStopID:  req.DropoffStopID,
			PriceCents:     req.PriceCents,
			IdempotencyKey: idemKey,
			RateKey:        "ip:" + c.ClientIP(),
		})
		if err != nil {
			if idemStorageKey != "" {
				_ = idem.Release(context.WithoutCancel(ctx), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		status := http.StatusCreated
		if !created {
			status = http.StatusOK
		}

		b, err := json.Marshal(ticket)
		if err != nil {
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" {
			_ = idem.SaveResult(context.WithoutCancel(ctx), idemStorageKey, status, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.Data(status, "application/json; charset=utf-8", b)
	}
}

// replayStored writes a previously stored booking response, if there is one.
func replayStored(c *gin.Context, idem *redisrepo.IdempotencyStore, storageKey, idemKey string) bool {
	status, payload, ok, err := idem.GetResult(c.Request.Context(), storageKey)
	if err != nil || !ok {
		return false
	}
	c.Header("Idempotency-Key", idemKey)
	c.Header("Idempotent-Replayed", "true")
	c.Data(status, "application/json; charset=utf-8", []byte(payload))
	return true
}

// @Summary  Get ticket
// @Tags     tickets
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Success  200 {object} domain.Ticket
// @Failure  404 {object} ErrorResponse
// @Router   /tickets/{id} [get]
func handleGetTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		t, err := svcs.Booking.Get(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Cancel a booked ticket and free its seat
// @Tags     tickets
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Success  200 {object} domain.Ticket
// @Failure  422 {object} ErrorResponse "ticket not booked"
// @Router   /tickets/{id}/cancel [post]
func handleCancelTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		t, err := svcs.Booking.Cancel(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Complete a booked ticket
// @Tags     tickets
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Success  200 {object} domain.Ticket
// @Failure  422 {object} ErrorResponse
// @Router   /tickets/{id}/complete [post]
func handleCompleteTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		t, err := svcs.Booking.Complete(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Refund a completed ticket
// @Tags     tickets
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Success  200 {object} domain.Ticket
// @Failure  422 {object} ErrorResponse
// @Router   /tickets/{id}/refund [post]
func handleRefundTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		t, err := svcs.Booking.Refund(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Record a payment for a ticket
// @Tags     tickets
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Param    req body  RecordPaymentRequest true "payload"
// @Success  201 {object} domain.Payment
// @Router   /tickets/{id}/payments [post]
func handleRecordPayment(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req RecordPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		p, err := svcs.Booking.RecordPayment(c.Request.Context(), id, req.AmountCents, req.Method)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// buyerFromHeaders reads the buyer the auth gateway put on the request.
func buyerFromHeaders(c *gin.Context) (domain.Buyer, bool) {
	id, err := strconv.ParseInt(c.GetHeader("X-Buyer-ID"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "missing or invalid X-Buyer-ID")
		return domain.Buyer{}, false
	}

	name := strings.TrimSpace(c.GetHeader("X-Buyer-Name"))
	if name == "" {
		badRequest(c, "missing X-Buyer-Name")
		return domain.Buyer{}, false
	}

	return domain.Buyer{
		ID:      id,
		Name:    name,
		Contact: strings.TrimSpace(c.GetHeader("X-Buyer-Contact")),
	}, true
}
