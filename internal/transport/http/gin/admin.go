package httpgin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/busseat-go/internal/domain"
	"github.com/kirinyoku/busseat-go/internal/service"
	"github.com/kirinyoku/busseat-go/internal/service/fleet"
	"github.com/kirinyoku/busseat-go/internal/service/trips"
)

// @Summary  Create vehicle type with generated seat template
// @Tags     admin
// @Param    req body  CreateVehicleTypeRequest true "payload"
// @Success  201 {object} CreateVehicleTypeResponse
// @Failure  400 {object} ErrorResponse "capacity out of range"
// @Failure  409 {object} ErrorResponse "name taken"
// @Router   /admin/vehicle-types [post]
func handleCreateVehicleType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateVehicleTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		vt, seats, err := svcs.Fleet.CreateVehicleType(c.Request.Context(), fleet.CreateVehicleTypeInput{
			Name:       req.Name,
			Capacity:   req.Capacity,
			PriceCents: req.PriceCents,
			Layout:     req.Layout,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateVehicleTypeResponse{VehicleType: vt, Seats: seats})
	}
}

// @Summary  Get vehicle type
// @Tags     admin
// @Param    id  path  int  true  "Vehicle type ID"
// @Success  200 {object} domain.VehicleType
// @Failure  404 {object} ErrorResponse
// @Router   /admin/vehicle-types/{id} [get]
func handleGetVehicleType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		vt, err := svcs.Fleet.GetVehicleType(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, vt)
	}
}

// @Summary  List seat template
// @Tags     admin
// @Param    id  path  int  true  "Vehicle type ID"
// @Success  200 {array} domain.SeatTemplateEntry
// @Router   /admin/vehicle-types/{id}/seats [get]
func handleListSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		entries, err := svcs.Seats.List(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		if entries == nil {
			entries = []domain.SeatTemplateEntry{}
		}
		c.JSON(http.StatusOK, entries)
	}
}

// @Summary  Add seats to a template (all or nothing)
// @Tags     admin
// @Param    id  path  int  true  "Vehicle type ID"
// @Param    req body  CreateSeatsRequest true "payload"
// @Success  201 {object} map[string]int
// @Failure  409 {object} ErrorResponse "duplicate seat numbers"
// @Router   /admin/vehicle-types/{id}/seats [post]
func handleCreateSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req CreateSeatsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		seats := make([]domain.SeatDescriptor, 0, len(req.Seats))
		for _, s := range req.Seats {
			seats = append(seats, domain.SeatDescriptor{
				SeatNumber: s.SeatNumber,
				Row:        s.Row,
				Column:     s.Column,
			})
		}
		if err := svcs.Seats.CreateMany(c.Request.Context(), id, seats); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"created": len(seats)})
	}
}

// @Summary  Rename or move template seats, one by one
// @Tags     admin
// @Param    req body  UpdateSeatsRequest true "payload"
// @Success  200 {object} domain.BatchResult[domain.SeatUpdate]
// @Router   /admin/seats [patch]
func handleUpdateSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateSeatsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := svcs.Seats.UpdateMany(c.Request.Context(), req.Updates)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary  Delete template seats, one by one
// @Tags     admin
// @Param    req body  DeleteSeatsRequest true "payload"
// @Success  200 {object} domain.BatchResult[int64]
// @Router   /admin/seats [delete]
func handleDeleteSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeleteSeatsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := svcs.Seats.DeleteMany(c.Request.Context(), req.IDs)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary  Enable or disable one template seat
// @Tags     admin
// @Param    id  path  int  true  "Seat template entry ID"
// @Param    req body  SetEnabledRequest true "payload"
// @Success  200 {object} domain.SeatTemplateEntry
// @Failure  409 {object} ErrorResponse "seat booked on an active trip"
// @Router   /admin/seats/{id}/enabled [put]
func handleSetEnabled(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req SetEnabledRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		e, err := svcs.Seats.SetEnabled(c.Request.Context(), id, *req.Enabled)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, e)
	}
}

// @Summary  Enable or disable many template seats
// @Tags     admin
// @Param    id  path  int  true  "Vehicle type ID"
// @Param    req body  SetEnabledBulkRequest true "payload; empty seat_numbers means all"
// @Success  200 {object} SetEnabledBulkResponse
// @Failure  409 {object} ErrorResponse "seats booked on active trips"
// @Router   /admin/vehicle-types/{id}/seats/enabled [put]
func handleSetEnabledBulk(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req SetEnabledBulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		n, err := svcs.Seats.SetEnabledBulk(c.Request.Context(), id, *req.Enabled, req.SeatNumbers)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, SetEnabledBulkResponse{Updated: n})
	}
}

// @Summary  Template availability (enabled vs disabled)
// @Tags     admin
// @Param    id  path  int  true  "Vehicle type ID"
// @Success  200 {object} domain.Availability
// @Router   /admin/vehicle-types/{id}/availability [get]
func handleVehicleTypeAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		a, err := svcs.Availability.ForVehicleType(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, a, "private, max-age=15", true)
	}
}

// @Summary  Register vehicle
// @Tags     admin
// @Param    req body  CreateVehicleRequest true "payload"
// @Success  201 {object} domain.Vehicle
// @Router   /admin/vehicles [post]
func handleCreateVehicle(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateVehicleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		v, err := svcs.Fleet.CreateVehicle(c.Request.Context(), req.LicensePlate, req.VehicleTypeID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, v)
	}
}

// @Summary  Create trip and instantiate its seats
// @Tags     admin
// @Param    req body  CreateTripRequest true "payload"
// @Success  201 {object} CreateTripResponse
// @Router   /admin/trips [post]
func handleCreateTrip(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTripRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		departs, err := parseRFC3339(req.DepartsAt)
		if err != nil {
			badRequest(c, "invalid departs_at (RFC3339)")
			return
		}
		stops := make([]trips.StopInput, 0, len(req.Stops))
		for i, s := range req.Stops {
			arr, err := parseRFC3339(s.ArrivesAt)
			if err != nil {
				badRequest(c, "invalid stops["+strconv.Itoa(i)+"].arrives_at (RFC3339)")
				return
			}
			dep, err := parseRFC3339(s.DepartsAt)
			if err != nil {
				badRequest(c, "invalid stops["+strconv.Itoa(i)+"].departs_at (RFC3339)")
				return
			}
			stops = append(stops, trips.StopInput{Location: s.Location, ArrivesAt: arr, DepartsAt: dep})
		}
		trip, seats, err := svcs.Trips.CreateTrip(c.Request.Context(), trips.CreateTripInput{
			VehicleID: req.VehicleID,
			DepartsAt: departs,
			Stops:     stops,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateTripResponse{Trip: trip, Seats: seats})
	}
}

// @Summary  Instantiate trip seats from the current template
// @Tags     admin
// @Param    id  path  int  true  "Trip ID"
// @Success  201 {object} InstantiateResponse
// @Failure  409 {object} ErrorResponse "already instantiated"
// @Router   /admin/trips/{id}/seats [post]
func handleInstantiateTrip(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		n, err := svcs.Trips.Instantiate(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, InstantiateResponse{Seats: n})
	}
}

// @Summary  Change trip status
// @Tags     admin
// @Param    id  path  int  true  "Trip ID"
// @Param    req body  SetTripStatusRequest true "payload"
// @Success  200 {object} domain.Trip
// @Failure  422 {object} ErrorResponse "transition not allowed"
// @Router   /admin/trips/{id}/status [put]
func handleSetTripStatus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req SetTripStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		trip, err := svcs.Trips.SetStatus(c.Request.Context(), id, domain.TripStatus(req.Status))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, trip)
	}
}
