package httpgin

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	redisrepo "github.com/kirinyoku/busseat-go/internal/repository/redis"
	"github.com/kirinyoku/busseat-go/internal/service"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(logger), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/layouts/preview", handlePreviewLayout(svcs))

	r.GET("/trips/:id", handleGetTrip(svcs))
	r.GET("/trips/:id/availability", handleTripAvailability(svcs))
	r.GET("/trips/:id/seats", handleListTripSeats(svcs))
	r.POST("/trips/:id/tickets", handleBookTicket(svcs, idem))

	r.GET("/tickets/:id", handleGetTicket(svcs))
	r.POST("/tickets/:id/cancel", handleCancelTicket(svcs))
	r.POST("/tickets/:id/complete", handleCompleteTicket(svcs))
	r.POST("/tickets/:id/refund", handleRefundTicket(svcs))
	r.POST("/tickets/:id/payments", handleRecordPayment(svcs))

	// Admin API, expected behind the operator gateway.
	admin := r.Group("/admin")
	{
		admin.POST("/vehicle-types", handleCreateVehicleType(svcs))
		admin.GET("/vehicle-types/:id", handleGetVehicleType(svcs))
		admin.GET("/vehicle-types/:id/seats", handleListSeats(svcs))
		admin.POST("/vehicle-types/:id/seats", handleCreateSeats(svcs))
		admin.PUT("/vehicle-types/:id/seats/enabled", handleSetEnabledBulk(svcs))
		admin.GET("/vehicle-types/:id/availability", handleVehicleTypeAvailability(svcs))

		admin.PATCH("/seats", handleUpdateSeats(svcs))
		admin.DELETE("/seats", handleDeleteSeats(svcs))
		admin.PUT("/seats/:id/enabled", handleSetEnabled(svcs))

		admin.POST("/vehicles", handleCreateVehicle(svcs))

		admin.POST("/trips", handleCreateTrip(svcs))
		admin.POST("/trips/:id/seats", handleInstantiateTrip(svcs))
		admin.PUT("/trips/:id/status", handleSetTripStatus(svcs))
	}

	return r
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	v, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Kind: "invalid_input"})
}
