package service

import (
	"github.com/kirinyoku/busseat-go/internal/layout"
	postgres "github.com/kirinyoku/busseat-go/internal/repository/postgres"
	redis "github.com/kirinyoku/busseat-go/internal/repository/redis"
	"github.com/kirinyoku/busseat-go/internal/service/availability"
	"github.com/kirinyoku/busseat-go/internal/service/booking"
	"github.com/kirinyoku/busseat-go/internal/service/fleet"
	"github.com/kirinyoku/busseat-go/internal/service/seats"
	"github.com/kirinyoku/busseat-go/internal/service/trips"
)

type Services struct {
	Fleet        *fleet.Service
	Seats        *seats.Service
	Trips        *trips.Service
	Booking      *booking.Service
	Availability *availability.Service
}

type Config struct {
	Booking      booking.Config
	Availability availability.Config
	Catalog      layout.Catalog
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redis.TripsPubSub,
	limiter *redis.SlidingWindowLimiter,
	cfg Config,
) *Services {
	return &Services{
		Fleet:        fleet.New(store, pubsub, cfg.Catalog),
		Seats:        seats.New(store, cache, pubsub),
		Trips:        trips.New(store, cache, pubsub),
		Booking:      booking.New(store, cache, pubsub, limiter, cfg.Booking),
		Availability: availability.New(store, cache, cfg.Availability),
	}
}
