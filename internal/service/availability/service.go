package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kirinyoku/busseat-go/internal/domain"
	"github.com/kirinyoku/busseat-go/internal/repository"
	postgresrepo "github.com/kirinyoku/busseat-go/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/busseat-go/internal/repository/redis"
)

type Config struct {
	CacheTTL time.Duration
}

// Service answers occupancy questions. It never writes to the store.
type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 15 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// ForVehicleType counts enabled against disabled template seats.
//
// Parameters:
//   - ctx: request-scoped context.
//   - vehicleTypeID: the vehicle type.
//
// Returns:
//   - domain.Availability: enabled seats as available.
//   - error: availability.ErrVehicleTypeNotFound if the type does not exist.
func (s *Service) ForVehicleType(ctx context.Context, vehicleTypeID int64) (domain.Availability, error) {
	const op = "service.availability.ForVehicleType"

	a, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyVehicleTypeAvailability(vehicleTypeID),
		s.cfg.CacheTTL,
		func(ctx context.Context) (domain.Availability, error) {
			return s.store.Query().TemplateCounts(ctx, vehicleTypeID)
		},
	)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Availability{}, fmt.Errorf("%s:%w", op, ErrVehicleTypeNotFound)
		}

		return domain.Availability{}, fmt.Errorf("%s:%w", op, err)
	}

	return a, nil
}

// ForTrip counts free against booked seats of a trip.
//
// Parameters:
//   - ctx: request-scoped context.
//   - tripID: the trip.
//
// Returns:
//   - domain.Availability: free seats as available, rate 0 for an empty trip.
//   - error: availability.ErrTripNotFound if the trip does not exist.
func (s *Service) ForTrip(ctx context.Context, tripID int64) (domain.Availability, error) {
	const op = "service.availability.ForTrip"

	a, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyTripAvailability(tripID),
		s.cfg.CacheTTL,
		func(ctx context.Context) (domain.Availability, error) {
			return s.store.Query().TripCounts(ctx, tripID)
		},
	)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Availability{}, fmt.Errorf("%s:%w", op, ErrTripNotFound)
		}

		return domain.Availability{}, fmt.Errorf("%s:%w", op, err)
	}

	return a, nil
}

// ListTripSeats returns the seat map of a trip in layout order. The full map
// is cached; the free-only view is filtered from it.
func (s *Service) ListTripSeats(ctx context.Context, tripID int64, onlyAvailable bool) ([]domain.TripSeat, error) {
	const op = "service.availability.ListTripSeats"

	seats, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyTripSeatMap(tripID),
		s.cfg.CacheTTL,
		func(ctx context.Context) ([]domain.TripSeat, error) {
			if _, err := s.store.Trips().GetTrip(ctx, tripID); err != nil {
				return nil, err
			}

			seats, err := s.store.Query().ListTripSeats(ctx, tripID, false)
			if err != nil {
				return nil, err
			}

			if seats == nil {
				seats = []domain.TripSeat{}
			}

			return seats, nil
		},
	)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrTripNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if !onlyAvailable {
		return seats, nil
	}

	free := make([]domain.TripSeat, 0, len(seats))
	for _, seat := range seats {
		if !seat.IsBooked {
			free = append(free, seat)
		}
	}

	return free, nil
}
