package trips

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kirinyoku/busseat-go/internal/domain"
	"github.com/kirinyoku/busseat-go/internal/repository"
	postgresrepo "github.com/kirinyoku/busseat-go/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/busseat-go/internal/repository/redis"
	"github.com/kirinyoku/busseat-go/internal/uow"
)

// transitions lists the statuses a trip may move to from each status.
var transitions = map[domain.TripStatus][]domain.TripStatus{
	domain.TripUpcoming: {domain.TripOngoing, domain.TripDelayed, domain.TripCancelled},
	domain.TripDelayed:  {domain.TripOngoing, domain.TripCancelled},
	domain.TripOngoing:  {domain.TripCompleted},
}

// CanTransition reports whether a trip in status from may move to status to.
func CanTransition(from, to domain.TripStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisrepo.TripsPubSub
	uow    *uow.UoW
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.TripsPubSub,
) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		uow:    uow.NewUoW(store),
	}
}

type StopInput struct {
	Location  string
	ArrivesAt time.Time
	DepartsAt time.Time
}

type CreateTripInput struct {
	VehicleID int64
	DepartsAt time.Time
	Stops     []StopInput
}

// CreateTrip schedules a trip with its ordered stops and instantiates its
// seat inventory from the vehicle type's template, atomically.
//
// Parameters:
//   - ctx: request-scoped context.
//   - in: vehicle, departure time and at least two stops in route order.
//
// Returns:
//   - *domain.Trip: the trip with its stops.
//   - int64: number of seats instantiated.
//   - error: domain.InvalidInputError for an invalid route.
//   - error: trips.ErrVehicleNotFound if the vehicle does not exist.
func (s *Service) CreateTrip(ctx context.Context, in CreateTripInput) (*domain.Trip, int64, error) {
	const op = "service.trips.CreateTrip"

	stops, err := validateRoute(in)
	if err != nil {
		return nil, 0, fmt.Errorf("%s:%w", op, err)
	}

	var (
		trip  *domain.Trip
		seats int64
	)

	err = s.do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		if _, err := s.store.Fleet().With(tx).GetVehicle(ctx, in.VehicleID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrVehicleNotFound
			}

			return err
		}

		repo := s.store.Trips().With(tx)

		id, err := repo.CreateTrip(ctx, in.VehicleID, in.DepartsAt)
		if err != nil {
			return err
		}

		stored, err := repo.AddStops(ctx, id, stops)
		if err != nil {
			return err
		}

		n, err := instantiate(ctx, repo, id)
		if err != nil {
			return err
		}

		trip = &domain.Trip{
			ID:        id,
			VehicleID: in.VehicleID,
			Status:    domain.TripUpcoming,
			DepartsAt: in.DepartsAt,
			Stops:     stored,
		}
		seats = n

		after(s.tripChanged(id))

		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%s:%w", op, err)
	}

	return trip, seats, nil
}

// Instantiate copies the vehicle type's template into the trip's inventory.
// It succeeds once per trip, even when the template was empty at the time.
//
// Returns:
//   - int64: number of seats created.
//   - error: trips.ErrTripNotFound if the trip does not exist.
//   - error: trips.ErrAlreadyInstantiated if the trip was instantiated before.
func (s *Service) Instantiate(ctx context.Context, tripID int64) (int64, error) {
	const op = "service.trips.Instantiate"

	var seats int64

	err := s.do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		repo := s.store.Trips().With(tx)

		if _, err := repo.GetTrip(ctx, tripID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTripNotFound
			}

			return err
		}

		n, err := instantiate(ctx, repo, tripID)
		if err != nil {
			return err
		}

		seats = n

		after(s.tripChanged(tripID))

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, err)
	}

	return seats, nil
}

func (s *Service) Get(ctx context.Context, tripID int64) (*domain.Trip, error) {
	const op = "service.trips.Get"

	repo := s.store.Trips()

	trip, err := repo.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrTripNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	stops, err := repo.ListStops(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	trip.Stops = stops

	return trip, nil
}

// SetStatus moves a trip along its lifecycle. Completing a trip completes
// every paid ticket still booked on it and cancels the unpaid ones.
//
// Returns:
//   - *domain.Trip: the trip after the change, without stops.
//   - error: trips.ErrTripNotFound if the trip does not exist.
//   - error: trips.TransitionError if the move is not allowed.
//   - error: trips.ErrStatusChanged if another writer moved the trip first.
func (s *Service) SetStatus(ctx context.Context, tripID int64, to domain.TripStatus) (*domain.Trip, error) {
	const op = "service.trips.SetStatus"

	if !to.Valid() {
		return nil, fmt.Errorf("%s:%w", op, domain.InvalidInputError{Field: "status", Msg: fmt.Sprintf("unknown status %q", to)})
	}

	var trip *domain.Trip

	err := s.do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		repo := s.store.Trips().With(tx)

		t, err := repo.GetTrip(ctx, tripID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTripNotFound
			}

			return err
		}

		if !CanTransition(t.Status, to) {
			return TransitionError{From: t.Status, To: to}
		}

		if err := repo.SetStatus(ctx, tripID, t.Status, to); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrStatusChanged
			}

			return err
		}

		if to == domain.TripCompleted {
			bookings := s.store.Bookings().With(tx)

			if _, err := bookings.CompleteBooked(ctx, tripID); err != nil {
				return err
			}

			if _, err := bookings.CancelUnpaidOnTrip(ctx, tripID); err != nil {
				return err
			}
		}

		t.Status = to
		trip = t

		after(s.tripChanged(tripID))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return trip, nil
}

func (s *Service) do(
	ctx context.Context,
	fn func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error,
) error {
	err := s.uow.Do(ctx, fn)
	if errors.Is(err, repository.ErrRetryExhausted) {
		return fmt.Errorf("%w: %w", ErrContention, err)
	}

	return err
}

// instantiate marks the trip and copies the template into its inventory. The
// mark makes a second call fail even when the first one created no seats.
func instantiate(ctx context.Context, repo *postgresrepo.TripRepo, tripID int64) (int64, error) {
	if err := repo.MarkSeatsInstantiated(ctx, tripID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, ErrAlreadyInstantiated
		}

		return 0, err
	}

	return repo.InitTripSeats(ctx, tripID)
}

func (s *Service) tripChanged(tripID int64) uow.AfterCommit {
	return func(ctx context.Context) {
		_ = s.cache.InvalidateTrip(ctx, tripID)
		_ = s.pubsub.PublishTripChanged(ctx, tripID)
	}
}

// validateRoute checks the stop sequence and returns it as domain stops.
func validateRoute(in CreateTripInput) ([]domain.Stop, error) {
	if in.VehicleID <= 0 {
		return nil, domain.InvalidInputError{Field: "vehicle_id", Msg: "must be positive"}
	}

	if in.DepartsAt.IsZero() {
		return nil, domain.InvalidInputError{Field: "departs_at", Msg: "is required"}
	}

	if len(in.Stops) < 2 {
		return nil, domain.InvalidInputError{Field: "stops", Msg: "a trip needs at least two stops"}
	}

	stops := make([]domain.Stop, len(in.Stops))
	for i, st := range in.Stops {
		loc := strings.TrimSpace(st.Location)
		if loc == "" {
			return nil, domain.InvalidInputError{Field: "stops", Msg: fmt.Sprintf("stop %d: location is required", i+1)}
		}

		if st.DepartsAt.Before(st.ArrivesAt) {
			return nil, domain.InvalidInputError{Field: "stops", Msg: fmt.Sprintf("stop %d: departs before it arrives", i+1)}
		}

		if i > 0 && st.ArrivesAt.Before(in.Stops[i-1].DepartsAt) {
			return nil, domain.InvalidInputError{Field: "stops", Msg: fmt.Sprintf("stop %d: arrives before stop %d departs", i+1, i)}
		}

		stops[i] = domain.Stop{
			Seq:       i + 1,
			Location:  loc,
			ArrivesAt: st.ArrivesAt,
			DepartsAt: st.DepartsAt,
		}
	}

	return stops, nil
}
