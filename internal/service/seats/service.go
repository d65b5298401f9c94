package seats

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/kirinyoku/busseat-go/internal/domain"
	"github.com/kirinyoku/busseat-go/internal/repository"
	postgresrepo "github.com/kirinyoku/busseat-go/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/busseat-go/internal/repository/redis"
	"github.com/kirinyoku/busseat-go/internal/uow"
)

// Service manages the seat template of vehicle types.
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

// do runs fn in a unit of work and reports exhausted serialization retries
// as contention.
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

// CreateMany adds seats to a vehicle type's template. The batch is all or
// nothing: a seat number repeated inside the batch or already present in the
// template rejects every seat.
//
// Parameters:
//   - ctx: request-scoped context.
//   - vehicleTypeID: the template to extend.
//   - seats: seat number and grid position of each new seat.
//
// Returns:
//   - error: domain.InvalidInputError for an empty batch or a malformed seat.
//   - error: domain.SeatNumbersConflictError naming every colliding number.
//   - error: seats.ErrVehicleTypeNotFound if the vehicle type does not exist.
func (s *Service) CreateMany(ctx context.Context, vehicleTypeID int64, seats []domain.SeatDescriptor) error {
	const op = "service.seats.CreateMany"

	if len(seats) == 0 {
		return fmt.Errorf("%s:%w", op, domain.InvalidInputError{Field: "seats", Msg: "must not be empty"})
	}

	normalized := make([]domain.SeatDescriptor, len(seats))
	numbers := make([]string, len(seats))
	for i, seat := range seats {
		seat.SeatNumber = strings.TrimSpace(seat.SeatNumber)
		if err := validateSeat(seat); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}
		normalized[i] = seat
		numbers[i] = seat.SeatNumber
	}

	if dups := duplicates(numbers); len(dups) > 0 {
		return fmt.Errorf("%s:%w", op, domain.SeatNumbersConflictError{SeatNumbers: dups})
	}

	err := s.do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		if _, err := s.store.Fleet().With(tx).GetVehicleType(ctx, vehicleTypeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrVehicleTypeNotFound
			}

			return err
		}

		repo := s.store.SeatTemplates().With(tx)

		existing, err := repo.ExistingNumbers(ctx, vehicleTypeID, numbers)
		if err != nil {
			return err
		}

		if len(existing) > 0 {
			return domain.SeatNumbersConflictError{SeatNumbers: existing}
		}

		if err := repo.BatchInsert(ctx, vehicleTypeID, normalized); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return domain.SeatNumbersConflictError{SeatNumbers: numbers}
			}

			return err
		}

		after(s.templateChanged(vehicleTypeID))

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// Create adds a single seat. It is CreateMany with a batch of one.
func (s *Service) Create(ctx context.Context, vehicleTypeID int64, seat domain.SeatDescriptor) error {
	return s.CreateMany(ctx, vehicleTypeID, []domain.SeatDescriptor{seat})
}

// UpdateMany applies each update in its own transaction. A failing item never
// affects the others; its reason is reported in the result. Renaming a seat
// that trip inventory references is refused with seats.ErrSeatInUse.
//
// Returns:
//   - domain.BatchResult: succeeded and failed updates, in input order.
//   - error: domain.InvalidInputError if updates is empty.
func (s *Service) UpdateMany(
	ctx context.Context,
	updates []domain.SeatUpdate,
) (domain.BatchResult[domain.SeatUpdate], error) {
	const op = "service.seats.UpdateMany"

	var res domain.BatchResult[domain.SeatUpdate]

	if len(updates) == 0 {
		return res, fmt.Errorf("%s:%w", op, domain.InvalidInputError{Field: "updates", Msg: "must not be empty"})
	}

	for _, u := range updates {
		if err := s.updateOne(ctx, u); err != nil {
			res.Fail(u, err)
			continue
		}
		res.Ok(u)
	}

	return res, nil
}

func (s *Service) updateOne(ctx context.Context, u domain.SeatUpdate) error {
	if u.SeatNumber != nil {
		trimmed := strings.TrimSpace(*u.SeatNumber)
		u.SeatNumber = &trimmed
	}

	if err := validateUpdate(u); err != nil {
		return err
	}

	return s.do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		e, err := s.store.SeatTemplates().With(tx).Update(ctx, u)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return ErrSeatNotFound
			case errors.Is(err, repository.ErrSeatUnavailable):
				return ErrSeatInUse
			case errors.Is(err, repository.ErrConflict) && u.SeatNumber != nil:
				return domain.SeatNumbersConflictError{SeatNumbers: []string{*u.SeatNumber}}
			}

			return err
		}

		after(s.templateChanged(e.VehicleTypeID))

		return nil
	})
}

// DeleteMany removes each entry in its own transaction. An entry whose seat
// number is part of any trip's inventory is refused.
//
// Returns:
//   - domain.BatchResult: deleted and refused ids, in input order.
//   - error: domain.InvalidInputError if ids is empty.
func (s *Service) DeleteMany(ctx context.Context, ids []int64) (domain.BatchResult[int64], error) {
	const op = "service.seats.DeleteMany"

	var res domain.BatchResult[int64]

	if len(ids) == 0 {
		return res, fmt.Errorf("%s:%w", op, domain.InvalidInputError{Field: "ids", Msg: "must not be empty"})
	}

	for _, id := range ids {
		err := s.do(ctx, func(
			ctx context.Context,
			tx postgresrepo.DB,
			after func(uow.AfterCommit),
		) error {
			vehicleTypeID, err := s.store.SeatTemplates().With(tx).Delete(ctx, id)
			if err != nil {
				switch {
				case errors.Is(err, repository.ErrNotFound):
					return ErrSeatNotFound
				case errors.Is(err, repository.ErrSeatUnavailable):
					return ErrSeatInUse
				}

				return err
			}

			after(s.templateChanged(vehicleTypeID))

			return nil
		})
		if err != nil {
			res.Fail(id, err)
			continue
		}
		res.Ok(id)
	}

	return res, nil
}

// SetEnabled takes one seat in or out of maintenance. A seat booked on an
// active trip cannot be disabled.
//
// Returns:
//   - *domain.SeatTemplateEntry: the entry after the change.
//   - error: seats.ErrSeatNotFound if the entry does not exist.
//   - error: domain.ActiveBookingsError if the seat has an active booking.
func (s *Service) SetEnabled(ctx context.Context, id int64, enabled bool) (*domain.SeatTemplateEntry, error) {
	const op = "service.seats.SetEnabled"

	var out *domain.SeatTemplateEntry

	err := s.do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		repo := s.store.SeatTemplates().With(tx)

		e, err := repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrSeatNotFound
			}

			return err
		}

		numbers := []string{e.SeatNumber}

		if !enabled {
			booked, err := repo.ActiveBookedNumbers(ctx, e.VehicleTypeID, numbers)
			if err != nil {
				return err
			}

			if len(booked) > 0 {
				return domain.ActiveBookingsError{SeatNumbers: booked}
			}
		}

		if _, err := repo.SetEnabled(ctx, e.VehicleTypeID, enabled, numbers); err != nil {
			return err
		}

		e.Enabled = enabled
		out = e

		after(s.templateChanged(e.VehicleTypeID))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// SetEnabledBulk flips the flag for the listed seats of a vehicle type, or for
// all of them when seatNumbers is empty. Disabling is refused as a whole when
// any affected seat has an active booking.
//
// Returns:
//   - int64: number of template entries changed.
//   - error: seats.ErrVehicleTypeNotFound if the vehicle type does not exist.
//   - error: seats.ErrSeatNotFound if a listed seat number is unknown.
//   - error: domain.ActiveBookingsError listing the booked seats.
func (s *Service) SetEnabledBulk(
	ctx context.Context,
	vehicleTypeID int64,
	enabled bool,
	seatNumbers []string,
) (int64, error) {
	const op = "service.seats.SetEnabledBulk"

	var numbers []string
	if len(seatNumbers) > 0 {
		numbers = make([]string, 0, len(seatNumbers))
		for _, n := range seatNumbers {
			n = strings.TrimSpace(n)
			if n == "" {
				return 0, fmt.Errorf("%s:%w", op, domain.InvalidInputError{Field: "seat_numbers", Msg: "must not contain blanks"})
			}
			numbers = append(numbers, n)
		}
		slices.Sort(numbers)
		numbers = slices.Compact(numbers)
	}

	var changed int64

	err := s.do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		if _, err := s.store.Fleet().With(tx).GetVehicleType(ctx, vehicleTypeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrVehicleTypeNotFound
			}

			return err
		}

		repo := s.store.SeatTemplates().With(tx)

		if numbers != nil {
			existing, err := repo.ExistingNumbers(ctx, vehicleTypeID, numbers)
			if err != nil {
				return err
			}

			if missing := difference(numbers, existing); len(missing) > 0 {
				return fmt.Errorf("%w: %s", ErrSeatNotFound, strings.Join(missing, ", "))
			}
		}

		if !enabled {
			booked, err := repo.ActiveBookedNumbers(ctx, vehicleTypeID, numbers)
			if err != nil {
				return err
			}

			if len(booked) > 0 {
				return domain.ActiveBookingsError{SeatNumbers: booked}
			}
		}

		n, err := repo.SetEnabled(ctx, vehicleTypeID, enabled, numbers)
		if err != nil {
			return err
		}

		changed = n

		after(s.templateChanged(vehicleTypeID))

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, err)
	}

	return changed, nil
}

// List returns the template of a vehicle type in layout order.
func (s *Service) List(ctx context.Context, vehicleTypeID int64) ([]domain.SeatTemplateEntry, error) {
	const op = "service.seats.List"

	if _, err := s.store.Fleet().GetVehicleType(ctx, vehicleTypeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrVehicleTypeNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	entries, err := s.store.SeatTemplates().List(ctx, vehicleTypeID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return entries, nil
}

func (s *Service) templateChanged(vehicleTypeID int64) uow.AfterCommit {
	return func(ctx context.Context) {
		_ = s.cache.InvalidateVehicleType(ctx, vehicleTypeID)
		_ = s.pubsub.PublishVehicleTypeChanged(ctx, vehicleTypeID)
	}
}

func validateSeat(seat domain.SeatDescriptor) error {
	if seat.SeatNumber == "" {
		return domain.InvalidInputError{Field: "seat_number", Msg: "must not be empty"}
	}

	if seat.Row < 1 || seat.Column < 1 {
		return domain.InvalidInputError{
			Field: "seat_number",
			Msg:   fmt.Sprintf("%s: row and column must be positive", seat.SeatNumber),
		}
	}

	return nil
}

func validateUpdate(u domain.SeatUpdate) error {
	if u.SeatNumber == nil && u.Row == nil && u.Column == nil {
		return domain.InvalidInputError{Field: "id", Msg: fmt.Sprintf("%d: nothing to update", u.ID)}
	}

	if u.SeatNumber != nil && *u.SeatNumber == "" {
		return domain.InvalidInputError{Field: "seat_number", Msg: "must not be empty"}
	}

	if (u.Row != nil && *u.Row < 1) || (u.Column != nil && *u.Column < 1) {
		return domain.InvalidInputError{Field: "row", Msg: "row and column must be positive"}
	}

	return nil
}

// duplicates returns every value that occurs more than once, sorted.
func duplicates(values []string) []string {
	seen := make(map[string]int, len(values))
	for _, v := range values {
		seen[v]++
	}

	var out []string
	for v, n := range seen {
		if n > 1 {
			out = append(out, v)
		}
	}
	slices.Sort(out)

	return out
}

// difference returns the values of want missing from have.
func difference(want, have []string) []string {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}

	var out []string
	for _, w := range want {
		if _, ok := set[w]; !ok {
			out = append(out, w)
		}
	}
	return out
}
