package fleet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kirinyoku/busseat-go/internal/domain"
	"github.com/kirinyoku/busseat-go/internal/layout"
	"github.com/kirinyoku/busseat-go/internal/repository"
	postgresrepo "github.com/kirinyoku/busseat-go/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/busseat-go/internal/repository/redis"
	"github.com/kirinyoku/busseat-go/internal/uow"
)

type Service struct {
	store   *postgresrepo.Store
	pubsub  *redisrepo.TripsPubSub
	catalog layout.Catalog
	uow     *uow.UoW
}

func New(
	store *postgresrepo.Store,
	pubsub *redisrepo.TripsPubSub,
	catalog layout.Catalog,
) *Service {
	if len(catalog.Templates) == 0 {
		catalog = layout.DefaultCatalog
	}

	return &Service{
		store:   store,
		pubsub:  pubsub,
		catalog: catalog,
		uow:     uow.NewUoW(store),
	}
}

type CreateVehicleTypeInput struct {
	Name       string
	Capacity   int
	PriceCents int64
	// Layout optionally names a catalog template; empty picks one by capacity.
	Layout string
}

// CreateVehicleType generates the seat layout for the requested capacity and
// stores the vehicle type together with its seat template in one transaction.
//
// Parameters:
//   - ctx: request-scoped context.
//   - in: name, capacity, default price and optional layout name.
//
// Returns:
//   - *domain.VehicleType: the stored vehicle type.
//   - []domain.SeatDescriptor: the seats written to its template.
//   - error: domain.ErrInvalidInput for a bad name, price or capacity.
//   - error: fleet.ErrVehicleTypeConflict if the name is taken.
//   - error: fleet.ErrContention if serialization retries ran out.
func (s *Service) CreateVehicleType(
	ctx context.Context,
	in CreateVehicleTypeInput,
) (*domain.VehicleType, []domain.SeatDescriptor, error) {
	const op = "service.fleet.CreateVehicleType"

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, nil, fmt.Errorf("%s:%w", op, domain.InvalidInputError{Field: "name", Msg: "must not be empty"})
	}

	if in.PriceCents < 0 {
		return nil, nil, fmt.Errorf("%s:%w", op, domain.InvalidInputError{Field: "price_cents", Msg: "must not be negative"})
	}

	var (
		tmpl  layout.Template
		seats []domain.SeatDescriptor
		err   error
	)
	if in.Layout != "" {
		tmpl, seats, err = s.catalog.GenerateWith(in.Layout, in.Capacity)
	} else {
		tmpl, seats, err = s.catalog.Generate(in.Capacity)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s:%w", op, err)
	}

	var vt *domain.VehicleType

	err = s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		fleet := s.store.Fleet().With(tx)

		id, err := fleet.CreateVehicleType(ctx, name, in.Capacity, in.PriceCents, tmpl.Name)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrVehicleTypeConflict
			}

			return err
		}

		if err := s.store.SeatTemplates().With(tx).BatchInsert(ctx, id, seats); err != nil {
			return err
		}

		vt, err = fleet.GetVehicleType(ctx, id)
		if err != nil {
			return err
		}

		after(func(ctx context.Context) {
			_ = s.pubsub.PublishVehicleTypeChanged(ctx, id)
		})

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrRetryExhausted) {
			err = fmt.Errorf("%w: %w", ErrContention, err)
		}

		return nil, nil, fmt.Errorf("%s:%w", op, err)
	}

	return vt, seats, nil
}

func (s *Service) GetVehicleType(ctx context.Context, id int64) (*domain.VehicleType, error) {
	const op = "service.fleet.GetVehicleType"

	vt, err := s.store.Fleet().GetVehicleType(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrVehicleTypeNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return vt, nil
}

// CreateVehicle registers a vehicle of an existing type.
//
// Returns:
//   - *domain.Vehicle: the stored vehicle.
//   - error: fleet.ErrVehicleTypeNotFound if the type does not exist.
//   - error: fleet.ErrVehicleConflict if the plate is already registered.
func (s *Service) CreateVehicle(ctx context.Context, plate string, vehicleTypeID int64) (*domain.Vehicle, error) {
	const op = "service.fleet.CreateVehicle"

	plate = strings.TrimSpace(plate)
	if plate == "" {
		return nil, fmt.Errorf("%s:%w", op, domain.InvalidInputError{Field: "license_plate", Msg: "must not be empty"})
	}

	id, err := s.store.Fleet().CreateVehicle(ctx, plate, vehicleTypeID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, fmt.Errorf("%s:%w", op, ErrVehicleConflict)
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%s:%w", op, ErrVehicleTypeNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &domain.Vehicle{ID: id, LicensePlate: plate, VehicleTypeID: vehicleTypeID}, nil
}

// PreviewLayout generates the seats a vehicle type of the given capacity
// would get, without storing anything.
func (s *Service) PreviewLayout(capacity int) (layout.Template, []domain.SeatDescriptor, error) {
	const op = "service.fleet.PreviewLayout"

	tmpl, seats, err := s.catalog.Generate(capacity)
	if err != nil {
		return layout.Template{}, nil, fmt.Errorf("%s:%w", op, err)
	}

	return tmpl, seats, nil
}
