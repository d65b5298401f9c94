package postgresrepo

import (
	"context"

	"github.com/kirinyoku/busseat-go/internal/domain"
)

type FleetRepo struct {
	pool Pool
	db   DB
}

func (r *FleetRepo) With(db DB) *FleetRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *FleetRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *FleetRepo) CreateVehicleType(
	ctx context.Context,
	name string,
	capacity int,
	priceCents int64,
	layout string,
) (int64, error) {
	const op = "postgresrepo.FleetRepo.CreateVehicleType"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO vehicle_types(name, capacity, price_cents, layout)
       	 VALUES ($1, $2, $3, $4)
     	 RETURNING id`,
		name, capacity, priceCents, layout,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *FleetRepo) GetVehicleType(ctx context.Context, id int64) (*domain.VehicleType, error) {
	const op = "postgresrepo.FleetRepo.GetVehicleType"

	db := r.handle()

	var vt domain.VehicleType
	if err := db.QueryRow(ctx,
		`SELECT id, name, capacity, price_cents, layout, created_at
       	 FROM vehicle_types WHERE id = $1`,
		id,
	).Scan(&vt.ID, &vt.Name, &vt.Capacity, &vt.PriceCents, &vt.Layout, &vt.CreatedAt); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &vt, nil
}

func (r *FleetRepo) CreateVehicle(ctx context.Context, plate string, vehicleTypeID int64) (int64, error) {
	const op = "postgresrepo.FleetRepo.CreateVehicle"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO vehicles(license_plate, vehicle_type_id)
       	 VALUES ($1, $2)
     	 RETURNING id`,
		plate, vehicleTypeID,
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

func (r *FleetRepo) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	const op = "postgresrepo.FleetRepo.GetVehicle"

	db := r.handle()

	var v domain.Vehicle
	if err := db.QueryRow(ctx,
		`SELECT id, license_plate, vehicle_type_id
       	 FROM vehicles WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.LicensePlate, &v.VehicleTypeID); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &v, nil
}
