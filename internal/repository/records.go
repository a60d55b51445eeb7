package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tirepoint/garage-docs/constants"
	"github.com/tirepoint/garage-docs/internal/common"
	"github.com/tirepoint/garage-docs/internal/entity"
)

// PGRecordLookup resolves identity fields against existing shop records.
// Plates land on vehicles (joined with their owner so customer fields are
// comparable too); phone numbers land on customers.
type PGRecordLookup struct {
	pool *pgxpool.Pool
}

func NewPGRecordLookup(pool *pgxpool.Pool) *PGRecordLookup {
	return &PGRecordLookup{pool: pool}
}

func (r *PGRecordLookup) FindByPlate(ctx context.Context, plate string) (*entity.Record, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT v.id, v.plate_number, COALESCE(v.make, ''), COALESCE(v.model, ''),
		        COALESCE(v.vehicle_type, ''), v.updated_at,
		        COALESCE(c.name, ''), COALESCE(c.phone_number, ''),
		        COALESCE(c.email, ''), COALESCE(c.address, '')
		 FROM vehicles v
		 LEFT JOIN customers c ON c.id = v.customer_id
		 WHERE v.plate_number = $1`, plate)

	rec := entity.Record{Kind: entity.RecordVehicle, Fields: map[constants.FieldKind]string{}}
	var plateNo, makeName, model, vtype, name, phone, email, address string
	err := row.Scan(&rec.ID, &plateNo, &makeName, &model, &vtype, &rec.UpdatedAt,
		&name, &phone, &email, &address)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "failed to look up vehicle by plate", err)
	}

	setIfPresent(rec.Fields, constants.FieldPlateNumber, plateNo)
	setIfPresent(rec.Fields, constants.FieldVehicleMake, makeName)
	setIfPresent(rec.Fields, constants.FieldVehicleModel, model)
	setIfPresent(rec.Fields, constants.FieldVehicleType, vtype)
	setIfPresent(rec.Fields, constants.FieldCustomerName, name)
	setIfPresent(rec.Fields, constants.FieldCustomerPhone, phone)
	setIfPresent(rec.Fields, constants.FieldCustomerEmail, email)
	setIfPresent(rec.Fields, constants.FieldCustomerAddress, address)
	return &rec, nil
}

func (r *PGRecordLookup) FindByPhone(ctx context.Context, phone string) (*entity.Record, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, COALESCE(name, ''), phone_number, COALESCE(email, ''),
		        COALESCE(address, ''), updated_at
		 FROM customers
		 WHERE phone_number = $1`, phone)

	rec := entity.Record{Kind: entity.RecordCustomer, Fields: map[constants.FieldKind]string{}}
	var name, phoneNo, email, address string
	err := row.Scan(&rec.ID, &name, &phoneNo, &email, &address, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, common.NewAppError("DB_ERROR", "failed to look up customer by phone", err)
	}

	setIfPresent(rec.Fields, constants.FieldCustomerName, name)
	setIfPresent(rec.Fields, constants.FieldCustomerPhone, phoneNo)
	setIfPresent(rec.Fields, constants.FieldCustomerEmail, email)
	setIfPresent(rec.Fields, constants.FieldCustomerAddress, address)
	return &rec, nil
}

func setIfPresent(fields map[constants.FieldKind]string, key constants.FieldKind, value string) {
	if value != "" {
		fields[key] = value
	}
}
