package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/michaelhiggins8/vimpound-backend/internal/domain"
)

// PostgresVehiclesRepo VehiclesRepo implementation over the vehicles table.
type PostgresVehiclesRepo struct {
	db *sql.DB
}

func NewPostgresVehiclesRepo(db *sql.DB) *PostgresVehiclesRepo {
	return &PostgresVehiclesRepo{db: db}
}

var _ VehiclesRepo = (*PostgresVehiclesRepo)(nil)

func scanVehicle(scan func(dest ...any) error) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := scan(
		&v.ID,
		&v.OrgID,
		&v.CreatedAt,
		&v.Status,
		&v.Make,
		&v.Model,
		&v.Year,
		&v.Color,
		&v.VINNumber,
		&v.PlateNumber,
		&v.OwnerFirstName,
		&v.OwnerLastName,
		&v.Location,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

const vehicleColumns = `
	v.id,
	v.org_id,
	v.created_at,
	v.status,
	v.make,
	v.model,
	v.year,
	v.color,
	v.vin_number,
	v.plate_number,
	v.owner_first_name,
	v.owner_last_name,
	v.location
`

func (r *PostgresVehiclesRepo) FindByVINOrPlate(ctx context.Context, orgID, vin, plate string) (*domain.Vehicle, error) {
	// An empty argument must not match rows with empty-string columns, so
	// each predicate guards against ''. ORDER BY makes the "VIN and plate
	// hit different rows" case stable: the most recently created match wins.
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		WHERE v.org_id = $1
		AND (($2 <> '' AND v.vin_number = $2) OR ($3 <> '' AND v.plate_number = $3))
		ORDER BY v.created_at DESC, v.id
		LIMIT 1
	`

	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, orgID, vin, plate).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("vehicle: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find vehicle: %w", err)
	}
	return v, nil
}

func (r *PostgresVehiclesRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		INNER JOIN orgs o ON v.org_id = o.id
		INNER JOIN profiles p ON o.id = p.org_id
		WHERE p.id = $1
		ORDER BY v.created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.listVehicles(ctx, query, userID, limit, offset)
}

func (r *PostgresVehiclesRepo) ListAllByUser(ctx context.Context, userID string) ([]domain.Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		INNER JOIN orgs o ON v.org_id = o.id
		INNER JOIN profiles p ON o.id = p.org_id
		WHERE p.id = $1
		ORDER BY v.created_at DESC
	`
	return r.listVehicles(ctx, query, userID)
}

func (r *PostgresVehiclesRepo) listVehicles(ctx context.Context, query string, args ...any) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vehicles: %w", err)
	}
	return vehicles, nil
}

func (r *PostgresVehiclesRepo) Create(ctx context.Context, userID string, nv NewVehicle) (*domain.Vehicle, error) {
	// org_id comes from the caller's profile in the same statement; a user
	// with no profile inserts nothing.
	query := `
		INSERT INTO vehicles (
			id, org_id, status, make, model, year, color,
			vin_number, plate_number, owner_first_name, owner_last_name, location
		)
		SELECT $1, p.org_id, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		FROM profiles p
		WHERE p.id = $12
		RETURNING ` + vehicleColumnsFlat

	v, err := scanVehicle(r.db.QueryRowContext(ctx, query,
		uuid.NewString(),
		nv.Status,
		nv.Make,
		nv.Model,
		nv.Year,
		nv.Color,
		nv.VINNumber,
		nv.PlateNumber,
		nv.OwnerFirstName,
		nv.OwnerLastName,
		nv.Location,
		userID,
	).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("org for user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return v, nil
}

// vehicleColumnsFlat is the RETURNING list (no table alias).
const vehicleColumnsFlat = `
	id, org_id, created_at, status, make, model, year, color,
	vin_number, plate_number, owner_first_name, owner_last_name, location
`

func (r *PostgresVehiclesRepo) Delete(ctx context.Context, userID, vehicleID string) error {
	query := `
		DELETE FROM vehicles v
		USING profiles p
		WHERE v.org_id = p.org_id AND p.id = $1 AND v.id = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, vehicleID)
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("vehicle: %w", ErrNotFound)
	}
	return nil
}
