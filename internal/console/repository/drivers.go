package repository

import (
	"context"
	"fmt"

	"dispatch-console/internal/console/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const driverColumns = `id, name, phone, license_number, vehicle_class,
	plate_number, status, rating, created_at`

// DriverStore implements domain.Store[domain.Driver].
type DriverStore struct {
	db *pgxpool.Pool
}

func NewDriverStore(db *pgxpool.Pool) *DriverStore {
	return &DriverStore{db: db}
}

func scanDriver(row rowScanner) (domain.Driver, error) {
	var d domain.Driver
	err := row.Scan(
		&d.ID, &d.Name, &d.Phone, &d.LicenseNumber, &d.VehicleClass,
		&d.PlateNumber, &d.Status, &d.Rating, &d.CreatedAt,
	)
	return d, err
}

func (s *DriverStore) List(ctx context.Context) ([]domain.Driver, error) {
	rows, err := s.db.Query(ctx, `SELECT `+driverColumns+` FROM drivers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	defer rows.Close()

	drivers := make([]domain.Driver, 0)
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drivers: %w", err)
	}
	return drivers, nil
}

func (s *DriverStore) Create(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	saved, err := scanDriver(s.db.QueryRow(ctx, `
		INSERT INTO drivers (
			id, name, phone, license_number, vehicle_class,
			plate_number, status, rating, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING `+driverColumns,
		d.ID, d.Name, d.Phone, d.LicenseNumber, string(d.VehicleClass),
		d.PlateNumber, string(d.Status), d.Rating,
	))
	if err != nil {
		return domain.Driver{}, writeErr("insert driver", err)
	}
	return saved, nil
}

func (s *DriverStore) Update(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	saved, err := scanDriver(s.db.QueryRow(ctx, `
		UPDATE drivers
		SET name = $1, phone = $2, license_number = $3, vehicle_class = $4,
			plate_number = $5, status = $6, rating = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING `+driverColumns,
		d.Name, d.Phone, d.LicenseNumber, string(d.VehicleClass),
		d.PlateNumber, string(d.Status), d.Rating, d.ID,
	))
	if err != nil {
		return domain.Driver{}, writeErr("update driver", err)
	}
	return saved, nil
}

func (s *DriverStore) Delete(ctx context.Context, id string) error {
	return execOne(ctx, s.db, "delete driver", `DELETE FROM drivers WHERE id = $1`, id)
}

func (s *DriverStore) DeleteMany(ctx context.Context, ids []string) error {
	return deleteMany(ctx, s.db, "drivers", ids)
}
