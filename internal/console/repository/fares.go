package repository

import (
	"context"
	"fmt"

	"dispatch-console/internal/console/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const fareColumns = `id, vehicle_class, base_fare, per_km_rate, minimum_fare, active`

// FareStore implements domain.Store[domain.Fare].
type FareStore struct {
	db *pgxpool.Pool
}

func NewFareStore(db *pgxpool.Pool) *FareStore {
	return &FareStore{db: db}
}

func scanFare(row rowScanner) (domain.Fare, error) {
	var f domain.Fare
	err := row.Scan(&f.ID, &f.VehicleClass, &f.BaseFare, &f.PerKmRate, &f.MinimumFare, &f.Active)
	return f, err
}

func (s *FareStore) List(ctx context.Context) ([]domain.Fare, error) {
	rows, err := s.db.Query(ctx, `SELECT `+fareColumns+` FROM fares ORDER BY vehicle_class`)
	if err != nil {
		return nil, fmt.Errorf("list fares: %w", err)
	}
	defer rows.Close()

	fares := make([]domain.Fare, 0)
	for rows.Next() {
		f, err := scanFare(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fare: %w", err)
		}
		fares = append(fares, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fares: %w", err)
	}
	return fares, nil
}

func (s *FareStore) Create(ctx context.Context, f domain.Fare) (domain.Fare, error) {
	saved, err := scanFare(s.db.QueryRow(ctx, `
		INSERT INTO fares (id, vehicle_class, base_fare, per_km_rate, minimum_fare, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+fareColumns,
		f.ID, string(f.VehicleClass), f.BaseFare, f.PerKmRate, f.MinimumFare, f.Active,
	))
	if err != nil {
		return domain.Fare{}, writeErr("insert fare", err)
	}
	return saved, nil
}

func (s *FareStore) Update(ctx context.Context, f domain.Fare) (domain.Fare, error) {
	saved, err := scanFare(s.db.QueryRow(ctx, `
		UPDATE fares
		SET vehicle_class = $1, base_fare = $2, per_km_rate = $3, minimum_fare = $4, active = $5
		WHERE id = $6
		RETURNING `+fareColumns,
		string(f.VehicleClass), f.BaseFare, f.PerKmRate, f.MinimumFare, f.Active, f.ID,
	))
	if err != nil {
		return domain.Fare{}, writeErr("update fare", err)
	}
	return saved, nil
}

func (s *FareStore) Delete(ctx context.Context, id string) error {
	return execOne(ctx, s.db, "delete fare", `DELETE FROM fares WHERE id = $1`, id)
}

func (s *FareStore) DeleteMany(ctx context.Context, ids []string) error {
	return deleteMany(ctx, s.db, "fares", ids)
}
