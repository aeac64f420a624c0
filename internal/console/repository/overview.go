package repository

import (
	"context"
	"fmt"

	"dispatch-console/internal/console/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OverviewStore computes the dashboard metrics.
type OverviewStore struct {
	db *pgxpool.Pool
}

func NewOverviewStore(db *pgxpool.Pool) *OverviewStore {
	return &OverviewStore{db: db}
}

// Overview reads all metrics inside one read-only transaction so the
// numbers are taken from the same snapshot.
func (s *OverviewStore) Overview(ctx context.Context) (domain.Overview, error) {
	var m domain.Overview

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly, IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return m, fmt.Errorf("begin overview: %w", err)
	}
	defer tx.Rollback(ctx)

	queries := []struct {
		name  string
		query string
		dest  *int
	}{
		{"active_rides", `
			SELECT COUNT(*) FROM rides
			WHERE status IN ('REQUESTED', 'MATCHED', 'EN_ROUTE', 'ARRIVED', 'IN_PROGRESS')`, &m.ActiveRides},
		{"available_drivers", `
			SELECT COUNT(*) FROM drivers WHERE status = 'AVAILABLE'`, &m.AvailableDrivers},
		{"busy_drivers", `
			SELECT COUNT(*) FROM drivers WHERE status IN ('BUSY', 'EN_ROUTE')`, &m.BusyDrivers},
		{"total_rides_today", `
			SELECT COUNT(*) FROM rides WHERE completed_at >= current_date`, &m.TotalRidesToday},
		{"total_revenue_today", `
			SELECT COALESCE(SUM(final_fare * 100), 0)::bigint FROM rides
			WHERE completed_at >= current_date AND status = 'COMPLETED'`, &m.TotalRevenueToday},
		{"avg_wait_time", `
			SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (matched_at - requested_at))) / 60, 0)::int
			FROM rides
			WHERE matched_at IS NOT NULL AND requested_at >= current_date`, &m.AverageWaitTime},
		{"avg_ride_duration", `
			SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (completed_at - started_at))) / 60, 0)::int
			FROM rides
			WHERE status = 'COMPLETED' AND completed_at >= current_date`, &m.AverageRideDuration},
	}

	for _, q := range queries {
		if err := tx.QueryRow(ctx, q.query).Scan(q.dest); err != nil {
			return m, fmt.Errorf("overview %s: %w", q.name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return m, fmt.Errorf("commit overview: %w", err)
	}
	return m, nil
}
