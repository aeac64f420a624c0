package repository

import (
	"context"
	"database/sql"
	"fmt"

	"dispatch-console/internal/console/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const promoColumns = `id, code, COALESCE(description, ''), discount_percent,
	max_uses, used_count, valid_until, status`

// PromoStore implements domain.Store[domain.Promo].
type PromoStore struct {
	db *pgxpool.Pool
}

func NewPromoStore(db *pgxpool.Pool) *PromoStore {
	return &PromoStore{db: db}
}

func scanPromo(row rowScanner) (domain.Promo, error) {
	var p domain.Promo
	var validUntil sql.NullTime
	if err := row.Scan(
		&p.ID, &p.Code, &p.Description, &p.DiscountPercent,
		&p.MaxUses, &p.UsedCount, &validUntil, &p.Status,
	); err != nil {
		return domain.Promo{}, err
	}
	if validUntil.Valid {
		p.ValidUntil = validUntil.Time
	}
	return p, nil
}

func (s *PromoStore) List(ctx context.Context) ([]domain.Promo, error) {
	rows, err := s.db.Query(ctx, `SELECT `+promoColumns+` FROM promos ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list promos: %w", err)
	}
	defer rows.Close()

	promos := make([]domain.Promo, 0)
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promo: %w", err)
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list promos: %w", err)
	}
	return promos, nil
}

func (s *PromoStore) Create(ctx context.Context, p domain.Promo) (domain.Promo, error) {
	saved, err := scanPromo(s.db.QueryRow(ctx, `
		INSERT INTO promos (
			id, code, description, discount_percent, max_uses,
			used_count, valid_until, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING `+promoColumns,
		p.ID, p.Code, p.Description, p.DiscountPercent, p.MaxUses,
		p.UsedCount, nullTime(p), string(p.Status),
	))
	if err != nil {
		return domain.Promo{}, writeErr("insert promo", err)
	}
	return saved, nil
}

func (s *PromoStore) Update(ctx context.Context, p domain.Promo) (domain.Promo, error) {
	saved, err := scanPromo(s.db.QueryRow(ctx, `
		UPDATE promos
		SET code = $1, description = $2, discount_percent = $3, max_uses = $4,
			used_count = $5, valid_until = $6, status = $7
		WHERE id = $8
		RETURNING `+promoColumns,
		p.Code, p.Description, p.DiscountPercent, p.MaxUses,
		p.UsedCount, nullTime(p), string(p.Status), p.ID,
	))
	if err != nil {
		return domain.Promo{}, writeErr("update promo", err)
	}
	return saved, nil
}

func (s *PromoStore) Delete(ctx context.Context, id string) error {
	return execOne(ctx, s.db, "delete promo", `DELETE FROM promos WHERE id = $1`, id)
}

func (s *PromoStore) DeleteMany(ctx context.Context, ids []string) error {
	return deleteMany(ctx, s.db, "promos", ids)
}

func nullTime(p domain.Promo) sql.NullTime {
	return sql.NullTime{Time: p.ValidUntil, Valid: !p.ValidUntil.IsZero()}
}
