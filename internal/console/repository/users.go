package repository

import (
	"context"
	"fmt"

	"dispatch-console/internal/console/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, COALESCE(name, ''), email, COALESCE(phone, ''), role, status, created_at`

// UserStore implements domain.Store[domain.User].
type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Status, &u.CreatedAt)
	return u, err
}

func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	saved, err := scanUser(s.db.QueryRow(ctx, `
		INSERT INTO users (id, name, email, phone, role, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING `+userColumns,
		u.ID, u.Name, u.Email, u.Phone, u.Role, string(u.Status),
	))
	if err != nil {
		return domain.User{}, writeErr("insert user", err)
	}
	return saved, nil
}

func (s *UserStore) Update(ctx context.Context, u domain.User) (domain.User, error) {
	saved, err := scanUser(s.db.QueryRow(ctx, `
		UPDATE users
		SET name = $1, email = $2, phone = $3, role = $4, status = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+userColumns,
		u.Name, u.Email, u.Phone, u.Role, string(u.Status), u.ID,
	))
	if err != nil {
		return domain.User{}, writeErr("update user", err)
	}
	return saved, nil
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	return execOne(ctx, s.db, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

func (s *UserStore) DeleteMany(ctx context.Context, ids []string) error {
	return deleteMany(ctx, s.db, "users", ids)
}
