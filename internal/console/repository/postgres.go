// Package repository implements the console stores on the dispatch
// Postgres database.
package repository

import (
	"context"
	"errors"
	"fmt"

	"dispatch-console/internal/console/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// writeErr wraps the error of a write that returns its row. No row back
// means the target did not exist.
func writeErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, db *pgxpool.Pool, op, query string, args ...any) error {
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireOne(tag, op)
}

func requireOne(tag pgconn.CommandTag, op string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

func deleteMany(ctx context.Context, db *pgxpool.Pool, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	// table names come from this package only
	if _, err := db.Exec(ctx, "DELETE FROM "+table+" WHERE id = ANY($1)", ids); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}
