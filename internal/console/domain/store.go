package domain

import "context"

// Store is the persistence port behind one console screen. Implementations
// live in the repository package.
type Store[T any] interface {
	// List returns every row the screen manages.
	List(ctx context.Context) ([]T, error)

	// Create persists a row whose identity is already assigned and returns
	// it as stored, including values the database fills in.
	Create(ctx context.Context, item T) (T, error)

	// Update overwrites a row and returns it as stored. Stores may persist
	// only part of the row. ErrNotFound when it does not exist.
	Update(ctx context.Context, item T) (T, error)

	// Delete removes a row, ErrNotFound when it does not exist.
	Delete(ctx context.Context, id string) error

	// DeleteMany removes every row in ids. Unknown ids are ignored.
	DeleteMany(ctx context.Context, ids []string) error
}
