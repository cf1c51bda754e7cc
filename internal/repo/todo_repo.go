package repo

import (
	"context"
	"errors"

	dom "github.com/patelseth/TodoApp/internal/domain"
)

var (
	// ErrNotFound is the absence signal for all lookups, replaces and
	// deletes. Each backend maps its driver-level "no rows" onto it.
	ErrNotFound = errors.New("todo not found")

	// ErrDuplicateTitle is returned when an insert or replace violates the
	// unique index on title.
	ErrDuplicateTitle = errors.New("title already taken")
)

// TodoRepo is the persistence boundary. Implementations hold no business
// rules; uniqueness of titles is backed by a storage-level unique index
// while the service performs the user-facing check.
type TodoRepo interface {
	GetByID(ctx context.Context, id string) (dom.Todo, error)
	GetByTitle(ctx context.Context, title string) (dom.Todo, error)
	List(ctx context.Context) ([]dom.Todo, error)
	Insert(ctx context.Context, t dom.Todo) (dom.Todo, error)
	Replace(ctx context.Context, t dom.Todo) (dom.Todo, error)
	Delete(ctx context.Context, id string) error
}
