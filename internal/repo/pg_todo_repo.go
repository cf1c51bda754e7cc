package repo

import (
	"context"
	"errors"

	dom "github.com/patelseth/TodoApp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGTodoRepo stores todos in Postgres. Kept as an alternative backend,
// selected with STORE_DRIVER=postgres.
type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

const uniqueViolation = "23505"

func mapPGError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateTitle
	}
	return err
}

func (r *PGTodoRepo) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	query := `
		SELECT id, title, description, status, created_at, updated_at
		FROM todos WHERE id = $1`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return dom.Todo{}, mapPGError(err)
	}
	return t, nil
}

func (r *PGTodoRepo) GetByTitle(ctx context.Context, title string) (dom.Todo, error) {
	query := `
		SELECT id, title, description, status, created_at, updated_at
		FROM todos WHERE title = $1`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, title).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return dom.Todo{}, mapPGError(err)
	}
	return t, nil
}

func (r *PGTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	query := `
		SELECT id, title, description, status, created_at, updated_at
		FROM todos ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTodoRepo) Insert(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (title, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, description, status, created_at, updated_at`
	var out dom.Todo
	err := r.db.QueryRow(ctx, query, t.Title, t.Description, t.Status, t.CreatedAt, t.UpdatedAt).Scan(
		&out.ID, &out.Title, &out.Description, &out.Status, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return dom.Todo{}, mapPGError(err)
	}
	return out, nil
}

func (r *PGTodoRepo) Replace(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	// Full replace: the service owns the timestamps, so updated_at is
	// written as-is instead of NOW().
	query := `
		UPDATE todos SET title = $2, description = $3, status = $4, updated_at = $5
		WHERE id = $1
		RETURNING id, title, description, status, created_at, updated_at`
	var out dom.Todo
	err := r.db.QueryRow(ctx, query, t.ID, t.Title, t.Description, t.Status, t.UpdatedAt).Scan(
		&out.ID, &out.Title, &out.Description, &out.Status, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return dom.Todo{}, mapPGError(err)
	}
	return out, nil
}

func (r *PGTodoRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
