package repo

import (
	"context"
	"testing"

	dom "github.com/patelseth/TodoApp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTodoRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTodoRepo()

	created, err := r.Insert(ctx, dom.NewTodo("A", "d"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	byID, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	byTitle, err := r.GetByTitle(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, created, byTitle)

	created.Description = "changed"
	replaced, err := r.Replace(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "changed", replaced.Description)

	require.NoError(t, r.Delete(ctx, created.ID))
	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTodoRepo_AbsenceSignals(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTodoRepo()

	_, err := r.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.GetByTitle(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Replace(ctx, dom.Todo{ID: "nope", Title: "A"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, r.Delete(ctx, "nope"), ErrNotFound)
}

func TestMemoryTodoRepo_UniqueTitle(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTodoRepo()

	_, err := r.Insert(ctx, dom.NewTodo("A", ""))
	require.NoError(t, err)

	_, err = r.Insert(ctx, dom.NewTodo("A", "other"))
	assert.ErrorIs(t, err, ErrDuplicateTitle)

	b, err := r.Insert(ctx, dom.NewTodo("B", ""))
	require.NoError(t, err)

	b.Title = "A"
	_, err = r.Replace(ctx, b)
	assert.ErrorIs(t, err, ErrDuplicateTitle)
}

func TestMemoryTodoRepo_List(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTodoRepo()

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = r.Insert(ctx, dom.NewTodo("A", ""))
	require.NoError(t, err)
	_, err = r.Insert(ctx, dom.NewTodo("B", ""))
	require.NoError(t, err)

	list, err = r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
