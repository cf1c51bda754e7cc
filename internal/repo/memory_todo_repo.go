package repo

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"

	dom "github.com/patelseth/TodoApp/internal/domain"
)

// MemoryTodoRepo keeps todos in a map. Used by tests and by the "memory"
// store driver for running without external services.
type MemoryTodoRepo struct {
	mu    sync.RWMutex
	todos map[string]dom.Todo
}

func NewMemoryTodoRepo() *MemoryTodoRepo {
	return &MemoryTodoRepo{todos: make(map[string]dom.Todo)}
}

func (r *MemoryTodoRepo) GetByID(_ context.Context, id string) (dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryTodoRepo) GetByTitle(_ context.Context, title string) (dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.todos {
		if t.Title == title {
			return t, nil
		}
	}
	return dom.Todo{}, ErrNotFound
}

func (r *MemoryTodoRepo) List(_ context.Context) ([]dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]dom.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		list = append(list, t)
	}
	// Newest first, matching the real backends.
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *MemoryTodoRepo) Insert(_ context.Context, t dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.todos {
		if existing.Title == t.Title {
			return dom.Todo{}, ErrDuplicateTitle
		}
	}
	id, err := newID()
	if err != nil {
		return dom.Todo{}, err
	}
	t.ID = id
	r.todos[id] = t
	return t, nil
}

func (r *MemoryTodoRepo) Replace(_ context.Context, t dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[t.ID]; !ok {
		return dom.Todo{}, ErrNotFound
	}
	for id, existing := range r.todos {
		if id != t.ID && existing.Title == t.Title {
			return dom.Todo{}, ErrDuplicateTitle
		}
	}
	r.todos[t.ID] = t
	return t, nil
}

func (r *MemoryTodoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[id]; !ok {
		return ErrNotFound
	}
	delete(r.todos, id)
	return nil
}

func newID() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
