package service

import (
	"context"
	"errors"

	"github.com/patelseth/TodoApp/internal/cache"
	dom "github.com/patelseth/TodoApp/internal/domain"
	"github.com/patelseth/TodoApp/internal/repo"

	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound       = errors.New("todo not found")
	ErrDuplicateTitle = errors.New("a todo with this title already exists")
)

// TodoService coordinates repository calls around entity mutation and
// enforces the duplicate-title invariant. It is the sole writer path for
// status changes.
type TodoService struct {
	repo  repo.TodoRepo
	cache *cache.TodoCache
	sf    singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c *cache.TodoCache) *TodoService {
	return &TodoService{repo: r, cache: c}
}

// List returns all todos, or only those matching filter if one is given.
// Filtering happens here so every backend behaves identically.
func (s *TodoService) List(ctx context.Context, filter *dom.TodoStatus) ([]dom.Todo, error) {
	list, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return list, nil
	}
	filtered := make([]dom.Todo, 0, len(list))
	for _, t := range list {
		if t.Status == *filter {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func (s *TodoService) listAll(ctx context.Context) ([]dom.Todo, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}
	v, err, _ := s.sf.Do("list", func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Todo), nil
}

func (s *TodoService) GetByID(ctx context.Context, id string) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

// Create makes a new Pending todo after checking that no live todo already
// owns the title. The check and the insert are not one atomic step; the
// storage-level unique index catches the race and maps to the same error.
func (s *TodoService) Create(ctx context.Context, title, description string) (dom.Todo, error) {
	if err := s.checkTitleFree(ctx, title); err != nil {
		return dom.Todo{}, err
	}
	t, err := s.repo.Insert(ctx, dom.NewTodo(title, description))
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateTitle) {
			return dom.Todo{}, ErrDuplicateTitle
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

// Update edits title and description. When both values are unchanged the
// call is a no-op: no duplicate check, no write, the loaded entity is
// returned as-is. The duplicate check runs only when the title changes.
func (s *TodoService) Update(ctx context.Context, id, title, description string) (dom.Todo, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return dom.Todo{}, err
	}
	if existing.Title == title && existing.Description == description {
		return existing, nil
	}
	if existing.Title != title {
		if err := s.checkTitleFree(ctx, title); err != nil {
			return dom.Todo{}, err
		}
	}
	existing.Title = title
	existing.Description = description
	t, err := s.repo.Replace(ctx, existing)
	if err != nil {
		return dom.Todo{}, mapRepoError(err)
	}
	s.invalidateCache(ctx)
	return t, nil
}

// UpdateStatus advances an already-loaded todo along the status machine and
// persists the result. Illegal transitions propagate as
// domain.ErrInvalidStatusTransition without touching the store.
func (s *TodoService) UpdateStatus(ctx context.Context, t dom.Todo, next dom.TodoStatus) (dom.Todo, error) {
	if err := t.ChangeStatus(next); err != nil {
		return dom.Todo{}, err
	}
	out, err := s.repo.Replace(ctx, t)
	if err != nil {
		return dom.Todo{}, mapRepoError(err)
	}
	s.invalidateCache(ctx)
	return out, nil
}

// Delete removes a todo by id and returns the removed entity.
func (s *TodoService) Delete(ctx context.Context, id string) (dom.Todo, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return dom.Todo{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return dom.Todo{}, mapRepoError(err)
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) checkTitleFree(ctx context.Context, title string) error {
	_, err := s.repo.GetByTitle(ctx, title)
	if err == nil {
		return ErrDuplicateTitle
	}
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	return err
}

func (s *TodoService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrDuplicateTitle):
		return ErrDuplicateTitle
	default:
		return err
	}
}
