package domain

import (
	"errors"
	"fmt"
	"time"
)

// TodoStatus represents the lifecycle state of a Todo.
type TodoStatus string

const (
	StatusPending    TodoStatus = "Pending"
	StatusInProgress TodoStatus = "InProgress"
	StatusCompleted  TodoStatus = "Completed"
)

// ErrInvalidStatusTransition is returned by ChangeStatus when the requested
// (current, next) pair is not an allowed edge.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// transitions is the edge set of the status machine. Each status maps to the
// single status it may advance to; Completed is terminal and has no entry.
var transitions = map[TodoStatus]TodoStatus{
	StatusPending:    StatusInProgress,
	StatusInProgress: StatusCompleted,
}

// IsValid returns true if the status is one of the defined constants.
func (s TodoStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s TodoStatus) String() string { return string(s) }

// CanTransitionTo checks if the status can transition to the target status.
func (s TodoStatus) CanTransitionTo(target TodoStatus) bool {
	next, ok := transitions[s]
	return ok && next == target
}

// ParseStatus parses a wire value into a TodoStatus.
func ParseStatus(s string) (TodoStatus, error) {
	st := TodoStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Todo is the domain entity. It does not depend on Gin, Mongo or Postgres.
type Todo struct {
	ID          string
	Title       string
	Description string
	Status      TodoStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTodo returns a Todo in the Pending state with both timestamps set to
// now. Title emptiness is validated at the HTTP boundary, not here.
func NewTodo(title, description string) Todo {
	now := time.Now().UTC()
	return Todo{
		Title:       title,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ChangeStatus advances the todo along the status machine. On an allowed
// edge it sets the new status and refreshes UpdatedAt; on any other pair
// (identity, regression, skip) it returns ErrInvalidStatusTransition and
// leaves the entity unchanged.
func (t *Todo) ChangeStatus(next TodoStatus) error {
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, t.Status, next)
	}
	t.Status = next
	t.UpdatedAt = time.Now().UTC()
	return nil
}
