package dto

import (
	"encoding/json"
	"time"

	dom "github.com/patelseth/TodoApp/internal/domain"
)

// Status parses the status field from JSON and rejects values outside the
// closed set at bind time.
type Status struct{ s dom.TodoStatus }

func (st *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := dom.ParseStatus(raw)
	if err != nil {
		return err
	}
	st.s = parsed
	return nil
}

// Value returns the parsed domain status.
func (st Status) Value() dom.TodoStatus { return st.s }

type CreateTodoRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"max=1000"`
}

type UpdateTodoRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"max=1000"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

type TodoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedDate time.Time `json:"createdDate"`
	UpdatedDate time.Time `json:"updatedDate"`
}

type ListTodosResponse struct {
	Items []TodoResponse `json:"items"`
}
