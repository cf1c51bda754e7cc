package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/patelseth/TodoApp/internal/app"
	"github.com/patelseth/TodoApp/internal/dto"
	"github.com/patelseth/TodoApp/internal/handlers"
	"github.com/patelseth/TodoApp/internal/repo"
	"github.com/patelseth/TodoApp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := service.NewTodoService(repo.NewMemoryTodoRepo(), nil)
	app.RegisterTodoRoutes(r.Group("/api/v1"), handlers.NewTodoHandler(svc))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeTodo(t *testing.T, w *httptest.ResponseRecorder) dto.TodoResponse {
	t.Helper()
	var out dto.TodoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func createTodo(t *testing.T, r *gin.Engine, title, description string) dto.TodoResponse {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/todos", gin.H{"title": title, "description": description})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeTodo(t, w)
}

func TestCreateTodo(t *testing.T) {
	r := newTestRouter()

	created := createTodo(t, r, "Buy milk", "two liters")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "Pending", created.Status)
	assert.Equal(t, created.CreatedDate, created.UpdatedDate)
}

func TestCreateTodo_Validation(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/todos", gin.H{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/todos", gin.H{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTodo_DuplicateTitleConflict(t *testing.T) {
	r := newTestRouter()
	createTodo(t, r, "X", "")

	w := doJSON(t, r, http.MethodPost, "/api/v1/todos", gin.H{"title": "X"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/todos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.ListTodosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Items, 1)
}

func TestGetTodo(t *testing.T) {
	r := newTestRouter()
	created := createTodo(t, r, "A", "d")

	w := doJSON(t, r, http.MethodGet, "/api/v1/todos/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decodeTodo(t, w))

	w = doJSON(t, r, http.MethodGet, "/api/v1/todos/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTodos_StatusFilter(t *testing.T) {
	r := newTestRouter()
	a := createTodo(t, r, "A", "")
	createTodo(t, r, "B", "")

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/todos/%s/status", a.ID), gin.H{"status": "InProgress"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/todos?status=InProgress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list dto.ListTodosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "A", list.Items[0].Title)

	w = doJSON(t, r, http.MethodGet, "/api/v1/todos?status=Bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTodo(t *testing.T) {
	r := newTestRouter()
	created := createTodo(t, r, "A", "d1")
	createTodo(t, r, "B", "")

	w := doJSON(t, r, http.MethodPut, "/api/v1/todos/"+created.ID, gin.H{"title": "A2", "description": "d2"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeTodo(t, w)
	assert.Equal(t, "A2", updated.Title)
	assert.Equal(t, "d2", updated.Description)

	// Title collision with B.
	w = doJSON(t, r, http.MethodPut, "/api/v1/todos/"+created.ID, gin.H{"title": "B"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/v1/todos/missing", gin.H{"title": "C"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatus(t *testing.T) {
	r := newTestRouter()
	created := createTodo(t, r, "A", "")
	statusPath := fmt.Sprintf("/api/v1/todos/%s/status", created.ID)

	// Pending -> Completed skips a step.
	w := doJSON(t, r, http.MethodPatch, statusPath, gin.H{"status": "Completed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPatch, statusPath, gin.H{"status": "InProgress"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "InProgress", decodeTodo(t, w).Status)

	// PUT alias behaves the same.
	w = doJSON(t, r, http.MethodPut, statusPath, gin.H{"status": "Completed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Completed", decodeTodo(t, w).Status)

	// Terminal state.
	w = doJSON(t, r, http.MethodPatch, statusPath, gin.H{"status": "InProgress"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown status value is rejected at bind time.
	w = doJSON(t, r, http.MethodPatch, statusPath, gin.H{"status": "Cancelled"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPatch, "/api/v1/todos/missing/status", gin.H{"status": "InProgress"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTodo(t *testing.T) {
	r := newTestRouter()
	created := createTodo(t, r, "A", "")

	w := doJSON(t, r, http.MethodDelete, "/api/v1/todos/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/todos/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/todos/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
