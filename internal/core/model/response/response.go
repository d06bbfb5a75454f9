package response

import (
	"time"

	"usertodos/internal/core/domain"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type TodoResponse struct {
	ID        int       `json:"id"`
	Label     string    `json:"label"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type TodoCreatedResponse struct {
	TodoID    int       `json:"todo_id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Errors     []ValidationError `json:"errors,omitempty"`
}

func NewTodoResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:        todo.ID,
		Label:     todo.Label,
		UserID:    todo.UserID,
		CreatedAt: todo.CreatedAt.UTC(),
	}
}

func NewTodoListResponse(todos []domain.Todo) []TodoResponse {
	items := make([]TodoResponse, 0, len(todos))

	for _, todo := range todos {
		items = append(items, NewTodoResponse(todo))
	}

	return items
}

func NewTodoCreatedResponse(todo domain.Todo) TodoCreatedResponse {
	return TodoCreatedResponse{
		TodoID:    todo.ID,
		Label:     todo.Label,
		CreatedAt: todo.CreatedAt.UTC(),
	}
}
