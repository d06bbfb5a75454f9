package port

import (
	"context"

	"usertodos/internal/core/domain"
)

// TodoRepository methods that take an ownerID apply it in the same
// statement as the todo id. Implementations never look a todo up by id alone.
type TodoRepository interface {
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	ListByOwner(ctx context.Context, ownerID, offset, limit int) ([]domain.Todo, error)
	GetByOwner(ctx context.Context, ownerID, todoID int) (domain.Todo, error)
	UpdateLabel(ctx context.Context, ownerID, todoID int, label string) error
	DeleteByOwner(ctx context.Context, ownerID, todoID int) error
}

type TodoService interface {
	Create(ctx context.Context, ownerID int, label string) (domain.Todo, error)
	List(ctx context.Context, ownerID, offset, limit int) ([]domain.Todo, error)
	Get(ctx context.Context, ownerID, todoID int) (domain.Todo, error)
	Update(ctx context.Context, ownerID, todoID int, label string) error
	Delete(ctx context.Context, ownerID, todoID int) error
}
