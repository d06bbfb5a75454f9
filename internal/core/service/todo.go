package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"usertodos/internal/core/domain"
	"usertodos/internal/core/port"
	"usertodos/internal/core/telemetry"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// TodoService runs every todo operation scoped to the caller. The owner id is
// always passed down to the repository together with the todo id.
type TodoService struct {
	repo      port.TodoRepository
	telemetry port.Telemetry
}

func NewTodoService(repo port.TodoRepository, probe ...port.Telemetry) *TodoService {
	var t port.Telemetry = telemetry.NewNoOpProbe()

	if len(probe) > 0 && probe[0] != nil {
		t = probe[0]
	}

	return &TodoService{repo: repo, telemetry: t}
}

func (ts *TodoService) Create(ctx context.Context, ownerID int, label string) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "create", ownerID, nil)
	defer span.End()

	start := time.Now()
	label = strings.TrimSpace(label)

	todo, err := ts.create(ctx, ownerID, label)

	ts.telemetry.RecordServiceOperation(ctx, "todo", "create", ownerID, time.Since(start), err)

	if err != nil {
		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "created", "todo", strconv.Itoa(todo.ID), ownerID, map[string]interface{}{
		"label_length": len(todo.Label),
	})

	return todo, nil
}

func (ts *TodoService) create(ctx context.Context, ownerID int, label string) (domain.Todo, error) {
	if label == "" {
		return domain.Todo{}, domain.NewError(domain.ErrInvalidInput, "Label must not be empty")
	}

	todo, err := ts.repo.Create(ctx, domain.Todo{
		Label:     label,
		UserID:    ownerID,
		CreatedAt: time.Now().UTC(),
	})

	if errors.Is(err, domain.ErrDuplicateTodo) {
		return domain.Todo{}, domain.NewError(err, "Todo [%s] already exists", label)
	}

	if err != nil {
		return domain.Todo{}, fmt.Errorf("create todo: %w", err)
	}

	return todo, nil
}

func (ts *TodoService) List(ctx context.Context, ownerID, offset, limit int) ([]domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "list", ownerID, map[string]interface{}{
		"todo.offset": offset,
		"todo.limit":  limit,
	})
	defer span.End()

	start := time.Now()

	if offset < 0 {
		offset = 0
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}

	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	todos, err := ts.repo.ListByOwner(ctx, ownerID, offset, limit)

	ts.telemetry.RecordServiceOperation(ctx, "todo", "list", ownerID, time.Since(start), err)

	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	if todos == nil {
		todos = []domain.Todo{}
	}

	return todos, nil
}

func (ts *TodoService) Get(ctx context.Context, ownerID, todoID int) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "get", ownerID, map[string]interface{}{
		"todo.id": todoID,
	})
	defer span.End()

	start := time.Now()

	todo, err := ts.repo.GetByOwner(ctx, ownerID, todoID)
	err = ts.scopedError(err, "get", todoID)

	ts.telemetry.RecordServiceOperation(ctx, "todo", "get", ownerID, time.Since(start), err)

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

func (ts *TodoService) Update(ctx context.Context, ownerID, todoID int, label string) error {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "update", ownerID, map[string]interface{}{
		"todo.id": todoID,
	})
	defer span.End()

	start := time.Now()
	label = strings.TrimSpace(label)

	var err error

	if label == "" {
		err = domain.NewError(domain.ErrInvalidInput, "Label must not be empty")
	} else {
		err = ts.repo.UpdateLabel(ctx, ownerID, todoID, label)

		if errors.Is(err, domain.ErrDuplicateTodo) {
			err = domain.NewError(err, "Todo [%s] already exists", label)
		} else {
			err = ts.scopedError(err, "update", todoID)
		}
	}

	ts.telemetry.RecordServiceOperation(ctx, "todo", "update", ownerID, time.Since(start), err)

	if err != nil {
		return err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "updated", "todo", strconv.Itoa(todoID), ownerID, nil)

	return nil
}

func (ts *TodoService) Delete(ctx context.Context, ownerID, todoID int) error {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "delete", ownerID, map[string]interface{}{
		"todo.id": todoID,
	})
	defer span.End()

	start := time.Now()

	err := ts.scopedError(ts.repo.DeleteByOwner(ctx, ownerID, todoID), "delete", todoID)

	ts.telemetry.RecordServiceOperation(ctx, "todo", "delete", ownerID, time.Since(start), err)

	if err != nil {
		return err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "deleted", "todo", strconv.Itoa(todoID), ownerID, nil)

	return nil
}

// scopedError gives a not-found miss its client message. A todo owned by
// somebody else produces exactly the same error as a missing one.
func (ts *TodoService) scopedError(err error, operation string, todoID int) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return domain.NewError(domain.ErrTodoNotFound, "Todo [%d] not found", todoID)
	default:
		return fmt.Errorf("%s todo %d: %w", operation, todoID, err)
	}
}
