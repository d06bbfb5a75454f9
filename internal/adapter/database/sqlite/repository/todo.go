package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"usertodos/internal/adapter/database/sqlite"
	"usertodos/internal/core/domain"
	"usertodos/internal/core/port"
	tel "usertodos/internal/core/telemetry"
)

var todoColumns = []string{"id", "label", "user_id", "created_at"}

// TodoRepository filters every read and write by owner. Statements that
// target a single todo always carry both owner and id in one predicate.
type TodoRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *sqlite.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func ownedBy(ownerID, todoID int) sq.Eq {
	return sq.Eq{"user_id": ownerID, "id": todoID}
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Create", "todo", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  "todos",
		"user.id":   todo.UserID,
	})
	defer span.End()

	startTime := time.Now()

	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = time.Now()
	}

	todo.CreatedAt = todo.CreatedAt.UTC()

	query, args, err := tr.db.QueryBuilder.
		Insert("todos").
		Columns("label", "user_id", "created_at").
		Values(todo.Label, todo.UserID, todo.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.Todo{}, fmt.Errorf("build insert todo: %w", err)
	}

	err = tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, args...).Scan(&todo.ID)
	})

	if _, ok := sqlite.UniqueViolation(err); ok {
		err = domain.ErrDuplicateTodo
	}

	tr.telemetry.RecordRepositoryOperation(ctx, "Create", "todo", time.Since(startTime), err)

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) ListByOwner(ctx context.Context, ownerID, offset, limit int) ([]domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "ListByOwner", "todo", map[string]interface{}{
		"db.system":         "sqlite",
		"db.table":          "todos",
		"user.id":           ownerID,
		"pagination.offset": offset,
		"pagination.limit":  limit,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.
		Select(todoColumns...).
		From("todos").
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy("id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("build list todos: %w", err)
	}

	todos := make([]domain.Todo, 0, limit)

	err = tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var todo domain.Todo

			if err := rows.Scan(&todo.ID, &todo.Label, &todo.UserID, &todo.CreatedAt); err != nil {
				return err
			}

			todos = append(todos, todo)
		}

		return rows.Err()
	})

	tr.telemetry.RecordRepositoryOperation(ctx, "ListByOwner", "todo", time.Since(startTime), err)

	if err != nil {
		return nil, err
	}

	span.SetAttributes(map[string]interface{}{"result.count": len(todos)})

	return todos, nil
}

func (tr *TodoRepository) GetByOwner(ctx context.Context, ownerID, todoID int) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "GetByOwner", "todo", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  "todos",
		"user.id":   ownerID,
		"todo.id":   todoID,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.
		Select(todoColumns...).
		From("todos").
		Where(ownedBy(ownerID, todoID)).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Todo{}, fmt.Errorf("build get todo: %w", err)
	}

	var todo domain.Todo

	err = tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, args...).Scan(&todo.ID, &todo.Label, &todo.UserID, &todo.CreatedAt)
	})

	if errors.Is(err, sql.ErrNoRows) {
		err = domain.ErrTodoNotFound
	}

	tr.telemetry.RecordRepositoryOperation(ctx, "GetByOwner", "todo", time.Since(startTime), err)

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) UpdateLabel(ctx context.Context, ownerID, todoID int, label string) error {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "UpdateLabel", "todo", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  "todos",
		"user.id":   ownerID,
		"todo.id":   todoID,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.
		Update("todos").
		Set("label", label).
		Where(ownedBy(ownerID, todoID)).
		ToSql()

	if err != nil {
		return fmt.Errorf("build update todo: %w", err)
	}

	err = tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		return execScoped(ctx, tx, query, args)
	})

	if _, ok := sqlite.UniqueViolation(err); ok {
		err = domain.ErrDuplicateTodo
	}

	tr.telemetry.RecordRepositoryOperation(ctx, "UpdateLabel", "todo", time.Since(startTime), err)

	return err
}

func (tr *TodoRepository) DeleteByOwner(ctx context.Context, ownerID, todoID int) error {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "DeleteByOwner", "todo", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  "todos",
		"user.id":   ownerID,
		"todo.id":   todoID,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.
		Delete("todos").
		Where(ownedBy(ownerID, todoID)).
		ToSql()

	if err != nil {
		return fmt.Errorf("build delete todo: %w", err)
	}

	err = tr.db.WithTx(ctx, func(tx *sql.Tx) error {
		return execScoped(ctx, tx, query, args)
	})

	tr.telemetry.RecordRepositoryOperation(ctx, "DeleteByOwner", "todo", time.Since(startTime), err)

	return err
}

// execScoped runs a single-row mutation and reports ErrTodoNotFound when the
// owner-scoped predicate matched nothing.
func execScoped(ctx context.Context, tx *sql.Tx, query string, args []interface{}) error {
	result, err := tx.ExecContext(ctx, query, args...)

	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrTodoNotFound
	}

	return nil
}
