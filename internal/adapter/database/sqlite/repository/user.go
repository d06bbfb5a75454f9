package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"usertodos/internal/adapter/database/sqlite"
	"usertodos/internal/core/domain"
	"usertodos/internal/core/port"
	tel "usertodos/internal/core/telemetry"
)

var userColumns = []string{"id", "username", "email", "first_name", "last_name", "birthdate", "password_hash", "created_at"}

type UserRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *sqlite.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, "Create", "user", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  "users",
	})
	defer span.End()

	startTime := time.Now()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query, args, err := ur.db.QueryBuilder.
		Insert("users").
		Columns("username", "email", "first_name", "last_name", "birthdate", "password_hash", "created_at").
		Values(user.Username, user.Email, user.FirstName, user.LastName, user.Birthdate.UTC(), user.PasswordHash, user.CreatedAt.UTC()).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		ur.telemetry.RecordRepositoryOperation(ctx, "Create", "user", time.Since(startTime), err)
		return domain.User{}, fmt.Errorf("build insert user: %w", err)
	}

	err = ur.db.WithTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, args...).Scan(&user.ID)
	})

	if columns, ok := sqlite.UniqueViolation(err); ok {
		err = duplicateUserError(columns)
	}

	ur.telemetry.RecordRepositoryOperation(ctx, "Create", "user", time.Since(startTime), err)

	if err != nil {
		return domain.User{}, err
	}

	span.SetAttributes(map[string]interface{}{"user.id": user.ID})

	return user, nil
}

func (ur *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return ur.getOne(ctx, "GetByUsername", sq.Eq{"username": username})
}

func (ur *UserRepository) GetByID(ctx context.Context, id int) (domain.User, error) {
	return ur.getOne(ctx, "GetByID", sq.Eq{"id": id})
}

func (ur *UserRepository) getOne(ctx context.Context, operation string, where sq.Eq) (domain.User, error) {
	ctx, span := ur.telemetry.StartRepositorySpan(ctx, operation, "user", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  "users",
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := ur.db.QueryBuilder.
		Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, fmt.Errorf("build select user: %w", err)
	}

	var user domain.User

	err = ur.db.WithTx(ctx, func(tx *sql.Tx) error {
		return scanUser(tx.QueryRowContext(ctx, query, args...), &user)
	})

	if errors.Is(err, sql.ErrNoRows) {
		err = domain.ErrUserNotFound
	}

	ur.telemetry.RecordRepositoryOperation(ctx, operation, "user", time.Since(startTime), err)

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func scanUser(row *sql.Row, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Birthdate,
		&user.PasswordHash,
		&user.CreatedAt,
	)
}

func duplicateUserError(columns string) error {
	switch {
	case strings.Contains(columns, "users.username"):
		return domain.ErrDuplicateUsername
	case strings.Contains(columns, "users.email"):
		return domain.ErrDuplicateEmail
	default:
		return domain.ErrDuplicateEntity
	}
}
