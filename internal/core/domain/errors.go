package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized       = errors.New("could not validate credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("username or password is invalid")
	ErrInvalidInput       = errors.New("invalid input")
	ErrCorruptHash        = errors.New("stored password hash is malformed")

	ErrNotFound     = errors.New("not found")
	ErrTodoNotFound = fmt.Errorf("todo %w", ErrNotFound)
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	ErrDuplicateEntity   = errors.New("duplicate entity")
	ErrDuplicateUsername = fmt.Errorf("username: %w", ErrDuplicateEntity)
	ErrDuplicateEmail    = fmt.Errorf("email: %w", ErrDuplicateEntity)
	ErrDuplicateTodo     = fmt.Errorf("todo: %w", ErrDuplicateEntity)
)

// Error pairs a sentinel with a message that is safe to show to clients.
type Error struct {
	Err     error
	Message string
}

func NewError(err error, format string, args ...any) *Error {
	return &Error{
		Err:     err,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *Error) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PublicMessage returns the client-facing message carried by err, if any.
func PublicMessage(err error) (string, bool) {
	var de *Error

	if errors.As(err, &de) && de.Message != "" {
		return de.Message, true
	}

	return "", false
}
