package port

import (
	"context"

	"usertodos/internal/core/domain"
	"usertodos/internal/core/model/request"
)

type AuthService interface {
	Register(ctx context.Context, req *request.CreateUserRequest) (*domain.User, error)
	Login(ctx context.Context, req *request.LoginRequest) (string, error)
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// TokenIssuer verification reports every failure as domain.ErrInvalidToken.
type TokenIssuer interface {
	Issue(subject string) (string, error)
	Verify(token string) (string, error)
}
