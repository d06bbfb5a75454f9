package security

import (
	"errors"
	"fmt"

	"usertodos/internal/core/domain"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost ...int) *BcryptHasher {
	c := bcrypt.DefaultCost

	if len(cost) > 0 && cost[0] >= bcrypt.MinCost && cost[0] <= bcrypt.MaxCost {
		c = cost[0]
	}

	return &BcryptHasher{cost: c}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	encrypted, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.NewError(domain.ErrInvalidInput, "Password must be at most %d bytes long", MaxPasswordBytes)
	}

	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(encrypted), nil
}

// Verify returns (false, nil) for a wrong password and domain.ErrCorruptHash
// when the stored hash cannot be parsed.
func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", domain.ErrCorruptHash, err)
	}
}
