package security_test

import (
	"errors"
	"strings"
	"testing"

	"usertodos/internal/core/domain"
	"usertodos/internal/core/security"

	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	RegisterTestingT(t)

	hasher := security.NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("pw123")
	Expect(err).To(BeNil())

	second, err := hasher.Hash("pw123")
	Expect(err).To(BeNil())

	Expect(first).NotTo(Equal("pw123"))
	Expect(first).NotTo(Equal(second))

	ok, err := hasher.Verify("pw123", first)
	Expect(err).To(BeNil())
	Expect(ok).To(BeTrue())

	ok, err = hasher.Verify("pw123", second)
	Expect(err).To(BeNil())
	Expect(ok).To(BeTrue())
}

func TestBcryptHasherWrongPassword(t *testing.T) {
	RegisterTestingT(t)

	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	hash, _ := hasher.Hash("pw123")

	ok, err := hasher.Verify("pw124", hash)

	Expect(err).To(BeNil())
	Expect(ok).To(BeFalse())
}

func TestBcryptHasherCorruptHash(t *testing.T) {
	RegisterTestingT(t)

	hasher := security.NewBcryptHasher()

	for _, stored := range []string{"", "not-a-hash", "$2a$10$short"} {
		ok, err := hasher.Verify("pw123", stored)

		Expect(ok).To(BeFalse())
		Expect(errors.Is(err, domain.ErrCorruptHash)).To(BeTrue(), stored)
	}
}

func TestNewBcryptHasherIgnoresInvalidCost(t *testing.T) {
	RegisterTestingT(t)

	hash, err := security.NewBcryptHasher(99).Hash("pw123")
	Expect(err).To(BeNil())

	cost, err := bcrypt.Cost([]byte(hash))
	Expect(err).To(BeNil())
	Expect(cost).To(Equal(bcrypt.DefaultCost))
}

func TestBcryptHasherPasswordTooLongIsInvalidInput(t *testing.T) {
	RegisterTestingT(t)

	hasher := security.NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("é", 40))

	Expect(errors.Is(err, domain.ErrInvalidInput)).To(BeTrue())

	message, ok := domain.PublicMessage(err)
	Expect(ok).To(BeTrue())
	Expect(message).To(Equal("Password must be at most 72 bytes long"))

	_, err = hasher.Hash(strings.Repeat("a", security.MaxPasswordBytes))
	Expect(err).To(BeNil())
}
