package factory

import (
	"fmt"
	"sync/atomic"
	"time"

	"usertodos/internal/core/domain"

	fab "github.com/Goldziher/fabricator"
	"golang.org/x/crypto/bcrypt"
)

const DefaultPassword = "pw123456"

var sequence atomic.Int64

// NewUser builds a user with unique username and email and a bcrypt hash of
// DefaultPassword unless customData overrides them.
func NewUser(customData ...map[string]any) domain.User {
	n := sequence.Add(1)

	hash, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)

	defaults := map[string]any{
		"ID":           0,
		"Username":     fmt.Sprintf("user%d", n),
		"Email":        fmt.Sprintf("user%d@example.com", n),
		"FirstName":    "Test",
		"LastName":     fmt.Sprintf("User%d", n),
		"Birthdate":    time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
		"PasswordHash": string(hash),
		"CreatedAt":    time.Time{},
	}

	return fab.New(domain.User{}).Build(merge(defaults, customData...))
}

func merge(defaults map[string]any, customData ...map[string]any) map[string]any {
	for _, data := range customData {
		for key, value := range data {
			defaults[key] = value
		}
	}

	return defaults
}
