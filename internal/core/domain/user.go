package domain

import (
	"time"
)

const BirthdateLayout = "2006-01-02"

type User struct {
	ID           int
	Username     string
	Email        string
	FirstName    string
	LastName     string
	Birthdate    time.Time
	PasswordHash string
	CreatedAt    time.Time
}

// Identity is the principal resolved from a bearer token. It lives for a
// single request and is safe to cache because it never carries the hash.
type Identity struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Identity() Identity {
	return Identity{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

func (u *User) BirthdateString() string {
	return u.Birthdate.Format(BirthdateLayout)
}

func ParseBirthdate(value string) (time.Time, error) {
	return time.ParseInLocation(BirthdateLayout, value, time.UTC)
}
