package domain

import (
	"time"
)

type Todo struct {
	ID        int
	Label     string
	UserID    int
	CreatedAt time.Time
}
