package sqlite

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// UniqueViolation reports whether err is a sqlite UNIQUE constraint failure
// and returns the "table.column" list sqlite names in the message.
func UniqueViolation(err error) (string, bool) {
	var sqliteErr sqlite3.Error

	if errors.As(err, &sqliteErr) {
		if sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique && sqliteErr.ExtendedCode != sqlite3.ErrConstraintPrimaryKey {
			return "", false
		}

		return constraintColumns(sqliteErr.Error()), true
	}

	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return constraintColumns(err.Error()), true
	}

	return "", false
}

func constraintColumns(message string) string {
	const marker = "UNIQUE constraint failed: "

	if idx := strings.Index(message, marker); idx >= 0 {
		return message[idx+len(marker):]
	}

	return message
}
