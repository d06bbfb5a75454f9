package test

import (
	"context"
	"log"
	"testing"
	"time"

	"usertodos/internal/adapter/database/sqlite"
	"usertodos/internal/core/security"

	"golang.org/x/crypto/bcrypt"
)

const TestJWTSecret = "test-secret"

// InitTestDB opens a private in-memory sqlite database with the schema
// applied.
func InitTestDB() *sqlite.DB {
	db, err := sqlite.Open(sqlite.Options{Path: ":memory:"})

	if err != nil {
		log.Fatal(err)
	}

	return db
}

func NewTestHasher() *security.BcryptHasher {
	return security.NewBcryptHasher(bcrypt.MinCost)
}

func NewTestIssuer(opts ...security.JWTOption) *security.JWTIssuer {
	issuer, err := security.NewJWTIssuer(TestJWTSecret, opts...)

	if err != nil {
		log.Fatal(err)
	}

	return issuer
}

// CleanDB empties every application table. Table names are read before any
// delete runs because the in-memory database has a single connection.
func CleanDB(t *testing.T, db *sqlite.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT IN ('sqlite_sequence', 'schema_migrations')")

	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}

	var tables []string

	for rows.Next() {
		var table string

		if err := rows.Scan(&table); err != nil {
			rows.Close()
			t.Fatalf("Failed to scan table name: %v", err)
		}

		tables = append(tables, table)
	}

	if err := rows.Err(); err != nil {
		t.Fatalf("Error iterating over rows: %v", err)
	}

	rows.Close()

	// todos first so the foreign key never blocks the users delete
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+tables[i]); err != nil {
			t.Fatalf("Failed to execute delete for table %s: %v", tables[i], err)
		}
	}
}
