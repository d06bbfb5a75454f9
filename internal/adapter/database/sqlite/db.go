package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"usertodos/db/migrations"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"
)

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

type Options struct {
	Path       string
	LogQueries bool
	Logger     *zerolog.Logger
}

// DSN enables foreign keys and a busy timeout on every pooled connection.
func DSN(path string) string {
	params := "_foreign_keys=on&_busy_timeout=5000"

	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		if strings.Contains(path, "?") {
			return path + "&" + params
		}

		return path + "?" + params
	}

	return "file:" + path + "?_journal_mode=WAL&" + params
}

// Open connects to the sqlite file at opts.Path through the otelsql driver,
// applies the embedded migrations and optionally logs every query through
// zerolog.
func Open(opts Options) (*DB, error) {
	if opts.Path == "" {
		opts.Path = "todos.db"
	}

	dsn := DSN(opts.Path)

	sqlDB, err := otelsql.Open("sqlite3", dsn,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("usertodos"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if opts.LogQueries {
		logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

		if opts.Logger != nil {
			logger = *opts.Logger
		}

		driver := sqlDB.Driver()
		_ = sqlDB.Close()

		sqlDB = sqldblogger.OpenDriver(dsn, driver, zerologadapter.New(logger),
			sqldblogger.WithSQLQueryFieldname("query"),
			sqldblogger.WithMinimumLevel(sqldblogger.LevelDebug),
		)
	}

	if opts.Path == ":memory:" {
		// every connection would otherwise get its own empty database
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := RunMigrations(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return New(sqlDB), nil
}

func New(sqlDB *sql.DB) *DB {
	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &queryBuilder,
	}
}

// RunMigrations applies the embedded sqlite schema. The migrate instance is
// not closed because its driver would close db.
func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations.SQLite, "sqlite")

	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// WithTx runs fn inside a transaction that is committed only when fn returns
// nil. Errors, panics and context cancellation all roll back.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)

	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			_ = tx.Rollback()
			return
		}

		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("commit tx: %w", commitErr)
		}
	}()

	return fn(tx)
}
