// Package sqlstore implements docstore.Store over SQLite (modernc) or
// PostgreSQL (pgx). Documents are JSON bodies in a single table; unique
// indexes are rows in unique_keys whose primary key enforces uniqueness.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/pressly/goose/v3"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/iudanet/fasalsaathi/internal/server/storage/docstore"
)

// Supported dialects.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedMigrations embed.FS

// goose keeps its dialect and filesystem in package globals.
var gooseMu sync.Mutex

// Config describes how to reach the database.
type Config struct {
	Dialect string
	// DSN is a file path (or ":memory:") for SQLite and a connection URL for PostgreSQL.
	DSN string
	// ConnectRetries is how many extra pings are attempted while the server comes up.
	ConnectRetries uint64
}

// Storage is a SQL-backed document store.
type Storage struct {
	db      *sql.DB
	indexes docstore.Indexes
	dialect string
}

var _ docstore.Store = (*Storage)(nil)

// New opens the database and applies pending migrations.
func New(ctx context.Context, cfg Config, indexes docstore.Indexes) (*Storage, error) {
	s, err := Open(ctx, cfg, indexes)
	if err != nil {
		return nil, err
	}

	if err := s.Migrate(ctx); err != nil {
		s.db.Close()
		return nil, err
	}
	return s, nil
}

// Open connects to the database without running migrations.
func Open(ctx context.Context, cfg Config, indexes docstore.Indexes) (*Storage, error) {
	var driver string
	switch cfg.Dialect {
	case DialectSQLite:
		driver = "sqlite"
	case DialectPostgres:
		driver = "pgx"
	default:
		return nil, oops.Code("STORE_INVALID_DIALECT").Errorf("unsupported sql dialect %q", cfg.Dialect)
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, oops.Code("STORE_OPEN_FAILED").With("dialect", cfg.Dialect).Wrapf(err, "failed to open database")
	}

	backoff := retry.WithMaxRetries(cfg.ConnectRetries, retry.NewExponential(200*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, oops.Code("STORE_OPEN_FAILED").With("dialect", cfg.Dialect).Wrapf(err, "failed to ping database")
	}

	if cfg.Dialect == DialectSQLite {
		// One writer at a time; WAL still lets readers proceed.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		pragmas := []string{
			"PRAGMA journal_mode = WAL;",
			"PRAGMA synchronous = NORMAL;",
			"PRAGMA busy_timeout = 5000;",
		}
		for _, pragma := range pragmas {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				db.Close()
				return nil, oops.Code("STORE_OPEN_FAILED").With("pragma", pragma).Wrapf(err, "failed to set pragma")
			}
		}
	}

	return &Storage{db: db, dialect: cfg.Dialect, indexes: indexes}, nil
}

// Migrate applies the embedded migrations for the storage dialect.
func (s *Storage) Migrate(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	gooseDialect := "sqlite3"
	if s.dialect == DialectPostgres {
		gooseDialect = "postgres"
	}
	if err := goose.SetDialect(gooseDialect); err != nil {
		return oops.Code("STORE_MIGRATION_FAILED").Wrap(err)
	}
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.UpContext(ctx, s.db, "migrations/"+s.dialect); err != nil {
		return oops.Code("STORE_MIGRATION_FAILED").With("dialect", s.dialect).Wrapf(err, "goose up failed")
	}
	return nil
}

// Ping checks connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Storage) Close() error {
	return s.db.Close()
}

// DB returns the underlying connection pool for tests.
func (s *Storage) DB() *sql.DB {
	return s.db
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Storage) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a transaction, committing on success and rolling back on
// error or panic.
func (s *Storage) withTx(ctx context.Context, fn func(ctx context.Context, tx dbtx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
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
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}
