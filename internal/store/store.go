// Package store opens the relational store behind the storage gateway and
// keeps its schema current.
package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"Social/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrations embed.FS

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// OpenPostgres connects a pgx pool and exposes it through database/sql.
// Closing the returned DB does not close the pool; callers close both.
func OpenPostgres(ctx context.Context, dsn string, maxConns int32) (*sqlx.DB, *pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = min(2, maxConns)
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("pg connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pg ping: %w", err)
	}

	return sqlx.NewDb(stdlib.OpenDBFromPool(pool), config.DriverPostgres), pool, nil
}

// OpenSQLite opens a SQLite database file with foreign keys enforced on
// every pooled connection.
func OpenSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sqlx.Open(config.DriverSQLite, path+sep+sqlitePragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Open opens the store selected by cfg. The pool is nil for SQLite.
func Open(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, *pgxpool.Pool, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DSN, cfg.MaxConns)
	case config.DriverSQLite:
		db, err := OpenSQLite(ctx, cfg.DSN)
		return db, nil, err
	default:
		return nil, nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// Migrate applies all pending migrations for the driver's dialect.
func Migrate(ctx context.Context, db *sqlx.DB, driver string) ([]*goose.MigrationResult, error) {
	p, err := newProvider(db, driver)
	if err != nil {
		return nil, err
	}
	res, err := p.Up(ctx)
	if err != nil {
		return res, fmt.Errorf("goose up: %w", err)
	}
	return res, nil
}

// Status reports applied and pending migrations.
func Status(ctx context.Context, db *sqlx.DB, driver string) ([]*goose.MigrationStatus, error) {
	p, err := newProvider(db, driver)
	if err != nil {
		return nil, err
	}
	return p.Status(ctx)
}

func newProvider(db *sqlx.DB, driver string) (*goose.Provider, error) {
	var (
		dialect goose.Dialect
		dir     string
	)
	switch driver {
	case config.DriverPostgres:
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	case config.DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return nil, fmt.Errorf("migrations fs: %w", err)
	}
	p, err := goose.NewProvider(dialect, db.DB, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return p, nil
}
