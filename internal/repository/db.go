package repository

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Config struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// DB bundles the Ent SQL driver with the pool backing it.
type DB struct {
	drv     *entsql.Driver
	dialect string
	pool    *pgxpool.Pool // postgres only
	sqlite  *stdsql.DB    // sqlite only
	logger  *slog.Logger
}

// Dialect returns the SQL dialect name (dialect.Postgres or dialect.SQLite).
func (db *DB) Dialect() string { return db.dialect }

// IsPostgres reports whether dsn selects the postgres backend.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to postgres (pgx pool) for postgres:// DSNs and to SQLite
// otherwise, and wraps the connection for Ent.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	if IsPostgres(cfg.DSN) {
		return openPostgres(ctx, cfg, logger)
	}
	return openSQLite(cfg, logger)
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to database", "dialect", dialect.Postgres)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database dsn", "error", err)
		return nil, err
	}

	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "sitzungsdienst"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", cfg.StatementTimeout.Milliseconds())
	}

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	// Wrap pool as *sql.DB for Ent
	db := stdlib.OpenDBFromPool(pool)
	logger.Info("successfully connected to database")
	return &DB{
		drv:     entsql.OpenDB(dialect.Postgres, db),
		dialect: dialect.Postgres,
		pool:    pool,
		logger:  logger,
	}, nil
}

func openSQLite(cfg Config, logger *slog.Logger) (*DB, error) {
	dsn := strings.TrimPrefix(cfg.DSN, "sqlite://")
	logger.Info("opening database", "dialect", dialect.SQLite, "dsn", dsn)
	db, err := stdsql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return nil, err
	}
	// one connection: in-memory databases are per connection, and SQLite
	// serializes writers anyway
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &DB{
		drv:     entsql.OpenDB(dialect.SQLite, db),
		dialect: dialect.SQLite,
		sqlite:  db,
		logger:  logger,
	}, nil
}

// Close closes the database connections gracefully
func (db *DB) Close() {
	if db == nil {
		return
	}
	db.logger.Info("closing database connections")
	if err := db.drv.Close(); err != nil {
		db.logger.Error("failed to close ent driver", "error", err)
	}
	if db.pool != nil {
		db.pool.Close()
	}
	db.logger.Info("database connections closed")
}

// HealthCheck pings the database to catch DSN issues early.
func (db *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	db.logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	var err error
	if db.pool != nil {
		err = db.pool.Ping(ctx)
	} else {
		err = db.sqlite.PingContext(ctx)
	}
	if err != nil {
		return err
	}
	db.logger.Debug("database ping successful")
	return nil
}
