package db

import (
	"context"
	"database/sql"
	_ "embed"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rexxDigital/snailmail/internal/config"
	_ "modernc.org/sqlite"
)

//go:embed schema_sqlite.sql
var sqliteDDL string

//go:embed schema_postgres.sql
var postgresDDL string

type Client struct {
	DB     *sql.DB
	driver string
}

// NewClient opens the store named by cfg and creates the mail table.
func NewClient(ctx context.Context, cfg config.DatabaseConfig) (*Client, error) {
	switch cfg.Driver {
	case "sqlite":
		return openSQLite(ctx, cfg.DSN)
	case "postgres":
		return openPostgres(ctx, cfg.DSN)
	default:
		return nil, errors.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func openSQLite(ctx context.Context, path string) (*Client, error) {
	dbConn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	dbConn.SetMaxOpenConns(1)
	dbConn.SetMaxIdleConns(1)
	dbConn.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=10000;",
	}

	for _, pragma := range pragmas {
		if _, err := dbConn.ExecContext(ctx, pragma); err != nil {
			_ = dbConn.Close()
			return nil, errors.Wrapf(err, "set pragma %s", pragma)
		}
	}

	return migrate(ctx, dbConn, "sqlite", sqliteDDL)
}

func openPostgres(ctx context.Context, dsn string) (*Client, error) {
	dbConn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}

	if err := dbConn.PingContext(ctx); err != nil {
		_ = dbConn.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}

	dbConn.SetMaxOpenConns(10)
	dbConn.SetConnMaxLifetime(time.Hour)

	return migrate(ctx, dbConn, "postgres", postgresDDL)
}

func migrate(ctx context.Context, dbConn *sql.DB, driver, ddl string) (*Client, error) {
	if _, err := dbConn.ExecContext(ctx, ddl); err != nil {
		_ = dbConn.Close()
		return nil, errors.Wrap(err, "create tables")
	}

	return &Client{DB: dbConn, driver: driver}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}
