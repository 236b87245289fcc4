package repository

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Database is the subset of *pgxpool.Pool used by the repository. pgxmock satisfies it in tests.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	poolMinConns          = 3
	poolMaxConnIdleTime   = 30 * time.Second
	poolHealthCheckPeriod = 30 * time.Second
	connectTimeout        = 5 * time.Second
)

// DSN builds a postgres:// connection URL with escaped credentials.
func DSN(host, port, username, password, dbName string) string {
	dbURL := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(username, password),
		Host:     net.JoinHostPort(host, port),
		Path:     dbName,
		RawQuery: "sslmode=disable",
	}

	return dbURL.String()
}

// NewDatabase connects to the employee database described by the given parameters.
func NewDatabase(host, port, username, password, dbName string) (*pgxpool.Pool, error) {
	return Connect(DSN(host, port, username, password, dbName))
}

// Connect creates a pool from a connection string and verifies it with a ping.
func Connect(dbURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MinConns = poolMinConns
	poolConfig.MaxConnIdleTime = poolMaxConnIdleTime
	poolConfig.HealthCheckPeriod = poolHealthCheckPeriod

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err = dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("failed to reach postgres at %s: %w", poolConfig.ConnConfig.Host, err)
	}

	return dbpool, nil
}
