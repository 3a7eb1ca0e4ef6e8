package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // Import postgres driver
)

const defaultConnectTimeout = 5 * time.Second

// Options describes the act store connection and its pool.
type Options struct {
	DSN             string
	ConnectTimeout  time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connect opens the pool, waits for postgres to answer and makes sure the
// league_matches and match_acts tables exist.
func Connect(ctx context.Context, opts Options, logger *slog.Logger) (*sql.DB, error) {
	conn, err := sql.Open("postgres", opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	if err := prepare(ctx, conn, opts); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close database handle", slog.Any("error", closeErr))
		}
		return nil, err
	}

	logger.Info("database ready",
		slog.Int("max_open_conns", opts.MaxOpenConns),
		slog.Int("schema_statements", len(schema)))
	return conn, nil
}

func prepare(ctx context.Context, conn *sql.DB, opts Options) error {
	conn.SetMaxOpenConns(opts.MaxOpenConns)
	conn.SetMaxIdleConns(opts.MaxIdleConns)
	conn.SetConnMaxLifetime(opts.ConnMaxLifetime)

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}

	return EnsureSchema(ctx, conn)
}
