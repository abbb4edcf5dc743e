// Copyright (c) 2026 Libris. All rights reserved.
// Author: dang.vh.dev@gmail.com

// Package postgres provides the managed PostgreSQL connection pool for the
// Libris application.
//
// # Architecture
//
// This package is the Persistence Gateway: it owns the single shared,
// process-lifetime connection handle. The pool is constructed exactly once in
// main and injected into repositories — there is no ambient global state.
// pgxpool serializes physical connection management underneath, so callers
// may share the handle freely across concurrent requests.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dangvh/libris/internal/platform/constants"
)

// Opinionated pool settings for the Libris workload.
const (
	// maxConns is the maximum number of connections in the pool.
	maxConns = 25
	// minConns keeps a warm set of connections to avoid cold-start latency.
	minConns = 5
	// maxConnLifetime ensures connections are periodically recycled.
	maxConnLifetime = 60 * time.Minute
	// maxConnIdleTime closes connections that have been idle too long.
	maxConnIdleTime = 10 * time.Minute
	// healthCheckPeriod is the frequency of background connection health checks.
	healthCheckPeriod = 1 * time.Minute
	// connectTimeout is the maximum time allowed to establish a new connection.
	connectTimeout = 5 * time.Second
	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second

	// connectAttempts bounds startup retries before surfacing a fatal error.
	connectAttempts = 3
	// connectBackoff is the pause between startup retries.
	connectBackoff = 2 * time.Second
)

// NewPool creates and validates a new PostgreSQL connection pool.
//
// Connection establishment is retried a bounded number of times; after
// exhaustion the error is surfaced to the caller (fatal at startup).
func NewPool(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	// Apply pool tuning parameters.
	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = minConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	// AfterConnect is called each time a new physical connection is established.
	poolConfig.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		// Set a per-connection statement timeout to avoid runaway queries.
		timeoutQuery := fmt.Sprintf("SET statement_timeout = '%ds'", int(constants.GlobalRequestTimeout.Seconds()))
		_, err := connection.Exec(ctx, timeoutQuery)
		return err
	}

	var pool *pgxpool.Pool
	var lastErr error

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		pool, lastErr = pgxpool.NewWithConfig(connectCtx, poolConfig)
		cancel()

		if lastErr == nil {
			if lastErr = Ping(ctx, pool); lastErr == nil {
				break
			}
			pool.Close()
			pool = nil
		}

		logger.Warn("postgres connect attempt failed",
			slog.Int("attempt", attempt),
			slog.Any("error", lastErr),
		)

		if attempt < connectAttempts {
			time.Sleep(connectBackoff)
		}
	}

	if pool == nil {
		return nil, fmt.Errorf("postgres: failed to connect after %d attempts: %w", connectAttempts, lastErr)
	}

	stats := pool.Stat()
	logger.Info("postgres pool connected",
		slog.Int("max_conns", int(stats.MaxConns())),
		slog.Int("total_conns", int(stats.TotalConns())),
	)

	return pool, nil
}

// Ping verifies that the PostgreSQL connection pool is healthy.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}

	return nil
}
