package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing for the panel workload: every request does at most a couple of
// short transactions (ledger apply + a repository write), so a modest cap
// keeps order bursts from exhausting the database's connection slots.
const (
	poolMaxConns          = 16
	poolMaxConnLifetime   = 30 * time.Minute
	poolHealthCheckPeriod = time.Minute
	connectTimeout        = 5 * time.Second
)

// NewPostgresPool builds the pgx pool shared by the ledger engine and the
// repositories.
func NewPostgresPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, fmt.Errorf("database url is required")
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	cfg.MaxConns = poolMaxConns
	cfg.MaxConnLifetime = poolMaxConnLifetime
	cfg.HealthCheckPeriod = poolHealthCheckPeriod
	cfg.ConnConfig.RuntimeParams["application_name"] = "boostpanel"

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}
