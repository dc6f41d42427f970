package config

import (
	"context"
	"fmt"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/ferdian3456/staffroster/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// NewPostgresqlPool opens a traced pool on POSTGRES_URL and applies the
// embedded migrations. The document table sees one writer at a time, so
// the pool stays small.
func NewPostgresqlPool(ctx context.Context, config *koanf.Koanf, log *zap.Logger) (*pgxpool.Pool, error) {
	POSTGRES_URL := config.String("POSTGRES_URL")

	pgxConfig, err := pgxpool.ParseConfig(POSTGRES_URL)
	if err != nil {
		return nil, fmt.Errorf("parse POSTGRES_URL: %w", err)
	}

	pgxConfig.MaxConns = 4
	pgxConfig.MinConns = 1
	pgxConfig.MaxConnLifetime = 30 * time.Minute
	pgxConfig.MaxConnIdleTime = 5 * time.Minute
	pgxConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(ctx, pgxConfig)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgresql: %w", err)
	}

	err = db.Migrate(POSTGRES_URL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgresql: %w", err)
	}

	log.Info("postgresql ready", zap.String("host", pgxConfig.ConnConfig.Host))

	return pool, nil
}
