package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"trendora/internal/config"
	"trendora/internal/db"
	"trendora/internal/httpserver"
	"trendora/internal/migrate"
	"trendora/internal/storage"
)

// backend is the opened slot storage plus whatever must be closed with it.
type backend struct {
	slots  storage.Slots
	ready  httpserver.Pinger
	pool   *pgxpool.Pool
	closer func()
}

func (b backend) close() {
	if b.closer != nil {
		b.closer()
	}
}

func openBackend(ctx context.Context, cfg config.Config, logger *zerolog.Logger) (backend, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBPool)
		if err != nil {
			return backend{}, fmt.Errorf("connect db: %w", err)
		}
		if err := migrate.Apply(ctx, pool); err != nil {
			pool.Close()
			return backend{}, fmt.Errorf("apply migrations: %w", err)
		}
		return backend{slots: storage.NewPostgres(pool), ready: pool, pool: pool, closer: pool.Close}, nil

	case config.BackendRedis:
		client, err := storage.NewRedisClient(ctx, cfg.RedisAddr,
			storage.WithRedisPassword(cfg.RedisPassword),
			storage.WithRedisDB(cfg.RedisDB),
		)
		if err != nil {
			return backend{}, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		ready := httpserver.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
		return backend{
			slots:  storage.NewRedis(client, cfg.RedisPrefix),
			ready:  ready,
			closer: func() { _ = client.Close() },
		}, nil

	case config.BackendSQLite:
		s, err := storage.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return backend{}, err
		}
		return backend{slots: s, ready: s, closer: func() { _ = s.Close() }}, nil

	default:
		logger.Warn().Msg("memory storage: favorites and orders are lost on restart")
		return backend{slots: storage.NewMemory()}, nil
	}
}
