package main

import (
	"context"
	"os"

	"trendora/internal/config"
	"trendora/internal/db"
	"trendora/internal/logging"
	"trendora/internal/migrate"
)

func main() {
	cfg, err := config.FromEnv()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat, "migrate")
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBPool)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}

	version, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		logger.Fatal().Err(err).Msg("read schema version")
	}
	logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
}
