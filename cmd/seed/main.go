package main

import (
	"context"
	"os"

	"trendora/internal/config"
	"trendora/internal/db"
	"trendora/internal/logging"
	"trendora/internal/migrate"
	productrepo "trendora/internal/repository/product"
	"trendora/internal/seed"
)

func main() {
	cfg, err := config.FromEnv()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat, "seed")
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

	n, err := seed.Apply(ctx, productrepo.NewPostgres(pool, &logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("seed apply")
	}
	logger.Info().Int("products", n).Msg("seed applied")
}
