package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"trendora/internal/config"
	"trendora/internal/db"
	"trendora/internal/importer"
	"trendora/internal/logging"
	"trendora/internal/migrate"
	"trendora/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to catalog CSV (id,name,description,price,discountedPrice,discount,image,category)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat, "importer")
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

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal().Err(err).Str("file", filePath).Msg("open file")
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, product.NewPostgres(pool, &logger), &logger)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Int("imported", count).Msg("import failed")
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
