package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"trendora/internal/config"
	"trendora/internal/events"
	"trendora/internal/httpserver"
	"trendora/internal/logging"
	orderrepo "trendora/internal/repository/order"
	productrepo "trendora/internal/repository/product"
	"trendora/internal/seed"
	"trendora/internal/service/auth"
	"trendora/internal/service/catalog"
	"trendora/internal/service/checkout"
	"trendora/internal/service/orders"
	"trendora/internal/session"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		boot := logging.New(os.Stderr, "info", "console", "api")
		boot.Fatal().Err(err).Msg("load config")
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat, "api")

	ctx := context.Background()
	slotsBackend, err := openBackend(ctx, cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("open storage")
	}
	defer slotsBackend.close()

	var productRepo productrepo.Repository
	if slotsBackend.pool != nil {
		productRepo = productrepo.NewPostgres(slotsBackend.pool, &logger)
	} else {
		mem := productrepo.NewMemory()
		n, err := seed.Apply(ctx, mem)
		if err != nil {
			logger.Fatal().Err(err).Msg("seed in-memory catalog")
		}
		logger.Info().Int("products", n).Msg("in-memory catalog seeded")
		productRepo = mem
	}

	publisher := events.Nop()
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafka(cfg.KafkaBrokers, cfg.KafkaOrderTopic, &logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("init kafka publisher")
		}
	}
	defer publisher.Close()

	orderRepo := orderrepo.NewSlots(slotsBackend.slots, &logger)
	checkoutService := checkout.New(orderRepo, checkout.SimulatedGateway{Delay: cfg.CheckoutDelay},
		checkout.WithDeliveryCharge(cfg.DeliveryCharge),
		checkout.WithTimeout(cfg.CheckoutTimeout),
		checkout.WithPublisher(publisher),
		checkout.WithLogger(&logger),
	)

	sessions := session.NewRegistry(slotsBackend.slots,
		session.WithPersistentCart(cfg.PersistCart),
		session.WithIdleTTL(cfg.SessionIdleTTL),
		session.WithLogger(&logger),
	)
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sessions.Run(sweepCtx, cfg.SessionSweepInterval)

	authClient := auth.NewClient(cfg.AuthBaseURL, cfg.AuthTimeout, auth.WithLogger(&logger))
	srv, err := httpserver.New(cfg.HTTPAddr, &logger, slotsBackend.ready, httpserver.Deps{
		Catalog:        catalog.New(productRepo),
		Sessions:       sessions,
		Checkout:       checkoutService,
		Orders:         orders.New(orderRepo),
		Auth:           authClient,
		DeliveryCharge: cfg.DeliveryCharge,
		CORSOrigins:    cfg.CORSOrigins,
		CookieSecure:   cfg.CookieSecure,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.HTTPAddr).
			Str("storage", cfg.StorageBackend).
			Bool("persist_cart", cfg.PersistCart).
			Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		logger.Info().Msg("server stopped")
	}
}
