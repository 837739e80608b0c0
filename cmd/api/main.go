package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/priceless-app/priceless-backend/api/responses"
	"github.com/priceless-app/priceless-backend/api/routes"
	"github.com/priceless-app/priceless-backend/internal/buyoffers"
	"github.com/priceless-app/priceless-backend/internal/manualbuys"
	"github.com/priceless-app/priceless-backend/internal/selloffers"
	"github.com/priceless-app/priceless-backend/internal/shoppurchases"
	"github.com/priceless-app/priceless-backend/internal/users"
	"github.com/priceless-app/priceless-backend/pkg/config"
	"github.com/priceless-app/priceless-backend/pkg/db"
	"github.com/priceless-app/priceless-backend/pkg/logger"
	"github.com/priceless-app/priceless-backend/pkg/metrics"
	"github.com/priceless-app/priceless-backend/pkg/migrate"
	"github.com/priceless-app/priceless-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	responses.EchoInternalMessages = !cfg.App.IsProd()

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var cache routes.Cache
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		cache = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency cache disabled")
	}

	userService, err := users.NewService(users.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	buyOfferRepo := buyoffers.NewRepository(dbClient.DB())
	buyOfferService, err := buyoffers.NewService(buyOfferRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create buy offer service", err)
		os.Exit(1)
	}
	sellOfferService, err := selloffers.NewService(selloffers.NewRepository(dbClient.DB()), buyOfferRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create sell offer service", err)
		os.Exit(1)
	}
	manualBuyService, err := manualbuys.NewService(manualbuys.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create manual buy service", err)
		os.Exit(1)
	}
	shopPurchaseService, err := shoppurchases.NewService(shoppurchases.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create shop purchase service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reqMetrics := metrics.NewRequestMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting mirror api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, cache, reqMetrics, registry,
			userService, buyOfferService, sellOfferService, manualBuyService, shopPurchaseService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "mirror api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
