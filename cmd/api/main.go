package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/stride-storefront/api/controllers"
	"github.com/angelmondragon/stride-storefront/api/routes"
	"github.com/angelmondragon/stride-storefront/internal/analytics"
	"github.com/angelmondragon/stride-storefront/internal/auth"
	"github.com/angelmondragon/stride-storefront/internal/categories"
	"github.com/angelmondragon/stride-storefront/internal/orders"
	"github.com/angelmondragon/stride-storefront/internal/products"
	"github.com/angelmondragon/stride-storefront/internal/seed"
	"github.com/angelmondragon/stride-storefront/internal/specialorders"
	"github.com/angelmondragon/stride-storefront/pkg/config"
	"github.com/angelmondragon/stride-storefront/pkg/db"
	"github.com/angelmondragon/stride-storefront/pkg/kv"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/migrate"
	"github.com/angelmondragon/stride-storefront/pkg/redis"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	deps := routes.Dependencies{
		Config:   cfg,
		Logger:   logg,
		Registry: prometheus.NewRegistry(),
		Pingers:  map[string]controllers.Pinger{"database": dbClient},
	}
	deps.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		requireResource(ctx, logg, "redis", err)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		deps.Counters = redisClient
		deps.Idempotency = redisClient
		deps.Pingers["redis"] = redisClient
	} else {
		logg.Warn(ctx, "redis not configured: idempotency and login limits kept in memory")
		memoryStore := kv.NewMemory()
		deps.Counters = memoryStore
		deps.Idempotency = memoryStore
	}

	productRepo := products.NewRepository(dbClient)
	deps.Products, err = products.NewService(productRepo)
	requireResource(ctx, logg, "product service", err)
	deps.Categories, err = categories.NewService(categories.NewRepository(dbClient))
	requireResource(ctx, logg, "category service", err)
	deps.Orders, err = orders.NewService(orders.NewRepository(dbClient), dbClient, products.NewInventory(productRepo), logg)
	requireResource(ctx, logg, "order service", err)
	deps.SpecialOrders, err = specialorders.NewService(specialorders.NewRepository(dbClient), logg)
	requireResource(ctx, logg, "special order service", err)
	deps.Analytics, err = analytics.NewService(analytics.NewQuery(dbClient))
	requireResource(ctx, logg, "analytics service", err)
	deps.Auth, err = auth.NewService(auth.ServiceParams{
		Admins:   auth.NewRepository(dbClient),
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Logger:   logg,
	})
	requireResource(ctx, logg, "auth service", err)

	if _, err := deps.Auth.SeedAdmin(ctx, cfg.Admin); err != nil {
		logg.Error(ctx, "failed to seed admin", err)
	}
	if cfg.FeatureFlags.SeedCatalog {
		if _, err := seed.Catalog(ctx, deps.Categories, deps.Products, logg); err != nil {
			logg.Error(ctx, "failed to seed catalog", err)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":   cfg.App.Env,
		"addr":  addr,
		"redis": cfg.Redis.Enabled(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "api server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(logCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(logCtx, "api server stopped")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
