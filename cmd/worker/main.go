package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/stride-storefront/internal/analytics"
	"github.com/angelmondragon/stride-storefront/internal/cron"
	"github.com/angelmondragon/stride-storefront/internal/orders"
	"github.com/angelmondragon/stride-storefront/internal/products"
	"github.com/angelmondragon/stride-storefront/pkg/config"
	"github.com/angelmondragon/stride-storefront/pkg/db"
	"github.com/angelmondragon/stride-storefront/pkg/kv"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/metrics"
	"github.com/angelmondragon/stride-storefront/pkg/migrate"
	"github.com/angelmondragon/stride-storefront/pkg/redis"
)

const lockKeyFormat = "stride:housekeeping:lock:%s"

func main() {
	once := flag.Bool("once", false, "run every job a single time and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "component": "housekeeping"})

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

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	jobMetrics := metrics.NewJobMetrics(registry)

	var lock cron.Lock
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		requireResource(ctx, logg, "redis", err)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		lock, err = cron.NewStoreLock(redisClient, lockKey(cfg.App.Env), 0)
		requireResource(ctx, logg, "housekeeping lock", err)
	} else {
		logg.Warn(ctx, "redis not configured: housekeeping lock is local to this process")
		lock, err = cron.NewStoreLock(kv.NewMemory(), lockKey(cfg.App.Env), 0)
		requireResource(ctx, logg, "housekeeping lock", err)
	}

	jobs := cron.NewRegistry()
	lowStock, err := cron.NewLowStockJob(logg, analytics.NewQuery(dbClient), cfg.Housekeeping.LowStockThreshold, jobMetrics)
	requireResource(ctx, logg, "low stock job", err)
	jobs.Register(lowStock)

	if cfg.Housekeeping.PendingOrderTTL > 0 {
		orderRepo := orders.NewRepository(dbClient)
		orderSvc, err := orders.NewService(orderRepo, dbClient, products.NewInventory(products.NewRepository(dbClient)), logg)
		requireResource(ctx, logg, "order service", err)
		expiry, err := cron.NewOrderExpiryJob(cron.OrderExpiryJobParams{
			Logger:  logg,
			Reader:  orderRepo,
			Orders:  orderSvc,
			Metrics: jobMetrics,
			TTL:     cfg.Housekeeping.PendingOrderTTL,
			Batch:   cfg.Housekeeping.ExpiryBatch,
		})
		requireResource(ctx, logg, "order expiry job", err)
		jobs.Register(expiry)
	} else {
		logg.Info(ctx, "pending order expiry disabled")
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: jobs,
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.Housekeeping.Interval,
	})
	requireResource(ctx, logg, "housekeeping service", err)

	if *once {
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "housekeeping run failed", err)
			os.Exit(1)
		}
		return
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.Housekeeping.MetricsPort,
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server stopped", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logg.Info(logg.WithField(ctx, "interval", cfg.Housekeeping.Interval.String()), "starting housekeeping worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "housekeeping worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "housekeeping worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
