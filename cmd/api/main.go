package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/townbasket/townbasket-backend/api/routes"
	"github.com/townbasket/townbasket-backend/internal/address"
	"github.com/townbasket/townbasket-backend/internal/cart"
	"github.com/townbasket/townbasket-backend/internal/catalog"
	"github.com/townbasket/townbasket-backend/internal/checkout"
	"github.com/townbasket/townbasket-backend/internal/merchants"
	"github.com/townbasket/townbasket-backend/internal/notifications"
	"github.com/townbasket/townbasket-backend/internal/orders"
	"github.com/townbasket/townbasket-backend/internal/promo"
	"github.com/townbasket/townbasket-backend/internal/rewards"
	"github.com/townbasket/townbasket-backend/pkg/config"
	"github.com/townbasket/townbasket-backend/pkg/db"
	"github.com/townbasket/townbasket-backend/pkg/logger"
	"github.com/townbasket/townbasket-backend/pkg/metrics"
	"github.com/townbasket/townbasket-backend/pkg/migrate"
	"github.com/townbasket/townbasket-backend/pkg/redis"
)

const shutdownTimeout = 20 * time.Second

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}

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

	registry := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartMetrics(registry)

	gdb := dbClient.DB()

	addressSvc, err := address.NewService(address.NewRepository(gdb), dbClient)
	requireService(logg, "address", err)
	quoter := address.NewQuoter(cfg.Delivery, redisClient)
	merchantSvc, err := merchants.NewService(merchants.NewRepository(gdb))
	requireService(logg, "merchants", err)
	catalogSvc, err := catalog.NewService(catalog.NewRepository(gdb))
	requireService(logg, "catalog", err)
	promoSvc, err := promo.NewService(promo.NewRepository(gdb))
	requireService(logg, "promo", err)
	rewardsSvc, err := rewards.NewService(rewards.NewRepository(gdb), cfg.Rewards)
	requireService(logg, "rewards", err)
	notifSvc, err := notifications.NewService(notifications.NewRepository(gdb))
	requireService(logg, "notifications", err)
	ordersRepo := orders.NewRepository(gdb)
	ordersSvc, err := orders.NewService(ordersRepo)
	requireService(logg, "orders", err)

	cartRepo := cart.NewRepository(gdb)
	cartSvc, err := cart.NewService(cart.Deps{
		Repo:      cartRepo,
		Tx:        dbClient,
		Merchants: merchantSvc,
		Catalog:   catalogSvc,
		Addresses: addressSvc,
		Quotes:    quoter,
		Promos:    promoSvc,
		Rewards:   rewardsSvc,
		Notifier:  notifSvc,
		Metrics:   cartMetrics,
		Pricing:   cfg.Pricing,
		Logger:    logg,
	})
	requireService(logg, "cart", err)

	checkoutSvc, err := checkout.NewService(checkout.Deps{
		Tx:        dbClient,
		Carts:     cartSvc,
		CartRepo:  cartRepo,
		Orders:    ordersRepo,
		Addresses: addressSvc,
		Rewards:   rewardsSvc,
		Notifier:  notifSvc,
		Metrics:   cartMetrics,
		Logger:    logg,
	})
	requireService(logg, "checkout", err)

	handler := routes.NewRouter(cfg, logg, dbClient, redisClient, registry, routes.Services{
		Cart:          cartSvc,
		Checkout:      checkoutSvc,
		Addresses:     addressSvc,
		Merchants:     merchantSvc,
		Catalog:       catalogSvc,
		Promos:        promoSvc,
		Rewards:       rewardsSvc,
		Orders:        ordersSvc,
		Notifications: notifSvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr := server.Shutdown(shutdownCtx)
		if err := <-errCh; err != nil && err != http.ErrServerClosed {
			shutdownErr = multierr.Append(shutdownErr, err)
		}
		if shutdownErr != nil {
			logg.Error(ctx, "api server shutdown incomplete", shutdownErr)
			os.Exit(1)
		}
		logg.Info(ctx, "api server stopped")
	}
}
