package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/product"
)

func main() {
	cfg := config.Load()
	base := logging.NewJSON(os.Stdout, cfg.LogLevel)
	logger := base.WithField("service", httpapi.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.WithError(err).Fatal("db connect")
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.WithError(err).Fatal("db migrate")
		}
	}

	// --- catalog, optionally behind redis ---
	var products product.Repository = product.NewPostgresRepository(pool)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable, product cache starts degraded")
		}
		pingCancel()

		products = product.NewCachedRepository(products, rdb, cfg.ProductCacheTTL, logger)
	}

	// --- AMQP ---
	var publisher events.Publisher = events.NopPublisher{Log: logger}
	if cfg.RabbitURL != "" {
		conn, err := events.Dial(cfg.RabbitURL)
		if err != nil {
			logger.WithError(err).Fatal("rabbitmq connect")
		}
		defer conn.Close()

		pub, err := events.NewRabbitPublisher(conn, events.NewSequenceRepository(pool))
		if err != nil {
			logger.WithError(err).Fatal("rabbitmq publisher")
		}
		defer pub.Close()
		publisher = pub
	} else {
		logger.Info("RABBITMQ_URL not set, checkout events are not published")
	}

	carts := cart.NewPostgresStore(pool)
	orders := checkout.NewService(checkout.NewPostgresRepository(pool), carts, publisher, logger)

	// --- HTTP ---
	router := httpapi.NewRouter(httpapi.Deps{
		Logger:         logger,
		Products:       products,
		Carts:          carts,
		Checkout:       orders,
		AdminUsername:  cfg.AdminUsername,
		AdminPassword:  cfg.AdminPassword,
		RequestTimeout: cfg.RequestTimeout,
		AllowOrigins:   cfg.CORSAllowOrigins,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("http listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("shutdown signal")
	case err := <-errCh:
		logger.WithError(err).Error("fatal error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("shutdown")
	}
	cancel()

	logger.WithFields(logrus.Fields{"addr": cfg.HTTPAddr}).Info("shutdown complete")
}
