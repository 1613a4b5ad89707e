package main

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/subhankar021/ShopHub/internal/auth"
	"github.com/subhankar021/ShopHub/internal/cart"
	"github.com/subhankar021/ShopHub/internal/catalog"
	"github.com/subhankar021/ShopHub/internal/checkout"
	"github.com/subhankar021/ShopHub/internal/config"
	"github.com/subhankar021/ShopHub/internal/db"
	httpapi "github.com/subhankar021/ShopHub/internal/http"
	"github.com/subhankar021/ShopHub/internal/idempotency"
	"github.com/subhankar021/ShopHub/internal/order"
	"github.com/subhankar021/ShopHub/internal/profile"
	"github.com/subhankar021/ShopHub/internal/snapshot"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load(log)
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if err := run(cfg, log); err != nil {
		log.Fatalf("shophub: %v", err)
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	conn, err := db.Open(&cfg.DB)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(conn, &cfg.DB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("database migrations applied")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	snaps, err := snapshot.NewStore(cfg.StateDir)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}

	products := catalog.NewRepository(conn)
	profiles := profile.NewRepository(conn)
	orders := order.NewRepository(conn)

	carts := cart.NewStore(snaps, log)
	if err := carts.Restore(); err != nil {
		log.Warnf("cart snapshot restore failed, starting empty: %v", err)
	}

	provider, err := buildAuthProvider(cfg, profiles)
	if err != nil {
		return err
	}

	identities := auth.NewStore(provider, profiles, snaps, log)
	if err := identities.Restore(); err != nil {
		log.Warnf("auth snapshot restore failed, starting empty: %v", err)
	}

	idem := idempotency.NewStore(rdb, cfg.IdempotencyTTL)
	checkoutSvc := checkout.NewService(carts, identities, orders, profiles, idem, log)

	router := httpapi.NewRouter(httpapi.Handlers{
		Products: httpapi.NewProductHandler(products, cfg.HandlerTimeout),
		Cart:     httpapi.NewCartHandler(carts, products, cfg.HandlerTimeout),
		Checkout: httpapi.NewCheckoutHandler(checkoutSvc, cfg.HandlerTimeout),
		Orders:   httpapi.NewOrderHandler(orders, cfg.HandlerTimeout),
		Auth:     httpapi.NewAuthHandler(identities, cfg.HandlerTimeout),
	}, identities, cfg.RequestTimeout)

	server := &stdhttp.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
		IdleTimeout:  2 * cfg.RequestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		log.Infof("received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// buildAuthProvider picks the identity backend. The dev provider keeps
// everything in process and provisions profile rows itself, the way the
// hosted service's signup trigger would.
func buildAuthProvider(cfg *config.Config, profiles *profile.Repository) (auth.Provider, error) {
	switch cfg.AuthProvider {
	case "dev":
		return auth.NewDevProvider(func(ctx context.Context, id, email, fullName string) error {
			return profiles.Create(ctx, &profile.Profile{ID: id, Email: email, FullName: fullName})
		}), nil
	case "remote":
		if cfg.AuthBaseURL == "" {
			return nil, errors.New("AUTH_BASE_URL is required for the remote auth provider")
		}
		return auth.NewHTTPProvider(cfg.AuthBaseURL, cfg.AuthAPIKey, cfg.HandlerTimeout), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.AuthProvider)
	}
}
