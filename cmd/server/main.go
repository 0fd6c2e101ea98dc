package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/splitsmart/splitsmart/internal/api"
	"github.com/splitsmart/splitsmart/internal/auth"
	"github.com/splitsmart/splitsmart/internal/cache"
	"github.com/splitsmart/splitsmart/internal/config"
	"github.com/splitsmart/splitsmart/internal/service"
	"github.com/splitsmart/splitsmart/internal/storage/sqlite"
	"github.com/splitsmart/splitsmart/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Storage lifecycle is explicit: constructed here, closed at
	// shutdown, passed into the services. No package-level singletons.
	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.SQLiteDBPath)

	var balanceCache cache.BalanceCache
	switch cfg.CacheBackend {
	case "redis":
		redisCache := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.CacheTTL)
		defer redisCache.Close()
		balanceCache = redisCache
		slog.Info("Balance cache initialized", "backend", "redis", "addr", cfg.RedisAddr)
	default:
		balanceCache = cache.NewInMemoryCache(cfg.CacheTTL)
		slog.Info("Balance cache initialized", "backend", "memory")
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)

	handler := api.New(
		service.NewAuthService(authenticator, jwtManager),
		service.NewGroupService(store, balanceCache, cfg.StoreTimeout),
		service.NewExpenseService(store, balanceCache, cfg.SaveRetries, cfg.StoreTimeout),
		service.NewSettlementService(store, balanceCache, cfg.SaveRetries, cfg.StoreTimeout),
		store,
		jwtManager,
	).Handler()

	// h2c allows HTTP/2 without TLS behind a terminating proxy.
	server := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", cfg.BindAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
