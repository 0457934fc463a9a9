// Package main is the entry point for the SnipShare API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/roguepikachu/snipshare/internal/config"
	"github.com/roguepikachu/snipshare/internal/data"
	"github.com/roguepikachu/snipshare/internal/http/handler"
	"github.com/roguepikachu/snipshare/internal/http/router"
	"github.com/roguepikachu/snipshare/internal/repository"
	cachedRepo "github.com/roguepikachu/snipshare/internal/repository/cached"
	postgresRepo "github.com/roguepikachu/snipshare/internal/repository/postgres"
	redisRepo "github.com/roguepikachu/snipshare/internal/repository/redis"
	sqliteRepo "github.com/roguepikachu/snipshare/internal/repository/sqlite"
	"github.com/roguepikachu/snipshare/internal/service"
	"github.com/roguepikachu/snipshare/pkg/logger"
)

func main() {
	logger.InitLogging()
	config.InitConf()
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Conf
	repo, health, closeStores, err := buildRepository(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialise storage: %v", err)
	}
	defer closeStores()

	h := handler.NewHandler(service.NewService(repo))
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.NewRouter(h, health),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.With(ctx, map[string]any{"port": cfg.Port, "driver": cfg.StorageDriver, "cache": cfg.CacheEnabled}).Info("snipshare listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error(ctx, "server stopped with error: %v", err)
	}
}

// buildRepository opens the configured store and returns it with readiness checks and a close func.
func buildRepository(ctx context.Context, cfg config.Config) (repository.SnippetRepository, *handler.HealthHandler, func(), error) {
	health := handler.NewHealthHandler()
	var (
		repo    repository.SnippetRepository
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.StorageDriver {
	case config.DriverSQLite:
		db, err := data.NewSQLiteDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, func() { _ = db.Close() })
		r := sqliteRepo.NewSnippetRepository(db)
		if err := r.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		health.WithDependency("sqlite", handler.SQLPinger(db))
		repo = r
	case config.DriverPostgres:
		pool, err := data.NewPostgresPool(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, pool.Close)
		r := postgresRepo.NewSnippetRepository(pool)
		if err := r.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		health.WithDependency("postgres", handler.PostgresPinger(pool))
		repo = r
	case config.DriverRedis:
		client := data.NewRedisClient(cfg)
		closers = append(closers, func() { _ = client.Close() })
		health.WithDependency("redis", handler.RedisPinger(client))
		repo = redisRepo.NewSnippetRepository(client)
	default:
		return nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	if cfg.CacheEnabled {
		client := data.NewRedisClient(cfg)
		closers = append(closers, func() { _ = client.Close() })
		health.WithDependency("redis-cache", handler.RedisPinger(client))
		repo = cachedRepo.NewSnippetRepository(repo, client, cfg.CacheTTL)
	}
	return repo, health, closeAll, nil
}
