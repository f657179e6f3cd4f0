package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kataops/identity-api/internal/api"
	"github.com/kataops/identity-api/internal/core/service"
	"github.com/kataops/identity-api/internal/infrastructure/config"
	mongodb "github.com/kataops/identity-api/internal/infrastructure/db/mongo"
	redisdb "github.com/kataops/identity-api/internal/infrastructure/db/redis"
	"github.com/kataops/identity-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL"), Pretty: os.Getenv("ENV") == "development"})
	cfg := config.Load(log)

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := sessionBackend(ctx, cfg)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	if err := seed(ctx, db, cfg, log); err != nil {
		return err
	}

	e := api.NewRouter(db, rdb, api.Options{
		SessionTimeout: cfg.Session.Timeout,
		CookieName:     cfg.Session.CookieName,
		CookieMaxAge:   cfg.Session.CookieMaxAge,
	}, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(":" + cfg.Port)
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity api listening")

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

// sessionBackend connects Redis when configured; a nil client selects the
// in-memory store.
func sessionBackend(ctx context.Context, cfg *config.Config) (*goredis.Client, error) {
	if cfg.Session.Backend != "redis" {
		return nil, nil
	}
	return redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
}

// seed ensures the base roles and the bootstrap admin exist.
func seed(ctx context.Context, db *mongo.Database, cfg *config.Config, log zerolog.Logger) error {
	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	registry := service.NewRoleRegistry(roleRepo, log)
	users := service.NewUserService(userRepo, registry, log)
	return service.Bootstrap(ctx, users, registry, cfg.Admin.Name, cfg.Admin.Password, log)
}
