package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/wichananm65/vts-portal-api/internal/auth"
	"github.com/wichananm65/vts-portal-api/internal/config"
	"github.com/wichananm65/vts-portal-api/internal/coordinate"
	"github.com/wichananm65/vts-portal-api/internal/logger"
	"github.com/wichananm65/vts-portal-api/internal/media"
	"github.com/wichananm65/vts-portal-api/internal/post"
	"github.com/wichananm65/vts-portal-api/internal/router"
	"github.com/wichananm65/vts-portal-api/internal/store"
	"github.com/wichananm65/vts-portal-api/internal/user"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(0).Fatal("failed to load config", "error", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatal("failed to open store", "driver", cfg.Store.Driver, "error", err)
	}
	defer backend.Close()
	log.Info("store ready", "driver", cfg.Store.Driver)

	var objects media.Store
	if cfg.MediaEnabled() {
		s, err := media.Connect(ctx, cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.UseSSL)
		if err != nil {
			log.Fatal("failed to connect object storage", "endpoint", cfg.Storage.Endpoint, "error", err)
		}
		log.Info("object storage ready", "endpoint", cfg.Storage.Endpoint, "bucket", s.Bucket())
		objects = s
	}

	app := buildApp(cfg, backend, objects, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", cfg.Addr)
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", "error", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	}
}

// buildApp wires repositories, services and handlers onto one backend.
// objects may be nil when media storage is disabled.
func buildApp(cfg *config.Config, backend store.Backend, objects media.Store, log *logger.Logger) *fiber.App {
	userService := user.NewService(user.NewStoreRepository(backend, cfg.Tables.Users), cfg.Auth.BcryptCost, log)
	postService := post.NewService(post.NewStoreRepository(backend, cfg.Tables.Posts), userService, log)
	coordService := coordinate.NewService(coordinate.NewStoreRepository(backend, cfg.Tables.Coordinates), log)

	var tokens user.TokenIssuer
	if cfg.Auth.JWTSecret != "" {
		tokens = auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	}

	return router.New(log, router.Options{
		AllowOrigins: cfg.AllowOrigin,
		RequireAuth:  cfg.Auth.Required,
		AuthSecret:   cfg.Auth.JWTSecret,
		Health:       backend,
	},
		user.NewHandler(userService, tokens),
		post.NewHandler(postService),
		coordinate.NewHandler(coordService),
		media.NewHandler(objects, log),
	)
}

func openBackend(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverRedis:
		client, err := store.NewRedisClient(ctx, cfg.Store.RedisURL)
		if err != nil {
			return nil, err
		}
		return store.NewRedis(client), nil
	case config.DriverPostgres:
		db, err := store.OpenPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		pg := store.NewPostgres(db)
		if err := pg.EnsureTables(ctx, cfg.Tables.Users, cfg.Tables.Posts, cfg.Tables.Coordinates); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	case config.DriverMongo:
		client, err := store.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		return store.NewMongo(client.Database(cfg.Mongo.Database)), nil
	case config.DriverMemory:
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
