package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/land-registry/internal/api/http"
	"github.com/spec-kit/land-registry/internal/api/http/handlers"
	"github.com/spec-kit/land-registry/internal/auth"
	"github.com/spec-kit/land-registry/internal/config"
	"github.com/spec-kit/land-registry/internal/events"
	"github.com/spec-kit/land-registry/internal/observability"
	"github.com/spec-kit/land-registry/internal/persistence"
	"github.com/spec-kit/land-registry/internal/registry"
	"github.com/spec-kit/land-registry/internal/repository"
	"github.com/spec-kit/land-registry/internal/service"
	"github.com/spec-kit/land-registry/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	ledger := registry.NewLedger(cfg.Registry.AdminAddress, dispatcher, logger)

	pool := pg.PoolHandle()
	var propertyMirror repository.PropertyMirrorRepository
	if pool != nil {
		propertyMirror = repository.NewPropertyMirrorRepository(pool)
		identityMirror := repository.NewIdentityMirrorRepository(pool)
		worker.StartMirrorWorker(service.NewMirrorService(propertyMirror, identityMirror, dispatcher, logger))
	}
	worker.StartStreamWorker(service.NewStreamService(redis.Client, cfg.Registry.EventStream, dispatcher, logger))
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	nonces := auth.NewNonceStore(redis.Client, cfg.Auth.ChallengeTTL())
	authMiddleware := auth.NewAuthMiddleware(tokens)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(nonces, tokens),
		Identities:     handlers.NewIdentitiesHandler(ledger),
		Properties:     handlers.NewPropertiesHandler(ledger),
		Search:         handlers.NewSearchHandler(propertyMirror),
		Roles:          ledger,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
