package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/phonebook-service/internal/api/http"
	"github.com/spec-kit/phonebook-service/internal/api/http/handlers"
	"github.com/spec-kit/phonebook-service/internal/auth"
	"github.com/spec-kit/phonebook-service/internal/config"
	"github.com/spec-kit/phonebook-service/internal/events"
	"github.com/spec-kit/phonebook-service/internal/limiter"
	"github.com/spec-kit/phonebook-service/internal/observability"
	"github.com/spec-kit/phonebook-service/internal/persistence"
	"github.com/spec-kit/phonebook-service/internal/repository"
	"github.com/spec-kit/phonebook-service/internal/service"
	"github.com/spec-kit/phonebook-service/internal/worker"
	"github.com/spec-kit/phonebook-service/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := map[string]handlers.Pinger{}

	var (
		userRepo   repository.UserRepository
		numberRepo repository.PhoneNumberRepository
	)
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := persistence.OpenSQLite(ctx, cfg.Storage.SQLitePath, logger)
		if err != nil {
			logger.Fatal("failed to open sqlite", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		userRepo = repository.NewSQLiteUserRepository(db.DB)
		numberRepo = repository.NewSQLitePhoneNumberRepository(db.DB)
		deps["sqlite"] = db
	default:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg, migrations.Postgres, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		userRepo = repository.NewUserRepository(pg.PoolHandle())
		numberRepo = repository.NewPhoneNumberRepository(pg.PoolHandle())
		deps["postgres"] = pg
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()
	deps["redis"] = redis

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	authService, err := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo: userRepo,
		Limiter: limiter.NewLoginLimiter(redis.Client, limiter.Config{
			MaxAttempts: cfg.Auth.LoginMaxAttempts,
			Window:      cfg.Auth.LoginWindow(),
		}),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}

	resolver := auth.NewResolver(authService.Verifier(), userRepo, auth.ResolverConfig{
		LookupTimeout: cfg.Auth.IdentityLookupTimeout(),
	}, logger.Named("auth"))
	authMiddleware := auth.NewAuthMiddleware(resolver)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		BasePath:       cfg.App.BasePath,
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps, metrics),
		Users:          handlers.NewUsersHandler(authService),
		PhoneNumbers:   handlers.NewPhoneNumbersHandler(service.NewPhoneNumberService(numberRepo)),
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
