package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/nsukonny/ecurring-sync/internal/api"
	"github.com/nsukonny/ecurring-sync/internal/api/cron"
	v1 "github.com/nsukonny/ecurring-sync/internal/api/v1"
	"github.com/nsukonny/ecurring-sync/internal/config"
	"github.com/nsukonny/ecurring-sync/internal/ecurring"
	"github.com/nsukonny/ecurring-sync/internal/logger"
	"github.com/nsukonny/ecurring-sync/internal/postgres"
	"github.com/nsukonny/ecurring-sync/internal/repository"
	"github.com/nsukonny/ecurring-sync/internal/service"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			provideLogger,

			// Postgres
			postgres.NewDB,

			// Repositories
			repository.NewUserRepository,
			repository.NewUserMetaRepository,

			// Provider client
			ecurring.NewClient,

			// Services
			service.NewServiceParams,
			service.NewCustomerService,
			service.NewResolverService,
			service.NewSubscriptionService,
			service.NewCancellationService,
			service.NewImportService,

			// API
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			migrateSchema,
			startServer,
		),
	)

	app.Run()
}

func provideLogger(cfg *config.Configuration) (*logger.Logger, error) {
	return logger.NewLogger(cfg.Logging.Level)
}

func provideHandlers(
	log *logger.Logger,
	subscriptionService service.SubscriptionService,
	cancellationService service.CancellationService,
	importService service.ImportService,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(log),
		Subscription: v1.NewSubscriptionHandler(subscriptionService, cancellationService, log),
		CronImport:   cron.NewImportHandler(importService, log),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func migrateSchema(lc fx.Lifecycle, db *postgres.DB, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Bootstrapping database schema...")
			return repository.Migrate(ctx, db)
		},
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server on %s", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
