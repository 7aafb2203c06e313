package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/consensuslabs/storefront/backend/internal/cache"
	"github.com/consensuslabs/storefront/backend/internal/config"
	"github.com/consensuslabs/storefront/backend/internal/database"
	"github.com/consensuslabs/storefront/backend/internal/health"
	httpHandler "github.com/consensuslabs/storefront/backend/internal/http"
	"github.com/consensuslabs/storefront/backend/internal/logger"
	"github.com/consensuslabs/storefront/backend/internal/mapping"
	"github.com/consensuslabs/storefront/backend/internal/metrics"
	"github.com/consensuslabs/storefront/backend/internal/order"
	"github.com/consensuslabs/storefront/backend/internal/storage"
	"github.com/consensuslabs/storefront/backend/internal/storage/s3"
	"github.com/consensuslabs/storefront/backend/migrations"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// App holds all application dependencies
type App struct {
	config          *config.Config
	logger          logger.Logger
	dbService       database.Service
	db              *gorm.DB
	cache           cache.Service
	archive         storage.ArchiveSink
	metrics         *metrics.Collector
	runner          *migrations.Runner
	registry        *mapping.Registry
	router          *gin.Engine
	server          *http.Server
	responseHandler httpHandler.ResponseHandler
	orderHandler    *order.Handler
	healthHandler   *health.Handler
}

// NewApp creates a new application instance with all dependencies
func NewApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	app := &App{
		config:  cfg,
		logger:  log,
		metrics: metrics.NewCollector(),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initArchive(); err != nil {
		app.Close()
		return nil, err
	}
	app.runner = migrations.NewRunner(app.db, migrations.Default(),
		migrations.WithLogger(log),
		migrations.WithMetrics(app.metrics),
		migrations.WithArchive(app.archive),
		migrations.WithLedgerTable(cfg.Migration.TableName),
	)
	if err := app.autoMigrate(ctx); err != nil {
		app.Close()
		return nil, err
	}
	if err := app.initMapping(ctx); err != nil {
		app.Close()
		return nil, err
	}
	if err := app.initCache(ctx); err != nil {
		app.Close()
		return nil, err
	}

	app.initServices()
	app.setupRouter()
	return app, nil
}

func (a *App) initDatabase() error {
	a.dbService = database.NewDatabaseService(&a.config.Database, a.logger)
	db, err := a.dbService.Connect()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.db = db
	return nil
}

func (a *App) initArchive() error {
	if !a.config.Archive.Enabled {
		return nil
	}
	sink, err := s3.NewService(&a.config.Archive, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize archive: %w", err)
	}
	a.archive = sink
	return nil
}

func (a *App) autoMigrate(ctx context.Context) error {
	mc := database.NewMigrationConfig(a.config)
	a.logger.LogInfo("Migration Configuration", map[string]interface{}{
		"environment":     mc.Environment,
		"auto_migrate":    mc.AutoMigrate,
		"force_migration": mc.ForceRun,
	})
	if !mc.ShouldRunMigration() {
		a.logger.LogInfo("Skipping migrations at startup", map[string]interface{}{
			"environment": mc.Environment,
		})
		return nil
	}
	if _, err := a.runner.Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (a *App) initMapping(ctx context.Context) error {
	a.registry = mapping.NewRegistry(a.db)
	for _, def := range []mapping.Definer{order.DefineOrder, order.DefineOrderInfo} {
		if _, err := a.registry.Define(def); err != nil {
			return fmt.Errorf("failed to define entity: %w", err)
		}
	}
	if err := a.registry.Associate(); err != nil {
		return err
	}
	// A mismatch is expected while migrations are pending; readiness reports it
	if err := a.registry.Verify(ctx); err != nil {
		a.logger.LogWarn("Live schema does not match mapped entities", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return nil
}

func (a *App) initCache(ctx context.Context) error {
	if !a.config.Redis.Enabled {
		return nil
	}
	c, err := cache.NewRedisService(ctx, &a.config.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	a.cache = c
	return nil
}

func (a *App) initServices() {
	a.responseHandler = httpHandler.NewResponseHandler(a.logger)

	orderService := order.NewService(order.NewRepository(a.db), a.cache, a.metrics, a.logger, order.ServiceConfig{
		TTL:       a.config.Cache.OrderInfoTTL,
		KeyPrefix: a.config.Cache.KeyPrefix,
	})
	a.orderHandler = order.NewHandler(orderService, a.responseHandler)

	checks := []health.Check{{Name: "database", Run: a.pingDatabase}}
	if a.cache != nil {
		checks = append(checks, health.Check{Name: "redis", Run: a.cache.Ping})
	}
	a.healthHandler = health.NewHandler(a.responseHandler, a.runner, checks...)
}

func (a *App) pingDatabase(ctx context.Context) error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Run starts the HTTP server in the background
func (a *App) Run() error {
	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Server.Port),
		Handler: a.router,
	}
	a.logger.LogInfo("Starting HTTP server", map[string]interface{}{
		"port": a.config.Server.Port,
	})

	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.LogFatal(err, "HTTP server failed")
		}
	}()
	return nil
}

// Shutdown stops the server and releases connections
func (a *App) Shutdown() error {
	timeout := a.config.Server.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shut down server: %w", err))
		}
	}
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}
	a.logger.LogInfo("Shutdown complete", nil)
	return errors.Join(errs...)
}

// Close releases the database, cache and archive
func (a *App) Close() error {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.archive != nil {
		errs = append(errs, a.archive.Close())
	}
	if a.dbService != nil {
		errs = append(errs, a.dbService.Close())
	}
	return errors.Join(errs...)
}
