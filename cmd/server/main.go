// cmd/server/main.go
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

	"go.uber.org/zap"

	_ "receipt-service/docs"
	"receipt-service/internal/assets"
	"receipt-service/internal/config"
	"receipt-service/internal/database"
	"receipt-service/internal/events"
	"receipt-service/internal/metrics"
	"receipt-service/internal/repository"
	"receipt-service/internal/routes"
	"receipt-service/internal/service"
	"receipt-service/internal/transport"
	"receipt-service/internal/utils"
)

// Application represents the main application
type Application struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	database *database.DB

	registry       *transport.Registry
	transport      *transport.Transport
	jobRepo        repository.JobRepository
	eventBus       *events.Bus
	metrics        *metrics.Metrics
	printerService *service.PrinterService

	ctx    context.Context
	cancel context.CancelFunc
}

// @title Receipt Service API
// @version 1.0.0
// @description Thermal receipt printing service: reconciles totals, renders receipts and sends ESC/POS jobs to printer queues

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8084
// @BasePath /api/v1
func main() {
	app, err := NewApplication(os.Getenv("RECEIPT_SERVICE_CONFIG"))
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication(configFile string) (*Application, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, "receipt-service")
	serviceLogger.LogServiceStart(cfg.App.Version, cfg.Printer)

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		config:  cfg,
		logger:  logger,
		metrics: metrics.New(),
		ctx:     ctx,
		cancel:  cancel,
	}

	if err := app.initializeDatabase(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initializeTransport(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize transport: %w", err)
	}

	if err := app.initializeServices(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initializeServer()
	return app, nil
}

// initializeDatabase connects the audit database and runs migrations.
// Without a database jobs are kept in memory.
func (app *Application) initializeDatabase() error {
	if !app.config.Database.Enabled {
		app.jobRepo = repository.NewMemoryJobRepository(repository.MemoryCapacity)
		app.logger.Info("Audit database disabled, keeping recent jobs in memory")
		return nil
	}

	db, err := database.NewConnection(&app.config.Database, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}
	app.database = db

	migrator := database.NewMigrator(db, app.logger)
	if err := migrator.Up(app.ctx); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	app.jobRepo = repository.NewJobRepository(db, app.logger)
	app.logger.Info("Database initialized successfully")
	return nil
}

// initializeTransport registers the configured printer queues
func (app *Application) initializeTransport() error {
	registry, err := service.BuildRegistry(app.config.Queues, app.logger)
	if err != nil {
		return err
	}
	app.registry = registry

	app.transport = transport.New(registry, transport.Options{
		Policy:      transport.BusyPolicy(app.config.Printer.BusyPolicy),
		LockTimeout: app.config.Printer.LockTimeout,
	}, app.logger, app.metrics)

	queues := registry.List()
	if len(queues) == 0 {
		app.logger.Warn("No printer queues configured")
	}
	app.logger.Info("Transport initialized successfully",
		zap.Int("queues", len(queues)),
		zap.String("default_queue", app.config.Printer.QueueID),
		zap.String("busy_policy", app.config.Printer.BusyPolicy),
	)
	return nil
}

// initializeServices creates service instances
func (app *Application) initializeServices() error {
	app.eventBus = events.NewBus(app.logger)
	app.eventBus.Start(app.ctx)

	printerService, err := service.NewPrinterService(
		app.transport,
		assets.NewLibrary(app.logger),
		app.jobRepo,
		app.eventBus,
		app.metrics,
		app.config,
		app.logger,
	)
	if err != nil {
		return err
	}
	app.printerService = printerService

	app.logger.Info("Services initialized successfully")
	return nil
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() {
	routerManager := routes.NewRouter(
		app.config,
		app.logger,
		app.database,
		app.printerService,
		app.registry,
		app.eventBus,
		app.metrics,
	)

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      routerManager.SetupRouter(),
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
		zap.Bool("tls_enabled", app.config.Server.TLS.Enabled),
	)
}

// Start serves HTTP until a shutdown signal arrives
func (app *Application) Start() error {
	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
		)

		var err error
		if app.config.Server.TLS.Enabled {
			err = app.server.ListenAndServeTLS(
				app.config.Server.TLS.CertFile,
				app.config.Server.TLS.KeyFile,
			)
		} else {
			err = app.server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	app.waitForShutdown()
	return nil
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown lets in-flight jobs finish before closing the database
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, "receipt-service")
	serviceLogger.LogServiceStop("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	app.cancel()

	if app.database != nil {
		if err := app.database.Close(); err != nil {
			app.logger.Error("Database close error", zap.Error(err))
		}
	}

	app.logger.Info("Application shutdown completed")

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}
}
