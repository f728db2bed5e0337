package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/a11ylens/api/internal/app"
	"github.com/a11ylens/api/internal/config"
	"github.com/a11ylens/api/internal/infra/controller"
	"github.com/a11ylens/api/internal/infra/fetchers"
	infrahttp "github.com/a11ylens/api/internal/infra/http"
	"github.com/a11ylens/api/internal/infra/http/handler"
	"github.com/a11ylens/api/internal/infra/memory"
	"github.com/a11ylens/api/internal/infra/postgres"
	"github.com/a11ylens/api/pkg/domain/monitor"
	"github.com/a11ylens/api/pkg/domain/scan"
	"github.com/a11ylens/api/pkg/logger"
	"github.com/a11ylens/api/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault().Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	log.Info("starting a11ylens",
		"env", cfg.App.Env,
		"database_driver", cfg.Database.Driver,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Persistence
	var (
		scanRepo    scan.Repository
		monitorRepo monitor.Repository
		healthOpts  []handler.HealthHandlerOption
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.New(&cfg.Database)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("failed to ensure database schema", "error", err)
			os.Exit(1)
		}
		scanRepo = postgres.NewScanRepository(db, cfg.Scan.MaxHistory)
		monitorRepo = postgres.NewMonitorRepository(db)
		healthOpts = append(healthOpts, handler.WithDatabase(db))
		log.Info("connected to PostgreSQL", "host", cfg.Database.Host)
	default:
		scanRepo = memory.NewScanRepository(cfg.Scan.MaxHistory)
		monitorRepo = memory.NewMonitorRepository()
		log.Info("using in-memory persistence", "max_history", cfg.Scan.MaxHistory)
	}

	// Services
	fetcher := fetchers.New(fetchers.Config{
		Timeout:               cfg.Fetcher.Timeout,
		MaxRedirects:          cfg.Fetcher.MaxRedirects,
		MaxBodyBytes:          cfg.Fetcher.MaxBodyBytes,
		UserAgent:             cfg.Fetcher.UserAgent,
		RequestsPerSecond:     cfg.Fetcher.RequestsPerSecond,
		Burst:                 cfg.Fetcher.Burst,
		BlockPrivateAddresses: cfg.Fetcher.BlockPrivateAddresses,
	}, log)
	scanService := app.NewScanService(fetcher, scanRepo, log)
	monitorService := app.NewMonitorService(monitorRepo, log)
	if err := monitorService.SyncMetrics(ctx); err != nil {
		log.WithError(err).Warn("failed to sync monitor metrics")
	}

	// Background controllers
	manager := controller.NewManager(&controller.ManagerConfig{
		Metrics: controller.NewPrometheusMetrics(""),
		Logger:  log,
	})
	if cfg.Monitor.Enabled {
		manager.Register(controller.NewMonitorScanController(
			monitorService,
			scanService,
			&controller.MonitorScanControllerConfig{
				Interval:    cfg.Monitor.TickInterval,
				Concurrency: cfg.Monitor.Concurrency,
				Logger:      log,
			},
		))
	}
	if err := manager.Start(ctx); err != nil {
		log.Error("failed to start controller manager", "error", err)
		os.Exit(1)
	}

	// HTTP server
	v := validator.New()
	server := infrahttp.NewServer(cfg, infrahttp.Handlers{
		Health:  handler.NewHealthHandler(healthOpts...),
		Scan:    handler.NewScanHandler(scanService, v, log),
		Monitor: handler.NewMonitorHandler(monitorService, v, log),
	}, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", "error", err)
			cancel()
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := manager.Stop(); err != nil {
		log.Error("failed to stop controller manager", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server", "error", err)
		os.Exit(1)
	}

	log.Info("shutdown complete")
}
