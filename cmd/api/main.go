package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alertops/socstats/internal/api/handlers"
	"github.com/alertops/socstats/internal/api/router"
	"github.com/alertops/socstats/internal/config"
	"github.com/alertops/socstats/internal/db"
	"github.com/alertops/socstats/internal/pkg/logger"
	"github.com/alertops/socstats/internal/pkg/validator"
	"github.com/alertops/socstats/internal/repository/sqlstore"
	"github.com/alertops/socstats/internal/services"
	"github.com/alertops/socstats/internal/stats"
	"github.com/alertops/socstats/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(ctx, database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	window, err := cfg.BusinessTimeWindow()
	if err != nil {
		log.Fatalf("Invalid business hours configuration: %v", err)
	}
	categories, err := stats.LoadCategoryMap(cfg.Stats.CategoryMapPath)
	if err != nil {
		log.Fatalf("Failed to load category map: %v", err)
	}

	repo := sqlstore.NewAlertRepository(database)
	reports := services.NewReportService(repo, window, cfg.Stats.Transforms, categories, log)
	cache := services.NewTableCache()
	v := validator.New()

	h := &router.Handlers{
		Health: handlers.NewHealthHandler(database.DB, log),
		Report: handlers.NewReportHandler(reports, v, log),
		Table:  handlers.NewTableHandler(cache, log),
		Export: handlers.NewExportHandler(reports, v, log),
	}

	if cfg.Refresh.Enabled {
		refresher, err := worker.NewRefresher(reports, cache, cfg.Refresh, log)
		if err != nil {
			log.Fatalf("Invalid refresh schedule: %v", err)
		}
		go refresher.Start(ctx)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
	}
}
