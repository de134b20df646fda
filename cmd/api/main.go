package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/api/handlers"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/api/router"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/config"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/connector"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/logger"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/validator"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/repository/sqlite"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := sqlite.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Repositories
	accountRepo := sqlite.NewAccountRepository(db)
	instanceRepo := sqlite.NewInstanceRepository(db)
	snapshotRepo := sqlite.NewSnapshotRepository(db)
	recommendationRepo := sqlite.NewRecommendationRepository(db)
	alertRepo := sqlite.NewAlertRepository(db)

	// Services
	registry := connector.NewFactory()
	accountSvc := services.NewAccountService(accountRepo, instanceRepo, recommendationRepo, log)
	syncSvc := services.NewSyncService(accountRepo, instanceRepo, registry, cfg.Sync, log)
	recommendationSvc := services.NewRecommendationService(accountRepo, instanceRepo, recommendationRepo, cfg.Rules, log)
	anomalySvc := services.NewAnomalyService(accountRepo, instanceRepo, snapshotRepo, alertRepo, cfg.Anomaly, log)
	correlationSvc := services.NewCorrelationService(recommendationRepo, alertRepo, cfg.Correlation)
	notificationSvc := services.NewNotificationService(cfg.Notify, log)
	dashboardSvc := services.NewDashboardService(accountRepo, instanceRepo, recommendationRepo, alertRepo)

	// Background sync scheduler
	scheduler := services.NewScheduler(syncSvc, recommendationSvc, anomalySvc, notificationSvc, cfg.Sync, log)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer scheduler.Stop()

	// HTTP layer
	v := validator.New()
	h := &router.Handlers{
		Health:         handlers.NewHealthHandler(db, log),
		Account:        handlers.NewAccountHandler(accountSvc, v),
		Sync:           handlers.NewSyncHandler(syncSvc),
		Instance:       handlers.NewInstanceHandler(instanceRepo),
		Recommendation: handlers.NewRecommendationHandler(recommendationSvc, v),
		Alert:          handlers.NewAlertHandler(anomalySvc),
		Dashboard:      handlers.NewDashboardHandler(dashboardSvc, correlationSvc),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"addr":        srv.Addr,
			"environment": cfg.Server.Environment,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
