package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ivy-monitoring/supplier-api/internal/app"
	"github.com/ivy-monitoring/supplier-api/internal/observability"
	"github.com/ivy-monitoring/supplier-api/internal/store"
	"github.com/ivy-monitoring/supplier-api/internal/suppliers"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	client, closeStore, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	metrics := observability.NewMetrics()
	client = store.Instrument(client, store.NewMetrics(metrics.Registerer()))

	supplierRepo := suppliers.NewRepository(client)
	supplierService := suppliers.NewService(supplierRepo, logger, suppliers.ServiceConfig{
		DetailsConcurrency: cfg.DetailsConcurrency,
	})
	supplierHandler := suppliers.NewHandler(logger, supplierService)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SupplierHandler: supplierHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("environment", cfg.Environment),
			slog.String("store_driver", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
