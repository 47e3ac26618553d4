package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/stayrate/internal/bootstrap"
	"github.com/kirillkom/stayrate/internal/config"
	"github.com/kirillkom/stayrate/internal/observability/logging"
	"github.com/kirillkom/stayrate/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		logger.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("worker metrics server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeDatasetUploaded(ctx, func(handlerCtx context.Context, datasetID string) error {
		enrichCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		workerMetrics.StartEnrichment()
		start := time.Now()

		if ds, err := app.Datasets.GetByID(enrichCtx, datasetID); err == nil {
			workerMetrics.ObserveQueueLag("worker", start.Sub(ds.CreatedAt))
		}

		enrichErr := app.EnrichUC.EnrichByID(enrichCtx, datasetID)
		workerMetrics.FinishEnrichment("worker", time.Since(start), enrichErr)

		if enrichErr != nil {
			logger.Error("enrichment failed", "dataset_id", datasetID, "error", enrichErr)
			return enrichErr
		}

		if ds, err := app.Datasets.GetByID(enrichCtx, datasetID); err == nil {
			workerMetrics.ObserveRejectedRows("worker", ds.Rejected)
			logger.Info("enrichment completed",
				"dataset_id", datasetID,
				"rows", ds.RowCount,
				"rejected", ds.Rejected,
				"duration_ms", time.Since(start).Milliseconds())
		}
		return nil
	})
	if err != nil {
		logger.Error("worker subscribe failed", "error", err)
		os.Exit(1)
	}
}
