package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/arcline-labs/dbtrace-go/example/sql/internal/config"
	"github.com/arcline-labs/dbtrace-go/example/sql/internal/database"
	"github.com/arcline-labs/dbtrace-go/example/sql/internal/telemetry"

	"go.opentelemetry.io/otel"
)

func main() {
	ctx := context.Background()
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	shutdownTracing, shutdownMetrics, err := telemetry.Setup(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to setup telemetry")
	}
	defer func() {
		_ = shutdownTracing(ctx)
		_ = shutdownMetrics(ctx)
	}()

	metricsServer := &http.Server{Addr: config.MetricsPort}
	go func() {
		logger.Info().Str("addr", config.MetricsPort).Msg("starting metrics server")
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("metrics server failed")
		}
	}()

	db, err := database.New(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	tracer := otel.Tracer("example-app")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := db.CreateTable(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to create table")
	}

	ticker := time.NewTicker(time.Duration(config.OperationInterval) * time.Second)
	defer ticker.Stop()

	logger.Info().Msg("example app started, press Ctrl+C to stop")

	for {
		select {
		case <-ticker.C:
			opCtx, span := tracer.Start(ctx, "db-operations")

			if err := db.InsertUsers(opCtx); err != nil {
				logger.Error().Err(err).Msg("failed to insert users")
			}
			if err := db.QueryUsers(opCtx); err != nil {
				logger.Error().Err(err).Msg("failed to query users")
			}
			if err := db.InsertWithTransaction(opCtx); err != nil {
				logger.Error().Err(err).Msg("transaction failed")
			}

			// filtered out by the PING policy hook: no span for this one
			if err := db.PingContext(opCtx); err != nil {
				logger.Error().Err(err).Msg("ping failed")
			}

			span.End()
			logger.Info().Msg("database operations completed")

		case <-sigChan:
			logger.Info().Msg("shutting down gracefully")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("metrics server shutdown error")
			}
			return
		}
	}
}
