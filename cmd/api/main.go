package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapterhttp "usertodos/internal/adapter/http"
	"usertodos/internal/adapter/telemetry"
	"usertodos/pkg/config"
	"usertodos/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)

	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	appLogger, err := logger.New(logger.Config{
		ServiceName: cfg.Telemetry.ServiceName,
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
		LokiURL:     cfg.Telemetry.LokiURL,
	})

	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}

	defer appLogger.Sync()

	tel, err := telemetry.NewContainer(ctx, telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.Telemetry.MetricsPort,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
	}, appLogger)

	if err != nil {
		appLogger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tel.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Failed to shut down telemetry", zap.Error(err))
		}
	}()

	if err := adapterhttp.StartServer(ctx, cfg, appLogger, tel.NewTelemetryProbe(), tel.AppMetrics); err != nil {
		appLogger.Error("Server stopped with error", zap.Error(err))
		return
	}

	appLogger.Info("Server stopped")
}
