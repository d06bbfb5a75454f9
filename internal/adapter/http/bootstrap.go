package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"usertodos/internal/adapter/http/routes"
	"usertodos/internal/core/port"
	"usertodos/internal/core/telemetry"
	"usertodos/pkg/config"
	"usertodos/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// StartServer serves the API until ctx is cancelled, then drains in-flight
// requests for up to ten seconds.
func StartServer(ctx context.Context, cfg *config.Config, log *logger.Logger, probe port.Telemetry, metrics *telemetry.AppMetrics) error {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	container, err := NewContainer(ctx, cfg, probe, metrics)

	if err != nil {
		return err
	}

	defer func() {
		if err := container.Close(); err != nil {
			log.Error("Failed to close resources", zap.Error(err))
		}
	}()

	router := routes.SetupRouter(routes.HandlersConfig{
		AuthHandler: container.AuthHandler,
		TodoHandler: container.TodoHandler,
		AuthService: container.AuthService,
	}, routes.RouterConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Logger:      log,
		Metrics:     metrics,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	log.Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	serveErr := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}

		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
