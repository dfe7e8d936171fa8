// cmd/enrich-server/main.go
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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prospect-enricher/internal/app"
	"prospect-enricher/internal/common/cache"
	"prospect-enricher/internal/common/config"
	"prospect-enricher/internal/common/logger"
	"prospect-enricher/internal/common/observability"
	enrichqueue "prospect-enricher/internal/workers/enrichment/enrich-queue"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{
		"service": cfg.App.Name,
		"env":     cfg.App.Environment,
	})

	zapLog.Info("Starting enrich server...", zap.String("version", cfg.App.Version))

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("OpenTelemetry exporter unavailable, batch meters disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	// Redis is optional; without it there is no run lock and no cache.
	var rdb *cache.RedisClient
	if cfg.Database.Redis.Address != "" {
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = cache.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return rdb.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		zapLog.Info("Redis connected successfully")
	}

	a := app.Build(cfg, log, app.Options{Redis: rdb, Obs: obs})
	defer a.Close()

	if a.Summarizer == nil {
		zapLog.Fatal("apis.genai.api_key is required to run the enrichment queue")
	}
	if a.CRM == nil {
		zapLog.Warn("HubSpot is not configured, trigger requests will return 503")
	}
	if n := a.Trends.Warm(); n == 0 {
		zapLog.Warn("Completions dataset is empty", zap.String("path", cfg.Sources.Completions.CSVPath))
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := enrichqueue.NewRouter(a.Queue, a.Ready)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: config.GetDuration(cfg.Server.ReadTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening",
			zap.Int("port", cfg.Server.Port),
			zap.String("trigger", cfg.Server.TriggerRoute),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.MaxDuration))
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Enrich server stopped")
}
