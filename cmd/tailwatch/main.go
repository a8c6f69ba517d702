package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/tailwatch/tailwatch/internal/adapter/hexdb"
	httpadapter "github.com/tailwatch/tailwatch/internal/adapter/http"
	kafkaadapter "github.com/tailwatch/tailwatch/internal/adapter/kafka"
	"github.com/tailwatch/tailwatch/internal/adapter/ntfy"
	"github.com/tailwatch/tailwatch/internal/adapter/opensky"
	"github.com/tailwatch/tailwatch/internal/adapter/photos"
	"github.com/tailwatch/tailwatch/internal/config"
	"github.com/tailwatch/tailwatch/internal/observability"
	"github.com/tailwatch/tailwatch/internal/watch"
)

func main() {
	// Best-effort: a missing .env is fine, the environment wins anyway.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	provider := opensky.NewClient(cfg.OpenSkyBaseURL, cfg.OpenSkyTimeout, logger)

	hexdbClient := hexdb.NewClient(cfg.HexDBBaseURL, cfg.HexDBTimeout, logger)
	resolver := hexdb.NewCachedResolver(hexdbClient, logger, metrics)

	notifiers := []watch.Notifier{watch.NewLogNotifier(logger)}
	if cfg.NtfyEnabled {
		notifiers = append(notifiers, ntfy.NewNotifier(cfg.NtfyURL, cfg.NtfyTopic, cfg.NtfyTimeout, logger))
		logger.Info("ntfy notifications enabled", "topic", cfg.NtfyTopic)
	} else {
		logger.Info("ntfy notifications disabled")
	}

	var alertWriter *kafkaadapter.AlertWriter
	if cfg.KafkaEnabled {
		alertWriter = kafkaadapter.NewAlertWriter(cfg.KafkaBrokers, cfg.KafkaAlertTopic, logger)
		notifiers = append(notifiers, alertWriter)
		logger.Info("kafka alert publishing enabled", "topic", cfg.KafkaAlertTopic)
	} else {
		logger.Info("kafka alert publishing disabled")
	}

	engine := watch.New(provider, resolver, cfg.WatchArea(), cfg.PollInterval,
		notifiers, logger, metrics, clockwork.NewRealClock())

	photoSource := photos.NewSource(cfg.PhotoBaseURL, cfg.PhotoTimeout, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, engine, provider, resolver, photoSource, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := engine.Run(ctx); err != nil {
			logger.Error("watch engine error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if alertWriter != nil {
		if err := alertWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
