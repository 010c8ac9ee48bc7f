package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/rainfall-forecast-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/rainfall-forecast-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/config"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/dashboard"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/dataset"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/forecast"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "listen address (overrides HTTP_ADDR)")
	flag.StringVar(&cfg.DataPath, "data", cfg.DataPath, "forecast dataset, .csv or .xlsx (overrides DATA_PATH)")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "reload page templates on every request (overrides DEBUG)")
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid flags", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store, err := dataset.Load(cfg.DataPath)
	if err != nil {
		var loadErr *dataset.LoadError
		if errors.As(err, &loadErr) {
			logger.Error("dataset rejected", "path", loadErr.Path, "column", loadErr.Column, "line", loadErr.Line, "error", err)
		} else {
			logger.Error("failed to load dataset", "path", cfg.DataPath, "error", err)
		}
		os.Exit(1)
	}
	first, last := store.Bounds()
	logger.Info("dataset loaded",
		"path", store.Path(),
		"rows", store.Table().Len(),
		"first", first.Format(forecast.DateLayout),
		"last", last.Format(forecast.DateLayout),
	)

	opts := []dashboard.Option{dashboard.WithCache(cfg.ViewCacheSize)}
	var writer *kafkaadapter.SelectionWriter
	if cfg.SelectionEventsEnabled() {
		writer = kafkaadapter.NewSelectionWriter(cfg, logger)
		opts = append(opts, dashboard.WithPublisher(writer))
		logger.Info("selection events enabled", "topic", cfg.KafkaSelectionTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("selection events disabled")
	}

	dash := dashboard.New(store, logger, metrics, opts...)

	var srvOpts []httpadapter.Option
	if cfg.AssetsDir != "" {
		srvOpts = append(srvOpts, httpadapter.WithAssets(os.DirFS(cfg.AssetsDir)))
	}
	if cfg.Debug {
		srvOpts = append(srvOpts, httpadapter.WithTemplateReload(true))
		logger.Info("template reload enabled", "assets_dir", cfg.AssetsDir)
	}
	srv, err := httpadapter.NewServer(cfg.HTTPAddr, dash, logger, srvOpts...)
	if err != nil {
		logger.Error("failed to build http server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
