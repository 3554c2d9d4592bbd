package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/departure-etl/internal/adapter/catalogfile"
	httpadapter "github.com/couchcryptid/departure-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/departure-etl/internal/adapter/kafka"
	"github.com/couchcryptid/departure-etl/internal/cache"
	"github.com/couchcryptid/departure-etl/internal/config"
	"github.com/couchcryptid/departure-etl/internal/domain"
	"github.com/couchcryptid/departure-etl/internal/observability"
	"github.com/couchcryptid/departure-etl/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", "departure-etl")
	metrics := observability.NewMetrics()

	catalog, overlayEntries, err := catalogfile.LoadCatalog(cfg.MessageCatalogFile, domain.DefaultCatalog)
	if err != nil {
		logger.Error("failed to load message catalog", "error", err, "path", cfg.MessageCatalogFile)
		os.Exit(1)
	}
	metrics.CatalogOverlay.Set(float64(overlayEntries))
	if cfg.MessageCatalogFile != "" {
		logger.Info("message catalog overlay loaded", "path", cfg.MessageCatalogFile, "entries", overlayEntries)
	}

	var parser domain.DesignationParser = domain.DefaultParser
	if cfg.DesignationCacheSize > 0 {
		parser = cache.NewCachedParser(parser, cfg.DesignationCacheSize, metrics)
		logger.Info("designation cache enabled", "cache_size", cfg.DesignationCacheSize)
	} else {
		logger.Info("designation cache disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(catalog, parser, metrics, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
