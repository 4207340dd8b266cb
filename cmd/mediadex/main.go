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

	"go.uber.org/zap"

	"github.com/kailas-cloud/mediadex/internal/config"
	dbRedis "github.com/kailas-cloud/mediadex/internal/db/redis"
	dbstore "github.com/kailas-cloud/mediadex/internal/db/store"
	logpkg "github.com/kailas-cloud/mediadex/internal/logger"
	"github.com/kailas-cloud/mediadex/internal/metrics"
	"github.com/kailas-cloud/mediadex/internal/normalize"
	"github.com/kailas-cloud/mediadex/internal/repository/mediacache"
	chiTransport "github.com/kailas-cloud/mediadex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/mediadex/internal/usecase/health"
	mediauc "github.com/kailas-cloud/mediadex/internal/usecase/media"
	"github.com/kailas-cloud/mediadex/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting mediadex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("store_index", cfg.Store.Index),
	)

	store, err := dbstore.Open(cfg.Store)
	if err != nil {
		logger.Fatal("Failed to create document store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	readiness := time.Duration(cfg.Store.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Document store not ready", zap.Error(err))
	}
	logger.Info("Connected to document store")

	// Register media metrics explicitly (no init())
	metrics.RegisterMediaMetrics()

	// Service chain, innermost first: core -> cache -> instrumented.
	// Instrumented is outermost so cache hits count as requests.
	var media mediauc.API = mediauc.New(
		store,
		normalize.New(cfg.Media.ImageBaseURL),
		logger,
		mediauc.WithFacetSize(cfg.Media.FacetSize),
	)

	// Pass nil interface (not typed nil pointer) when no cache is configured.
	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled() {
		kv, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer kv.Close()

		media = mediacache.New(media, kv, time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.MediaCacheTotal, logger)
		cachePinger = kv
		logger.Info("Media cache enabled", zap.Strings("addrs", cfg.Cache.Addrs), zap.Int("ttl_sec", cfg.Cache.TTLSec))
	}
	media = mediauc.NewInstrumentedService(media, logger)

	healthSvc := healthuc.New(store, cachePinger)
	server := chiTransport.NewServer(media, healthSvc, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Logger:      logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
