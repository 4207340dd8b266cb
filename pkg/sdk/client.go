package mediadex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mediadex/internal/db"
	"github.com/kailas-cloud/mediadex/internal/db/elastic"
	"github.com/kailas-cloud/mediadex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/mediadex/internal/db/redis"
	"github.com/kailas-cloud/mediadex/internal/normalize"
	"github.com/kailas-cloud/mediadex/internal/repository/mediacache"
	healthuc "github.com/kailas-cloud/mediadex/internal/usecase/health"
	mediauc "github.com/kailas-cloud/mediadex/internal/usecase/media"
)

const (
	driverElasticsearch = "elasticsearch"
	driverMemory        = "memory"

	defaultReadinessTimeout = 10 * time.Second
)

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the mediadex SDK entry point. It is safe for concurrent use.
type Client struct {
	store     db.Store
	cache     *dbRedis.Store
	media     mediauc.API
	healthSvc healthUseCase
	obs       *observer
}

// New creates a mediadex Client and waits for the store to become ready.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("mediadex: store required (use WithElasticsearch or WithFixtures)")
	}
	if cfg.imageBaseURL == "" {
		return nil, errors.New("mediadex: image base URL required (use WithImageBaseURL)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("mediadex: store not ready: %w", err)
	}

	var cache *dbRedis.Store
	if len(cfg.cacheAddrs) > 0 {
		cache, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
		})
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("mediadex: create cache: %w", err)
		}
	}

	return wireClient(store, cache, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverElasticsearch:
		s, err := elastic.NewStore(elastic.Config{
			Host:           cfg.host,
			Port:           cfg.port,
			Username:       cfg.username,
			Password:       cfg.password,
			Index:          cfg.index,
			VerifyCerts:    cfg.verifyCerts,
			RequestTimeout: cfg.timeout,
			MaxRetries:     cfg.maxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("mediadex: create elasticsearch store: %w", err)
		}
		return s, nil
	case driverMemory:
		s, err := memory.Load(cfg.fixturesPath)
		if err != nil {
			return nil, fmt.Errorf("mediadex: load fixtures: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("mediadex: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cache *dbRedis.Store, cfg *clientConfig, obs *observer) *Client {
	// The SDK reports through slog; the internal zap logging stays silent.
	nop := zap.NewNop()

	var media mediauc.API = mediauc.New(
		store,
		normalize.New(cfg.imageBaseURL),
		nop,
		mediauc.WithFacetSize(cfg.facetSize),
	)

	// Pass nil interface (not typed nil pointer) when no cache is configured.
	var cachePinger healthuc.Pinger
	if cache != nil {
		media = mediacache.New(media, cache, cfg.cacheTTL, nil, nop)
		cachePinger = cache
	}

	return &Client{
		store:     store,
		cache:     cache,
		media:     media,
		healthSvc: healthuc.New(store, cachePinger),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
