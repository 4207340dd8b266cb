package mediadex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver string // "elasticsearch" or "memory"

	host        string
	port        int
	index       string
	username    string
	password    string
	verifyCerts bool
	timeout     time.Duration
	maxRetries  int

	fixturesPath string

	imageBaseURL     string
	facetSize        int
	readinessTimeout time.Duration

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithElasticsearch reads media from the given Elasticsearch node and index.
// host may carry a scheme and port; https is assumed otherwise.
func WithElasticsearch(host string, port int, index string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverElasticsearch
		c.host = host
		c.port = port
		c.index = index
	})
}

// WithBasicAuth sets Elasticsearch credentials.
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithVerifyCerts enables TLS certificate verification (off by default).
func WithVerifyCerts(verify bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.verifyCerts = verify
	})
}

// WithRequestTimeout bounds every store call. Default: 10s.
func WithRequestTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithMaxRetries enables transport retries on failed store calls.
func WithMaxRetries(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxRetries = n
	})
}

// WithFixtures serves media from a YAML fixture file instead of Elasticsearch.
// Intended for tests and local development.
func WithFixtures(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
		c.fixturesPath = path
	})
}

// WithImageBaseURL sets the host thumbnail URLs are built on.
func WithImageBaseURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.imageBaseURL = u
	})
}

// WithFacetSize caps the number of photographers returned. Default: 1000.
func WithFacetSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.facetSize = n
	})
}

// WithReadinessTimeout bounds the initial wait for the store. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithRedisCache caches point lookups and the photographer list in Redis.
// A non-positive ttl selects the default of five minutes.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
