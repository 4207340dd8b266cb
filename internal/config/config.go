package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverElasticsearch = "elasticsearch"
	DriverMemory        = "memory"
)

// Config holds the mediadex API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Store   StoreConfig   `yaml:"store"`
	Media   MediaConfig   `yaml:"media"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// StoreConfig holds document store settings.
type StoreConfig struct {
	Driver            string `yaml:"driver"` // elasticsearch, memory (default: elasticsearch)
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	Username          string `yaml:"username"`
	Password          string `yaml:"password"`
	Index             string `yaml:"index"`
	VerifyCerts       bool   `yaml:"verify_certs"`
	RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	MaxRetries        int    `yaml:"max_retries"`
	ReadinessTimeout  int    `yaml:"readiness_timeout_sec"`
	FixturesPath      string `yaml:"fixtures_path"` // memory driver only
}

// MediaConfig holds normalization and facet settings.
type MediaConfig struct {
	ImageBaseURL string `yaml:"image_base_url"`
	FacetSize    int    `yaml:"facet_size"`
}

// CacheConfig holds the optional Redis cache settings. No addrs disables it.
type CacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// Enabled reports whether a cache is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// RequestTimeout returns the per-request store timeout.
func (c StoreConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverElasticsearch
	}
	if c.Store.Host == "" {
		c.Store.Host = "localhost"
	}
	if c.Store.Port == 0 {
		c.Store.Port = 9200
	}
	if c.Store.Index == "" {
		c.Store.Index = "media"
	}
	if c.Store.RequestTimeoutSec <= 0 {
		c.Store.RequestTimeoutSec = 10
	}
	if c.Store.ReadinessTimeout <= 0 {
		c.Store.ReadinessTimeout = 10
	}
	if c.Media.FacetSize <= 0 {
		c.Media.FacetSize = 1000
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Store.Driver {
	case DriverElasticsearch:
		if c.Store.Port <= 0 || c.Store.Port > 65535 {
			return fmt.Errorf("store.port must be between 1 and 65535, got %d", c.Store.Port)
		}
		if c.Store.MaxRetries < 0 {
			return fmt.Errorf("store.max_retries must be >= 0, got %d", c.Store.MaxRetries)
		}
	case DriverMemory:
		if c.Store.FixturesPath == "" {
			return fmt.Errorf("store.fixtures_path is required for the memory driver")
		}
	default:
		return fmt.Errorf("store.driver must be %q or %q, got %q", DriverElasticsearch, DriverMemory, c.Store.Driver)
	}
	if c.Media.ImageBaseURL == "" {
		return fmt.Errorf("media.image_base_url is required")
	}
	u, err := url.Parse(c.Media.ImageBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("media.image_base_url must be an absolute http(s) URL, got %q", c.Media.ImageBaseURL)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
