package elastic

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/mediadex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const defaultRequestTimeout = 10 * time.Second

// Config holds connection parameters for an Elasticsearch store.
type Config struct {
	Host           string // with or without scheme; https is assumed when missing
	Port           int    // applied only when Host carries no port
	Username       string
	Password       string
	Index          string
	VerifyCerts    bool
	RequestTimeout time.Duration
	MaxRetries     int // 0 disables transport retries
}

// Store implements db.Store on top of a single pooled go-elasticsearch client.
type Store struct {
	client    *elasticsearch.Client
	transport *http.Transport
	index     string
	timeout   time.Duration
}

// NewStore creates an Elasticsearch store. It does not contact the cluster.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Index == "" {
		return nil, fmt.Errorf("index is required")
	}
	addr, err := Address(cfg.Host, cfg.Port)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !cfg.VerifyCerts {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via verify_certs=false
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{addr},
		Username:     cfg.Username,
		Password:     cfg.Password,
		Transport:    transport,
		MaxRetries:   cfg.MaxRetries,
		DisableRetry: cfg.MaxRetries <= 0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &Store{client: client, transport: transport, index: cfg.Index, timeout: timeout}, nil
}

// Address builds the node URL from host and port.
func Address(host string, port int) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		host = "localhost"
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	u, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("invalid host %q: %w", host, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("invalid host %q: missing hostname", host)
	}
	if u.Port() == "" && port > 0 {
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(port))
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// Index returns the index this store reads from.
func (s *Store) Index() string { return s.index }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: classify(err)}
	}
	defer closeBody(res)
	if res.IsError() {
		return &db.Error{Op: db.OpPing, Err: statusError(res)}
	}
	return nil
}

// Close releases idle connections of the underlying transport.
func (s *Store) Close() {
	s.transport.CloseIdleConnections()
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := s.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for elasticsearch: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// classify maps a transport-level failure onto the db sentinels.
func classify(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", db.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", db.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", db.ErrUnavailable, err)
}

// errorBody is the error envelope Elasticsearch returns with non-2xx statuses.
type errorBody struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

// statusError maps a non-2xx response onto the db sentinels.
func statusError(res *esapi.Response) error {
	reason := res.Status()
	if res.Body != nil {
		var eb errorBody
		if err := json.NewDecoder(res.Body).Decode(&eb); err == nil && eb.Error.Type != "" {
			reason = fmt.Sprintf("%s: %s: %s", res.Status(), eb.Error.Type, eb.Error.Reason)
		}
	}

	switch {
	case res.StatusCode == http.StatusRequestTimeout || res.StatusCode == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", db.ErrTimeout, reason)
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", db.ErrUnavailable, reason)
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", db.ErrUnavailable, reason)
	case res.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", db.ErrUnavailable, reason)
	case res.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", db.ErrBadQuery, reason)
	default:
		return fmt.Errorf("unexpected response: %s", reason)
	}
}

// decode reads a JSON body keeping numbers as json.Number, so that raw
// numeric ids survive without float formatting.
func decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func closeBody(res *esapi.Response) {
	if res != nil && res.Body != nil {
		_ = res.Body.Close()
	}
}
