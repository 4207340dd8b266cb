package mediadex

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	fixturesPath = "../../testdata/media.yaml"
	imageBase    = "https://images.example.com"
)

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithFixtures(fixturesPath), WithImageBaseURL(imageBase)}, opts...)
	c, err := New(context.Background(), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNew_NoStore(t *testing.T) {
	_, err := New(context.Background(), WithImageBaseURL(imageBase))
	if err == nil {
		t.Fatal("expected error when no store is configured")
	}
}

func TestNew_NoImageBaseURL(t *testing.T) {
	_, err := New(context.Background(), WithFixtures(fixturesPath))
	if err == nil {
		t.Fatal("expected error when no image base URL is configured")
	}
}

func TestNew_MissingFixtures(t *testing.T) {
	_, err := New(context.Background(), WithFixtures("/nonexistent/media.yaml"), WithImageBaseURL(imageBase))
	if err == nil {
		t.Fatal("expected error for missing fixture file")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := createStore(&clientConfig{driver: "sqlite"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestCreateStore_ElasticsearchRequiresIndex(t *testing.T) {
	cfg := &clientConfig{}
	WithElasticsearch("localhost", 9200, "").apply(cfg)
	if _, err := createStore(cfg); err == nil {
		t.Fatal("expected error without index")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithElasticsearch("es.internal", 9243, "media").apply(cfg)
	if cfg.driver != driverElasticsearch || cfg.host != "es.internal" || cfg.port != 9243 || cfg.index != "media" {
		t.Errorf("elasticsearch options = %+v", cfg)
	}

	WithBasicAuth("reader", "secret").apply(cfg)
	if cfg.username != "reader" || cfg.password != "secret" {
		t.Errorf("auth = (%q, %q)", cfg.username, cfg.password)
	}

	WithVerifyCerts(true).apply(cfg)
	WithRequestTimeout(3 * time.Second).apply(cfg)
	WithMaxRetries(2).apply(cfg)
	if !cfg.verifyCerts || cfg.timeout != 3*time.Second || cfg.maxRetries != 2 {
		t.Errorf("transport options = %+v", cfg)
	}

	WithFacetSize(50).apply(cfg)
	WithReadinessTimeout(time.Second).apply(cfg)
	if cfg.facetSize != 50 || cfg.readinessTimeout != time.Second {
		t.Errorf("facet/readiness = %d/%s", cfg.facetSize, cfg.readinessTimeout)
	}

	WithRedisCache("localhost:6379", "pass", time.Minute).apply(cfg)
	if len(cfg.cacheAddrs) != 1 || cfg.cacheAddrs[0] != "localhost:6379" || cfg.cacheTTL != time.Minute {
		t.Errorf("cache = %v/%s", cfg.cacheAddrs, cfg.cacheTTL)
	}

	WithFixtures("media.yaml").apply(cfg)
	if cfg.driver != driverMemory || cfg.fixturesPath != "media.yaml" {
		t.Errorf("fixtures = %q/%q", cfg.driver, cfg.fixturesPath)
	}

	logger := slog.Default()
	WithLogger(logger).apply(cfg)
	if cfg.logger != logger {
		t.Error("expected logger to be set")
	}

	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg)
	if cfg.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestClient_Close_NilStore(t *testing.T) {
	c := &Client{}
	c.Close()
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t)

	page, err := c.Search(context.Background(), SearchQuery{Query: "sunset"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("total=%d items=%d, want 1/1", page.Total, len(page.Items))
	}
	if page.Page != 1 || page.Size != 10 || page.TotalPages != 1 {
		t.Errorf("paging = %d/%d/%d", page.Page, page.Size, page.TotalPages)
	}

	item := page.Items[0]
	if item.ID != "ZpA1" || item.Title != "Sunset over the bay" || item.Photographer != "Jane Doe" {
		t.Errorf("item = %+v", item)
	}
	if item.ThumbnailURL != imageBase+"/bild/st/0059987730/s.jpg" {
		t.Errorf("thumbnail = %q", item.ThumbnailURL)
	}
	if item.Score == nil {
		t.Error("expected a relevance score")
	}
}

func TestClient_Search_Pagination(t *testing.T) {
	c := newTestClient(t)

	page, err := c.Search(context.Background(), SearchQuery{Page: 2, Size: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 4 || len(page.Items) != 1 || page.TotalPages != 2 {
		t.Errorf("total=%d items=%d pages=%d, want 4/1/2", page.Total, len(page.Items), page.TotalPages)
	}
}

func TestClient_Search_PhotographerFilter(t *testing.T) {
	c := newTestClient(t)

	page, err := c.Search(context.Background(), SearchQuery{Photographer: "jane doe"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("total = %d, want 2", page.Total)
	}
}

func TestClient_Search_Invalid(t *testing.T) {
	c := newTestClient(t)

	tests := []struct {
		name string
		q    SearchQuery
	}{
		{"negative page", SearchQuery{Page: -1}},
		{"bad date", SearchQuery{MinDate: "yesterday"}},
		{"inverted range", SearchQuery{MinDate: "2023-02-01", MaxDate: "2023-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Search(context.Background(), tt.q)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestClient_Get(t *testing.T) {
	c := newTestClient(t)

	item, err := c.Get(context.Background(), "ZpA3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Title != "Alpine lake" {
		t.Errorf("title = %q, want markup stripped", item.Title)
	}
	if item.ThumbnailURL != imageBase+"/bild/sp/0000001234/s.jpg" {
		t.Errorf("thumbnail = %q", item.ThumbnailURL)
	}
}

func TestClient_Get_NotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestClient_Photographers(t *testing.T) {
	c := newTestClient(t)

	names, err := c.Photographers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(names, "|") != "Jane Doe|John Roe" {
		t.Errorf("names = %v", names)
	}
}

func TestClient_HealthAndPing(t *testing.T) {
	c := newTestClient(t)

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	h := c.Health(context.Background())
	if h.Status != "ok" || h.Checks["store"] != "ok" {
		t.Errorf("health = %+v", h)
	}
	if !h.Serving() {
		t.Error("healthy client should be serving")
	}
	if _, ok := h.Checks["cache"]; ok {
		t.Error("cache should not be checked when not configured")
	}
}

func TestClient_WithObservability(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg := prometheus.NewRegistry()
	c := newTestClient(t, WithLogger(logger), WithPrometheus(reg))

	if _, err := c.Search(context.Background(), SearchQuery{}); err != nil {
		t.Fatalf("search: %v", err)
	}
	if _, err := c.Get(context.Background(), "nope"); err == nil {
		t.Fatal("expected error")
	}

	out := buf.String()
	if !strings.Contains(out, "operation completed") || !strings.Contains(out, "error_type=not_found") {
		t.Errorf("log output = %s", out)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{
		"mediadex_sdk_operations_total",
		"mediadex_sdk_errors_total",
		"mediadex_sdk_operation_duration_seconds",
	} {
		if !found[name] {
			t.Errorf("%s not registered", name)
		}
	}
}

func TestHealthStatus_Serving(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"ok", true},
		{"degraded", true},
		{"error", false},
	}
	for _, tt := range tests {
		if got := (HealthStatus{Status: tt.status}).Serving(); got != tt.want {
			t.Errorf("Serving(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
