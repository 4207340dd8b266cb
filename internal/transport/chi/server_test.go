package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/mediadex/internal/domain"
	dommedia "github.com/kailas-cloud/mediadex/internal/domain/media"
	"github.com/kailas-cloud/mediadex/internal/domain/search/request"
	"github.com/kailas-cloud/mediadex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/mediadex/internal/usecase/health"
)

type mockMedia struct {
	page    result.Page
	item    dommedia.Item
	names   []string
	err     error
	lastReq request.Request
	lastID  string
	panics  bool
}

func (m *mockMedia) Search(_ context.Context, req request.Request) (result.Page, error) {
	if m.panics {
		panic("boom")
	}
	m.lastReq = req
	return m.page, m.err
}

func (m *mockMedia) GetByID(_ context.Context, id string) (dommedia.Item, error) {
	m.lastID = id
	return m.item, m.err
}

func (m *mockMedia) ListPhotographers(context.Context) ([]string, error) {
	return m.names, m.err
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(context.Context) error { return m.err }

func newTestRouter(m *mockMedia, store *mockPinger) http.Handler {
	if store == nil {
		store = &mockPinger{}
	}
	srv := NewServer(m, healthuc.New(store, nil), zap.NewNop())
	return NewRouter(srv, RouterOptions{CORSOrigins: []string{"https://gallery.example.com"}})
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, http.NoBody))
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

func TestSearchMedia_OK(t *testing.T) {
	m := &mockMedia{page: result.New(42, []dommedia.Item{{
		ID: "1", Title: "t", Photographer: "Jane Doe",
		ThumbnailURL:   "https://images.example.com/bild/st/0000000042/s.jpg",
		AdditionalData: map[string]any{"bildnummer": "42", "score": 1.5},
	}})}
	h := newTestRouter(m, nil)

	rr := do(t, h, http.MethodGet,
		"/api/search?q=sunset&page=2&size=5&photographer=Jane+Doe&min_date=2023-01-01&max_date=2023-01-31")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body struct {
		Total int              `json:"total"`
		Hits  []map[string]any `json:"hits"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Total != 42 || len(body.Hits) != 1 {
		t.Fatalf("body = %+v", body)
	}
	hit := body.Hits[0]
	for _, key := range []string{"id", "title", "description", "photographer", "date", "thumbnail_url", "additional_data"} {
		if _, ok := hit[key]; !ok {
			t.Errorf("hit is missing %q", key)
		}
	}

	req := m.lastReq
	if req.Query() != "sunset" || req.Page() != 2 || req.Size() != 5 {
		t.Errorf("request = q:%q page:%d size:%d", req.Query(), req.Page(), req.Size())
	}
	f := req.Filters()
	if f.Photographer != "Jane Doe" || f.MinDate != "2023-01-01" || f.MaxDate != "2023-01-31" {
		t.Errorf("filters = %+v", f)
	}
}

func TestSearchMedia_Defaults(t *testing.T) {
	m := &mockMedia{page: result.New(0, nil)}
	rr := do(t, newTestRouter(m, nil), http.MethodGet, "/api/search")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"hits":[]`) {
		t.Errorf("empty hits should encode as []: %s", rr.Body)
	}
	if m.lastReq.Page() != request.DefaultPage || m.lastReq.Size() != request.DefaultSize {
		t.Errorf("page/size = %d/%d", m.lastReq.Page(), m.lastReq.Size())
	}
}

func TestSearchMedia_SizeClamped(t *testing.T) {
	m := &mockMedia{page: result.New(0, nil)}
	rr := do(t, newTestRouter(m, nil), http.MethodGet, "/api/search?size=500")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if m.lastReq.Size() != request.MaxSize {
		t.Errorf("size = %d, want %d", m.lastReq.Size(), request.MaxSize)
	}
}

func TestSearchMedia_BadParams(t *testing.T) {
	tests := []struct {
		query string
		code  string
	}{
		{"page=abc", CodeBadRequest},
		{"size=1.5", CodeBadRequest},
		{"page=0", CodeValidationFailed},
		{"size=-3", CodeValidationFailed},
		{"min_date=yesterday", CodeValidationFailed},
		{"min_date=2023-02-01&max_date=2023-01-01", CodeValidationFailed},
		{"page=500&size=100", CodeValidationFailed},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			m := &mockMedia{}
			rr := do(t, newTestRouter(m, nil), http.MethodGet, "/api/search?"+tc.query)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if e := decodeError(t, rr); e.Code != tc.code {
				t.Errorf("code = %q, want %q", e.Code, tc.code)
			}
		})
	}
}

func TestDomainErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("x: %w", domain.ErrInvalidRequest), http.StatusBadRequest, CodeValidationFailed},
		{fmt.Errorf("x: %w", domain.ErrNotFound), http.StatusNotFound, CodeMediaNotFound},
		{fmt.Errorf("x: %w", domain.ErrTimeout), http.StatusGatewayTimeout, CodeStoreTimeout},
		{fmt.Errorf("x: %w", domain.ErrStoreUnavailable), http.StatusServiceUnavailable, CodeStoreUnavailable},
		{fmt.Errorf("x: secret internals"), http.StatusInternalServerError, CodeInternalError},
	}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			h := newTestRouter(&mockMedia{err: tc.err}, nil)
			for _, target := range []string{"/api/search", "/api/media/abc", "/api/photographers"} {
				rr := do(t, h, http.MethodGet, target)
				if rr.Code != tc.status {
					t.Fatalf("%s: status = %d, want %d", target, rr.Code, tc.status)
				}
				e := decodeError(t, rr)
				if e.Code != tc.code {
					t.Errorf("%s: code = %q, want %q", target, e.Code, tc.code)
				}
				if strings.Contains(e.Message, "secret") {
					t.Errorf("%s: internal error leaked: %q", target, e.Message)
				}
			}
		})
	}
}

func TestGetMedia(t *testing.T) {
	m := &mockMedia{item: dommedia.Item{ID: "a b", Title: "x", AdditionalData: map[string]any{}}}
	rr := do(t, newTestRouter(m, nil), http.MethodGet, "/api/media/a%20b")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var item dommedia.Item
	if err := json.NewDecoder(rr.Body).Decode(&item); err != nil {
		t.Fatal(err)
	}
	if item.ID != "a b" {
		t.Errorf("item = %+v", item)
	}
	if m.lastID == "" {
		t.Error("id not passed to the service")
	}
}

func TestListPhotographers(t *testing.T) {
	m := &mockMedia{names: []string{"Anna", "Zoe"}}
	rr := do(t, newTestRouter(m, nil), http.MethodGet, "/api/photographers")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body PhotographersResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Photographers) != 2 || body.Photographers[0] != "Anna" {
		t.Errorf("body = %+v", body)
	}
}

func TestHealthCheck(t *testing.T) {
	rr := do(t, newTestRouter(&mockMedia{}, nil), http.MethodGet, "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rr.Body)
	}

	rr = do(t, newTestRouter(&mockMedia{}, &mockPinger{err: domain.ErrStoreUnavailable}), http.MethodGet, "/health")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(&mockMedia{names: []string{}}, nil)
	_ = do(t, h, http.MethodGet, "/api/photographers")

	rr := do(t, h, http.MethodGet, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "mediadex_http_requests_total") {
		t.Error("http metrics missing")
	}
}

func TestCORS(t *testing.T) {
	h := newTestRouter(&mockMedia{names: []string{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/photographers", http.NoBody)
	req.Header.Set("Origin", "https://gallery.example.com")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://gallery.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/photographers", http.NoBody)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}
}

func TestRequestIDAndRecoverer(t *testing.T) {
	h := newTestRouter(&mockMedia{panics: true}, nil)
	rr := do(t, h, http.MethodGet, "/api/search")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != CodeInternalError {
		t.Errorf("code = %q", e.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
}

func TestNotFoundRoute(t *testing.T) {
	rr := do(t, newTestRouter(&mockMedia{}, nil), http.MethodGet, "/api/nope")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}
