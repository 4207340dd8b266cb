package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/mediadex/internal/domain"
	dommedia "github.com/kailas-cloud/mediadex/internal/domain/media"
	"github.com/kailas-cloud/mediadex/internal/domain/search/request"
	"github.com/kailas-cloud/mediadex/internal/domain/search/result"
	"github.com/kailas-cloud/mediadex/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterMediaMetrics()
	os.Exit(m.Run())
}

type mockAPI struct {
	page  result.Page
	item  dommedia.Item
	names []string
	err   error
}

func (m *mockAPI) Search(context.Context, request.Request) (result.Page, error) { return m.page, m.err }
func (m *mockAPI) GetByID(context.Context, string) (dommedia.Item, error)       { return m.item, m.err }
func (m *mockAPI) ListPhotographers(context.Context) ([]string, error)          { return m.names, m.err }

func TestInstrumentedService_Success(t *testing.T) {
	inner := &mockAPI{page: result.New(3, nil), names: []string{"A"}}
	svc := NewInstrumentedService(inner, zap.NewNop())

	before := testutil.ToFloat64(metrics.MediaRequestsTotal.WithLabelValues(OpSearch, "ok"))
	page, err := svc.Search(context.Background(), mustRequest(t, "", request.Filters{}, 1, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("Total = %d", page.Total)
	}
	after := testutil.ToFloat64(metrics.MediaRequestsTotal.WithLabelValues(OpSearch, "ok"))
	if after != before+1 {
		t.Errorf("requests_total{search,ok} = %f, want %f", after, before+1)
	}

	if _, err := svc.ListPhotographers(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := testutil.ToFloat64(metrics.MediaRequestsTotal.WithLabelValues(OpPhotographers, "ok")); v < 1 {
		t.Errorf("requests_total{list_photographers,ok} = %f", v)
	}
	if testutil.CollectAndCount(metrics.MediaRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestInstrumentedService_Errors(t *testing.T) {
	tests := []struct {
		err  error
		kind string
	}{
		{fmt.Errorf("get: %w", domain.ErrNotFound), "not_found"},
		{fmt.Errorf("get: %w", domain.ErrTimeout), "timeout"},
		{fmt.Errorf("get: %w", domain.ErrStoreUnavailable), "store_unavailable"},
		{domain.ErrInvalidRequest, "invalid_request"},
		{context.Canceled, "canceled"},
		{errors.New("boom"), "internal"},
	}
	for _, tc := range tests {
		t.Run(tc.kind, func(t *testing.T) {
			svc := NewInstrumentedService(&mockAPI{err: tc.err}, zap.NewNop())
			before := testutil.ToFloat64(metrics.MediaErrorsTotal.WithLabelValues(OpGetByID, tc.kind))

			_, err := svc.GetByID(context.Background(), "x")
			if !errors.Is(err, tc.err) {
				t.Fatalf("error not passed through: %v", err)
			}
			after := testutil.ToFloat64(metrics.MediaErrorsTotal.WithLabelValues(OpGetByID, tc.kind))
			if after != before+1 {
				t.Errorf("errors_total{%s} = %f, want %f", tc.kind, after, before+1)
			}
		})
	}
}

func TestErrorType(t *testing.T) {
	if got := ErrorType(fmt.Errorf("wrap: %w", domain.ErrInvalidRequest)); got != "invalid_request" {
		t.Errorf("ErrorType = %q", got)
	}
}
