package media

import (
	"context"

	"github.com/kailas-cloud/mediadex/internal/db"
	dommedia "github.com/kailas-cloud/mediadex/internal/domain/media"
	"github.com/kailas-cloud/mediadex/internal/domain/search/request"
	"github.com/kailas-cloud/mediadex/internal/domain/search/result"
)

// Store defines the read contract the service needs from a document store.
type Store interface {
	Search(ctx context.Context, q *db.Query) (*db.SearchResult, error)
	Get(ctx context.Context, id string) (db.Hit, error)
	Distinct(ctx context.Context, field string, size int) ([]string, error)
}

// Normalizer maps a raw hit onto the canonical item.
type Normalizer interface {
	Normalize(hit db.Hit, queryText string) (dommedia.Item, error)
}

// Counter is the slice of prometheus.Counter used for dropped hits.
type Counter interface {
	Inc()
}

// API is the public surface of the media service. Decorators such as
// InstrumentedService and the cache wrap it.
type API interface {
	Search(ctx context.Context, req request.Request) (result.Page, error)
	GetByID(ctx context.Context, id string) (dommedia.Item, error)
	ListPhotographers(ctx context.Context) ([]string, error)
}
