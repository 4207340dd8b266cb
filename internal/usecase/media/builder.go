package media

import (
	"fmt"

	"github.com/kailas-cloud/mediadex/internal/db"
	"github.com/kailas-cloud/mediadex/internal/domain"
	dommedia "github.com/kailas-cloud/mediadex/internal/domain/media"
	"github.com/kailas-cloud/mediadex/internal/domain/search/request"
)

// TextFields are the raw fields a free-text query is matched against.
var TextFields = []string{
	dommedia.RawText,
	dommedia.RawTitle,
	dommedia.RawDescription,
	dommedia.RawPhotographer,
}

// BuildQuery translates a search request into a store query. It is pure.
// An empty query matches everything; filters are always conjunctive.
func BuildQuery(req request.Request) (db.Query, error) {
	if req.Page() < 1 || req.Size() < 1 {
		return db.Query{}, fmt.Errorf("%w: page and size must be >= 1", domain.ErrInvalidRequest)
	}

	q := db.Query{
		Must:       db.MatchAll{},
		Offset:     req.Offset(),
		Limit:      req.Size(),
		TrackTotal: true,
	}
	if text := req.Query(); text != "" {
		q.Must = db.MultiMatch{Text: text, Fields: TextFields}
	}

	f := req.Filters()
	if f.Photographer != "" {
		q.Filters = append(q.Filters, db.Term{
			Field:           dommedia.RawPhotographer,
			Value:           f.Photographer,
			CaseInsensitive: true,
		})
	}
	if f.MinDate != "" || f.MaxDate != "" {
		q.Filters = append(q.Filters, db.Range{
			Field: dommedia.RawDate,
			GTE:   f.MinDate,
			LTE:   f.MaxDate,
		})
	}
	return q, nil
}
