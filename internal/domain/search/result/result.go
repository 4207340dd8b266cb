package result

import "github.com/kailas-cloud/mediadex/internal/domain/media"

// Page is one page of normalized search hits.
//
// Total is the store's count of all matching documents. Hits that fail
// normalization are dropped without adjusting Total, so Total may exceed
// what the pages actually deliver.
type Page struct {
	Total int          `json:"total"`
	Hits  []media.Item `json:"hits"`
}

// New creates a result page. A nil hits slice is replaced with an empty one.
func New(total int, hits []media.Item) Page {
	if hits == nil {
		hits = []media.Item{}
	}
	return Page{Total: total, Hits: hits}
}
