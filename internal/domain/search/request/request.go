package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/mediadex/internal/domain"
	"github.com/kailas-cloud/mediadex/internal/sanitize"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultPage    = 1
	DefaultSize    = 10
	MaxSize        = 100
	// MaxWindow mirrors the store's max_result_window: offset+size may not exceed it.
	MaxWindow = 10000
)

// dateLayouts are the ISO-8601 forms accepted for date filters.
var dateLayouts = []string{
	time.DateOnly,
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// Filters narrows a search conjunctively with the text query.
type Filters struct {
	Photographer string
	MinDate      string
	MaxDate      string
}

// IsEmpty reports whether no filter is set.
func (f Filters) IsEmpty() bool {
	return f.Photographer == "" && f.MinDate == "" && f.MaxDate == ""
}

// Request is a validated search query.
type Request struct {
	query   string
	filters Filters
	page    int
	size    int
}

// New validates and normalizes search parameters.
// Pages start at 1; size is clamped to MaxSize.
func New(query string, filters Filters, page, size int) (Request, error) {
	query = strings.TrimSpace(query)
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if page < 1 {
		return Request{}, fmt.Errorf("%w: page must be >= 1, got %d", domain.ErrInvalidRequest, page)
	}
	if size < 1 {
		return Request{}, fmt.Errorf("%w: size must be >= 1, got %d", domain.ErrInvalidRequest, size)
	}
	if size > MaxSize {
		size = MaxSize
	}
	if page > MaxWindow || page*size > MaxWindow {
		return Request{}, fmt.Errorf("%w: page %d of size %d is beyond the result window (%d)",
			domain.ErrInvalidRequest, page, size, MaxWindow)
	}

	f, err := normalizeFilters(filters)
	if err != nil {
		return Request{}, err
	}

	return Request{query: query, filters: f, page: page, size: size}, nil
}

func normalizeFilters(f Filters) (Filters, error) {
	out := Filters{
		Photographer: sanitize.String(f.Photographer),
		MinDate:      strings.TrimSpace(f.MinDate),
		MaxDate:      strings.TrimSpace(f.MaxDate),
	}

	var minT, maxT time.Time
	var err error
	if out.MinDate != "" {
		if minT, err = ParseDate(out.MinDate); err != nil {
			return Filters{}, fmt.Errorf("%w: min_date: %w", domain.ErrInvalidRequest, err)
		}
	}
	if out.MaxDate != "" {
		if maxT, err = ParseDate(out.MaxDate); err != nil {
			return Filters{}, fmt.Errorf("%w: max_date: %w", domain.ErrInvalidRequest, err)
		}
	}
	if out.MinDate != "" && out.MaxDate != "" && minT.After(maxT) {
		return Filters{}, fmt.Errorf("%w: min_date %s is after max_date %s",
			domain.ErrInvalidRequest, out.MinDate, out.MaxDate)
	}
	return out, nil
}

// ParseDate parses an ISO-8601 date or date-time.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not an ISO-8601 date", s)
}

// Query returns the free-text query; empty means match all.
func (r *Request) Query() string { return r.query }

// Filters returns the structured filters.
func (r *Request) Filters() Filters { return r.filters }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// Size returns the page size.
func (r *Request) Size() int { return r.size }

// Offset returns the number of hits to skip.
func (r *Request) Offset() int { return (r.page - 1) * r.size }
