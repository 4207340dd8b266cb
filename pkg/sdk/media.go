package mediadex

import (
	"context"
	"fmt"
	"maps"
	"time"

	dommedia "github.com/kailas-cloud/mediadex/internal/domain/media"
	"github.com/kailas-cloud/mediadex/internal/domain/search/request"
)

// Search runs a keyword search with optional photographer and date filters.
// Invalid parameters fail with ErrInvalidRequest.
func (c *Client) Search(ctx context.Context, q SearchQuery) (_ SearchPage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("media.search", start, err) }()

	page, size := q.Page, q.Size
	if page == 0 {
		page = request.DefaultPage
	}
	if size == 0 {
		size = request.DefaultSize
	}

	req, err := request.New(q.Query, request.Filters{
		Photographer: q.Photographer,
		MinDate:      q.MinDate,
		MaxDate:      q.MaxDate,
	}, page, size)
	if err != nil {
		return SearchPage{}, err
	}

	res, err := c.media.Search(ctx, req)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search: %w", err)
	}

	items := make([]MediaItem, len(res.Hits))
	for i := range res.Hits {
		items[i] = fromDomain(&res.Hits[i])
	}
	return SearchPage{
		Items:      items,
		Total:      res.Total,
		Page:       req.Page(),
		Size:       req.Size(),
		TotalPages: totalPages(res.Total, req.Size()),
	}, nil
}

// Get returns the media item with the given document id.
// A miss fails with ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (_ MediaItem, err error) {
	start := time.Now()
	defer func() { c.obs.observe("media.get", start, err) }()

	item, err := c.media.GetByID(ctx, id)
	if err != nil {
		return MediaItem{}, fmt.Errorf("get %s: %w", id, err)
	}
	return fromDomain(&item), nil
}

// Photographers lists distinct photographer names, sorted.
func (c *Client) Photographers(ctx context.Context) (_ []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("media.photographers", start, err) }()

	names, err := c.media.ListPhotographers(ctx)
	if err != nil {
		return nil, fmt.Errorf("photographers: %w", err)
	}
	return names, nil
}

func fromDomain(item *dommedia.Item) MediaItem {
	out := MediaItem{
		ID:             item.ID,
		Title:          item.Title,
		Description:    item.Description,
		Photographer:   item.Photographer,
		Date:           item.Date,
		ThumbnailURL:   item.ThumbnailURL,
		AdditionalData: maps.Clone(item.AdditionalData),
	}
	if s, ok := item.Score(); ok {
		out.Score = &s
	}
	return out
}

func totalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
