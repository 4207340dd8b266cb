package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cast"

	"github.com/kailas-cloud/mediadex/internal/db"
)

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []rawHit `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]struct {
		Buckets []struct {
			Key any `json:"key"`
		} `json:"buckets"`
	} `json:"aggregations"`
}

type rawHit struct {
	ID     string         `json:"_id"`
	Score  *float64       `json:"_score"`
	Source map[string]any `json:"_source"`
}

type getResponse struct {
	ID     string         `json:"_id"`
	Found  bool           `json:"found"`
	Source map[string]any `json:"_source"`
}

// Search executes the query against the configured index.
func (s *Store) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	var parsed searchResponse
	if err := s.search(ctx, db.OpSearch, searchBody(q), &parsed); err != nil {
		return nil, err
	}

	out := &db.SearchResult{
		Total: parsed.Hits.Total.Value,
		Hits:  make([]db.Hit, 0, len(parsed.Hits.Hits)),
	}
	for _, h := range parsed.Hits.Hits {
		out.Hits = append(out.Hits, db.Hit{ID: h.ID, Score: h.Score, Source: h.Source})
	}
	return out, nil
}

// Get fetches one document by its _id.
func (s *Store) Get(ctx context.Context, id string) (db.Hit, error) {
	if id == "" {
		return db.Hit{}, &db.Error{Op: db.OpGetDoc, Err: db.ErrDocNotFound}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.client.Get(s.index, id, s.client.Get.WithContext(ctx))
	if err != nil {
		return db.Hit{}, &db.Error{Op: db.OpGetDoc, Err: classify(err)}
	}
	defer closeBody(res)

	if res.StatusCode == http.StatusNotFound {
		var miss getResponse
		// A 404 without found=false means the index itself is missing.
		if err := decode(res.Body, &miss); err == nil && miss.ID != "" && !miss.Found {
			return db.Hit{}, &db.Error{Op: db.OpGetDoc, Err: db.ErrDocNotFound}
		}
		return db.Hit{}, &db.Error{Op: db.OpGetDoc, Err: fmt.Errorf("%w: index %s not found", db.ErrUnavailable, s.index)}
	}
	if res.IsError() {
		return db.Hit{}, &db.Error{Op: db.OpGetDoc, Err: statusError(res)}
	}

	var doc getResponse
	if err := decode(res.Body, &doc); err != nil {
		return db.Hit{}, &db.Error{Op: db.OpGetDoc, Err: err}
	}
	if !doc.Found {
		return db.Hit{}, &db.Error{Op: db.OpGetDoc, Err: db.ErrDocNotFound}
	}
	return db.Hit{ID: doc.ID, Source: doc.Source}, nil
}

// Distinct lists distinct values of field via a terms aggregation.
func (s *Store) Distinct(ctx context.Context, field string, size int) ([]string, error) {
	var parsed searchResponse
	if err := s.search(ctx, db.OpDistinct, distinctBody(field, size), &parsed); err != nil {
		return nil, err
	}

	buckets := parsed.Aggregations[distinctAgg].Buckets
	values := make([]string, 0, len(buckets))
	for _, b := range buckets {
		key, err := cast.ToStringE(b.Key)
		if err != nil || key == "" {
			continue
		}
		values = append(values, key)
	}
	return values, nil
}

func (s *Store) search(ctx context.Context, op string, body map[string]any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &db.Error{Op: op, Err: fmt.Errorf("encode request: %w", err)}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return &db.Error{Op: op, Err: classify(err)}
	}
	defer closeBody(res)

	if res.IsError() {
		return &db.Error{Op: op, Err: statusError(res)}
	}
	if err := decode(res.Body, out); err != nil {
		return &db.Error{Op: op, Err: err}
	}
	return nil
}
