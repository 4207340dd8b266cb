// Package memory implements db.Store over an in-process document set.
// It backs local development and tests without an Elasticsearch cluster.
package memory

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/mediadex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Document is one stored record. Documents with an empty ID are kept and
// returned as hits without an id.
type Document struct {
	ID     string         `yaml:"id"`
	Source map[string]any `yaml:"source"`
}

type fixtureFile struct {
	Documents []Document `yaml:"documents"`
}

// Store is a read-only, concurrency-safe document set.
type Store struct {
	mu   sync.RWMutex
	docs []Document
}

// New creates a store holding docs in the given order.
func New(docs []Document) *Store {
	cp := make([]Document, len(docs))
	copy(cp, docs)
	return &Store{docs: cp}
}

// Load reads a YAML fixture file with a top-level documents list.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from trusted config
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return New(f.Documents), nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(context.Context, time.Duration) error { return nil }

type scored struct {
	doc   Document
	score float64
}

// Search evaluates q against every document. Results are ordered by score
// descending, ties keep insertion order.
func (s *Store) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("%w: %w", db.ErrTimeout, err)}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []scored
	for _, d := range s.docs {
		score, ok := evalMust(q.Must, d.Source)
		if !ok || !evalFilters(q.Filters, d.Source) {
			continue
		}
		matched = append(matched, scored{doc: d, score: score})
	}

	if q.Random {
		rand.Shuffle(len(matched), func(i, j int) { matched[i], matched[j] = matched[j], matched[i] })
	} else {
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].score > matched[j].score })
	}

	res := &db.SearchResult{Total: len(matched), Hits: []db.Hit{}}
	start := min(max(q.Offset, 0), len(matched))
	end := min(start+max(q.Limit, 0), len(matched))
	for _, m := range matched[start:end] {
		score := m.score
		res.Hits = append(res.Hits, db.Hit{ID: m.doc.ID, Score: &score, Source: m.doc.Source})
	}
	return res, nil
}

// Get returns the first document with the given id.
func (s *Store) Get(_ context.Context, id string) (db.Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id != "" {
		for _, d := range s.docs {
			if d.ID == id {
				return db.Hit{ID: d.ID, Source: d.Source}, nil
			}
		}
	}
	return db.Hit{}, &db.Error{Op: db.OpGetDoc, Err: db.ErrDocNotFound}
}

// Distinct returns the sorted distinct non-empty values of field.
func (s *Store) Distinct(_ context.Context, field string, size int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, d := range s.docs {
		v, ok := fieldString(d.Source, field)
		if !ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	if size > 0 && len(out) > size {
		out = out[:size]
	}
	return out, nil
}

// evalMust scores the relevance clause. A nil clause matches everything.
func evalMust(c db.Clause, src map[string]any) (float64, bool) {
	switch t := c.(type) {
	case nil, db.MatchAll:
		return 1, true
	case db.MultiMatch:
		n := matchedTokens(t, src)
		return float64(n), n > 0
	default:
		return 1, evalFilter(c, src)
	}
}

func evalFilters(filters []db.Clause, src map[string]any) bool {
	for _, f := range filters {
		if !evalFilter(f, src) {
			return false
		}
	}
	return true
}

func evalFilter(c db.Clause, src map[string]any) bool {
	switch t := c.(type) {
	case nil, db.MatchAll:
		return true
	case db.MultiMatch:
		return matchedTokens(t, src) > 0
	case db.Term:
		v, ok := fieldString(src, t.Field)
		if !ok {
			return false
		}
		if t.CaseInsensitive {
			return strings.EqualFold(v, t.Value)
		}
		return v == t.Value
	case db.Range:
		v, ok := fieldString(src, t.Field)
		if !ok || v == "" {
			return false
		}
		// ISO dates compare lexically; an LTE bound covers the whole day.
		if t.GTE != "" && v < t.GTE {
			return false
		}
		if t.LTE != "" && v[:min(len(v), len(t.LTE))] > t.LTE {
			return false
		}
		return true
	default:
		return false
	}
}

// matchedTokens counts the query tokens found in any of the fields.
func matchedTokens(m db.MultiMatch, src map[string]any) int {
	var text strings.Builder
	for _, f := range m.Fields {
		if v, ok := fieldString(src, f); ok {
			text.WriteString(strings.ToLower(v))
			text.WriteByte(' ')
		}
	}
	words := make(map[string]struct{})
	for _, w := range strings.Fields(text.String()) {
		words[w] = struct{}{}
	}

	n := 0
	for _, tok := range strings.Fields(strings.ToLower(m.Text)) {
		if _, ok := words[tok]; ok {
			n++
		}
	}
	return n
}

func fieldString(src map[string]any, field string) (string, bool) {
	v, ok := src[field]
	if !ok || v == nil {
		return "", false
	}
	str, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return str, true
}
