// Package analyze profiles the fields of stored media documents:
// how often each field is present, which JSON types it carries and how many
// distinct values it takes.
package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/kailas-cloud/mediadex/internal/db"
)

// Type names reported per field.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeFloat   = "float"
	TypeBoolean = "boolean"
	TypeNull    = "null"
	TypeObject  = "object"
	TypeArray   = "array"
)

const (
	// DefaultSampleSize is the number of documents sampled when none is given.
	DefaultSampleSize = 500
	// MaxSampleSize is the largest page a single search can return.
	MaxSampleSize = 10000
	// MaxValueLength excludes long strings from cardinality counting.
	MaxValueLength = 1000
)

// ErrInvalidSampleSize is returned for sample sizes outside [1, MaxSampleSize].
var ErrInvalidSampleSize = errors.New("invalid sample size")

// FieldStats describes one (possibly nested) field across the sample.
type FieldStats struct {
	Field              string         `json:"field"`
	PresenceCount      int            `json:"presence_count"`
	PresencePercentage float64        `json:"presence_percentage"`
	Types              map[string]int `json:"types"`
	Cardinality        int            `json:"cardinality"`
}

// Report is the result of analyzing a document sample.
// Fields are ordered by presence count descending, then by name.
type Report struct {
	TotalDocuments int          `json:"total_documents"`
	Fields         []FieldStats `json:"fields"`
}

// Sample fetches up to size randomly chosen document sources from s.
func Sample(ctx context.Context, s db.Searcher, size int) ([]map[string]any, error) {
	if size < 1 || size > MaxSampleSize {
		return nil, fmt.Errorf("%w: %d (allowed 1..%d)", ErrInvalidSampleSize, size, MaxSampleSize)
	}
	res, err := s.Search(ctx, &db.Query{
		Must:   db.MatchAll{},
		Limit:  size,
		Random: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sample documents: %w", err)
	}
	docs := make([]map[string]any, 0, len(res.Hits))
	for _, h := range res.Hits {
		if h.Source == nil {
			continue
		}
		docs = append(docs, h.Source)
	}
	return docs, nil
}

type accumulator struct {
	presence map[string]int
	types    map[string]map[string]int
	values   map[string]map[string]struct{}
}

// Analyze computes per-field statistics over docs.
func Analyze(docs []map[string]any) Report {
	acc := &accumulator{
		presence: make(map[string]int),
		types:    make(map[string]map[string]int),
		values:   make(map[string]map[string]struct{}),
	}
	for _, doc := range docs {
		acc.walk(doc, "")
	}

	report := Report{
		TotalDocuments: len(docs),
		Fields:         make([]FieldStats, 0, len(acc.presence)),
	}
	for name, count := range acc.presence {
		report.Fields = append(report.Fields, FieldStats{
			Field:              name,
			PresenceCount:      count,
			PresencePercentage: percentage(count, len(docs)),
			Types:              acc.types[name],
			Cardinality:        len(acc.values[name]),
		})
	}
	sort.Slice(report.Fields, func(i, j int) bool {
		a, b := report.Fields[i], report.Fields[j]
		if a.PresenceCount != b.PresenceCount {
			return a.PresenceCount > b.PresenceCount
		}
		return a.Field < b.Field
	})
	return report
}

func (a *accumulator) walk(doc map[string]any, prefix string) {
	for key, value := range doc {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		a.presence[name]++

		typeName := TypeOf(value)
		switch v := value.(type) {
		case map[string]any:
			a.walk(v, name)
		case []any:
			// Only object elements are descended into; scalars in arrays are not profiled.
			for i, item := range v {
				if obj, ok := item.(map[string]any); ok {
					a.walk(obj, fmt.Sprintf("%s[%d]", name, i))
				}
			}
		default:
			if s, ok := scalarKey(value); ok {
				a.addValue(name, s)
			}
		}

		if a.types[name] == nil {
			a.types[name] = make(map[string]int)
		}
		a.types[name][typeName]++
	}
}

func (a *accumulator) addValue(field, v string) {
	set := a.values[field]
	if set == nil {
		set = make(map[string]struct{})
		a.values[field] = set
	}
	set[v] = struct{}{}
}

// TypeOf names the JSON type of a decoded value.
func TypeOf(v any) string {
	switch t := v.(type) {
	case nil:
		return TypeNull
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case map[string]any:
		return TypeObject
	case []any:
		return TypeArray
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return TypeInteger
		}
		return TypeFloat
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInteger
	case float32:
		return TypeFloat
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return TypeInteger
		}
		return TypeFloat
	default:
		return fmt.Sprintf("%T", v)
	}
}

// scalarKey returns the value used to count distinct values of a scalar.
// nil and strings of MaxValueLength bytes or more are not counted.
func scalarKey(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		if len(t) >= MaxValueLength {
			return "", false
		}
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	default:
		return fmt.Sprint(t), true
	}
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*10000) / 100
}
