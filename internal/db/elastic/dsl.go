package elastic

import "github.com/kailas-cloud/mediadex/internal/db"

const distinctAgg = "distinct_values"

// searchBody renders a db.Query as an Elasticsearch _search request body.
func searchBody(q *db.Query) map[string]any {
	body := map[string]any{
		"query": queryDSL(q),
		"from":  q.Offset,
		"size":  q.Limit,
	}
	if q.TrackTotal {
		body["track_total_hits"] = true
	}
	return body
}

// queryDSL renders the query clause. Filters go into a bool filter context
// so they restrict without affecting relevance.
func queryDSL(q *db.Query) map[string]any {
	main := clauseDSL(q.Must)
	if len(q.Filters) > 0 {
		filters := make([]any, 0, len(q.Filters))
		for _, f := range q.Filters {
			filters = append(filters, clauseDSL(f))
		}
		main = map[string]any{
			"bool": map[string]any{
				"must":   main,
				"filter": filters,
			},
		}
	}

	if q.Random {
		return map[string]any{
			"function_score": map[string]any{
				"query":        main,
				"random_score": map[string]any{},
				"boost_mode":   "replace",
			},
		}
	}
	return main
}

func clauseDSL(c db.Clause) map[string]any {
	switch t := c.(type) {
	case db.MultiMatch:
		return map[string]any{
			"multi_match": map[string]any{
				"query":  t.Text,
				"fields": t.Fields,
			},
		}
	case db.Term:
		term := map[string]any{"value": t.Value}
		if t.CaseInsensitive {
			term["case_insensitive"] = true
		}
		return map[string]any{"term": map[string]any{t.Field: term}}
	case db.Range:
		bounds := map[string]any{}
		if t.GTE != "" {
			bounds["gte"] = t.GTE
		}
		if t.LTE != "" {
			bounds["lte"] = t.LTE
		}
		return map[string]any{"range": map[string]any{t.Field: bounds}}
	default:
		return map[string]any{"match_all": map[string]any{}}
	}
}

// distinctBody renders a terms aggregation listing field values alphabetically.
func distinctBody(field string, size int) map[string]any {
	return map[string]any{
		"size": 0,
		"aggs": map[string]any{
			distinctAgg: map[string]any{
				"terms": map[string]any{
					"field": field,
					"size":  size,
					"order": map[string]any{"_key": "asc"},
				},
			},
		},
	}
}
