package elastic

import (
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/mediadex/internal/db"
)

// roundTrip renders v to JSON and back so assertions see plain JSON types.
func roundTrip(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func TestSearchBody_MatchAll(t *testing.T) {
	body := roundTrip(t, searchBody(&db.Query{Must: db.MatchAll{}, Offset: 20, Limit: 10, TrackTotal: true}))

	query := body["query"].(map[string]any)
	if _, ok := query["match_all"]; !ok {
		t.Errorf("expected match_all, got %v", query)
	}
	if body["from"] != float64(20) || body["size"] != float64(10) {
		t.Errorf("from/size = %v/%v", body["from"], body["size"])
	}
	if body["track_total_hits"] != true {
		t.Errorf("track_total_hits = %v", body["track_total_hits"])
	}
}

func TestSearchBody_NilMustIsMatchAll(t *testing.T) {
	body := roundTrip(t, searchBody(&db.Query{Limit: 1}))
	if _, ok := body["query"].(map[string]any)["match_all"]; !ok {
		t.Errorf("expected match_all, got %v", body["query"])
	}
	if _, ok := body["track_total_hits"]; ok {
		t.Error("track_total_hits should be omitted when not requested")
	}
}

func TestSearchBody_MultiMatch(t *testing.T) {
	body := roundTrip(t, searchBody(&db.Query{
		Must:  db.MultiMatch{Text: "test query", Fields: []string{"suchtext", "title"}},
		Limit: 10,
	}))

	mm := body["query"].(map[string]any)["multi_match"].(map[string]any)
	if mm["query"] != "test query" {
		t.Errorf("multi_match.query = %v", mm["query"])
	}
	fields := mm["fields"].([]any)
	if len(fields) != 2 || fields[0] != "suchtext" {
		t.Errorf("multi_match.fields = %v", fields)
	}
}

func TestSearchBody_Filters(t *testing.T) {
	body := roundTrip(t, searchBody(&db.Query{
		Must: db.MultiMatch{Text: "q", Fields: []string{"suchtext"}},
		Filters: []db.Clause{
			db.Term{Field: "fotografen", Value: "Test Photographer", CaseInsensitive: true},
			db.Range{Field: "datum", GTE: "2023-01-01", LTE: "2023-01-31"},
		},
		Limit: 10,
	}))

	boolQ := body["query"].(map[string]any)["bool"].(map[string]any)
	if _, ok := boolQ["must"].(map[string]any)["multi_match"]; !ok {
		t.Errorf("bool.must = %v", boolQ["must"])
	}
	filters := boolQ["filter"].([]any)
	if len(filters) != 2 {
		t.Fatalf("expected 2 filters, got %d", len(filters))
	}

	term := filters[0].(map[string]any)["term"].(map[string]any)["fotografen"].(map[string]any)
	if term["value"] != "Test Photographer" || term["case_insensitive"] != true {
		t.Errorf("term = %v", term)
	}

	rng := filters[1].(map[string]any)["range"].(map[string]any)["datum"].(map[string]any)
	if rng["gte"] != "2023-01-01" || rng["lte"] != "2023-01-31" {
		t.Errorf("range = %v", rng)
	}
}

func TestSearchBody_OpenRange(t *testing.T) {
	body := roundTrip(t, searchBody(&db.Query{
		Filters: []db.Clause{db.Range{Field: "datum", LTE: "2023-01-31"}},
	}))
	filters := body["query"].(map[string]any)["bool"].(map[string]any)["filter"].([]any)
	rng := filters[0].(map[string]any)["range"].(map[string]any)["datum"].(map[string]any)
	if _, ok := rng["gte"]; ok {
		t.Errorf("open lower bound rendered: %v", rng)
	}
	if rng["lte"] != "2023-01-31" {
		t.Errorf("range = %v", rng)
	}
}

func TestSearchBody_Random(t *testing.T) {
	body := roundTrip(t, searchBody(&db.Query{Must: db.MatchAll{}, Limit: 500, Random: true}))
	fs := body["query"].(map[string]any)["function_score"].(map[string]any)
	if fs["boost_mode"] != "replace" {
		t.Errorf("boost_mode = %v", fs["boost_mode"])
	}
	if _, ok := fs["random_score"]; !ok {
		t.Error("random_score missing")
	}
	if _, ok := fs["query"].(map[string]any)["match_all"]; !ok {
		t.Errorf("inner query = %v", fs["query"])
	}
}

func TestDistinctBody(t *testing.T) {
	body := roundTrip(t, distinctBody("fotografen", 1000))
	if body["size"] != float64(0) {
		t.Errorf("size = %v, want 0", body["size"])
	}
	terms := body["aggs"].(map[string]any)[distinctAgg].(map[string]any)["terms"].(map[string]any)
	if terms["field"] != "fotografen" || terms["size"] != float64(1000) {
		t.Errorf("terms = %v", terms)
	}
	if terms["order"].(map[string]any)["_key"] != "asc" {
		t.Errorf("order = %v", terms["order"])
	}
}
