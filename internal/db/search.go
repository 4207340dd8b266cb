package db

// Clause is a single query condition understood by every Store.
type Clause interface {
	clause()
}

// MatchAll matches every document with a constant score.
type MatchAll struct{}

// MultiMatch is a scored keyword match of Text across Fields.
type MultiMatch struct {
	Text   string
	Fields []string
}

// Term is an exact match of Value on Field.
type Term struct {
	Field           string
	Value           string
	CaseInsensitive bool
}

// Range is an inclusive range on Field; an empty bound is open.
type Range struct {
	Field string
	GTE   string
	LTE   string
}

func (MatchAll) clause()   {}
func (MultiMatch) clause() {}
func (Term) clause()       {}
func (Range) clause()      {}

// Query is the store-independent search input.
// Must contributes to relevance; Filters only restrict and are conjunctive.
type Query struct {
	Must       Clause
	Filters    []Clause
	Offset     int
	Limit      int
	TrackTotal bool // count all matches exactly instead of a lower bound
	Random     bool // replace relevance with a random score (sampling)
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total int
	Hits  []Hit
}

// Hit is a single raw document returned by the store.
// Score is nil when the store did not report one.
type Hit struct {
	ID     string
	Score  *float64
	Source map[string]any
}
