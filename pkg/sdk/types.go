package mediadex

// SearchQuery describes one page of a media search.
// Zero Page and Size select the first page of ten items.
type SearchQuery struct {
	Query        string
	Photographer string
	MinDate      string // ISO-8601 date or date-time, inclusive
	MaxDate      string // ISO-8601 date or date-time, inclusive
	Page         int
	Size         int // capped at 100
}

// MediaItem is a normalized, sanitized media record.
type MediaItem struct {
	ID             string
	Title          string
	Description    string
	Photographer   string
	Date           string
	ThumbnailURL   string
	Score          *float64 // nil when the store reported no relevance score
	AdditionalData map[string]any
}

// SearchPage is one page of search results.
// Total counts every matching document in the store.
type SearchPage struct {
	Items      []MediaItem
	Total      int
	Page       int
	Size       int
	TotalPages int
}
