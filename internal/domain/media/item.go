package media

// Item is the canonical media record delivered to callers.
type Item struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Photographer   string         `json:"photographer"`
	Date           string         `json:"date"`
	ThumbnailURL   string         `json:"thumbnail_url"`
	AdditionalData map[string]any `json:"additional_data"`
}

// Score returns the relevance score and whether the store reported one.
func (i *Item) Score() (float64, bool) {
	v, ok := i.AdditionalData[KeyScore]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// Bildnummer returns the unpadded numeric id.
func (i *Item) Bildnummer() string {
	s, _ := i.AdditionalData[KeyBildnummer].(string)
	return s
}
