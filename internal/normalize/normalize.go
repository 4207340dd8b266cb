// Package normalize maps raw store documents onto the canonical media item.
package normalize

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/kailas-cloud/mediadex/internal/db"
	"github.com/kailas-cloud/mediadex/internal/domain"
	"github.com/kailas-cloud/mediadex/internal/domain/media"
	"github.com/kailas-cloud/mediadex/internal/sanitize"
)

const (
	// PadWidth is the length of the numeric id in thumbnail paths.
	PadWidth = 10
	// FallbackTitleLength caps titles derived from query or full text.
	FallbackTitleLength = 50
)

// Normalizer builds media items from raw hits. It holds no mutable state.
type Normalizer struct {
	imageBaseURL string
}

// New creates a normalizer building thumbnail URLs under imageBaseURL.
func New(imageBaseURL string) *Normalizer {
	return &Normalizer{imageBaseURL: strings.TrimRight(imageBaseURL, "/")}
}

// Normalize reconciles one raw hit. queryText is the caller's search text
// and feeds the title and description fallbacks; it may be empty.
// The only error is a *domain.NormalizationError for a hit without an id.
func (n *Normalizer) Normalize(hit db.Hit, queryText string) (media.Item, error) {
	if hit.ID == "" {
		return media.Item{}, domain.NewMissingID()
	}
	src := hit.Source

	bildnummer := sanitize.Value(src[media.RawBildnummer])
	if bildnummer == "" {
		bildnummer = sanitize.String(hit.ID)
	}
	dbName := sanitize.Value(src[media.RawDB])

	item := media.Item{
		ID:             hit.ID,
		Title:          title(src, queryText),
		Description:    description(src, queryText),
		Photographer:   photographer(src),
		Date:           sanitize.Value(src[media.RawDate]),
		ThumbnailURL:   n.ThumbnailURL(bildnummer, dbName),
		AdditionalData: additionalData(src),
	}

	item.AdditionalData[media.KeyBildnummer] = bildnummer
	if dbName != "" {
		item.AdditionalData[media.KeyDB] = dbName
	}
	if hit.Score != nil {
		item.AdditionalData[media.KeyScore] = *hit.Score
	}
	return item, nil
}

// ThumbnailURL builds {base}/bild/{db}/{padded bildnummer}/s.jpg.
// An empty db falls back to media.DefaultDB.
func (n *Normalizer) ThumbnailURL(bildnummer, dbName string) string {
	if dbName == "" {
		dbName = media.DefaultDB
	}
	return n.imageBaseURL + "/bild/" + url.PathEscape(dbName) + "/" + url.PathEscape(Pad(bildnummer)) + "/s.jpg"
}

// Pad left-pads s with zeros to PadWidth characters. Longer values are
// returned unchanged; an empty value yields all zeros.
func Pad(s string) string {
	if len(s) >= PadWidth {
		return s
	}
	return strings.Repeat("0", PadWidth-len(s)) + s
}

func title(src map[string]any, queryText string) string {
	if t := sanitize.Value(src[media.RawTitle]); t != "" {
		return t
	}
	if t := sanitize.Truncate(sanitize.String(queryText), FallbackTitleLength); t != "" {
		return t
	}
	if t := sanitize.Truncate(sanitize.Value(src[media.RawText]), FallbackTitleLength); t != "" {
		return t
	}
	return media.Untitled
}

func description(src map[string]any, queryText string) string {
	if d := sanitize.Value(src[media.RawDescription]); d != "" {
		return d
	}
	if d := sanitize.String(queryText); d != "" {
		return d
	}
	return sanitize.Value(src[media.RawText])
}

func photographer(src map[string]any) string {
	if p := sanitize.Value(src[media.RawPhotographer]); p != "" {
		return p
	}
	return media.UnknownPhotographer
}

// additionalData collects every raw field not promoted to the top level.
// Keys are sanitized; a key that sanitizes to a name Normalize sets itself,
// or to one already taken, is dropped.
func additionalData(src map[string]any) map[string]any {
	out := make(map[string]any, len(src)+2)
	sanitize.EachKey(src, func(raw, key string) {
		if _, taken := out[key]; taken {
			return
		}
		v := src[raw]
		switch {
		case media.Promoted(key):
		case key == media.KeyScore, key == media.KeyBildnummer, key == media.KeyDB:
		case key == media.KeyHeight, key == media.KeyWidth:
			if raw == key && v != nil {
				out[key] = coerceNumber(v)
			}
		default:
			out[key] = sanitize.Deep(v)
		}
	})
	return out
}

// coerceNumber turns numeric-looking values into int64 or float64.
// Values that do not parse are kept, sanitized.
func coerceNumber(v any) any {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return parseNumber(t)
	case interface{ String() string }:
		return parseNumber(t.String())
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return sanitize.Deep(v)
	}
	return wholeOrFloat(f)
}

func parseNumber(s string) any {
	clean := sanitize.String(s)
	if i, err := strconv.ParseInt(clean, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(clean, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return wholeOrFloat(f)
	}
	return clean
}

func wholeOrFloat(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}
