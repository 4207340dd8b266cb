// Package sanitize strips markup from untrusted text delivered to callers.
package sanitize

import (
	"encoding/json"
	"html"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/spf13/cast"
)

// MaxLength caps every sanitized string, in characters.
const MaxLength = 500

var (
	// StrictPolicy allows no elements at all; bluemonday policies are safe for concurrent use.
	policy   = bluemonday.StrictPolicy()
	brackets = strings.NewReplacer("<", "", ">", "")
)

// String strips all markup from raw and caps it at MaxLength characters.
// Entities are decoded back to text; any angle bracket left over is removed.
func String(raw string) string {
	if raw == "" {
		return ""
	}
	out := html.UnescapeString(policy.Sanitize(raw))
	out = strings.TrimSpace(brackets.Replace(out))
	return Truncate(out, MaxLength)
}

// Value sanitizes an arbitrary raw field. nil becomes "", scalars are
// converted to their string form, anything unconvertible becomes "".
func Value(raw any) string {
	switch t := raw.(type) {
	case nil:
		return ""
	case string:
		return String(t)
	case json.Number:
		return String(t.String())
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return ""
	}
	return String(s)
}

// Deep sanitizes every string nested in maps and slices of v, map keys
// included. Non-string scalars are returned unchanged.
func Deep(v any) any {
	switch t := v.(type) {
	case string:
		return String(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		EachKey(t, func(raw, key string) {
			if _, taken := out[key]; !taken {
				out[key] = Deep(t[raw])
			}
		})
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Deep(val)
		}
		return out
	case []string:
		out := make([]string, len(t))
		for i, val := range t {
			out[i] = String(val)
		}
		return out
	default:
		return v
	}
}

// EachKey calls fn with every key of m and its sanitized form, skipping keys
// that sanitize to "". Keys that are already clean come first, then the rest
// in byte order, so the first key to claim a sanitized name is stable.
func EachKey(m map[string]any, fn func(raw, key string)) {
	type pair struct{ raw, key string }
	var clean, dirty []pair
	for raw := range m {
		key := String(raw)
		switch {
		case key == "":
		case key == raw:
			clean = append(clean, pair{raw, key})
		default:
			dirty = append(dirty, pair{raw, key})
		}
	}
	sort.Slice(clean, func(i, j int) bool { return clean[i].raw < clean[j].raw })
	sort.Slice(dirty, func(i, j int) bool { return dirty[i].raw < dirty[j].raw })
	for _, p := range append(clean, dirty...) {
		fn(p.raw, p.key)
	}
}

// Truncate cuts s to at most n characters. It never appends an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
