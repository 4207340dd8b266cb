package analyze

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Output formats accepted by Write.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// Write renders r to w in the given format.
func Write(w io.Writer, r Report, format string) error {
	switch format {
	case FormatTable, "":
		return WriteTable(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteTable writes a human-readable summary of r.
func WriteTable(w io.Writer, r Report) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Field", "Presence %", "Types", "Cardinality").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1 || col == 3:
				return numberStyle
			default:
				return cellStyle
			}
		})
	for _, f := range r.Fields {
		t.Row(
			f.Field,
			strconv.FormatFloat(f.PresencePercentage, 'f', 2, 64)+"%",
			typeList(f.Types),
			strconv.Itoa(f.Cardinality),
		)
	}

	_, err := fmt.Fprintf(w, "Analysis of %d documents:\nFound %d distinct fields\n\n%s\n",
		r.TotalDocuments, len(r.Fields), t.Render())
	return err
}

// typeList joins type names, most frequent first.
func typeList(types map[string]int) string {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if types[names[i]] != types[names[j]] {
			return types[names[i]] > types[names[j]]
		}
		return names[i] < names[j]
	})
	return strings.Join(names, ", ")
}
