package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yangwenmai/bis/internal/model"
	"github.com/yangwenmai/bis/internal/score"
)

// Column is one table column.
type Column struct {
	Header string
	Width  int    // minimum width
	Max    int    // truncate cells longer than this; 0 means no limit
	Align  string // "left" or "right"
}

// Cell is a table cell. A nil Style uses the row style.
type Cell struct {
	Text  string
	Style *lipgloss.Style
}

// Table is a plain column-aligned table.
type Table struct {
	Columns []Column
	Rows    [][]Cell
}

// NewTable creates a table with the given columns.
func NewTable(columns []Column) *Table {
	return &Table{Columns: columns, Rows: [][]Cell{}}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...Cell) {
	t.Rows = append(t.Rows, cells)
}

// Render renders the table. Widths are measured on unstyled text.
func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}

	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = max(lipgloss.Width(col.Header), col.Width)
	}
	for _, row := range t.Rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(t.clip(i, c.Text)))
			}
		}
	}

	var b strings.Builder
	header := make([]string, len(t.Columns))
	sep := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = pad(col.Header, widths[i], "left")
		sep[i] = strings.Repeat("─", widths[i])
	}
	b.WriteString(StyleTableHeader.Render(strings.Join(header, "  ")))
	b.WriteString("\n")
	b.WriteString(StyleTableBorder.Render(strings.Join(sep, "  ")))
	b.WriteString("\n")

	for _, row := range t.Rows {
		parts := make([]string, len(t.Columns))
		for i := range t.Columns {
			var c Cell
			if i < len(row) {
				c = row[i]
			}
			text := pad(t.clip(i, c.Text), widths[i], t.Columns[i].Align)
			style := StyleTableRow
			if c.Style != nil {
				style = *c.Style
			}
			parts[i] = style.Render(text)
		}
		b.WriteString(strings.Join(parts, "  "))
		b.WriteString("\n")
	}
	return b.String()
}

func (t *Table) clip(col int, s string) string {
	limit := t.Columns[col].Max
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}

func pad(s string, width int, align string) string {
	n := width - lipgloss.Width(s)
	if n <= 0 {
		return s
	}
	if align == "right" {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// Placeholders for assets without a visual or without issues.
const (
	TextOnlyLabel = "Text-only Asset"
	NoIssuesLabel = "No Compliance Issues Detected"
)

// AssetTable renders assets with their composite score coloured by band.
func AssetTable(assets []model.Asset) string {
	t := NewTable([]Column{
		{Header: "ID"},
		{Header: "TYPE"},
		{Header: "VISUAL", Align: "right"},
		{Header: "COMPLIANCE", Align: "right"},
		{Header: "BIS", Align: "right"},
		{Header: "STATUS"},
		{Header: "CONTENT", Max: 48},
		{Header: "VISUAL ASSET", Max: 40},
		{Header: "ISSUES", Max: 40},
	})
	for _, a := range assets {
		c := score.Of(a)
		band := BandStyle(score.BandOf(c))
		media := Cell{Text: TextOnlyLabel, Style: &StyleMuted}
		if !a.TextOnly() {
			media = Cell{Text: *a.ImageURL}
		}
		issues := Cell{Text: NoIssuesLabel, Style: &StyleSuccess}
		if !a.Compliant() {
			issues = Cell{Text: strings.Join(a.Issues, "; "), Style: &StyleError}
		}
		t.AddRow(
			Cell{Text: a.ID},
			Cell{Text: a.Type},
			Cell{Text: strconv.Itoa(a.VisualScore)},
			Cell{Text: strconv.Itoa(a.ComplianceScore)},
			Cell{Text: strconv.Itoa(c), Style: &band},
			Cell{Text: string(a.Status)},
			Cell{Text: a.Content},
			media,
			issues,
		)
	}
	return t.Render()
}

// Summary renders the pending and processed counters.
func Summary(pending, processed int) string {
	return fmt.Sprintf("%s  %s",
		StyleInfo.Render(fmt.Sprintf("Pending Review: %d", pending)),
		StyleSuccess.Render(fmt.Sprintf("Processed: %d", processed)))
}
