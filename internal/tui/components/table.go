// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column.
type Column struct {
	Title string
	Width int
	Align lipgloss.Position
}

// Table is a scrolling list of rows with one selected row.
type Table struct {
	columns     []Column
	rows        [][]string
	selected    int
	offset      int
	visibleRows int
	focused     bool
	showCount   bool

	palette Palette
}

// NewTable creates a new table with the given columns.
func NewTable(columns []Column) *Table {
	return &Table{
		columns:     columns,
		visibleRows: 10,
		palette:     DefaultPalette(),
	}
}

// SetRows replaces the table data, keeping the selection in range.
func (t *Table) SetRows(rows [][]string) {
	t.rows = rows
	t.clamp()
}

// SetColumns replaces the column layout, e.g. after a resize.
func (t *Table) SetColumns(columns []Column) {
	t.columns = columns
}

// SetVisibleRows sets the number of visible rows.
func (t *Table) SetVisibleRows(n int) {
	t.visibleRows = max(n, 1)
	t.clamp()
}

// SetPalette sets the table styles.
func (t *Table) SetPalette(p Palette) {
	t.palette = p
}

// ShowCount toggles the "n of m" line under the rows.
func (t *Table) ShowCount(show bool) {
	t.showCount = show
}

// Focus sets the table focus state.
func (t *Table) Focus(focused bool) {
	t.focused = focused
}

// Selected returns the currently selected row index.
func (t *Table) Selected() int {
	return t.selected
}

// SelectedRow returns the currently selected row data.
func (t *Table) SelectedRow() []string {
	if t.selected >= 0 && t.selected < len(t.rows) {
		return t.rows[t.selected]
	}
	return nil
}

// MoveUp moves the selection up.
func (t *Table) MoveUp() {
	if t.selected > 0 {
		t.selected--
		if t.selected < t.offset {
			t.offset = t.selected
		}
	}
}

// MoveDown moves the selection down.
func (t *Table) MoveDown() {
	if t.selected < len(t.rows)-1 {
		t.selected++
		if t.selected >= t.offset+t.visibleRows {
			t.offset = t.selected - t.visibleRows + 1
		}
	}
}

// PageUp moves up one page.
func (t *Table) PageUp() {
	t.selected = max(t.selected-t.visibleRows, 0)
	t.offset = t.selected
}

// PageDown moves down one page.
func (t *Table) PageDown() {
	t.selected = max(min(t.selected+t.visibleRows, len(t.rows)-1), 0)
	t.offset = max(t.selected-t.visibleRows+1, 0)
}

// GoToTop goes to the first row.
func (t *Table) GoToTop() {
	t.selected = 0
	t.offset = 0
}

// GoToBottom goes to the last row.
func (t *Table) GoToBottom() {
	if len(t.rows) > 0 {
		t.selected = len(t.rows) - 1
		t.offset = max(t.selected-t.visibleRows+1, 0)
	}
}

func (t *Table) clamp() {
	if t.selected >= len(t.rows) {
		t.selected = max(len(t.rows)-1, 0)
	}
	if t.offset > t.selected {
		t.offset = t.selected
	}
	if t.selected >= t.offset+t.visibleRows {
		t.offset = t.selected - t.visibleRows + 1
	}
}

// Render renders the table.
func (t *Table) Render() string {
	var b strings.Builder

	totalWidth := 1
	for _, col := range t.columns {
		if col.Width > 0 {
			totalWidth += col.Width + 3
		}
	}

	b.WriteString(t.renderRow(t.headers(), t.palette.TableHeader))
	b.WriteString("\n")
	b.WriteString(t.palette.TableBorder.Render(strings.Repeat("─", totalWidth)))
	b.WriteString("\n")

	end := min(t.offset+t.visibleRows, len(t.rows))
	for i := t.offset; i < end; i++ {
		style := t.palette.TableRow
		switch {
		case i == t.selected && t.focused:
			style = t.palette.TableSelected
		case (i-t.offset)%2 == 1:
			style = t.palette.TableRowAlt
		}
		b.WriteString(t.renderRow(t.rows[i], style))
		b.WriteString("\n")
	}

	if t.showCount && len(t.rows) > 0 {
		b.WriteString(t.palette.TableBorder.Render(
			fmt.Sprintf("%d-%d of %d", t.offset+1, end, len(t.rows))))
		b.WriteString("\n")
	}

	return b.String()
}

func (t *Table) headers() []string {
	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.Title
	}
	return headers
}

func (t *Table) renderRow(cells []string, style lipgloss.Style) string {
	parts := make([]string, 0, len(t.columns))
	for i, col := range t.columns {
		if col.Width <= 0 {
			continue
		}
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts = append(parts, style.Render(fit(cell, col.Width, col.Align)))
	}
	return " " + strings.Join(parts, " │ ") + " "
}

// fit truncates or pads s to exactly width display cells.
func fit(s string, width int, align lipgloss.Position) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) > width {
		runes := []rune(s)
		for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
			runes = runes[:len(runes)-1]
		}
		s = string(runes) + "…"
	}

	pad := width - lipgloss.Width(s)
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + s
	case lipgloss.Center:
		left := pad / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
	default:
		return s + strings.Repeat(" ", pad)
	}
}

// Empty returns true if the table has no rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}
