// Package history provides the movement log screen.
package history

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/tui/components"
	"github.com/saae/almox/internal/tui/views"
)

// Source is the part of the store the movements screen uses.
type Source interface {
	MovementsInWindow(days int) []models.Movement
	Snapshot() store.State
}

// window is a date range choice. days < 0 means the whole history.
type window struct {
	label string
	days  int
}

var windows = []window{
	{"Last 7 days", 7},
	{"Last 30 days", 30},
	{"Today", 0},
	{"All", -1},
}

var kinds = []models.MovementKind{"", models.MovementEntry, models.MovementExit}

var columnSpecs = []components.ColumnSpec{
	{Title: "Date", Fixed: 10, Priority: 9},
	{Title: "Time", Fixed: 5, Priority: 3},
	{Title: "Kind", Fixed: 5, Priority: 9},
	{Title: "Item", Fixed: 7, Priority: 8},
	{Title: "Name", MinWidth: 14, Weight: 2, Priority: 5},
	{Title: "Qty", Fixed: 10, Align: lipgloss.Right, Priority: 9},
	{Title: "Responsible", MinWidth: 12, Weight: 1, Priority: 6},
	{Title: "Sector", MinWidth: 12, Weight: 1, Priority: 2},
}

// MovementsView lists the movement history.
type MovementsView struct {
	source    Source
	table     *components.Table
	movements []models.Movement
	palette   components.Palette

	window int
	kind   int
	detail bool
}

// NewMovementsView creates a new movements view showing the last 7 days.
func NewMovementsView(source Source) *MovementsView {
	table := components.NewTable(components.Columns(columnSpecs, 100))
	table.Focus(true)
	table.ShowCount(true)

	v := &MovementsView{
		source:  source,
		table:   table,
		palette: components.DefaultPalette(),
	}
	v.Refresh()
	return v
}

// SetPalette sets the styles.
func (v *MovementsView) SetPalette(p components.Palette) {
	v.palette = p
	v.table.SetPalette(p)
}

// Refresh reloads movements in the selected window.
func (v *MovementsView) Refresh() {
	var all []models.Movement
	if w := windows[v.window]; w.days < 0 {
		all = v.source.Snapshot().Movements
	} else {
		all = v.source.MovementsInWindow(w.days)
	}

	v.movements = v.movements[:0]
	for _, m := range all {
		if kinds[v.kind] == "" || m.Kind == kinds[v.kind] {
			v.movements = append(v.movements, m)
		}
	}

	rows := make([][]string, len(v.movements))
	for i, m := range v.movements {
		rows[i] = []string{
			m.Date,
			m.Time,
			m.Kind.Label(),
			m.ItemCode,
			m.ItemName,
			signed(m) + " " + m.Unit,
			m.Responsible,
			m.Sector,
		}
	}
	v.table.SetRows(rows)
}

func signed(m models.Movement) string {
	if m.Kind == models.MovementExit {
		return "-" + strconv.Itoa(m.Quantity)
	}
	return "+" + strconv.Itoa(m.Quantity)
}

// Selected returns the highlighted movement.
func (v *MovementsView) Selected() (models.Movement, bool) {
	idx := v.table.Selected()
	if idx >= 0 && idx < len(v.movements) {
		return v.movements[idx], true
	}
	return models.Movement{}, false
}

// Capturing is always false.
func (v *MovementsView) Capturing() bool {
	return false
}

// Back closes the detail pane.
func (v *MovementsView) Back() bool {
	if v.detail {
		v.detail = false
		return true
	}
	return false
}

// Update handles key presses.
func (v *MovementsView) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || v.detail {
		return nil
	}

	switch key.String() {
	case "up", "k":
		v.table.MoveUp()
	case "down", "j":
		v.table.MoveDown()
	case "pgup", "ctrl+u":
		v.table.PageUp()
	case "pgdown", "ctrl+d":
		v.table.PageDown()
	case "home", "g":
		v.table.GoToTop()
	case "end", "G":
		v.table.GoToBottom()
	case "enter":
		_, v.detail = v.Selected()
	case "w":
		v.window = (v.window + 1) % len(windows)
		v.table.GoToTop()
		v.Refresh()
	case "e":
		v.kind = (v.kind + 1) % len(kinds)
		v.table.GoToTop()
		v.Refresh()
	}
	return nil
}

// Render renders the movements view.
func (v *MovementsView) Render(width, height int) string {
	p := v.palette
	if v.detail {
		if m, ok := v.Selected(); ok {
			return v.renderDetail(m)
		}
	}

	v.table.SetColumns(components.Columns(columnSpecs, width))
	v.table.SetVisibleRows(views.VisibleRows(height))

	var b strings.Builder
	b.WriteString(views.Heading(p, "MOVEMENTS"))
	b.WriteString("\n\n")

	kind := "All"
	if k := kinds[v.kind]; k != "" {
		kind = k.Label()
	}
	b.WriteString(p.Label.Render("Period:") + " " + p.Value.Render(windows[v.window].label))
	b.WriteString("   ")
	b.WriteString(p.Label.Render("Kind:") + " " + p.Value.Render(kind))
	b.WriteString("\n\n")

	if v.table.Empty() {
		b.WriteString(p.Label.Render("No movements in this period."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.table.Render())
		in, out := 0, 0
		for _, m := range v.movements {
			if m.Kind == models.MovementEntry {
				in += m.Quantity
			} else {
				out += m.Quantity
			}
		}
		b.WriteString(p.Muted.Render(fmt.Sprintf("Entries: %d units   Exits: %d units", in, out)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.Help.Render("Up/Down:Select  Enter:Details  w:Period  e:Entry/Exit"))
	return b.String()
}

func (v *MovementsView) renderDetail(m models.Movement) string {
	p := v.palette
	var b strings.Builder

	b.WriteString(views.Heading(p, "MOVEMENT "+m.ID))
	b.WriteString("\n\n")
	b.WriteString(p.Field("Kind", m.Kind.Label(), 16) + "\n")
	b.WriteString(p.Field("When", m.Date+" "+m.Time, 16) + "\n")
	b.WriteString(p.Field("Item", m.ItemCode+" "+m.ItemName, 16) + "\n")
	b.WriteString(p.Field("Quantity", fmt.Sprintf("%d %s", m.Quantity, m.Unit), 16) + "\n")
	b.WriteString(p.Field("Responsible", m.Responsible, 16) + "\n")
	b.WriteString(p.Field("Sector", m.Sector, 16) + "\n")
	if m.Kind == models.MovementEntry {
		b.WriteString(p.Field("Invoice", m.InvoiceNumber, 16) + "\n")
		b.WriteString(p.Field("Supplier", m.Supplier, 16) + "\n")
	}
	if m.Note != "" {
		b.WriteString(p.Field("Note", m.Note, 16) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(p.Help.Render("Esc:Back"))
	return b.String()
}
