// Package equipment provides the pump fleet screen.
package equipment

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/tui/components"
	"github.com/saae/almox/internal/tui/views"
)

// Source is the part of the store the pumps screen uses.
type Source interface {
	PumpsByStatus(statuses ...models.PumpStatus) []models.Pump
}

var columnSpecs = []components.ColumnSpec{
	{Title: "ID", Fixed: 5, Priority: 9},
	{Title: "Manufacturer", MinWidth: 10, Weight: 1, Priority: 4},
	{Title: "Model", MinWidth: 14, Weight: 2, Priority: 8},
	{Title: "Power", Fixed: 7, Priority: 2},
	{Title: "Location", MinWidth: 14, Weight: 2, Priority: 6},
	{Title: "Status", Fixed: 14, Priority: 9},
	{Title: "Next Maint.", Fixed: 13, Priority: 3},
}

// PumpsView lists pumps, filtered by status.
type PumpsView struct {
	source  Source
	table   *components.Table
	pumps   []models.Pump
	palette components.Palette

	// filter 0 shows every pump, i > 0 shows models.PumpStatuses[i-1]
	filter int
	detail bool
}

// NewPumpsView creates a new pumps view.
func NewPumpsView(source Source) *PumpsView {
	table := components.NewTable(components.Columns(columnSpecs, 100))
	table.Focus(true)
	table.ShowCount(true)

	v := &PumpsView{
		source:  source,
		table:   table,
		palette: components.DefaultPalette(),
	}
	v.Refresh()
	return v
}

// SetPalette sets the styles.
func (v *PumpsView) SetPalette(p components.Palette) {
	v.palette = p
	v.table.SetPalette(p)
}

func (v *PumpsView) statuses() []models.PumpStatus {
	if v.filter == 0 {
		return nil
	}
	return []models.PumpStatus{models.PumpStatuses[v.filter-1]}
}

// Refresh reloads pumps matching the status filter.
func (v *PumpsView) Refresh() {
	v.pumps = v.source.PumpsByStatus(v.statuses()...)

	rows := make([][]string, len(v.pumps))
	for i, p := range v.pumps {
		rows[i] = []string{
			p.ID,
			p.Manufacturer,
			p.Model,
			p.Power,
			p.Location,
			p.Status().Label(),
			p.NextMaintenance,
		}
	}
	v.table.SetRows(rows)
}

// Selected returns the highlighted pump.
func (v *PumpsView) Selected() (models.Pump, bool) {
	idx := v.table.Selected()
	if idx >= 0 && idx < len(v.pumps) {
		return v.pumps[idx], true
	}
	return models.Pump{}, false
}

// Capturing is always false; the pumps screen has no text input.
func (v *PumpsView) Capturing() bool {
	return false
}

// Back closes the detail pane.
func (v *PumpsView) Back() bool {
	if v.detail {
		v.detail = false
		return true
	}
	return false
}

// Update handles key presses.
func (v *PumpsView) Update(msg tea.Msg) tea.Cmd {
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
	case "f":
		v.filter = (v.filter + 1) % (len(models.PumpStatuses) + 1)
		v.table.GoToTop()
		v.Refresh()
	}
	return nil
}

// Render renders the pumps view.
func (v *PumpsView) Render(width, height int) string {
	p := v.palette
	if v.detail {
		if pump, ok := v.Selected(); ok {
			return v.renderDetail(pump)
		}
	}

	v.table.SetColumns(components.Columns(columnSpecs, width))
	v.table.SetVisibleRows(views.VisibleRows(height))

	var b strings.Builder
	b.WriteString(views.Heading(p, "PUMPS"))
	b.WriteString("\n\n")

	filter := "All"
	if s := v.statuses(); s != nil {
		filter = s[0].Label()
	}
	b.WriteString(p.Label.Render("Status:") + " " + p.Value.Render(filter))
	b.WriteString("\n\n")

	if v.table.Empty() {
		b.WriteString(p.Label.Render("No pumps with this status."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.table.Render())
	}

	b.WriteString("\n")
	b.WriteString(p.Help.Render("Up/Down:Select  Enter:Details  f:Status filter"))
	return b.String()
}

func (v *PumpsView) renderDetail(pump models.Pump) string {
	p := v.palette
	var b strings.Builder

	b.WriteString(views.Heading(p, "PUMP DETAILS"))
	b.WriteString("\n\n")

	b.WriteString(p.Section.Render("EQUIPMENT"))
	b.WriteString("\n")
	b.WriteString(p.Field("ID", pump.ID, 20) + "\n")
	b.WriteString(p.Field("Serial number", pump.SerialNumber, 20) + "\n")
	b.WriteString(p.Field("Manufacturer", pump.Manufacturer, 20) + "\n")
	b.WriteString(p.Field("Model", pump.Model, 20) + "\n")
	b.WriteString(p.Field("Power", pump.Power, 20) + "\n")
	b.WriteString(p.Field("Capacity", pump.Capacity, 20) + "\n")
	b.WriteString("\n")

	b.WriteString(p.Section.Render("STATUS"))
	b.WriteString("\n")
	b.WriteString(p.Field("Status", pump.Status().Label(), 20) + "\n")
	b.WriteString(p.Field("Location", pump.Location, 20) + "\n")
	if pump.Status() == models.PumpStatusInStock {
		b.WriteString(p.Field("Storage address", pump.StorageAddress(), 20) + "\n")
	} else {
		b.WriteString(p.Field("Responsible", pump.Responsible(), 20) + "\n")
		b.WriteString(p.Field("Installed", pump.InstallDate(), 20) + "\n")
	}
	b.WriteString(p.Field("Hours used", pump.HoursUsed, 20) + "\n")
	b.WriteString(p.Field("Next maintenance", pump.NextMaintenance, 20) + "\n")

	b.WriteString("\n")
	b.WriteString(p.Help.Render("Esc:Back"))
	return b.String()
}
