// Package alerts provides the alert list and its handling actions.
package alerts

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/tui/components"
	"github.com/saae/almox/internal/tui/views"
)

// Source is the part of the store the alerts screen uses.
type Source interface {
	FilterAlerts(f store.AlertFilter) []models.Alert
	ResolveAlert(ctx context.Context, id string) error
	StartAlert(ctx context.Context, id string) error
	RemoveAlert(ctx context.Context, id string) bool
}

var columnSpecs = []components.ColumnSpec{
	{Title: "ID", Fixed: 8, Priority: 9},
	{Title: "Priority", Fixed: 8, Priority: 8},
	{Title: "Kind", Fixed: 11, Priority: 3},
	{Title: "Title", MinWidth: 20, Weight: 3, Priority: 9},
	{Title: "Status", Fixed: 11, Priority: 9},
	{Title: "Generated", Fixed: 16, Priority: 2},
	{Title: "Responsible", MinWidth: 12, Weight: 1, Priority: 4},
}

// statusFilters[0] shows alerts that still need handling.
var statusFilters = []struct {
	label  string
	status models.AlertStatus
	open   bool
}{
	{"Open", "", true},
	{"All", "", false},
	{models.AlertPending.Label(), models.AlertPending, false},
	{models.AlertInProgress.Label(), models.AlertInProgress, false},
	{models.AlertResolved.Label(), models.AlertResolved, false},
}

var priorities = append([]models.AlertPriority{""}, models.AlertPriorities...)

// AlertsView lists alerts and resolves, starts or deletes them.
type AlertsView struct {
	source  Source
	table   *components.Table
	alerts  []models.Alert
	search  *views.Search
	palette components.Palette

	status   int
	priority int
	detail   bool
}

// NewAlertsView creates a new alerts view showing open alerts.
func NewAlertsView(source Source) *AlertsView {
	table := components.NewTable(components.Columns(columnSpecs, 100))
	table.Focus(true)
	table.ShowCount(true)

	v := &AlertsView{
		source:  source,
		table:   table,
		search:  views.NewSearch(),
		palette: components.DefaultPalette(),
	}
	v.Refresh()
	return v
}

// SetPalette sets the styles.
func (v *AlertsView) SetPalette(p components.Palette) {
	v.palette = p
	v.table.SetPalette(p)
}

// Refresh reloads alerts matching the filters.
func (v *AlertsView) Refresh() {
	f := statusFilters[v.status]
	all := v.source.FilterAlerts(store.AlertFilter{
		Title:    v.search.Term(),
		Status:   f.status,
		Priority: priorities[v.priority],
	})

	v.alerts = v.alerts[:0]
	for _, a := range all {
		if !f.open || a.IsOutstanding() {
			v.alerts = append(v.alerts, a)
		}
	}

	rows := make([][]string, len(v.alerts))
	for i, a := range v.alerts {
		rows[i] = []string{
			a.ID,
			a.Priority.Label(),
			a.Kind.Label(),
			a.Title,
			a.Status.Label(),
			a.GeneratedAt,
			a.Responsible,
		}
	}
	v.table.SetRows(rows)
}

// Selected returns the highlighted alert.
func (v *AlertsView) Selected() (models.Alert, bool) {
	idx := v.table.Selected()
	if idx >= 0 && idx < len(v.alerts) {
		return v.alerts[idx], true
	}
	return models.Alert{}, false
}

// Capturing reports whether the search box has the keyboard.
func (v *AlertsView) Capturing() bool {
	return v.search.Active()
}

// Back closes the detail pane.
func (v *AlertsView) Back() bool {
	if v.detail {
		v.detail = false
		return true
	}
	return false
}

// Update handles key presses.
func (v *AlertsView) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if v.search.Active() {
		if v.search.HandleKey(key.String()) {
			v.table.GoToTop()
			v.Refresh()
		}
		return nil
	}

	switch key.String() {
	case "r":
		return v.act("resolved", v.source.ResolveAlert)
	case "s":
		return v.act("started", v.source.StartAlert)
	case "d":
		return v.confirmDelete()
	}
	if v.detail {
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
	case "/":
		v.search.Open()
	case "f":
		v.status = (v.status + 1) % len(statusFilters)
		v.table.GoToTop()
		v.Refresh()
	case "p":
		v.priority = (v.priority + 1) % len(priorities)
		v.table.GoToTop()
		v.Refresh()
	}
	return nil
}

func (v *AlertsView) act(done string, op func(ctx context.Context, id string) error) tea.Cmd {
	a, ok := v.Selected()
	if !ok {
		return nil
	}
	return views.Run(fmt.Sprintf("Alert %s %s", a.ID, done), func(ctx context.Context) error {
		return op(ctx, a.ID)
	})
}

func (v *AlertsView) confirmDelete() tea.Cmd {
	a, ok := v.Selected()
	if !ok {
		return nil
	}
	v.detail = false
	remove := views.Run(fmt.Sprintf("Alert %s deleted", a.ID), func(ctx context.Context) error {
		if !v.source.RemoveAlert(ctx, a.ID) {
			return fmt.Errorf("alert %s: %w", a.ID, store.ErrNotFound)
		}
		return nil
	})
	return views.Confirm("DELETE ALERT", fmt.Sprintf("Delete %s \"%s\"?", a.ID, a.Title), remove)
}

// Render renders the alerts view.
func (v *AlertsView) Render(width, height int) string {
	p := v.palette
	if v.detail {
		if a, ok := v.Selected(); ok {
			return v.renderDetail(a)
		}
	}

	v.table.SetColumns(components.Columns(columnSpecs, width))
	v.table.SetVisibleRows(views.VisibleRows(height))

	var b strings.Builder
	b.WriteString(views.Heading(p, "ALERTS"))
	b.WriteString("\n\n")

	priority := "All"
	if pr := priorities[v.priority]; pr != "" {
		priority = pr.Label()
	}
	b.WriteString(p.Label.Render("Status:") + " " + p.Value.Render(statusFilters[v.status].label))
	b.WriteString("   ")
	b.WriteString(p.Label.Render("Priority:") + " " + p.Value.Render(priority))
	if s := v.search.Render(p); s != "" {
		b.WriteString("   ")
		b.WriteString(s)
	}
	b.WriteString("\n\n")

	if v.table.Empty() {
		b.WriteString(p.Label.Render("No alerts."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.table.Render())
	}

	b.WriteString("\n")
	b.WriteString(p.Help.Render("Enter:Details  /:Search  f:Status  p:Priority  s:Start  r:Resolve  d:Delete"))
	return b.String()
}

func (v *AlertsView) renderDetail(a models.Alert) string {
	p := v.palette
	var b strings.Builder

	b.WriteString(views.Heading(p, "ALERT "+a.ID))
	b.WriteString("\n\n")

	priority := a.Priority.Label()
	if a.Priority == models.PriorityHigh {
		priority = p.Error.Render(priority)
	}
	b.WriteString(p.Label.Width(16).Render("Priority:") + " " + p.Value.Render(priority) + "\n")
	b.WriteString(p.Field("Kind", a.Kind.Label(), 16) + "\n")
	b.WriteString(p.Field("Status", a.Status.Label(), 16) + "\n")
	b.WriteString(p.Field("Title", a.Title, 16) + "\n")
	b.WriteString(p.Field("Generated", a.GeneratedAt, 16) + "\n")
	b.WriteString(p.Field("Responsible", a.Responsible, 16) + "\n")
	if a.RelatedItemCode != "" {
		b.WriteString(p.Field("Item", a.RelatedItemCode, 16) + "\n")
	}
	if a.RelatedPumpID != "" {
		b.WriteString(p.Field("Pump", a.RelatedPumpID, 16) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(p.Value.Render(a.Description))
	b.WriteString("\n\n")
	b.WriteString(p.Help.Render("Esc:Back  s:Start  r:Resolve  d:Delete"))
	return b.String()
}
