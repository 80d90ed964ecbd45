package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/util"
)

// dashboardRows is how many entries each dashboard panel lists.
const dashboardRows = 5

// recentDays is the movement window shown on the dashboard.
const recentDays = 7

// renderDashboard renders the warehouse overview.
func (a *App) renderDashboard(width int) string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("═══ WAREHOUSE OVERVIEW ═══"))
	b.WriteString("\n\n")

	if GetBreakpoint(width) == BreakpointNarrow {
		for _, p := range []string{
			a.stockPanel(width),
			a.alertsPanel(width),
			a.pumpsPanel(width),
			a.movementsPanel(width),
		} {
			b.WriteString(p)
			b.WriteString("\n")
		}
		return b.String()
	}

	half := (width - 2) / 2
	b.WriteString(SideBySide(a.stockPanel(half), a.alertsPanel(half), width, 2))
	b.WriteString("\n")
	b.WriteString(SideBySide(a.pumpsPanel(half), a.movementsPanel(half), width, 2))
	return b.String()
}

func (a *App) stockPanel(width int) string {
	total := a.store.TotalItems()
	low := a.store.LowStockItems()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Items: %d   Low stock: %d\n", total, len(low)))
	b.WriteString(a.theme.ProgressBar(float64(total-len(low)), float64(total), width-6))
	b.WriteString("\n")

	if len(low) == 0 {
		b.WriteString(a.theme.Success.Render("All items above minimum"))
	}
	for i, it := range models.Paginate(low, models.Pagination{Page: 1, PageSize: dashboardRows}) {
		if i > 0 {
			b.WriteString("\n")
		}
		line := fmt.Sprintf("%-7s %d/%d %s", it.Code, it.CurrentQty, it.MinQty, it.Name)
		if it.IsOutOfStock() {
			b.WriteString(a.theme.Error.Render(line))
		} else {
			b.WriteString(a.theme.Warning.Render(line))
		}
	}
	return a.theme.Panel("STOCK", b.String(), width)
}

func (a *App) alertsPanel(width int) string {
	pending := a.store.PendingAlerts()

	counts := make(map[models.AlertPriority]int)
	for _, al := range pending {
		counts[al.Priority]++
	}
	parts := make([]string, 0, len(models.AlertPriorities))
	for _, p := range models.AlertPriorities {
		parts = append(parts, fmt.Sprintf("%s: %d", p.Label(), counts[p]))
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Open: %d   %s\n", len(pending), strings.Join(parts, "  ")))
	if len(pending) == 0 {
		b.WriteString(a.theme.Success.Render("No open alerts"))
	}
	for i, al := range models.Paginate(pending, models.Pagination{Page: 1, PageSize: dashboardRows}) {
		if i > 0 {
			b.WriteString("\n")
		}
		line := fmt.Sprintf("%s %s (%s)", al.ID, al.Title, a.alertAge(al.GeneratedAt))
		if al.Priority == models.PriorityHigh {
			b.WriteString(a.theme.Error.Render(line))
		} else {
			b.WriteString(line)
		}
	}
	return a.theme.Panel("ALERTS", b.String(), width)
}

func (a *App) pumpsPanel(width int) string {
	pumps := a.store.PumpsByStatus()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Total: %d\n", len(pumps)))
	for i, status := range models.PumpStatuses {
		if i > 0 {
			b.WriteString("\n")
		}
		n := len(a.store.PumpsByStatus(status))
		b.WriteString(status.Label() + PadLeft(strconv.Itoa(n), 18-len(status.Label())))
	}
	return a.theme.Panel("PUMPS", b.String(), width)
}

func (a *App) movementsPanel(width int) string {
	recent := a.store.MovementsInWindow(recentDays)

	entries, exits := 0, 0
	for _, m := range recent {
		if m.Kind == models.MovementEntry {
			entries += m.Quantity
		} else {
			exits += m.Quantity
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Last %d days: %d in, %d out\n", recentDays, entries, exits))
	if len(recent) == 0 {
		b.WriteString(a.theme.Muted.Render("No recent movements"))
	}
	for i, m := range models.Paginate(recent, models.Pagination{Page: 1, PageSize: dashboardRows}) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%-10s %+d %s %s", a.movementAge(m.Date), m.Delta(), m.Unit, m.ItemName))
	}
	return a.theme.Panel("RECENT MOVEMENTS", b.String(), width)
}

// movementAge renders a movement date relative to today.
func (a *App) movementAge(date string) string {
	d, err := util.ParseDate(date, a.now.Location())
	if err != nil {
		return date
	}
	return util.RelativeDays(util.DaysSince(d, a.now))
}

// alertAge renders an alert's generation stamp relative to today.
func (a *App) alertAge(stamp string) string {
	t, err := util.ParseStamp(stamp, a.now.Location())
	if err != nil {
		return stamp
	}
	return util.RelativeDays(util.DaysSince(t, a.now))
}

// renderHelp renders the help screen.
func (a *App) renderHelp() string {
	var b strings.Builder

	b.WriteString(a.theme.Title.Render("═══ HELP ═══"))
	b.WriteString("\n\n")

	b.WriteString(a.theme.Subtitle.Render("NAVIGATION"))
	b.WriteString("\n\n")

	navItems := [][2]string{
		{"F1", "Help"},
		{"F2", "Dashboard"},
		{"F3", "Items and stock movements"},
		{"F4", "Pumps"},
		{"F5", "Movement history"},
		{"F6", "Alerts"},
		{"F7", "Users"},
		{"F8", "Reports and export"},
		{"F10", "Quit"},
	}
	for _, item := range navItems {
		b.WriteString(a.theme.Primary.Render(fmt.Sprintf("    %-8s  %s", item[0], item[1])))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Subtitle.Render("CONTROLS"))
	b.WriteString("\n\n")

	ctrlItems := [][2]string{
		{"Up/Down", "Navigate"},
		{"Enter", "Details"},
		{"Esc", "Back/Cancel"},
		{"/", "Search"},
		{"Tab", "Next field"},
		{"PgUp/Dn", "Page navigation"},
		{"i / o", "Record entry / exit (Items)"},
		{"r / s", "Resolve / start alert (Alerts)"},
		{"x / p", "Export XLSX / PDF (Reports)"},
	}
	for _, item := range ctrlItems {
		b.WriteString(a.theme.Primary.Render(fmt.Sprintf("    %-8s  %s", item[0], item[1])))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(a.theme.Muted.Render("Press Esc to return"))

	return b.String()
}
