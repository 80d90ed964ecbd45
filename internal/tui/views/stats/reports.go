// Package stats provides the reports screen: headline figures, groupings,
// replenishment suggestions, the storage map and file export.
package stats

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/saae/almox/internal/export"
	"github.com/saae/almox/internal/reports"
	"github.com/saae/almox/internal/services/reporting"
	"github.com/saae/almox/internal/tui/components"
	"github.com/saae/almox/internal/tui/views"
)

// Source builds reports and writes export files.
type Source interface {
	Report() *reports.Report
	Replenishment() []reports.Suggestion
	StorageMap() reports.StorageMap
	Export(ctx context.Context, format reporting.Format) (reporting.ExportResult, error)
}

var suggestionSpecs = []components.ColumnSpec{
	{Title: "Code", Fixed: 7, Priority: 9},
	{Title: "Item", MinWidth: 16, Weight: 1, Priority: 9},
	{Title: "Current", Fixed: 7, Align: lipgloss.Right, Priority: 6},
	{Title: "Min", Fixed: 5, Align: lipgloss.Right, Priority: 5},
	{Title: "Suggested", Fixed: 14, Align: lipgloss.Right, Priority: 8},
	{Title: "Value", Fixed: 13, Align: lipgloss.Right, Priority: 7},
}

// ReportsView shows the current report.
type ReportsView struct {
	source      Source
	report      *reports.Report
	suggestions []reports.Suggestion
	storage     reports.StorageMap
	table       *components.Table
	palette     components.Palette

	showMap   bool
	exporting bool
}

// NewReportsView creates a new reports view.
func NewReportsView(source Source) *ReportsView {
	table := components.NewTable(components.Columns(suggestionSpecs, 100))
	v := &ReportsView{
		source:  source,
		table:   table,
		palette: components.DefaultPalette(),
	}
	v.Refresh()
	return v
}

// SetPalette sets the styles.
func (v *ReportsView) SetPalette(p components.Palette) {
	v.palette = p
	v.table.SetPalette(p)
}

// Refresh rebuilds the report.
func (v *ReportsView) Refresh() {
	v.report = v.source.Report()
	v.suggestions = v.source.Replenishment()
	v.storage = v.source.StorageMap()

	rows := make([][]string, len(v.suggestions))
	for i, s := range v.suggestions {
		rows[i] = []string{
			s.Code,
			s.Name,
			strconv.Itoa(s.Current),
			strconv.Itoa(s.Minimum),
			fmt.Sprintf("%d %s", s.Suggested, s.Unit),
			export.BRL(s.Value),
		}
	}
	v.table.SetRows(rows)
}

// Capturing is always false.
func (v *ReportsView) Capturing() bool {
	return false
}

// Back leaves the storage map.
func (v *ReportsView) Back() bool {
	if v.showMap {
		v.showMap = false
		return true
	}
	return false
}

// exportedMsg carries a finished export.
type exportedMsg struct {
	result reporting.ExportResult
	err    error
}

// Update handles key presses and export results.
func (v *ReportsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case exportedMsg:
		v.exporting = false
		if msg.err != nil {
			return views.Notify("", msg.err)
		}
		return views.Notify(fmt.Sprintf("Report exported to %s (%s)",
			msg.result.Path, humanize.Bytes(uint64(msg.result.Size))), nil)
	case tea.KeyMsg:
		switch msg.String() {
		case "m":
			v.showMap = !v.showMap
		case "x":
			return v.export(reporting.FormatXLSX)
		case "p":
			return v.export(reporting.FormatPDF)
		case "up", "k":
			v.table.MoveUp()
		case "down", "j":
			v.table.MoveDown()
		}
	}
	return nil
}

func (v *ReportsView) export(format reporting.Format) tea.Cmd {
	if v.exporting {
		return nil
	}
	v.exporting = true
	return func() tea.Msg {
		res, err := v.source.Export(context.Background(), format)
		return exportedMsg{result: res, err: err}
	}
}

// Render renders the reports view.
func (v *ReportsView) Render(width, height int) string {
	if v.showMap {
		return v.renderMap()
	}

	p := v.palette
	r := v.report
	sum := r.Summary

	var b strings.Builder
	b.WriteString(views.Heading(p, "REPORTS"))
	b.WriteString("\n\n")

	b.WriteString(p.Section.Render("SUMMARY"))
	b.WriteString("\n")
	low := strconv.Itoa(sum.LowStockItems)
	if sum.LowStockItems > 0 {
		low = p.Warning.Render(low)
	}
	b.WriteString(p.Field("Items", fmt.Sprintf("%d (%d units)", sum.TotalItems, sum.TotalQuantity), 22) + "\n")
	b.WriteString(p.Label.Width(22).Render("Low stock:") + " " + low +
		p.Muted.Render(fmt.Sprintf("  out of stock: %d", sum.OutOfStockItems)) + "\n")
	b.WriteString(p.Field("Pumps operating", fmt.Sprintf("%d of %d", sum.OperatingPumps, sum.TotalPumps), 22) + "\n")
	b.WriteString(p.Field("Pending alerts", strconv.Itoa(sum.PendingAlerts), 22) + "\n")
	b.WriteString(p.Field("Active users", strconv.Itoa(sum.ActiveUsers), 22) + "\n")
	b.WriteString(p.Field(fmt.Sprintf("Movements (%dd)", r.WindowDays), strconv.Itoa(sum.MovementsInWindow), 22) + "\n")
	b.WriteString(p.Field("Stock value", export.BRL(sum.StockValue), 22) + "\n")
	b.WriteString("\n")

	b.WriteString(p.Section.Render("STOCK BY CATEGORY"))
	b.WriteString("\n")
	for _, c := range r.ItemsByCategory {
		b.WriteString(p.Field(c.Category, fmt.Sprintf("%d items, %d units", c.Items, c.Quantity), 22) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(p.Section.Render("PUMPS") + "  ")
	b.WriteString(counts(p, r.PumpsByStatus))
	b.WriteString("\n")
	b.WriteString(p.Section.Render("ALERTS") + " ")
	b.WriteString(counts(p, r.AlertsByPriority))
	b.WriteString("\n\n")

	b.WriteString(p.Section.Render("REPLENISHMENT"))
	b.WriteString("\n")
	if v.table.Empty() {
		b.WriteString(p.Muted.Render("No item below its minimum."))
		b.WriteString("\n")
	} else {
		v.table.SetColumns(components.Columns(suggestionSpecs, width))
		v.table.SetVisibleRows(max(height-24, 3))
		b.WriteString(v.table.Render())
		b.WriteString(p.Field("Estimated total", export.BRL(reports.TotalValue(v.suggestions)), 22) + "\n")
	}

	b.WriteString("\n")
	help := "m:Storage map  x:Export XLSX  p:Export PDF"
	if v.exporting {
		help = "Exporting..."
	}
	b.WriteString(p.Help.Render(help))
	return b.String()
}

func counts(p components.Palette, cs []reports.Count) string {
	if len(cs) == 0 {
		return p.Muted.Render("none")
	}
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = p.Label.Render(c.Label+":") + " " + p.Value.Render(strconv.Itoa(c.Count))
	}
	return strings.Join(parts, "  ")
}

func (v *ReportsView) renderMap() string {
	p := v.palette
	var b strings.Builder

	b.WriteString(views.Heading(p, "STORAGE MAP"))
	b.WriteString("\n\n")

	if len(v.storage.Aisles) == 0 {
		b.WriteString(p.Muted.Render("Nothing stored."))
		b.WriteString("\n")
	}
	for _, a := range v.storage.Aisles {
		b.WriteString(p.Section.Render(fmt.Sprintf("AISLE %s", a.Name)))
		b.WriteString(p.Muted.Render("  " + strings.Join(a.Locations(), ", ")))
		b.WriteString("\n")
		for _, s := range a.Slots {
			name := s.Name
			if s.IsPump {
				name = "[pump] " + name
			}
			b.WriteString(fmt.Sprintf("  %s  %-7s %s %s\n",
				p.Label.Render(s.Address.String()), s.Code, p.Value.Render(name),
				p.Muted.Render(fmt.Sprintf("(%d)", s.Quantity))))
		}
	}

	if len(v.storage.Unplaced) > 0 {
		b.WriteString("\n")
		b.WriteString(p.Warning.Render("WITHOUT A VALID ADDRESS"))
		b.WriteString("\n")
		for _, s := range v.storage.Unplaced {
			b.WriteString(fmt.Sprintf("  %-7s %s\n", s.Code, s.Name))
		}
	}

	b.WriteString("\n")
	b.WriteString(p.Help.Render("Esc/m:Back"))
	return b.String()
}
