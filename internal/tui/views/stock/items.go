// Package stock provides the item list, detail and movement forms.
package stock

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/saae/almox/internal/database/seed"
	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/tui/components"
	"github.com/saae/almox/internal/tui/views"
)

// Source is the part of the store the items screen uses.
type Source interface {
	SearchItems(term, category string) []models.Item
	Item(code string) (models.Item, bool)
	RecordMovement(ctx context.Context, in store.MovementInput) (models.Movement, error)
}

// recordedMsg carries the outcome of a submitted movement form.
type recordedMsg struct {
	movement models.Movement
	err      error
}

var columnSpecs = []components.ColumnSpec{
	{Title: "Code", Fixed: 7, Priority: 9},
	{Title: "Name", MinWidth: 16, Weight: 3, Priority: 9},
	{Title: "Category", MinWidth: 10, Weight: 1, Priority: 3},
	{Title: "Qty", Fixed: 6, Align: lipgloss.Right, Priority: 8},
	{Title: "Min", Fixed: 5, Align: lipgloss.Right, Priority: 4},
	{Title: "Unit", Fixed: 8, Priority: 2},
	{Title: "Address", Fixed: 13, Priority: 1},
	{Title: "Status", Fixed: 6, Priority: 7},
}

// ItemsView lists items with search, category filter and movement forms.
type ItemsView struct {
	source  Source
	table   *components.Table
	items   []models.Item
	search  *views.Search
	palette components.Palette

	// categories[0] is "" for all categories
	categories []string
	category   int

	detail bool
	form   *MovementForm
}

// NewItemsView creates a new items view.
func NewItemsView(source Source) *ItemsView {
	table := components.NewTable(components.Columns(columnSpecs, 100))
	table.Focus(true)
	table.ShowCount(true)

	v := &ItemsView{
		source:     source,
		table:      table,
		search:     views.NewSearch(),
		palette:    components.DefaultPalette(),
		categories: append([]string{""}, seed.Categories...),
	}
	v.Refresh()
	return v
}

// SetPalette sets the styles.
func (v *ItemsView) SetPalette(p components.Palette) {
	v.palette = p
	v.table.SetPalette(p)
}

// Refresh reloads the items matching the current filters.
func (v *ItemsView) Refresh() {
	v.items = v.source.SearchItems(v.search.Term(), v.categories[v.category])

	rows := make([][]string, len(v.items))
	for i, it := range v.items {
		rows[i] = []string{
			it.Code,
			it.Name,
			it.Category,
			strconv.Itoa(it.CurrentQty),
			strconv.Itoa(it.MinQty),
			it.Unit,
			it.StorageAddress,
			stockStatus(it),
		}
	}
	v.table.SetRows(rows)
}

func stockStatus(it models.Item) string {
	switch {
	case it.IsOutOfStock():
		return "OUT"
	case it.IsLowStock():
		return "LOW"
	default:
		return "OK"
	}
}

// Selected returns the highlighted item.
func (v *ItemsView) Selected() (models.Item, bool) {
	idx := v.table.Selected()
	if idx >= 0 && idx < len(v.items) {
		return v.items[idx], true
	}
	return models.Item{}, false
}

// Capturing reports whether the form or search box has the keyboard.
func (v *ItemsView) Capturing() bool {
	return v.form != nil || v.search.Active()
}

// Back closes the form or detail pane.
func (v *ItemsView) Back() bool {
	switch {
	case v.form != nil:
		v.form = nil
	case v.detail:
		v.detail = false
	default:
		return false
	}
	return true
}

// Update handles keys and movement results.
func (v *ItemsView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case recordedMsg:
		if msg.err != nil {
			if v.form != nil {
				v.form.Reject(msg.err)
			}
			return views.Notify("", msg.err)
		}
		v.form = nil
		m := msg.movement
		return views.Notify(fmt.Sprintf("%s of %d %s recorded for %s", m.Kind.Label(), m.Quantity, m.Unit, m.ItemCode), nil)
	case tea.KeyMsg:
		return v.handleKey(msg.String())
	}
	return nil
}

func (v *ItemsView) handleKey(key string) tea.Cmd {
	if v.form != nil {
		return v.handleFormKey(key)
	}
	if v.search.Active() {
		if v.search.HandleKey(key) {
			v.table.GoToTop()
			v.Refresh()
		}
		return nil
	}
	if v.detail {
		switch key {
		case "i":
			v.openForm(models.MovementEntry)
		case "o":
			v.openForm(models.MovementExit)
		}
		return nil
	}

	switch key {
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
	case "c":
		v.category = (v.category + 1) % len(v.categories)
		v.table.GoToTop()
		v.Refresh()
	case "i":
		v.openForm(models.MovementEntry)
	case "o":
		v.openForm(models.MovementExit)
	}
	return nil
}

func (v *ItemsView) openForm(kind models.MovementKind) {
	item, ok := v.Selected()
	if !ok {
		return
	}
	// the list may be stale after another screen moved stock
	if fresh, ok := v.source.Item(item.Code); ok {
		item = fresh
	}
	v.form = NewMovementForm(kind, item)
}

func (v *ItemsView) handleFormKey(key string) tea.Cmd {
	v.form.HandleKey(key)

	switch {
	case v.form.Cancelled():
		v.form = nil
	case v.form.Submitted():
		in, err := v.form.Input()
		if err != nil {
			v.form.Reject(err)
			return nil
		}
		return func() tea.Msg {
			m, err := v.source.RecordMovement(context.Background(), in)
			return recordedMsg{movement: m, err: err}
		}
	}
	return nil
}

// Render renders the items view.
func (v *ItemsView) Render(width, height int) string {
	p := v.palette
	if v.form != nil {
		return v.form.Render(p)
	}
	if v.detail {
		if item, ok := v.Selected(); ok {
			return v.renderDetail(item)
		}
	}

	v.table.SetColumns(components.Columns(columnSpecs, width))
	v.table.SetVisibleRows(views.VisibleRows(height))

	var b strings.Builder
	b.WriteString(views.Heading(p, "ITEMS"))
	b.WriteString("\n\n")

	category := v.categories[v.category]
	if category == "" {
		category = "All"
	}
	b.WriteString(p.Label.Render("Category:") + " " + p.Value.Render(category))
	if s := v.search.Render(p); s != "" {
		b.WriteString("   ")
		b.WriteString(s)
	}
	b.WriteString("\n\n")

	if v.table.Empty() {
		b.WriteString(p.Label.Render("No items found."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.table.Render())
	}

	b.WriteString("\n")
	if width < 80 {
		b.WriteString(p.Help.Render("↑↓ Enter /:Find c:Cat i:In o:Out"))
	} else {
		b.WriteString(p.Help.Render("Up/Down:Select  Enter:Details  /:Search  c:Category  i:Entry  o:Exit  PgUp/Dn:Page"))
	}
	return b.String()
}

func (v *ItemsView) renderDetail(it models.Item) string {
	p := v.palette
	var b strings.Builder

	b.WriteString(views.Heading(p, "ITEM DETAILS"))
	b.WriteString("\n\n")

	b.WriteString(p.Section.Render("ITEM"))
	b.WriteString("\n")
	b.WriteString(p.Field("Code", it.Code, 20) + "\n")
	b.WriteString(p.Field("Name", it.Name, 20) + "\n")
	b.WriteString(p.Field("Category", it.Category, 20) + "\n")
	b.WriteString(p.Field("Supplier", it.Supplier, 20) + "\n")
	b.WriteString("\n")

	b.WriteString(p.Section.Render("STOCK"))
	b.WriteString("\n")
	qty := fmt.Sprintf("%d %s", it.CurrentQty, it.Unit)
	switch {
	case it.IsOutOfStock():
		qty = p.Error.Render(qty + "  OUT OF STOCK")
	case it.IsLowStock():
		qty = p.Warning.Render(fmt.Sprintf("%s  LOW (short %d)", qty, it.Shortfall()))
	}
	b.WriteString(p.Label.Width(20).Render("Current:") + " " + p.Value.Render(qty) + "\n")
	b.WriteString(p.Field("Minimum", fmt.Sprintf("%d %s", it.MinQty, it.Unit), 20) + "\n")
	b.WriteString(p.Field("Address", it.StorageAddress, 20) + "\n")
	last := it.LastMovementDate
	if last == "" {
		last = "-"
	}
	b.WriteString(p.Field("Last movement", last, 20) + "\n")

	b.WriteString("\n")
	b.WriteString(p.Help.Render("Esc:Back  i:Entry  o:Exit"))
	return b.String()
}
