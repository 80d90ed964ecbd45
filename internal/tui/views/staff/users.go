// Package staff provides the user directory screen.
package staff

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/tui/components"
	"github.com/saae/almox/internal/tui/views"
)

// Source is the part of the store the users screen uses.
type Source interface {
	ActiveUsers() []models.User
	Snapshot() store.State
}

var columnSpecs = []components.ColumnSpec{
	{Title: "ID", Fixed: 6, Priority: 9},
	{Title: "Name", MinWidth: 14, Weight: 2, Priority: 9},
	{Title: "Email", MinWidth: 16, Weight: 2, Priority: 4},
	{Title: "Role", Fixed: 15, Priority: 8},
	{Title: "Sector", MinWidth: 14, Weight: 1, Priority: 5},
	{Title: "Status", Fixed: 8, Priority: 7},
	{Title: "Last Access", Fixed: 16, Priority: 2},
}

// UsersView lists users, active only by default.
type UsersView struct {
	source  Source
	table   *components.Table
	users   []models.User
	palette components.Palette

	showAll bool
	detail  bool
}

// NewUsersView creates a new users view.
func NewUsersView(source Source) *UsersView {
	table := components.NewTable(components.Columns(columnSpecs, 100))
	table.Focus(true)
	table.ShowCount(true)

	v := &UsersView{
		source:  source,
		table:   table,
		palette: components.DefaultPalette(),
	}
	v.Refresh()
	return v
}

// SetPalette sets the styles.
func (v *UsersView) SetPalette(p components.Palette) {
	v.palette = p
	v.table.SetPalette(p)
}

// Refresh reloads the user list.
func (v *UsersView) Refresh() {
	if v.showAll {
		v.users = v.source.Snapshot().Users
	} else {
		v.users = v.source.ActiveUsers()
	}

	rows := make([][]string, len(v.users))
	for i, u := range v.users {
		status := "Active"
		if !u.IsActive() {
			status = "Inactive"
		}
		rows[i] = []string{u.ID, u.Name, u.Email, u.Role.Label(), u.Sector, status, u.LastAccess}
	}
	v.table.SetRows(rows)
}

// Selected returns the highlighted user.
func (v *UsersView) Selected() (models.User, bool) {
	idx := v.table.Selected()
	if idx >= 0 && idx < len(v.users) {
		return v.users[idx], true
	}
	return models.User{}, false
}

// Capturing is always false.
func (v *UsersView) Capturing() bool {
	return false
}

// Back closes the detail pane.
func (v *UsersView) Back() bool {
	if v.detail {
		v.detail = false
		return true
	}
	return false
}

// Update handles key presses.
func (v *UsersView) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok || v.detail {
		return nil
	}

	switch key.String() {
	case "up", "k":
		v.table.MoveUp()
	case "down", "j":
		v.table.MoveDown()
	case "home", "g":
		v.table.GoToTop()
	case "end", "G":
		v.table.GoToBottom()
	case "enter":
		_, v.detail = v.Selected()
	case "t":
		v.showAll = !v.showAll
		v.table.GoToTop()
		v.Refresh()
	}
	return nil
}

// Render renders the users view.
func (v *UsersView) Render(width, height int) string {
	p := v.palette
	if v.detail {
		if u, ok := v.Selected(); ok {
			return v.renderDetail(u)
		}
	}

	v.table.SetColumns(components.Columns(columnSpecs, width))
	v.table.SetVisibleRows(views.VisibleRows(height))

	var b strings.Builder
	b.WriteString(views.Heading(p, "USERS"))
	b.WriteString("\n\n")

	showing := "Active"
	if v.showAll {
		showing = "All"
	}
	b.WriteString(p.Label.Render("Showing:") + " " + p.Value.Render(fmt.Sprintf("%s (%d)", showing, len(v.users))))
	b.WriteString("\n\n")

	if v.table.Empty() {
		b.WriteString(p.Label.Render("No users."))
		b.WriteString("\n")
	} else {
		b.WriteString(v.table.Render())
	}

	b.WriteString("\n")
	b.WriteString(p.Help.Render("Up/Down:Select  Enter:Details  t:Active/All"))
	return b.String()
}

func (v *UsersView) renderDetail(u models.User) string {
	p := v.palette
	var b strings.Builder

	b.WriteString(views.Heading(p, "USER "+u.ID))
	b.WriteString("\n\n")
	b.WriteString(p.Field("Name", u.Name, 16) + "\n")
	b.WriteString(p.Field("Email", u.Email, 16) + "\n")
	b.WriteString(p.Field("Role", u.Role.Label(), 16) + "\n")
	b.WriteString(p.Field("Sector", u.Sector, 16) + "\n")
	b.WriteString(p.Field("Status", string(u.Status), 16) + "\n")
	b.WriteString(p.Field("Registered", u.RegisteredOn, 16) + "\n")
	b.WriteString(p.Field("Last access", u.LastAccess, 16) + "\n")
	b.WriteString("\n")
	b.WriteString(p.Help.Render("Esc:Back"))
	return b.String()
}
