package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewTable(t *testing.T) {
	table := NewTable([]Column{{Title: "Code", Width: 6}, {Title: "Name", Width: 20}})

	if !table.Empty() {
		t.Error("new table should be empty")
	}
	if table.SelectedRow() != nil {
		t.Error("empty table should have no selected row")
	}
}

func TestTable_Navigation(t *testing.T) {
	table := NewTable([]Column{{Title: "Code", Width: 6}})
	table.SetRows([][]string{{"HID001"}, {"HID002"}, {"HID003"}, {"ELE001"}, {"ELE002"}})

	steps := []struct {
		name string
		move func()
		want int
	}{
		{"down", table.MoveDown, 1},
		{"up", table.MoveUp, 0},
		{"up at top stays", table.MoveUp, 0},
		{"bottom", table.GoToBottom, 4},
		{"down at bottom stays", table.MoveDown, 4},
		{"top", table.GoToTop, 0},
	}
	for _, s := range steps {
		s.move()
		if got := table.Selected(); got != s.want {
			t.Fatalf("%s: Selected() = %d, want %d", s.name, got, s.want)
		}
	}
}

func TestTable_PageNavigation(t *testing.T) {
	table := NewTable([]Column{{Title: "Code", Width: 6}})
	table.SetVisibleRows(3)

	rows := make([][]string, 10)
	for i := range rows {
		rows[i] = []string{string(rune('A' + i))}
	}
	table.SetRows(rows)

	table.PageDown()
	if table.Selected() != 3 {
		t.Errorf("after PageDown Selected() = %d, want 3", table.Selected())
	}
	table.PageDown()
	table.PageDown()
	table.PageDown()
	if table.Selected() != 9 {
		t.Errorf("PageDown past the end Selected() = %d, want 9", table.Selected())
	}
	table.PageUp()
	if table.Selected() != 6 {
		t.Errorf("after PageUp Selected() = %d, want 6", table.Selected())
	}
}

func TestTable_SetRowsClampsSelection(t *testing.T) {
	table := NewTable([]Column{{Title: "Code", Width: 6}})
	table.SetRows([][]string{{"A"}, {"B"}, {"C"}})
	table.GoToBottom()

	table.SetRows([][]string{{"A"}})
	if table.Selected() != 0 {
		t.Errorf("Selected() = %d after shrinking, want 0", table.Selected())
	}
	if row := table.SelectedRow(); row == nil || row[0] != "A" {
		t.Errorf("SelectedRow() = %v", row)
	}

	table.SetRows(nil)
	if table.SelectedRow() != nil {
		t.Error("SelectedRow() should be nil for an emptied table")
	}
}

func TestTable_Render(t *testing.T) {
	table := NewTable([]Column{
		{Title: "Code", Width: 6},
		{Title: "Name", Width: 10},
		{Title: "Qty", Width: 5, Align: lipgloss.Right},
	})
	table.SetRows([][]string{
		{"HID002", "Conexão PVC 50mm", "45"},
		{"EPI002", "Luvas", "40"},
	})
	table.ShowCount(true)
	table.Focus(true)

	out := table.Render()
	for _, want := range []string{"Code", "Name", "Qty", "HID002", "Conexão P…", "Luvas", "1-2 of 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q in:\n%s", want, out)
		}
	}
}

func TestTable_RenderScrollsWithSelection(t *testing.T) {
	table := NewTable([]Column{{Title: "Code", Width: 6}})
	table.SetVisibleRows(2)
	table.SetRows([][]string{{"ROW-A"}, {"ROW-B"}, {"ROW-C"}})

	table.MoveDown()
	table.MoveDown()
	out := table.Render()
	if strings.Contains(out, "ROW-A") {
		t.Error("first row should have scrolled out of view")
	}
	if !strings.Contains(out, "ROW-C") {
		t.Error("selected row should be visible")
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in    string
		width int
		align lipgloss.Position
		want  string
	}{
		{"abc", 5, lipgloss.Left, "abc  "},
		{"abc", 5, lipgloss.Right, "  abc"},
		{"abc", 5, lipgloss.Center, " abc "},
		{"abcdef", 4, lipgloss.Left, "abc…"},
		{"Elétrica", 8, lipgloss.Left, "Elétrica"},
		{"Hidráulica", 6, lipgloss.Left, "Hidrá…"},
		{"x", 0, lipgloss.Left, ""},
	}
	for _, tt := range tests {
		if got := fit(tt.in, tt.width, tt.align); got != tt.want {
			t.Errorf("fit(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestTable_HiddenColumnsAreSkipped(t *testing.T) {
	table := NewTable([]Column{{Title: "Code", Width: 6}, {Title: "Supplier", Width: 0}})
	table.SetRows([][]string{{"HID001", "Hidro Supply"}})

	out := table.Render()
	if strings.Contains(out, "Supplier") || strings.Contains(out, "Hidro") {
		t.Errorf("zero-width column should not render:\n%s", out)
	}
}

func TestColumns(t *testing.T) {
	specs := []ColumnSpec{
		{Title: "Code", Fixed: 8, Priority: 3},
		{Title: "Name", MinWidth: 10, Weight: 1, Priority: 3},
		{Title: "Supplier", MinWidth: 10, Weight: 1, Priority: 1},
	}

	wide := Columns(specs, 100)
	// 100 - 8 fixed - 20 min - 6 gaps - 2 padding = 64 spare, split evenly
	if wide[0].Width != 8 || wide[1].Width != 42 || wide[2].Width != 42 {
		t.Errorf("wide widths = %d, %d, %d", wide[0].Width, wide[1].Width, wide[2].Width)
	}
	if wide[1].Title != "Name" {
		t.Errorf("titles not carried over: %+v", wide[1])
	}

	narrow := Columns(specs, 30)
	if narrow[2].Width != 0 {
		t.Errorf("lowest priority column should be dropped, got width %d", narrow[2].Width)
	}
	if narrow[0].Width != 8 || narrow[1].Width < 10 {
		t.Errorf("narrow widths = %d, %d", narrow[0].Width, narrow[1].Width)
	}
}
