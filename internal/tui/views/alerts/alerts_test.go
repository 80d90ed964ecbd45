package alerts

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/testutil"
	"github.com/saae/almox/internal/tui/views"
)

func setupView(t *testing.T) (*AlertsView, *store.Store) {
	t.Helper()
	s, _ := testutil.NewSeededStore(t)
	return NewAlertsView(s), s
}

func press(v *AlertsView, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = v.Update(testutil.Key(k))
	}
	return cmd
}

func result(t *testing.T, cmd tea.Cmd) views.ResultMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(views.ResultMsg)
	if !ok {
		t.Fatal("expected a ResultMsg")
	}
	return msg
}

func TestAlertsView_Filters(t *testing.T) {
	v, _ := setupView(t)

	tests := []struct {
		label string
		rows  int
	}{
		{"Open", 5},
		{"All", 6},
		{"Pending", 4},
		{"In Progress", 1},
		{"Resolved", 1},
		{"Open", 5},
	}
	for i, tt := range tests {
		if i > 0 {
			press(v, "f")
		}
		if v.table.RowCount() != tt.rows {
			t.Errorf("%s: RowCount() = %d, want %d", tt.label, v.table.RowCount(), tt.rows)
		}
		if !strings.Contains(v.Render(120, 40), "Status: "+tt.label) {
			t.Errorf("%s: status label not shown", tt.label)
		}
	}

	press(v, "p")
	if v.table.RowCount() != 2 {
		t.Errorf("open high priority: RowCount() = %d, want 2", v.table.RowCount())
	}
	if !strings.Contains(v.Render(120, 40), "Priority: High") {
		t.Error("priority label not shown")
	}
}

func TestAlertsView_SearchTitle(t *testing.T) {
	v, _ := setupView(t)

	press(v, "/")
	for _, k := range testutil.Keys("BOMBA") {
		v.Update(k)
	}
	press(v, "enter")

	if v.table.RowCount() != 3 {
		t.Errorf("RowCount() = %d, want 3", v.table.RowCount())
	}
}

func TestAlertsView_ResolveAndStart(t *testing.T) {
	v, s := setupView(t)

	res := result(t, press(v, "s"))
	if res.Err != nil || res.Text != "Alert ALT001 started" {
		t.Fatalf("start result = %+v", res)
	}
	if a, _ := s.Alert("ALT001"); a.Status != models.AlertInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", a.Status)
	}

	res = result(t, press(v, "r"))
	if res.Err != nil || res.Text != "Alert ALT001 resolved" {
		t.Fatalf("resolve result = %+v", res)
	}
	if a, _ := s.Alert("ALT001"); a.Status != models.AlertResolved {
		t.Errorf("status = %s, want RESOLVED", a.Status)
	}

	v.Refresh()
	if v.table.RowCount() != 4 {
		t.Errorf("resolved alert should leave the open list, RowCount() = %d", v.table.RowCount())
	}
}

func TestAlertsView_DeleteAsksFirst(t *testing.T) {
	v, s := setupView(t)

	cmd := press(v, "enter", "d")
	if cmd == nil {
		t.Fatal("expected a confirmation command")
	}
	confirm, ok := cmd().(views.ConfirmMsg)
	if !ok {
		t.Fatal("expected a ConfirmMsg")
	}
	if !strings.Contains(confirm.Prompt, "ALT001") {
		t.Errorf("prompt = %q", confirm.Prompt)
	}
	if _, ok := s.Alert("ALT001"); !ok {
		t.Fatal("alert must not be deleted before confirmation")
	}

	res := result(t, confirm.OnYes)
	if res.Err != nil || res.Text != "Alert ALT001 deleted" {
		t.Errorf("delete result = %+v", res)
	}
	if _, ok := s.Alert("ALT001"); ok {
		t.Error("alert should be gone")
	}

	// a second confirmation for the same alert finds nothing to delete
	if res := result(t, confirm.OnYes); res.Err == nil {
		t.Error("deleting a missing alert should report an error")
	}
}

func TestAlertsView_Detail(t *testing.T) {
	v, _ := setupView(t)

	press(v, "down", "down", "enter")
	out := v.Render(120, 40)
	for _, want := range []string{"ALERT ALT003", "Maintenance", "In Progress", "Pump:", "B003"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q", want)
		}
	}
	if !v.Back() {
		t.Error("Back() should close the detail pane")
	}
}

func TestAlertsView_EmptyActions(t *testing.T) {
	v, _ := setupView(t)

	press(v, "/")
	for _, k := range testutil.Keys("nothing matches") {
		v.Update(k)
	}
	press(v, "enter")

	if !strings.Contains(v.Render(120, 40), "No alerts.") {
		t.Error("expected empty state message")
	}
	for _, k := range []string{"r", "s", "d"} {
		if cmd := press(v, k); cmd != nil {
			t.Errorf("%q on an empty list should do nothing", k)
		}
	}
}
