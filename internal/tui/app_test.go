package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/saae/almox/internal/tui/views"
)

func TestApp_InitialState(t *testing.T) {
	app, _ := newTestApp(t)

	if app.currentModule != ModuleDashboard {
		t.Errorf("expected initial module Dashboard, got %s", app.currentModule)
	}
	if !app.ready {
		t.Error("expected app to be ready")
	}
	if app.quitting || app.dialog != nil {
		t.Error("expected no dialog and not quitting")
	}
	if len(app.screens) != 6 {
		t.Errorf("expected 6 module screens, got %d", len(app.screens))
	}
}

func TestApp_View_NotReady(t *testing.T) {
	app, _ := newUnsizedApp(t)

	if !strings.Contains(app.View(), "Initializing") {
		t.Error("expected initialization message when not ready")
	}
}

func TestApp_View_Quitting(t *testing.T) {
	app, _ := newTestApp(t)
	app.quitting = true

	if !strings.Contains(app.View(), "shutting down") {
		t.Error("expected shutdown message when quitting")
	}
}

func TestApp_View_Dashboard(t *testing.T) {
	app, _ := newTestApp(t)
	out := app.View()

	for _, want := range []string{
		"WAREHOUSE OVERVIEW",
		"Almoxarifado SAAE",
		"LOW STOCK: 4",
		"OPEN ALERTS: 5",
		"2024-01-20 09:00",
		"STOCK", "HID001",
		"ALERTS", "ALT001",
		"PUMPS", "Operating", "Maintenance",
		"RECENT MOVEMENTS", "75 in", "today", "yesterday",
		"[F1]Help",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestApp_View_DashboardNarrow(t *testing.T) {
	app, _ := newUnsizedApp(t)
	app.width, app.height, app.ready = 60, 40, true

	out := app.View()
	if !strings.Contains(out, "RECENT MOVEMENTS") || !strings.Contains(out, "PUMPS") {
		t.Error("narrow dashboard should stack every panel")
	}
}

func TestApp_ModuleNavigation_FKeys(t *testing.T) {
	tests := []struct {
		key    string
		module Module
		title  string
	}{
		{"f3", ModuleItems, "=== ITEMS ==="},
		{"f4", ModulePumps, "=== PUMPS ==="},
		{"f5", ModuleMovements, "=== MOVEMENTS ==="},
		{"f6", ModuleAlerts, "=== ALERTS ==="},
		{"f7", ModuleUsers, "=== USERS ==="},
		{"f8", ModuleReports, "=== REPORTS ==="},
		{"f1", ModuleHelp, "HELP"},
		{"f2", ModuleDashboard, "WAREHOUSE OVERVIEW"},
	}

	app, _ := newTestApp(t)
	for _, tt := range tests {
		t.Run(string(tt.module), func(t *testing.T) {
			press(app, tt.key)
			if app.currentModule != tt.module {
				t.Fatalf("expected module %s, got %s", tt.module, app.currentModule)
			}
			if out := app.View(); !strings.Contains(out, tt.title) {
				t.Errorf("expected %q in view", tt.title)
			}
		})
	}
}

func TestApp_BackReturnsToPreviousModule(t *testing.T) {
	app, _ := newTestApp(t)

	press(app, "f4", "?")
	if app.currentModule != ModuleHelp {
		t.Fatalf("? should open help, got %s", app.currentModule)
	}
	press(app, "esc")
	if app.currentModule != ModulePumps {
		t.Errorf("esc from help should return to pumps, got %s", app.currentModule)
	}
}

func TestApp_BackClosesDetailFirst(t *testing.T) {
	app, _ := newTestApp(t)

	press(app, "f3", "enter")
	if !strings.Contains(app.View(), "ITEM DETAILS") {
		t.Fatal("enter should open the item detail")
	}
	press(app, "esc")
	if app.currentModule != ModuleItems {
		t.Fatalf("esc should only close the detail, module is %s", app.currentModule)
	}
	if strings.Contains(app.View(), "ITEM DETAILS") {
		t.Error("detail should be closed")
	}
}

func TestApp_QuitConfirmation(t *testing.T) {
	app, _ := newTestApp(t)

	press(app, "q")
	if app.dialog == nil || !app.dialog.quit {
		t.Fatal("q should open the exit dialog")
	}
	if out := app.View(); !strings.Contains(out, "CONFIRM EXIT") || !strings.Contains(out, "[Y]es  [N]o") {
		t.Error("exit dialog not rendered")
	}

	press(app, "n")
	if app.dialog != nil || app.quitting {
		t.Error("n should cancel the exit")
	}

	press(app, "f10")
	if app.dialog == nil {
		t.Fatal("F10 should open the exit dialog")
	}
	cmd := press(app, "y")
	if !app.quitting || cmd == nil {
		t.Error("y should quit")
	}
}

func TestApp_CapturingViewGetsGlobalKeys(t *testing.T) {
	app, _ := newTestApp(t)

	press(app, "f3", "/", "q")
	if app.dialog != nil {
		t.Fatal("q typed into a search box must not open the exit dialog")
	}
	if !app.currentView().Capturing() {
		t.Fatal("search box should still be open")
	}
	press(app, "esc")
	press(app, "q")
	if app.dialog == nil {
		t.Error("q should open the exit dialog once the search box is closed")
	}
}

func TestApp_RecordEntryUpdatesHeader(t *testing.T) {
	app, s := newTestApp(t)

	press(app, "f3", "i")
	typeText(app, "10")
	press(app, "tab")
	typeText(app, "Ana Paula")
	drain(app, press(app, "ctrl+s"))

	item, _ := s.Item("HID001")
	if item.CurrentQty != 12 {
		t.Fatalf("CurrentQty = %d, want 12", item.CurrentQty)
	}
	out := app.View()
	if !strings.Contains(out, "Entry of 10 unidade recorded for HID001") {
		t.Error("status line should report the entry")
	}
	if !strings.Contains(out, "LOW STOCK: 3") {
		t.Error("header should count one fewer low-stock item")
	}
}

func TestApp_DeleteAlertThroughDialog(t *testing.T) {
	app, s := newTestApp(t)

	drain(app, press(app, "f6", "d"))
	if app.dialog == nil || app.dialog.quit {
		t.Fatal("d should open a delete confirmation")
	}
	if !strings.Contains(app.View(), "DELETE ALERT") {
		t.Error("delete dialog not rendered")
	}

	drain(app, press(app, "y"))
	if _, ok := s.Alert("ALT001"); ok {
		t.Error("ALT001 should be deleted")
	}
	if !strings.Contains(app.View(), "Alert ALT001 deleted") {
		t.Error("status line should report the deletion")
	}
}

func TestApp_ResultErrorShowsNotice(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(views.ResultMsg{Err: errors.New("disk full")})
	if !strings.Contains(app.View(), "ERROR: disk full") {
		t.Error("error notice not shown")
	}
	if len(app.notices) != 1 || app.notices[0].Level != NoticeError {
		t.Errorf("notices = %+v", app.notices)
	}
}

func TestApp_AddNotice_KeepsLatest(t *testing.T) {
	app, _ := newTestApp(t)

	for i := range maxNotices + 3 {
		app.AddNotice(NoticeInfo, strings.Repeat("x", i+1))
	}
	if len(app.notices) != maxNotices {
		t.Errorf("expected %d notices, got %d", maxNotices, len(app.notices))
	}
	if app.notices[0].Message != strings.Repeat("x", maxNotices+3) {
		t.Error("newest notice should come first")
	}

	app.ClearNotices()
	if !strings.Contains(app.View(), "4 item(s) at or below minimum stock") {
		t.Error("status line should fall back to the low-stock summary")
	}
}
