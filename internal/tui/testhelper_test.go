package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/saae/almox/internal/config"
	"github.com/saae/almox/internal/reports"
	"github.com/saae/almox/internal/services/reporting"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/testutil"
)

// newUnsizedApp creates an App over the seed dataset with a fixed clock.
// Exports go to a temporary directory.
func newUnsizedApp(t *testing.T) (*App, *store.Store) {
	t.Helper()

	s, clock := testutil.NewSeededStore(t)
	cfg := config.Default()
	svc := reporting.NewService(s, reporting.Settings{
		Dir:       filepath.Join(t.TempDir(), "exports"),
		Warehouse: cfg.Warehouse.Name,
		Author:    "SAAE",
		Options:   reports.DefaultOptions(),
	}, clock, testutil.QuietLogger())

	return New(s, svc, cfg, clock, testutil.QuietLogger()), s
}

// newTestApp is newUnsizedApp with a 120x40 window already applied.
func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()

	app, s := newUnsizedApp(t)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app, s
}

// press sends keys in order and returns the command of the last one.
func press(app *App, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = app.Update(testutil.Key(k))
	}
	return cmd
}

func typeText(app *App, text string) {
	for _, k := range testutil.Keys(text) {
		app.Update(k)
	}
}

// drain runs cmd and feeds every resulting message back into the app
// until a command produces nothing further.
func drain(app *App, cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = app.Update(msg)
	}
}
