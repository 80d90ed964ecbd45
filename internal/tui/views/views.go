// Package views holds the module screens of the TUI and the messages
// they send back to the application shell.
package views

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/saae/almox/internal/tui/components"
)

// View is one module screen.
type View interface {
	// Refresh reloads the screen from the store.
	Refresh()
	// Update handles a key press or a message the screen's own commands produced.
	Update(msg tea.Msg) tea.Cmd
	// Capturing reports whether a form or search box owns the keyboard.
	Capturing() bool
	// Back closes a detail pane or form, reporting whether one was open.
	Back() bool
	Render(width, height int) string
	SetPalette(p components.Palette)
}

// ResultMsg reports the outcome of an operation for the status line.
// The shell refreshes every screen when it arrives.
type ResultMsg struct {
	Text string
	Err  error
}

// ConfirmMsg asks the shell for a yes/no dialog. OnYes runs on confirmation.
type ConfirmMsg struct {
	Title  string
	Prompt string
	OnYes  tea.Cmd
}

// Run returns a command that performs op and reports success or failure.
func Run(success string, op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := op(context.Background()); err != nil {
			return ResultMsg{Err: err}
		}
		return ResultMsg{Text: success}
	}
}

// Notify returns a command carrying a finished result.
func Notify(text string, err error) tea.Cmd {
	return func() tea.Msg {
		return ResultMsg{Text: text, Err: err}
	}
}

// Confirm returns a command asking for confirmation before onYes.
func Confirm(title, prompt string, onYes tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		return ConfirmMsg{Title: title, Prompt: prompt, OnYes: onYes}
	}
}

// Heading renders a screen title.
func Heading(p components.Palette, title string) string {
	return p.Title.Render("=== " + title + " ===")
}

// VisibleRows is how many table rows fit in height once the title,
// filter line, table header and help are drawn.
func VisibleRows(height int) int {
	return max(height-9, 3)
}
