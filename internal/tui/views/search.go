package views

import (
	"strings"

	"github.com/saae/almox/internal/tui/components"
)

// Search is the "/" filter box shared by the list screens.
type Search struct {
	input  *components.Input
	active bool
}

// NewSearch creates an inactive search box.
func NewSearch() *Search {
	return &Search{input: components.NewInput("Search").SetWidth(30).SetMaxLength(60)}
}

// Open starts editing the term.
func (s *Search) Open() {
	s.active = true
	s.input.Focus(true)
}

// Active reports whether the box is being edited.
func (s *Search) Active() bool {
	return s.active
}

// Term returns the current search term.
func (s *Search) Term() string {
	return strings.TrimSpace(s.input.Value())
}

// HandleKey edits the term. Enter keeps it, esc clears it; both close the
// box. It reports whether the term changed.
func (s *Search) HandleKey(key string) bool {
	before := s.input.Value()
	switch key {
	case "enter":
		s.close()
	case "esc":
		s.input.SetValue("")
		s.close()
	default:
		s.input.HandleKey(key)
	}
	return s.input.Value() != before
}

func (s *Search) close() {
	s.active = false
	s.input.Focus(false)
}

// Render shows the box while editing, or the kept term.
func (s *Search) Render(p components.Palette) string {
	if s.active {
		return s.input.Render(p)
	}
	if t := s.Term(); t != "" {
		return p.Field("Search", t, 16)
	}
	return ""
}
