package components

import "github.com/charmbracelet/lipgloss"

// Palette holds the styles views render with. The application derives one
// from its theme; DefaultPalette is used until then.
type Palette struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Focus   lipgloss.Style
	Muted   lipgloss.Style
	Help    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	TableHeader   lipgloss.Style
	TableRow      lipgloss.Style
	TableRowAlt   lipgloss.Style
	TableSelected lipgloss.Style
	TableBorder   lipgloss.Style
}

// DefaultPalette is the water-blue scheme.
func DefaultPalette() Palette {
	return NewPalette(
		lipgloss.Color("#4FC3F7"), lipgloss.Color("#0288D1"), lipgloss.Color("#B3E5FC"),
		lipgloss.Color("#37606F"), lipgloss.Color("#FF5252"), lipgloss.Color("#FFB300"),
		lipgloss.Color("#66BB6A"), lipgloss.Color("#000000"),
	)
}

// NewPalette builds a palette from raw colors.
func NewPalette(primary, secondary, accent, muted, errorColor, warning, success, background lipgloss.Color) Palette {
	return Palette{
		Title:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		Section: lipgloss.NewStyle().Foreground(primary).Bold(true),
		Label:   lipgloss.NewStyle().Foreground(secondary),
		Value:   lipgloss.NewStyle().Foreground(primary),
		Focus:   lipgloss.NewStyle().Foreground(accent),
		Muted:   lipgloss.NewStyle().Foreground(muted),
		Help:    lipgloss.NewStyle().Foreground(secondary),
		Success: lipgloss.NewStyle().Foreground(success),
		Warning: lipgloss.NewStyle().Foreground(warning),
		Error:   lipgloss.NewStyle().Foreground(errorColor),

		TableHeader:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		TableRow:      lipgloss.NewStyle().Foreground(primary),
		TableRowAlt:   lipgloss.NewStyle().Foreground(secondary),
		TableSelected: lipgloss.NewStyle().Background(primary).Foreground(background),
		TableBorder:   lipgloss.NewStyle().Foreground(secondary),
	}
}

// Field renders a fixed-width label followed by its value.
func (p Palette) Field(label, value string, width int) string {
	return p.Label.Width(width).Render(label+":") + " " + p.Value.Render(value)
}
