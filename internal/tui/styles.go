// Package tui provides the terminal user interface for almox.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/saae/almox/internal/config"
	"github.com/saae/almox/internal/tui/components"
)

// Theme contains all style definitions for the TUI.
type Theme struct {
	PrimaryColor    lipgloss.Color
	SecondaryColor  lipgloss.Color
	AccentColor     lipgloss.Color
	BackgroundColor lipgloss.Color
	ForegroundColor lipgloss.Color
	ErrorColor      lipgloss.Color
	WarningColor    lipgloss.Color
	SuccessColor    lipgloss.Color
	MutedColor      lipgloss.Color

	Base lipgloss.Style
	Bold lipgloss.Style

	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Accent    lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Success   lipgloss.Style
	Muted     lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Box      lipgloss.Style
	Selected lipgloss.Style

	// Status line notices
	Notice     lipgloss.Style
	NoticeWarn lipgloss.Style
	NoticeErr  lipgloss.Style

	StatusBar     lipgloss.Style
	StatusKey     lipgloss.Style
	StatusValue   lipgloss.Style
	StatusDivider lipgloss.Style

	palette components.Palette
}

// NewTheme creates a new theme based on the color scheme configuration.
func NewTheme(scheme config.ColorScheme) *Theme {
	switch scheme {
	case config.ColorSchemeAmber:
		return newAmberTheme()
	case config.ColorSchemeWhite:
		return newWhiteTheme()
	default:
		return newSanitationTheme()
	}
}

// newSanitationTheme is the water-blue scheme used by the utility's signage.
func newSanitationTheme() *Theme {
	return buildTheme(
		lipgloss.Color("#4FC3F7"), // primary
		lipgloss.Color("#0288D1"), // secondary
		lipgloss.Color("#B3E5FC"), // accent
		lipgloss.Color("#000000"), // background
		lipgloss.Color("#E1F5FE"), // foreground
		lipgloss.Color("#37606F"), // muted
		lipgloss.Color("#FF5252"),
		lipgloss.Color("#FFB300"),
		lipgloss.Color("#66BB6A"),
	)
}

func newAmberTheme() *Theme {
	return buildTheme(
		lipgloss.Color("#FFAA00"),
		lipgloss.Color("#AA7700"),
		lipgloss.Color("#FFCC66"),
		lipgloss.Color("#000000"),
		lipgloss.Color("#FFAA00"),
		lipgloss.Color("#664400"),
		lipgloss.Color("#FF4444"),
		lipgloss.Color("#FFFF00"),
		lipgloss.Color("#FFAA00"),
	)
}

func newWhiteTheme() *Theme {
	return buildTheme(
		lipgloss.Color("#FFFFFF"),
		lipgloss.Color("#AAAAAA"),
		lipgloss.Color("#FFFFFF"),
		lipgloss.Color("#000000"),
		lipgloss.Color("#FFFFFF"),
		lipgloss.Color("#666666"),
		lipgloss.Color("#FF4444"),
		lipgloss.Color("#FFAA00"),
		lipgloss.Color("#00FF00"),
	)
}

func buildTheme(primary, secondary, accent, background, foreground, muted, errorColor, warningColor, successColor lipgloss.Color) *Theme {
	t := &Theme{
		PrimaryColor:    primary,
		SecondaryColor:  secondary,
		AccentColor:     accent,
		BackgroundColor: background,
		ForegroundColor: foreground,
		MutedColor:      muted,
		ErrorColor:      errorColor,
		WarningColor:    warningColor,
		SuccessColor:    successColor,
	}

	t.Base = lipgloss.NewStyle().Foreground(foreground)
	t.Bold = t.Base.Bold(true)

	t.Primary = lipgloss.NewStyle().Foreground(primary)
	t.Secondary = lipgloss.NewStyle().Foreground(secondary)
	t.Accent = lipgloss.NewStyle().Foreground(accent)
	t.Error = lipgloss.NewStyle().Foreground(errorColor)
	t.Warning = lipgloss.NewStyle().Foreground(warningColor)
	t.Success = lipgloss.NewStyle().Foreground(successColor)
	t.Muted = lipgloss.NewStyle().Foreground(muted)

	// Header - top bar with warehouse name and counters
	t.Header = lipgloss.NewStyle().
		Foreground(primary).
		Bold(true).
		Padding(0, 1)

	t.Footer = lipgloss.NewStyle().
		Foreground(secondary).
		Padding(0, 1)

	t.Title = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Padding(0, 1)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(primary).
		Padding(0, 1)

	t.Label = lipgloss.NewStyle().Foreground(secondary)
	t.Value = lipgloss.NewStyle().Foreground(primary)

	t.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(secondary).
		Padding(0, 1)

	t.Selected = lipgloss.NewStyle().
		Foreground(background).
		Background(primary).
		Bold(true)

	t.Notice = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	t.NoticeWarn = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	t.NoticeErr = lipgloss.NewStyle().Foreground(errorColor).Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(secondary).
		Padding(0, 1)

	t.StatusKey = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)

	t.StatusValue = lipgloss.NewStyle().Foreground(primary)

	t.StatusDivider = lipgloss.NewStyle().
		Foreground(muted).
		SetString(" │ ")

	t.palette = components.NewPalette(primary, secondary, accent, muted, errorColor, warningColor, successColor, background)

	return t
}

// Palette returns the component styles matching this theme.
func (t *Theme) Palette() components.Palette {
	return t.palette
}

// Box characters for drawing
const (
	BoxHorizontal       = "─"
	BoxVertical         = "│"
	BoxDoubleHorizontal = "═"
)

// DrawHorizontalLine draws a horizontal line.
func (t *Theme) DrawHorizontalLine(width int) string {
	return t.Secondary.Render(strings.Repeat(BoxHorizontal, max(width, 0)))
}

// DrawDoubleLine draws a double horizontal line.
func (t *Theme) DrawDoubleLine(width int) string {
	return t.Primary.Render(strings.Repeat(BoxDoubleHorizontal, max(width, 0)))
}
