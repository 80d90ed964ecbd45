package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LayoutBreakpoint defines terminal width thresholds for responsive layout.
type LayoutBreakpoint int

const (
	// BreakpointNarrow is for terminals under 80 columns.
	BreakpointNarrow LayoutBreakpoint = 80
	// BreakpointMedium is for terminals between 80-110 columns.
	BreakpointMedium LayoutBreakpoint = 110
	// BreakpointWide is for terminals over 110 columns.
	BreakpointWide LayoutBreakpoint = 140
)

// GetBreakpoint returns the current layout breakpoint for the given width.
func GetBreakpoint(width int) LayoutBreakpoint {
	switch {
	case width < int(BreakpointNarrow):
		return BreakpointNarrow
	case width < int(BreakpointMedium):
		return BreakpointMedium
	default:
		return BreakpointWide
	}
}

// Panel renders a bordered panel with its title set into the top border.
func (t *Theme) Panel(title, content string, width int) string {
	border := lipgloss.RoundedBorder()
	body := lipgloss.NewStyle().
		Border(border).
		BorderTop(false).
		BorderForeground(t.SecondaryColor).
		Width(width - 2). // -2 for border chars
		Padding(0, 1).
		Render(content)

	label := ""
	if title != "" {
		label = t.Accent.Bold(true).Render(" " + title + " ")
	}
	fill := max(width-3-lipgloss.Width(label), 0)
	top := t.Secondary.Render(border.TopLeft+border.Top) + label +
		t.Secondary.Render(strings.Repeat(border.Top, fill)+border.TopRight)

	return top + "\n" + body
}

// SideBySide renders two strings side by side, collapsing to vertical on narrow terminals.
func SideBySide(left, right string, totalWidth, gap int) string {
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)

	if leftWidth+rightWidth+gap > totalWidth {
		return left + "\n\n" + right
	}

	leftLines := strings.Split(left, "\n")
	rightLines := strings.Split(right, "\n")
	lines := max(len(leftLines), len(rightLines))

	var b strings.Builder
	for i := range lines {
		l, r := "", ""
		if i < len(leftLines) {
			l = leftLines[i]
		}
		if i < len(rightLines) {
			r = rightLines[i]
		}

		b.WriteString(PadRight(l, leftWidth+gap))
		b.WriteString(r)
		if i < lines-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ProgressBar renders a text-based progress bar.
func (t *Theme) ProgressBar(value, total float64, width int) string {
	if total <= 0 {
		total = 1
	}
	ratio := min(max(value/total, 0), 1)

	barWidth := max(width-2, 4) // for [ and ]
	filled := int(ratio * float64(barWidth))
	bar := "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"

	switch {
	case ratio > 0.6:
		return t.Success.Render(bar)
	case ratio > 0.3:
		return t.Warning.Render(bar)
	default:
		return t.Error.Render(bar)
	}
}

// PadRight pads a string to the given width with spaces.
func PadRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// PadLeft pads a string to the given width with spaces on the left.
func PadLeft(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}

// ContentWidth returns the usable content width, capped between min and max.
func ContentWidth(termWidth, minWidth, maxWidth int) int {
	w := max(termWidth, minWidth)
	if maxWidth > 0 && w > maxWidth {
		w = maxWidth
	}
	return w
}

// ContentHeight returns the usable content height after subtracting chrome.
// chromeLines is the total lines used by header, footer, status line and separators.
func ContentHeight(termHeight, chromeLines int) int {
	return max(termHeight-chromeLines, 5)
}
