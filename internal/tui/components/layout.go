package components

import "github.com/charmbracelet/lipgloss"

// ColumnSpec defines a column with proportional or fixed width.
type ColumnSpec struct {
	Title string
	Align lipgloss.Position
	// MinWidth is the smallest width a weighted column is given.
	MinWidth int
	// Weight is the proportional share of remaining width.
	Weight float64
	// Fixed is a fixed width (overrides Weight if > 0).
	Fixed int
	// Priority determines drop order when the terminal is narrow (lower = dropped first).
	Priority int
}

// separatorWidth is the width of the " │ " between table cells.
const separatorWidth = 3

// Columns distributes availableWidth among the specs. Columns that do not
// fit are dropped lowest priority first and come back with zero width.
func Columns(specs []ColumnSpec, availableWidth int) []Column {
	visible := make([]bool, len(specs))
	totalFixed := 0
	totalWeight := 0.0
	visibleCount := 0

	for i, spec := range specs {
		visible[i] = true
		visibleCount++
		if spec.Fixed > 0 {
			totalFixed += spec.Fixed
		} else {
			totalWeight += spec.Weight
			totalFixed += spec.MinWidth
		}
	}

	remaining := func() int {
		gaps := 0
		if visibleCount > 1 {
			gaps = (visibleCount - 1) * separatorWidth
		}
		return availableWidth - totalFixed - gaps - 2 // -2 for row padding
	}

	for remaining() < 0 && visibleCount > 1 {
		lowestIdx := -1
		for i, spec := range specs {
			if visible[i] && (lowestIdx < 0 || spec.Priority < specs[lowestIdx].Priority) {
				lowestIdx = i
			}
		}
		visible[lowestIdx] = false
		visibleCount--
		if specs[lowestIdx].Fixed > 0 {
			totalFixed -= specs[lowestIdx].Fixed
		} else {
			totalWeight -= specs[lowestIdx].Weight
			totalFixed -= specs[lowestIdx].MinWidth
		}
	}

	spare := max(remaining(), 0)

	cols := make([]Column, len(specs))
	for i, spec := range specs {
		cols[i] = Column{Title: spec.Title, Align: spec.Align}
		switch {
		case !visible[i]:
			cols[i].Width = 0
		case spec.Fixed > 0:
			cols[i].Width = spec.Fixed
		case totalWeight > 0:
			cols[i].Width = spec.MinWidth + int(float64(spare)*spec.Weight/totalWeight)
		default:
			cols[i].Width = spec.MinWidth
		}
	}
	return cols
}
