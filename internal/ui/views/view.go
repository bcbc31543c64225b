package views

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Row is one rendered result line.
type Row struct {
	Title       string
	Description string
	Selected    bool
}

// Frame is everything the renderer needs for one paint: the mode hint, the
// rendered input field, the rows of the current list, a status line and the
// proportional scroll offset produced by the selection tracker.
type Frame struct {
	Hint   string
	Input  string
	Rows   []Row
	Status string
	Offset float64
}

// Renderer turns frames into terminal output. It holds no controller state.
type Renderer struct {
	visibleRows int
	styles      *Styles
}

// NewRenderer creates a renderer showing up to visibleRows result lines.
func NewRenderer(visibleRows int) *Renderer {
	if visibleRows <= 0 {
		visibleRows = 10
	}
	return &Renderer{
		visibleRows: visibleRows,
		styles:      NewStyles(),
	}
}

// Render paints one frame.
func (r *Renderer) Render(frame Frame) string {
	var b strings.Builder

	bar := frame.Input
	if frame.Hint != "" {
		bar = lipgloss.JoinHorizontal(lipgloss.Center,
			r.styles.Hint.Render(frame.Hint), bar)
	}
	b.WriteString(r.styles.SearchBar.Render(bar))
	b.WriteString("\n")

	start := visibleStart(frame.Offset, len(frame.Rows), r.visibleRows)
	end := start + r.visibleRows
	if end > len(frame.Rows) {
		end = len(frame.Rows)
	}

	for _, row := range frame.Rows[start:end] {
		line := row.Title
		if row.Description != "" {
			line += " " + r.styles.Description.Render(row.Description)
		}
		if row.Selected {
			b.WriteString(r.styles.SelectedRow.Render("> " + line))
		} else {
			b.WriteString(r.styles.Row.Render(line))
		}
		b.WriteString("\n")
	}

	if frame.Status != "" {
		b.WriteString(r.styles.Status.Render(frame.Status))
		b.WriteString("\n")
	}

	return b.String()
}

// visibleStart maps the tracker's proportional offset onto the first visible
// row, mirroring how a relative scrollbar position maps to content.
func visibleStart(offset float64, total, visible int) int {
	if total <= visible {
		return 0
	}
	max := total - visible
	start := int(math.Round(offset * float64(max)))
	if start < 0 {
		return 0
	}
	if start > max {
		return max
	}
	return start
}
