package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Hint        lipgloss.Style
	SearchBar   lipgloss.Style
	Row         lipgloss.Style
	SelectedRow lipgloss.Style
	Description lipgloss.Style
	Status      lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Hint: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		SearchBar: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		Row: lipgloss.NewStyle().
			PaddingLeft(2),
		SelectedRow: lipgloss.NewStyle().
			PaddingLeft(0).
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")),
		Description: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
	}
}
