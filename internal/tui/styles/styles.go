// ABOUTME: Ocean palette and lipgloss styles shared by every TUI screen
// ABOUTME: Score colors live in widgets; this file holds chrome and text

package styles

import "github.com/charmbracelet/lipgloss"

var (
	Primary   = lipgloss.Color("#06B6D4") // ocean
	Accent    = lipgloss.Color("#22D3EE") // foam
	Secondary = lipgloss.Color("#10B981")
	Danger    = lipgloss.Color("#EF4444")
	Muted     = lipgloss.Color("#6B7280")
	Text      = lipgloss.Color("#F9FAFB")
	Surface   = lipgloss.Color("#374151")
	Sand      = lipgloss.Color("#FBBF24") // tide chart

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			MarginBottom(1)

	StatusOK       = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	StatusCritical = lipgloss.NewStyle().Foreground(Danger).Bold(true)

	// Panels
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	Selected = lipgloss.NewStyle().Foreground(Accent).Bold(true)

	Help       = lipgloss.NewStyle().Foreground(Muted).MarginTop(1)
	KeyStyle   = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	ValueStyle = lipgloss.NewStyle().Foreground(Text).Bold(true)
)

// Cursor returns the row prefix for a list item
func Cursor(selected bool) string {
	if selected {
		return Selected.Render("> ")
	}
	return "  "
}
