// ABOUTME: Spot picker TUI component with search-as-you-type
// ABOUTME: Shows recent spots first, then every spot matching the query

package spotpicker

import (
	"strings"

	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SpotSelectedMsg is sent when a spot is selected
type SpotSelectedMsg struct {
	Spot models.Spot
}

// CancelledMsg is sent when the user cancels
type CancelledMsg struct{}

// SpotPicker is the spot selection component
type SpotPicker struct {
	title   string
	spots   []models.Spot
	recent  []models.Spot
	results []models.Spot
	cursor  int
	input   textinput.Model
	err     string
	width   int
	height  int
}

// Styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	placeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dividerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// New creates a picker over spots. recent is shown first while the query is empty.
func New(title string, spots, recent []models.Spot) *SpotPicker {
	ti := textinput.New()
	ti.Placeholder = "Search by name, region or state"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	sp := &SpotPicker{
		title:  title,
		spots:  spots,
		recent: recent,
		input:  ti,
	}
	sp.filter()
	return sp
}

// Init implements tea.Model
func (sp *SpotPicker) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (sp *SpotPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		sp.width = msg.Width
		sp.height = msg.Height
		return sp, nil

	case tea.KeyMsg:
		sp.err = ""

		switch msg.String() {
		case "up", "ctrl+k":
			if sp.cursor > 0 {
				sp.cursor--
			}
			return sp, nil
		case "down", "ctrl+j":
			if sp.cursor < len(sp.results)-1 {
				sp.cursor++
			}
			return sp, nil
		case "enter":
			if len(sp.results) == 0 {
				sp.err = "No spot matches " + quote(sp.input.Value())
				return sp, nil
			}
			spot := sp.results[sp.cursor]
			return sp, func() tea.Msg { return SpotSelectedMsg{Spot: spot} }
		case "esc":
			return sp, func() tea.Msg { return CancelledMsg{} }
		}

		before := sp.input.Value()
		var cmd tea.Cmd
		sp.input, cmd = sp.input.Update(msg)
		if sp.input.Value() != before {
			sp.filter()
		}
		return sp, cmd
	}

	return sp, nil
}

// filter recomputes results for the current query
func (sp *SpotPicker) filter() {
	query := sp.input.Value()
	sp.cursor = 0
	if strings.TrimSpace(query) != "" {
		sp.results = models.FilterSpots(sp.spots, query)
		return
	}

	// Recent spots first, then the rest in backend order
	sp.results = make([]models.Spot, 0, len(sp.spots))
	sp.results = append(sp.results, sp.recent...)
	for _, s := range sp.spots {
		if _, isRecent := models.FindSpot(sp.recent, s.ID); !isRecent {
			sp.results = append(sp.results, s)
		}
	}
}

// Selected returns the highlighted spot
func (sp *SpotPicker) Selected() (models.Spot, bool) {
	if len(sp.results) == 0 {
		return models.Spot{}, false
	}
	return sp.results[sp.cursor], true
}

// SetError sets an error message to display
func (sp *SpotPicker) SetError(msg string) {
	sp.err = msg
}

// View implements tea.Model
func (sp *SpotPicker) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(sp.title))
	b.WriteString("\n\n")
	b.WriteString(sp.input.View())
	b.WriteString("\n\n")

	recentShown := strings.TrimSpace(sp.input.Value()) == "" && len(sp.recent) > 0
	if recentShown {
		b.WriteString(helpStyle.Render("Recent spots:"))
		b.WriteString("\n")
	}

	start, end := sp.window()
	for i := start; i < end; i++ {
		if recentShown && i == len(sp.recent) {
			b.WriteString(dividerStyle.Render(strings.Repeat("─", min(40, max(sp.width-4, 10)))))
			b.WriteString("\n")
		}
		s := sp.results[i]
		cursor := "  "
		style := normalStyle
		if i == sp.cursor {
			cursor = "> "
			style = selectedStyle
		}
		line := cursor + style.Render(s.Name)
		if place := s.Place(); place != "" {
			line += "  " + placeStyle.Render(place)
		}
		b.WriteString(line + "\n")
	}

	if len(sp.results) == 0 {
		b.WriteString(helpStyle.Render("No spots match."))
		b.WriteString("\n")
	}

	if sp.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + sp.err))
	}

	return b.String()
}

// window returns the slice of results that fits the available height,
// keeping the cursor visible
func (sp *SpotPicker) window() (int, int) {
	rows := sp.height - 10
	if rows < 5 {
		rows = 10
	}
	if len(sp.results) <= rows {
		return 0, len(sp.results)
	}
	start := max(0, sp.cursor-rows/2)
	end := min(len(sp.results), start+rows)
	return end - rows, end
}

func quote(s string) string {
	return "\"" + s + "\""
}
