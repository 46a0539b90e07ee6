// ABOUTME: Main menu shown after sign in
// ABOUTME: A huh select embedded as a bubbletea model that reports the chosen destination

package menu

import (
	"fmt"

	"github.com/Bryanads/thecheck-frontend-app/internal/tui/forms"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// Destination is a screen reachable from the menu
type Destination int

const (
	Recommendations Destination = iota
	Presets
	Forecasts
	Profile
	SignOut
	Quit
)

// SelectedMsg is sent when the user picks a destination
type SelectedMsg struct {
	Destination Destination
}

type option struct {
	label   string
	value   Destination
	enabled bool
}

// Menu represents the main menu
type Menu struct {
	options  []option
	selected Destination
	form     *huh.Form
}

// New creates the menu. Without presets the recommendations entry is disabled.
func New(hasPresets bool) *Menu {
	m := &Menu{
		options: []option{
			{label: "Best time to surf", value: Recommendations, enabled: hasPresets},
			{label: "Presets", value: Presets, enabled: true},
			{label: "Spot forecasts", value: Forecasts, enabled: true},
			{label: "Profile", value: Profile, enabled: true},
			{label: "Sign out", value: SignOut, enabled: true},
			{label: "Quit", value: Quit, enabled: true},
		},
		selected: Recommendations,
	}
	if !hasPresets {
		m.selected = Presets
	}
	m.form = m.createForm()
	return m
}

func (m *Menu) createForm() *huh.Form {
	options := make([]huh.Option[Destination], 0, len(m.options))
	for _, opt := range m.options {
		label := opt.label
		if !opt.enabled {
			label = fmt.Sprintf("%s (create a preset first)", label)
		}
		options = append(options, huh.NewOption(label, opt.value))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Destination]().
				Title("What next?").
				Options(options...).
				Value(&m.selected).
				Validate(m.validate),
		),
	).WithTheme(forms.Theme()).WithShowHelp(false)
}

func (m *Menu) validate(d Destination) error {
	for _, opt := range m.options {
		if opt.value == d && !opt.enabled {
			return fmt.Errorf("create a preset first")
		}
	}
	return nil
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		choice := m.selected
		// Rebuild so the menu is ready when the user comes back
		m.form = m.createForm()
		return m, tea.Batch(m.form.Init(), func() tea.Msg { return SelectedMsg{Destination: choice} })
	}
	return m, cmd
}

// View implements tea.Model
func (m *Menu) View() string {
	return m.form.View()
}

// String returns the string representation of a Destination
func (d Destination) String() string {
	switch d {
	case Recommendations:
		return "recommendations"
	case Presets:
		return "presets"
	case Forecasts:
		return "forecasts"
	case Profile:
		return "profile"
	case SignOut:
		return "sign-out"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}
