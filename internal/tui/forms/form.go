// ABOUTME: Form wraps a huh form as a bubbletea model that reports its outcome
// ABOUTME: Completion sends the form's result message; esc sends CancelledMsg

package forms

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// CancelledMsg is sent when the user leaves a form without submitting
type CancelledMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
)

// Form is a single-page huh form
type Form struct {
	title  string
	form   *huh.Form
	submit func() tea.Msg
	done   bool
	err    string
}

func newForm(title string, form *huh.Form, submit func() tea.Msg) *Form {
	return &Form{title: title, form: form.WithTheme(Theme()).WithShowHelp(false), submit: submit}
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if f.done {
		return f, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		f.done = true
		return f, func() tea.Msg { return CancelledMsg{} }
	}

	model, cmd := f.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		f.form = form
	}

	switch f.form.State {
	case huh.StateCompleted:
		f.done = true
		return f, f.submit
	case huh.StateAborted:
		f.done = true
		return f, func() tea.Msg { return CancelledMsg{} }
	}
	return f, cmd
}

// SetError shows a submission error above the form
func (f *Form) SetError(msg string) {
	f.err = msg
}

// View implements tea.Model
func (f *Form) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(f.title))
	sb.WriteString("\n\n")
	if f.err != "" {
		sb.WriteString(errorStyle.Render("Error: " + f.err))
		sb.WriteString("\n\n")
	}
	sb.WriteString(f.form.View())
	return sb.String()
}
