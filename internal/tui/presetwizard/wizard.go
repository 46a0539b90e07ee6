// ABOUTME: Preset create/edit wizard as a bubbletea model
// ABOUTME: Three huh steps with a progress box; finishes with a create or update payload

package presetwizard

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/forms"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/icons"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// CompleteMsg is sent when the wizard finishes. Exactly one of Create and
// Update is set; ID is the edited preset for updates.
type CompleteMsg struct {
	ID     int
	Create *models.PresetCreate
	Update *models.PresetUpdate
}

// CancelledMsg is sent when the wizard is cancelled
type CancelledMsg struct{}

// Step names for progress indicator
var stepNames = []string{"Name & Spots", "Days", "Time window"}

// Wizard collects a preset over three steps
type Wizard struct {
	spots   []models.Spot
	current *models.Preset
	form    *huh.Form
	step    int
	width   int

	// Form field values
	name      string
	spotIDs   []int
	dayType   models.DaySelectionType
	offsets   []int
	weekdays  []int
	start     string
	end       string
	isDefault bool
}

// New creates a wizard. A non-nil current preset is edited in place of creating one.
func New(spots []models.Spot, current *models.Preset) *Wizard {
	base := models.NewPresetCreate("", nil)
	w := &Wizard{
		spots:   spots,
		current: current,
		step:    1,
		dayType: base.DaySelectionType,
		offsets: base.DaySelectionValues,
		start:   clock(base.StartTime),
		end:     clock(base.EndTime),
	}

	if current != nil {
		w.name = current.Name
		w.spotIDs = slices.Clone(current.SpotIDs)
		w.dayType = current.DaySelectionType
		if w.dayType == models.DaysWeekdays {
			w.weekdays = slices.Clone(current.DaySelectionValues)
			w.offsets = nil
		} else {
			w.offsets = slices.Clone(current.DaySelectionValues)
		}
		w.start = clock(current.StartTime)
		w.end = clock(current.EndTime)
		w.isDefault = current.IsDefault
	}

	w.form = w.createStep1Form()
	return w
}

// Editing reports whether the wizard edits an existing preset
func (w *Wizard) Editing() bool {
	return w.current != nil
}

func (w *Wizard) createStep1Form() *huh.Form {
	options := make([]huh.Option[int], 0, len(w.spots))
	for _, s := range w.spots {
		label := s.Name
		if place := s.Place(); place != "" {
			label = fmt.Sprintf("%s (%s)", s.Name, place)
		}
		options = append(options, huh.NewOption(label, s.ID).Selected(slices.Contains(w.spotIDs, s.ID)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Preset name").
				Placeholder("e.g., Dawn patrol").
				CharLimit(60).
				Value(&w.name).
				Validate(validateName),
			huh.NewMultiSelect[int]().
				Title("Spots").
				Description("Space to toggle, / to filter, Enter to continue").
				Options(options...).
				Filterable(true).
				Height(10).
				Value(&w.spotIDs).
				Validate(validateSpots),
		).Title("Step 1: Name & Spots").
			Description("Name the preset and pick the spots it covers"),
	).WithTheme(forms.Theme())
}

func (w *Wizard) createStep2Form() *huh.Form {
	offsets := make([]huh.Option[int], 0, models.MaxDayOffset+1)
	for d := 0; d <= models.MaxDayOffset; d++ {
		offsets = append(offsets, huh.NewOption(offsetLabel(d), d))
	}
	weekdays := make([]huh.Option[int], 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		weekdays = append(weekdays, huh.NewOption(d.String(), int(d)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.DaySelectionType]().
				Title("Which days?").
				Options(
					huh.NewOption("Days from today", models.DaysOffsets),
					huh.NewOption("Days of the week", models.DaysWeekdays),
				).
				Value(&w.dayType),
		).Title("Step 2: Days").
			Description("Relative days move with the calendar; weekdays repeat every week"),
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Days from today").
				Options(offsets...).
				Height(8).
				Value(&w.offsets).
				Validate(validateDays),
		).WithHideFunc(func() bool { return w.dayType != models.DaysOffsets }),
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Days of the week").
				Options(weekdays...).
				Value(&w.weekdays).
				Validate(validateDays),
		).WithHideFunc(func() bool { return w.dayType != models.DaysWeekdays }),
	).WithTheme(forms.Theme())
}

func (w *Wizard) createStep3Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Start").
				Placeholder("HH:MM").
				CharLimit(8).
				Value(&w.start).
				Validate(validateClock),
			huh.NewInput().
				Title("End").
				Placeholder("HH:MM").
				CharLimit(8).
				Value(&w.end).
				Validate(func(s string) error {
					if err := validateClock(s); err != nil {
						return err
					}
					return validateWindow(w.start, s)
				}),
			huh.NewConfirm().
				Title("Use as default preset?").
				Affirmative("Yes").
				Negative("No").
				Value(&w.isDefault),
		).Title("Step 3: Time window").
			Description("Only hours inside this window are scored"),
	).WithTheme(forms.Theme())
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return w, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	switch w.form.State {
	case huh.StateCompleted:
		return w.advanceStep()
	case huh.StateAborted:
		return w, func() tea.Msg { return CancelledMsg{} }
	}

	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	switch w.step {
	case 1:
		w.step = 2
		w.form = w.createStep2Form()
		return w, w.form.Init()

	case 2:
		w.step = 3
		w.form = w.createStep3Form()
		return w, w.form.Init()

	case 3:
		msg := w.result()
		return w, func() tea.Msg { return msg }
	}

	return w, nil
}

// Payload returns the collected values as a create payload
func (w *Wizard) Payload() models.PresetCreate {
	p := models.PresetCreate{
		Name:             w.name,
		SpotIDs:          slices.Clone(w.spotIDs),
		DaySelectionType: w.dayType,
		StartTime:        w.start,
		EndTime:          w.end,
		IsDefault:        w.isDefault,
	}
	if w.dayType == models.DaysWeekdays {
		p.DaySelectionValues = sorted(w.weekdays)
	} else {
		p.DaySelectionValues = sorted(w.offsets)
	}
	p.Normalize()
	return p
}

func (w *Wizard) result() CompleteMsg {
	p := w.Payload()
	if w.current == nil {
		return CompleteMsg{Create: &p}
	}
	u := diff(*w.current, p)
	return CompleteMsg{ID: w.current.ID, Update: &u}
}

// diff keeps only the fields of next that differ from current
func diff(current models.Preset, next models.PresetCreate) models.PresetUpdate {
	var u models.PresetUpdate
	if next.Name != current.Name {
		u.Name = &next.Name
	}
	if !slices.Equal(sorted(next.SpotIDs), sorted(current.SpotIDs)) {
		u.SpotIDs = next.SpotIDs
	}
	if next.DaySelectionType != current.DaySelectionType ||
		!slices.Equal(next.DaySelectionValues, sorted(current.DaySelectionValues)) {
		u.DaySelectionType = &next.DaySelectionType
		u.DaySelectionValues = next.DaySelectionValues
	}
	if next.StartTime != models.NormalizeTime(current.StartTime) {
		u.StartTime = &next.StartTime
	}
	if next.EndTime != models.NormalizeTime(current.EndTime) {
		u.EndTime = &next.EndTime
	}
	if next.IsDefault != current.IsDefault {
		u.IsDefault = &next.IsDefault
	}
	return u
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder

	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")
	sb.WriteString(w.form.View())

	return sb.String()
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	// w.width is already the frame width, so the box stays one column inside it
	width := max(w.width-1, 60)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	title := "New preset"
	if w.current != nil {
		title = "Edit preset"
	}

	var steps []string
	for i, name := range stepNames {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case stepNum < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case stepNum == w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}
	stepsLine := strings.Join(steps, "    ")

	// "│  " + bar + " │"
	barWidth := width - 5
	filledWidth := (w.step * barWidth) / len(stepNames)
	emptyWidth := barWidth - filledWidth
	progressBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth)) +
		lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", emptyWidth))

	topFillWidth := max(0, width-5-lipgloss.Width(title))
	topBorder := "┌─ " + titleStyle.Render(title) + " " + strings.Repeat("─", topFillWidth) + "┐"

	stepsPadding := max(0, width-4-lipgloss.Width(stepsLine))
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"
	progressLinePadded := "│  " + progressBar + " │"
	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}

func offsetLabel(d int) string {
	switch d {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return fmt.Sprintf("In %d days", d)
	}
}

// clock trims "HH:MM:SS" to "HH:MM" for editing
func clock(s string) string {
	if t, err := time.Parse(models.TimeLayout, s); err == nil {
		return t.Format("15:04")
	}
	return s
}

func sorted(values []int) []int {
	out := slices.Clone(values)
	slices.Sort(out)
	return out
}

func validateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

func validateSpots(ids []int) error {
	if len(ids) == 0 {
		return fmt.Errorf("select at least one spot")
	}
	return nil
}

func validateDays(days []int) error {
	if len(days) == 0 {
		return fmt.Errorf("select at least one day")
	}
	return nil
}

func validateClock(s string) error {
	if _, err := time.Parse(models.TimeLayout, models.NormalizeTime(s)); err != nil {
		return fmt.Errorf("use HH:MM")
	}
	return nil
}

func validateWindow(start, end string) error {
	s, err := time.Parse(models.TimeLayout, models.NormalizeTime(start))
	if err != nil {
		return nil
	}
	e, err := time.Parse(models.TimeLayout, models.NormalizeTime(end))
	if err != nil {
		return nil
	}
	if !s.Before(e) {
		return fmt.Errorf("end must be after start")
	}
	return nil
}
