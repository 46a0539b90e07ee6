// ABOUTME: Screen renderers for the TUI
// ABOUTME: Data panels on the left, actions or context on the right

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/icons"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/styles"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/widgets"
	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenMenu:
		content = a.viewMenu()
	case ScreenRecommendations:
		content = a.viewRecommendations()
	case ScreenPresets:
		content = a.viewPresets()
	case ScreenPresetWizard:
		if a.wizard != nil {
			content = a.wizard.View()
		}
	case ScreenSpotPicker:
		if a.picker != nil {
			content = a.picker.View()
		}
	case ScreenForecast:
		content = a.viewForecast()
	case ScreenProfile:
		content = a.viewProfile()
	case ScreenProfileForm, ScreenPreferences:
		if a.form != nil {
			content = a.form.View()
		}
	}

	return a.wrapWithFrame(content)
}

// leftWidth calculates the width for the main data pane
func (a *App) leftWidth() int {
	if a.width < minTerminalWidth {
		return a.frameWidth() - panelPadding
	}
	return (a.frameWidth()-panelPadding)*2/3 - 2
}

// rightWidth calculates the width for the side pane
func (a *App) rightWidth() int {
	return a.frameWidth() - a.leftWidth() - panelPadding*2
}

// status renders the notice, error or loading line shown above a screen
func (a *App) status() string {
	switch {
	case a.err != nil:
		return styles.StatusCritical.Render(icons.Critical.String()+" Error: "+describeError(a.err)) + "\n"
	case a.loading:
		return a.spin.View() + " Loading...\n"
	case a.notice != "":
		return styles.StatusOK.Render(icons.CheckOK.String()+" "+a.notice) + "\n"
	}
	return ""
}

func (a *App) viewLogin() string {
	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render(icons.Wave.String() + " Find the best time to surf"))
	sb.WriteString("\n\n")
	sb.WriteString(a.status())
	if a.login != nil && !a.loading {
		sb.WriteString(a.login.View())
	}
	return styles.Panel.Width(a.frameWidth() - panelPadding).Render(sb.String())
}

func (a *App) viewMenu() string {
	var sb strings.Builder
	greeting := "Welcome back"
	if a.profile != nil && a.profile.Name != "" {
		greeting += ", " + a.profile.Name
	}
	sb.WriteString(styles.Title.Render(greeting))
	sb.WriteString("\n\n")
	sb.WriteString(a.status())
	if a.menu != nil {
		sb.WriteString(a.menu.View())
	}
	left := styles.ActivePanel.Width(a.leftWidth()).Render(sb.String())

	var side strings.Builder
	side.WriteString(styles.Title.Render(icons.Preset.String() + " Presets"))
	side.WriteString("\n\n")
	if len(a.presets) == 0 {
		side.WriteString(styles.Help.Render("No presets yet"))
	}
	for _, p := range a.presets {
		line := p.Name
		if p.IsDefault {
			line += " " + icons.Star.String()
		}
		side.WriteString(line + "\n")
		side.WriteString(styles.Help.Render("  "+p.DaysLabel()+" "+p.WindowLabel()) + "\n")
	}
	right := styles.Panel.Width(a.rightWidth()).Render(side.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (a *App) viewRecommendations() string {
	var sb strings.Builder
	title := icons.Chart.String() + " Best sessions"
	if a.recPreset.Name != "" {
		title += ": " + a.recPreset.Name
	}
	sb.WriteString(styles.Title.Render(title))
	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render(a.recPreset.DaysLabel() + "  " + a.recPreset.WindowLabel()))
	sb.WriteString("\n\n")
	sb.WriteString(a.status())

	if !a.loading && a.err == nil {
		if len(a.recs) == 0 {
			sb.WriteString("No recommendations for this preset.")
		} else {
			sb.WriteString(renderRecommendations(a.recs, a.leftWidth()-panelPadding, time.Now()))
		}
	}
	left := styles.ActivePanel.Width(a.leftWidth()).Render(sb.String())

	var side strings.Builder
	side.WriteString(styles.Title.Render(icons.Preset.String() + " Presets"))
	side.WriteString("\n\n")
	for _, p := range a.presets {
		active := p.ID == a.recPreset.ID
		line := styles.Cursor(active) + p.Name
		if active {
			line = styles.Selected.Render(line)
		}
		side.WriteString(line + "\n")
	}
	if len(a.recs) > 0 {
		scores := make([]float64, len(a.recs))
		for i, r := range a.recs {
			scores[i] = r.OverallScore
		}
		g := widgets.DefaultGaugeConfig()
		side.WriteString("\n" + styles.Help.Render("Scores by rank") + "\n")
		side.WriteString(widgets.SparklineWithThresholds(scores, min(len(scores)*2, a.rightWidth()-panelPadding),
			g.FairThreshold, g.GoodThreshold, g.PoorColor, g.FairColor, g.GoodColor))
	}
	right := styles.Panel.Width(a.rightWidth()).Render(side.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// renderRecommendations lists ranked slots with a score gauge and factor breakdown
func renderRecommendations(recs []models.Recommendation, width int, now time.Time) string {
	g := widgets.DefaultGaugeConfig()
	g.Width = max(min(width-30, 30), 10)

	var sb strings.Builder
	for i, r := range recs {
		when := r.Timestamp.In(now.Location()).Format("Mon 02/01 15:04")
		sb.WriteString(fmt.Sprintf("%2d. %s  %s  %s\n", i+1,
			styles.ValueStyle.Render(r.SpotName), when, widgets.BandBadge(r.OverallScore)))
		sb.WriteString("    " + widgets.ScoreGaugeWithLabel(r.OverallScore, g) + "\n")
		d := r.DetailedScores
		sb.WriteString(styles.Help.Render(fmt.Sprintf("    %s wave %.0f  %s wind %.0f  %s tide %.0f",
			icons.Wave.String(), d.Wave, icons.Wind.String(), d.Wind, icons.Tide.String(), d.Tide)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (a *App) viewPresets() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Preset.String() + " Presets"))
	sb.WriteString("\n\n")
	sb.WriteString(a.status())

	if len(a.presets) == 0 && !a.loading {
		sb.WriteString("No presets yet. Press n to create one.")
	}
	for i, p := range a.presets {
		selected := i == a.presetCursor
		name := p.Name
		if p.IsDefault {
			name += " " + icons.Star.String()
		}
		line := styles.Cursor(selected) + name
		if selected {
			line = styles.Selected.Render(line)
		}
		sb.WriteString(line + "\n")
		sb.WriteString(styles.Help.Render(fmt.Sprintf("  %s  %s  %s",
			strings.Join(models.SpotNames(a.spots, p.SpotIDs), ", "), p.DaysLabel(), p.WindowLabel())))
		sb.WriteString("\n")
	}
	left := styles.ActivePanel.Width(a.leftWidth()).Render(sb.String())

	var side strings.Builder
	side.WriteString(styles.Title.Render(icons.Sliders.String() + " Actions"))
	side.WriteString("\n\n")
	side.WriteString("n  New preset\n")
	side.WriteString("e  Edit\n")
	side.WriteString("d  Delete\n")
	side.WriteString("s  Make default\n")
	side.WriteString("↵  Best sessions\n")
	side.WriteString(icons.Back.String() + " Back to menu\n")
	right := styles.Panel.Width(a.rightWidth()).Render(side.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (a *App) viewForecast() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Spot.String() + " " + a.forecastSpot.Name))
	if place := a.forecastSpot.Place(); place != "" {
		sb.WriteString("  " + styles.Help.Render(place))
	}
	sb.WriteString("\n\n")
	sb.WriteString(a.status())

	if a.forecast != nil && a.err == nil {
		if len(a.forecast.Days) == 0 {
			sb.WriteString("No forecast available.")
		} else {
			sb.WriteString(renderDay(a.forecast, a.forecastDay, a.leftWidth()-panelPadding-10, time.Now()))
		}
	}
	left := styles.ActivePanel.Width(a.leftWidth()).Render(sb.String())

	var side strings.Builder
	side.WriteString(styles.Title.Render(icons.Sliders.String() + " Your preferences"))
	side.WriteString("\n\n")
	side.WriteString(renderPreference(a.preference))
	right := styles.Panel.Width(a.rightWidth()).Render(side.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// renderDay draws one forecast day as labelled sparklines with the day range
func renderDay(f *models.SpotForecast, day, width int, now time.Time) string {
	d := f.Days[day]
	var sb strings.Builder

	tabs := make([]string, len(f.Days))
	for i, fd := range f.Days {
		label := fd.Label(now)
		if i == day {
			tabs[i] = styles.Selected.Render("[" + label + "]")
		} else {
			tabs[i] = styles.Help.Render(label)
		}
	}
	sb.WriteString(strings.Join(tabs, " ") + "\n\n")

	width = max(width, 12)
	rows := []struct {
		icon  icons.Icon
		name  string
		unit  string
		m     models.Metric
		color lipgloss.Color
	}{
		{icons.Wave, "Swell", "m", models.SwellHeight, styles.Primary},
		{icons.Wind, "Wind ", "m/s", models.WindSpeed, styles.Muted},
		{icons.Tide, "Tide ", "m", models.SeaLevel, styles.Sand},
	}
	for _, r := range rows {
		series := d.Series(r.m)
		sb.WriteString(fmt.Sprintf("%s %s %s  %s\n", r.icon.String(), r.name,
			widgets.Sparkline(series, width, r.color), styles.Help.Render(seriesRange(series, r.unit))))
	}

	if water := d.Series(models.WaterTemperature); len(water) > 0 {
		sb.WriteString(fmt.Sprintf("\n%s Water %s\n", icons.Water.String(), seriesRange(water, "°C")))
	}
	return sb.String()
}

func seriesRange(values []float64, unit string) string {
	if len(values) == 0 {
		return "no data"
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	return fmt.Sprintf("%.1f-%.1f %s", lo, hi, unit)
}

func renderPreference(p *models.Preference) string {
	if p == nil {
		return styles.Help.Render("Using defaults.\nPress p to tune them.")
	}
	opt := func(v *float64, unit string) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%.1f%s", *v, unit)
	}
	active := widgets.StatusText("active", widgets.StatusOK)
	if !p.IsActive {
		active = widgets.StatusText("paused", widgets.StatusWarning)
	}
	return strings.Join([]string{
		styles.KeyStyle.Render("Status") + "  " + active,
		styles.KeyStyle.Render("Waves ") + "  " + opt(p.MinWaveHeight, "m") + " to " + opt(p.MaxWaveHeight, "m"),
		styles.KeyStyle.Render("Wind  ") + "  up to " + opt(p.MaxWindSpeed, " m/s"),
		styles.KeyStyle.Render("Water ") + "  from " + opt(p.MinWaterTemperature, "°C"),
	}, "\n")
}

func (a *App) viewProfile() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.User.String() + " Profile"))
	sb.WriteString("\n\n")
	sb.WriteString(a.status())

	p := a.profile
	if p == nil {
		sb.WriteString(styles.Help.Render("Profile unavailable. Signed in as " + a.user.Email))
		return styles.ActivePanel.Width(a.frameWidth() - panelPadding).Render(sb.String())
	}

	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		sb.WriteString(styles.KeyStyle.Render(fmt.Sprintf("%-11s", label)) + styles.ValueStyle.Render(value) + "\n")
	}
	field("Name", p.Name)
	field("Email", p.Email)
	field("Location", p.Location)
	field("Surf level", p.SurfLevel.Label())
	field("Stance", p.Stance.Label())
	field("Bio", p.Bio)

	return styles.ActivePanel.Width(a.frameWidth() - panelPadding).Render(sb.String())
}
