// ABOUTME: Per-spot preference form
// ABOUTME: Numbers are entered as text; blank leaves a value unchanged

package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// PreferencesSubmittedMsg carries the preference changes for one spot
type PreferencesSubmittedMsg struct {
	SpotID int
	Update models.PreferenceUpdate
}

type preferenceValues struct {
	minWave  string
	maxWave  string
	maxWind  string
	minWater string
	active   bool
}

// NewPreferences creates a form prefilled with current for spot
func NewPreferences(spot models.Spot, current models.Preference) *Form {
	v := &preferenceValues{
		minWave:  formatOpt(current.MinWaveHeight),
		maxWave:  formatOpt(current.MaxWaveHeight),
		maxWind:  formatOpt(current.MaxWindSpeed),
		minWater: formatOpt(current.MinWaterTemperature),
		active:   current.IsActive,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Minimum wave height (m)").Value(&v.minWave).Validate(validateNonNegative),
			huh.NewInput().Title("Maximum wave height (m)").Value(&v.maxWave).Validate(validateNonNegative),
			huh.NewInput().Title("Maximum wind speed (m/s)").Value(&v.maxWind).Validate(validateNonNegative),
			huh.NewInput().Title("Minimum water temperature (°C)").Value(&v.minWater).Validate(validateNumber),
			huh.NewConfirm().
				Title("Include this spot in recommendations?").
				Affirmative("Yes").
				Negative("No").
				Value(&v.active),
		),
	)

	return newForm("Preferences for "+spot.Name, form, func() tea.Msg {
		return PreferencesSubmittedMsg{SpotID: spot.ID, Update: v.update(current)}
	})
}

// update keeps only the values that changed from current
func (v *preferenceValues) update(current models.Preference) models.PreferenceUpdate {
	var u models.PreferenceUpdate
	u.MinWaveHeight = changed(v.minWave, current.MinWaveHeight)
	u.MaxWaveHeight = changed(v.maxWave, current.MaxWaveHeight)
	u.MaxWindSpeed = changed(v.maxWind, current.MaxWindSpeed)
	u.MinWaterTemperature = changed(v.minWater, current.MinWaterTemperature)
	if v.active != current.IsActive {
		active := v.active
		u.IsActive = &active
	}
	return u
}

func changed(s string, current *float64) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	if current != nil && *current == f {
		return nil
	}
	return &f
}

func formatOpt(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func validateNumber(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

func validateNonNegative(s string) error {
	if err := validateNumber(s); err != nil {
		return err
	}
	if f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64); f < 0 {
		return fmt.Errorf("cannot be negative")
	}
	return nil
}
