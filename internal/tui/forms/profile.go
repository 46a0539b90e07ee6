// ABOUTME: Profile edit form
// ABOUTME: Submits only the fields that differ from the current profile

package forms

import (
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// ProfileSubmittedMsg carries the profile changes; Update may be empty
type ProfileSubmittedMsg struct {
	Update models.ProfileUpdate
}

// NewProfile creates a form prefilled with current
func NewProfile(current models.Profile) *Form {
	edited := current

	levels := []huh.Option[models.SurfLevel]{huh.NewOption("Not set", models.SurfLevel(""))}
	for _, l := range models.SurfLevels {
		levels = append(levels, huh.NewOption(l.Label(), l))
	}
	stances := []huh.Option[models.Stance]{huh.NewOption("Not set", models.Stance(""))}
	for _, s := range models.Stances {
		stances = append(stances, huh.NewOption(s.Label(), s))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&edited.Name).
				Validate(requiredField("name")),
			huh.NewInput().
				Title("Location").
				Placeholder("Home break or city").
				Value(&edited.Location),
			huh.NewText().
				Title("Bio").
				CharLimit(280).
				Lines(3).
				Value(&edited.Bio),
			huh.NewSelect[models.SurfLevel]().
				Title("Surf level").
				Options(levels...).
				Value(&edited.SurfLevel),
			huh.NewSelect[models.Stance]().
				Title("Stance").
				Options(stances...).
				Value(&edited.Stance),
		),
	)

	return newForm("Edit profile", form, func() tea.Msg {
		return ProfileSubmittedMsg{Update: current.Diff(edited)}
	})
}
