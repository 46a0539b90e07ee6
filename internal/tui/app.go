// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, routes keyboard input and reacts to session changes

package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/app"
	"github.com/Bryanads/thecheck-frontend-app/internal/identity"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/Bryanads/thecheck-frontend-app/internal/session"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/forms"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/menu"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/presetwizard"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/recentspots"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/spotpicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenMenu
	ScreenRecommendations
	ScreenPresets
	ScreenPresetWizard
	ScreenSpotPicker
	ScreenForecast
	ScreenProfile
	ScreenProfileForm
	ScreenPreferences
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before using single-column layout
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

// App is the root model for the TUI
type App struct {
	ctx    context.Context
	core   *app.App
	screen Screen
	width  int
	height int

	err     error
	notice  string
	loading bool
	spin    spinner.Model

	user       identity.User
	profile    *models.Profile
	spots      []models.Spot
	presets    []models.Preset
	lastUpdate time.Time

	// Recommendations screen
	recPreset models.Preset
	recs      []models.Recommendation

	// Presets screen
	presetCursor int

	// Forecast screen
	forecastSpot models.Spot
	forecast     *models.SpotForecast
	forecastDay  int
	preference   *models.Preference

	// Child models
	login  *forms.Form
	menu   *menu.Menu
	wizard *presetwizard.Wizard
	picker *spotpicker.SpotPicker
	form   *forms.Form

	recentSpots *recentspots.RecentSpots
}

// New creates the TUI for core. A restored session opens on the menu.
func New(ctx context.Context, core *app.App) *App {
	a := &App{
		ctx:         ctx,
		core:        core,
		spin:        spinner.New(spinner.WithSpinner(spinner.Dot)),
		recentSpots: recentspots.New(core.Config.ConfigDir),
	}
	if u, ok := core.Sessions.User(); ok {
		a.user = u
		a.screen = ScreenMenu
		a.menu = menu.New(false)
		a.loading = true
	} else {
		a.screen = ScreenLogin
		a.login = forms.NewLogin("")
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenLogin {
		return a.login.Init()
	}
	return tea.Batch(a.menu.Init(), a.spin.Tick, a.loadHome())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if gen, ok := stamp(msg); ok && !a.current(gen) {
		a.core.Log.Debug("Dropping result from an earlier session", "type", fmt.Sprintf("%T", msg))
		return a, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Children render inside the frame, one column narrower than the terminal
		inner := tea.WindowSizeMsg{Width: a.frameWidth(), Height: a.contentHeight()}
		var cmds []tea.Cmd
		if a.wizard != nil {
			a.wizard.SetWidth(inner.Width)
			_, cmd := a.wizard.Update(inner)
			cmds = append(cmds, cmd)
		}
		if a.menu != nil {
			_, cmd := a.menu.Update(inner)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.routeKey(msg)

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case sessionMsg:
		return a.handleSession(msg.Transition)

	case forms.LoginSubmittedMsg:
		a.loading = true
		return a, tea.Batch(a.spin.Tick, a.authenticate(msg))

	case authMsg:
		return a.handleAuth(msg)

	case homeLoadedMsg:
		return a.handleHomeLoaded(msg)

	case menu.SelectedMsg:
		return a.handleMenuSelected(msg)

	case recsLoadedMsg:
		a.loading = false
		a.recPreset = msg.preset
		a.recs, a.err = msg.recs, msg.err
		a.lastUpdate = msg.fetchedAt
		return a, nil

	case presetsLoadedMsg:
		a.loading = false
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.presets = msg.presets
		a.lastUpdate = msg.fetchedAt
		a.presetCursor = min(a.presetCursor, max(len(a.presets)-1, 0))
		return a, nil

	case presetwizard.CompleteMsg:
		return a.handleWizardComplete(msg)

	case presetwizard.CancelledMsg:
		a.wizard = nil
		a.screen = ScreenPresets
		return a, nil

	case presetSavedMsg:
		return a.handlePresetSaved(msg)

	case spotpicker.SpotSelectedMsg:
		a.picker = nil
		if err := a.recentSpots.Add(msg.Spot.ID); err != nil {
			a.core.Log.Debug("Recent spots not saved", "error", err)
		}
		a.forecastSpot = msg.Spot
		a.forecast, a.preference = nil, nil
		a.forecastDay = 0
		a.screen = ScreenForecast
		return a, a.startLoading(a.loadForecast(msg.Spot, false))

	case spotpicker.CancelledMsg:
		a.picker = nil
		a.screen = ScreenMenu
		return a, nil

	case forecastLoadedMsg:
		a.loading = false
		if msg.spot.ID != a.forecastSpot.ID {
			return a, nil
		}
		a.forecast, a.preference, a.err = msg.forecast, msg.preference, msg.err
		a.lastUpdate = msg.fetchedAt
		if a.forecast != nil && a.forecastDay >= len(a.forecast.Days) {
			a.forecastDay = 0
		}
		return a, nil

	case forms.ProfileSubmittedMsg:
		if msg.Update.Empty() {
			a.form = nil
			a.screen = ScreenProfile
			return a, nil
		}
		return a, a.saveProfile(msg.Update)

	case forms.PreferencesSubmittedMsg:
		if msg.Update.Empty() {
			a.form = nil
			a.screen = ScreenForecast
			return a, nil
		}
		return a, a.savePreferences(msg.SpotID, msg.Update)

	case forms.CancelledMsg:
		return a.handleFormCancelled()

	case savedMsg:
		return a.handleSaved(msg)

	case signedOutMsg:
		if msg.err != nil {
			a.core.Log.Warn("Sign-out not revoked remotely", "error", msg.err)
		}
		return a, nil
	}

	// Forward everything else to the active child; huh forms need their internal messages
	return a.updateChild(msg)
}

func (a *App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenRecommendations:
		return a.updateRecommendations(msg)
	case ScreenPresets:
		return a.updatePresets(msg)
	case ScreenForecast:
		return a.updateForecast(msg)
	case ScreenProfile:
		return a.updateProfile(msg)
	}
	return a.updateChild(msg)
}

// updateChild forwards msg to the child model owning the current screen
func (a *App) updateChild(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLogin:
		if a.login != nil {
			_, cmd = a.login.Update(msg)
		}
	case ScreenMenu:
		if a.menu != nil {
			_, cmd = a.menu.Update(msg)
		}
	case ScreenPresetWizard:
		if a.wizard != nil {
			_, cmd = a.wizard.Update(msg)
		}
	case ScreenSpotPicker:
		if a.picker != nil {
			_, cmd = a.picker.Update(msg)
		}
	case ScreenProfileForm, ScreenPreferences:
		if a.form != nil {
			_, cmd = a.form.Update(msg)
		}
	}
	return a, cmd
}

func (a *App) handleSession(t session.Transition) (tea.Model, tea.Cmd) {
	switch t.Event {
	case session.EventSignedIn:
		a.user = t.User
	case session.EventSignedOut:
		if a.screen == ScreenLogin {
			return a, nil
		}
		notice := "Signed out."
		if t.Reason != session.ReasonSignOut {
			notice = "Your session ended. Sign in again to continue."
		}
		return a, a.toLogin(notice)
	}
	return a, nil
}

// toLogin drops every per-user view and shows the sign-in form
func (a *App) toLogin(notice string) tea.Cmd {
	email := a.user.Email
	*a = App{
		ctx:         a.ctx,
		core:        a.core,
		width:       a.width,
		height:      a.height,
		spin:        a.spin,
		recentSpots: a.recentSpots,
		spots:       a.spots,
		screen:      ScreenLogin,
		notice:      notice,
		login:       forms.NewLogin(email),
	}
	return a.login.Init()
}

func (a *App) handleAuth(msg authMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if msg.err != nil {
		a.login = forms.NewLogin(msg.email)
		a.login.SetError(describeError(msg.err))
		return a, a.login.Init()
	}
	if msg.pending {
		a.notice = "Check your inbox to confirm " + msg.email + ", then sign in."
		a.login = forms.NewLogin(msg.email)
		return a, a.login.Init()
	}

	a.user = msg.user
	a.notice = ""
	a.login = nil
	a.menu = menu.New(len(a.presets) > 0)
	a.screen = ScreenMenu
	return a, tea.Batch(a.menu.Init(), a.startLoading(a.loadHome()))
}

func (a *App) handleHomeLoaded(msg homeLoadedMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if msg.err != nil {
		a.err = msg.err
		return a, nil
	}
	a.err = nil
	a.spots, a.presets, a.profile = msg.spots, msg.presets, msg.profile
	a.lastUpdate = msg.fetchedAt
	if a.screen == ScreenMenu {
		a.menu = menu.New(len(a.presets) > 0)
		return a, a.menu.Init()
	}
	return a, nil
}

func (a *App) handleMenuSelected(msg menu.SelectedMsg) (tea.Model, tea.Cmd) {
	a.err, a.notice = nil, ""

	switch msg.Destination {
	case menu.Recommendations:
		p, ok := models.DefaultPreset(a.presets)
		if !ok {
			a.screen = ScreenPresets
			return a, nil
		}
		a.screen = ScreenRecommendations
		a.recs = nil
		return a, a.startLoading(a.loadRecommendations(p, false))

	case menu.Presets:
		a.screen = ScreenPresets
		return a, a.startLoading(a.loadPresets(false))

	case menu.Forecasts:
		return a, a.openSpotPicker()

	case menu.Profile:
		a.screen = ScreenProfile
		return a, nil

	case menu.SignOut:
		return a, a.signOut()

	case menu.Quit:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) openSpotPicker() tea.Cmd {
	ids, err := a.recentSpots.Load()
	if err != nil {
		a.core.Log.Debug("Recent spots unavailable", "error", err)
	}
	var recent []models.Spot
	for _, id := range ids {
		if s, ok := models.FindSpot(a.spots, id); ok {
			recent = append(recent, s)
		}
	}
	a.picker = spotpicker.New("Pick a spot", a.spots, recent)
	a.screen = ScreenSpotPicker
	return a.picker.Init()
}

func (a *App) updateRecommendations(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		return a, a.startLoading(a.loadRecommendations(a.recPreset, true))
	case "tab":
		if len(a.presets) < 2 {
			return a, nil
		}
		next := a.presets[(a.presetIndex(a.recPreset.ID)+1)%len(a.presets)]
		a.recs = nil
		return a, a.startLoading(a.loadRecommendations(next, false))
	case "b", "esc":
		a.screen = ScreenMenu
		a.err = nil
	}
	return a, nil
}

func (a *App) updatePresets(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.presetCursor > 0 {
			a.presetCursor--
		}
	case "down", "j":
		if a.presetCursor < len(a.presets)-1 {
			a.presetCursor++
		}
	case "n":
		return a, a.openWizard(nil)
	case "e":
		if p, ok := a.selectedPreset(); ok {
			return a, a.openWizard(&p)
		}
	case "d":
		if p, ok := a.selectedPreset(); ok {
			return a, a.deletePreset(p)
		}
	case "s":
		if p, ok := a.selectedPreset(); ok && !p.IsDefault {
			return a, a.makeDefault(p)
		}
	case "enter":
		if p, ok := a.selectedPreset(); ok {
			a.screen = ScreenRecommendations
			a.recs = nil
			return a, a.startLoading(a.loadRecommendations(p, false))
		}
	case "r":
		return a, a.startLoading(a.loadPresets(true))
	case "b", "esc":
		a.screen = ScreenMenu
		a.err, a.notice = nil, ""
		a.menu = menu.New(len(a.presets) > 0)
		return a, a.menu.Init()
	}
	return a, nil
}

func (a *App) updateForecast(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "left", "h":
		if a.forecastDay > 0 {
			a.forecastDay--
		}
	case "right", "l":
		if a.forecast != nil && a.forecastDay < len(a.forecast.Days)-1 {
			a.forecastDay++
		}
	case "r":
		return a, a.startLoading(a.loadForecast(a.forecastSpot, true))
	case "p":
		current := models.Preference{SpotID: a.forecastSpot.ID, IsActive: true}
		if a.preference != nil {
			current = *a.preference
		}
		a.form = forms.NewPreferences(a.forecastSpot, current)
		a.screen = ScreenPreferences
		return a, a.form.Init()
	case "s":
		return a, a.openSpotPicker()
	case "b", "esc":
		a.screen = ScreenMenu
		a.err, a.notice = nil, ""
	}
	return a, nil
}

func (a *App) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "e":
		if a.profile == nil {
			return a, nil
		}
		a.form = forms.NewProfile(*a.profile)
		a.screen = ScreenProfileForm
		return a, a.form.Init()
	case "b", "esc":
		a.screen = ScreenMenu
		a.notice = ""
	}
	return a, nil
}

func (a *App) openWizard(p *models.Preset) tea.Cmd {
	a.wizard = presetwizard.New(a.spots, p)
	a.wizard.SetWidth(a.frameWidth())
	a.screen = ScreenPresetWizard
	a.err, a.notice = nil, ""
	return a.wizard.Init()
}

func (a *App) handleWizardComplete(msg presetwizard.CompleteMsg) (tea.Model, tea.Cmd) {
	a.wizard = nil
	a.screen = ScreenPresets
	if msg.Update != nil && msg.Update.Empty() {
		a.notice = "Nothing changed."
		return a, nil
	}
	return a, a.startLoading(a.savePreset(msg))
}

func (a *App) handlePresetSaved(msg presetSavedMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if msg.err != nil {
		a.err = msg.err
		return a, nil
	}
	a.err = nil
	a.notice = msg.notice
	return a, a.startLoading(a.loadPresets(false))
}

func (a *App) handleFormCancelled() (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenLogin:
		return a, tea.Quit
	case ScreenProfileForm:
		a.screen = ScreenProfile
	case ScreenPreferences:
		a.screen = ScreenForecast
	}
	a.form = nil
	return a, nil
}

func (a *App) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// A failed save reopens the form with the error above it
		var cmd tea.Cmd
		switch a.screen {
		case ScreenProfileForm:
			if a.profile != nil {
				a.form = forms.NewProfile(*a.profile)
				cmd = a.form.Init()
			}
		case ScreenPreferences:
			current := models.Preference{SpotID: a.forecastSpot.ID, IsActive: true}
			if a.preference != nil {
				current = *a.preference
			}
			a.form = forms.NewPreferences(a.forecastSpot, current)
			cmd = a.form.Init()
		}
		if a.form != nil {
			a.form.SetError(describeError(msg.err))
		}
		return a, cmd
	}

	a.form = nil
	if msg.profile != nil {
		a.profile = msg.profile
		a.screen = ScreenProfile
		a.notice = "Profile saved."
	}
	if msg.preference != nil {
		a.preference = msg.preference
		a.screen = ScreenForecast
		a.notice = "Preferences saved."
	}
	return a, nil
}

func (a *App) startLoading(cmd tea.Cmd) tea.Cmd {
	a.loading = true
	return tea.Batch(a.spin.Tick, cmd)
}

func (a *App) selectedPreset() (models.Preset, bool) {
	if a.presetCursor < 0 || a.presetCursor >= len(a.presets) {
		return models.Preset{}, false
	}
	return a.presets[a.presetCursor], true
}

func (a *App) presetIndex(id int) int {
	for i, p := range a.presets {
		if p.ID == id {
			return i
		}
	}
	return 0
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled
func Run(ctx context.Context, core *app.App) error {
	p := tea.NewProgram(
		New(ctx, core),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Session calls only happen inside commands, so Send never waits on Update
	unsubscribe := core.Sessions.Subscribe(func(t session.Transition) {
		p.Send(sessionMsg{Transition: t})
	})
	defer unsubscribe()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
