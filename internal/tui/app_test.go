// ABOUTME: Integration tests for TUI app
// ABOUTME: Drives messages through the root model against the fake backend

package tui

import (
	"strings"
	"testing"

	"github.com/Bryanads/thecheck-frontend-app/internal/apitest"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/Bryanads/thecheck-frontend-app/internal/session"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/forms"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/menu"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/presetwizard"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/spotpicker"
	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestScreenConstants(t *testing.T) {
	if ScreenLogin != 0 {
		t.Errorf("expected ScreenLogin to be 0, got %d", ScreenLogin)
	}
	if ScreenMenu != 1 {
		t.Errorf("expected ScreenMenu to be 1, got %d", ScreenMenu)
	}
	if ScreenPreferences != 9 {
		t.Errorf("expected ScreenPreferences to be 9, got %d", ScreenPreferences)
	}
}

func TestAppStartsOnLoginWithoutSession(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, false)

	if a.screen != ScreenLogin {
		t.Errorf("expected login screen, got %d", a.screen)
	}
	if a.login == nil {
		t.Error("expected login form to be initialized")
	}
	if a.Init() == nil {
		t.Error("expected Init to start the login form")
	}
}

func TestAppStartsOnMenuWithSession(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, true)

	if a.screen != ScreenMenu {
		t.Errorf("expected menu screen, got %d", a.screen)
	}
	if a.user.Email != testEmail {
		t.Errorf("expected user %s, got %s", testEmail, a.user.Email)
	}
	if !a.loading {
		t.Error("expected shared data to be loading")
	}
}

func TestLoginSuccess(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, false)

	msg := a.authenticate(forms.LoginSubmittedMsg{Email: testEmail, Password: testPassword})()
	a.Update(msg)

	if a.screen != ScreenMenu {
		t.Fatalf("expected menu after sign in, got %d", a.screen)
	}
	if a.user.Email != testEmail {
		t.Errorf("expected user %s, got %s", testEmail, a.user.Email)
	}
	if a.login != nil {
		t.Error("expected login form to be dropped")
	}
}

func TestLoginFailureStaysOnLogin(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, false)

	msg := a.authenticate(forms.LoginSubmittedMsg{Email: testEmail, Password: "wrong-password"})()
	a.Update(msg)

	if a.screen != ScreenLogin {
		t.Fatalf("expected login screen, got %d", a.screen)
	}
	if !strings.Contains(a.View(), "Error:") {
		t.Error("expected sign-in error to be shown")
	}
	if _, ok := h.core.Sessions.User(); ok {
		t.Error("expected no session after failed sign in")
	}
}

func TestSignUpPendingConfirmation(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, false)

	msg := a.authenticate(forms.LoginSubmittedMsg{
		Mode:     forms.ModeSignUp,
		Email:    "new@example.com",
		Password: "secret12",
		Name:     "New",
	})()
	a.Update(msg)

	if a.screen != ScreenLogin {
		t.Fatalf("expected to stay on login, got %d", a.screen)
	}
	if !strings.Contains(a.notice, "confirm new@example.com") {
		t.Errorf("expected confirmation notice, got %q", a.notice)
	}
}

func TestHomeLoaded(t *testing.T) {
	h := newHarness(t)
	h.srv.AddPreset(h.userID, models.NewPresetCreate("Dawn", []int{1}))
	a := h.newApp(t, true)

	h.home(t, a)

	if a.loading {
		t.Error("expected loading to finish")
	}
	if len(a.spots) != len(apitest.DefaultSpots()) {
		t.Errorf("expected %d spots, got %d", len(apitest.DefaultSpots()), len(a.spots))
	}
	if len(a.presets) != 1 || a.presets[0].Name != "Dawn" {
		t.Errorf("expected preset Dawn, got %+v", a.presets)
	}
	if a.profile == nil || a.profile.Name != "Ana" {
		t.Errorf("expected profile Ana, got %+v", a.profile)
	}
	if !strings.Contains(a.View(), "Dawn") {
		t.Error("expected presets listed beside the menu")
	}
}

func TestSessionEndedReturnsToLogin(t *testing.T) {
	tests := []struct {
		reason string
		notice string
	}{
		{session.ReasonSignOut, "Signed out."},
		{session.ReasonExpired, "Your session ended"},
		{session.ReasonRefreshRejects, "Your session ended"},
	}

	for _, tc := range tests {
		t.Run(tc.reason, func(t *testing.T) {
			h := newHarness(t)
			a := h.newApp(t, true)
			h.home(t, a)
			a.screen = ScreenPresets

			a.Update(sessionMsg{session.Transition{Event: session.EventSignedOut, Reason: tc.reason}})

			if a.screen != ScreenLogin {
				t.Fatalf("expected login screen, got %d", a.screen)
			}
			if !strings.HasPrefix(a.notice, tc.notice) {
				t.Errorf("expected notice %q, got %q", tc.notice, a.notice)
			}
			if a.presets != nil || a.profile != nil {
				t.Error("expected per-user data to be dropped")
			}
			if a.login == nil {
				t.Error("expected a login form")
			}
		})
	}
}

func TestLateResultsAfterSessionEndIgnored(t *testing.T) {
	h := newHarness(t)
	h.srv.AddPreset(h.userID, models.NewPresetCreate("Dawn", []int{1}))
	a := h.newApp(t, true)
	h.home(t, a)
	a.screen = ScreenPresets

	// Started while signed in, delivered after the session ended
	late := []tea.Cmd{
		a.loadPresets(true),
		a.loadRecommendations(a.presets[0], true),
		a.loadHome(),
	}

	cur, _ := h.core.Sessions.Current()
	if !h.core.Sessions.Expire(cur.AccessToken()) {
		t.Fatal("Expire() = false, want the session ended")
	}
	a.Update(sessionMsg{session.Transition{Event: session.EventSignedOut, Reason: session.ReasonExpired}})
	for _, cmd := range late {
		a.Update(cmd())
	}

	if a.screen != ScreenLogin {
		t.Fatalf("expected login screen, got %d", a.screen)
	}
	if !strings.HasPrefix(a.notice, "Your session ended") {
		t.Errorf("notice = %q, want the session-ended notice", a.notice)
	}
	if a.err != nil {
		t.Errorf("late error leaked onto the login screen: %v", a.err)
	}
	if a.presets != nil || a.recs != nil || a.profile != nil {
		t.Error("late results repopulated per-user data")
	}

	// A fresh sign-in does not revive results from the old session
	stale := presetsLoadedMsg{gen: a.generation(), presets: []models.Preset{{ID: 99, Name: "Ghost"}}}
	h.signIn(t)
	a.Update(stale)
	if a.presets != nil {
		t.Errorf("result from the previous session applied: %+v", a.presets)
	}
}

func TestSignOutFromMenu(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, true)

	_, cmd := a.Update(menu.SelectedMsg{Destination: menu.SignOut})
	if cmd == nil {
		t.Fatal("expected a sign-out command")
	}
	msg := cmd()
	if _, ok := msg.(signedOutMsg); !ok {
		t.Fatalf("expected signedOutMsg, got %T", msg)
	}
	if _, ok := h.core.Sessions.User(); ok {
		t.Error("expected session to be cleared")
	}
}

func TestMenuQuit(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, true)

	_, cmd := a.Update(menu.SelectedMsg{Destination: menu.Quit})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestRecommendationsForPreset(t *testing.T) {
	h := newHarness(t)
	p := h.srv.AddPreset(h.userID, models.NewPresetCreate("Dawn", []int{1, 2}))
	a := h.newApp(t, true)
	h.home(t, a)
	a.screen = ScreenRecommendations

	a.Update(a.loadRecommendations(p, false)())

	if a.err != nil {
		t.Fatalf("unexpected error: %v", a.err)
	}
	if len(a.recs) == 0 {
		t.Fatal("expected recommendations")
	}
	if a.recPreset.ID != p.ID {
		t.Errorf("expected active preset %d, got %d", p.ID, a.recPreset.ID)
	}
	if a.lastUpdate.IsZero() {
		t.Error("expected data age to be set")
	}
	if !strings.Contains(a.View(), "Best sessions: Dawn") {
		t.Error("expected recommendations title")
	}
}

func TestRecommendationsWithoutPresetsOpensPresets(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, true)
	h.home(t, a)

	a.Update(menu.SelectedMsg{Destination: menu.Recommendations})

	if a.screen != ScreenPresets {
		t.Errorf("expected presets screen, got %d", a.screen)
	}
}

func TestPresetNavigation(t *testing.T) {
	h := newHarness(t)
	h.srv.AddPreset(h.userID, models.NewPresetCreate("One", []int{1}))
	h.srv.AddPreset(h.userID, models.NewPresetCreate("Two", []int{2}))
	a := h.newApp(t, true)
	h.home(t, a)
	a.screen = ScreenPresets

	a.Update(key("down"))
	a.Update(key("down"))
	if a.presetCursor != 1 {
		t.Errorf("expected cursor to stop at 1, got %d", a.presetCursor)
	}
	a.Update(key("up"))
	a.Update(key("up"))
	if a.presetCursor != 0 {
		t.Errorf("expected cursor to stop at 0, got %d", a.presetCursor)
	}

	a.Update(key("e"))
	if a.screen != ScreenPresetWizard || a.wizard == nil || !a.wizard.Editing() {
		t.Error("expected edit wizard")
	}
	a.Update(presetwizard.CancelledMsg{})
	if a.screen != ScreenPresets || a.wizard != nil {
		t.Error("expected cancel to return to presets")
	}
}

func TestPresetWizardCreate(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, true)
	h.home(t, a)
	a.screen = ScreenPresetWizard

	create := models.NewPresetCreate("Dawn", []int{1})
	done := presetwizard.CompleteMsg{Create: &create}
	a.Update(done)
	if a.screen != ScreenPresets {
		t.Errorf("expected presets screen, got %d", a.screen)
	}

	a.Update(a.savePreset(done)())
	if a.err != nil {
		t.Fatalf("unexpected error: %v", a.err)
	}
	if a.notice != `Created "Dawn".` {
		t.Errorf("unexpected notice %q", a.notice)
	}

	a.Update(a.loadPresets(false)())
	if len(a.presets) != 1 {
		t.Errorf("expected 1 preset after create, got %d", len(a.presets))
	}
}

func TestPresetWizardEmptyUpdate(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, true)
	a.screen = ScreenPresetWizard

	_, cmd := a.Update(presetwizard.CompleteMsg{ID: 1, Update: &models.PresetUpdate{}})

	if cmd != nil {
		t.Error("expected no request for an empty update")
	}
	if a.notice != "Nothing changed." {
		t.Errorf("unexpected notice %q", a.notice)
	}
}

func TestDeleteAndDefaultPreset(t *testing.T) {
	h := newHarness(t)
	one := h.srv.AddPreset(h.userID, models.NewPresetCreate("One", []int{1}))
	two := h.srv.AddPreset(h.userID, models.NewPresetCreate("Two", []int{2}))
	a := h.newApp(t, true)
	h.home(t, a)

	a.Update(a.makeDefault(two)())
	a.Update(a.loadPresets(false)())
	if p, _ := models.DefaultPreset(a.presets); p.ID != two.ID {
		t.Errorf("expected %d to be default, got %d", two.ID, p.ID)
	}

	a.Update(a.deletePreset(one)())
	a.Update(a.loadPresets(false)())
	if len(a.presets) != 1 || a.presets[0].ID != two.ID {
		t.Errorf("expected only preset %d, got %+v", two.ID, a.presets)
	}
}

func TestForecastFlow(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, true)
	h.home(t, a)

	a.Update(menu.SelectedMsg{Destination: menu.Forecasts})
	if a.screen != ScreenSpotPicker || a.picker == nil {
		t.Fatalf("expected spot picker, got %d", a.screen)
	}

	spot := a.spots[0]
	a.Update(spotpicker.SpotSelectedMsg{Spot: spot})
	if a.screen != ScreenForecast {
		t.Fatalf("expected forecast screen, got %d", a.screen)
	}
	if ids, _ := a.recentSpots.Load(); len(ids) != 1 || ids[0] != spot.ID {
		t.Errorf("expected spot %d in recent spots, got %v", spot.ID, ids)
	}

	a.Update(a.loadForecast(spot, false)())
	if a.err != nil {
		t.Fatalf("unexpected error: %v", a.err)
	}
	if a.forecast == nil || len(a.forecast.Days) < 2 {
		t.Fatal("expected a multi-day forecast")
	}
	if a.preference == nil {
		t.Error("expected preferences to load with the forecast")
	}

	a.Update(key("right"))
	if a.forecastDay != 1 {
		t.Errorf("expected day 1, got %d", a.forecastDay)
	}
	a.Update(key("left"))
	a.Update(key("left"))
	if a.forecastDay != 0 {
		t.Errorf("expected day 0, got %d", a.forecastDay)
	}
	if !strings.Contains(a.View(), spot.Name) {
		t.Error("expected spot name in view")
	}
}

func TestStaleForecastIgnored(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, true)
	h.home(t, a)
	a.screen = ScreenForecast
	a.forecastSpot = a.spots[1]

	a.Update(forecastLoadedMsg{gen: a.generation(), spot: a.spots[0], forecast: &models.SpotForecast{SpotID: a.spots[0].ID}})

	if a.forecast != nil {
		t.Error("expected forecast for another spot to be dropped")
	}
}

func TestPreferencesFormSaves(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, true)
	h.home(t, a)
	spot := a.spots[0]
	a.forecastSpot = spot
	a.screen = ScreenForecast

	a.Update(key("p"))
	if a.screen != ScreenPreferences || a.form == nil {
		t.Fatalf("expected preferences form, got %d", a.screen)
	}

	maxWind := 6.0
	update := models.PreferenceUpdate{MaxWindSpeed: &maxWind}
	a.Update(a.savePreferences(spot.ID, update)())

	if a.screen != ScreenForecast {
		t.Errorf("expected forecast screen after save, got %d", a.screen)
	}
	if a.preference == nil || a.preference.MaxWindSpeed == nil || *a.preference.MaxWindSpeed != 6 {
		t.Errorf("expected saved max wind 6, got %+v", a.preference)
	}
	if a.notice != "Preferences saved." {
		t.Errorf("unexpected notice %q", a.notice)
	}
}

func TestProfileEditCancel(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, true)
	h.home(t, a)
	a.screen = ScreenProfile

	a.Update(key("e"))
	if a.screen != ScreenProfileForm || a.form == nil {
		t.Fatalf("expected profile form, got %d", a.screen)
	}

	a.Update(forms.CancelledMsg{})
	if a.screen != ScreenProfile || a.form != nil {
		t.Error("expected cancel to return to profile")
	}
}

func TestProfileSave(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, true)
	h.home(t, a)
	a.screen = ScreenProfileForm

	name := "Ana Maria"
	a.Update(a.saveProfile(models.ProfileUpdate{Name: &name})())

	if a.screen != ScreenProfile {
		t.Errorf("expected profile screen, got %d", a.screen)
	}
	if a.profile == nil || a.profile.Name != name {
		t.Errorf("expected name %q, got %+v", name, a.profile)
	}
	if !strings.Contains(a.View(), name) {
		t.Error("expected new name in view")
	}
}

func TestProfileSaveErrorReopensForm(t *testing.T) {
	h := newHarness(t)
	a := h.newApp(t, true)
	h.home(t, a)
	a.screen = ScreenProfileForm

	a.Update(savedMsg{gen: a.generation(), err: &models.ValidationError{Message: "bio is too long"}})

	if a.screen != ScreenProfileForm || a.form == nil {
		t.Fatal("expected to stay on the profile form")
	}
	if !strings.Contains(a.View(), "bio is too long") {
		t.Error("expected save error in form")
	}
}
