// ABOUTME: Commands that talk to the session manager and API client
// ABOUTME: Every network call runs inside a tea.Cmd and reports back with a message

package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/Bryanads/thecheck-frontend-app/internal/client"
	"github.com/Bryanads/thecheck-frontend-app/internal/identity"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/Bryanads/thecheck-frontend-app/internal/session"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/forms"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/presetwizard"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
)

// sessionMsg carries a session transition into the event loop
type sessionMsg struct {
	session.Transition
}

// authMsg is sent when a sign in or sign up attempt finishes
type authMsg struct {
	email   string
	user    identity.User
	pending bool
	err     error
}

// Messages carrying gen were started under that session generation and
// are dropped once the session has changed.

// homeLoadedMsg is sent when the data every screen shares has loaded
type homeLoadedMsg struct {
	gen       uint64
	spots     []models.Spot
	presets   []models.Preset
	profile   *models.Profile
	fetchedAt time.Time
	err       error
}

type recsLoadedMsg struct {
	gen       uint64
	preset    models.Preset
	recs      []models.Recommendation
	fetchedAt time.Time
	err       error
}

type presetsLoadedMsg struct {
	gen       uint64
	presets   []models.Preset
	fetchedAt time.Time
	err       error
}

type presetSavedMsg struct {
	gen    uint64
	notice string
	err    error
}

type forecastLoadedMsg struct {
	gen        uint64
	spot       models.Spot
	forecast   *models.SpotForecast
	preference *models.Preference
	fetchedAt  time.Time
	err        error
}

// savedMsg is sent when a profile or preference form has been saved
type savedMsg struct {
	gen        uint64
	profile    *models.Profile
	preference *models.Preference
	err        error
}

type signedOutMsg struct {
	err error
}

// generation is the session generation new commands are stamped with
func (a *App) generation() uint64 {
	return a.core.Sessions.Generation()
}

// current reports whether a result stamped with gen belongs to the live session
func (a *App) current(gen uint64) bool {
	return gen == a.generation()
}

// stamp returns the generation a result message was started under
func stamp(msg tea.Msg) (uint64, bool) {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		return msg.gen, true
	case recsLoadedMsg:
		return msg.gen, true
	case presetsLoadedMsg:
		return msg.gen, true
	case presetSavedMsg:
		return msg.gen, true
	case forecastLoadedMsg:
		return msg.gen, true
	case savedMsg:
		return msg.gen, true
	}
	return 0, false
}

func readOpts(force bool) []client.ReadOption {
	if force {
		return []client.ReadOption{client.Force()}
	}
	return nil
}

// fetchedAt returns when key was last fetched, or now when it isn't cached
func (a *App) fetchedAt(key client.Key) time.Time {
	if st := a.core.Client.Status(a.ctx, key); !st.FetchedAt.IsZero() {
		return st.FetchedAt
	}
	return time.Now()
}

func (a *App) authenticate(msg forms.LoginSubmittedMsg) tea.Cmd {
	return func() tea.Msg {
		if msg.Mode == forms.ModeSignUp {
			res, err := a.core.Sessions.SignUp(a.ctx, msg.Email, msg.Password, msg.Name)
			return authMsg{email: msg.Email, user: res.User, pending: res.ConfirmationPending, err: err}
		}
		u, err := a.core.Sessions.SignIn(a.ctx, msg.Email, msg.Password)
		return authMsg{email: msg.Email, user: u, err: err}
	}
}

// loadHome loads spots, presets and profile in parallel
func (a *App) loadHome() tea.Cmd {
	gen := a.generation()
	return func() tea.Msg {
		msg := homeLoadedMsg{gen: gen}
		g, ctx := errgroup.WithContext(a.ctx)
		g.Go(func() error {
			spots, err := a.core.Client.Spots(ctx)
			msg.spots = spots
			return err
		})
		g.Go(func() error {
			presets, err := a.core.Client.Presets(ctx)
			msg.presets = presets
			return err
		})
		g.Go(func() error {
			profile, err := a.core.Sessions.Profile(ctx)
			if err != nil {
				// The profile screen shows what the session knows; a missing profile is not fatal
				a.core.Log.Debug("Profile unavailable", "error", err)
				return nil
			}
			msg.profile = profile
			return nil
		})
		msg.err = g.Wait()
		msg.fetchedAt = a.fetchedAt(client.PresetsKey())
		return msg
	}
}

func (a *App) loadPresets(force bool) tea.Cmd {
	gen := a.generation()
	return func() tea.Msg {
		presets, err := a.core.Client.Presets(a.ctx, readOpts(force)...)
		return presetsLoadedMsg{gen: gen, presets: presets, fetchedAt: a.fetchedAt(client.PresetsKey()), err: err}
	}
}

func (a *App) loadRecommendations(p models.Preset, force bool) tea.Cmd {
	gen := a.generation()
	return func() tea.Msg {
		req := p.RecommendationRequest(models.DefaultRecommendationLimit)
		recs, err := a.core.Client.Recommendations(a.ctx, req, readOpts(force)...)
		return recsLoadedMsg{
			gen:       gen,
			preset:    p,
			recs:      recs,
			fetchedAt: a.fetchedAt(client.RecommendationsKey(req)),
			err:       err,
		}
	}
}

// loadForecast loads the forecast and the user's preferences for spot in parallel
func (a *App) loadForecast(spot models.Spot, force bool) tea.Cmd {
	gen := a.generation()
	return func() tea.Msg {
		msg := forecastLoadedMsg{gen: gen, spot: spot}
		g, ctx := errgroup.WithContext(a.ctx)
		g.Go(func() error {
			f, err := a.core.Client.Forecast(ctx, spot.ID, readOpts(force)...)
			msg.forecast = f
			return err
		})
		g.Go(func() error {
			p, err := a.core.Client.Preferences(ctx, spot.ID, readOpts(force)...)
			if apierr.IsNotFound(err) {
				return nil
			}
			msg.preference = p
			return err
		})
		msg.err = g.Wait()
		msg.fetchedAt = a.fetchedAt(client.ForecastKey(spot.ID))
		return msg
	}
}

func (a *App) savePreset(msg presetwizard.CompleteMsg) tea.Cmd {
	gen := a.generation()
	return func() tea.Msg {
		if msg.Create != nil {
			p, err := a.core.Client.CreatePreset(a.ctx, *msg.Create)
			if err != nil {
				return presetSavedMsg{gen: gen, err: err}
			}
			return presetSavedMsg{gen: gen, notice: fmt.Sprintf("Created %q.", p.Name)}
		}
		p, err := a.core.Client.UpdatePreset(a.ctx, msg.ID, *msg.Update)
		if err != nil {
			return presetSavedMsg{gen: gen, err: err}
		}
		return presetSavedMsg{gen: gen, notice: fmt.Sprintf("Saved %q.", p.Name)}
	}
}

func (a *App) deletePreset(p models.Preset) tea.Cmd {
	gen := a.generation()
	return a.startLoading(func() tea.Msg {
		if err := a.core.Client.DeletePreset(a.ctx, p.ID); err != nil {
			return presetSavedMsg{gen: gen, err: err}
		}
		return presetSavedMsg{gen: gen, notice: fmt.Sprintf("Deleted %q.", p.Name)}
	})
}

func (a *App) makeDefault(p models.Preset) tea.Cmd {
	gen := a.generation()
	return a.startLoading(func() tea.Msg {
		if err := a.core.Client.MakeDefaultPreset(a.ctx, p.ID); err != nil {
			return presetSavedMsg{gen: gen, err: err}
		}
		return presetSavedMsg{gen: gen, notice: fmt.Sprintf("%q is now the default.", p.Name)}
	})
}

func (a *App) saveProfile(u models.ProfileUpdate) tea.Cmd {
	gen := a.generation()
	return func() tea.Msg {
		p, err := a.core.Client.UpdateProfile(a.ctx, u)
		return savedMsg{gen: gen, profile: p, err: err}
	}
}

func (a *App) savePreferences(spotID int, u models.PreferenceUpdate) tea.Cmd {
	gen := a.generation()
	return func() tea.Msg {
		p, err := a.core.Client.UpdatePreferences(a.ctx, spotID, u)
		return savedMsg{gen: gen, preference: p, err: err}
	}
}

// signOut ends the session; the session listener moves the app to the login screen
func (a *App) signOut() tea.Cmd {
	return func() tea.Msg {
		return signedOutMsg{err: a.core.Sessions.SignOut(a.ctx)}
	}
}

// describeError renders err for the status line
func describeError(err error) string {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, apierr.ErrNoSession):
		return "not signed in"
	case apierr.IsUnauthorized(err):
		return "invalid email or password"
	case errors.As(err, &verr):
		return verr.Message
	default:
		return err.Error()
	}
}
