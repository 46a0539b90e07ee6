// ABOUTME: Tests for TUI forms
// ABOUTME: Validates field validation, submitted payloads and cancel handling

package forms

import (
	"testing"

	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	tea "github.com/charmbracelet/bubbletea"
)

func ptr[T any](v T) *T { return &v }

func TestEscCancelsOnce(t *testing.T) {
	f := NewLogin("")

	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a command on esc")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Errorf("expected CancelledMsg, got %T", cmd())
	}

	if _, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc}); cmd != nil {
		t.Error("expected a finished form to ignore input")
	}
}

func TestLoginSubmitTrimsInput(t *testing.T) {
	f := NewLogin("  ana@example.com ")

	msg, ok := f.submit().(LoginSubmittedMsg)
	if !ok {
		t.Fatalf("expected LoginSubmittedMsg, got %T", f.submit())
	}
	if msg.Email != "ana@example.com" {
		t.Errorf("expected trimmed email, got %q", msg.Email)
	}
	if msg.Mode != ModeSignIn {
		t.Errorf("expected sign in by default, got %d", msg.Mode)
	}
}

func TestLoginValidators(t *testing.T) {
	tests := []struct {
		name    string
		check   func(string) error
		input   string
		wantErr bool
	}{
		{"valid email", validateEmail, "ana@example.com", false},
		{"invalid email", validateEmail, "ana", true},
		{"short password", validatePassword, "12345", true},
		{"ok password", validatePassword, "123456", false},
		{"blank name", requiredField("name"), "  ", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.check(tc.input)
			if (err != nil) != tc.wantErr {
				t.Errorf("got error %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestProfileSubmitWithoutChangesIsEmpty(t *testing.T) {
	f := NewProfile(models.Profile{Name: "Ana", SurfLevel: models.SurfLevelBeginner})

	msg := f.submit().(ProfileSubmittedMsg)
	if !msg.Update.Empty() {
		t.Errorf("expected empty update, got %+v", msg.Update)
	}
}

func TestPreferenceUpdateKeepsOnlyChanges(t *testing.T) {
	current := models.Preference{SpotID: 2, MinWaveHeight: ptr(0.5), IsActive: true}
	v := &preferenceValues{
		minWave:  "0.5",
		maxWave:  "2",
		maxWind:  "",
		minWater: "abc",
		active:   false,
	}

	u := v.update(current)

	if u.MinWaveHeight != nil {
		t.Errorf("expected unchanged min wave to be omitted, got %v", *u.MinWaveHeight)
	}
	if u.MaxWaveHeight == nil || *u.MaxWaveHeight != 2 {
		t.Errorf("expected max wave 2, got %v", u.MaxWaveHeight)
	}
	if u.MaxWindSpeed != nil || u.MinWaterTemperature != nil {
		t.Error("expected blank and invalid values to be omitted")
	}
	if u.IsActive == nil || *u.IsActive {
		t.Errorf("expected active=false, got %v", u.IsActive)
	}
}

func TestPreferenceValidators(t *testing.T) {
	tests := []struct {
		input   string
		check   func(string) error
		wantErr bool
	}{
		{"", validateNonNegative, false},
		{"1.5", validateNonNegative, false},
		{"-1", validateNonNegative, true},
		{"-1", validateNumber, false},
		{"x", validateNumber, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			err := tc.check(tc.input)
			if (err != nil) != tc.wantErr {
				t.Errorf("got error %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewPreferencesPrefills(t *testing.T) {
	f := NewPreferences(models.Spot{ID: 2, Name: "Itacoatiara"}, models.Preference{SpotID: 2, MaxWindSpeed: ptr(8.0), IsActive: true})

	msg := f.submit().(PreferencesSubmittedMsg)
	if msg.SpotID != 2 {
		t.Errorf("expected spot 2, got %d", msg.SpotID)
	}
	if !msg.Update.Empty() {
		t.Errorf("expected no changes from prefilled values, got %+v", msg.Update)
	}
}
