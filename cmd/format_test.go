// ABOUTME: Tests for the human-readable output helpers
// ABOUTME: Covers line diffs, placeholders and table renderers

package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/models"
)

func TestLineDiff(t *testing.T) {
	before := "Name:  Ana\nLevel: Beginner\nStance: Regular"
	after := "Name:  Ana\nLevel: Advanced\nStance: Regular"

	got := lineDiff(before, after)
	for _, want := range []string{"  Name:  Ana", "- Level: Beginner", "+ Level: Advanced", "  Stance: Regular"} {
		if !strings.Contains(got, want) {
			t.Errorf("diff missing %q:\n%s", want, got)
		}
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("diff should not end with a newline")
	}
}

func TestLineDiff_Equal(t *testing.T) {
	if got := lineDiff("same\ntext", "same\ntext"); got != "" {
		t.Errorf("expected empty diff, got %q", got)
	}
}

func TestOrDash(t *testing.T) {
	tests := map[string]string{
		"":      "-",
		"   ":   "-",
		"Rio":   "Rio",
		" Rio ": " Rio ",
	}
	for in, want := range tests {
		if got := orDash(in); got != want {
			t.Errorf("orDash(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOptFloat(t *testing.T) {
	v := 1.25
	if got := optFloat(&v, "m"); got != "1.2m" && got != "1.3m" {
		t.Errorf("optFloat = %q, want one decimal with unit", got)
	}
	if got := optFloat(nil, "m"); got != "-" {
		t.Errorf("optFloat(nil) = %q, want -", got)
	}
}

func TestJoinInts(t *testing.T) {
	if got := joinInts([]int{1, 2, 3}); got != "1, 2, 3" {
		t.Errorf("joinInts = %q", got)
	}
	if got := joinInts(nil); got != "" {
		t.Errorf("joinInts(nil) = %q, want empty", got)
	}
}

func TestFormatSpotsHuman(t *testing.T) {
	spots := []models.Spot{
		{ID: 1, Name: "Arpoador", Region: "Rio de Janeiro", State: "RJ"},
		{ID: 12, Name: "Secret Reef"},
	}
	out := formatSpotsHuman(spots)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "PLACE") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "Arpoador") || !strings.Contains(lines[1], "Rio de Janeiro") {
		t.Errorf("unexpected row %q", lines[1])
	}
	if !strings.HasSuffix(strings.TrimSpace(lines[2]), "-") {
		t.Errorf("spot without a place should show a dash, got %q", lines[2])
	}
}

func TestFormatPresetsHuman(t *testing.T) {
	presets := []models.Preset{
		{ID: 1, Name: "Dawn", SpotIDs: []int{1, 2}, DaySelectionType: models.DaysOffsets,
			DaySelectionValues: []int{0, 1}, StartTime: "05:00:00", EndTime: "09:00:00", IsDefault: true},
		{ID: 2, Name: "Weekend", SpotIDs: []int{3}, DaySelectionType: models.DaysWeekdays,
			DaySelectionValues: []int{0, 6}, StartTime: "08:00:00", EndTime: "17:00:00"},
	}
	spots := []models.Spot{{ID: 1, Name: "Arpoador"}, {ID: 2, Name: "Itacoatiara"}, {ID: 3, Name: "Praia da Vila"}}

	out := formatPresetsHuman(presets, spots)
	for _, want := range []string{"Dawn *", "Arpoador, Itacoatiara", "Today, Tomorrow", "05:00-09:00", "Sun, Sat", "Praia da Vila"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Weekend *") {
		t.Error("only the default preset should be starred")
	}

	// Without spot names the ids are listed
	out = formatPresetsHuman(presets, nil)
	if !strings.Contains(out, "1, 2") {
		t.Errorf("expected spot ids without names:\n%s", out)
	}
}

func TestFormatRecommendationsHuman(t *testing.T) {
	now := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	recs := []models.Recommendation{
		{SpotName: "Arpoador", Timestamp: now.Add(time.Hour), OverallScore: 84,
			DetailedScores: models.DetailedScores{Wave: 84, Wind: 79, Tide: 60}},
		{SpotName: "Itacoatiara", Timestamp: now.Add(4 * time.Hour), OverallScore: 61.4},
	}
	out := formatRecommendationsHuman(recs, now)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "1") || !strings.Contains(lines[1], "Arpoador") || !strings.Contains(lines[1], "Sat 14/03 09:00") {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if !strings.Contains(lines[2], "61") {
		t.Errorf("score should be rounded, got %q", lines[2])
	}
}

func TestFormatForecastHuman(t *testing.T) {
	now := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	swell, wind := 1.2, 5.0
	f := &models.SpotForecast{
		SpotID: 7,
		Days: []models.DailyForecast{{
			Date: "2026-03-14",
			Hourly: []models.HourlyForecast{
				{Timestamp: now.Add(time.Hour), Conditions: models.Conditions{SwellHeight: &swell, WindSpeed: &wind}},
			},
		}},
	}
	out := formatForecastHuman(f, f.Days, now)
	for _, want := range []string{"Spot #7", "2026-03-14", "Swell", "HOUR", "09:00", "1.2m", "5.0 m/s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatProfileHuman(t *testing.T) {
	p := &models.Profile{Name: "Ana", Email: testEmail, SurfLevel: models.SurfLevel("avancado"), Stance: models.Stance("goofy")}
	out := formatProfileHuman(p)
	for _, want := range []string{"Name:       Ana", "Email:      " + testEmail, "Location:   -", "Bio:        -"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatPreferenceHuman(t *testing.T) {
	minWave := 0.8
	p := &models.Preference{SpotID: 3, IsActive: true, MinWaveHeight: &minWave}
	out := formatPreferenceHuman(p)
	for _, want := range []string{"#3", "Active:          true", "0.8m to -", "Max wind:        -"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
