// ABOUTME: Preference commands: show and tune per-spot scoring preferences
// ABOUTME: Only the flags given on the command line are sent

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/Bryanads/thecheck-frontend-app/internal/app"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/spf13/cobra"
)

type preferenceInput struct {
	minWave  float64
	maxWave  float64
	maxWind  float64
	minWater float64
	active   bool

	changed func(name string) bool
}

var preferenceFlags preferenceInput

var preferencesCmd = &cobra.Command{
	Use:     "preferences <spot-id>",
	Aliases: []string{"prefs"},
	Short:   "Show your scoring preferences for a spot",
	Args:    cobra.ExactArgs(1),
	Run: runWithArgs(func(ctx context.Context, w io.Writer, args []string) int {
		return runPreferences(ctx, w, args[0])
	}),
}

var preferencesSetCmd = &cobra.Command{
	Use:   "set <spot-id>",
	Short: "Change your scoring preferences for a spot",
	Args:  cobra.ExactArgs(1),
	Example: `  thecheck preferences set 2 --min-wave 0.8 --max-wave 2.0
  thecheck preferences set 2 --active=false`,
	Run: func(cmd *cobra.Command, args []string) {
		preferenceFlags.changed = cmd.Flags().Changed
		runWithArgs(func(ctx context.Context, w io.Writer, args []string) int {
			return runPreferencesSet(ctx, w, args[0], preferenceFlags)
		})(cmd, args)
	},
}

func init() {
	f := preferencesSetCmd.Flags()
	f.Float64Var(&preferenceFlags.minWave, "min-wave", 0, "Minimum wave height, meters")
	f.Float64Var(&preferenceFlags.maxWave, "max-wave", 0, "Maximum wave height, meters")
	f.Float64Var(&preferenceFlags.maxWind, "max-wind", 0, "Maximum wind speed, m/s")
	f.Float64Var(&preferenceFlags.minWater, "min-water", 0, "Minimum water temperature, °C")
	f.BoolVar(&preferenceFlags.active, "active", true, "Include the spot in recommendations")

	preferencesCmd.AddCommand(preferencesSetCmd)
	rootCmd.AddCommand(preferencesCmd)
}

// update builds a partial update holding only the flags that were set
func (in preferenceInput) update() models.PreferenceUpdate {
	var u models.PreferenceUpdate
	set := func(name string) bool { return in.changed != nil && in.changed(name) }
	if set("min-wave") {
		v := in.minWave
		u.MinWaveHeight = &v
	}
	if set("max-wave") {
		v := in.maxWave
		u.MaxWaveHeight = &v
	}
	if set("max-wind") {
		v := in.maxWind
		u.MaxWindSpeed = &v
	}
	if set("min-water") {
		v := in.minWater
		u.MinWaterTemperature = &v
	}
	if set("active") {
		v := in.active
		u.IsActive = &v
	}
	return u
}

// runPreferences prints preferences for a spot and returns exit code
func runPreferences(ctx context.Context, w io.Writer, arg string) int {
	spotID, err := parseID("spot", arg)
	if err != nil {
		return printError(w, err)
	}
	return withApp(ctx, w, func(a *app.App) int {
		p, err := a.Client.Preferences(ctx, spotID)
		if err != nil {
			return printError(w, err)
		}
		if IsJSONOutput() {
			printJSON(w, p)
			return exitOK
		}
		fmt.Fprintln(w, formatPreferenceHuman(p))
		return exitOK
	})
}

// runPreferencesSet updates preferences for a spot and returns exit code
func runPreferencesSet(ctx context.Context, w io.Writer, arg string, in preferenceInput) int {
	spotID, err := parseID("spot", arg)
	if err != nil {
		return printError(w, err)
	}
	u := in.update()
	if u.Empty() {
		fmt.Fprintln(w, "Nothing to change.")
		return exitFailed
	}
	return withApp(ctx, w, func(a *app.App) int {
		p, err := a.Client.UpdatePreferences(ctx, spotID, u)
		if err != nil {
			return printError(w, err)
		}
		if IsJSONOutput() {
			printJSON(w, p)
			return exitOK
		}
		fmt.Fprintln(w, "Preferences updated.")
		fmt.Fprintln(w, formatPreferenceHuman(p))
		return exitOK
	})
}

// formatPreferenceHuman formats preferences for human readability
func formatPreferenceHuman(p *models.Preference) string {
	return fmt.Sprintf(`Spot:            #%d
Active:          %t
Wave height:     %s to %s
Max wind:        %s
Min water temp:  %s`, p.SpotID, p.IsActive,
		optFloat(p.MinWaveHeight, "m"), optFloat(p.MaxWaveHeight, "m"),
		optFloat(p.MaxWindSpeed, " m/s"), optFloat(p.MinWaterTemperature, "°C"))
}
