// ABOUTME: Preset commands: list, create, update, delete and mark default
// ABOUTME: Payloads are validated locally before any request is sent

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Bryanads/thecheck-frontend-app/internal/app"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// presetInput holds the create/update flags
type presetInput struct {
	name      string
	spots     []int
	days      []int
	weekdays  []int
	start     string
	end       string
	isDefault bool
	dryRun    bool

	// changed reports whether a flag was set on the command line
	changed func(name string) bool
}

var presetFlags presetInput

var presetsCmd = &cobra.Command{
	Use:     "presets",
	Aliases: []string{"preset"},
	Short:   "List saved presets",
	Run:     runCommand(runPresets),
}

var presetCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Save a new preset",
	Long: `Save a preset of spots, days and a time window.

Days are offsets from today (0 = today) unless --weekdays is used
(0 = Sunday). Times accept HH:MM or HH:MM:SS.`,
	Example: `  thecheck presets create --name "Weekend" --spots 1,2 --weekdays 0,6 --start 06:00 --end 11:00`,
	Run: func(cmd *cobra.Command, args []string) {
		presetFlags.changed = cmd.Flags().Changed
		runCommand(func(ctx context.Context, w io.Writer) int {
			return runPresetCreate(ctx, w, presetFlags)
		})(cmd, args)
	},
}

var presetUpdateCmd = &cobra.Command{
	Use:   "update <preset-id>",
	Short: "Change fields of a preset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		presetFlags.changed = cmd.Flags().Changed
		runWithArgs(func(ctx context.Context, w io.Writer, args []string) int {
			return runPresetUpdate(ctx, w, args[0], presetFlags)
		})(cmd, args)
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete <preset-id>",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	Run: runWithArgs(func(ctx context.Context, w io.Writer, args []string) int {
		return runPresetDelete(ctx, w, args[0])
	}),
}

var presetDefaultCmd = &cobra.Command{
	Use:   "default <preset-id>",
	Short: "Make a preset the default",
	Args:  cobra.ExactArgs(1),
	Run: runWithArgs(func(ctx context.Context, w io.Writer, args []string) int {
		return runPresetDefault(ctx, w, args[0])
	}),
}

func init() {
	for _, c := range []*cobra.Command{presetCreateCmd, presetUpdateCmd} {
		addPresetFlags(c.Flags(), &presetFlags)
	}
	presetUpdateCmd.Flags().BoolVar(&presetFlags.dryRun, "dry-run", false, "Show the change without saving it")
	_ = presetCreateCmd.MarkFlagRequired("name")
	_ = presetCreateCmd.MarkFlagRequired("spots")

	presetsCmd.AddCommand(presetCreateCmd, presetUpdateCmd, presetDeleteCmd, presetDefaultCmd)
	rootCmd.AddCommand(presetsCmd)
}

func addPresetFlags(f *pflag.FlagSet, in *presetInput) {
	f.StringVar(&in.name, "name", "", "Preset name")
	f.IntSliceVar(&in.spots, "spots", nil, "Spot ids, comma separated")
	f.IntSliceVar(&in.days, "days", nil, "Day offsets from today (default 0,1)")
	f.IntSliceVar(&in.weekdays, "weekdays", nil, "Weekdays, 0 = Sunday")
	f.StringVar(&in.start, "start", "", "Window start, HH:MM (default 06:00)")
	f.StringVar(&in.end, "end", "", "Window end, HH:MM (default 18:00)")
	f.BoolVar(&in.isDefault, "default", false, "Mark as the default preset")
}

func (in presetInput) set(name string) bool {
	return in.changed != nil && in.changed(name)
}

// create builds the create payload from flags over the defaults
func (in presetInput) create() (models.PresetCreate, error) {
	p := models.NewPresetCreate(in.name, in.spots)
	if err := in.applyDays(&p.DaySelectionType, &p.DaySelectionValues); err != nil {
		return p, err
	}
	if in.set("start") {
		p.StartTime = in.start
	}
	if in.set("end") {
		p.EndTime = in.end
	}
	p.IsDefault = in.isDefault
	p.Normalize()
	return p, nil
}

// update builds a partial update holding only the flags that were set
func (in presetInput) update() (models.PresetUpdate, error) {
	var u models.PresetUpdate
	if in.set("name") {
		name := strings.TrimSpace(in.name)
		u.Name = &name
	}
	if in.set("spots") {
		u.SpotIDs = in.spots
	}
	if in.set("days") || in.set("weekdays") {
		var kind models.DaySelectionType
		var values []int
		if err := in.applyDays(&kind, &values); err != nil {
			return u, err
		}
		u.DaySelectionType = &kind
		u.DaySelectionValues = values
	}
	if in.set("start") {
		start := models.NormalizeTime(in.start)
		u.StartTime = &start
	}
	if in.set("end") {
		end := models.NormalizeTime(in.end)
		u.EndTime = &end
	}
	if in.set("default") {
		isDefault := in.isDefault
		u.IsDefault = &isDefault
	}
	return u, nil
}

func (in presetInput) applyDays(kind *models.DaySelectionType, values *[]int) error {
	switch {
	case in.set("days") && in.set("weekdays"):
		return fmt.Errorf("--days and --weekdays cannot be combined")
	case in.set("weekdays"):
		*kind, *values = models.DaysWeekdays, in.weekdays
	case in.set("days"):
		*kind, *values = models.DaysOffsets, in.days
	}
	return nil
}

// runPresets lists presets and returns exit code
func runPresets(ctx context.Context, w io.Writer) int {
	return withApp(ctx, w, func(a *app.App) int {
		presets, err := a.Client.Presets(ctx)
		if err != nil {
			return printError(w, err)
		}
		if IsJSONOutput() {
			printJSON(w, presets)
			return exitOK
		}
		if len(presets) == 0 {
			fmt.Fprintln(w, "No presets yet. Create one with \"thecheck presets create\".")
			return exitOK
		}
		spots, err := a.Client.Spots(ctx)
		if err != nil {
			a.Log.Debug("Spot names unavailable", "error", err)
		}
		fmt.Fprint(w, formatPresetsHuman(presets, spots))
		return exitOK
	})
}

// runPresetCreate saves a new preset and returns exit code
func runPresetCreate(ctx context.Context, w io.Writer, in presetInput) int {
	p, err := in.create()
	if err != nil {
		return printError(w, err)
	}
	return withApp(ctx, w, func(a *app.App) int {
		created, err := a.Client.CreatePreset(ctx, p)
		if err != nil {
			return printError(w, err)
		}
		if IsJSONOutput() {
			printJSON(w, created)
			return exitOK
		}
		fmt.Fprintf(w, "Created preset %q (#%d)\n", created.Name, created.ID)
		return exitOK
	})
}

// runPresetUpdate applies flag changes to a preset and returns exit code
func runPresetUpdate(ctx context.Context, w io.Writer, arg string, in presetInput) int {
	id, err := parseID("preset", arg)
	if err != nil {
		return printError(w, err)
	}
	u, err := in.update()
	if err != nil {
		return printError(w, err)
	}
	if u.Empty() {
		fmt.Fprintln(w, "Nothing to change.")
		return exitFailed
	}

	return withApp(ctx, w, func(a *app.App) int {
		if in.dryRun {
			current, err := a.Client.Preset(ctx, id)
			if err != nil {
				return printError(w, err)
			}
			if err := u.Validate(*current); err != nil {
				return printError(w, err)
			}
			next := current.Apply(u)
			if IsJSONOutput() {
				printJSON(w, map[string]any{"dry_run": true, "update": u, "preset": next})
				return exitOK
			}
			fmt.Fprintln(w, lineDiff(formatPresetHuman(*current, nil), formatPresetHuman(next, nil)))
			return exitOK
		}

		updated, err := a.Client.UpdatePreset(ctx, id, u)
		if err != nil {
			return printError(w, err)
		}
		if IsJSONOutput() {
			printJSON(w, updated)
			return exitOK
		}
		fmt.Fprintf(w, "Updated preset %q (#%d)\n", updated.Name, updated.ID)
		return exitOK
	})
}

// runPresetDelete removes a preset and returns exit code
func runPresetDelete(ctx context.Context, w io.Writer, arg string) int {
	id, err := parseID("preset", arg)
	if err != nil {
		return printError(w, err)
	}
	return withApp(ctx, w, func(a *app.App) int {
		if err := a.Client.DeletePreset(ctx, id); err != nil {
			return printError(w, err)
		}
		if IsJSONOutput() {
			printJSON(w, map[string]any{"deleted": id})
			return exitOK
		}
		fmt.Fprintf(w, "Deleted preset #%d\n", id)
		return exitOK
	})
}

// runPresetDefault marks a preset as the only default and returns exit code
func runPresetDefault(ctx context.Context, w io.Writer, arg string) int {
	id, err := parseID("preset", arg)
	if err != nil {
		return printError(w, err)
	}
	return withApp(ctx, w, func(a *app.App) int {
		if err := a.Client.MakeDefaultPreset(ctx, id); err != nil {
			return printError(w, err)
		}
		if IsJSONOutput() {
			printJSON(w, map[string]any{"default": id})
			return exitOK
		}
		fmt.Fprintf(w, "Preset #%d is now the default\n", id)
		return exitOK
	})
}

// formatPresetsHuman formats presets as an aligned table
func formatPresetsHuman(presets []models.Preset, spots []models.Spot) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSPOTS\tDAYS\tWINDOW\t")
	for _, p := range presets {
		name := p.Name
		if p.IsDefault {
			name += " *"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n", p.ID, name, spotList(p.SpotIDs, spots), p.DaysLabel(), p.WindowLabel())
	}
	tw.Flush()
	return b.String()
}

// formatPresetHuman formats one preset for human readability
func formatPresetHuman(p models.Preset, spots []models.Spot) string {
	return fmt.Sprintf(`Name:    %s
Spots:   %s
Days:    %s
Window:  %s
Default: %t`, p.Name, spotList(p.SpotIDs, spots), p.DaysLabel(), p.WindowLabel(), p.IsDefault)
}

func spotList(ids []int, spots []models.Spot) string {
	if len(spots) == 0 {
		return joinInts(ids)
	}
	return strings.Join(models.SpotNames(spots, ids), ", ")
}
