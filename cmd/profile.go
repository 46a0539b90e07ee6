// ABOUTME: Profile commands: show the signed-in user's profile and edit it
// ABOUTME: Edits send only changed fields; --dry-run prints the diff instead

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/Bryanads/thecheck-frontend-app/internal/app"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/spf13/cobra"
)

// profileEdit holds the update flags; empty strings leave a field unchanged
type profileEdit struct {
	name      string
	location  string
	bio       string
	surfLevel string
	stance    string
	dryRun    bool
}

var profileFlags profileEdit

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your surf profile",
	Run:   runCommand(runProfileShow),
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change profile fields",
	Long: `Change one or more profile fields. Only fields that differ from the
current profile are sent.

Surf levels: iniciante, intermediario, avancado
Stances:     regular, goofy`,
	Run: runCommand(func(ctx context.Context, w io.Writer) int {
		return runProfileUpdate(ctx, w, profileFlags)
	}),
}

func init() {
	f := profileUpdateCmd.Flags()
	f.StringVar(&profileFlags.name, "name", "", "Display name")
	f.StringVar(&profileFlags.location, "location", "", "Home break or city")
	f.StringVar(&profileFlags.bio, "bio", "", "Short bio")
	f.StringVar(&profileFlags.surfLevel, "surf-level", "", "Surf level")
	f.StringVar(&profileFlags.stance, "stance", "", "Stance")
	f.BoolVar(&profileFlags.dryRun, "dry-run", false, "Show the change without saving it")

	profileCmd.AddCommand(profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}

// runProfileShow prints the profile and returns exit code
func runProfileShow(ctx context.Context, w io.Writer) int {
	return withApp(ctx, w, func(a *app.App) int {
		p, err := a.Client.Profile(ctx)
		if err != nil {
			return printError(w, err)
		}
		if IsJSONOutput() {
			printJSON(w, p)
			return exitOK
		}
		fmt.Fprintln(w, formatProfileHuman(p))
		return exitOK
	})
}

// runProfileUpdate applies the edit and returns exit code; exit 1 means nothing changed
func runProfileUpdate(ctx context.Context, w io.Writer, e profileEdit) int {
	return withApp(ctx, w, func(a *app.App) int {
		current, err := a.Client.Profile(ctx)
		if err != nil {
			return printError(w, err)
		}

		u := current.Diff(models.Profile{
			Name:      e.name,
			Location:  e.location,
			Bio:       e.bio,
			SurfLevel: models.SurfLevel(e.surfLevel),
			Stance:    models.Stance(e.stance),
		})
		if u.Empty() {
			fmt.Fprintln(w, "Nothing to change.")
			return exitFailed
		}
		if err := u.Validate(); err != nil {
			return printError(w, err)
		}

		if e.dryRun {
			next := current.Apply(u)
			if IsJSONOutput() {
				printJSON(w, map[string]any{"dry_run": true, "update": u, "profile": next})
				return exitOK
			}
			fmt.Fprintln(w, lineDiff(formatProfileHuman(current), formatProfileHuman(&next)))
			return exitOK
		}

		updated, err := a.Client.UpdateProfile(ctx, u)
		if err != nil {
			return printError(w, err)
		}
		if IsJSONOutput() {
			printJSON(w, updated)
			return exitOK
		}
		fmt.Fprintln(w, "Profile updated.")
		fmt.Fprintln(w, formatProfileHuman(updated))
		return exitOK
	})
}

// formatProfileHuman formats a profile for human readability
func formatProfileHuman(p *models.Profile) string {
	return fmt.Sprintf(`Name:       %s
Email:      %s
Location:   %s
Surf level: %s
Stance:     %s
Bio:        %s`, orDash(p.Name), orDash(p.Email), orDash(p.Location),
		p.SurfLevel.Label(), p.Stance.Label(), orDash(p.Bio))
}
