// ABOUTME: Spot commands: list and search surf spots, show one spot
// ABOUTME: Spots are public and readable without signing in

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
)

var spotSearch string

var spotsCmd = &cobra.Command{
	Use:   "spots",
	Short: "List surf spots",
	Long: `List surf spots known to TheCheck.

Exit codes:
  0 - At least one spot listed
  1 - No spot matches --search
  2 - Error`,
	Run: runCommand(func(ctx context.Context, w io.Writer) int {
		return runSpots(ctx, w, spotSearch)
	}),
}

var spotShowCmd = &cobra.Command{
	Use:   "show <spot-id>",
	Short: "Show one surf spot",
	Args:  cobra.ExactArgs(1),
	Run: runWithArgs(func(ctx context.Context, w io.Writer, args []string) int {
		return runSpotShow(ctx, w, args[0])
	}),
}

func init() {
	spotsCmd.Flags().StringVarP(&spotSearch, "search", "s", "", "Filter by name, region or state")
	spotsCmd.AddCommand(spotShowCmd)
	rootCmd.AddCommand(spotsCmd)
}

// runSpots lists spots matching query and returns exit code
func runSpots(ctx context.Context, w io.Writer, query string) int {
	return withApp(ctx, w, func(a *app.App) int {
		spots, err := a.Client.Spots(ctx)
		if err != nil {
			return printError(w, err)
		}
		matched := models.FilterSpots(spots, query)

		if IsJSONOutput() {
			printJSON(w, matched)
		} else if len(matched) > 0 {
			fmt.Fprint(w, formatSpotsHuman(matched))
		}
		if len(matched) == 0 {
			if !IsJSONOutput() {
				fmt.Fprintf(w, "No spots match %q.\n", query)
			}
			return exitFailed
		}
		return exitOK
	})
}

// runSpotShow prints one spot and returns exit code
func runSpotShow(ctx context.Context, w io.Writer, arg string) int {
	id, err := parseID("spot", arg)
	if err != nil {
		return printError(w, err)
	}
	return withApp(ctx, w, func(a *app.App) int {
		s, err := a.Client.Spot(ctx, id)
		if err != nil {
			return printError(w, err)
		}
		if IsJSONOutput() {
			printJSON(w, s)
			return exitOK
		}
		fmt.Fprintln(w, formatSpotHuman(s))
		return exitOK
	})
}

// formatSpotsHuman formats spots as an aligned table
func formatSpotsHuman(spots []models.Spot) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPLACE")
	for _, s := range spots {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.ID, s.Name, orDash(s.Place()))
	}
	tw.Flush()
	return b.String()
}

// formatSpotHuman formats one spot for human readability
func formatSpotHuman(s *models.Spot) string {
	return fmt.Sprintf(`Spot:     %s (#%d)
Place:    %s
Position: %.4f, %.4f
Timezone: %s`, s.Name, s.ID, orDash(s.Place()), s.Latitude, s.Longitude, orDash(s.Timezone))
}
