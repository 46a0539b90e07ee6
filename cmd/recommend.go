// ABOUTME: Recommend command: ranks spot/time slots for a preset or ad hoc query
// ABOUTME: Exits 1 when nothing scores, so scripts can branch on it

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/Bryanads/thecheck-frontend-app/internal/app"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/widgets"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// recommendInput holds the recommend flags
type recommendInput struct {
	presetID int
	presetInput
	limit   int
	minimum float64
}

var recommendFlags recommendInput

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Find the best time to surf",
	Long: `Rank spot and time slots by score.

With no flags the default preset is used. --preset picks another preset;
--spots builds an ad hoc query from --days/--weekdays/--start/--end.

Exit codes:
  0 - At least one recommendation at or above --min-score
  1 - No recommendations
  2 - Error`,
	Example: `  thecheck recommend
  thecheck recommend --preset 3
  thecheck recommend --spots 1,2 --days 0 --start 06:00 --end 10:00`,
	Run: func(cmd *cobra.Command, args []string) {
		recommendFlags.changed = cmd.Flags().Changed
		runCommand(func(ctx context.Context, w io.Writer) int {
			return runRecommend(ctx, w, recommendFlags)
		})(cmd, args)
	},
}

func init() {
	f := recommendCmd.Flags()
	f.IntVar(&recommendFlags.presetID, "preset", 0, "Preset id (default: your default preset)")
	addQueryFlags(f, &recommendFlags.presetInput)
	f.IntVar(&recommendFlags.limit, "limit", models.DefaultRecommendationLimit, "Maximum results")
	f.Float64Var(&recommendFlags.minimum, "min-score", 0, "Hide results scoring below this")
	recommendCmd.MarkFlagsMutuallyExclusive("preset", "spots")
	rootCmd.AddCommand(recommendCmd)
}

func addQueryFlags(f *pflag.FlagSet, in *presetInput) {
	f.IntSliceVar(&in.spots, "spots", nil, "Spot ids, comma separated")
	f.IntSliceVar(&in.days, "days", nil, "Day offsets from today (default 0,1)")
	f.IntSliceVar(&in.weekdays, "weekdays", nil, "Weekdays, 0 = Sunday")
	f.StringVar(&in.start, "start", "", "Window start, HH:MM")
	f.StringVar(&in.end, "end", "", "Window end, HH:MM")
}

// request resolves the flags into a recommendation request, loading presets when needed
func (in recommendInput) request(ctx context.Context, a *app.App) (models.RecommendationRequest, string, error) {
	if in.set("spots") {
		p, err := in.create()
		if err != nil {
			return models.RecommendationRequest{}, "", err
		}
		return models.Preset{
			SpotIDs:            p.SpotIDs,
			DaySelectionType:   p.DaySelectionType,
			DaySelectionValues: p.DaySelectionValues,
			StartTime:          p.StartTime,
			EndTime:            p.EndTime,
		}.RecommendationRequest(in.limit), "ad hoc query", nil
	}

	var preset *models.Preset
	var err error
	if in.presetID > 0 {
		preset, err = a.Client.Preset(ctx, in.presetID)
	} else {
		preset, err = a.Client.DefaultPreset(ctx)
	}
	if in.presetID == 0 && apierr.IsNotFound(err) {
		return models.RecommendationRequest{}, "", fmt.Errorf("no presets yet; create one with \"thecheck presets create\" or pass --spots")
	}
	if err != nil {
		return models.RecommendationRequest{}, "", err
	}
	return preset.RecommendationRequest(in.limit), fmt.Sprintf("preset %q", preset.Name), nil
}

// runRecommend prints ranked recommendations and returns exit code
func runRecommend(ctx context.Context, w io.Writer, in recommendInput) int {
	return withApp(ctx, w, func(a *app.App) int {
		req, source, err := in.request(ctx, a)
		if err != nil {
			return printError(w, err)
		}
		recs, err := a.Client.Recommendations(ctx, req)
		if err != nil {
			return printError(w, err)
		}
		recs = aboveScore(recs, in.minimum)

		if IsJSONOutput() {
			printJSON(w, recs)
		} else if len(recs) == 0 {
			fmt.Fprintf(w, "No recommendations for %s.\n", source)
		} else {
			fmt.Fprintf(w, "Best sessions for %s\n\n", source)
			fmt.Fprint(w, formatRecommendationsHuman(recs, time.Now()))
		}
		if len(recs) == 0 {
			return exitFailed
		}
		return exitOK
	})
}

func aboveScore(recs []models.Recommendation, minimum float64) []models.Recommendation {
	if minimum <= 0 {
		return recs
	}
	out := make([]models.Recommendation, 0, len(recs))
	for _, r := range recs {
		if r.OverallScore >= minimum {
			out = append(out, r)
		}
	}
	return out
}

// formatRecommendationsHuman renders recommendations as a ranked table
func formatRecommendationsHuman(recs []models.Recommendation, now time.Time) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSPOT\tWHEN\tSCORE\tWAVE\tWIND\tTIDE\t")
	gauge := widgets.DefaultGaugeConfig()
	for i, r := range recs {
		when := r.Timestamp.In(now.Location()).Format("Mon 02/01 15:04")
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.0f\t%.0f\t%.0f\t%.0f\t%s\n",
			i+1, r.SpotName, when, r.OverallScore,
			r.DetailedScores.Wave, r.DetailedScores.Wind, r.DetailedScores.Tide,
			widgets.CompactGauge(r.OverallScore, 10, gauge.ColorFor(r.OverallScore)))
	}
	tw.Flush()
	return b.String()
}
