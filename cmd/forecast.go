// ABOUTME: Forecast command: per-day swell, wind and tide charts for a spot
// ABOUTME: Hourly readings are listed under each day's sparklines

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/app"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/styles"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/widgets"
	"github.com/spf13/cobra"
)

// sparkWidth is the chart width used per day
const sparkWidth = 24

var forecastDay int

var forecastCmd = &cobra.Command{
	Use:   "forecast <spot-id>",
	Short: "Show the forecast for a spot",
	Long: `Show swell, wind and tide for a spot, one block per day.

Use --day to show a single day (0 = the first day returned).`,
	Args: cobra.ExactArgs(1),
	Run: runWithArgs(func(ctx context.Context, w io.Writer, args []string) int {
		return runForecast(ctx, w, args[0], forecastDay)
	}),
}

func init() {
	forecastCmd.Flags().IntVar(&forecastDay, "day", -1, "Only show this day index")
	rootCmd.AddCommand(forecastCmd)
}

// runForecast prints a spot forecast and returns exit code
func runForecast(ctx context.Context, w io.Writer, arg string, day int) int {
	spotID, err := parseID("spot", arg)
	if err != nil {
		return printError(w, err)
	}
	return withApp(ctx, w, func(a *app.App) int {
		f, err := a.Client.Forecast(ctx, spotID)
		if err != nil {
			return printError(w, err)
		}

		days := f.Days
		if day >= 0 {
			if day >= len(days) {
				return printError(w, fmt.Errorf("day %d out of range: forecast has %d days", day, len(days)))
			}
			days = days[day : day+1]
		}
		if IsJSONOutput() {
			out := *f
			out.Days = days
			printJSON(w, out)
			return exitOK
		}
		if len(days) == 0 {
			fmt.Fprintln(w, "No forecast available.")
			return exitFailed
		}
		fmt.Fprint(w, formatForecastHuman(f, days, time.Now()))
		return exitOK
	})
}

// formatForecastHuman renders each day as three sparklines plus an hourly table
func formatForecastHuman(f *models.SpotForecast, days []models.DailyForecast, now time.Time) string {
	var b strings.Builder
	name := f.SpotName
	if name == "" {
		name = fmt.Sprintf("Spot #%d", f.SpotID)
	}
	fmt.Fprintf(&b, "%s\n", name)

	for _, d := range days {
		fmt.Fprintf(&b, "\n%s (%s)\n", d.Label(now), d.Date)
		fmt.Fprintf(&b, "  Swell %s\n", widgets.Sparkline(d.Series(models.SwellHeight), sparkWidth, styles.Primary))
		fmt.Fprintf(&b, "  Wind  %s\n", widgets.Sparkline(d.Series(models.WindSpeed), sparkWidth, styles.Muted))
		fmt.Fprintf(&b, "  Tide  %s\n", widgets.Sparkline(d.Series(models.SeaLevel), sparkWidth, styles.Sand))

		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  HOUR\tSWELL\tPERIOD\tWIND\tTIDE\tWATER\t")
		for _, h := range d.Hourly {
			c := h.Conditions
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\t\n",
				h.Timestamp.In(now.Location()).Format("15:04"),
				optFloat(c.SwellHeight, "m"), optFloat(c.SwellPeriod, "s"),
				optFloat(c.WindSpeed, " m/s"), optFloat(c.SeaLevel, "m"),
				optFloat(c.WaterTemperature, "°C"))
		}
		tw.Flush()
	}
	return b.String()
}
