// ABOUTME: TUI command launches the interactive terminal interface
// ABOUTME: Logs go to debug.log in the config dir so they don't corrupt the screen

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Bryanads/thecheck-frontend-app/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive interface",
	Long: `Launch the interactive terminal interface: recommendations, presets,
forecasts, profile and spot preferences.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
		defer cancel()

		a, err := openApp(ctx, true)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitError)
		}
		defer a.Close()

		return tui.Run(ctx, a)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
