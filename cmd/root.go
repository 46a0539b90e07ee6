// ABOUTME: Root command for the thecheck CLI
// ABOUTME: Handles global flags and opens the application for subcommands

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Bryanads/thecheck-frontend-app/internal/app"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	configFile string
	jsonOutput bool

	// envFiles is handed to config loading; nil means ".env"
	envFiles []string
)

// Exit codes shared by every command
const (
	exitOK     = 0
	exitFailed = 1
	exitError  = 2
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "thecheck",
	Short: "Surf forecasts and spot recommendations in your terminal",
	Long: `thecheck is a command-line client for the TheCheck surf recommendation API.

Sign in once, save presets of spots, days and hours, and ask which session
scores best. Run "thecheck tui" for the interactive interface.

Environment Variables:
  THECHECK_API_URL             Backend API URL (default: http://localhost:8000)
  THECHECK_IDENTITY_URL        Identity server URL (falls back to SUPABASE_URL)
  THECHECK_IDENTITY_ANON_KEY   Identity public key (falls back to SUPABASE_ANON_KEY)
  THECHECK_CACHE               Cache backend: memory, sqlite or redis
  THECHECK_CONFIG_DIR          Where session, cache and logs live
  LOG_LEVEL                    debug, info, warn or error`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides THECHECK_API_URL)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: $XDG_CONFIG_HOME/thecheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// openApp builds the application from config plus global flags
func openApp(ctx context.Context, logToFile bool) (*app.App, error) {
	return app.Open(ctx, app.Options{
		ConfigFile: configFile,
		APIURL:     apiURL,
		LogToFile:  logToFile,
		EnvFiles:   envFiles,
	})
}

// withApp opens the application, runs fn and closes it, mapping a failed
// open to the error exit code
func withApp(ctx context.Context, w io.Writer, fn func(a *app.App) int) int {
	a, err := openApp(ctx, false)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer a.Close()
	return fn(a)
}

// runCommand wires a run function to signal handling and the process exit code
func runCommand(run func(ctx context.Context, w io.Writer) int) func(*cobra.Command, []string) {
	return runWithArgs(func(ctx context.Context, w io.Writer, _ []string) int {
		return run(ctx, w)
	})
}

// runWithArgs is runCommand for commands taking positional arguments
func runWithArgs(run func(ctx context.Context, w io.Writer, args []string) int) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := run(ctx, os.Stdout, args)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}

// printError reports err and returns the error exit code
func printError(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %s\n", describeError(err))
	return exitError
}
