// ABOUTME: Authentication commands: login, signup, logout and whoami
// ABOUTME: Prompts for missing credentials with a huh form when attached to a terminal

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Bryanads/thecheck-frontend-app/internal/apierr"
	"github.com/Bryanads/thecheck-frontend-app/internal/app"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	authEmail    string
	authPassword string
	authName     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to TheCheck",
	Long: `Sign in with email and password. The session is saved in the config
directory so later commands stay signed in.

The password can come from --password, THECHECK_PASSWORD or an interactive prompt.`,
	Run: runCommand(func(ctx context.Context, w io.Writer) int {
		return runLogin(ctx, w, authEmail, authPassword)
	}),
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a TheCheck account",
	Run: runCommand(func(ctx context.Context, w io.Writer) int {
		return runSignup(ctx, w, authEmail, authPassword, authName)
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved session",
	Run:   runCommand(runLogout),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long: `Show the signed-in user and their profile.

Exit codes:
  0 - Signed in
  1 - Not signed in
  2 - Error`,
	Run: runCommand(runWhoami),
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email (or THECHECK_EMAIL)")
		c.Flags().StringVar(&authPassword, "password", "", "Account password (or THECHECK_PASSWORD)")
	}
	signupCmd.Flags().StringVar(&authName, "name", "", "Display name")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)
}

// credentials fills missing values from the environment, then from a prompt
func credentials(email, password string) (string, string, error) {
	if email == "" {
		email = os.Getenv("THECHECK_EMAIL")
	}
	if password == "" {
		password = os.Getenv("THECHECK_PASSWORD")
	}
	if email != "" && password != "" {
		return strings.TrimSpace(email), password, nil
	}
	if !isTerminal(os.Stdin) {
		return "", "", errors.New("--email and --password are required when not running in a terminal")
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&email).Validate(required("email")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password).Validate(required("password")),
		),
	).WithTheme(huh.ThemeBase())
	if err := form.Run(); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(email), password, nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// runLogin signs in and returns exit code
func runLogin(ctx context.Context, w io.Writer, email, password string) int {
	email, password, err := credentials(email, password)
	if err != nil {
		return printError(w, err)
	}

	return withApp(ctx, w, func(a *app.App) int {
		user, err := a.Sessions.SignIn(ctx, email, password)
		if err != nil {
			return printError(w, err)
		}
		if IsJSONOutput() {
			printJSON(w, map[string]any{"signed_in": true, "user": user})
			return exitOK
		}
		fmt.Fprintf(w, "Signed in as %s\n", user.Email)
		return exitOK
	})
}

// runSignup registers an account and returns exit code
func runSignup(ctx context.Context, w io.Writer, email, password, name string) int {
	email, password, err := credentials(email, password)
	if err != nil {
		return printError(w, err)
	}

	return withApp(ctx, w, func(a *app.App) int {
		res, err := a.Sessions.SignUp(ctx, email, password, strings.TrimSpace(name))
		if err != nil {
			return printError(w, err)
		}
		if IsJSONOutput() {
			printJSON(w, map[string]any{
				"confirmation_pending": res.ConfirmationPending,
				"user":                 res.User,
			})
			return exitOK
		}
		if res.ConfirmationPending {
			fmt.Fprintf(w, "Account created. Check %s for a confirmation link, then run \"thecheck login\".\n", email)
			return exitOK
		}
		fmt.Fprintf(w, "Account created. Signed in as %s\n", res.User.Email)
		return exitOK
	})
}

// runLogout signs out and returns exit code
func runLogout(ctx context.Context, w io.Writer) int {
	return withApp(ctx, w, func(a *app.App) int {
		user, signedIn := a.Sessions.User()
		if !signedIn {
			fmt.Fprintln(w, "Not signed in.")
			return exitOK
		}
		if err := a.Sessions.SignOut(ctx); err != nil {
			// Local state is already gone; only the remote revoke failed
			fmt.Fprintf(w, "Warning: %v\n", err)
		}
		fmt.Fprintf(w, "Signed out %s\n", user.Email)
		return exitOK
	})
}

// runWhoami shows the current user and returns exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	return withApp(ctx, w, func(a *app.App) int {
		user, ok := a.Sessions.User()
		if !ok {
			if IsJSONOutput() {
				printJSON(w, map[string]any{"signed_in": false})
			} else {
				fmt.Fprintln(w, "Not signed in. Run \"thecheck login\".")
			}
			return exitFailed
		}

		profile, err := a.Sessions.Profile(ctx)
		if err != nil && !apierr.IsNotFound(err) {
			return printError(w, err)
		}

		if IsJSONOutput() {
			printJSON(w, map[string]any{"signed_in": true, "user": user, "profile": profile})
			return exitOK
		}
		fmt.Fprintf(w, "Email: %s\nID:    %s\n", user.Email, user.ID)
		if profile != nil {
			fmt.Fprintln(w)
			fmt.Fprintln(w, formatProfileHuman(profile))
		}
		return exitOK
	})
}
