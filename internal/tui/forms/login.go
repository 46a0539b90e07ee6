// ABOUTME: Sign-in and sign-up form
// ABOUTME: The display name is only asked for when creating an account

package forms

import (
	"fmt"
	"net/mail"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// AuthMode selects between signing in and creating an account
type AuthMode int

const (
	ModeSignIn AuthMode = iota
	ModeSignUp
)

// LoginSubmittedMsg carries the credentials entered in the login form
type LoginSubmittedMsg struct {
	Mode     AuthMode
	Email    string
	Password string
	Name     string
}

type loginValues struct {
	mode     AuthMode
	email    string
	password string
	name     string
}

// NewLogin creates the login form, prefilling email
func NewLogin(email string) *Form {
	v := &loginValues{email: email}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[AuthMode]().
				Title("Welcome to TheCheck").
				Options(
					huh.NewOption("Sign in", ModeSignIn),
					huh.NewOption("Create an account", ModeSignUp),
				).
				Value(&v.mode),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&v.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&v.password).
				Validate(validatePassword),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Display name").
				Description("Shown on your profile").
				Value(&v.name).
				Validate(requiredField("display name")),
		).WithHideFunc(func() bool { return v.mode != ModeSignUp }),
	)

	return newForm("Sign in", form, func() tea.Msg {
		return LoginSubmittedMsg{
			Mode:     v.mode,
			Email:    strings.TrimSpace(v.email),
			Password: v.password,
			Name:     strings.TrimSpace(v.name),
		}
	})
}

func validateEmail(s string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("enter a valid email")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}

func requiredField(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
