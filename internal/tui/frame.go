// ABOUTME: Header and footer frame drawn around every screen
// ABOUTME: The footer lists the screen's shortcuts and when its data was fetched

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Bryanads/thecheck-frontend-app/internal/tui/icons"
	"github.com/Bryanads/thecheck-frontend-app/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// frameWidth is the rendered frame width. It stays one column short of the
// terminal so it never wraps, and never drops below minTerminalWidth.
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

// contentHeight calculates the height available between header and footer
func (a *App) contentHeight() int {
	// Header, newline after header, newline before footer, footer
	return max(a.height-4, 0)
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("TheCheck"))

	rightText := ""
	if a.screen != ScreenLogin && a.user.Email != "" {
		name := a.user.Email
		if a.profile != nil && a.profile.Name != "" {
			name = a.profile.Name
		}
		rightText = " " + contextStyle.Render(icons.User.String()+" "+name) + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText)) // -4 for ╭─ and ─╮
	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"

	return borderStyle.Render(header)
}

// shortcuts returns the keyboard shortcuts for the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenLogin:
		return []string{"Tab Next", "Enter Submit", "Esc Quit"}
	case ScreenMenu:
		return []string{"↑↓ Navigate", "Enter Select"}
	case ScreenRecommendations:
		return []string{"Tab Preset", "r Refresh", "b Back", "q Quit"}
	case ScreenPresets:
		return []string{"n New", "e Edit", "d Delete", "s Default", "↵ Sessions", "b Back"}
	case ScreenPresetWizard:
		return []string{"Space Toggle", "Enter Confirm", "Esc Cancel"}
	case ScreenSpotPicker:
		return []string{"↑↓ Navigate", "Enter Select", "Esc Back"}
	case ScreenForecast:
		return []string{"←→ Day", "p Preferences", "s Spot", "r Refresh", "b Back"}
	case ScreenProfile:
		return []string{"e Edit", "b Back", "q Quit"}
	case ScreenProfileForm, ScreenPreferences:
		return []string{"Enter Confirm", "Esc Cancel"}
	}
	return nil
}

// showsUpdated reports whether the footer shows the data age on this screen
func (a *App) showsUpdated() bool {
	switch a.screen {
	case ScreenRecommendations, ScreenPresets, ScreenForecast:
		return !a.lastUpdate.IsZero()
	}
	return false
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()
	var styled []string
	for _, s := range shortcuts {
		if key, label, ok := strings.Cut(s, " "); ok {
			styled = append(styled, keyStyle.Render(key)+" "+labelStyle.Render(label))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ") + " "
	leftPlainText := " " + strings.Join(shortcuts, "  ") + " "

	rightText, rightPlainText := "", ""
	if a.showsUpdated() {
		elapsed := formatTimeSince(time.Since(a.lastUpdate))
		rightText = " " + statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = " Updated " + elapsed + " "
	}

	fillWidth := max(0, width-4-lipgloss.Width(leftPlainText)-lipgloss.Width(rightPlainText)) // -4 for ╰─ and ─╯
	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"

	return borderStyle.Render(footer)
}

// formatTimeSince formats an elapsed duration in human-readable form
func formatTimeSince(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}
