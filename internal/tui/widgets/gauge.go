// ABOUTME: Score gauge with visual band zones
// ABOUTME: Shows poor/fair/good regions for 0-100 surf scores

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// GaugeConfig holds configuration for the score gauge
type GaugeConfig struct {
	Width         int
	FairThreshold float64 // Score where the fair zone starts (default 50)
	GoodThreshold float64 // Score where the good zone starts (default 75)
	PoorColor     lipgloss.Color
	FairColor     lipgloss.Color
	GoodColor     lipgloss.Color
	EmptyColor    lipgloss.Color
	ShowZones     bool // Show threshold markers in the empty part
}

// DefaultGaugeConfig returns the bands used for recommendation scores
func DefaultGaugeConfig() GaugeConfig {
	return GaugeConfig{
		Width:         20,
		FairThreshold: 50,
		GoodThreshold: 75,
		PoorColor:     lipgloss.Color("#EF4444"), // Red
		FairColor:     lipgloss.Color("#F59E0B"), // Amber
		GoodColor:     lipgloss.Color("#10B981"), // Green
		EmptyColor:    lipgloss.Color("#374151"), // Dark gray
		ShowZones:     true,
	}
}

// ColorFor returns the band color of a score
func (c GaugeConfig) ColorFor(score float64) lipgloss.Color {
	switch {
	case score >= c.GoodThreshold:
		return c.GoodColor
	case score >= c.FairThreshold:
		return c.FairColor
	default:
		return c.PoorColor
	}
}

// ScoreGauge renders a bar filled to score, colored by the band the score falls in
func ScoreGauge(score float64, config GaugeConfig) string {
	if config.Width <= 0 {
		config.Width = 20
	}
	score = max(0, min(score, 100))

	filled := min(int(score/100.0*float64(config.Width)), config.Width)
	fairPos := int(config.FairThreshold / 100.0 * float64(config.Width))
	goodPos := int(config.GoodThreshold / 100.0 * float64(config.Width))
	fill := lipgloss.NewStyle().Foreground(config.ColorFor(score))
	empty := lipgloss.NewStyle().Foreground(config.EmptyColor)

	var bar strings.Builder
	bar.WriteString("[")
	for i := range config.Width {
		switch {
		case i < filled:
			bar.WriteString(fill.Render("█"))
		case config.ShowZones && (i == fairPos || i == goodPos):
			bar.WriteString(empty.Render("│"))
		default:
			bar.WriteString(empty.Render("░"))
		}
	}
	bar.WriteString("]")
	return bar.String()
}

// ScoreGaugeWithLabel renders the gauge followed by the numeric score
func ScoreGaugeWithLabel(score float64, config GaugeConfig) string {
	label := lipgloss.NewStyle().Foreground(config.ColorFor(score)).Bold(true).Render(fmt.Sprintf("%3.0f", score))
	return ScoreGauge(score, config) + " " + label
}

// CompactGauge renders a minimal bar for tight spaces such as table cells
func CompactGauge(score float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		width = 10
	}
	score = max(0, min(score, 100))

	filled := int(score / 100.0 * float64(width))
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▓", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")).Render(strings.Repeat("░", width-filled))
}
