// ABOUTME: Sparkline widget renders a day of readings with block characters
// ABOUTME: Used for swell, wind and tide charts on the forecast screen

package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SparklineBlocks are the Unicode block characters for different heights
var SparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a compact trend visualization
// values: readings in time order
// width: number of characters to render (will sample/pad as needed)
// color: optional color for the sparkline
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sampled := sampleValues(values, width)
	lo, hi := bounds(sampled)

	result := make([]rune, len(sampled))
	for i, v := range sampled {
		result[i] = valueToBlock(v, lo, hi)
	}

	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(color)
	}
	return style.Render(string(result))
}

// SparklineWithThresholds renders a sparkline where each block is colored by
// the band its value falls in. Values at or above goodThreshold use goodColor,
// at or above fairThreshold use fairColor, the rest poorColor.
func SparklineWithThresholds(values []float64, width int, fairThreshold, goodThreshold float64, poorColor, fairColor, goodColor lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sampled := sampleValues(values, width)
	lo, hi := bounds(sampled)

	var b strings.Builder
	for _, v := range sampled {
		color := poorColor
		switch {
		case v >= goodThreshold:
			color = goodColor
		case v >= fairThreshold:
			color = fairColor
		}
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(valueToBlock(v, lo, hi))))
	}
	return b.String()
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// sampleValues resamples values to the target width. Short series are
// stretched so each reading covers a run of blocks.
func sampleValues(values []float64, width int) []float64 {
	if len(values) == width {
		return values
	}

	result := make([]float64, width)
	ratio := float64(len(values)) / float64(width)
	for i := range width {
		idx := min(int(float64(i)*ratio), len(values)-1)
		result[i] = values[idx]
	}
	return result
}

// valueToBlock converts a value to a block character based on its position in the range
func valueToBlock(value, lo, hi float64) rune {
	if hi == lo {
		return SparklineBlocks[len(SparklineBlocks)/2]
	}

	normalized := (value - lo) / (hi - lo)
	idx := int(normalized * float64(len(SparklineBlocks)-1))
	idx = max(0, min(idx, len(SparklineBlocks)-1))
	return SparklineBlocks[idx]
}
