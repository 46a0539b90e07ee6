// ABOUTME: Surf and screen icons with a plain Unicode fallback
// ABOUTME: Nerd Font glyphs are used only when the terminal is known to have them

package icons

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// nerdFontTerminals usually ship with a patched font configured
var nerdFontTerminals = []string{"iTerm.app", "alacritty", "WezTerm", "kitty", "ghostty"}

var nerdFonts = sync.OnceValue(func() bool { return nerdFontsFrom(os.Getenv) })

// nerdFontsFrom decides from the environment. THECHECK_NERD_FONTS wins when set.
func nerdFontsFrom(getenv func(string) string) bool {
	if v := getenv("THECHECK_NERD_FONTS"); v != "" {
		on, err := strconv.ParseBool(v)
		return err == nil && on
	}
	program, term := getenv("TERM_PROGRAM"), strings.ToLower(getenv("TERM"))
	for _, t := range nerdFontTerminals {
		if strings.Contains(program, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}
	return getenv("NERD_FONTS") == "1"
}

// HasNerdFonts reports whether Nerd Font glyphs will be rendered
func HasNerdFonts() bool {
	return nerdFonts()
}

// Icon pairs a Nerd Font glyph with a fallback every terminal can draw
type Icon struct {
	NerdFont string
	Fallback string
}

func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	App = Icon{"󰼸", "≋"}

	// Conditions
	Wave  = Icon{"󰼸", "≈"} // nf-md-waves
	Wind  = Icon{"", "~"} // nf-fa-wind
	Tide  = Icon{"󰖌", "↕"} // nf-md-wave
	Water = Icon{"", "°"} // nf-fa-temperature_half
	Spot  = Icon{"󰍎", "◉"} // nf-md-map_marker

	// Score and status
	CheckOK  = Icon{"", "✓"}
	Warning  = Icon{"", "⚠"}
	Critical = Icon{"", "✗"}
	Info     = Icon{"", "ℹ"}
	Star     = Icon{"󰓎", "★"}

	// Menu entries
	Chart   = Icon{"󰄭", "▁"}
	Preset  = Icon{"󰃀", "▤"}
	User    = Icon{"󰀄", "☺"}
	Sliders = Icon{"󰒓", "⚙"}
	Back    = Icon{"󰁍", "←"}
)
