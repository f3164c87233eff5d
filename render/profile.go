package render

import (
	"io"

	"github.com/muesli/termenv"
)

// ColorMode selects when output is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Profile returns the color profile to render with for output written to w.
//
// ColorAuto inspects w and the environment (TERM, NO_COLOR, CLICOLOR_FORCE)
// and yields [termenv.Ascii] when w is not a terminal. ColorAlways yields the
// richest profile the environment advertises, at least [termenv.ANSI].
func (m ColorMode) Profile(w io.Writer) termenv.Profile {
	switch m {
	case ColorNever:
		return termenv.Ascii
	case ColorAlways:
		p := termenv.NewOutput(w, termenv.WithUnsafe()).EnvColorProfile()
		if p == termenv.Ascii {
			p = termenv.ANSI
		}

		return p
	default:
		return termenv.NewOutput(w).EnvColorProfile()
	}
}
