package render

import (
	"io"
	"iter"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Target is an element of a page that is styled independently.
type Target int

const (
	TargetTitle Target = iota
	TargetDescription
	TargetExampleText
	TargetExampleCode
	TargetExampleVariable
	TargetCommandName

	numTargets
)

// String returns the configuration key of the target.
func (t Target) String() string {
	switch t {
	case TargetTitle:
		return "title"
	case TargetDescription:
		return "description"
	case TargetExampleText:
		return "example_text"
	case TargetExampleCode:
		return "example_code"
	case TargetExampleVariable:
		return "example_variable"
	case TargetCommandName:
		return "command_name"
	default:
		return "unknown"
	}
}

// Targets returns an iterator over every style target.
func Targets() iter.Seq[Target] {
	return func(yield func(Target) bool) {
		for t := range numTargets {
			if !yield(t) {
				return
			}
		}
	}
}

// Attributes describe how a target is displayed.
//
// Colors use lipgloss notation: an ANSI palette index "0" through "255" or a
// "#rrggbb" triple. An empty color leaves the terminal default.
type Attributes struct {
	Foreground string
	Background string
	Bold       bool
	Underline  bool
	Italic     bool
}

// Theme assigns attributes to targets. Targets without an entry are
// rendered unstyled.
type Theme map[Target]Attributes

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		TargetTitle:           {Foreground: "5", Bold: true},
		TargetDescription:     {},
		TargetExampleText:     {Foreground: "2"},
		TargetExampleCode:     {Foreground: "6"},
		TargetExampleVariable: {Foreground: "6", Underline: true},
		TargetCommandName:     {Foreground: "6", Bold: true},
	}
}

// Styles holds one lipgloss style per target.
type Styles [numTargets]lipgloss.Style

// NewStyles builds the styles of a theme for the given color profile.
// [termenv.Ascii] produces plain, unstyled text.
func NewStyles(theme Theme, profile termenv.Profile) Styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)

	var s Styles

	for t := range Targets() {
		a := theme[t]

		st := r.NewStyle().
			TabWidth(lipgloss.NoTabConversion).
			Bold(a.Bold).
			Underline(a.Underline).
			Italic(a.Italic)

		if a.Foreground != "" {
			st = st.Foreground(lipgloss.Color(a.Foreground))
		}

		if a.Background != "" {
			st = st.Background(lipgloss.Color(a.Background))
		}

		s[t] = st
	}

	return s
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles { return NewStyles(nil, termenv.Ascii) }

// Render applies the style of target t to s.
func (s *Styles) Render(t Target, str string) string {
	if str == "" {
		return ""
	}

	return s[t].Render(str)
}
