package render

import (
	"iter"
	"strings"
)

// Kind is the role of a page line.
type Kind int

const (
	Blank Kind = iota
	Title
	Description
	ExampleText
	ExampleCode
	Other
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Title:
		return "title"
	case Description:
		return "description"
	case ExampleText:
		return "example_text"
	case ExampleCode:
		return "example_code"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// Line is a classified page line with its marker removed.
type Line struct {
	Kind Kind
	Text string
}

// Classify returns the lines of a page with their roles.
//
// Pages normally mark every line: "#" title, ">" description, "-" example
// text and backtick-wrapped example code. A page whose second line is a
// setext "===" underline uses the alternative format instead: the first line
// is the title, ">" marks descriptions, indented lines are example code and
// any other text is example text.
func Classify(text string) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		lines := splitLines(text)
		setext := isSetext(lines)

		for i, s := range lines {
			var line Line

			switch {
			case setext && i == 0:
				line = Line{Kind: Title, Text: strings.TrimSpace(s)}
			case setext && i == 1:
				continue
			case setext:
				line = classifySetext(s)
			default:
				line = classifyMarked(s)
			}

			if !yield(line) {
				return
			}
		}
	}
}

// splitLines splits text into lines without terminators. A final line
// terminator does not start another line.
func splitLines(text string) []string {
	var lines []string

	for s := range strings.Lines(text) {
		lines = append(lines, strings.TrimRight(s, " \t\r\n"))
	}

	return lines
}

func isSetext(lines []string) bool {
	if len(lines) < 2 { //nolint:mnd
		return false
	}

	head, rule := strings.TrimSpace(lines[0]), strings.TrimSpace(lines[1])

	return head != "" && !strings.HasPrefix(head, "#") &&
		rule != "" && strings.Trim(rule, "=") == ""
}

func classifyMarked(s string) Line {
	s = strings.TrimSpace(s)

	switch {
	case s == "":
		return Line{Kind: Blank}
	case s[0] == '#':
		return Line{Kind: Title, Text: trimMarker(s, "#")}
	case s[0] == '>':
		return Line{Kind: Description, Text: trimMarker(s, ">")}
	case s[0] == '-':
		return Line{Kind: ExampleText, Text: trimMarker(s, "-")}
	case len(s) >= 2 && s[0] == '`' && s[len(s)-1] == '`':
		return Line{Kind: ExampleCode, Text: strings.TrimSpace(s[1 : len(s)-1])}
	default:
		return Line{Kind: Other, Text: s}
	}
}

func classifySetext(s string) Line {
	switch {
	case strings.TrimSpace(s) == "":
		return Line{Kind: Blank}
	case s[0] == ' ' || s[0] == '\t':
		return Line{Kind: ExampleCode, Text: strings.TrimSpace(s)}
	case s[0] == '#':
		return Line{Kind: Title, Text: trimMarker(s, "#")}
	case s[0] == '>':
		return Line{Kind: Description, Text: trimMarker(s, ">")}
	default:
		return Line{Kind: ExampleText, Text: s}
	}
}

// trimMarker removes every leading marker character and the space around it.
func trimMarker(s, marker string) string {
	return strings.TrimLeft(s, marker+" \t")
}
