package render

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Placeholder delimiters within example code.
const (
	placeholderOpen  = "{{"
	placeholderClose = "}}"
)

// SegmentKind is the role of a run of text within example code.
type SegmentKind int

const (
	Code        SegmentKind = iota // literal code
	Placeholder                    // user-supplied value, delimiters removed
	Command                        // the page's command name
)

// Segment is a run of example code text with a single role.
type Segment struct {
	Kind SegmentKind
	Text string
}

// Tokenize splits example code into segments. Text between a "{{" and the
// next "}}" is a placeholder; a "{{" without a closing "}}" and a "}}"
// without an opening "{{" are kept as literal code. Within literal code,
// every occurrence of command bounded by white space or the ends of the
// line is a Command segment. Empty segments are never produced.
func Tokenize(code, command string) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		rest := code

		for rest != "" {
			open := strings.Index(rest, placeholderOpen)
			if open < 0 {
				break
			}

			size := strings.Index(rest[open+len(placeholderOpen):], placeholderClose)
			if size < 0 {
				break
			}

			if !literal(rest[:open], command, yield) {
				return
			}

			start := open + len(placeholderOpen)
			if v := rest[start : start+size]; v != "" {
				if !yield(Segment{Kind: Placeholder, Text: v}) {
					return
				}
			}

			rest = rest[start+size+len(placeholderClose):]
		}

		literal(rest, command, yield)
	}
}

// literal yields s as Code segments, separating free-standing occurrences of
// command as Command segments. It reports whether yield wants more.
func literal(s, command string, yield func(Segment) bool) bool {
	if command == "" {
		return s == "" || yield(Segment{Kind: Code, Text: s})
	}

	from := 0

	for {
		i := strings.Index(s[from:], command)
		if i < 0 {
			break
		}

		i += from
		end := i + len(command)

		if !freeStanding(s, i, end) {
			_, size := utf8.DecodeRuneInString(s[i:])
			from = i + size

			continue
		}

		if i > 0 && !yield(Segment{Kind: Code, Text: s[:i]}) {
			return false
		}

		if !yield(Segment{Kind: Command, Text: command}) {
			return false
		}

		s, from = s[end:], 0
	}

	return s == "" || yield(Segment{Kind: Code, Text: s})
}

// freeStanding reports whether s[start:end] is preceded and followed by white
// space or the bounds of s.
func freeStanding(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); !unicode.IsSpace(r) {
			return false
		}
	}

	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); !unicode.IsSpace(r) {
			return false
		}
	}

	return true
}
