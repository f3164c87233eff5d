package render

import (
	"io"
	"iter"
	"strings"
)

// Indentation of rendered lines.
const (
	TextIndent = "  "
	CodeIndent = "      "
)

// Renderer turns page text into styled terminal lines.
// It holds no state between calls and performs no I/O except in [Renderer.Render].
type Renderer struct {
	Styles    Styles
	Compact   bool // drop blank lines
	ShowTitle bool // include the title line
}

// Lines returns the styled output lines of a page, without terminators.
// Blank page lines and a final empty line are included unless Compact is
// set; lines of unknown role are omitted.
func (r Renderer) Lines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		var command string

		for line := range Classify(text) {
			var out string

			switch line.Kind {
			case Blank:
				if r.Compact {
					continue
				}

			case Title:
				command = line.Text
				if !r.ShowTitle {
					continue
				}

				out = TextIndent + r.Styles.Render(TargetTitle, line.Text)

			case Description:
				out = TextIndent + r.Styles.Render(TargetDescription, line.Text)

			case ExampleText:
				out = TextIndent + r.Styles.Render(TargetExampleText, line.Text)

			case ExampleCode:
				out = CodeIndent + r.code(line.Text, command)

			default:
				continue
			}

			if !yield(out) {
				return
			}
		}

		if !r.Compact {
			yield("")
		}
	}
}

// Render writes the styled lines of a page to w, each followed by a newline.
func (r Renderer) Render(w io.Writer, text string) error {
	var b strings.Builder

	for line := range r.Lines(text) {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func (r Renderer) code(text, command string) string {
	var b strings.Builder

	for seg := range Tokenize(text, command) {
		switch seg.Kind {
		case Placeholder:
			b.WriteString(r.Styles.Render(TargetExampleVariable, seg.Text))
		case Command:
			b.WriteString(r.Styles.Render(TargetCommandName, seg.Text))
		default:
			b.WriteString(r.Styles.Render(TargetExampleCode, seg.Text))
		}
	}

	return b.String()
}
