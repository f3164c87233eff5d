// Package render formats help page markdown as styled terminal text.
//
// Rendering is a line classifier followed by a per-class styler, not a
// general markdown parser. [Classify] assigns each line a [Kind];
// [Tokenize] splits example code into literal code, "{{placeholders}}"
// and occurrences of the command name; a [Renderer] styles each piece with
// the [Styles] of its [Target] and indents it.
//
//	r := render.Renderer{Styles: render.NewStyles(render.DefaultTheme(), termenv.ANSI256)}
//	err := r.Render(os.Stdout, text)
//
// Rendering is deterministic: the same text and styles always produce the
// same bytes.
package render
