package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/tldr/pkg"
)

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Render renders a page file that is not in the cache.
type Render struct {
	Layout `embed:""`

	File string `arg:"" help:"Page file to render, or '-' for stdin." name:"file"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context, env *Env) error {
	var (
		text []byte
		err  error
	)

	title := strings.TrimSuffix(filepath.Base(r.File), filepath.Ext(r.File))

	if r.File == stdinSource {
		title = "stdin"
		text, err = io.ReadAll(env.Stdin)
	} else {
		text, err = os.ReadFile(r.File)
	}

	if err != nil {
		return pkg.ErrIO.Wrap(err).With(slog.String("file", r.File))
	}

	return r.show(ctx, env, title, string(text))
}
