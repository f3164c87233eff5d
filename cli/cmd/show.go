package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/tldr/cache"
	"github.com/ardnew/tldr/log"
	"github.com/ardnew/tldr/page"
	"github.com/ardnew/tldr/pager"
	"github.com/ardnew/tldr/pkg"
	"github.com/ardnew/tldr/render"
)

// maxSuggestions bounds the "did you mean" hint of a missing page.
const maxSuggestions = 5

// Layout are the display flags of commands that render pages.
type Layout struct {
	Compact   bool `help:"Omit blank lines."                            negatable:""`
	ShowTitle bool `help:"Include the page title."                      negatable:""`
	Pager     bool `help:"Page output that does not fit the terminal." negatable:""`
}

// Show prints the page of a command.
type Show struct {
	Layout `embed:""`

	Command    []string `arg:""         help:"Command name; multiple words are joined with hyphens." name:"command"`
	Platform   []string `help:"Platforms to search, in order (linux, osx, windows, ..., current, all)." placeholder:"PLATFORM" short:"p"`
	Language   []string `help:"Languages to search, in order."                                         placeholder:"LANG"     short:"L"`
	Raw        bool     `help:"Print the page markdown without rendering."                             short:"r"`
	AutoUpdate bool     `default:"true" help:"Update a stale cache before searching."                negatable:""`
}

// Run executes the show command.
func (s *Show) Run(ctx context.Context, env *Env) error {
	store, err := env.Store()
	if err != nil {
		return err
	}

	var updateErr error
	if s.AutoUpdate {
		updateErr = env.autoUpdate(ctx, store)
	}

	q := page.Query{
		Command:   strings.Join(s.Command, " "),
		Platforms: env.Platforms(s.Platform),
		Languages: env.Languages(s.Language),
	}

	pg, err := env.Resolver(store).Resolve(ctx, q)
	if errors.Is(err, pkg.ErrPageNotFound) {
		return s.notFound(ctx, env, store, q, err, updateErr)
	}

	if err != nil {
		return err
	}

	log.DebugContext(ctx, "show page",
		slog.String("command", pg.Command),
		slog.String("platform", pg.Platform.String()),
		slog.String("language", pg.Language),
	)

	if s.Raw {
		return write(env.Stdout, pg.Text)
	}

	return s.show(ctx, env, pg.Command, pg.Text)
}

// notFound reports a missing page with the closest page names. A missing
// cache that could not be downloaded is reported as the update failure.
func (s *Show) notFound(
	ctx context.Context,
	env *Env,
	store *cache.Store,
	q page.Query,
	err, updateErr error,
) error {
	if !store.Exists() {
		if updateErr != nil {
			return updateErr
		}

		env.Warnf("The page cache is empty; run '%s update' to download pages.", pkg.Name)
	}

	platforms := make([]string, 0, len(page.Platforms()))
	for _, p := range page.Platforms() {
		platforms = append(platforms, p.String())
	}

	names, lerr := store.List(platforms, q.Languages)
	if lerr != nil {
		log.DebugContext(ctx, "list pages failed", slog.Any("error", lerr))
	}

	env.Warnf("No page found for %q.", page.NormalizeCommand(q.Command))

	if hint := page.Suggest(q.Command, names, maxSuggestions); len(hint) > 0 {
		env.Infof("Did you mean: %s?", joinList(hint))
	}

	nf := pkg.WrapError(err)
	if updateErr != nil {
		nf = nf.With(slog.String("update", updateErr.Error()))
	}

	return nf
}

// show renders text to stdout, through the pager if requested and needed.
func (l Layout) show(ctx context.Context, env *Env, title, text string) error {
	r := render.Renderer{
		Styles:    env.Styles(env.Stdout),
		Compact:   l.Compact,
		ShowTitle: l.ShowTitle,
	}

	var b strings.Builder
	if err := r.Render(&b, text); err != nil {
		return pkg.ErrIO.Wrap(err)
	}

	out := b.String()

	if l.Pager && isTerminal(env.Stdout) && !pager.Fits(out, terminalHeight(env.Stdout)) {
		if err := pager.Run(ctx, title, out, env.Stdin, env.Stdout); err != nil {
			return pkg.ErrIO.Wrap(err).With(slog.String("command", title))
		}

		return nil
	}

	return write(env.Stdout, out)
}

func write(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return pkg.ErrIO.Wrap(err)
	}

	return nil
}
