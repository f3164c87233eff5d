package page

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ardnew/tldr/log"
	"github.com/ardnew/tldr/pkg"
)

// File name suffixes of user customizations in the custom pages directory.
const (
	OverrideSuffix = ".page.md"
	PatchSuffix    = ".patch.md"
)

// Locator finds cached pages. A miss is reported with ok false and is not an
// error.
type Locator interface {
	Locate(command, platform, language string) (path string, ok bool)
}

// Query identifies the page to resolve and the order of preference.
type Query struct {
	Command   string
	Platforms []string // names accepted by [ExpandPlatforms]
	Languages []string // tags, [DefaultLanguage] is implied
}

// Page is the result of a successful resolution.
type Page struct {
	Command string
	Text    string

	// Platform and Language of the cache hit; empty if no cached page
	// contributed.
	Platform Platform
	Language string

	// Paths of the files that contributed to Text; empty if unused.
	Cached   string
	Override string
	Patch    string
}

// Files returns the paths of every file that contributed to the page, in
// the order they were applied.
func (p *Page) Files() []string {
	var files []string

	for _, f := range []string{p.Cached, p.Override, p.Patch} {
		if f != "" {
			files = append(files, f)
		}
	}

	return files
}

// Resolver selects the single best page for a command across platforms and
// languages, and applies user customizations on top of it.
type Resolver struct {
	Store     Locator // may be nil to consult only CustomDir
	CustomDir string  // may be empty to disable customizations
}

// NormalizeCommand joins the words of a command name the way page files are
// named: lowercase, with every run of white space replaced by a hyphen.
func NormalizeCommand(words ...string) string {
	return strings.Join(strings.FieldsFunc(
		strings.ToLower(strings.Join(words, " ")),
		unicode.IsSpace,
	), "-")
}

// Resolve returns the page for q.
//
// Platforms are searched in order, and within each platform the languages
// in order; the first cached page found wins, so platform preference
// outranks language preference. A custom override replaces that page, and
// a custom patch is appended after a blank line; a patch on its own is the
// whole page. If no file matches, the result is [pkg.ErrPageNotFound].
func (r Resolver) Resolve(ctx context.Context, q Query) (*Page, error) {
	command := NormalizeCommand(q.Command)
	if command == "" || !filepath.IsLocal(command) || strings.ContainsAny(command, `/\`) {
		return nil, pkg.ErrConfig.With(
			slog.String("field", "command"),
			slog.String("value", q.Command),
		)
	}

	platforms, err := ExpandPlatforms(q.Platforms)
	if err != nil {
		return nil, err
	}

	languages := ExpandLanguages(q.Languages)

	pg := &Page{Command: command}

	if err := r.search(ctx, pg, platforms, languages); err != nil {
		return nil, err
	}

	if err := r.customize(pg); err != nil {
		return nil, err
	}

	if pg.Cached == "" && pg.Override == "" && pg.Patch == "" {
		return nil, pkg.ErrPageNotFound.With(
			slog.String("command", command),
			slog.Any("platforms", platforms),
			slog.Any("languages", languages),
		)
	}

	log.DebugContext(ctx, "resolved page",
		slog.String("command", command),
		slog.Any("files", pg.Files()),
	)

	return pg, nil
}

func (r Resolver) search(
	ctx context.Context,
	pg *Page,
	platforms []Platform,
	languages []string,
) error {
	if r.Store == nil {
		return nil
	}

	for _, platform := range platforms {
		for _, language := range languages {
			if err := ctx.Err(); err != nil {
				return err
			}

			path, ok := r.Store.Locate(pg.Command, string(platform), language)

			log.TraceContext(ctx, "locate",
				slog.String("platform", string(platform)),
				slog.String("language", language),
				slog.Bool("found", ok),
			)

			if !ok {
				continue
			}

			b, err := os.ReadFile(path)
			if err != nil {
				return pkg.ErrIO.Wrap(err).With(slog.String("path", path))
			}

			pg.Text = string(b)
			pg.Cached = path
			pg.Platform = platform
			pg.Language = language

			return nil
		}
	}

	return nil
}

func (r Resolver) customize(pg *Page) error {
	if r.CustomDir == "" {
		return nil
	}

	name := filepath.Join(r.CustomDir, pg.Command+OverrideSuffix)

	text, ok, err := readOptional(name)
	if err != nil {
		return err
	}

	if ok {
		pg.Text = text
		pg.Override = name
	}

	name = filepath.Join(r.CustomDir, pg.Command+PatchSuffix)

	patch, ok, err := readOptional(name)
	if err != nil {
		return err
	}

	if ok {
		pg.Patch = name
		if pg.Cached == "" && pg.Override == "" {
			pg.Text = patch
		} else {
			pg.Text = strings.TrimRight(pg.Text, "\n") + "\n\n" + patch
		}
	}

	return nil
}

func readOptional(name string) (string, bool, error) {
	b, err := os.ReadFile(name)

	switch {
	case err == nil:
		return string(b), true, nil
	case os.IsNotExist(err):
		return "", false, nil
	default:
		return "", false, pkg.ErrIO.Wrap(err).With(slog.String("path", name))
	}
}
