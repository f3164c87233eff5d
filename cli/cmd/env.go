package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/ardnew/tldr/cache"
	"github.com/ardnew/tldr/config"
	"github.com/ardnew/tldr/fetch"
	"github.com/ardnew/tldr/log"
	"github.com/ardnew/tldr/page"
	"github.com/ardnew/tldr/pkg"
	"github.com/ardnew/tldr/render"
)

// customPagesName is the default custom pages directory under the
// configuration directory.
const customPagesName = "pages"

// orphanAge is how long an interrupted update may sit in the cache directory
// before the next update removes it.
const orphanAge = time.Hour

// Globals are the flags shared by every command.
type Globals struct {
	Color   string           `default:"auto" enum:"auto,always,never" help:"Colorize output (${enum})." placeholder:"WHEN"`
	Quiet   bool             `help:"Suppress informational messages."                                  short:"q"`
	Version kong.VersionFlag `help:"Print version and exit."                                           short:"V"`
}

// Dirs are the directories a command operates on.
type Dirs struct {
	Config pkg.Dir
	Cache  pkg.Dir
	Custom pkg.Dir
}

// Env is the runtime shared by every command: the loaded configuration, the
// directories derived from it and the standard streams.
type Env struct {
	*Globals

	Config     *config.Config
	ConfigPath string
	Dirs       Dirs

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewEnv returns an Env on the process streams.
//
// The cache directory is taken from TLDR_CACHE_DIR, then the configuration
// file, then the OS convention. Custom pages default to the "pages"
// directory next to the configuration file.
func NewEnv(globals *Globals, cfg *config.Config, configPath string) *Env {
	return &Env{
		Globals:    globals,
		Config:     cfg,
		ConfigPath: configPath,
		Dirs:       makeDirs(cfg),
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

func makeDirs(cfg *config.Config) Dirs {
	dirs := Dirs{
		Config: pkg.ConfigDir(),
		Cache:  pkg.CacheDir(),
	}

	if dir := cfg.Directories.CacheDir; dir != "" && dirs.Cache.Source != pkg.SourceEnv {
		dirs.Cache = pkg.Dir{Path: kong.ExpandPath(dir), Source: pkg.SourceConfig}
	}

	if dir := cfg.Directories.CustomPagesDir; dir != "" {
		dirs.Custom = pkg.Dir{Path: kong.ExpandPath(dir), Source: pkg.SourceConfig}
	} else {
		dirs.Custom = pkg.Dir{
			Path:   filepath.Join(dirs.Config.Path, customPagesName),
			Source: dirs.Config.Source,
		}
	}

	return dirs
}

// Store opens the page cache.
func (e *Env) Store() (*cache.Store, error) {
	return cache.Open(e.Dirs.Cache.Path)
}

// Resolver returns a page resolver over store and the custom pages.
func (e *Env) Resolver(store *cache.Store) page.Resolver {
	return page.Resolver{Store: store, CustomDir: e.Dirs.Custom.Path}
}

// Styles returns the configured styles for output written to w.
func (e *Env) Styles(w io.Writer) render.Styles {
	return render.NewStyles(e.Config.Theme(), render.ColorMode(e.Color).Profile(w))
}

// Languages returns the language preference list: the given tags, or if
// there are none, the locale of the environment. The default language is
// always last.
func (e *Env) Languages(tags []string) []string {
	if len(tags) == 0 {
		tags = page.EnvLanguages(os.Getenv("LANGUAGE"), os.Getenv("LANG"))
	}

	return page.ExpandLanguages(tags)
}

// Platforms returns the platform preference list: the given names, or the
// current platform followed by common.
func (e *Env) Platforms(names []string) []string {
	if len(names) == 0 {
		return []string{page.PlatformCurrent, string(page.Common)}
	}

	return names
}

// Infof writes an informational message to stderr unless quiet.
func (e *Env) Infof(format string, args ...any) {
	if e.Quiet {
		return
	}

	e.message(infoStyle, format, args...)
}

// Warnf writes a warning to stderr. Warnings are never suppressed.
func (e *Env) Warnf(format string, args ...any) {
	e.message(warnStyle, format, args...)
}

func (e *Env) message(
	style func(*lipgloss.Renderer) lipgloss.Style,
	format string,
	args ...any,
) {
	r := lipgloss.NewRenderer(e.Stderr)
	r.SetColorProfile(render.ColorMode(e.Color).Profile(e.Stderr))

	fmt.Fprintln(e.Stderr, style(r).Render(fmt.Sprintf(format, args...)))
}

func infoStyle(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().Faint(true)
}

func warnStyle(r *lipgloss.Renderer) lipgloss.Style {
	return r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}

// update refreshes the cache from the configured archive URL.
func (e *Env) update(ctx context.Context, store *cache.Store) (*cache.Metadata, error) {
	if n, err := store.Prune(orphanAge); err != nil {
		log.WarnContext(ctx, "prune failed", slog.Any("error", err))
	} else if n > 0 {
		log.DebugContext(ctx, "pruned interrupted updates", slog.Int("count", n))
	}

	var validator string

	if store.Exists() {
		if meta, err := store.Metadata(); err == nil {
			validator = meta.Validator
		}
	}

	opts := []fetch.Option{fetch.WithValidator(validator)}
	if !e.Quiet && isTerminal(e.Stderr) {
		opts = append(opts, fetch.WithProgress(e.Stderr))
	}

	res, err := fetch.Get(ctx, e.Config.Updates.ArchiveURL, opts...)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	if res.NotModified() {
		if err := store.Touch(res.ETag); err != nil {
			return nil, err
		}

		meta, err := store.Metadata()
		if err != nil {
			return nil, err
		}

		meta.Unchanged = true

		return meta, nil
	}

	return store.Replace(ctx, res.Body, cache.ReplaceOptions{
		Languages: e.retainedLanguages(),
		Validator: res.ETag,
	})
}

// retainedLanguages are the languages kept when extracting an archive.
func (e *Env) retainedLanguages() []string {
	if langs := e.Config.Updates.Languages; len(langs) > 0 {
		return page.ExpandLanguages(langs)
	}

	return e.Languages(e.Config.Search.Languages)
}

// autoUpdate refreshes a stale cache if enabled, reporting but not
// returning failures.
func (e *Env) autoUpdate(ctx context.Context, store *cache.Store) error {
	interval := time.Duration(e.Config.Updates.AutoUpdateInterval) * time.Hour
	if !store.IsStale(interval) {
		return nil
	}

	e.Infof("Updating pages...")

	meta, err := e.update(ctx, store)
	if err != nil {
		log.DebugContext(ctx, "automatic update failed", slog.Any("error", err))
		e.Warnf("Could not update pages: %v", err)

		return err
	}

	e.Infof("%s", updateSummary(meta))

	return nil
}

func updateSummary(meta *cache.Metadata) string {
	if meta.Unchanged {
		return "Pages are up to date."
	}

	return fmt.Sprintf("Updated %d pages (%s).", meta.Pages, joinList(meta.Languages))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalHeight(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}

	_, h, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}

	return h
}
