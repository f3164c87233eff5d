package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tldr/log"
	"github.com/ardnew/tldr/page"
	"github.com/ardnew/tldr/pkg"
	"github.com/ardnew/tldr/render"
)

// FileName is the base name of the configuration file.
const FileName = "config.yaml"

// DefaultArchiveURL is the location of the official page archive.
const DefaultArchiveURL = "https://github.com/tldr-pages/tldr/releases/latest/download/tldr.zip"

// DefaultAutoUpdateInterval is the maximum age of the cache, in hours,
// before it is refreshed automatically.
const DefaultAutoUpdateInterval = 24 * 30

// ErrFileExists is wrapped by [Write] when it refuses to replace a file.
var ErrFileExists = pkg.NewError("file exists (use --force to overwrite)")

// Config is the configuration document.
type Config struct {
	Display     Display     `yaml:"display"`
	Style       Style       `yaml:"style"`
	Search      Search      `yaml:"search"`
	Updates     Updates     `yaml:"updates"`
	Directories Directories `yaml:"directories"`
	Log         Log         `yaml:"log"`
}

// Display controls the layout of rendered pages.
type Display struct {
	Color     string `yaml:"color"` // auto, always or never
	Compact   bool   `yaml:"compact"`
	ShowTitle bool   `yaml:"show_title"`
	UsePager  bool   `yaml:"use_pager"`
}

// Style holds one [StyleSpec] per page element.
type Style struct {
	Title           StyleSpec `yaml:"title"`
	Description     StyleSpec `yaml:"description"`
	ExampleText     StyleSpec `yaml:"example_text"`
	ExampleCode     StyleSpec `yaml:"example_code"`
	ExampleVariable StyleSpec `yaml:"example_variable"`
	CommandName     StyleSpec `yaml:"command_name"`
}

// StyleSpec describes how one page element is displayed.
type StyleSpec struct {
	Foreground *Color `yaml:"foreground,omitempty"`
	Background *Color `yaml:"background,omitempty"`
	Bold       bool   `yaml:"bold"`
	Underline  bool   `yaml:"underline"`
	Italic     bool   `yaml:"italic"`
}

// UnmarshalYAML replaces each target present in the document with its
// decoded [StyleSpec]. Targets left out keep their current value.
func (s *Style) UnmarshalYAML(unmarshal func(any) error) error {
	var doc struct {
		Title           *StyleSpec `yaml:"title"`
		Description     *StyleSpec `yaml:"description"`
		ExampleText     *StyleSpec `yaml:"example_text"`
		ExampleCode     *StyleSpec `yaml:"example_code"`
		ExampleVariable *StyleSpec `yaml:"example_variable"`
		CommandName     *StyleSpec `yaml:"command_name"`
	}

	if err := unmarshal(&doc); err != nil {
		return err
	}

	for dst, src := range map[*StyleSpec]*StyleSpec{
		&s.Title:           doc.Title,
		&s.Description:     doc.Description,
		&s.ExampleText:     doc.ExampleText,
		&s.ExampleCode:     doc.ExampleCode,
		&s.ExampleVariable: doc.ExampleVariable,
		&s.CommandName:     doc.CommandName,
	} {
		if src != nil {
			*dst = *src
		}
	}

	return nil
}

// Search holds the default preference lists of page resolution.
type Search struct {
	Platforms []string `yaml:"platforms,flow"`
	Languages []string `yaml:"languages,flow"`
}

// Updates controls refreshing of the page cache.
type Updates struct {
	AutoUpdate         bool     `yaml:"auto_update"`
	AutoUpdateInterval int      `yaml:"auto_update_interval_hours"`
	ArchiveURL         string   `yaml:"archive_url"`
	Languages          []string `yaml:"languages,flow"`
}

// Directories overrides the default directory locations.
type Directories struct {
	CacheDir       string `yaml:"cache_dir,omitempty"`
	CustomPagesDir string `yaml:"custom_pages_dir,omitempty"`
}

// Log holds the default logging options.
type Log struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	TimeLayout string `yaml:"time_layout"`
	Caller     bool   `yaml:"caller"`
	Pretty     bool   `yaml:"pretty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Display: Display{Color: string(render.ColorAuto)},
		Style: Style{
			Title:           StyleSpec{Foreground: Named("magenta"), Bold: true},
			ExampleText:     StyleSpec{Foreground: Named("green")},
			ExampleCode:     StyleSpec{Foreground: Named("cyan")},
			ExampleVariable: StyleSpec{Foreground: Named("cyan"), Underline: true},
			CommandName:     StyleSpec{Foreground: Named("cyan"), Bold: true},
		},
		Search: Search{
			Platforms: []string{page.PlatformCurrent, string(page.Common)},
		},
		Updates: Updates{
			AutoUpdate:         true,
			AutoUpdateInterval: DefaultAutoUpdateInterval,
			ArchiveURL:         DefaultArchiveURL,
		},
		Log: Log{
			Level:      log.DefaultLevel.String(),
			Format:     log.DefaultFormat.String(),
			TimeLayout: "RFC3339",
			Caller:     log.DefaultCaller,
			Pretty:     log.DefaultPretty,
		},
	}
}

// Path returns the default location of the configuration file.
func Path() string {
	return filepath.Join(pkg.ConfigDir().Path, FileName)
}

// Load reads the configuration file at path on top of [Default].
// A missing file yields the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("no configuration file", slog.String("path", path))

		return Default(), nil
	}

	if err != nil {
		return nil, pkg.ErrConfig.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		var perr *pkg.Error
		if errors.As(err, &perr) {
			return nil, perr.With(slog.String("path", path))
		}

		return nil, pkg.ErrConfig.Wrap(err).With(slog.String("path", path))
	}

	return cfg, nil
}

// Decode reads a configuration document from r on top of [Default] and
// validates it.
func Decode(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pkg.ErrConfig.Wrap(err)
	}

	cfg := Default()

	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, pkg.ErrConfig.Wrap(errors.New(yaml.FormatError(err, false, true)))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports the first unusable value as [pkg.ErrConfig] with a
// "field" attribute holding its path, e.g. "style.title.foreground".
func (c *Config) Validate() error {
	if !slices.Contains(
		[]string{string(render.ColorAuto), string(render.ColorAlways), string(render.ColorNever)},
		c.Display.Color,
	) {
		return invalid("display.color", c.Display.Color, nil)
	}

	styles := c.Style.all()

	for target := range render.Targets() {
		spec := styles[target]

		if err := spec.Foreground.Err(); err != nil {
			return invalid("style."+target.String()+".foreground", spec.Foreground.String(), err)
		}

		if err := spec.Background.Err(); err != nil {
			return invalid("style."+target.String()+".background", spec.Background.String(), err)
		}
	}

	if _, err := page.ExpandPlatforms(c.Search.Platforms); err != nil {
		return invalid("search.platforms", strings.Join(c.Search.Platforms, ","), err)
	}

	if slices.ContainsFunc(c.Search.Languages, badLanguage) {
		return invalid("search.languages", strings.Join(c.Search.Languages, ","), nil)
	}

	if slices.ContainsFunc(c.Updates.Languages, badLanguage) {
		return invalid("updates.languages", strings.Join(c.Updates.Languages, ","), nil)
	}

	if c.Updates.AutoUpdateInterval <= 0 {
		return invalid("updates.auto_update_interval_hours", c.Updates.AutoUpdateInterval, nil)
	}

	if !strings.HasPrefix(c.Updates.ArchiveURL, "https://") &&
		!strings.HasPrefix(c.Updates.ArchiveURL, "http://") {
		return invalid("updates.archive_url", c.Updates.ArchiveURL, nil)
	}

	if !slices.Contains(slices.Collect(log.Levels()), strings.ToLower(c.Log.Level)) {
		return invalid("log.level", c.Log.Level, nil)
	}

	if !slices.Contains(slices.Collect(log.Formats()), strings.ToLower(c.Log.Format)) {
		return invalid("log.format", c.Log.Format, nil)
	}

	return nil
}

// Theme returns the render theme described by the style section.
func (c *Config) Theme() render.Theme {
	theme := make(render.Theme)

	for target, spec := range c.Style.all() {
		theme[target] = render.Attributes{
			Foreground: spec.Foreground.Spec(),
			Background: spec.Background.Spec(),
			Bold:       spec.Bold,
			Underline:  spec.Underline,
			Italic:     spec.Italic,
		}
	}

	return theme
}

// Write encodes c as YAML to path, creating parent directories.
// An existing file is replaced only if force is set.
func (c *Config) Write(path string, force bool) error {
	data, err := yaml.MarshalWithOptions(c, yaml.Indent(2), yaml.IndentSequence(true)) //nolint:mnd
	if err != nil {
		return pkg.ErrIO.Wrap(err).With(slog.String("path", path))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil { //nolint:mnd
		return pkg.ErrIO.Wrap(err).With(slog.String("path", path))
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flag |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flag, 0o644) //nolint:mnd
	if errors.Is(err, os.ErrExist) {
		return pkg.ErrIO.Wrap(ErrFileExists).With(
			slog.String("path", path),
			slog.Bool("exists", true),
		)
	}

	if err != nil {
		return pkg.ErrIO.Wrap(err).With(slog.String("path", path))
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()

		return pkg.ErrIO.Wrap(err).With(slog.String("path", path))
	}

	if err := f.Close(); err != nil {
		return pkg.ErrIO.Wrap(err).With(slog.String("path", path))
	}

	return nil
}

func (s *Style) all() map[render.Target]StyleSpec {
	return map[render.Target]StyleSpec{
		render.TargetTitle:           s.Title,
		render.TargetDescription:     s.Description,
		render.TargetExampleText:     s.ExampleText,
		render.TargetExampleCode:     s.ExampleCode,
		render.TargetExampleVariable: s.ExampleVariable,
		render.TargetCommandName:     s.CommandName,
	}
}

func badLanguage(tag string) bool {
	tag = strings.TrimSpace(tag)

	return tag == "" || strings.ContainsAny(tag, `/\. `)
}

func invalid(field string, value any, cause error) error {
	err := pkg.ErrConfig
	if cause != nil {
		err = err.Wrap(cause)
	}

	return err.With(slog.String("field", field), slog.Any("value", value))
}
