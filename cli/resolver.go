package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tldr/config"
	"github.com/ardnew/tldr/pkg"
)

// resolve returns a [kong.ConfigurationLoader] for the YAML configuration
// file at path. The decoded document is stored in *dst and its values become
// flag defaults:
//
//	display:
//	  compact: true      # --compact
//	  show_title: true   # --show-title
//	search:
//	  platforms: [osx]   # --platform=osx
//	log:
//	  level: debug       # --log-level=debug
//
// Command-line flags override config file values.
func resolve(path string, dst **config.Config) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		cfg, err := config.Decode(r)
		if err != nil {
			return nil, pkg.WrapError(err).With(slog.String("path", path))
		}

		*dst = cfg

		return makeFlags(cfg), nil
	}
}

// flags implements [kong.Resolver] over the values of a configuration file.
type flags map[string]any

func makeFlags(cfg *config.Config) flags {
	f := flags{
		"color":           cfg.Display.Color,
		"compact":         cfg.Display.Compact,
		"show_title":      cfg.Display.ShowTitle,
		"pager":           cfg.Display.UsePager,
		"auto_update":     cfg.Updates.AutoUpdate,
		"log_level":       cfg.Log.Level,
		"log_format":      cfg.Log.Format,
		"log_time_layout": cfg.Log.TimeLayout,
		"log_caller":      cfg.Log.Caller,
		"log_pretty":      cfg.Log.Pretty,
	}

	// Kong splits list values on its separator.
	if len(cfg.Search.Platforms) > 0 {
		f["platform"] = strings.Join(cfg.Search.Platforms, ",")
	}

	if len(cfg.Search.Languages) > 0 {
		f["language"] = strings.Join(cfg.Search.Languages, ",")
	}

	return f
}

// Validate implements [kong.Resolver].
func (flags) Validate(*kong.Application) error {
	// Values were validated when the file was decoded.
	return nil
}

// Resolve implements [kong.Resolver].
func (f flags) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "show-title") but configuration keys
	// use underscores. Try both forms.
	if value, ok := f[flag.Name]; ok {
		return value, nil
	}

	if value, ok := f[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil //nolint:nilnil
}
