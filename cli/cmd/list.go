package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/ardnew/tldr/log"
	"github.com/ardnew/tldr/page"
	"github.com/ardnew/tldr/pkg"
)

// List prints the names of the available pages.
type List struct {
	Platform []string `help:"Platforms to list (linux, osx, windows, ..., current, all)." placeholder:"PLATFORM" short:"p"`
	Language []string `help:"Languages to list."                                         placeholder:"LANG"     short:"L"`
}

// Run executes the list command.
func (l *List) Run(ctx context.Context, env *Env) error {
	store, err := env.Store()
	if err != nil {
		return err
	}

	platforms, err := page.ExpandPlatforms(env.Platforms(l.Platform))
	if err != nil {
		return err
	}

	dirs := make([]string, len(platforms))
	for i, p := range platforms {
		dirs[i] = p.String()
	}

	names, err := store.List(dirs, env.Languages(l.Language))
	if err != nil {
		return err
	}

	custom, err := customNames(env.Dirs.Custom.Path)
	if err != nil {
		return err
	}

	names = append(names, custom...)
	slices.Sort(names)
	names = slices.Compact(names)

	log.DebugContext(ctx, "list pages",
		slog.Any("platforms", dirs),
		slog.Int("count", len(names)),
	)

	if len(names) == 0 && !store.Exists() {
		env.Warnf("The page cache is empty; run '%s update' to download pages.", pkg.Name)
	}

	var b strings.Builder

	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('\n')
	}

	return write(env.Stdout, b.String())
}

// customNames returns the commands with an override or patch in dir.
func customNames(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, pkg.ErrIO.Wrap(err).With(slog.String("dir", dir))
	}

	var names []string

	for _, ent := range ents {
		if ent.IsDir() {
			continue
		}

		for _, suffix := range []string{page.OverrideSuffix, page.PatchSuffix} {
			if name, ok := strings.CutSuffix(ent.Name(), suffix); ok && name != "" {
				names = append(names, name)
			}
		}
	}

	return names, nil
}
