package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ardnew/tldr/cache"
	"github.com/ardnew/tldr/pkg"
)

// Paths prints the locations the program reads and writes.
type Paths struct{}

// Run executes the paths command.
func (*Paths) Run(env *Env) error {
	rows := []struct {
		name string
		dir  pkg.Dir
	}{
		{"config file", pkg.Dir{Path: env.ConfigPath, Source: env.Dirs.Config.Source}},
		{"cache", pkg.Dir{Path: filepath.Join(env.Dirs.Cache.Path, cache.RootName), Source: env.Dirs.Cache.Source}},
		{"custom pages", env.Dirs.Custom},
	}

	var b strings.Builder

	for _, row := range rows {
		fmt.Fprintf(&b, "%-13s %s (%s)\n", row.name+":", row.dir.Path, row.dir.Source)
	}

	return write(env.Stdout, b.String())
}
