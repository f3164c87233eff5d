package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/tldr/log"
)

// Init writes the current configuration, defaults included, to the
// configuration file.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context, env *Env) error {
	if err := env.Config.Write(env.ConfigPath, i.Force); err != nil {
		return err
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", env.ConfigPath),
		slog.Bool("force", i.Force),
	)

	env.Infof("Wrote %s", env.ConfigPath)

	return nil
}
