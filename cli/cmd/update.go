package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/tldr/log"
)

// Update downloads the latest page archive into the cache.
type Update struct{}

// Run executes the update command.
func (*Update) Run(ctx context.Context, env *Env) error {
	store, err := env.Store()
	if err != nil {
		return err
	}

	env.Infof("Downloading %s", env.Config.Updates.ArchiveURL)

	meta, err := env.update(ctx, store)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "cache updated",
		slog.String("digest", meta.Digest),
		slog.Bool("unchanged", meta.Unchanged),
	)

	env.Infof("%s", updateSummary(meta))

	return nil
}

// Clear removes the page cache.
type Clear struct{}

// Run executes the clear command.
func (*Clear) Run(ctx context.Context, env *Env) error {
	store, err := env.Store()
	if err != nil {
		return err
	}

	existed := store.Exists()

	if err := store.Clear(); err != nil {
		return err
	}

	log.DebugContext(ctx, "cache cleared",
		slog.String("root", store.Root()),
		slog.Bool("existed", existed),
	)

	if existed {
		env.Infof("Removed %s", store.Root())
	} else {
		env.Infof("The page cache is already empty.")
	}

	return nil
}
