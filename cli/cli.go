package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tldr/cli/cmd"
	"github.com/ardnew/tldr/config"
	"github.com/ardnew/tldr/pkg"
)

// CLI is the top-level command-line interface for tldr.
type CLI struct {
	cmd.Globals `embed:""`

	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	List   cmd.List   `cmd:"" help:"List available pages"`
	Update cmd.Update `cmd:"" help:"Download the latest pages"`
	Clear  cmd.Clear  `cmd:"" help:"Remove the page cache"`
	Render cmd.Render `cmd:"" help:"Render a local page file"`
	Paths  cmd.Paths  `cmd:"" help:"Show configuration and cache locations"`
	Init   cmd.Init   `cmd:"" help:"Write the configuration file"`

	Show cmd.Show `cmd:"" default:"withargs" help:"Show the page of a command"`
}

// Run executes the tldr CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	configPath := config.Path()
	cfg := config.Default()

	vars := kong.Vars{
		"version": pkg.Name + " " + pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	// Parse command line
	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve(configPath, &cfg), configPath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(cmd.NewEnv(&cli.Globals, cfg, configPath))
}
