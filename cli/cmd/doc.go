// Package cmd implements the tldr subcommands.
//
// Every command receives an [Env] holding the loaded configuration, the
// directories in use and the standard streams. Page output goes to stdout;
// informational messages go to stderr and are silenced by --quiet.
package cmd
