// Package cli contains the command line interface for tldr.
//
// # Usage
//
//	tldr tar                 # same as: tldr show tar
//	tldr git commit          # page "git-commit"
//	tldr -p osx -L de ls     # platform and language preferences
//	tldr list -p all
//	tldr update
//
// # Configuration File
//
// The YAML file at <config dir>/config.yaml (see tldr paths) is loaded
// before parsing. Its values become flag defaults, so command-line flags
// override the file. Keys are the flag names with underscores, grouped as in
// [github.com/ardnew/tldr/config.Config].
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// Logs are written to stderr.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o tldr .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     <cache dir>/pprof)
package cli
