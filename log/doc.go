// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is configured once at creation time with functional options and
// is cheap to derive from: [Logger.Wrap] overrides options, [Logger.With]
// appends attributes.
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Debug("cache opened", slog.String("root", root))
//
// # Default Logger
//
// Package-level functions such as [Info] and [ErrorContext] write through a
// default logger that targets stderr. [Config] reconfigures it:
//
//	log.Config(log.WithLevel(log.LevelInfo), log.WithPretty(false))
//
// # Levels
//
// Five levels are defined, from [LevelTrace] to [LevelError]. Messages below
// the configured level are discarded. [ParseLevel] accepts their names in
// any case.
//
// # Formats
//
// [FormatText] (default) and [FormatJSON] select the handler. Either may be
// pretty printed with ANSI colors ([WithPretty], enabled by default).
//
// # Time Formatting
//
// [WithTimeLayout] accepts any named layout of the [time] package (such as
// "RFC3339" or "Kitchen"), a custom layout string, or "none" to drop the
// timestamp.
package log
