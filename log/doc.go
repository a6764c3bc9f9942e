// Package log provides a simplified structured logging interface built on
// [log/slog].
//
// A [Logger] is an immutable value. Configuration is applied with functional
// options when the logger is created with [Make] or derived with
// [Logger.Wrap]:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Info("script loaded", slog.Int("nodes", 3))
//
// The zero Logger discards everything, so packages may hold a Logger field
// without requiring callers to configure one.
//
// # Default Logger
//
// The package-level functions ([Info], [ErrorContext], ...) write through a
// process-wide default logger updated with [Config].
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn] and [LevelError]. Trace sits below slog's debug level and is
// used for per-statement engine tracing.
//
// # Formats
//
// [FormatJSON] and [FormatText] select the slog handler. With pretty
// printing enabled ([WithPretty]) text output is colorized and unquoted.
package log
