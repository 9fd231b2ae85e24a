// Package log is a small leveled logging layer over [log/slog].
//
// Loggers are immutable values. Settings are fixed when a logger is made
// with [Make] and changed only by deriving a new one with [Logger.Wrap].
//
// # Basic Usage
//
//	logger := log.Make(os.Stdout)
//	logger.Info("script loaded", slog.String("path", path))
//	logger.Error("evaluation failed", slog.Any("error", err))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stdout,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Adding Attributes
//
// Attributes can be added to the logger to be included in all subsequent
// log messages using the [Logger.With] method:
//
//	logger = logger.With(slog.String("session", "repl"))
//	logger.Info("statement evaluated") // includes session=repl
//
// # Context-Aware Logging
//
// The package provides context-aware logging functions and methods.
// Each logging level has both a context-aware and context-unaware variant:
//
//	logger.InfoContext(ctx, "parsing source")
//	logger.Info("message without context") // uses DefaultContextProvider
//
// Context-unaware functions internally call their context-aware counterparts
// using [DefaultContextProvider], which returns [context.TODO] by default.
//
// # Supported Levels
//
// The package supports five log levels: [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn] and [LevelError]. Messages below the configured
// level are discarded. The interpreter logs each evaluated node at
// [LevelTrace].
//
// # Package Logger
//
// The package-level functions ([Info], [DebugContext] and the rest) write
// through a default logger on stderr. [Config] swaps in a logger derived
// from it, which is safe while other goroutines log.
//
// # Time Formatting
//
// [WithTimeLayout] accepts the name of any [time] package layout, in any
// case ("RFC3339", "kitchen"), or a custom layout. The layout "none"
// removes timestamps, which keeps output stable in tests.
//
// # Output Formats
//
// Two output formats are supported: [FormatJSON] (default) and
// [FormatText]. Format is set at logger creation time using functional
// options. Pretty output ([WithPretty], on by default) is styled with
// lipgloss and degrades to plain text when the writer is not a terminal or
// [WithColor] is disabled.
package log
