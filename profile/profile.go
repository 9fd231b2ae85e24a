package profile

import (
	"log/slog"
	"slices"

	"github.com/ardnew/inty/log"
)

// Config reports the profiler mode, output directory and quiet flag.
type Config func() (mode, path string, quiet bool)

// Stopper ends a profiling run and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling in the configured mode.
//
// An empty or unsupported mode, or a binary built without the pprof tag,
// yields a Stopper that does nothing. Start and Stop are always safe to call.
func (c Config) Start() Stopper {
	if c == nil {
		return ignore{}
	}

	mode, path, quiet := c()

	if mode == "" {
		return ignore{}
	}

	if !Supported(mode) {
		log.Warn("profiling mode unavailable",
			slog.String("mode", mode),
			slog.Bool("enabled", Enabled),
		)

		return ignore{}
	}

	log.Debug("profiling started",
		slog.String("mode", mode),
		slog.String("path", path),
	)

	return start(mode, path, quiet)
}

// WithMode returns a Config with its mode replaced.
func WithMode(mode string) func(Config) Config {
	return func(c Config) Config {
		_, path, quiet := c.values()

		return func() (string, string, bool) { return mode, path, quiet }
	}
}

// WithPath returns a Config with its output directory replaced.
func WithPath(path string) func(Config) Config {
	return func(c Config) Config {
		mode, _, quiet := c.values()

		return func() (string, string, bool) { return mode, path, quiet }
	}
}

// WithQuiet returns a Config with its quiet flag replaced.
func WithQuiet(quiet bool) func(Config) Config {
	return func(c Config) Config {
		mode, path, _ := c.values()

		return func() (string, string, bool) { return mode, path, quiet }
	}
}

// Supported reports whether mode is one of [Modes].
func Supported(mode string) bool {
	return slices.Contains(Modes(), mode)
}

func (c Config) values() (string, string, bool) {
	if c == nil {
		return "", "", false
	}

	return c()
}

type ignore struct{}

func (ignore) Stop() {}
