//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/inty/log"
	"github.com/ardnew/inty/pkg"
	"github.com/ardnew/inty/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Profile the run in this mode."    placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Directory receiving profiles."                            type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(pkg.CacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

// start profiles the rest of the run when a mode was selected. The
// returned function flushes the profile.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	cfg := profile.Config(nil)

	for _, opt := range []func(profile.Config) profile.Config{
		profile.WithMode(f.Mode),
		profile.WithPath(f.Dir),
		profile.WithQuiet(true),
	} {
		cfg = opt(cfg)
	}

	began := time.Now()
	profiler := cfg.Start()

	return func() {
		profiler.Stop()

		if f.Mode != "" {
			log.DebugContext(ctx, "profile written",
				slog.String("mode", f.Mode),
				slog.String("dir", f.Dir),
				slog.Duration("elapsed", time.Since(began)),
			)
		}
	}
}
