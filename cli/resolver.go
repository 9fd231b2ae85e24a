package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/inty/lang"
	"github.com/ardnew/inty/log"
)

// loadYAML is a [kong.ConfigurationLoader] for the YAML file written by the
// init command. Keys are flag names, with underscores or hyphens:
//
//	log_level: debug
//	log_pretty: false
//	max_depth: 64
//
// A file that fails to parse is reported and ignored so a broken
// configuration never prevents the CLI from starting.
func loadYAML(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		values := make(map[string]any)

		data, err := io.ReadAll(r)
		if err == nil {
			err = yaml.UnmarshalContext(ctx, data, &values)
		}

		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("format", "yaml"),
				slog.Any("error", err),
			)

			return config{}, nil
		}

		return makeConfig(values), nil
	}
}

// loadScript is a [kong.ConfigurationLoader] for configuration written as a
// script. The script is evaluated in a fresh session and each top-level
// binding sets the flag of the same name:
//
//	let max_depth = 8 * 8;
//	let log_color = false;
//	let log_caller = 1 < 2;
//
// Integers become their decimal text and lists become slices. The language
// has no strings, so string flags cannot be set this way.
func loadScript(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		session := lang.NewSession(lang.WithCache(false))

		if _, err := session.RunReader(ctx, r); err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("format", "script"),
				slog.Any("error", err),
			)

			return config{}, nil
		}

		values := make(map[string]any)

		for _, name := range session.Names() {
			if v, ok := session.Lookup(name); ok {
				values[name] = v.Native()
			}
		}

		return makeConfig(values), nil
	}
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// makeConfig converts numbers to text, since kong parses numeric flags from
// strings.
func makeConfig(values map[string]any) config {
	c := make(config, len(values))

	for k, v := range values {
		c[k] = flagValue(v)
	}

	return c
}

func flagValue(v any) any {
	switch v := v.(type) {
	case int32:
		return strconv.FormatInt(int64(v), 10)

	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagValue(e)
		}

		return out

	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. Flag names use hyphens; configuration
// keys may use either hyphens or underscores.
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}
