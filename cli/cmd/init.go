package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/inty/log"
	"github.com/ardnew/inty/profile"
)

// configFileMode is the permission mode of a written configuration file.
const configFileMode = 0o600

// configIgnore lists flag name prefixes never written to the config file.
var configIgnore = []string{"help", "version", "force", profile.Tag}

// Init writes the YAML configuration file from the current flag values.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	path, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	attr := slog.String("file", path)

	if _, err := os.Stat(path); err == nil && !i.Force {
		return ErrWriteConfig.With(attr, slog.Bool("exists", true)).Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalContext(ctx, flagValues(ktx), yaml.Indent(2))
	if err != nil {
		return ErrYAMLMarshal.With(attr).Wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return ErrWriteConfig.With(attr).Wrap(err)
	}

	if err := os.WriteFile(path, data, configFileMode); err != nil {
		return ErrWriteConfig.With(attr).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file", attr)

	return nil
}

// flagValues collects the value of every visible flag that has one.
// Keys use underscores so the file reads naturally as YAML; the resolver
// accepts either spelling.
func flagValues(ktx *kong.Context) map[string]any {
	values := make(map[string]any)

	for _, flag := range ktx.Flags() {
		if flag.Hidden || slices.ContainsFunc(configIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v := configValue(ktx.FlagValue(flag)); v != nil {
			values[strings.ReplaceAll(flag.Name, "-", "_")] = v
		}
	}

	return values
}

// configValue returns v in a form suitable for YAML, or nil when v is unset.
func configValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil

	case string:
		if v == "" {
			return nil
		}

		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v

	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v

	default:
		// Named string types such as the log level flag.
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
			return configValue(rv.String())
		}

		return nil
	}
}
