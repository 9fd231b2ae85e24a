package log

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// Defaults of a logger made without options.
const (
	DefaultTimeLayout = time.RFC3339
	DefaultCaller     = false
	DefaultPretty     = true
	DefaultColor      = true
)

// settings is the immutable configuration behind a [Logger]. Options modify
// a copy, so loggers never share mutable state.
type settings struct {
	output io.Writer
	layout string // time layout; empty omits timestamps
	level  Level
	format Format
	caller bool
	pretty bool
	color  bool
}

// Option adjusts the settings of a logger being made or wrapped.
type Option func(*settings)

func makeSettings(w io.Writer, opts ...Option) settings {
	s := settings{
		layout: DefaultTimeLayout,
		level:  DefaultLevel,
		format: DefaultFormat,
		caller: DefaultCaller,
		pretty: DefaultPretty,
		color:  DefaultColor,
	}

	WithOutput(w)(&s)

	return s.with(opts...)
}

func (s settings) with(opts ...Option) settings {
	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// WithOutput sets the writer records go to. A nil writer discards them.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w == nil {
			w = io.Discard
		}

		s.output = w
	}
}

// WithLevel sets the minimum level; records below it are dropped.
func WithLevel(level Level) Option {
	return func(s *settings) { s.level = level }
}

// WithFormat sets the record encoding.
func WithFormat(format Format) Option {
	return func(s *settings) { s.format = format }
}

// WithTimeLayout sets the timestamp layout.
//
// Names of the [time] package layouts are recognized regardless of case and
// punctuation ("RFC3339", "rfc-3339-nano", "Kitchen"), as are the short
// forms "ms", "us" and "ns" for the Stamp variants. Any other text is used
// verbatim as a layout. An empty layout, or "none", omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(s *settings) { s.layout = resolveLayout(layout) }
}

// WithCaller includes the source position of each logging call.
func WithCaller(enable bool) Option {
	return func(s *settings) { s.caller = enable }
}

// WithPretty renders records for humans: text becomes one line of unquoted
// key=value pairs and JSON becomes an indented block.
func WithPretty(enable bool) Option {
	return func(s *settings) { s.pretty = enable }
}

// WithColor styles pretty output with terminal colors. Writers that are not
// terminals never receive escape sequences.
func WithColor(enable bool) Option {
	return func(s *settings) { s.color = enable }
}

var namedLayouts = map[string]string{
	"none":        "",
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"rfc1123":     time.RFC1123,
	"rfc1123z":    time.RFC1123Z,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"dateonly":    time.DateOnly,
	"timeonly":    time.TimeOnly,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
	"ms":          time.StampMilli,
	"us":          time.StampMicro,
	"ns":          time.StampNano,
}

func resolveLayout(layout string) string {
	key := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, strings.ToLower(layout))

	if key == "" {
		return ""
	}

	if std, ok := namedLayouts[key]; ok {
		return std
	}

	return layout
}

// handler builds the slog.Handler for s.
func (s settings) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   s.caller,
		Level:       slog.Level(s.level),
		ReplaceAttr: s.replaceAttr,
	}

	switch {
	case s.pretty && s.format == FormatJSON:
		return newPrettyJSONHandler(s.output, opts, s.color)
	case s.pretty && s.format == FormatText:
		return newPrettyTextHandler(s.output, opts, s.color)
	case s.format == FormatJSON:
		return slog.NewJSONHandler(s.output, opts)
	case s.format == FormatText:
		return slog.NewTextHandler(s.output, opts)
	default:
		return slog.DiscardHandler
	}
}

// replaceAttr applies the time layout and names custom levels. An empty
// layout drops the time attribute.
func (s settings) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.TimeKey:
		if s.layout == "" {
			return slog.Attr{}
		}

		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(s.layout))
		}

	case slog.LevelKey:
		// slog would print trace as "DEBUG-4".
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).label()))
		}
	}

	return a
}
