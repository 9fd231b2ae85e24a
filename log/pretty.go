package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used to render each part of a pretty record.
// Styles are bound to a renderer for the handler's writer, so escape codes
// are dropped automatically when the writer is not a terminal.
type palette struct {
	key   lipgloss.Style
	str   lipgloss.Style
	num   lipgloss.Style
	yes   lipgloss.Style
	no    lipgloss.Style
	dur   lipgloss.Style
	time  lipgloss.Style
	null  lipgloss.Style
	trace lipgloss.Style
	debug lipgloss.Style
	info  lipgloss.Style
	warn  lipgloss.Style
	error lipgloss.Style
}

func newPalette(w io.Writer, color bool) *palette {
	r := lipgloss.NewRenderer(w)
	plain := r.NewStyle()

	if !color {
		return &palette{
			key: plain, str: plain, num: plain, yes: plain, no: plain,
			dur: plain, time: plain, null: plain, trace: plain,
			debug: plain, info: plain, warn: plain, error: plain,
		}
	}

	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		time:  fg("4"),
		null:  fg("8"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		error: fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.error
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyHandler renders records for humans, either as a single line of
// key=value pairs or as an indented JSON-like block.
//
// Groups are flattened into dotted keys and [slog.LogValuer] values are
// resolved, so structured errors show every attribute they carry.
type prettyHandler struct {
	opts   slog.HandlerOptions
	style  *palette
	mu     *sync.Mutex
	w      io.Writer
	prefix string      // dotted group path applied to record attrs
	attrs  []slog.Attr // attrs from WithAttrs, keys already qualified
	block  bool        // JSON-like block instead of a single line
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	color bool,
) *prettyHandler {
	return &prettyHandler{
		opts:  *opts,
		style: newPalette(w, color),
		mu:    &sync.Mutex{},
		w:     w,
	}
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	color bool,
) *prettyHandler {
	h := newPrettyTextHandler(w, opts, color)
	h.block = true

	return h
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], qualify(h.prefix, attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// field is a flattened attribute ready for rendering.
type field struct {
	key string
	val string
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if s, ok := h.timestamp(r.Time); ok {
			fields = append(fields, field{slog.TimeKey, h.style.time.Render(s)})
		}
	}

	fields = append(fields, field{
		slog.LevelKey,
		h.style.level(r.Level).Render(Level(r.Level).label()),
	})

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields, field{
				slog.SourceKey,
				h.style.str.Render(fmt.Sprintf("%s:%d", src.File, src.Line)),
			})
		}
	}

	fields = append(fields, field{slog.MessageKey, h.style.str.Render(r.Message)})

	for _, a := range h.attrs {
		fields = h.flatten(fields, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		fields = h.flatten(fields, h.prefix, a)

		return true
	})

	buf := new(bytes.Buffer)

	if h.block {
		h.writeBlock(buf, fields)
	} else {
		h.writeLine(buf, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// timestamp formats t with the configured time layout. The second result is
// false when timestamps are disabled.
func (h *prettyHandler) timestamp(t time.Time) (string, bool) {
	a := slog.Time(slog.TimeKey, t)

	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Equal(slog.Attr{}) {
		return "", false
	}

	if a.Value.Kind() == slog.KindTime {
		return a.Value.Time().Format(time.RFC3339), true
	}

	return a.Value.String(), true
}

func (h *prettyHandler) flatten(fields []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := prefix
		if a.Key != "" {
			sub = prefix + a.Key + "."
		}

		for _, g := range a.Value.Group() {
			fields = h.flatten(fields, sub, g)
		}

		return fields
	}

	return append(fields, field{prefix + a.Key, h.value(a.Value)})
}

func (h *prettyHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return h.style.str.Render(v.String())

	case slog.KindInt64:
		return h.style.num.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return h.style.num.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return h.style.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")

	case slog.KindDuration:
		return h.style.dur.Render(v.Duration().String())

	case slog.KindTime:
		return h.style.time.Render(v.Time().Format(time.RFC3339))

	default:
		if v.Any() == nil {
			return h.style.null.Render("null")
		}

		if level, ok := v.Any().(slog.Level); ok {
			return h.style.level(level).Render(Level(level).label())
		}

		return h.style.str.Render(fmt.Sprint(v.Any()))
	}
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, fields []field) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(f.key))
		buf.WriteByte('=')
		buf.WriteString(f.val)
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeBlock(buf *bytes.Buffer, fields []field) {
	buf.WriteString("{\n")

	for i, f := range fields {
		buf.WriteString("  ")
		buf.WriteString(h.style.key.Render(f.key))
		buf.WriteString(": ")
		buf.WriteString(f.val)

		if i < len(fields)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString("}\n")
}

// qualify prefixes each top-level attribute key with the group path.
func qualify(prefix string, attrs []slog.Attr) []slog.Attr {
	if prefix == "" {
		return attrs
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}

	return out
}
