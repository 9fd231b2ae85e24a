package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/inty/lang"
	"github.com/ardnew/inty/pkg"
)

type (
	contextKey struct{}
	optionsKey struct{}
	streamsKey struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithOptions returns a new context.Context carrying the interpreter options
// every command applies when parsing and evaluating.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return opts
}

// Streams are the standard streams a command reads and writes.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// WithStreams returns a new context.Context carrying s. Nil fields fall back
// to the process streams.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// stdinSource names standard input on the command line.
const stdinSource = "-"

// source is one opened script.
type source struct {
	io.Reader

	name  string
	close func() error
}

// sources are opened scripts in evaluation order.
type sources []source

// Close closes every opened file.
func (s sources) Close() error {
	var errs []error

	for _, src := range s {
		if src.close != nil {
			errs = append(errs, src.close())
		}
	}

	return errors.Join(errs...)
}

// fileKey uniquely identifies a file by its device and inode numbers, so a
// script named twice through symlinks or relative paths is opened once.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens each named script in order.
//
// Names are resolved with [pkg.FindScript]. Duplicates are dropped by
// device and inode. Every "-" collapses into one standard input source,
// placed last so it is read after all regular files. With no names, standard
// input is the only source.
func openSources(ctx context.Context, names []string) (sources, error) {
	in := streamsFrom(ctx).In

	if len(names) == 0 {
		names = []string{stdinSource}
	}

	var (
		srcs     = make(sources, 0, len(names))
		seen     = make(map[fileKey]struct{})
		hasStdin bool
	)

	stdinKey, stdinOK := readerKey(in)

	for _, name := range names {
		if name == stdinSource {
			hasStdin = true

			continue
		}

		src, err := openScript(name)
		if err != nil {
			_ = srcs.Close()

			return nil, err
		}

		key, ok := readerKey(src.Reader)
		if !ok {
			srcs = append(srcs, src)

			continue
		}

		if stdinOK && key == stdinKey {
			hasStdin = true

			_ = src.close()

			continue
		}

		if _, dup := seen[key]; dup {
			_ = src.close()

			continue
		}

		seen[key] = struct{}{}
		srcs = append(srcs, src)
	}

	if hasStdin {
		srcs = append(srcs, source{Reader: in, name: stdinSource})
	}

	return srcs, nil
}

func openScript(name string) (source, error) {
	fail := func(err error) (source, error) {
		return source{}, ErrOpenSource.
			With(slog.String("source", name)).
			Wrap(err)
	}

	path, err := pkg.FindScript(name)
	if err != nil {
		return fail(err)
	}

	// Resolve relative paths and symlinks before identifying the file.
	if path, err = filepath.Abs(path); err != nil {
		return fail(err)
	}

	if path, err = filepath.EvalSymlinks(path); err != nil {
		return fail(err)
	}

	file, err := os.Open(path)
	if err != nil {
		return fail(err)
	}

	return source{Reader: file, name: name, close: file.Close}, nil
}

// readerKey identifies r when it is an *os.File.
func readerKey(r io.Reader) (fileKey, bool) {
	file, ok := r.(*os.File)
	if !ok {
		return fileKey{}, false
	}

	info, err := file.Stat()
	if err != nil {
		return fileKey{}, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true //nolint:unconvert
}
