package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/inty/log"
)

// DefaultMaxDepth is the default limit on syntactic nesting.
// Users may modify this before parsing to change the default.
var DefaultMaxDepth = 256

// options holds the configuration shared by parsing, evaluation, and
// [Session].
type options struct {
	maxDepth int
	useCache bool
	logger   log.Logger // zero value disables logging
}

// Option configures parsing, evaluation, or [Session] behavior.
type Option func(*options)

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
// Values less than 1 select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithCache enables or disables the shared parse cache used by
// [ParseString] and [ParseReader].
func WithCache(enable bool) Option {
	return func(o *options) {
		o.useCache = enable
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// makeOptions applies functional options over the defaults.
func makeOptions(opts ...Option) options {
	o := options{
		maxDepth: DefaultMaxDepth,
		useCache: true,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.maxDepth < 1 {
		o.maxDepth = DefaultMaxDepth
	}

	return o
}

// ParseString tokenizes and parses source text.
// Successful results are memoized in a bounded cache keyed by the source
// text and maximum depth unless disabled with [WithCache].
func ParseString(
	ctx context.Context,
	source string,
	opts ...Option,
) (Program, error) {
	o := makeOptions(opts...)

	o.logger.TraceContext(
		ctx,
		"parse start",
		slog.Int("source_length", len(source)),
		slog.Int("max_depth", o.maxDepth),
		slog.Bool("cache", o.useCache),
	)

	if o.useCache {
		return parseStringCached(ctx, source, o)
	}

	return parseString(ctx, source, o)
}

// ParseReader reads all of r and parses it with [ParseString].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (Program, error) {
	source, err := ReadSource(r)
	if err != nil {
		return nil, err
	}

	return ParseString(ctx, source, opts...)
}

func parseString(
	ctx context.Context,
	source string,
	o options,
) (Program, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		o.logger.TraceContext(ctx, "lex failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(
		ctx,
		"lex complete",
		slog.Int("token_count", len(tokens)),
	)

	prog, err := parseTokens(ctx, tokens, o)
	if err != nil {
		o.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(
		ctx,
		"parse complete",
		slog.Int("statement_count", len(prog)),
	)

	return prog, nil
}
