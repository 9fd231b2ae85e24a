package cli

import (
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/inty/lang"
	"github.com/ardnew/inty/log"
)

type langConfig struct {
	MaxDepth int  `default:"${maxDepth}" help:"Maximum syntactic nesting depth."`
	Cache    bool `default:"true"        help:"Memoize parsed sources."            negatable:""`
	Trace    bool `help:"Log parser and evaluator steps (requires --log-level=trace)."`
}

func (*langConfig) vars() kong.Vars {
	return kong.Vars{"maxDepth": strconv.Itoa(lang.DefaultMaxDepth)}
}

func (*langConfig) group() kong.Group {
	return kong.Group{Key: "lang", Title: "Interpreter options"}
}

// options returns the interpreter options selected by the flags. It must be
// called after the logger is configured.
func (f *langConfig) options() []lang.Option {
	opts := []lang.Option{
		lang.WithMaxDepth(f.MaxDepth),
		lang.WithCache(f.Cache),
	}

	if f.Trace {
		opts = append(opts, lang.WithLogger(log.Default()))
	}

	return opts
}
