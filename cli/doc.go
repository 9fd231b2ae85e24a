// Package cli contains the command line interface for inty.
//
// # Usage
//
//	inty [flags] [script ...]          run scripts (the default command)
//	inty eval 'let x = 2; x * 21'      evaluate arguments
//	inty repl                          interactive session
//	inty fmt [json|yaml|ast|tokens]    reformat or dump a script
//	inty init                          write the configuration file
//
// Scripts run in one session, so later scripts see the top-level bindings
// of earlier ones. A script name that is not a path is also searched for in
// the directories listed in $INTY_PATH, with and without the .inty suffix.
//
// # Configuration
//
// Flag defaults are read from the user configuration directory, in order:
//
//   - config.json: kong's JSON format
//   - config.yaml: the format written by the init command
//   - config.inty: a script whose top-level bindings set flags of the same
//     name, with underscores in place of hyphens
//
// Command-line flags override configuration values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Render records for humans
//   - --log-color: Colorize pretty records; defaults to off when NO_COLOR is
//     set
//
// # Interpreter Options
//
//   - --max-depth: Limit syntactic nesting
//   - --no-cache: Parse every source even if seen before
//   - --trace: Log parser and evaluator steps at trace level
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o inty .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/inty/pprof)
package cli
