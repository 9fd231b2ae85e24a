// Package profile provides optional runtime profiling for the inty
// interpreter.
//
// Profiling is built on [github.com/pkg/profile] and is compiled in only
// with the "pprof" build tag. Without the tag every [Config] is a no-op and
// [Modes] reports nothing, so the CLI hides its profiling flags.
//
// # Modes
//
// With the tag, [Modes] lists allocs, block, clock, cpu, goroutine, heap,
// mem, mutex, thread and trace. Exactly one mode is active per run:
//
//	stop := profile.Config(func() (string, string, bool) {
//		return "cpu", dir, false
//	}).Start()
//	defer stop.Stop()
//
// Output files are named after the mode (cpu.pprof, mem.pprof and so on)
// and written under the given directory, which defaults to
// $XDG_CACHE_HOME/inty/pprof when started from the command line:
//
//	go build -tags pprof ./...
//	inty --pprof-mode cpu script.inty
//	go tool pprof -http=: ~/.cache/inty/pprof/cpu.pprof
//
// Building with the tag also imports [net/http/pprof], registering its
// handlers on [net/http.DefaultServeMux] for programs that serve it.
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
