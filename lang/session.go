package lang

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Session evaluates successive sources against one persistent root
// [Environment], as an interactive loop does line by line.
//
// A Session is safe for concurrent use; calls are serialized.
type Session struct {
	mutex sync.Mutex
	env   *Environment
	opts  []Option
	o     options
}

// NewSession creates a Session with an empty root environment.
// The options apply to every parse and evaluation it performs.
func NewSession(opts ...Option) *Session {
	return &Session{
		env:  NewEnvironment(nil),
		opts: opts,
		o:    makeOptions(opts...),
	}
}

// Run parses and evaluates source against the session's root environment.
//
// Bindings from successful statements persist across calls. When a
// statement fails, bindings made by the statements before it in the same
// source are kept and evaluation of the source stops.
func (s *Session) Run(ctx context.Context, source string) ([]*Value, error) {
	prog, err := ParseString(ctx, source, s.opts...)
	if err != nil {
		return nil, err
	}

	return s.Exec(ctx, prog)
}

// RunReader reads all of r and runs it with [Session.Run].
func (s *Session) RunReader(ctx context.Context, r io.Reader) ([]*Value, error) {
	source, err := ReadSource(r)
	if err != nil {
		return nil, err
	}

	return s.Run(ctx, source)
}

// Exec evaluates an already-parsed program against the session's root
// environment.
func (s *Session) Exec(ctx context.Context, prog Program) ([]*Value, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	results, err := Evaluate(ctx, prog, s.env, s.opts...)

	s.o.logger.DebugContext(
		ctx,
		"session run",
		slog.Int("statement_count", len(prog)),
		slog.Int("binding_count", s.env.Len()),
		slog.Bool("ok", err == nil),
	)

	return results, err
}

// Env returns the session's root environment.
// The caller must not modify it while the Session is in use.
func (s *Session) Env() *Environment {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.env
}

// Names returns the sorted names bound in the session.
func (s *Session) Names() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.env.Names()
}

// Lookup returns the value bound to name in the session.
func (s *Session) Lookup(name string) (Value, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.env.Get(name)
}

// Reset discards all bindings.
func (s *Session) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.env = NewEnvironment(nil)
}
