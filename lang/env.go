package lang

import (
	"iter"
	"maps"
	"slices"
)

// Environment is a lexical scope mapping identifiers to values.
//
// Lookups fall back to the parent chain; insertions are always local, so a
// child never modifies its ancestors. An Environment is not safe for
// concurrent use.
type Environment struct {
	parent *Environment
	values map[string]Value
}

// NewEnvironment creates an empty scope enclosed by parent.
// A nil parent creates a root scope.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent: parent,
		values: make(map[string]Value),
	}
}

// Parent returns the enclosing scope, or nil for a root scope.
func (e *Environment) Parent() *Environment { return e.parent }

// Get returns the value bound to ident in the nearest enclosing scope.
func (e *Environment) Get(ident string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[ident]; ok {
			return v, true
		}
	}

	return Value{}, false
}

// Put binds ident to v in this scope, shadowing any binding in a parent.
// It returns the value previously bound to ident in this scope, if any.
func (e *Environment) Put(ident string, v Value) (Value, bool) {
	prev, ok := e.values[ident]
	e.values[ident] = v

	return prev, ok
}

// Has reports whether ident is bound in this scope, ignoring parents.
func (e *Environment) Has(ident string) bool {
	_, ok := e.values[ident]

	return ok
}

// Len returns the number of bindings in this scope.
func (e *Environment) Len() int { return len(e.values) }

// Names returns the sorted, de-duplicated names visible from this scope.
func (e *Environment) Names() []string {
	seen := make(map[string]struct{})

	for env := e; env != nil; env = env.parent {
		for name := range env.values {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Local returns an iterator over the bindings of this scope in name order.
func (e *Environment) Local() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range slices.Sorted(maps.Keys(e.values)) {
			if !yield(name, e.values[name]) {
				return
			}
		}
	}
}
