package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors returned by this package always match exactly one of these with
// [errors.Is], regardless of how many attributes or causes were attached.
var (
	ErrLexical           = NewError("lexical error")
	ErrSyntax            = NewError("syntax error")
	ErrMaxDepth          = NewError("maximum nesting depth exceeded")
	ErrUnknownIdentifier = NewError("unknown identifier")
	ErrType              = NewError("type error")
	ErrDivideByZero      = NewError("cannot divide by zero")
	ErrLogic             = NewError("logic error")
	ErrReadInput         = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	base  *Error      // Sentinel this error was derived from
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.base = e

	return e
}

// WrapError wraps a standard error into an Error.
// Errors that already are (or wrap) an Error are returned as-is.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return e.base != nil && e.base == t.base
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns a copy of the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
		base:  e.base,
	}
}

// Wrapf creates a new Error wrapping a formatted message.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
		base:  e.base,
	}
}

// ErrorKind classifies errors by the stage and rule that produced them.
type ErrorKind int

const (
	KindUnknown             ErrorKind = iota // unknown
	KindLexical                              // lexical
	KindSyntactic                            // syntactic
	KindUnresolvedReference                  // unresolved reference
	KindType                                 // type
	KindDivideByZero                         // divide by zero
	KindLogic                                // logic
	KindIO                                   // io
)

// String returns the name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindSyntactic:
		return "syntactic"
	case KindUnresolvedReference:
		return "unresolved reference"
	case KindType:
		return "type"
	case KindDivideByZero:
		return "divide by zero"
	case KindLogic:
		return "logic"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Kind returns the classification of err.
// A nil error, or one not produced by this package, is [KindUnknown].
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrLexical):
		return KindLexical
	case errors.Is(err, ErrSyntax), errors.Is(err, ErrMaxDepth):
		return KindSyntactic
	case errors.Is(err, ErrUnknownIdentifier):
		return KindUnresolvedReference
	case errors.Is(err, ErrType):
		return KindType
	case errors.Is(err, ErrDivideByZero):
		return KindDivideByZero
	case errors.Is(err, ErrLogic):
		return KindLogic
	case errors.Is(err, ErrReadInput):
		return KindIO
	default:
		return KindUnknown
	}
}
