package lang

import (
	"log/slog"
	"strconv"
	"strings"
)

// ValueKind indicates the runtime type of a [Value].
type ValueKind int

const (
	// ValueInteger is a 32-bit signed integer.
	ValueInteger ValueKind = iota

	// ValueBool is a boolean.
	ValueBool

	// ValueList is an ordered sequence of values.
	ValueList
)

// String returns a string representation of the value kind.
func (k ValueKind) String() string {
	switch k {
	case ValueInteger:
		return "Integer"

	case ValueBool:
		return "Bool"

	case ValueList:
		return "List"

	default:
		return "Unknown"
	}
}

// Value is a runtime value produced by evaluation.
type Value struct {
	Kind  ValueKind
	num   int32
	flag  bool
	elems []Value
}

// Int creates an integer [Value].
func Int(n int32) Value { return Value{Kind: ValueInteger, num: n} }

// Bool creates a boolean [Value].
func Bool(b bool) Value { return Value{Kind: ValueBool, flag: b} }

// List creates a list [Value] holding elems.
func List(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}

	return Value{Kind: ValueList, elems: elems}
}

// Integer returns the integer held by v.
func (v Value) Integer() (int32, error) {
	if v.Kind != ValueInteger {
		return 0, v.mismatch(ValueInteger)
	}

	return v.num, nil
}

// Boolean returns the boolean held by v.
// Unlike [Value.Truthy], no coercion is performed.
func (v Value) Boolean() (bool, error) {
	if v.Kind != ValueBool {
		return false, v.mismatch(ValueBool)
	}

	return v.flag, nil
}

// Elements returns the elements held by v.
// The returned slice must not be modified.
func (v Value) Elements() ([]Value, error) {
	if v.Kind != ValueList {
		return nil, v.mismatch(ValueList)
	}

	return v.elems, nil
}

// Truthy converts v to a boolean for use in conditions and logical
// operators. A Bool is itself and an Integer is true when positive.
// Lists have no truth value.
func (v Value) Truthy() (bool, error) {
	switch v.Kind {
	case ValueBool:
		return v.flag, nil

	case ValueInteger:
		return v.num > 0, nil

	default:
		return false, ErrType.
			Wrapf("%s has no truth value", v.Kind).
			With(slog.String("value", v.String()))
	}
}

// Equal reports whether v and other have the same kind and contents.
// Lists are compared element by element.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}

	switch v.Kind {
	case ValueInteger:
		return v.num == other.num

	case ValueBool:
		return v.flag == other.flag

	case ValueList:
		if len(v.elems) != len(other.elems) {
			return false
		}

		for i := range v.elems {
			if !v.elems[i].Equal(other.elems[i]) {
				return false
			}
		}

		return true

	default:
		return false
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	if v.Kind != ValueList {
		return v
	}

	elems := make([]Value, len(v.elems))
	for i, elem := range v.elems {
		elems[i] = elem.Clone()
	}

	return Value{Kind: ValueList, elems: elems}
}

// String renders v as source-like text: integers in decimal, booleans as
// true or false, and lists as [a, b, c].
func (v Value) String() string {
	var sb strings.Builder

	v.writeTo(&sb)

	return sb.String()
}

func (v Value) writeTo(sb *strings.Builder) {
	switch v.Kind {
	case ValueInteger:
		sb.WriteString(strconv.FormatInt(int64(v.num), 10))

	case ValueBool:
		sb.WriteString(strconv.FormatBool(v.flag))

	case ValueList:
		sb.WriteByte('[')

		for i, elem := range v.elems {
			if i > 0 {
				sb.WriteString(", ")
			}

			elem.writeTo(sb)
		}

		sb.WriteByte(']')
	}
}

// Native converts v to plain Go data: int32, bool, or []any.
func (v Value) Native() any {
	switch v.Kind {
	case ValueInteger:
		return v.num

	case ValueBool:
		return v.flag

	case ValueList:
		out := make([]any, len(v.elems))
		for i, elem := range v.elems {
			out[i] = elem.Native()
		}

		return out

	default:
		return nil
	}
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", v.Kind.String()),
		slog.String("value", v.String()),
	)
}

func (v Value) mismatch(want ValueKind) *Error {
	return ErrType.
		Wrapf("expected %s, found %s", want, v.Kind).
		With(slog.String("value", v.String()))
}
