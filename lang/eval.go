package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/inty/log"
)

// Evaluate executes the statements of prog in order against env.
//
// The result holds one entry per top-level statement; an entry is nil when
// its statement produced no value (a let binding, or an if whose branch was
// not taken). Bindings made by top-level let statements are written to env
// and persist after Evaluate returns. The first error aborts evaluation and
// no partial results are returned, though bindings made by statements that
// completed before the error remain in env.
func Evaluate(
	ctx context.Context,
	prog Program,
	env *Environment,
	opts ...Option,
) ([]*Value, error) {
	o := makeOptions(opts...)

	if env == nil {
		env = NewEnvironment(nil)
	}

	ev := &evaluator{ctx: ctx, logger: o.logger}

	ev.logger.TraceContext(
		ctx,
		"evaluate start",
		slog.Int("statement_count", len(prog)),
	)

	results := make([]*Value, 0, len(prog))

	for i, stmt := range prog {
		v, err := ev.evalStmt(stmt, env)
		if err != nil {
			ev.logger.TraceContext(
				ctx,
				"evaluate failed",
				slog.Int("statement", i),
				slog.Any("error", err),
			)

			return nil, err
		}

		results = append(results, v)
	}

	ev.logger.TraceContext(
		ctx,
		"evaluate complete",
		slog.Int("result_count", len(results)),
	)

	return results, nil
}

// evaluator holds the state for recursive evaluation.
type evaluator struct {
	ctx    context.Context
	logger log.Logger
}

// evalStmt evaluates a statement. A nil result means no value.
func (ev *evaluator) evalStmt(s *Stmt, env *Environment) (*Value, error) {
	switch s.Kind {
	case StmtExpr:
		v, err := ev.evalExpr(s.Expr, env)
		if err != nil {
			return nil, err
		}

		return &v, nil

	case StmtLet:
		v, err := ev.evalExpr(s.Expr, env)
		if err != nil {
			return nil, err
		}

		_, rebound := env.Put(s.Name, v)

		ev.logger.TraceContext(
			ev.ctx,
			"bind",
			slog.String("name", s.Name),
			slog.Any("value", v),
			slog.Bool("rebound", rebound),
		)

		return nil, nil

	case StmtIf:
		return ev.evalIf(s, env)

	case StmtBlock:
		return ev.evalBlock(s, env)

	default:
		return nil, ErrLogic.
			Wrapf("invalid statement").
			With(slog.String("kind", s.Kind.String()))
	}
}

func (ev *evaluator) evalIf(s *Stmt, env *Environment) (*Value, error) {
	test, err := ev.evalExpr(s.Expr, env)
	if err != nil {
		return nil, err
	}

	ok, err := test.Truthy()
	if err != nil {
		return nil, err
	}

	switch {
	case ok:
		return ev.evalStmt(s.Then, env)

	case s.Else != nil:
		return ev.evalStmt(s.Else, env)

	default:
		return nil, nil
	}
}

// evalBlock evaluates the body of a block in a fresh child scope, which is
// discarded afterward. The result is that of the final statement.
func (ev *evaluator) evalBlock(s *Stmt, env *Environment) (*Value, error) {
	if len(s.Body) == 0 {
		return nil, ErrLogic.Wrapf("block contained no return value")
	}

	scope := NewEnvironment(env)

	var last *Value

	for _, stmt := range s.Body {
		v, err := ev.evalStmt(stmt, scope)
		if err != nil {
			return nil, err
		}

		last = v
	}

	return last, nil
}

func (ev *evaluator) evalExpr(e *Expr, env *Environment) (Value, error) {
	switch e.Kind {
	case ExprInteger:
		return Int(e.Int), nil

	case ExprBool:
		return Bool(e.Bool), nil

	case ExprIdent:
		v, ok := env.Get(e.Name)
		if !ok {
			return Value{}, ErrUnknownIdentifier.
				Wrapf("%s", e.Name).
				With(slog.String("ident", e.Name))
		}

		return v, nil

	case ExprUnary:
		return ev.evalUnary(e, env)

	case ExprBinary:
		return ev.evalBinary(e, env)

	case ExprLogical:
		return ev.evalLogical(e, env)

	case ExprRelational:
		return ev.evalRelational(e, env)

	case ExprList:
		elems := make([]Value, len(e.Elems))

		for i, elem := range e.Elems {
			v, err := ev.evalExpr(elem, env)
			if err != nil {
				return Value{}, err
			}

			elems[i] = v
		}

		return List(elems...), nil

	default:
		return Value{}, ErrLogic.
			Wrapf("invalid expression").
			With(slog.String("kind", e.Kind.String()))
	}
}

func (ev *evaluator) evalUnary(e *Expr, env *Environment) (Value, error) {
	v, err := ev.evalExpr(e.Operand, env)
	if err != nil {
		return Value{}, err
	}

	switch e.UnOp {
	case UnPlus:
		return v, nil

	case UnNot:
		b, err := v.Truthy()
		if err != nil {
			return Value{}, err
		}

		return Bool(!b), nil
	}

	n, err := operand(e.UnOp.String(), v)
	if err != nil {
		return Value{}, err
	}

	return Int(-n), nil
}

// evalBinary evaluates arithmetic. Results wrap on 32-bit overflow.
func (ev *evaluator) evalBinary(e *Expr, env *Environment) (Value, error) {
	lv, rv, err := ev.evalOperands(e, env)
	if err != nil {
		return Value{}, err
	}

	op := e.BinOp.String()

	l, err := operand(op, lv)
	if err != nil {
		return Value{}, err
	}

	r, err := operand(op, rv)
	if err != nil {
		return Value{}, err
	}

	switch e.BinOp {
	case BinAdd:
		return Int(l + r), nil

	case BinSub:
		return Int(l - r), nil

	case BinMul:
		return Int(l * r), nil

	case BinDiv:
		if r == 0 {
			return Value{}, ErrDivideByZero.With(slog.Int("dividend", int(l)))
		}

		// math.MinInt32 / -1 wraps to math.MinInt32.
		return Int(l / r), nil

	case BinPow:
		if r < 0 {
			return Value{}, ErrLogic.
				Wrapf("power must be a non-negative integer").
				With(slog.Int("exponent", int(r)))
		}

		return Int(ipow(l, r)), nil

	default:
		return Value{}, ErrLogic.Wrapf("invalid arithmetic operator %s", op)
	}
}

// evalLogical evaluates both operands before combining them.
func (ev *evaluator) evalLogical(e *Expr, env *Environment) (Value, error) {
	lv, rv, err := ev.evalOperands(e, env)
	if err != nil {
		return Value{}, err
	}

	l, err := lv.Truthy()
	if err != nil {
		return Value{}, err
	}

	r, err := rv.Truthy()
	if err != nil {
		return Value{}, err
	}

	if e.LogOp == LogAnd {
		return Bool(l && r), nil
	}

	return Bool(l || r), nil
}

func (ev *evaluator) evalRelational(e *Expr, env *Environment) (Value, error) {
	lv, rv, err := ev.evalOperands(e, env)
	if err != nil {
		return Value{}, err
	}

	if lv.Kind != rv.Kind {
		return Value{}, ErrType.
			Wrapf("cannot compare %s with %s", lv.Kind, rv.Kind).
			With(slog.String("operator", e.RelOp.String()))
	}

	switch e.RelOp {
	case RelEq:
		return Bool(lv.Equal(rv)), nil

	case RelNe:
		return Bool(!lv.Equal(rv)), nil
	}

	if lv.Kind != ValueInteger {
		return Value{}, ErrType.
			Wrapf("cannot order %s values with %s", lv.Kind, e.RelOp)
	}

	l, r := lv.num, rv.num

	switch e.RelOp {
	case RelGt:
		return Bool(l > r), nil
	case RelLt:
		return Bool(l < r), nil
	case RelGe:
		return Bool(l >= r), nil
	case RelLe:
		return Bool(l <= r), nil
	default:
		return Value{}, ErrLogic.Wrapf("invalid comparison operator %s", e.RelOp)
	}
}

// evalOperands evaluates the left operand, then the right.
func (ev *evaluator) evalOperands(
	e *Expr,
	env *Environment,
) (left, right Value, err error) {
	left, err = ev.evalExpr(e.Left, env)
	if err != nil {
		return Value{}, Value{}, err
	}

	right, err = ev.evalExpr(e.Right, env)
	if err != nil {
		return Value{}, Value{}, err
	}

	return left, right, nil
}

// operand returns the integer held by v, or a type error naming op.
func operand(op string, v Value) (int32, error) {
	if v.Kind != ValueInteger {
		return 0, ErrType.
			Wrapf("operator %s requires Integer operands, found %s", op, v.Kind).
			With(slog.String("value", v.String()))
	}

	return v.num, nil
}

// ipow computes base^exp by repeated squaring with wrapping multiplication.
func ipow(base, exp int32) int32 {
	result := int32(1)

	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}

		base *= base
		exp >>= 1
	}

	return result
}
