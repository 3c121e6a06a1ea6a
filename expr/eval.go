package expr

import (
	"errors"
	"log/slog"
	"math"

	"github.com/ardnew/conifer/value"
)

var errDivZero = errors.New("division by zero")

// Evaluator reduces parsed expressions to values using a closed whitelist
// of syntax forms plus its own constant and function registries.
//
// The registries are owned by the Evaluator; there is no process-wide
// state. Populate them before evaluating and treat them as read-only
// afterwards: mutating a registry concurrently with evaluation is not
// supported.
type Evaluator struct {
	constants map[string]value.Value
	functions map[string]Func
}

// New returns an Evaluator loaded with the default registries:
// trigonometric and exponential functions (sin, cos, tan, exp, sqrt with
// alias root), summation, the type coercions int, float, bool, and str,
// and the constants pi/Pi/PI and e/E.
func New() *Evaluator {
	ev := &Evaluator{
		constants: make(map[string]value.Value),
		functions: make(map[string]Func),
	}

	ev.installDefaults()

	return ev
}

// RegisterConstant registers a named constant. A constant with the same
// name is overwritten without a warning.
func (ev *Evaluator) RegisterConstant(name string, v value.Value) {
	ev.constants[name] = v
}

// RegisterFunction registers a named function. A function with the same
// name is overwritten without a warning.
func (ev *Evaluator) RegisterFunction(name string, fn Func) {
	if fn == nil {
		return
	}

	ev.functions[name] = fn
}

// Constants returns the registered constant names.
func (ev *Evaluator) Constants() []string {
	return sortedKeys(ev.constants)
}

// Functions returns the registered function names.
func (ev *Evaluator) Functions() []string {
	return sortedKeys(ev.functions)
}

// Evaluate parses src and reduces it to a value.
//
// A source containing one expression statement yields that expression's
// value; several statements yield a list of their values in order, and an
// empty source yields an empty list.
func (ev *Evaluator) Evaluate(src string) (value.Value, error) {
	mod, err := Parse(src)
	if err != nil {
		return value.Value{}, err
	}

	if len(mod.Body) == 1 {
		return ev.eval(mod.Body[0])
	}

	vals := make([]value.Value, len(mod.Body))

	for i, stmt := range mod.Body {
		v, err := ev.eval(stmt)
		if err != nil {
			return value.Value{}, err
		}

		vals[i] = v
	}

	return value.ListOf(vals...), nil
}

// eval is the whitelist dispatch: one case per interpretable node kind,
// with every other kind — including the recognized-but-rejected ones —
// refused by name. This switch is the sandbox boundary; extending the
// language means adding a case here, never falling through to anything
// that can reach host execution.
func (ev *Evaluator) eval(n *Node) (value.Value, error) {
	switch n.Kind {
	case NodeLiteral:
		return ev.evalLiteral(n), nil

	case NodeName:
		return ev.evalName(n), nil

	case NodeBinary:
		return ev.evalBinary(n)

	case NodeUnary:
		return ev.evalUnary(n)

	case NodeBoolOp:
		return ev.evalBoolOp(n)

	case NodeCompare:
		return ev.evalCompare(n)

	case NodeList:
		elems, err := ev.evalAll(n.Elems)
		if err != nil {
			return value.Value{}, err
		}

		return value.ListOf(elems...), nil

	case NodeSet:
		elems, err := ev.evalAll(n.Elems)
		if err != nil {
			return value.Value{}, err
		}

		return value.SetOf(elems...), nil

	case NodeMap:
		return ev.evalMap(n)

	case NodeTuple:
		return ev.evalTuple(n), nil

	case NodeCall:
		return ev.evalCall(n)

	default:
		return value.Value{}, ErrUnsupportedSyntax.With(
			slog.String("kind", n.Kind.String()),
			slog.Int("offset", n.Pos),
		)
	}
}

func (ev *Evaluator) evalAll(nodes []*Node) ([]value.Value, error) {
	vals := make([]value.Value, len(nodes))

	for i, n := range nodes {
		v, err := ev.eval(n)
		if err != nil {
			return nil, err
		}

		vals[i] = v
	}

	return vals, nil
}

// evalLiteral resolves a literal, substituting a registered constant for a
// string literal whose text exactly matches the constant's name. The
// substitution is intentional: it lets configuration authors write bare
// words that resolve to constants without quoting conventions mattering.
func (ev *Evaluator) evalLiteral(n *Node) value.Value {
	if n.Lit.Kind == value.KindString {
		if c, ok := ev.constants[n.Lit.Text()]; ok {
			return c
		}
	}

	return n.Lit
}

// evalName resolves a bare identifier: a registered constant's value if
// one matches, otherwise the identifier's own spelling as a string.
// Unresolved names are not an error; they degrade to their literal text.
func (ev *Evaluator) evalName(n *Node) value.Value {
	if c, ok := ev.constants[n.Name]; ok {
		return c
	}

	return value.Str(n.Name)
}

func (ev *Evaluator) evalBinary(n *Node) (value.Value, error) {
	left, err := ev.eval(n.Left)
	if err != nil {
		return value.Value{}, err
	}

	right, err := ev.eval(n.Right)
	if err != nil {
		return value.Value{}, err
	}

	v, err := applyBinary(n.Op, left, right)
	if err != nil {
		return value.Value{}, err
	}

	return v, nil
}

func (ev *Evaluator) evalUnary(n *Node) (value.Value, error) {
	operand, err := ev.eval(n.Left)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case OpPos:
		if !operand.IsNumber() {
			return value.Value{}, ErrEvaluation.With(
				slog.String("op", "+"),
				slog.String("operand", operand.Kind.String()),
			)
		}

		return operand, nil

	case OpNeg:
		switch operand.Kind {
		case value.KindInt:
			return value.Int(-operand.Num()), nil
		case value.KindFloat:
			return value.Float(-operand.Real()), nil
		default:
			return value.Value{}, ErrEvaluation.With(
				slog.String("op", "-"),
				slog.String("operand", operand.Kind.String()),
			)
		}

	case OpNot:
		return value.Bool(!operand.Truth()), nil

	case OpInvert:
		switch operand.Kind {
		case value.KindInt, value.KindBool:
			return value.Int(^operand.Num()), nil
		default:
			return value.Value{}, ErrEvaluation.With(
				slog.String("op", "~"),
				slog.String("operand", operand.Kind.String()),
			)
		}

	default:
		return value.Value{}, ErrUnsupportedOperator.With(
			slog.String("op", n.Op.String()),
		)
	}
}

// evalBoolOp reduces an n-ary and/or. The result is a bool: all operands
// truthy for and, any operand truthy for or. Operands are all evaluated;
// there is no short-circuit, matching summation over the operand list.
func (ev *Evaluator) evalBoolOp(n *Node) (value.Value, error) {
	if len(n.Elems) < 2 {
		return value.Value{}, ErrArity.With(
			slog.String("op", n.Op.String()),
			slog.Int("operands", len(n.Elems)),
		)
	}

	vals, err := ev.evalAll(n.Elems)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case OpAnd:
		for _, v := range vals {
			if !v.Truth() {
				return value.Bool(false), nil
			}
		}

		return value.Bool(true), nil

	case OpOr:
		for _, v := range vals {
			if v.Truth() {
				return value.Bool(true), nil
			}
		}

		return value.Bool(false), nil

	default:
		return value.Value{}, ErrUnsupportedOperator.With(
			slog.String("op", n.Op.String()),
		)
	}
}

// evalCompare reduces a chained comparison pairwise: every link is
// computed against the previous comparand, the results are conjoined, and
// the left side advances to the new comparand whether or not the link
// held.
func (ev *Evaluator) evalCompare(n *Node) (value.Value, error) {
	left, err := ev.eval(n.Left)
	if err != nil {
		return value.Value{}, err
	}

	result := true

	for i, op := range n.Ops {
		right, err := ev.eval(n.Cmps[i])
		if err != nil {
			return value.Value{}, err
		}

		ok, err := applyCompare(op, left, right)
		if err != nil {
			return value.Value{}, err
		}

		result = result && ok
		left = right
	}

	return value.Bool(result), nil
}

func (ev *Evaluator) evalMap(n *Node) (value.Value, error) {
	pairs := make([]value.Pair, len(n.Keys))

	for i := range n.Keys {
		k, err := ev.eval(n.Keys[i])
		if err != nil {
			return value.Value{}, err
		}

		v, err := ev.eval(n.Vals[i])
		if err != nil {
			return value.Value{}, err
		}

		pairs[i] = value.Pair{Key: k, Val: v}
	}

	return value.MapOf(pairs...), nil
}

// evalTuple builds the lazy sequence a tuple literal denotes. Elements
// are not evaluated here: each is reduced on demand as the sequence is
// consumed, and the stream is single-pass.
func (ev *Evaluator) evalTuple(n *Node) value.Value {
	elems := n.Elems
	i := 0

	return value.Seq(value.NewSequence(
		func() (value.Value, error, bool) {
			if i >= len(elems) {
				return value.Value{}, nil, false
			}

			e := elems[i]
			i++

			v, err := ev.eval(e)
			if err != nil {
				return value.Value{}, err, false
			}

			return v, nil, true
		},
	))
}

// evalCall applies a registered function. Only the bare-name call form is
// permitted: any other target, and any starred argument, is refused as
// unsupported syntax before the registry is even consulted.
func (ev *Evaluator) evalCall(n *Node) (value.Value, error) {
	if n.Target == nil || n.Target.Kind != NodeName {
		kind := "call target"
		if n.Target != nil {
			kind = "call via " + n.Target.Kind.String()
		}

		return value.Value{}, ErrUnsupportedSyntax.With(
			slog.String("kind", kind),
			slog.Int("offset", n.Pos),
		)
	}

	name := n.Target.Name

	fn, ok := ev.functions[name]
	if !ok {
		return value.Value{}, ErrUnknownFunction.With(
			slog.String("function", name),
		)
	}

	args := make([]value.Value, len(n.Args))

	for i, a := range n.Args {
		if a.Kind == NodeStarred {
			return value.Value{}, ErrUnsupportedSyntax.With(
				slog.String("kind", "argument spreading"),
				slog.Int("offset", a.Pos),
			)
		}

		v, err := ev.eval(a)
		if err != nil {
			return value.Value{}, err
		}

		args[i] = v
	}

	var kwargs map[string]value.Value

	if len(n.Kwargs) > 0 {
		kwargs = make(map[string]value.Value, len(n.Kwargs))

		for _, kw := range n.Kwargs {
			v, err := ev.eval(kw.Value)
			if err != nil {
				return value.Value{}, err
			}

			kwargs[kw.Name] = v
		}
	}

	res, err := fn(args, kwargs)
	if err != nil {
		return value.Value{}, ErrEvaluation.Wrap(err).With(
			slog.String("function", name),
		)
	}

	return res, nil
}

// applyBinary applies the fixed arithmetic operator table. Operators the
// parser recognizes but the table omits (the bitwise family) fail with
// ErrUnsupportedOperator.
func applyBinary(op Operator, left, right value.Value) (value.Value, error) {
	switch op {
	case OpAdd:
		return applyAdd(left, right)

	case OpSub:
		return numericBinary("-", left, right,
			func(x, y int64) (int64, error) { return x - y, nil },
			func(x, y float64) (float64, error) { return x - y, nil },
		)

	case OpMul:
		return applyMul(left, right)

	case OpDiv:
		if !left.IsNumber() || !right.IsNumber() {
			return value.Value{}, typeMismatch("/", left, right)
		}

		if right.Real() == 0 {
			return value.Value{}, ErrEvaluation.With(
				slog.String("op", "/"),
				slog.String("detail", "division by zero"),
			)
		}

		// True division always yields a float.
		return value.Float(left.Real() / right.Real()), nil

	case OpFloorDiv:
		return numericBinary("//", left, right, floorDivInt, floorDivFloat)

	case OpMod:
		return numericBinary("%", left, right, modInt, modFloat)

	case OpPow:
		return applyPow(left, right)

	case OpBitOr, OpBitXor, OpBitAnd, OpShiftL, OpShiftR:
		return value.Value{}, ErrUnsupportedOperator.With(
			slog.String("op", op.String()),
		)

	default:
		return value.Value{}, ErrUnsupportedOperator.With(
			slog.String("op", op.String()),
		)
	}
}

// applyAdd implements +: numeric addition, string concatenation, and list
// concatenation.
func applyAdd(left, right value.Value) (value.Value, error) {
	switch {
	case left.IsNumber() && right.IsNumber():
		if left.Kind == value.KindInt && right.Kind == value.KindInt {
			return value.Int(left.Num() + right.Num()), nil
		}

		return value.Float(left.Real() + right.Real()), nil

	case left.Kind == value.KindString && right.Kind == value.KindString:
		return value.Str(left.Text() + right.Text()), nil

	case left.Kind == value.KindList && right.Kind == value.KindList:
		elems := make([]value.Value, 0, len(left.Items())+len(right.Items()))
		elems = append(elems, left.Items()...)
		elems = append(elems, right.Items()...)

		return value.ListOf(elems...), nil

	default:
		return value.Value{}, typeMismatch("+", left, right)
	}
}

// applyMul implements *: numeric product plus string and list repetition
// by an integer count (in either operand order).
func applyMul(left, right value.Value) (value.Value, error) {
	if left.IsNumber() && right.IsNumber() {
		if left.Kind == value.KindInt && right.Kind == value.KindInt {
			return value.Int(left.Num() * right.Num()), nil
		}

		return value.Float(left.Real() * right.Real()), nil
	}

	// Normalize to subject * count.
	subject, count := left, right
	if subject.Kind == value.KindInt {
		subject, count = right, left
	}

	if count.Kind != value.KindInt {
		return value.Value{}, typeMismatch("*", left, right)
	}

	n := count.Num()
	if n < 0 {
		n = 0
	}

	switch subject.Kind {
	case value.KindString:
		var sb []byte
		for range n {
			sb = append(sb, subject.Text()...)
		}

		return value.Str(string(sb)), nil

	case value.KindList:
		elems := make([]value.Value, 0, int(n)*len(subject.Items()))
		for range n {
			elems = append(elems, subject.Items()...)
		}

		return value.ListOf(elems...), nil

	default:
		return value.Value{}, typeMismatch("*", left, right)
	}
}

// applyPow implements **: an integer base with a non-negative integer
// exponent stays integral while the result fits in int64; everything
// else goes through float.
func applyPow(left, right value.Value) (value.Value, error) {
	if !left.IsNumber() || !right.IsNumber() {
		return value.Value{}, typeMismatch("**", left, right)
	}

	if left.Kind == value.KindInt && right.Kind == value.KindInt &&
		right.Num() >= 0 {
		result := int64(1)
		base := left.Num()
		fits := true

		for range right.Num() {
			next := result * base
			if base != 0 && next/base != result {
				// Past the int64 range the result degrades to
				// float, the same as an oversized literal.
				fits = false

				break
			}

			result = next
		}

		if fits {
			return value.Int(result), nil
		}
	}

	if left.Real() == 0 && right.Real() < 0 {
		return value.Value{}, ErrEvaluation.With(
			slog.String("op", "**"),
			slog.String("detail", "zero raised to a negative power"),
		)
	}

	return value.Float(math.Pow(left.Real(), right.Real())), nil
}

// numericBinary applies an operator defined only on numbers, keeping
// int/int integral and promoting mixed operands to float.
func numericBinary(
	opText string,
	left, right value.Value,
	intFn func(x, y int64) (int64, error),
	floatFn func(x, y float64) (float64, error),
) (value.Value, error) {
	if !left.IsNumber() || !right.IsNumber() {
		return value.Value{}, typeMismatch(opText, left, right)
	}

	if left.Kind == value.KindInt && right.Kind == value.KindInt {
		v, err := intFn(left.Num(), right.Num())
		if err != nil {
			return value.Value{}, ErrEvaluation.Wrap(err).With(
				slog.String("op", opText),
			)
		}

		return value.Int(v), nil
	}

	v, err := floatFn(left.Real(), right.Real())
	if err != nil {
		return value.Value{}, ErrEvaluation.Wrap(err).With(
			slog.String("op", opText),
		)
	}

	return value.Float(v), nil
}

func typeMismatch(opText string, left, right value.Value) error {
	return ErrEvaluation.With(
		slog.String("op", opText),
		slog.String("left", left.Kind.String()),
		slog.String("right", right.Kind.String()),
	)
}

// applyCompare computes one link of a comparison chain.
func applyCompare(op Operator, left, right value.Value) (bool, error) {
	switch op {
	case OpEq:
		return value.Equal(left, right), nil

	case OpNe:
		return !value.Equal(left, right), nil

	case OpLt, OpLe, OpGt, OpGe:
		c, err := value.Compare(left, right)
		if err != nil {
			return false, ErrEvaluation.Wrap(err).With(
				slog.String("op", op.String()),
			)
		}

		switch op {
		case OpLt:
			return c < 0, nil
		case OpLe:
			return c <= 0, nil
		case OpGt:
			return c > 0, nil
		default:
			return c >= 0, nil
		}

	case OpIs:
		// Identity degrades to same-kind equality in a value model
		// without shared references.
		return left.Kind == right.Kind && value.Equal(left, right), nil

	case OpIsNot:
		return left.Kind != right.Kind || !value.Equal(left, right), nil

	case OpIn:
		ok, err := value.Contains(right, left)
		if err != nil {
			return false, ErrEvaluation.Wrap(err).With(
				slog.String("op", "in"),
			)
		}

		return ok, nil

	case OpNotIn:
		ok, err := value.Contains(right, left)
		if err != nil {
			return false, ErrEvaluation.Wrap(err).With(
				slog.String("op", "not in"),
			)
		}

		return !ok, nil

	default:
		return false, ErrUnsupportedOperator.With(
			slog.String("op", op.String()),
		)
	}
}

// Floored division and modulo follow sign-of-divisor semantics so the
// identity x == (x//y)*y + x%y holds for negative operands too.

func floorDivInt(x, y int64) (int64, error) {
	if y == 0 {
		return 0, errDivZero
	}

	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}

	return q, nil
}

func floorDivFloat(x, y float64) (float64, error) {
	if y == 0 {
		return 0, errDivZero
	}

	return math.Floor(x / y), nil
}

func modInt(x, y int64) (int64, error) {
	if y == 0 {
		return 0, errDivZero
	}

	r := x % y
	if r != 0 && ((r < 0) != (y < 0)) {
		r += y
	}

	return r, nil
}

func modFloat(x, y float64) (float64, error) {
	if y == 0 {
		return 0, errDivZero
	}

	r := math.Mod(x, y)
	if r != 0 && ((r < 0) != (y < 0)) {
		r += y
	}

	return r, nil
}
