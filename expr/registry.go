package expr

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/conifer/value"
)

// Func is a registered function. Positional arguments arrive in order;
// keyword arguments arrive by name (nil when the call used none).
// A returned error surfaces to the caller wrapped in ErrEvaluation.
type Func func(args []value.Value, kwargs map[string]value.Value) (value.Value, error)

// installDefaults populates the registries every new Evaluator starts
// with, mirroring what configuration authors expect out of the box.
func (ev *Evaluator) installDefaults() {
	for _, name := range []string{"pi", "Pi", "PI"} {
		ev.constants[name] = value.Float(math.Pi)
	}

	for _, name := range []string{"e", "E"} {
		ev.constants[name] = value.Float(math.E)
	}

	ev.functions["sin"] = mathFunc("sin", math.Sin)
	ev.functions["cos"] = mathFunc("cos", math.Cos)
	ev.functions["tan"] = mathFunc("tan", math.Tan)
	ev.functions["exp"] = mathFunc("exp", math.Exp)
	ev.functions["sqrt"] = mathFunc("sqrt", math.Sqrt)
	ev.functions["root"] = mathFunc("root", math.Sqrt)

	ev.functions["sum"] = sumFunc
	ev.functions["int"] = intFunc
	ev.functions["float"] = floatFunc
	ev.functions["bool"] = boolFunc
	ev.functions["str"] = strFunc
}

// mathFunc adapts a float64 function of one argument to the registry.
func mathFunc(name string, fn func(float64) float64) Func {
	return func(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if err := exactly(name, args, kwargs, 1); err != nil {
			return value.Value{}, err
		}

		if !args[0].IsNumber() {
			return value.Value{}, fmt.Errorf(
				"%s expects a number, got %s", name, args[0].Kind)
		}

		return value.Float(fn(args[0].Real())), nil
	}
}

// sumFunc adds the elements of a list, set, or sequence, with an optional
// second argument (or start=) as the initial total. The total stays
// integral until a float element appears.
func sumFunc(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return value.Value{}, fmt.Errorf(
			"sum expects 1 or 2 arguments, got %d", len(args))
	}

	total := value.Int(0)

	if len(args) == 2 {
		total = args[1]
	}

	if start, ok := kwargs["start"]; ok {
		total = start
	}

	if !total.IsNumber() {
		return value.Value{}, fmt.Errorf(
			"sum start must be a number, got %s", total.Kind)
	}

	elems, err := iterate(args[0])
	if err != nil {
		return value.Value{}, fmt.Errorf("sum: %w", err)
	}

	for _, e := range elems {
		if !e.IsNumber() {
			return value.Value{}, fmt.Errorf(
				"sum element must be a number, got %s", e.Kind)
		}

		if total.Kind == value.KindInt && e.Kind == value.KindInt {
			total = value.Int(total.Num() + e.Num())
		} else {
			total = value.Float(total.Real() + e.Real())
		}
	}

	return total, nil
}

// iterate returns the elements of any iterable value, draining sequences.
func iterate(v value.Value) ([]value.Value, error) {
	switch v.Kind {
	case value.KindList, value.KindSet:
		return v.Items(), nil

	case value.KindSequence:
		return v.Stream().Drain()

	default:
		return nil, fmt.Errorf("%s is not iterable", v.Kind)
	}
}

func intFunc(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if err := exactly("int", args, kwargs, 1); err != nil {
		return value.Value{}, err
	}

	v := args[0]

	switch v.Kind {
	case value.KindInt:
		return v, nil

	case value.KindBool:
		return value.Int(v.Num()), nil

	case value.KindFloat:
		// Truncation toward zero.
		return value.Int(int64(v.Real())), nil

	case value.KindString:
		i, err := strconv.ParseInt(strings.TrimSpace(v.Text()), 10, 64)
		if err != nil {
			return value.Value{}, fmt.Errorf(
				"int: invalid literal %q", v.Text())
		}

		return value.Int(i), nil

	default:
		return value.Value{}, fmt.Errorf("int: cannot convert %s", v.Kind)
	}
}

func floatFunc(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if err := exactly("float", args, kwargs, 1); err != nil {
		return value.Value{}, err
	}

	v := args[0]

	switch v.Kind {
	case value.KindFloat:
		return v, nil

	case value.KindInt, value.KindBool:
		return value.Float(v.Real()), nil

	case value.KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text()), 64)
		if err != nil {
			return value.Value{}, fmt.Errorf(
				"float: invalid literal %q", v.Text())
		}

		return value.Float(f), nil

	default:
		return value.Value{}, fmt.Errorf("float: cannot convert %s", v.Kind)
	}
}

func boolFunc(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if err := exactly("bool", args, kwargs, 1); err != nil {
		return value.Value{}, err
	}

	return value.Bool(args[0].Truth()), nil
}

func strFunc(args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if err := exactly("str", args, kwargs, 1); err != nil {
		return value.Value{}, err
	}

	// Strings pass through unquoted; everything else renders as its
	// literal form.
	if args[0].Kind == value.KindString {
		return args[0], nil
	}

	return value.Str(args[0].String()), nil
}

// exactly validates a fixed positional arity with no keywords.
func exactly(name string, args []value.Value, kwargs map[string]value.Value, n int) error {
	if len(kwargs) > 0 {
		return fmt.Errorf("%s accepts no keyword arguments", name)
	}

	if len(args) != n {
		return fmt.Errorf("%s expects %d argument(s), got %d", name, n, len(args))
	}

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
