package expr

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/ardnew/conifer/value"
)

// mustEval evaluates src with a fresh default Evaluator and fails the test
// on error.
func mustEval(t *testing.T, src string) value.Value {
	t.Helper()

	v, err := New().Evaluate(src)
	if err != nil {
		t.Fatalf("Evaluate(%q): %v", src, err)
	}

	return v
}

func TestEvaluateArithmetic(t *testing.T) {
	for _, tt := range []struct {
		src  string
		want value.Value
	}{
		{"1 + 2", value.Int(3)},
		{"10 - 4", value.Int(6)},
		{"3 * 7", value.Int(21)},
		{"6 / 3", value.Float(2)},
		{"1 / 2", value.Float(0.5)},
		{"7 // 2", value.Int(3)},
		{"-7 // 2", value.Int(-4)},
		{"7 % 3", value.Int(1)},
		{"-7 % 3", value.Int(2)},
		{"7 % -3", value.Int(-2)},
		{"2 ** 10", value.Int(1024)},
		{"2 ** -1", value.Float(0.5)},
		{"2.5 + 1", value.Float(3.5)},
		{"1 + 2 * 3", value.Int(7)},
		{"(1 + 2) * 3", value.Int(9)},
		{"2 ** 3 ** 2", value.Int(512)},
		{"-2 ** 2", value.Int(-4)},
		{"7.0 // 2", value.Float(3)},
		{"7.5 % 2", value.Float(1.5)},
	} {
		t.Run(tt.src, func(t *testing.T) {
			got := mustEval(t, tt.src)
			if !value.Equal(got, tt.want) || got.Kind != tt.want.Kind {
				t.Errorf("Evaluate(%q) = %s (%s), want %s (%s)",
					tt.src, got, got.Kind, tt.want, tt.want.Kind)
			}
		})
	}
}

func TestEvaluateNumericLiterals(t *testing.T) {
	for _, tt := range []struct {
		src  string
		want value.Value
	}{
		{"0x10", value.Int(16)},
		{"0o17", value.Int(15)},
		{"0b101", value.Int(5)},
		{"1_000_000", value.Int(1000000)},
		{"1.5e3", value.Float(1500)},
		{"3e8", value.Float(3e8)},
		{".5", value.Float(0.5)},
		{"2.", value.Float(2)},
	} {
		t.Run(tt.src, func(t *testing.T) {
			got := mustEval(t, tt.src)
			if !value.Equal(got, tt.want) || got.Kind != tt.want.Kind {
				t.Errorf("Evaluate(%q) = %s (%s), want %s (%s)",
					tt.src, got, got.Kind, tt.want, tt.want.Kind)
			}
		})
	}
}

func TestEvaluateIntOverflowBecomesFloat(t *testing.T) {
	got := mustEval(t, "9223372036854775808")

	if got.Kind != value.KindFloat {
		t.Fatalf("overflowing literal: kind = %s, want float", got.Kind)
	}

	if got.Real() != 9223372036854775808.0 {
		t.Errorf("overflowing literal = %v", got.Real())
	}
}

func TestEvaluatePowOverflowBecomesFloat(t *testing.T) {
	for _, tt := range []struct {
		src  string
		want float64
	}{
		{"2 ** 64", math.Pow(2, 64)},
		{"10 ** 19", math.Pow(10, 19)},
		{"(-2) ** 65", math.Pow(-2, 65)},
	} {
		got := mustEval(t, tt.src)

		if got.Kind != value.KindFloat {
			t.Fatalf("%s: kind = %s, want float", tt.src, got.Kind)
		}

		if got.Real() != tt.want {
			t.Errorf("%s = %v, want %v", tt.src, got.Real(), tt.want)
		}
	}

	// Results that still fit stay integral.
	if got := mustEval(t, "2 ** 62"); got.Kind != value.KindInt ||
		got.Num() != 1<<62 {
		t.Errorf("2 ** 62 = %s, want int %d", got, int64(1)<<62)
	}
}

func TestEvaluateStringsAndLists(t *testing.T) {
	for _, tt := range []struct {
		src  string
		want value.Value
	}{
		{"'ab' + 'cd'", value.Str("abcd")},
		{"'ab' * 3", value.Str("ababab")},
		{"3 * 'ab'", value.Str("ababab")},
		{"'ab' * 0", value.Str("")},
		{"'ab' * -1", value.Str("")},
		{"[1, 2] + [3]", value.ListOf(value.Int(1), value.Int(2), value.Int(3))},
		{"[1] * 2", value.ListOf(value.Int(1), value.Int(1))},
		{"'a\\nb'", value.Str("a\nb")},
		{"'\\x41'", value.Str("A")},
		{"\"it's\"", value.Str("it's")},
	} {
		t.Run(tt.src, func(t *testing.T) {
			got := mustEval(t, tt.src)
			if !value.Equal(got, tt.want) {
				t.Errorf("Evaluate(%q) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvaluateUnary(t *testing.T) {
	for _, tt := range []struct {
		src  string
		want value.Value
	}{
		{"-5", value.Int(-5)},
		{"+5", value.Int(5)},
		{"-2.5", value.Float(-2.5)},
		{"~5", value.Int(-6)},
		{"~True", value.Int(-2)},
		{"not 0", value.Bool(true)},
		{"not 'x'", value.Bool(false)},
		{"not []", value.Bool(true)},
		{"--3", value.Int(3)},
	} {
		t.Run(tt.src, func(t *testing.T) {
			got := mustEval(t, tt.src)
			if !value.Equal(got, tt.want) || got.Kind != tt.want.Kind {
				t.Errorf("Evaluate(%q) = %s (%s), want %s (%s)",
					tt.src, got, got.Kind, tt.want, tt.want.Kind)
			}
		})
	}
}

func TestEvaluateComparisons(t *testing.T) {
	for _, tt := range []struct {
		src  string
		want bool
	}{
		{"1 < 2", true},
		{"2 <= 2", true},
		{"3 > 4", false},
		{"1 == 1.0", true},
		{"1 != 1.0", false},
		{"True == 1", false},
		{"'abc' < 'abd'", true},
		{"1 < 2 < 3", true},
		{"1 < 2 > 5", false},
		{"3 > 2 > 1", true},
		{"1 is 1", true},
		{"1 is 1.0", false},
		{"1 is not 1.0", true},
		{"2 in [1, 2, 3]", true},
		{"4 in [1, 2, 3]", false},
		{"4 not in [1, 2, 3]", true},
		{"'b' in 'abc'", true},
		{"'a' in {'a': 1}", true},
		{"2 in {1, 2}", true},
	} {
		t.Run(tt.src, func(t *testing.T) {
			got := mustEval(t, tt.src)
			if got.Kind != value.KindBool || got.IsTrue() != tt.want {
				t.Errorf("Evaluate(%q) = %s, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvaluateBoolOps(t *testing.T) {
	for _, tt := range []struct {
		src  string
		want bool
	}{
		{"1 and 2", true},
		{"1 and 0", false},
		{"0 or ''", false},
		{"0 or 'x'", true},
		{"1 and 2 and 3", true},
		{"0 or 0 or 1", true},
		{"not 1 or 1", true},
	} {
		t.Run(tt.src, func(t *testing.T) {
			got := mustEval(t, tt.src)
			if got.Kind != value.KindBool || got.IsTrue() != tt.want {
				t.Errorf("Evaluate(%q) = %s, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvaluateCollections(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		got := mustEval(t, "[]")
		if got.Kind != value.KindList || len(got.Items()) != 0 {
			t.Errorf("[] = %s", got)
		}
	})

	t.Run("set deduplicates", func(t *testing.T) {
		got := mustEval(t, "{1, 2, 2, 1}")
		if got.Kind != value.KindSet || len(got.Items()) != 2 {
			t.Errorf("{1, 2, 2, 1} = %s", got)
		}
	})

	t.Run("empty braces are a map", func(t *testing.T) {
		got := mustEval(t, "{}")
		if got.Kind != value.KindMap || len(got.Pairs()) != 0 {
			t.Errorf("{} = %s (%s)", got, got.Kind)
		}
	})

	t.Run("map literal", func(t *testing.T) {
		got := mustEval(t, "{'a': 1, 'b': 2}")
		if got.Kind != value.KindMap || len(got.Pairs()) != 2 {
			t.Fatalf("map = %s", got)
		}

		if got.Pairs()[0].Key.Text() != "a" || got.Pairs()[0].Val.Num() != 1 {
			t.Errorf("map first entry = %v", got.Pairs()[0])
		}
	})

	t.Run("map duplicate key overwrites", func(t *testing.T) {
		got := mustEval(t, "{'a': 1, 'a': 2}")
		if len(got.Pairs()) != 1 || got.Pairs()[0].Val.Num() != 2 {
			t.Errorf("map with duplicate key = %s", got)
		}
	})

	t.Run("trailing commas", func(t *testing.T) {
		got := mustEval(t, "[1, 2,]")
		if got.Kind != value.KindList || len(got.Items()) != 2 {
			t.Errorf("[1, 2,] = %s", got)
		}
	})
}

func TestEvaluateTupleIsLazySequence(t *testing.T) {
	v := mustEval(t, "(1, 2 * 2, 'x')")

	if v.Kind != value.KindSequence {
		t.Fatalf("tuple kind = %s, want sequence", v.Kind)
	}

	elems, err := v.Stream().Drain()
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}

	want := []value.Value{value.Int(1), value.Int(4), value.Str("x")}
	if len(elems) != len(want) {
		t.Fatalf("drained %d elements, want %d", len(elems), len(want))
	}

	for i := range want {
		if !value.Equal(elems[i], want[i]) {
			t.Errorf("element %d = %s, want %s", i, elems[i], want[i])
		}
	}

	// Single-pass: a second drain is empty.
	again, err := v.Stream().Drain()
	if err != nil {
		t.Fatalf("second Drain: %v", err)
	}

	if len(again) != 0 {
		t.Errorf("second drain produced %d elements, want 0", len(again))
	}
}

func TestEvaluateTupleElementErrorSurfacesOnDemand(t *testing.T) {
	v := mustEval(t, "(1, 1/0)")

	if v.Kind != value.KindSequence {
		t.Fatalf("tuple kind = %s, want sequence", v.Kind)
	}

	if _, err := v.Stream().Drain(); !errors.Is(err, ErrEvaluation) {
		t.Errorf("Drain err = %v, want ErrEvaluation", err)
	}
}

func TestEvaluateBareTuple(t *testing.T) {
	v := mustEval(t, "1, 2")

	if v.Kind != value.KindSequence {
		t.Fatalf("bare tuple kind = %s, want sequence", v.Kind)
	}
}

func TestEvaluateConstants(t *testing.T) {
	for _, name := range []string{"pi", "Pi", "PI"} {
		got := mustEval(t, name)
		if got.Kind != value.KindFloat || got.Real() != math.Pi {
			t.Errorf("%s = %s, want pi", name, got)
		}
	}

	if got := mustEval(t, "e"); got.Real() != math.E {
		t.Errorf("e = %s", got)
	}

	// A string literal spelling a constant's name resolves to the constant.
	if got := mustEval(t, "'pi'"); got.Real() != math.Pi {
		t.Errorf("'pi' = %s, want pi", got)
	}
}

func TestEvaluateUnknownNameIsItsSpelling(t *testing.T) {
	got := mustEval(t, "bandwidth")

	if got.Kind != value.KindString || got.Text() != "bandwidth" {
		t.Errorf("bare name = %s (%s), want 'bandwidth'", got, got.Kind)
	}
}

func TestEvaluateFunctions(t *testing.T) {
	const eps = 1e-12

	for _, tt := range []struct {
		src  string
		want float64
	}{
		{"sin(0)", 0},
		{"cos(0)", 1},
		{"sin(pi / 2)", 1},
		{"tan(0)", 0},
		{"exp(1)", math.E},
		{"sqrt(9)", 3},
		{"root(16)", 4},
	} {
		t.Run(tt.src, func(t *testing.T) {
			got := mustEval(t, tt.src)
			if got.Kind != value.KindFloat ||
				math.Abs(got.Real()-tt.want) > eps {
				t.Errorf("Evaluate(%q) = %s, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestEvaluateSum(t *testing.T) {
	for _, tt := range []struct {
		src  string
		want value.Value
	}{
		{"sum([1, 2, 3])", value.Int(6)},
		{"sum([1, 2], 10)", value.Int(13)},
		{"sum([1, 2], start=5)", value.Int(8)},
		{"sum([1.5, 1])", value.Float(2.5)},
		{"sum({1, 2})", value.Int(3)},
		{"sum((1, 2, 3))", value.Int(6)},
		{"sum([])", value.Int(0)},
	} {
		t.Run(tt.src, func(t *testing.T) {
			got := mustEval(t, tt.src)
			if !value.Equal(got, tt.want) || got.Kind != tt.want.Kind {
				t.Errorf("Evaluate(%q) = %s (%s), want %s (%s)",
					tt.src, got, got.Kind, tt.want, tt.want.Kind)
			}
		})
	}
}

func TestEvaluateConversions(t *testing.T) {
	for _, tt := range []struct {
		src  string
		want value.Value
	}{
		{"int('42')", value.Int(42)},
		{"int(3.9)", value.Int(3)},
		{"int(-3.9)", value.Int(-3)},
		{"int(True)", value.Int(1)},
		{"float('1.5')", value.Float(1.5)},
		{"float(2)", value.Float(2)},
		{"bool(0)", value.Bool(false)},
		{"bool([1])", value.Bool(true)},
		{"str(3.5)", value.Str("3.5")},
		{"str(True)", value.Str("True")},
	} {
		t.Run(tt.src, func(t *testing.T) {
			got := mustEval(t, tt.src)
			if !value.Equal(got, tt.want) || got.Kind != tt.want.Kind {
				t.Errorf("Evaluate(%q) = %s (%s), want %s (%s)",
					tt.src, got, got.Kind, tt.want, tt.want.Kind)
			}
		})
	}
}

func TestEvaluateMultipleStatements(t *testing.T) {
	got := mustEval(t, "1 + 1\n2 * 2; 'x'")

	if got.Kind != value.KindList {
		t.Fatalf("multi-statement kind = %s, want list", got.Kind)
	}

	want := []value.Value{value.Int(2), value.Int(4), value.Str("x")}
	if len(got.Items()) != len(want) {
		t.Fatalf("got %d results, want %d", len(got.Items()), len(want))
	}

	for i := range want {
		if !value.Equal(got.Items()[i], want[i]) {
			t.Errorf("result %d = %s, want %s", i, got.Items()[i], want[i])
		}
	}
}

func TestEvaluateEmptySource(t *testing.T) {
	for _, src := range []string{"", "\n\n", "# only a comment\n", "; ;"} {
		got := mustEval(t, src)
		if got.Kind != value.KindList || len(got.Items()) != 0 {
			t.Errorf("Evaluate(%q) = %s, want []", src, got)
		}
	}
}

func TestEvaluateCommentsAndContinuations(t *testing.T) {
	for _, tt := range []struct {
		src  string
		want int64
	}{
		{"1 + 2 # three", 3},
		{"1 + \\\n2", 3},
	} {
		got := mustEval(t, tt.src)
		if got.Num() != tt.want {
			t.Errorf("Evaluate(%q) = %s, want %d", tt.src, got, tt.want)
		}
	}

	// Newlines inside brackets do not terminate the statement.
	got := mustEval(t, "[1,\n 2,\n 3]")
	if got.Kind != value.KindList || len(got.Items()) != 3 {
		t.Errorf("bracketed newlines = %s", got)
	}
}

func TestEvaluateRejectedForms(t *testing.T) {
	for _, tt := range []struct {
		name string
		src  string
		want error
	}{
		{"attribute access", "x.y", ErrUnsupportedSyntax},
		{"subscript", "x[0]", ErrUnsupportedSyntax},
		{"slice", "x[1:2]", ErrUnsupportedSyntax},
		{"lambda", "lambda x: x", ErrUnsupportedSyntax},
		{"conditional", "1 if 2 else 3", ErrUnsupportedSyntax},
		{"assignment", "x = 1", ErrUnsupportedSyntax},
		{"list comprehension", "[x for x in y]", ErrUnsupportedSyntax},
		{"generator", "(x for x in y)", ErrUnsupportedSyntax},
		{"set comprehension", "{x for x in y}", ErrUnsupportedSyntax},
		{"map comprehension", "{x: 1 for x in y}", ErrUnsupportedSyntax},
		{"argument spreading", "sin(*x)", ErrUnsupportedSyntax},
		{"kwargs spreading", "sin(**x)", ErrUnsupportedSyntax},
		{"call via attribute", "a.b()", ErrUnsupportedSyntax},
		{"unbalanced paren", "(1", ErrUnsupportedSyntax},
		{"stray character", "1 $ 2", ErrUnsupportedSyntax},
		{"unterminated string", "'abc", ErrUnsupportedSyntax},
		{"unknown escape", "'\\q'", ErrUnsupportedSyntax},
		{"bitwise or", "1 | 2", ErrUnsupportedOperator},
		{"bitwise and", "1 & 2", ErrUnsupportedOperator},
		{"bitwise xor", "1 ^ 2", ErrUnsupportedOperator},
		{"shift left", "1 << 2", ErrUnsupportedOperator},
		{"shift right", "8 >> 2", ErrUnsupportedOperator},
		{"unknown function", "nope(1)", ErrUnknownFunction},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New().Evaluate(tt.src); !errors.Is(err, tt.want) {
				t.Errorf("Evaluate(%q) err = %v, want %v", tt.src, err, tt.want)
			}
		})
	}
}

func TestEvaluateRuntimeErrors(t *testing.T) {
	for _, src := range []string{
		"1 / 0",
		"1 // 0",
		"1 % 0",
		"0 ** -1",
		"1 + 'x'",
		"'a' - 'b'",
		"-'x'",
		"~1.5",
		"+[1]",
		"1 < 'a'",
		"1 in 2",
		"sin('x')",
		"sin(1, 2)",
		"sum(1)",
		"int('forty')",
		"float('')",
	} {
		t.Run(src, func(t *testing.T) {
			if _, err := New().Evaluate(src); !errors.Is(err, ErrEvaluation) {
				t.Errorf("Evaluate(%q) err = %v, want ErrEvaluation", src, err)
			}
		})
	}
}

func TestRegisterConstant(t *testing.T) {
	ev := New()
	ev.RegisterConstant("c", value.Int(299792458))

	got, err := ev.Evaluate("c * 2")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if got.Num() != 599584916 {
		t.Errorf("c * 2 = %s", got)
	}

	// Registration is per-Evaluator; a fresh one has no such constant.
	fresh, err := New().Evaluate("c")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if fresh.Kind != value.KindString || fresh.Text() != "c" {
		t.Errorf("unregistered c = %s (%s), want 'c'", fresh, fresh.Kind)
	}
}

func TestRegisterFunction(t *testing.T) {
	ev := New()
	ev.RegisterFunction("clamp", func(
		args []value.Value, kwargs map[string]value.Value,
	) (value.Value, error) {
		if len(args) != 1 {
			return value.Value{}, fmt.Errorf("clamp expects 1 argument")
		}

		hi := value.Float(1)
		if v, ok := kwargs["hi"]; ok {
			hi = v
		}

		if args[0].Real() > hi.Real() {
			return hi, nil
		}

		return args[0], nil
	})

	got, err := ev.Evaluate("clamp(7, hi=5)")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if got.Real() != 5 {
		t.Errorf("clamp(7, hi=5) = %s", got)
	}

	// A newline between the keyword name and "=" is insignificant inside
	// the call parens, like any other bracketed newline.
	got, err = ev.Evaluate("clamp(7, hi\n= 5)")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	if got.Real() != 5 {
		t.Errorf("clamp with split keyword = %s", got)
	}

	// Errors raised by registered functions surface as evaluation failures.
	if _, err := ev.Evaluate("clamp()"); !errors.Is(err, ErrEvaluation) {
		t.Errorf("clamp() err = %v, want ErrEvaluation", err)
	}

	// nil registrations are ignored.
	ev.RegisterFunction("ghost", nil)

	if _, err := ev.Evaluate("ghost()"); !errors.Is(err, ErrUnknownFunction) {
		t.Errorf("ghost() err = %v, want ErrUnknownFunction", err)
	}
}

func TestRegistryNames(t *testing.T) {
	ev := New()

	constants := ev.Constants()
	for _, want := range []string{"E", "PI", "Pi", "e", "pi"} {
		found := false

		for _, name := range constants {
			if name == want {
				found = true

				break
			}
		}

		if !found {
			t.Errorf("Constants() missing %q: %v", want, constants)
		}
	}

	functions := ev.Functions()
	if len(functions) == 0 {
		t.Fatal("Functions() is empty")
	}

	for i := 1; i < len(functions); i++ {
		if functions[i-1] >= functions[i] {
			t.Fatalf("Functions() not sorted: %v", functions)
		}
	}
}

func FuzzEvaluate(f *testing.F) {
	for _, seed := range []string{
		"1 + 2 * 3",
		"sin(pi / 4)",
		"[1, 2] + [3]",
		"{'a': 1, 'b': [2, 3]}",
		"1 < 2 < 3 and not 0",
		"(1, 2, 3)",
		"lambda x: x",
		"'unterminated",
		"0x_",
		"sum([1, 2], start=5)",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		// Must never panic; errors are fine.
		v, err := New().Evaluate(src)
		if err == nil {
			_ = v.String()
			_ = v.Export()
		}
	})
}
