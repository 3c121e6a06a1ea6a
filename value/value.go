// Package value defines the closed set of dynamic values produced by the
// expression evaluator and stored in configuration section trees.
//
// A [Value] is a tagged union: exactly one representation is meaningful for
// each [Kind]. The set of kinds is closed. Code that switches over
// [Value.Kind] can therefore be checked for exhaustiveness, which is what
// keeps comparison, truthiness, and rendering auditable.
package value

import (
	"strconv"
	"strings"
)

// Kind discriminates the representation of a [Value].
type Kind int

const (
	// KindInvalid is the zero Kind. It is never produced by evaluation.
	KindInvalid Kind = iota

	// KindInt is a 64-bit signed integer.
	KindInt

	// KindFloat is a 64-bit floating-point number.
	KindFloat

	// KindBool is a boolean.
	KindBool

	// KindString is an immutable string.
	KindString

	// KindList is an ordered sequence of values.
	KindList

	// KindSet is a collection deduplicated by [Equal].
	// Iteration follows insertion order of the distinct elements.
	KindSet

	// KindMap is a collection of key-value pairs with unique keys.
	// A later duplicate key overwrites the earlier entry.
	KindMap

	// KindSequence is a lazy, single-pass stream of values.
	// It is produced by tuple literals and is not comparable.
	KindSequence
)

// Value is a dynamically-typed value. The zero Value has KindInvalid.
//
// Exactly one of the representation fields is meaningful, selected by Kind.
type Value struct {
	Kind Kind

	num   int64
	float float64
	str   string
	items []Value
	pairs []Pair
	seq   *Sequence
}

// Pair is a single key-value entry of a KindMap value.
type Pair struct {
	Key Value
	Val Value
}

// Int returns an integer value.
func Int(v int64) Value { return Value{Kind: KindInt, num: v} }

// Float returns a floating-point value.
func Float(v float64) Value { return Value{Kind: KindFloat, float: v} }

// Bool returns a boolean value.
func Bool(v bool) Value {
	var n int64
	if v {
		n = 1
	}

	return Value{Kind: KindBool, num: n}
}

// Str returns a string value.
func Str(v string) Value { return Value{Kind: KindString, str: v} }

// ListOf returns an ordered list of the given elements.
func ListOf(elems ...Value) Value {
	return Value{Kind: KindList, items: elems}
}

// SetOf returns a set containing the given elements with duplicates
// (under [Equal]) removed. The first occurrence of each element wins,
// so iteration order is deterministic.
func SetOf(elems ...Value) Value {
	distinct := make([]Value, 0, len(elems))

	for _, e := range elems {
		found := false

		for _, d := range distinct {
			if Equal(d, e) {
				found = true

				break
			}
		}

		if !found {
			distinct = append(distinct, e)
		}
	}

	return Value{Kind: KindSet, items: distinct}
}

// MapOf returns a map of the given entries. A later entry whose key is
// [Equal] to an earlier one overwrites the earlier entry in place.
func MapOf(entries ...Pair) Value {
	pairs := make([]Pair, 0, len(entries))

	for _, e := range entries {
		replaced := false

		for i, p := range pairs {
			if Equal(p.Key, e.Key) {
				pairs[i].Val = e.Val
				replaced = true

				break
			}
		}

		if !replaced {
			pairs = append(pairs, e)
		}
	}

	return Value{Kind: KindMap, pairs: pairs}
}

// Seq returns a lazy sequence value backed by s.
func Seq(s *Sequence) Value { return Value{Kind: KindSequence, seq: s} }

// Num returns the integer representation of v.
// Meaningful for KindInt and KindBool (0 or 1).
func (v Value) Num() int64 { return v.num }

// Real returns the floating-point representation of v.
// Meaningful for KindFloat; for KindInt and KindBool it converts.
func (v Value) Real() float64 {
	if v.Kind == KindFloat {
		return v.float
	}

	return float64(v.num)
}

// Text returns the string representation field of v (KindString only).
func (v Value) Text() string { return v.str }

// IsTrue reports the boolean representation of v (KindBool only).
func (v Value) IsTrue() bool { return v.num != 0 }

// Items returns the elements of a KindList or KindSet value.
// The returned slice is shared, not copied.
func (v Value) Items() []Value { return v.items }

// Pairs returns the entries of a KindMap value.
// The returned slice is shared, not copied.
func (v Value) Pairs() []Pair { return v.pairs }

// Stream returns the underlying sequence of a KindSequence value.
func (v Value) Stream() *Sequence { return v.seq }

// IsNumber reports whether v is KindInt or KindFloat.
func (v Value) IsNumber() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

// Truth reports the truthiness of v using the conventions of the
// expression language: zero numbers, false, the empty string, and empty
// collections are false; everything else, including any sequence, is true.
func (v Value) Truth() bool {
	switch v.Kind {
	case KindInt, KindBool:
		return v.num != 0

	case KindFloat:
		return v.float != 0

	case KindString:
		return v.str != ""

	case KindList, KindSet:
		return len(v.items) > 0

	case KindMap:
		return len(v.pairs) > 0

	case KindSequence:
		// Sequences are truthy without being consumed.
		return true

	default:
		return false
	}
}

// String renders v in the expression language's literal syntax.
// The rendering of every eager kind parses back to an equal value.
// Sequences are single-pass and render as an opaque placeholder.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.num, 10)

	case KindFloat:
		s := strconv.FormatFloat(v.float, 'g', -1, 64)
		// Keep a float distinguishable from an int after round-trip.
		if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") &&
			!strings.Contains(s, "NaN") {
			s += ".0"
		}

		return s

	case KindBool:
		if v.num != 0 {
			return "True"
		}

		return "False"

	case KindString:
		return quote(v.str)

	case KindList:
		return renderItems("[", v.items, "]")

	case KindSet:
		if len(v.items) == 0 {
			// There is no empty-set literal; render distinguishably.
			return "set()"
		}

		return renderItems("{", v.items, "}")

	case KindMap:
		var sb strings.Builder

		sb.WriteByte('{')

		for i, p := range v.pairs {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(p.Key.String())
			sb.WriteString(": ")
			sb.WriteString(p.Val.String())
		}

		sb.WriteByte('}')

		return sb.String()

	case KindSequence:
		return "<sequence>"

	default:
		return "<invalid>"
	}
}

// renderItems joins the literal renderings of elems between open and shut.
func renderItems(open string, elems []Value, shut string) string {
	var sb strings.Builder

	sb.WriteString(open)

	for i, e := range elems {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(e.String())
	}

	sb.WriteString(shut)

	return sb.String()
}

// quote renders s as a single-quoted literal, matching the style
// configuration authors use, falling back to double quotes when the
// text itself contains a single quote.
func quote(s string) string {
	q := strconv.Quote(s)

	if !strings.Contains(s, "'") {
		// Swap the delimiters; the escaping rules are compatible because
		// strconv.Quote never leaves a bare single quote unescaped and
		// we only unwrap when none is present.
		return "'" + q[1:len(q)-1] + "'"
	}

	return q
}

// Export converts v to a native Go value suitable for YAML or JSON
// marshaling: int64, float64, bool, string, []any, and map[string]any.
//
// Set elements become a []any in iteration order. Map keys are rendered
// with [Value.String] when they are not strings, since Go maps used by
// marshalers require string keys. Sequences are drained; a sequence that
// was already consumed exports as an empty slice.
func (v Value) Export() any {
	switch v.Kind {
	case KindInt:
		return v.num

	case KindFloat:
		return v.float

	case KindBool:
		return v.num != 0

	case KindString:
		return v.str

	case KindList, KindSet:
		out := make([]any, len(v.items))
		for i, e := range v.items {
			out[i] = e.Export()
		}

		return out

	case KindMap:
		out := make(map[string]any, len(v.pairs))

		for _, p := range v.pairs {
			key := p.Key.str
			if p.Key.Kind != KindString {
				key = p.Key.String()
			}

			out[key] = p.Val.Export()
		}

		return out

	case KindSequence:
		elems, err := v.seq.Drain()
		if err != nil {
			return []any{}
		}

		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = e.Export()
		}

		return out

	default:
		return nil
	}
}
