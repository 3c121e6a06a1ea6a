package value

import (
	"fmt"
	"strings"
)

// Equal reports structural equality of a and b.
//
// Values of the same kind compare element-wise. Integers and floats
// cross-compare numerically, so 1 == 1.0. Every other cross-kind pair is
// unequal rather than an error; in particular booleans are only equal to
// booleans, never to the integers 0 and 1. Sequences are single-pass and
// never equal, not even to themselves.
func Equal(a, b Value) bool {
	if a.Kind == KindSequence || b.Kind == KindSequence {
		return false
	}

	if a.Kind != b.Kind {
		if a.IsNumber() && b.IsNumber() {
			return a.Real() == b.Real()
		}

		return false
	}

	switch a.Kind {
	case KindInt, KindBool:
		return a.num == b.num

	case KindFloat:
		return a.float == b.float

	case KindString:
		return a.str == b.str

	case KindList:
		if len(a.items) != len(b.items) {
			return false
		}

		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}

		return true

	case KindSet:
		if len(a.items) != len(b.items) {
			return false
		}

		// Order-insensitive containment both ways; sets are deduplicated
		// so equal lengths plus one-way containment suffice.
		for _, e := range a.items {
			if !containsEqual(b.items, e) {
				return false
			}
		}

		return true

	case KindMap:
		if len(a.pairs) != len(b.pairs) {
			return false
		}

		for _, p := range a.pairs {
			q, ok := lookupPair(b.pairs, p.Key)
			if !ok || !Equal(p.Val, q) {
				return false
			}
		}

		return true

	default:
		return false
	}
}

// Compare orders a before, equal to, or after b, returning -1, 0, or +1.
// Only numbers (with int/float promotion) and strings are ordered;
// any other pairing is an error naming both kinds.
func Compare(a, b Value) (int, error) {
	if a.IsNumber() && b.IsNumber() {
		x, y := a.Real(), b.Real()

		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		default:
			return 0, nil
		}
	}

	if a.Kind == KindString && b.Kind == KindString {
		return strings.Compare(a.str, b.str), nil
	}

	return 0, fmt.Errorf("cannot order %s and %s", a.Kind, b.Kind)
}

// Contains reports whether x is a member of coll.
//
// Lists and sets test element equality, maps test key equality, and
// strings test substring containment (x must itself be a string).
// Sequences are drained until a match; a partial drain is permanent.
func Contains(coll, x Value) (bool, error) {
	switch coll.Kind {
	case KindList, KindSet:
		return containsEqual(coll.items, x), nil

	case KindMap:
		_, ok := lookupPair(coll.pairs, x)

		return ok, nil

	case KindString:
		if x.Kind != KindString {
			return false, fmt.Errorf(
				"string membership requires a string, got %s", x.Kind)
		}

		return strings.Contains(coll.str, x.str), nil

	case KindSequence:
		for {
			v, err, ok := coll.seq.Next()
			if err != nil {
				return false, err
			}

			if !ok {
				return false, nil
			}

			if Equal(v, x) {
				return true, nil
			}
		}

	default:
		return false, fmt.Errorf("%s is not a container", coll.Kind)
	}
}

func containsEqual(elems []Value, x Value) bool {
	for _, e := range elems {
		if Equal(e, x) {
			return true
		}
	}

	return false
}

func lookupPair(pairs []Pair, key Value) (Value, bool) {
	for _, p := range pairs {
		if Equal(p.Key, key) {
			return p.Val, true
		}
	}

	return Value{}, false
}
