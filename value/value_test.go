package value

import (
	"reflect"
	"testing"
)

func TestTruth(t *testing.T) {
	for _, tt := range []struct {
		name string
		v    Value
		want bool
	}{
		{"zero int", Int(0), false},
		{"nonzero int", Int(-3), true},
		{"zero float", Float(0), false},
		{"nonzero float", Float(0.1), true},
		{"false", Bool(false), false},
		{"true", Bool(true), true},
		{"empty string", Str(""), false},
		{"string", Str("x"), true},
		{"empty list", ListOf(), false},
		{"list", ListOf(Int(0)), true},
		{"empty set", SetOf(), false},
		{"empty map", MapOf(), false},
		{"map", MapOf(Pair{Key: Str("k"), Val: Int(1)}), true},
		{"sequence", Seq(SeqOf()), true},
		{"invalid", Value{}, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Truth(); got != tt.want {
				t.Errorf("Truth() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	for _, tt := range []struct {
		name string
		v    Value
		want string
	}{
		{"int", Int(42), "42"},
		{"negative int", Int(-7), "-7"},
		{"float", Float(1.5), "1.5"},
		{"integral float keeps point", Float(2), "2.0"},
		{"large float", Float(3e8), "3e+08"},
		{"true", Bool(true), "True"},
		{"false", Bool(false), "False"},
		{"string", Str("hi"), "'hi'"},
		{"string with newline", Str("a\nb"), `'a\nb'`},
		{"string with quote", Str("it's"), `"it's"`},
		{"list", ListOf(Int(1), Str("x")), "[1, 'x']"},
		{"empty list", ListOf(), "[]"},
		{"set", SetOf(Int(1), Int(2)), "{1, 2}"},
		{"empty set", SetOf(), "set()"},
		{
			"map",
			MapOf(Pair{Key: Str("a"), Val: Int(1)}),
			"{'a': 1}",
		},
		{"empty map", MapOf(), "{}"},
		{"sequence", Seq(SeqOf(Int(1))), "<sequence>"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetOfDeduplicates(t *testing.T) {
	s := SetOf(Int(1), Float(1), Int(2), Int(1))

	// 1 and 1.0 are equal, so the first occurrence wins.
	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("set has %d elements, want 2: %s", len(items), s)
	}

	if items[0].Kind != KindInt || items[0].Num() != 1 {
		t.Errorf("first element = %s (%s)", items[0], items[0].Kind)
	}
}

func TestMapOfOverwritesDuplicateKey(t *testing.T) {
	m := MapOf(
		Pair{Key: Str("a"), Val: Int(1)},
		Pair{Key: Str("b"), Val: Int(2)},
		Pair{Key: Str("a"), Val: Int(3)},
	)

	pairs := m.Pairs()
	if len(pairs) != 2 {
		t.Fatalf("map has %d entries, want 2: %s", len(pairs), m)
	}

	// Overwrite happens in place, preserving the original position.
	if pairs[0].Key.Text() != "a" || pairs[0].Val.Num() != 3 {
		t.Errorf("first entry = %s: %s", pairs[0].Key, pairs[0].Val)
	}
}

func TestExport(t *testing.T) {
	for _, tt := range []struct {
		name string
		v    Value
		want any
	}{
		{"int", Int(3), int64(3)},
		{"float", Float(1.5), 1.5},
		{"bool", Bool(true), true},
		{"string", Str("x"), "x"},
		{"list", ListOf(Int(1), Str("y")), []any{int64(1), "y"}},
		{"set", SetOf(Int(1)), []any{int64(1)}},
		{
			"map",
			MapOf(Pair{Key: Str("k"), Val: Int(1)}),
			map[string]any{"k": int64(1)},
		},
		{
			"map with non-string key",
			MapOf(Pair{Key: Int(7), Val: Bool(false)}),
			map[string]any{"7": false},
		},
		{
			"nested",
			ListOf(MapOf(Pair{Key: Str("k"), Val: ListOf(Int(1))})),
			[]any{map[string]any{"k": []any{int64(1)}}},
		},
		{"sequence", Seq(SeqOf(Int(1), Int(2))), []any{int64(1), int64(2)}},
		{"invalid", Value{}, nil},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Export(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Export() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSequenceSinglePass(t *testing.T) {
	s := SeqOf(Int(1), Int(2), Int(3))

	v, err, ok := s.Next()
	if err != nil || !ok || v.Num() != 1 {
		t.Fatalf("Next() = %s, %v, %v", v, err, ok)
	}

	rest, err := s.Drain()
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}

	if len(rest) != 2 {
		t.Fatalf("Drain after one Next: %d elements, want 2", len(rest))
	}

	// Exhausted streams stay exhausted.
	if _, _, ok := s.Next(); ok {
		t.Error("Next() after exhaustion reported an element")
	}

	again, err := s.Drain()
	if err != nil || len(again) != 0 {
		t.Errorf("Drain after exhaustion = %v, %v", again, err)
	}
}
