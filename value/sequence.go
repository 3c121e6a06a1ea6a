package value

// Sequence is a lazy, single-pass stream of values.
//
// Tuple literals in the expression language evaluate to sequences rather
// than eager collections: each element is computed on demand, and once the
// stream is exhausted it stays exhausted. Sequences are truthy, drainable,
// and usable as the subject of membership tests and summation, but they are
// never equal to any value (including themselves) and render opaquely.
type Sequence struct {
	next func() (Value, error, bool)
	done bool
}

// NewSequence returns a sequence that pulls values from next.
// next reports false when the stream is exhausted; a non-nil error
// terminates the stream immediately.
func NewSequence(next func() (Value, error, bool)) *Sequence {
	return &Sequence{next: next}
}

// SeqOf returns an already-materialized sequence over elems.
// It is primarily useful in tests and for registered functions that want
// to hand back lazy results.
func SeqOf(elems ...Value) *Sequence {
	i := 0

	return NewSequence(func() (Value, error, bool) {
		if i >= len(elems) {
			return Value{}, nil, false
		}

		v := elems[i]
		i++

		return v, nil, true
	})
}

// Next produces the next element of the stream.
// The third result reports whether an element was produced; after it is
// false once, every later call is false.
func (s *Sequence) Next() (Value, error, bool) {
	if s.done {
		return Value{}, nil, false
	}

	v, err, ok := s.next()
	if err != nil || !ok {
		s.done = true

		return Value{}, err, false
	}

	return v, nil, true
}

// Drain consumes the remainder of the stream and returns it as a slice.
// Draining an exhausted sequence yields an empty slice, not an error.
func (s *Sequence) Drain() ([]Value, error) {
	var out []Value

	for {
		v, err, ok := s.Next()
		if err != nil {
			return nil, err
		}

		if !ok {
			return out, nil
		}

		out = append(out, v)
	}
}
