package expr

import (
	"github.com/ardnew/conifer/pkg"
)

// Evaluation failures are reported as distinct kinds so callers can branch
// on cause with errors.Is. Every kind carries the offending text fragment
// as structured attributes.
var (
	// ErrUnsupportedSyntax is returned when the input uses a syntactic
	// form outside the evaluator's whitelist, or cannot be parsed at all.
	// The attribute "kind" names the rejected form.
	ErrUnsupportedSyntax = pkg.NewError("unsupported syntax")

	// ErrUnknownFunction is returned when a call names a function that
	// is not present in the registry.
	ErrUnknownFunction = pkg.NewError("unknown function")

	// ErrUnsupportedOperator is returned when an operator parses but has
	// no entry in the fixed operator table.
	ErrUnsupportedOperator = pkg.NewError("unsupported operator")

	// ErrArity is returned when a boolean combinator has fewer than two
	// operands.
	ErrArity = pkg.NewError("insufficient operands for boolean operation")

	// ErrEvaluation is returned for runtime failures of otherwise valid
	// expressions: division by zero, type mismatches in arithmetic,
	// incomparable operands, and errors raised by registered functions.
	ErrEvaluation = pkg.NewError("evaluation failed")
)
