// Package expr implements the restricted expression language used for
// configuration values.
//
// The language is deliberately not a scripting language. Source text is
// scanned and parsed into a closed syntax-tree enumeration, and evaluation
// is a single exhaustive dispatch over that enumeration: literals, name
// references, arithmetic, boolean combinators, chained comparisons,
// collection literals, and bare-name calls against a per-evaluator function
// registry. Every other form the parser recognizes (attribute access,
// subscripting, lambdas, conditionals, comprehensions, argument spreading,
// assignment) exists only so the evaluator can refuse it by name, and
// every form the parser does not recognize fails the same way. There is no
// path from an expression to host execution other than the registry the
// caller populated.
//
// Two lookup quirks are intentional and load-bearing for configuration
// authors: a string literal whose text matches a registered constant is
// replaced by that constant's value, and an unresolved bare name evaluates
// to its own spelling as a string.
//
// Tuple literals evaluate to lazy, single-pass sequences rather than eager
// collections. See [value.Sequence].
package expr
