package expr

import (
	"github.com/ardnew/conifer/value"
)

// NodeKind identifies a syntax-tree node variant.
//
// The enumeration is closed and splits into two halves: kinds the
// evaluator interprets, and kinds the parser recognizes only so the
// evaluator can reject them by name. The split is what makes the
// sandboxing contract auditable: evaluation is a single exhaustive
// switch over this enumeration, and every kind past NodeCall, along
// with anything that fails to parse, is refused.
type NodeKind int

const (
	// NodeInvalid is the zero NodeKind and is never produced by parsing.
	NodeInvalid NodeKind = iota

	// Interpreted kinds.

	// NodeLiteral is an int, float, bool, or string literal.
	NodeLiteral
	// NodeName is a bare identifier reference.
	NodeName
	// NodeBinary is a binary operator application.
	NodeBinary
	// NodeUnary is a unary operator application.
	NodeUnary
	// NodeBoolOp is an n-ary and/or combinator.
	NodeBoolOp
	// NodeCompare is a chained comparison.
	NodeCompare
	// NodeList is an eager list literal.
	NodeList
	// NodeTuple is a tuple literal; it evaluates to a lazy sequence.
	NodeTuple
	// NodeSet is an eager set literal.
	NodeSet
	// NodeMap is an eager mapping literal.
	NodeMap
	// NodeCall is a bare-name function call.
	NodeCall

	// Recognized-but-rejected kinds. The parser produces them so the
	// evaluator can name what it refuses to execute.

	// NodeAttribute is attribute access (x.y).
	NodeAttribute
	// NodeSubscript is subscripting (x[y]).
	NodeSubscript
	// NodeLambda is a lambda expression.
	NodeLambda
	// NodeConditional is a conditional expression (x if c else y).
	NodeConditional
	// NodeStarred is iterable unpacking (*x) in a call or literal.
	NodeStarred
	// NodeComprehension is a list/set/map/generator comprehension.
	NodeComprehension
	// NodeAssign is an assignment statement.
	NodeAssign
)

// Operator enumerates every operator the parser can attach to a node.
// Presence here does not imply the evaluator accepts it: the bitwise
// binary operators parse but have no entry in the evaluator's table.
type Operator int

const (
	OpInvalid Operator = iota

	// Binary arithmetic.
	OpAdd      // +
	OpSub      // -
	OpMul      // *
	OpDiv      // /
	OpFloorDiv // //
	OpMod      // %
	OpPow      // **

	// Binary bitwise: parsed, never evaluated.
	OpBitOr  // |
	OpBitXor // ^
	OpBitAnd // &
	OpShiftL // <<
	OpShiftR // >>

	// Unary.
	OpPos    // +x
	OpNeg    // -x
	OpNot    // not x
	OpInvert // ~x

	// Boolean combinators.
	OpAnd
	OpOr

	// Comparisons.
	OpEq    // ==
	OpNe    // !=
	OpLt    // <
	OpLe    // <=
	OpGt    // >
	OpGe    // >=
	OpIs    // is
	OpIsNot // is not
	OpIn    // in
	OpNotIn // not in
)

// Node is a syntax-tree node. Which fields are meaningful depends on Kind;
// unrelated fields are left zero.
type Node struct {
	Kind NodeKind
	Pos  int // byte offset in the source, for error context

	Lit  value.Value // NodeLiteral: the literal's value
	Name string      // NodeName: identifier; NodeAttribute: attribute name

	Op    Operator // NodeBinary, NodeUnary, NodeBoolOp
	Left  *Node    // NodeBinary left; NodeUnary operand; NodeCompare leftmost
	Right *Node    // NodeBinary right

	Elems []*Node // list/tuple/set elements; NodeBoolOp operands
	Keys  []*Node // NodeMap keys, parallel to Vals
	Vals  []*Node // NodeMap values

	Ops  []Operator // NodeCompare: operator of each link
	Cmps []*Node    // NodeCompare: comparand of each link

	Target *Node     // NodeCall target; NodeAttribute/NodeSubscript subject
	Args   []*Node   // NodeCall positional arguments
	Kwargs []Keyword // NodeCall keyword arguments
}

// Keyword is a kw=val argument of a call.
type Keyword struct {
	Name  string
	Value *Node
}

// Module is a parsed unit: one node per expression statement.
type Module struct {
	Body []*Node
}
