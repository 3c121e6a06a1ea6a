package expr

import (
	"log/slog"
	"strconv"

	"github.com/ardnew/conifer/value"
)

// Parse scans and parses src into a [Module].
//
// The grammar is expression-shaped: a module is a sequence of expression
// statements separated by newlines or semicolons. The parser accepts a
// superset of what the evaluator interprets — attribute access, subscripts,
// lambdas, conditionals, comprehensions, starred arguments, and assignment
// all parse into their own node kinds — so that the evaluator can reject
// them by name instead of executing them. Anything else fails here with
// [ErrUnsupportedSyntax].
func Parse(src string) (*Module, error) {
	toks, err := newLexer(src).tokens()
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}

	return p.module()
}

type parser struct {
	toks  []token
	pos   int
	depth int // bracket nesting; newlines are insignificant inside brackets
}

// peek returns the current token, skipping newlines inside brackets.
func (p *parser) peek() token {
	for p.depth > 0 && p.toks[p.pos].typ == tokNewline {
		p.pos++
	}

	return p.toks[p.pos]
}

// peekNext returns the token after the current one, skipping newlines
// inside brackets the same way peek does. It never moves the cursor.
func (p *parser) peekNext() token {
	i := p.pos + 1
	for p.depth > 0 && p.toks[i].typ == tokNewline {
		i++
	}

	return p.toks[i]
}

// advance consumes and returns the current token, tracking bracket depth.
func (p *parser) advance() token {
	t := p.peek()

	switch t.typ {
	case tokLParen, tokLBracket, tokLBrace:
		p.depth++
	case tokRParen, tokRBracket, tokRBrace:
		p.depth--
	case tokEOF:
		return t // never consume EOF
	}

	p.pos++

	return t
}

// expect consumes a token of the given type or fails.
func (p *parser) expect(typ tokenType, context string) (token, error) {
	t := p.peek()
	if t.typ != typ {
		return token{}, p.unexpected(t, context)
	}

	return p.advance(), nil
}

// keyword reports whether the current token is the given bare word.
func (p *parser) keyword(word string) bool {
	t := p.peek()

	return t.typ == tokName && t.lit == word
}

func (p *parser) unexpected(t token, context string) error {
	return ErrUnsupportedSyntax.With(
		slog.String("kind", context),
		slog.String("text", t.String()),
		slog.Int("offset", t.pos),
	)
}

// module parses the whole token stream.
func (p *parser) module() (*Module, error) {
	m := &Module{}

	for {
		// Skip statement separators.
		for {
			t := p.peek()
			if t.typ != tokNewline && t.typ != tokSemi {
				break
			}

			p.advance()
		}

		if p.peek().typ == tokEOF {
			return m, nil
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		m.Body = append(m.Body, stmt)

		t := p.peek()

		switch t.typ {
		case tokNewline, tokSemi:
			p.advance()
		case tokEOF:
			return m, nil
		default:
			return nil, p.unexpected(t, "statement")
		}
	}
}

// statement parses one expression statement, recognizing assignment so the
// evaluator can name it when refusing it.
func (p *parser) statement() (*Node, error) {
	lhs, err := p.expression()
	if err != nil {
		return nil, err
	}

	// A bare comma makes the statement an unparenthesized tuple literal.
	if p.peek().typ == tokComma {
		elems, err := p.elemTail(lhs)
		if err != nil {
			return nil, err
		}

		return &Node{Kind: NodeTuple, Pos: lhs.Pos, Elems: elems}, nil
	}

	if p.peek().typ == tokAssign {
		t := p.advance()

		rhs, err := p.expression()
		if err != nil {
			return nil, err
		}

		return &Node{
			Kind:  NodeAssign,
			Pos:   t.pos,
			Left:  lhs,
			Right: rhs,
		}, nil
	}

	return lhs, nil
}

// expression is the entry point for a full expression, including the
// recognized-but-rejected lambda and conditional forms.
func (p *parser) expression() (*Node, error) {
	if p.keyword("lambda") {
		return p.lambda()
	}

	cond, err := p.orExpr()
	if err != nil {
		return nil, err
	}

	if p.keyword("if") {
		t := p.advance()

		test, err := p.orExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectKeyword("else"); err != nil {
			return nil, err
		}

		alt, err := p.expression()
		if err != nil {
			return nil, err
		}

		return &Node{
			Kind:  NodeConditional,
			Pos:   t.pos,
			Left:  cond,
			Right: alt,
			Elems: []*Node{test},
		}, nil
	}

	return cond, nil
}

func (p *parser) expectKeyword(word string) (token, error) {
	if !p.keyword(word) {
		return token{}, p.unexpected(p.peek(), word)
	}

	return p.advance(), nil
}

// lambda parses "lambda [params]: body" into a rejected node.
func (p *parser) lambda() (*Node, error) {
	t := p.advance() // lambda

	for p.peek().typ != tokColon {
		if p.peek().typ == tokEOF {
			return nil, p.unexpected(p.peek(), "lambda")
		}

		p.advance() // parameter names and commas, not modeled
	}

	p.advance() // colon

	body, err := p.expression()
	if err != nil {
		return nil, err
	}

	return &Node{Kind: NodeLambda, Pos: t.pos, Left: body}, nil
}

// orExpr parses "a or b or c" flattened into one NodeBoolOp.
func (p *parser) orExpr() (*Node, error) {
	left, err := p.andExpr()
	if err != nil {
		return nil, err
	}

	if !p.keyword("or") {
		return left, nil
	}

	node := &Node{
		Kind:  NodeBoolOp,
		Pos:   left.Pos,
		Op:    OpOr,
		Elems: []*Node{left},
	}

	for p.keyword("or") {
		p.advance()

		right, err := p.andExpr()
		if err != nil {
			return nil, err
		}

		node.Elems = append(node.Elems, right)
	}

	return node, nil
}

// andExpr parses "a and b and c" flattened into one NodeBoolOp.
func (p *parser) andExpr() (*Node, error) {
	left, err := p.notExpr()
	if err != nil {
		return nil, err
	}

	if !p.keyword("and") {
		return left, nil
	}

	node := &Node{
		Kind:  NodeBoolOp,
		Pos:   left.Pos,
		Op:    OpAnd,
		Elems: []*Node{left},
	}

	for p.keyword("and") {
		p.advance()

		right, err := p.notExpr()
		if err != nil {
			return nil, err
		}

		node.Elems = append(node.Elems, right)
	}

	return node, nil
}

func (p *parser) notExpr() (*Node, error) {
	if p.keyword("not") {
		t := p.advance()

		operand, err := p.notExpr()
		if err != nil {
			return nil, err
		}

		return &Node{Kind: NodeUnary, Pos: t.pos, Op: OpNot, Left: operand}, nil
	}

	return p.comparison()
}

// comparison parses a (possibly chained) comparison: each link's operator
// and comparand are recorded in order.
func (p *parser) comparison() (*Node, error) {
	left, err := p.bitOr()
	if err != nil {
		return nil, err
	}

	var (
		ops  []Operator
		cmps []*Node
	)

	for {
		op, ok, err := p.compareOp()
		if err != nil {
			return nil, err
		}

		if !ok {
			break
		}

		right, err := p.bitOr()
		if err != nil {
			return nil, err
		}

		ops = append(ops, op)
		cmps = append(cmps, right)
	}

	if len(ops) == 0 {
		return left, nil
	}

	return &Node{
		Kind: NodeCompare,
		Pos:  left.Pos,
		Left: left,
		Ops:  ops,
		Cmps: cmps,
	}, nil
}

// compareOp consumes one comparison operator if present, including the
// two-word forms "is not" and "not in".
func (p *parser) compareOp() (Operator, bool, error) {
	t := p.peek()

	switch t.typ {
	case tokEq:
		p.advance()

		return OpEq, true, nil

	case tokNe:
		p.advance()

		return OpNe, true, nil

	case tokLt:
		p.advance()

		return OpLt, true, nil

	case tokLe:
		p.advance()

		return OpLe, true, nil

	case tokGt:
		p.advance()

		return OpGt, true, nil

	case tokGe:
		p.advance()

		return OpGe, true, nil

	case tokName:
		switch t.lit {
		case "is":
			p.advance()

			if p.keyword("not") {
				p.advance()

				return OpIsNot, true, nil
			}

			return OpIs, true, nil

		case "in":
			p.advance()

			return OpIn, true, nil

		case "not":
			p.advance()

			if _, err := p.expectKeyword("in"); err != nil {
				return OpInvalid, false, err
			}

			return OpNotIn, true, nil
		}
	}

	return OpInvalid, false, nil
}

// binaryLevel parses a left-associative run of the given operators at one
// precedence level, descending into next for operands.
func (p *parser) binaryLevel(
	next func() (*Node, error),
	match func(token) (Operator, bool),
) (*Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()

		op, ok := match(t)
		if !ok {
			return left, nil
		}

		p.advance()

		right, err := next()
		if err != nil {
			return nil, err
		}

		left = &Node{
			Kind:  NodeBinary,
			Pos:   t.pos,
			Op:    op,
			Left:  left,
			Right: right,
		}
	}
}

func (p *parser) bitOr() (*Node, error) {
	return p.binaryLevel(p.bitXor, func(t token) (Operator, bool) {
		if t.typ == tokPipe {
			return OpBitOr, true
		}

		return OpInvalid, false
	})
}

func (p *parser) bitXor() (*Node, error) {
	return p.binaryLevel(p.bitAnd, func(t token) (Operator, bool) {
		if t.typ == tokCaret {
			return OpBitXor, true
		}

		return OpInvalid, false
	})
}

func (p *parser) bitAnd() (*Node, error) {
	return p.binaryLevel(p.shift, func(t token) (Operator, bool) {
		if t.typ == tokAmp {
			return OpBitAnd, true
		}

		return OpInvalid, false
	})
}

func (p *parser) shift() (*Node, error) {
	return p.binaryLevel(p.arith, func(t token) (Operator, bool) {
		switch t.typ {
		case tokShiftL:
			return OpShiftL, true
		case tokShiftR:
			return OpShiftR, true
		default:
			return OpInvalid, false
		}
	})
}

func (p *parser) arith() (*Node, error) {
	return p.binaryLevel(p.term, func(t token) (Operator, bool) {
		switch t.typ {
		case tokPlus:
			return OpAdd, true
		case tokMinus:
			return OpSub, true
		default:
			return OpInvalid, false
		}
	})
}

func (p *parser) term() (*Node, error) {
	return p.binaryLevel(p.factor, func(t token) (Operator, bool) {
		switch t.typ {
		case tokStar:
			return OpMul, true
		case tokSlash:
			return OpDiv, true
		case tokDblSlash:
			return OpFloorDiv, true
		case tokPercent:
			return OpMod, true
		default:
			return OpInvalid, false
		}
	})
}

// factor parses unary +, -, and ~ applications.
func (p *parser) factor() (*Node, error) {
	t := p.peek()

	var op Operator

	switch t.typ {
	case tokPlus:
		op = OpPos
	case tokMinus:
		op = OpNeg
	case tokTilde:
		op = OpInvert
	default:
		return p.power()
	}

	p.advance()

	operand, err := p.factor()
	if err != nil {
		return nil, err
	}

	return &Node{Kind: NodeUnary, Pos: t.pos, Op: op, Left: operand}, nil
}

// power parses x ** y, right-associative, with the exponent at factor
// level so a signed exponent binds as expected.
func (p *parser) power() (*Node, error) {
	base, err := p.postfix()
	if err != nil {
		return nil, err
	}

	if p.peek().typ != tokDblStar {
		return base, nil
	}

	t := p.advance()

	exp, err := p.factor()
	if err != nil {
		return nil, err
	}

	return &Node{
		Kind:  NodeBinary,
		Pos:   t.pos,
		Op:    OpPow,
		Left:  base,
		Right: exp,
	}, nil
}

// postfix parses call, attribute, and subscript trailers.
func (p *parser) postfix() (*Node, error) {
	node, err := p.atom()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()

		switch t.typ {
		case tokLParen:
			node, err = p.call(node, t)
			if err != nil {
				return nil, err
			}

		case tokDot:
			p.advance()

			name, err := p.expect(tokName, "attribute")
			if err != nil {
				return nil, err
			}

			node = &Node{
				Kind:   NodeAttribute,
				Pos:    t.pos,
				Target: node,
				Name:   name.lit,
			}

		case tokLBracket:
			p.advance()

			index, err := p.subscriptIndex()
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(tokRBracket, "subscript"); err != nil {
				return nil, err
			}

			node = &Node{
				Kind:   NodeSubscript,
				Pos:    t.pos,
				Target: node,
				Left:   index,
			}

		default:
			return node, nil
		}
	}
}

// subscriptIndex parses the inside of x[...], tolerating slice colons so
// the rejection happens by node kind, not by parse failure.
func (p *parser) subscriptIndex() (*Node, error) {
	// An empty or leading-colon slice has no index expression.
	if p.peek().typ == tokColon {
		p.advance()

		for p.peek().typ != tokRBracket && p.peek().typ != tokEOF {
			p.advance()
		}

		return nil, nil
	}

	index, err := p.expression()
	if err != nil {
		return nil, err
	}

	if p.peek().typ == tokColon {
		for p.peek().typ != tokRBracket && p.peek().typ != tokEOF {
			p.advance()
		}
	}

	return index, nil
}

// call parses the argument list of a call trailer.
func (p *parser) call(target *Node, open token) (*Node, error) {
	p.advance() // (

	node := &Node{Kind: NodeCall, Pos: open.pos, Target: target}

	for p.peek().typ != tokRParen {
		arg, kw, err := p.callArg()
		if err != nil {
			return nil, err
		}

		if arg != nil {
			node.Args = append(node.Args, arg)
		} else {
			node.Kwargs = append(node.Kwargs, kw)
		}

		if p.peek().typ != tokComma {
			break
		}

		p.advance()
	}

	if _, err := p.expect(tokRParen, "call"); err != nil {
		return nil, err
	}

	return node, nil
}

// callArg parses one argument: positional, kw=val, *args, or **kwargs.
// Starred forms become NodeStarred so the evaluator can refuse spreading.
func (p *parser) callArg() (*Node, Keyword, error) {
	t := p.peek()

	switch t.typ {
	case tokStar, tokDblStar:
		p.advance()

		operand, err := p.expression()
		if err != nil {
			return nil, Keyword{}, err
		}

		return &Node{Kind: NodeStarred, Pos: t.pos, Left: operand},
			Keyword{}, nil

	case tokName:
		// Lookahead for "name = value" keyword form.
		if p.peekNext().typ == tokAssign {
			name := p.advance()
			p.advance() // =

			val, err := p.expression()
			if err != nil {
				return nil, Keyword{}, err
			}

			return nil, Keyword{Name: name.lit, Value: val}, nil
		}
	}

	arg, err := p.expression()
	if err != nil {
		return nil, Keyword{}, err
	}

	return arg, Keyword{}, nil
}

// atom parses literals, names, and bracketed forms.
func (p *parser) atom() (*Node, error) {
	t := p.peek()

	switch t.typ {
	case tokInt, tokFloat:
		p.advance()

		return numberNode(t)

	case tokString:
		p.advance()

		return &Node{
			Kind: NodeLiteral,
			Pos:  t.pos,
			Lit:  value.Str(t.lit),
		}, nil

	case tokName:
		return p.nameAtom()

	case tokLParen:
		return p.parenAtom()

	case tokLBracket:
		return p.listAtom()

	case tokLBrace:
		return p.braceAtom()

	default:
		return nil, p.unexpected(t, "expression")
	}
}

// numberNode converts a numeric token to a literal node. Integers that
// overflow int64 degrade to floats rather than failing, since the language
// has no arbitrary-precision integers.
func numberNode(t token) (*Node, error) {
	if t.typ == tokInt {
		if i, err := strconv.ParseInt(t.lit, 0, 64); err == nil {
			return &Node{
				Kind: NodeLiteral,
				Pos:  t.pos,
				Lit:  value.Int(i),
			}, nil
		}
	}

	f, err := strconv.ParseFloat(t.lit, 64)
	if err != nil {
		return nil, ErrUnsupportedSyntax.With(
			slog.String("kind", "number"),
			slog.String("text", t.lit),
			slog.Int("offset", t.pos),
		)
	}

	return &Node{Kind: NodeLiteral, Pos: t.pos, Lit: value.Float(f)}, nil
}

func (p *parser) nameAtom() (*Node, error) {
	t := p.advance()

	switch t.lit {
	case "True":
		return &Node{Kind: NodeLiteral, Pos: t.pos, Lit: value.Bool(true)}, nil

	case "False":
		return &Node{Kind: NodeLiteral, Pos: t.pos, Lit: value.Bool(false)}, nil

	case "and", "or", "not", "in", "is", "if", "else", "for", "lambda":
		return nil, p.unexpected(t, "expression")

	default:
		return &Node{Kind: NodeName, Pos: t.pos, Name: t.lit}, nil
	}
}

// parenAtom parses (), (expr), (expr,...), and generator comprehensions.
func (p *parser) parenAtom() (*Node, error) {
	open := p.advance()

	if p.peek().typ == tokRParen {
		p.advance()

		return &Node{Kind: NodeTuple, Pos: open.pos}, nil
	}

	first, err := p.expression()
	if err != nil {
		return nil, err
	}

	if p.keyword("for") {
		node, err := p.comprehension(open, first)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokRParen, "comprehension"); err != nil {
			return nil, err
		}

		return node, nil
	}

	if p.peek().typ == tokComma {
		elems, err := p.elemTail(first)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokRParen, "tuple"); err != nil {
			return nil, err
		}

		return &Node{Kind: NodeTuple, Pos: open.pos, Elems: elems}, nil
	}

	if _, err := p.expect(tokRParen, "parenthesized expression"); err != nil {
		return nil, err
	}

	// Plain grouping.
	return first, nil
}

// listAtom parses [], [elems...], and list comprehensions.
func (p *parser) listAtom() (*Node, error) {
	open := p.advance()

	if p.peek().typ == tokRBracket {
		p.advance()

		return &Node{Kind: NodeList, Pos: open.pos}, nil
	}

	first, err := p.expression()
	if err != nil {
		return nil, err
	}

	if p.keyword("for") {
		node, err := p.comprehension(open, first)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokRBracket, "comprehension"); err != nil {
			return nil, err
		}

		return node, nil
	}

	elems, err := p.elemTail(first)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokRBracket, "list"); err != nil {
		return nil, err
	}

	return &Node{Kind: NodeList, Pos: open.pos, Elems: elems}, nil
}

// braceAtom parses {} (an empty map), set literals, map literals, and
// their comprehension forms.
func (p *parser) braceAtom() (*Node, error) {
	open := p.advance()

	if p.peek().typ == tokRBrace {
		p.advance()

		return &Node{Kind: NodeMap, Pos: open.pos}, nil
	}

	first, err := p.expression()
	if err != nil {
		return nil, err
	}

	if p.peek().typ == tokColon {
		return p.mapTail(open, first)
	}

	if p.keyword("for") {
		node, err := p.comprehension(open, first)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(tokRBrace, "comprehension"); err != nil {
			return nil, err
		}

		return node, nil
	}

	elems, err := p.elemTail(first)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tokRBrace, "set"); err != nil {
		return nil, err
	}

	return &Node{Kind: NodeSet, Pos: open.pos, Elems: elems}, nil
}

// mapTail parses the remainder of a map literal after its first key.
func (p *parser) mapTail(open token, firstKey *Node) (*Node, error) {
	node := &Node{Kind: NodeMap, Pos: open.pos}

	key := firstKey

	for {
		if _, err := p.expect(tokColon, "mapping"); err != nil {
			return nil, err
		}

		val, err := p.expression()
		if err != nil {
			return nil, err
		}

		node.Keys = append(node.Keys, key)
		node.Vals = append(node.Vals, val)

		if p.keyword("for") {
			// Map comprehension; recognized so it is rejected by kind.
			comp, err := p.comprehension(open, key)
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(tokRBrace, "comprehension"); err != nil {
				return nil, err
			}

			return comp, nil
		}

		if p.peek().typ != tokComma {
			break
		}

		p.advance()

		if p.peek().typ == tokRBrace {
			break // trailing comma
		}

		key, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(tokRBrace, "mapping"); err != nil {
		return nil, err
	}

	return node, nil
}

// elemTail parses ", elem, elem..." after the first element of a
// bracketed literal, tolerating one trailing comma.
func (p *parser) elemTail(first *Node) ([]*Node, error) {
	elems := []*Node{first}

	for p.peek().typ == tokComma {
		p.advance()

		switch p.peek().typ {
		case tokRParen, tokRBracket, tokRBrace, tokNewline, tokSemi, tokEOF:
			return elems, nil // trailing comma
		}

		elem, err := p.expression()
		if err != nil {
			return nil, err
		}

		elems = append(elems, elem)
	}

	return elems, nil
}

// comprehension loosely parses "for target in iterable [if cond]..."
// clauses into a NodeComprehension. The structure is recorded only well
// enough to reject it by kind; targets parse below comparison level so
// the "in" keyword is left for the clause itself.
func (p *parser) comprehension(open token, elt *Node) (*Node, error) {
	node := &Node{Kind: NodeComprehension, Pos: open.pos, Elems: []*Node{elt}}

	for p.keyword("for") {
		p.advance()

		target, err := p.bitOr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectKeyword("in"); err != nil {
			return nil, err
		}

		iterable, err := p.orExpr()
		if err != nil {
			return nil, err
		}

		node.Elems = append(node.Elems, target, iterable)

		for p.keyword("if") {
			p.advance()

			cond, err := p.orExpr()
			if err != nil {
				return nil, err
			}

			node.Elems = append(node.Elems, cond)
		}
	}

	return node, nil
}
