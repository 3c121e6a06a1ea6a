package expr

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenType identifies the lexical class of a token.
type tokenType int

const (
	tokEOF tokenType = iota
	tokNewline
	tokInt
	tokFloat
	tokString
	tokName

	// Punctuation and operators.
	tokLParen   // (
	tokRParen   // )
	tokLBracket // [
	tokRBracket // ]
	tokLBrace   // {
	tokRBrace   // }
	tokComma    // ,
	tokColon    // :
	tokSemi     // ;
	tokDot      // .
	tokAssign   // =
	tokPlus     // +
	tokMinus    // -
	tokStar     // *
	tokDblStar  // **
	tokSlash    // /
	tokDblSlash // //
	tokPercent  // %
	tokTilde    // ~
	tokPipe     // |
	tokCaret    // ^
	tokAmp      // &
	tokShiftL   // <<
	tokShiftR   // >>
	tokLt       // <
	tokLe       // <=
	tokGt       // >
	tokGe       // >=
	tokEq       // ==
	tokNe       // !=
)

// token is a single lexeme with its byte offset in the source.
type token struct {
	typ tokenType
	pos int
	lit string // literal text for names, numbers, and decoded strings
}

func (t token) String() string {
	switch t.typ {
	case tokEOF:
		return "end of input"
	case tokNewline:
		return "newline"
	default:
		return fmt.Sprintf("%q", t.lit)
	}
}

// lexer scans expression source into tokens.
//
// Logical structure mirrors the grammar the parser consumes: numbers with
// underscores and radix prefixes, single- or double-quoted strings with
// backslash escapes, names, and the fixed operator set. Anything the lexer
// cannot classify fails closed as unsupported syntax.
type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

// next returns the next token, skipping spaces, tabs, comments, and
// backslash-newline continuations. Bare newlines and semicolons are
// significant: they separate statements.
func (lx *lexer) next() (token, error) {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		switch {
		case c == ' ' || c == '\t' || c == '\r':
			lx.pos++

		case c == '\\' && lx.pos+1 < len(lx.src) && lx.src[lx.pos+1] == '\n':
			lx.pos += 2

		case c == '#':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}

		default:
			return lx.scan()
		}
	}

	return token{typ: tokEOF, pos: lx.pos}, nil
}

// tokens scans the entire source.
func (lx *lexer) tokens() ([]token, error) {
	var out []token

	for {
		t, err := lx.next()
		if err != nil {
			return nil, err
		}

		out = append(out, t)

		if t.typ == tokEOF {
			return out, nil
		}
	}
}

func (lx *lexer) scan() (token, error) {
	start := lx.pos
	c := lx.src[lx.pos]

	switch {
	case c == '\n':
		lx.pos++

		return token{typ: tokNewline, pos: start, lit: "\n"}, nil

	case c >= '0' && c <= '9':
		return lx.scanNumber()

	case c == '.' && lx.pos+1 < len(lx.src) && isDigit(lx.src[lx.pos+1]):
		return lx.scanNumber()

	case c == '\'' || c == '"':
		return lx.scanString()

	case isNameStart(rune(c)) || c >= utf8.RuneSelf:
		return lx.scanName()

	default:
		return lx.scanOperator()
	}
}

// operator tokens ordered longest-first so two-character forms win.
var operators = []struct {
	text string
	typ  tokenType
}{
	{"**", tokDblStar},
	{"//", tokDblSlash},
	{"<<", tokShiftL},
	{">>", tokShiftR},
	{"<=", tokLe},
	{">=", tokGe},
	{"==", tokEq},
	{"!=", tokNe},
	{"(", tokLParen},
	{")", tokRParen},
	{"[", tokLBracket},
	{"]", tokRBracket},
	{"{", tokLBrace},
	{"}", tokRBrace},
	{",", tokComma},
	{":", tokColon},
	{";", tokSemi},
	{".", tokDot},
	{"=", tokAssign},
	{"+", tokPlus},
	{"-", tokMinus},
	{"*", tokStar},
	{"/", tokSlash},
	{"%", tokPercent},
	{"~", tokTilde},
	{"|", tokPipe},
	{"^", tokCaret},
	{"&", tokAmp},
	{"<", tokLt},
	{">", tokGt},
}

func (lx *lexer) scanOperator() (token, error) {
	rest := lx.src[lx.pos:]

	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			t := token{typ: op.typ, pos: lx.pos, lit: op.text}
			lx.pos += len(op.text)

			return t, nil
		}
	}

	r, _ := utf8.DecodeRuneInString(rest)

	return token{}, ErrUnsupportedSyntax.With(
		slog.String("kind", "character"),
		slog.String("text", string(r)),
		slog.Int("offset", lx.pos),
	)
}

func (lx *lexer) scanNumber() (token, error) {
	start := lx.pos
	typ := tokInt

	// Radix prefix: the digits that follow are validated by strconv
	// during literal conversion in the parser.
	if lx.src[lx.pos] == '0' && lx.pos+1 < len(lx.src) {
		switch lx.src[lx.pos+1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			lx.pos += 2

			for lx.pos < len(lx.src) && isRadixDigit(lx.src[lx.pos]) {
				lx.pos++
			}

			return token{typ: tokInt, pos: start, lit: lx.src[start:lx.pos]}, nil
		}
	}

	digits := func() {
		for lx.pos < len(lx.src) &&
			(isDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '_') {
			lx.pos++
		}
	}

	digits()

	if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' {
		// A dot followed by a name is attribute access on an int literal,
		// which is left to the parser; a trailing or digit-adjacent dot is
		// part of the float.
		typ = tokFloat
		lx.pos++
		digits()
	}

	if lx.pos < len(lx.src) &&
		(lx.src[lx.pos] == 'e' || lx.src[lx.pos] == 'E') {
		mark := lx.pos
		lx.pos++

		if lx.pos < len(lx.src) &&
			(lx.src[lx.pos] == '+' || lx.src[lx.pos] == '-') {
			lx.pos++
		}

		if lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
			typ = tokFloat
			digits()
		} else {
			// Not an exponent after all (e.g. "2e" or "1else").
			lx.pos = mark
		}
	}

	return token{typ: typ, pos: start, lit: lx.src[start:lx.pos]}, nil
}

func (lx *lexer) scanString() (token, error) {
	start := lx.pos
	quote := lx.src[lx.pos]
	lx.pos++

	var sb strings.Builder

	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		switch c {
		case quote:
			lx.pos++

			return token{typ: tokString, pos: start, lit: sb.String()}, nil

		case '\n':
			return token{}, ErrUnsupportedSyntax.With(
				slog.String("kind", "unterminated string"),
				slog.Int("offset", start),
			)

		case '\\':
			r, err := lx.scanEscape(quote)
			if err != nil {
				return token{}, err
			}

			sb.WriteRune(r)

		default:
			r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
			sb.WriteRune(r)
			lx.pos += size
		}
	}

	return token{}, ErrUnsupportedSyntax.With(
		slog.String("kind", "unterminated string"),
		slog.Int("offset", start),
	)
}

// scanEscape decodes one backslash escape, positioned on the backslash.
func (lx *lexer) scanEscape(quote byte) (rune, error) {
	lx.pos++ // backslash

	if lx.pos >= len(lx.src) {
		return 0, ErrUnsupportedSyntax.With(
			slog.String("kind", "unterminated string"),
			slog.Int("offset", lx.pos),
		)
	}

	c := lx.src[lx.pos]
	lx.pos++

	switch c {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'a':
		return '\a', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'v':
		return '\v', nil
	case '0':
		return 0, nil
	case '\\', '\'', '"':
		return rune(c), nil
	case 'x':
		return lx.scanHex(2)
	case 'u':
		return lx.scanHex(4)
	case 'U':
		return lx.scanHex(8)
	default:
		if c == quote {
			return rune(c), nil
		}

		// Unknown escapes fail closed rather than passing through.
		return 0, ErrUnsupportedSyntax.With(
			slog.String("kind", "string escape"),
			slog.String("text", "\\"+string(c)),
			slog.Int("offset", lx.pos-2),
		)
	}
}

func (lx *lexer) scanHex(n int) (rune, error) {
	if lx.pos+n > len(lx.src) {
		return 0, ErrUnsupportedSyntax.With(
			slog.String("kind", "string escape"),
			slog.Int("offset", lx.pos),
		)
	}

	var v rune

	for range n {
		c := lx.src[lx.pos]

		var d rune

		switch {
		case c >= '0' && c <= '9':
			d = rune(c - '0')
		case c >= 'a' && c <= 'f':
			d = rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = rune(c-'A') + 10
		default:
			return 0, ErrUnsupportedSyntax.With(
				slog.String("kind", "string escape"),
				slog.Int("offset", lx.pos),
			)
		}

		v = v<<4 | d
		lx.pos++
	}

	return v, nil
}

func (lx *lexer) scanName() (token, error) {
	start := lx.pos

	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !isNameStart(r) && !unicode.IsDigit(r) {
			break
		}

		lx.pos += size
	}

	return token{typ: tokName, pos: start, lit: lx.src[start:lx.pos]}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isRadixDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') ||
		c == '_'
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
