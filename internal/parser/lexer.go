package parser

import (
	"strconv"
	"strings"
	"unicode"
)

// lexer holds all mutable state for a single scanning pass over src.
type lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
	col  int // current 1-based column
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src), line: 1, col: 1}
}

// tokenize scans the whole source. It stops at the first lexical error.
func tokenize(src string) ([]token, error) {
	l := newLexer(src)
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.typ == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) here() position {
	return position{line: l.line, col: l.col}
}

// peek returns the rune at the current position without advancing.
func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *lexer) atEOF() bool {
	return l.pos >= len(l.src)
}

// advance consumes one rune and returns it.
func (l *lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// skipInsignificant discards whitespace and # comments.
func (l *lexer) skipInsignificant() {
	for !l.atEOF() {
		r := l.peek()
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '#':
			for !l.atEOF() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipInsignificant()
	start := l.here()
	if l.atEOF() {
		return token{typ: tokEOF, pos: start}, nil
	}

	r := l.peek()
	switch {
	case r == '=':
		l.advance()
		return token{typ: tokAssign, text: "=", pos: start}, nil
	case r == ';':
		l.advance()
		return token{typ: tokSemi, text: ";", pos: start}, nil
	case r == '{':
		l.advance()
		return token{typ: tokLBrace, text: "{", pos: start}, nil
	case r == '}':
		l.advance()
		return token{typ: tokRBrace, text: "}", pos: start}, nil
	case r == '"':
		return l.scanString()
	case isDigit(r), r == '-' && isDigit(l.peek2()):
		return l.scanNumber()
	case isIdentStart(r):
		return l.scanIdent(), nil
	default:
		return token{}, errorAt(start, "unexpected character %q", r)
	}
}

// scanIdent collects an identifier or keyword.
// The first character must still be at l.peek().
func (l *lexer) scanIdent() token {
	start := l.here()
	begin := l.pos
	for !l.atEOF() && isIdentPart(l.peek()) {
		l.advance()
	}
	return token{typ: tokIdent, text: string(l.src[begin:l.pos]), pos: start}
}

// scanNumber collects a numeric literal and its trailing letters so that
// "12ab" or "0x" is reported as one malformed literal rather than two tokens.
func (l *lexer) scanNumber() (token, error) {
	start := l.here()
	begin := l.pos
	if l.peek() == '-' {
		l.advance()
	}
	for !l.atEOF() {
		r := l.peek()
		if !isDigit(r) && !unicode.IsLetter(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[begin:l.pos])

	n, err := strconv.ParseInt(lexeme, 0, 64)
	if err != nil {
		return token{}, errorAt(start, "malformed numeric literal %q", lexeme)
	}
	return token{typ: tokNumber, text: lexeme, num: n, pos: start}, nil
}

// scanString collects a double-quoted string literal and decodes escapes.
// A raw newline or end of input before the closing quote is an error.
func (l *lexer) scanString() (token, error) {
	start := l.here()
	l.advance() // consume opening "

	var b strings.Builder
	for {
		if l.atEOF() || l.peek() == '\n' {
			return token{}, errorAt(start, "unterminated string literal")
		}
		r := l.advance()
		if r == '"' {
			return token{typ: tokString, text: b.String(), pos: start}, nil
		}
		if r != '\\' {
			b.WriteRune(r)
			continue
		}

		escPos := l.here()
		if l.atEOF() {
			return token{}, errorAt(start, "unterminated string literal")
		}
		esc := l.advance()
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '"', '\'':
			b.WriteRune(esc)
		case 'x':
			hi, lo := l.advance(), l.advance()
			v, err := strconv.ParseUint(string([]rune{hi, lo}), 16, 8)
			if err != nil {
				return token{}, errorAt(escPos, "malformed \\x escape in string literal")
			}
			b.WriteByte(byte(v))
		default:
			return token{}, errorAt(escPos, "unknown escape sequence \\%c", esc)
		}
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
