package parser

import "fmt"

// tokenType classifies a lexical token.
type tokenType int

const (
	tokEOF tokenType = iota
	tokIdent
	tokString
	tokNumber
	tokAssign // =
	tokSemi   // ;
	tokLBrace // {
	tokRBrace // }
)

var tokenNames = map[tokenType]string{
	tokEOF:    "end of file",
	tokIdent:  "identifier",
	tokString: "string",
	tokNumber: "number",
	tokAssign: "'='",
	tokSemi:   "';'",
	tokLBrace: "'{'",
	tokRBrace: "'}'",
}

func (t tokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

type position struct {
	line int
	col  int
}

// token is a single lexeme. For strings, text holds the decoded value; for
// numbers, num holds the parsed value and text the source spelling.
type token struct {
	typ  tokenType
	text string
	num  int64
	pos  position
}

func (t token) describe() string {
	switch t.typ {
	case tokIdent:
		return fmt.Sprintf("identifier %q", t.text)
	case tokString:
		return fmt.Sprintf("string %q", t.text)
	case tokNumber:
		return fmt.Sprintf("number %s", t.text)
	default:
		return t.typ.String()
	}
}
