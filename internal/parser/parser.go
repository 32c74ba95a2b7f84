package parser

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/avrconf/internal/ir"
)

// aliases maps alternative attribute spellings to their canonical name.
var aliases = map[string]string{
	"desc": ir.AttrDescription,
}

// Parse converts source text into entries in declaration order.
func Parse(src string) ([]ir.ConfigEntry, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parseFile()
}

// ParseFile reads and parses the file at path. Parse errors carry the path.
func ParseFile(path string) ([]ir.ConfigEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config source: %w", err)
	}
	entries, err := Parse(string(data))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return nil, err
	}
	return entries, nil
}

type parser struct {
	toks []token
	pos  int
	seq  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) advance() token {
	tok := p.toks[p.pos]
	if tok.typ != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(typ tokenType, context string) (token, error) {
	tok := p.peek()
	if tok.typ != typ {
		return tok, errorAt(tok.pos, "expected %s %s, found %s", typ, context, tok.describe())
	}
	return p.advance(), nil
}

// skipSemis consumes stray statement terminators.
func (p *parser) skipSemis() {
	for p.peek().typ == tokSemi {
		p.advance()
	}
}

func (p *parser) parseFile() ([]ir.ConfigEntry, error) {
	var entries []ir.ConfigEntry
	for {
		p.skipSemis()
		tok := p.peek()
		if tok.typ == tokEOF {
			return entries, nil
		}
		entry, err := p.parseEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
}

// parseEntry parses ("programmer" | "part") [STRING] "{" { stmt } "}" [";"].
func (p *parser) parseEntry() (ir.ConfigEntry, error) {
	kw := p.peek()
	if kw.typ != tokIdent || !ir.Kind(kw.text).Valid() {
		return ir.ConfigEntry{}, errorAt(kw.pos, "expected 'programmer' or 'part', found %s", kw.describe())
	}
	p.advance()
	kind := ir.Kind(kw.text)

	var headerID string
	hasHeader := false
	if p.peek().typ == tokString {
		headerID = p.advance().text
		hasHeader = true
	}

	open, err := p.expect(tokLBrace, fmt.Sprintf("to open %s block", kind))
	if err != nil {
		return ir.ConfigEntry{}, err
	}

	attrs, err := p.parseBody(open, string(kind), kind == ir.KindPart)
	if err != nil {
		return ir.ConfigEntry{}, err
	}
	if p.peek().typ == tokSemi {
		p.advance()
	}

	entry := ir.ConfigEntry{
		Kind: kind,
		Pos:  ir.Pos{Line: kw.pos.line, Column: kw.pos.col},
		Seq:  p.seq,
	}

	id, idPos, hasIDAttr, err := liftString(attrs, ir.AttrID)
	if err != nil {
		return ir.ConfigEntry{}, err
	}
	switch {
	case hasHeader && hasIDAttr && id != headerID:
		return ir.ConfigEntry{}, errorAt(idPos, "id %q conflicts with block name %q", id, headerID)
	case hasHeader:
		entry.ID = headerID
	case hasIDAttr:
		entry.ID = id
	default:
		return ir.ConfigEntry{}, errorAt(kw.pos, "%s block has no id", kind)
	}
	if entry.ID == "" {
		return ir.ConfigEntry{}, errorAt(kw.pos, "%s block has an empty id", kind)
	}

	parent, parentPos, hasParent, err := liftString(attrs, ir.AttrParent)
	if err != nil {
		return ir.ConfigEntry{}, err
	}
	if hasParent && parent == "" {
		return ir.ConfigEntry{}, errorAt(parentPos, "parent must not be empty")
	}
	entry.ParentID = parent

	entry.Attributes = attrs.build(ir.AttrID, ir.AttrParent)
	p.seq++
	return entry, nil
}

// parseBody parses statements up to and including the closing brace.
// sigOK is set only for the top level of a part block.
func (p *parser) parseBody(open token, what string, sigOK bool) (*attrList, error) {
	attrs := newAttrList()
	for {
		tok := p.peek()
		switch tok.typ {
		case tokRBrace:
			p.advance()
			return attrs, nil
		case tokSemi:
			p.advance()
		case tokEOF:
			return nil, errorAt(tok.pos, "%s block opened at %d:%d is missing its closing '}'",
				what, open.pos.line, open.pos.col)
		case tokIdent:
			if err := p.parseStatement(attrs, sigOK); err != nil {
				return nil, err
			}
		default:
			return nil, errorAt(tok.pos, "expected attribute name, found %s", tok.describe())
		}
	}
}

// parseStatement parses IDENT "=" value ";" or IDENT [STRING] "{" ... "}" [";"].
func (p *parser) parseStatement(attrs *attrList, sigOK bool) error {
	nameTok := p.advance()
	name := nameTok.text
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}

	switch p.peek().typ {
	case tokAssign:
		p.advance()
		v, err := p.parseValue(name, sigOK)
		if err != nil {
			return err
		}
		if _, err := p.expect(tokSemi, fmt.Sprintf("after value of %q", name)); err != nil {
			return err
		}
		attrs.set(name, v, nameTok.pos)
		return nil

	case tokString, tokLBrace:
		key := name
		if p.peek().typ == tokString {
			key = name + ":" + p.advance().text
		}
		open, err := p.expect(tokLBrace, fmt.Sprintf("to open %q block", key))
		if err != nil {
			return err
		}
		inner, err := p.parseBody(open, fmt.Sprintf("%q", key), false)
		if err != nil {
			return err
		}
		if p.peek().typ == tokSemi {
			p.advance()
		}
		attrs.set(key, ir.Block{Attrs: inner.build()}, nameTok.pos)
		return nil

	default:
		tok := p.peek()
		return errorAt(tok.pos, "expected '=' or block after %q, found %s", name, tok.describe())
	}
}

// parseValue parses STRING | NUMBER | NUMBER NUMBER NUMBER.
// Byte sequences are only legal for the signature attribute at the top level
// of a part block.
func (p *parser) parseValue(name string, sigOK bool) (ir.Value, error) {
	tok := p.peek()
	switch tok.typ {
	case tokString:
		p.advance()
		return ir.String(tok.text), nil
	case tokNumber:
		var nums []token
		for p.peek().typ == tokNumber {
			nums = append(nums, p.advance())
		}
		if name == ir.AttrSignature && sigOK {
			return signatureValue(tok, nums)
		}
		if len(nums) > 1 {
			return nil, errorAt(nums[1].pos, "byte sequences are only allowed for the %q of a part", ir.AttrSignature)
		}
		return ir.Int(tok.num), nil
	default:
		return nil, errorAt(tok.pos, "expected value for %q, found %s", name, tok.describe())
	}
}

func signatureValue(first token, nums []token) (ir.Value, error) {
	if len(nums) != ir.SignatureLen {
		return nil, errorAt(first.pos, "signature must be %d byte literals, found %d", ir.SignatureLen, len(nums))
	}
	b := make(ir.Bytes, 0, len(nums))
	for _, n := range nums {
		if n.num < 0 || n.num > 0xff {
			return nil, errorAt(n.pos, "byte literal %s out of range", n.text)
		}
		b = append(b, byte(n.num))
	}
	return b, nil
}

// liftString reads a reserved string attribute.
func liftString(attrs *attrList, name string) (string, position, bool, error) {
	i, ok := attrs.index[name]
	if !ok {
		return "", position{}, false, nil
	}
	a := attrs.items[i]
	s, ok := a.Value.(ir.String)
	if !ok {
		return "", a.pos, true, errorAt(a.pos, "%s must be a string, found %s", name, a.Value.TypeName())
	}
	return string(s), a.pos, true, nil
}

type posAttr struct {
	ir.Attribute
	pos position
}

// attrList collects assignments while parsing a block.
// A repeated name keeps its first position and takes the later value.
type attrList struct {
	items []posAttr
	index map[string]int
}

func newAttrList() *attrList {
	return &attrList{index: make(map[string]int)}
}

func (a *attrList) set(name string, v ir.Value, pos position) {
	if i, ok := a.index[name]; ok {
		a.items[i].Value = v
		a.items[i].pos = pos
		return
	}
	a.index[name] = len(a.items)
	a.items = append(a.items, posAttr{Attribute: ir.Attribute{Name: name, Value: v}, pos: pos})
}

func (a *attrList) build(drop ...string) ir.Attributes {
	skip := make(map[string]bool, len(drop))
	for _, d := range drop {
		skip[d] = true
	}
	out := make([]ir.Attribute, 0, len(a.items))
	for _, it := range a.items {
		if !skip[it.Name] {
			out = append(out, it.Attribute)
		}
	}
	return ir.NewAttributes(out...)
}
