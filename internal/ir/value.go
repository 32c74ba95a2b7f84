package ir

import (
	"bytes"
	"iter"
)

// Value is a sealed interface representing attribute value types.
// Only String, Int, Bytes and Block implement this.
type Value interface {
	// TypeName returns the value's type as used in diagnostics.
	TypeName() string
	value() // Sealed - only these types implement it
}

// String represents a quoted string literal.
type String string

func (String) value() {}

// TypeName implements Value.
func (String) TypeName() string { return "string" }

// Int represents a numeric literal (decimal, hex, octal or binary in source).
type Int int64

func (Int) value() {}

// TypeName implements Value.
func (Int) TypeName() string { return "int" }

// Bytes represents a space-separated byte literal sequence.
// The parser only produces it for the signature attribute.
// Attributes stores its own copy and hands out copies.
type Bytes []byte

func (Bytes) value() {}

// TypeName implements Value.
func (Bytes) TypeName() string { return "bytes" }

// Clone returns a copy of the byte sequence.
func (b Bytes) Clone() Bytes {
	return Bytes(bytes.Clone(b))
}

// Block represents a nested key-value block such as memory "flash" { ... }.
type Block struct {
	Attrs Attributes
}

func (Block) value() {}

// TypeName implements Value.
func (Block) TypeName() string { return "block" }

// Attribute is a single name = value assignment.
type Attribute struct {
	Name  string
	Value Value
}

// Attributes is an immutable, order-preserving mapping of attribute names to
// values. The zero value is an empty mapping.
type Attributes struct {
	items []Attribute
	index map[string]int
}

// NewAttributes builds Attributes from assignments in declaration order.
// A repeated name keeps its first position and takes the later value.
func NewAttributes(items ...Attribute) Attributes {
	if len(items) == 0 {
		return Attributes{}
	}
	a := Attributes{
		items: make([]Attribute, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, it := range items {
		it.Value = cloneValue(it.Value)
		if i, ok := a.index[it.Name]; ok {
			a.items[i].Value = it.Value
			continue
		}
		a.index[it.Name] = len(a.items)
		a.items = append(a.items, it)
	}
	return a
}

// Len returns the number of attributes.
func (a Attributes) Len() int {
	return len(a.items)
}

// Get returns the value for name.
func (a Attributes) Get(name string) (Value, bool) {
	i, ok := a.index[name]
	if !ok {
		return nil, false
	}
	return cloneValue(a.items[i].Value), true
}

// Has reports whether name is set.
func (a Attributes) Has(name string) bool {
	_, ok := a.index[name]
	return ok
}

// Names returns attribute names in declaration order.
func (a Attributes) Names() []string {
	names := make([]string, len(a.items))
	for i, it := range a.items {
		names[i] = it.Name
	}
	return names
}

// Items returns a copy of the assignments in declaration order.
func (a Attributes) Items() []Attribute {
	out := make([]Attribute, len(a.items))
	for i, it := range a.items {
		out[i] = Attribute{Name: it.Name, Value: cloneValue(it.Value)}
	}
	return out
}

// All iterates attributes in declaration order.
func (a Attributes) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, it := range a.items {
			if !yield(it.Name, cloneValue(it.Value)) {
				return
			}
		}
	}
}

// Without returns a copy of a with the named attributes removed.
func (a Attributes) Without(names ...string) Attributes {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := make([]Attribute, 0, len(a.items))
	for _, it := range a.items {
		if !drop[it.Name] {
			kept = append(kept, it)
		}
	}
	return NewAttributes(kept...)
}

// Equal reports whether a and b hold the same names, in the same order,
// with equal values.
func (a Attributes) Equal(b Attributes) bool {
	if len(a.items) != len(b.items) {
		return false
	}
	for i := range a.items {
		if a.items[i].Name != b.items[i].Name {
			return false
		}
		if !ValueEqual(a.items[i].Value, b.items[i].Value) {
			return false
		}
	}
	return true
}

// cloneValue copies the mutable backing of v. Blocks need no copy: their
// Attributes are only reachable through these accessors.
func cloneValue(v Value) Value {
	if b, ok := v.(Bytes); ok {
		return b.Clone()
	}
	return v
}

// ValueEqual compares two values structurally.
func ValueEqual(x, y Value) bool {
	switch xv := x.(type) {
	case String:
		yv, ok := y.(String)
		return ok && xv == yv
	case Int:
		yv, ok := y.(Int)
		return ok && xv == yv
	case Bytes:
		yv, ok := y.(Bytes)
		return ok && bytes.Equal(xv, yv)
	case Block:
		yv, ok := y.(Block)
		return ok && xv.Attrs.Equal(yv.Attrs)
	default:
		return x == nil && y == nil
	}
}
