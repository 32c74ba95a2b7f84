package ir

import "fmt"

// Kind identifies the namespace an entry or record belongs to.
type Kind string

const (
	KindProgrammer Kind = "programmer"
	KindPart       Kind = "part"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindProgrammer || k == KindPart
}

// Reserved attribute names. The parser lifts id and parent out of the
// attribute list; the compiler lifts description and signature into record
// fields.
const (
	AttrID          = "id"
	AttrParent      = "parent"
	AttrDescription = "description"
	AttrSignature   = "signature"
)

// Pos is a 1-based line and column in the source text.
type Pos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid reports whether the position carries location information.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ConfigEntry is one raw programmer or part block, before inheritance is
// resolved.
type ConfigEntry struct {
	Kind       Kind
	ID         string
	ParentID   string // empty when the entry has no parent
	Attributes Attributes
	Pos        Pos // position of the block keyword
	Seq        int // declaration index across the whole source
}

// HasParent reports whether the entry declares a parent.
func (e ConfigEntry) HasParent() bool {
	return e.ParentID != ""
}

// Record is a resolved programmer or part definition.
// Only ProgrammerRecord and PartRecord implement it.
type Record interface {
	// Kind returns the record's namespace.
	Kind() Kind
	// Key returns "kind:id", unique across both namespaces.
	Key() string
	// DeclSeq returns the declaration index of the source entry.
	DeclSeq() int
	record()
}

// ProgrammerRecord is a fully resolved programmer definition.
type ProgrammerRecord struct {
	ID          string
	Parent      string
	Description string
	Attributes  Attributes
	Seq         int
}

func (ProgrammerRecord) record() {}

// Kind implements Record.
func (ProgrammerRecord) Kind() Kind { return KindProgrammer }

// Key implements Record.
func (r ProgrammerRecord) Key() string { return string(KindProgrammer) + ":" + r.ID }

// DeclSeq implements Record.
func (r ProgrammerRecord) DeclSeq() int { return r.Seq }

// PartRecord is a fully resolved part definition.
type PartRecord struct {
	ID           string
	Parent       string
	Description  string
	Signature    Signature
	HasSignature bool
	Attributes   Attributes
	Seq          int
}

func (PartRecord) record() {}

// Kind implements Record.
func (PartRecord) Kind() Kind { return KindPart }

// Key implements Record.
func (r PartRecord) Key() string { return string(KindPart) + ":" + r.ID }

// DeclSeq implements Record.
func (r PartRecord) DeclSeq() int { return r.Seq }
