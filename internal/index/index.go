// Package index holds the immutable lookup structures built from resolved
// records.
//
// An Index is constructed once and never mutated. Every accessor returns a
// value copy or a read-only ordered.Map, so an Index may be shared between
// goroutines without locking. A reload builds a new Index and swaps the
// reference readers observe.
package index

import (
	"errors"
	"slices"

	"github.com/roach88/avrconf/internal/compiler"
	"github.com/roach88/avrconf/internal/ir"
	"github.com/roach88/avrconf/internal/ordered"
)

// Index is the read-only snapshot of one configuration source.
type Index struct {
	programmerByID  map[string]ir.ProgrammerRecord
	partByID        map[string]ir.PartRecord
	partBySignature map[ir.Signature]ir.PartRecord

	programmerSummary ordered.Map[string, string]
	partSummary       ordered.Map[string, string]
	signatureSummary  ordered.Map[ir.Signature, string]
	allSummary        ordered.Map[string, string]

	content []ir.Record
}

// New builds an Index from resolved records.
//
// Records are expected in declaration order, as returned by compiler.Build.
// Duplicate ids within a namespace are rejected with *compiler.DuplicateIDError.
// When two parts share a signature the later-declared part owns it: the
// signature maps to that part and appears in SignatureSummary at its position.
func New(programmers []ir.ProgrammerRecord, parts []ir.PartRecord) (*Index, error) {
	idx := &Index{
		programmerByID:  make(map[string]ir.ProgrammerRecord, len(programmers)),
		partByID:        make(map[string]ir.PartRecord, len(parts)),
		partBySignature: make(map[ir.Signature]ir.PartRecord),
	}

	var errs []error
	progSummary := ordered.NewBuilder[string, string](len(programmers))
	for _, p := range programmers {
		if _, dup := idx.programmerByID[p.ID]; dup {
			errs = append(errs, &compiler.DuplicateIDError{Kind: ir.KindProgrammer, ID: p.ID})
			continue
		}
		idx.programmerByID[p.ID] = p
		progSummary.Set(p.ID, p.Description)
	}

	partSummary := ordered.NewBuilder[string, string](len(parts))
	sigSummary := ordered.NewBuilder[ir.Signature, string](len(parts))
	for _, p := range sortedBySeq(parts) {
		if _, dup := idx.partByID[p.ID]; dup {
			errs = append(errs, &compiler.DuplicateIDError{Kind: ir.KindPart, ID: p.ID})
			continue
		}
		idx.partByID[p.ID] = p
		partSummary.Set(p.ID, p.Description)
		if p.HasSignature {
			idx.partBySignature[p.Signature] = p
			sigSummary.Append(p.Signature, p.Description)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	idx.programmerSummary = progSummary.Map()
	idx.partSummary = partSummary.Map()
	idx.signatureSummary = sigSummary.Map()

	idx.content = make([]ir.Record, 0, len(programmers)+len(parts))
	for _, p := range programmers {
		idx.content = append(idx.content, p)
	}
	for _, p := range parts {
		idx.content = append(idx.content, p)
	}
	slices.SortStableFunc(idx.content, func(a, b ir.Record) int {
		return a.DeclSeq() - b.DeclSeq()
	})

	all := ordered.NewBuilder[string, string](len(idx.content))
	for _, r := range idx.content {
		all.Set(r.Key(), description(r))
	}
	idx.allSummary = all.Map()

	return idx, nil
}

// sortedBySeq orders parts by declaration so "later wins" follows the
// source, whatever order the caller passed them in.
func sortedBySeq(parts []ir.PartRecord) []ir.PartRecord {
	out := slices.Clone(parts)
	slices.SortStableFunc(out, func(a, b ir.PartRecord) int { return a.Seq - b.Seq })
	return out
}

func description(r ir.Record) string {
	switch r := r.(type) {
	case ir.ProgrammerRecord:
		return r.Description
	case ir.PartRecord:
		return r.Description
	default:
		return ""
	}
}

// Programmer returns the programmer with the given id.
func (x *Index) Programmer(id string) (ir.ProgrammerRecord, bool) {
	r, ok := x.programmerByID[id]
	return r, ok
}

// Part returns the part with the given id.
func (x *Index) Part(id string) (ir.PartRecord, bool) {
	r, ok := x.partByID[id]
	return r, ok
}

// PartBySignature returns the part owning sig.
func (x *Index) PartBySignature(sig ir.Signature) (ir.PartRecord, bool) {
	r, ok := x.partBySignature[sig]
	return r, ok
}

// ProgrammerSummary maps programmer id to description in declaration order.
func (x *Index) ProgrammerSummary() ordered.Map[string, string] {
	return x.programmerSummary
}

// PartSummary maps part id to description in declaration order.
func (x *Index) PartSummary() ordered.Map[string, string] {
	return x.partSummary
}

// SignatureSummary maps each signature to its owning part's description.
func (x *Index) SignatureSummary() ordered.Map[ir.Signature, string] {
	return x.signatureSummary
}

// AllSummary maps "programmer:<id>" and "part:<id>" to descriptions, both
// namespaces interleaved in declaration order.
func (x *Index) AllSummary() ordered.Map[string, string] {
	return x.allSummary
}

// Content returns every record in declaration order.
func (x *Index) Content() []ir.Record {
	return slices.Clone(x.content)
}

// NumProgrammers returns the number of programmer records.
func (x *Index) NumProgrammers() int { return len(x.programmerByID) }

// NumParts returns the number of part records.
func (x *Index) NumParts() int { return len(x.partByID) }
