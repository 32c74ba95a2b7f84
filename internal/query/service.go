// Package query is the read-only façade over an index.Index.
//
// A Service holds no mutable state; every method is a pure lookup and safe
// for concurrent use. Absence is reported through Result, never a panic.
package query

import (
	"github.com/roach88/avrconf/internal/index"
	"github.com/roach88/avrconf/internal/ir"
	"github.com/roach88/avrconf/internal/ordered"
)

// Service answers queries against one immutable Index.
type Service struct {
	idx *index.Index
}

// New returns a Service over idx.
func New(idx *index.Index) *Service {
	return &Service{idx: idx}
}

// ListAllIDs maps "programmer:<id>" and "part:<id>" to descriptions in
// declaration order.
func (s *Service) ListAllIDs() ordered.Map[string, string] {
	return s.idx.AllSummary()
}

// Content returns every resolved record in declaration order.
func (s *Service) Content() []ir.Record {
	return s.idx.Content()
}

// ListProgrammerIDs maps programmer ids to descriptions in declaration order.
func (s *Service) ListProgrammerIDs() ordered.Map[string, string] {
	return s.idx.ProgrammerSummary()
}

// ListPartIDs maps part ids to descriptions in declaration order.
func (s *Service) ListPartIDs() ordered.Map[string, string] {
	return s.idx.PartSummary()
}

// ListPartSignatures maps signatures to their owning part's description.
func (s *Service) ListPartSignatures() ordered.Map[ir.Signature, string] {
	return s.idx.SignatureSummary()
}

// FindProgrammerByID looks up a programmer by exact id.
func (s *Service) FindProgrammerByID(id string) Result[ir.ProgrammerRecord] {
	if r, ok := s.idx.Programmer(id); ok {
		return found(r)
	}
	return notFound[ir.ProgrammerRecord](&NotFoundError{Namespace: string(ir.KindProgrammer), Key: id})
}

// FindPartByID looks up a part by exact id.
func (s *Service) FindPartByID(id string) Result[ir.PartRecord] {
	if r, ok := s.idx.Part(id); ok {
		return found(r)
	}
	return notFound[ir.PartRecord](&NotFoundError{Namespace: string(ir.KindPart), Key: id})
}

// FindPartBySignature parses text with ParseSignature and looks up the
// owning part. Malformed text yields Invalid, not NotFound.
func (s *Service) FindPartBySignature(text string) Result[ir.PartRecord] {
	sig, err := parseSignature(text)
	if err != nil {
		return invalid[ir.PartRecord](err)
	}
	if r, ok := s.idx.PartBySignature(sig); ok {
		return found(r)
	}
	return notFound[ir.PartRecord](&NotFoundError{Namespace: "signature", Key: sig.String()})
}
