package compiler

import (
	"errors"

	"github.com/roach88/avrconf/internal/ir"
)

// Result holds resolved records in declaration order.
type Result struct {
	Programmers []ir.ProgrammerRecord
	Parts       []ir.PartRecord
}

// Build resolves inheritance between entries and produces typed records.
//
// Checks run in phases; every error of a phase is collected and returned
// together (errors.Join), and later phases do not run once a phase fails:
//  1. duplicate ids per namespace (DuplicateIDError)
//  2. parent references to missing ids (UnknownParentError)
//  3. inheritance cycles (CyclicInheritanceError)
//  4. resolution and reserved attribute types (AttributeTypeError)
//
// Use errors.As to inspect a specific error type.
func Build(entries []ir.ConfigEntry) (*Result, error) {
	if errs := checkDuplicates(entries); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if errs := checkParents(entries); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if reports := AnalyzeCycles(entries); len(reports) > 0 {
		errs := make([]error, len(reports))
		for i, r := range reports {
			errs[i] = &CyclicInheritanceError{Kind: r.Kind, Chain: r.Chain}
		}
		return nil, errors.Join(errs...)
	}

	result := &Result{
		Programmers: []ir.ProgrammerRecord{},
		Parts:       []ir.PartRecord{},
	}
	var errs []error

	progs := newResolver(newNamespace(entries, ir.KindProgrammer))
	for i, e := range progs.ns.entries {
		attrs, err := progs.resolve(i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rec, err := programmerRecord(e, attrs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result.Programmers = append(result.Programmers, rec)
	}

	parts := newResolver(newNamespace(entries, ir.KindPart))
	for i, e := range parts.ns.entries {
		attrs, err := parts.resolve(i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rec, err := partRecord(e, attrs)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		result.Parts = append(result.Parts, rec)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return result, nil
}

// checkDuplicates rejects repeated ids within a namespace. Overriding would
// silently replace another entry's index slot.
func checkDuplicates(entries []ir.ConfigEntry) []error {
	type key struct {
		kind ir.Kind
		id   string
	}
	first := make(map[key]ir.Pos)
	var errs []error
	for _, e := range entries {
		k := key{e.Kind, e.ID}
		if pos, ok := first[k]; ok {
			errs = append(errs, &DuplicateIDError{Kind: e.Kind, ID: e.ID, First: pos, Second: e.Pos})
			continue
		}
		first[k] = e.Pos
	}
	return errs
}

// checkParents rejects parent references that do not name an entry of the
// same kind.
func checkParents(entries []ir.ConfigEntry) []error {
	known := map[ir.Kind]map[string]bool{
		ir.KindProgrammer: {},
		ir.KindPart:       {},
	}
	for _, e := range entries {
		known[e.Kind][e.ID] = true
	}

	var errs []error
	for _, e := range entries {
		if e.HasParent() && !known[e.Kind][e.ParentID] {
			errs = append(errs, &UnknownParentError{Kind: e.Kind, ID: e.ID, Parent: e.ParentID, Pos: e.Pos})
		}
	}
	return errs
}

func programmerRecord(e ir.ConfigEntry, attrs ir.Attributes) (ir.ProgrammerRecord, error) {
	desc, err := description(e, attrs)
	if err != nil {
		return ir.ProgrammerRecord{}, err
	}
	return ir.ProgrammerRecord{
		ID:          e.ID,
		Parent:      e.ParentID,
		Description: desc,
		Attributes:  attrs.Without(ir.AttrDescription),
		Seq:         e.Seq,
	}, nil
}

func partRecord(e ir.ConfigEntry, attrs ir.Attributes) (ir.PartRecord, error) {
	desc, err := description(e, attrs)
	if err != nil {
		return ir.PartRecord{}, err
	}
	rec := ir.PartRecord{
		ID:          e.ID,
		Parent:      e.ParentID,
		Description: desc,
		Attributes:  attrs.Without(ir.AttrDescription, ir.AttrSignature),
		Seq:         e.Seq,
	}

	v, ok := attrs.Get(ir.AttrSignature)
	if !ok {
		return rec, nil
	}
	b, ok := v.(ir.Bytes)
	if !ok {
		return ir.PartRecord{}, typeError(e, ir.AttrSignature, "bytes", v)
	}
	sig, err := ir.SignatureFromBytes(b)
	if err != nil {
		return ir.PartRecord{}, typeError(e, ir.AttrSignature, "3 bytes", v)
	}
	rec.Signature = sig
	rec.HasSignature = true
	return rec, nil
}

func description(e ir.ConfigEntry, attrs ir.Attributes) (string, error) {
	v, ok := attrs.Get(ir.AttrDescription)
	if !ok {
		return "", nil
	}
	s, ok := v.(ir.String)
	if !ok {
		return "", typeError(e, ir.AttrDescription, "string", v)
	}
	return string(s), nil
}

func typeError(e ir.ConfigEntry, attr, want string, got ir.Value) *AttributeTypeError {
	return &AttributeTypeError{
		Kind:      e.Kind,
		ID:        e.ID,
		Attribute: attr,
		Want:      want,
		Got:       got.TypeName(),
	}
}
