package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/avrconf/internal/ir"
)

// Build error codes (E200-E299). E201 is parser.ErrCodeParse.
const (
	ErrCodeDuplicateID       = "E202" // two entries share an id in one namespace
	ErrCodeUnknownParent     = "E203" // parent references a missing id
	ErrCodeCyclicInheritance = "E204" // parent references form a cycle
	ErrCodeAttributeType     = "E205" // reserved attribute has the wrong type
)

// DuplicateIDError reports two entries of the same kind sharing an id.
type DuplicateIDError struct {
	Kind   ir.Kind
	ID     string
	First  ir.Pos
	Second ir.Pos
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s: duplicate %s id %q (first declared at %s)", e.Second, e.Kind, e.ID, e.First)
}

// Code returns the error code.
func (e *DuplicateIDError) Code() string { return ErrCodeDuplicateID }

// UnknownParentError reports a parent reference to an id that does not exist
// in the entry's namespace.
type UnknownParentError struct {
	Kind   ir.Kind
	ID     string
	Parent string
	Pos    ir.Pos
}

func (e *UnknownParentError) Error() string {
	return fmt.Sprintf("%s: %s %q inherits from unknown %s %q", e.Pos, e.Kind, e.ID, e.Kind, e.Parent)
}

// Code returns the error code.
func (e *UnknownParentError) Code() string { return ErrCodeUnknownParent }

// CyclicInheritanceError reports a cycle in parent references.
// Chain starts and ends on the same id: ["a", "b", "a"].
type CyclicInheritanceError struct {
	Kind  ir.Kind
	Chain []string
}

func (e *CyclicInheritanceError) Error() string {
	return fmt.Sprintf("cyclic %s inheritance: %s", e.Kind, strings.Join(e.Chain, " → "))
}

// Code returns the error code.
func (e *CyclicInheritanceError) Code() string { return ErrCodeCyclicInheritance }

// AttributeTypeError reports a reserved attribute holding the wrong value type
// after inheritance is resolved.
type AttributeTypeError struct {
	Kind      ir.Kind
	ID        string
	Attribute string
	Want      string
	Got       string
}

func (e *AttributeTypeError) Error() string {
	return fmt.Sprintf("%s %q: attribute %q must be %s, found %s", e.Kind, e.ID, e.Attribute, e.Want, e.Got)
}

// Code returns the error code.
func (e *AttributeTypeError) Code() string { return ErrCodeAttributeType }
