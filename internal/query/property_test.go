package query

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/roach88/avrconf/internal/index"
	"github.com/roach88/avrconf/internal/ir"
)

// TestSignatureProperties tests textual forms and byte-exact lookup.
func TestSignatureProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: every accepted textual form denotes the same bytes
	properties.Property("textual forms agree", prop.ForAll(
		func(a, b, c uint8) bool {
			want := ir.Signature{a, b, c}
			forms := []string{
				want.Hex(),
				want.String(),
				strings.ToUpper(want.Hex()),
				fmt.Sprintf("0x%02x 0x%02x 0x%02x", a, b, c),
				fmt.Sprintf("%02X:%02X:%02X", a, b, c),
			}
			for _, f := range forms {
				got, err := ParseSignature(f)
				if err != nil || got != want {
					return false
				}
			}
			return true
		},
		gen.UInt8(),
		gen.UInt8(),
		gen.UInt8(),
	))

	// Property: a part is found by its signature and by no other ordering
	properties.Property("lookup is byte-exact", prop.ForAll(
		func(a, b, c uint8) bool {
			src := fmt.Sprintf(`part "p" { signature = %d %d %d; }`, a, b, c)
			idx, err := index.Load(src)
			if err != nil {
				return false
			}
			svc := New(idx)

			sig := ir.Signature{a, b, c}
			if res := svc.FindPartBySignature(sig.Hex()); !res.OK() || res.Value.ID != "p" {
				return false
			}
			for _, perm := range []ir.Signature{{a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a}} {
				res := svc.FindPartBySignature(perm.Hex())
				if perm == sig {
					if !res.OK() {
						return false
					}
					continue
				}
				if res.Status != NotFound {
					return false
				}
			}
			return true
		},
		gen.UInt8(),
		gen.UInt8(),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}

// TestIDProperties tests id round-trips and declaration-order listings.
func TestIDProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: every declared id is found under that id, and listings keep
	// declaration order
	properties.Property("id round-trip", prop.ForAll(
		func(raw []string) bool {
			seen := make(map[string]bool)
			var ids []string
			var src strings.Builder
			for _, id := range raw {
				if seen[id] {
					continue
				}
				seen[id] = true
				ids = append(ids, id)
				fmt.Fprintf(&src, "programmer %q { description = %q; }\n", id, "prog "+id)
				fmt.Fprintf(&src, "part %q { description = %q; }\n", id, "part "+id)
			}

			idx, err := index.Load(src.String())
			if err != nil {
				return false
			}
			svc := New(idx)

			for _, id := range ids {
				p := svc.FindProgrammerByID(id)
				q := svc.FindPartByID(id)
				if !p.OK() || p.Value.ID != id || !q.OK() || q.Value.ID != id {
					return false
				}
				if q.Value.Description != "part "+id {
					return false
				}
			}
			return equalStrings(svc.ListProgrammerIDs().Keys(), ids) &&
				equalStrings(svc.ListPartIDs().Keys(), ids) &&
				svc.ListAllIDs().Len() == 2*len(ids)
		},
		gen.SliceOfN(6, gen.RegexMatch(`^[a-z][a-z0-9_]{0,7}$`)),
	))

	properties.TestingRun(t)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
