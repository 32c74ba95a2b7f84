package query

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/roach88/avrconf/internal/ir"
)

const signatureSeparators = " \t:-,_."

// ParseSignature parses textual signature forms into bytes.
//
// Accepted: six hex digits with optional separators and an optional 0x/0X
// prefix per group, e.g. "1e950f", "0x1e950f", "1e:95:0f", "0x1e 0x95 0x0f".
// Groups must split the digits on byte boundaries.
func ParseSignature(text string) (ir.Signature, error) {
	sig, err := parseSignature(text)
	if err != nil {
		return ir.Signature{}, err
	}
	return sig, nil
}

func parseSignature(text string) (ir.Signature, *InvalidSignatureError) {
	var sig ir.Signature
	fail := func(reason string) (ir.Signature, *InvalidSignatureError) {
		return ir.Signature{}, &InvalidSignatureError{Input: text, Reason: reason}
	}

	groups := strings.FieldsFunc(strings.TrimSpace(text), func(r rune) bool {
		return strings.ContainsRune(signatureSeparators, r)
	})
	if len(groups) == 0 {
		return fail("empty")
	}

	var raw []byte
	for _, g := range groups {
		if len(g) > 2 && g[0] == '0' && (g[1] == 'x' || g[1] == 'X') {
			g = g[2:]
		}
		if len(g)%2 != 0 {
			return fail(fmt.Sprintf("group %q is not a whole number of bytes", g))
		}
		b, err := hex.DecodeString(g)
		if err != nil {
			return fail(fmt.Sprintf("non-hex character in group %q", g))
		}
		raw = append(raw, b...)
	}
	if len(raw) != ir.SignatureLen {
		return fail("want 6 hex digits")
	}

	copy(sig[:], raw)
	return sig, nil
}
