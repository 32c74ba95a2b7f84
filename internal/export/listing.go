package export

import (
	"fmt"
	"strings"

	"github.com/roach88/avrconf/internal/ir"
	"github.com/roach88/avrconf/internal/ordered"
)

// CommentedIDs renders an id → description listing as an array literal with
// one element per line, each followed by its description as a comment:
//
//	[
//	  "avrisp", // Atmel AVR ISP
//	]
func CommentedIDs(m ordered.Map[string, string]) string {
	var b strings.Builder
	b.WriteString("[\n")
	for id, desc := range m.All() {
		fmt.Fprintf(&b, "  \"%s\", // %s\n", id, oneLine(desc))
	}
	b.WriteString("]")
	return b.String()
}

// CommentedSignatures renders a signature listing in the same form:
//
//	[
//	  [ 0x1e, 0x95, 0x0f ], // 0x1e950f - ATmega328P
//	]
func CommentedSignatures(m ordered.Map[ir.Signature, string]) string {
	var b strings.Builder
	b.WriteString("[\n")
	for sig, desc := range m.All() {
		fmt.Fprintf(&b, "  [ 0x%02x, 0x%02x, 0x%02x ], // %s - %s\n", sig[0], sig[1], sig[2], sig, oneLine(desc))
	}
	b.WriteString("]")
	return b.String()
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// oneLine keeps a description inside its trailing // comment.
func oneLine(s string) string {
	return lineBreaks.Replace(s)
}
