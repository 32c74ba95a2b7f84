package export

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"

	"github.com/roach88/avrconf/internal/ir"
)

// ContentCUE renders records as CUE with the same layout as Content.
//
// The JSON document is compiled as a CUE value and formatted back to source.
// CUE keeps field order.
func ContentCUE(records []ir.Record) ([]byte, error) {
	data, err := Content(records)
	if err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename("content.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile CUE: %w", err)
	}

	out, err := format.Node(v.Syntax(cue.Final(), cue.Concrete(true)))
	if err != nil {
		return nil, fmt.Errorf("format CUE: %w", err)
	}
	return out, nil
}
