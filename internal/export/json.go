// Package export renders records and summaries for output.
//
// Every serializer here is explicit: field order and representation are
// fixed by this package, never by reflection. Record documents carry the
// schema tag ir.SchemaVersion.
//
// JSON record layout:
//
//	{
//	  "kind": "part",
//	  "id": "m328p",
//	  "parent": "m328",              (omitted when empty)
//	  "description": "ATmega328P",
//	  "signature": "0x1e950f",       (parts with a signature only)
//	  "attributes": { ... }          (declaration order)
//	}
//
// Attribute values map as String → string, Int → number, Bytes → array of
// numbers, Block → object.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/avrconf/internal/ir"
	"github.com/roach88/avrconf/internal/ordered"
)

const indent = "  "

// Record renders one record as an indented JSON object.
func Record(r ir.Record) ([]byte, error) {
	var w jsonWriter
	if err := w.record(r); err != nil {
		return nil, err
	}
	return w.indented()
}

// Content renders records as {"schema": ..., "records": [...]}.
func Content(records []ir.Record) ([]byte, error) {
	var w jsonWriter
	w.raw("{")
	w.key("schema")
	if err := w.str(ir.SchemaVersion); err != nil {
		return nil, err
	}
	w.raw(",")
	w.key("records")
	w.raw("[")
	for i, r := range records {
		if i > 0 {
			w.raw(",")
		}
		if err := w.record(r); err != nil {
			return nil, fmt.Errorf("record %s: %w", r.Key(), err)
		}
	}
	w.raw("]}")
	return w.indented()
}

// Summary renders an id → description listing as a JSON object in order.
func Summary(m ordered.Map[string, string]) ([]byte, error) {
	var w jsonWriter
	w.raw("{")
	i := 0
	for id, desc := range m.All() {
		if i > 0 {
			w.raw(",")
		}
		i++
		if err := w.keyStr(id); err != nil {
			return nil, err
		}
		if err := w.str(desc); err != nil {
			return nil, err
		}
	}
	w.raw("}")
	return w.indented()
}

// SignatureSummary renders a signature → description listing as a JSON
// object keyed by "0x1e950f".
func SignatureSummary(m ordered.Map[ir.Signature, string]) ([]byte, error) {
	b := ordered.NewBuilder[string, string](m.Len())
	for sig, desc := range m.All() {
		b.Set(sig.String(), desc)
	}
	return Summary(b.Map())
}

type jsonWriter struct {
	buf bytes.Buffer
}

func (w *jsonWriter) raw(s string) {
	w.buf.WriteString(s)
}

func (w *jsonWriter) key(k string) {
	w.buf.WriteString(strconv.Quote(k))
	w.buf.WriteByte(':')
}

func (w *jsonWriter) keyStr(k string) error {
	if err := w.str(k); err != nil {
		return err
	}
	w.buf.WriteByte(':')
	return nil
}

// str writes s as a JSON string: NFC normalised, HTML characters unescaped.
func (w *jsonWriter) str(s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	w.buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

func (w *jsonWriter) record(r ir.Record) error {
	switch r := r.(type) {
	case ir.ProgrammerRecord:
		return w.fields(r.Kind(), r.ID, r.Parent, r.Description, nil, r.Attributes)
	case ir.PartRecord:
		var sig *ir.Signature
		if r.HasSignature {
			sig = &r.Signature
		}
		return w.fields(r.Kind(), r.ID, r.Parent, r.Description, sig, r.Attributes)
	default:
		return fmt.Errorf("unsupported record type %T", r)
	}
}

func (w *jsonWriter) fields(kind ir.Kind, id, parent, desc string, sig *ir.Signature, attrs ir.Attributes) error {
	w.raw("{")
	w.key("kind")
	if err := w.str(string(kind)); err != nil {
		return err
	}
	w.raw(",")
	w.key("id")
	if err := w.str(id); err != nil {
		return err
	}
	if parent != "" {
		w.raw(",")
		w.key("parent")
		if err := w.str(parent); err != nil {
			return err
		}
	}
	w.raw(",")
	w.key("description")
	if err := w.str(desc); err != nil {
		return err
	}
	if sig != nil {
		w.raw(",")
		w.key("signature")
		w.raw(strconv.Quote(sig.String()))
	}
	w.raw(",")
	w.key("attributes")
	if err := w.attributes(attrs); err != nil {
		return err
	}
	w.raw("}")
	return nil
}

func (w *jsonWriter) attributes(attrs ir.Attributes) error {
	w.raw("{")
	i := 0
	for name, v := range attrs.All() {
		if i > 0 {
			w.raw(",")
		}
		i++
		if err := w.keyStr(name); err != nil {
			return err
		}
		if err := w.value(v); err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
	}
	w.raw("}")
	return nil
}

func (w *jsonWriter) value(v ir.Value) error {
	switch v := v.(type) {
	case ir.String:
		return w.str(string(v))
	case ir.Int:
		w.raw(strconv.FormatInt(int64(v), 10))
	case ir.Bytes:
		w.raw("[")
		for i, b := range v {
			if i > 0 {
				w.raw(",")
			}
			w.raw(strconv.Itoa(int(b)))
		}
		w.raw("]")
	case ir.Block:
		return w.attributes(v.Attrs)
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}

// indented re-indents the compact document. json.Indent keeps key order and
// string escapes as written.
func (w *jsonWriter) indented() ([]byte, error) {
	var out bytes.Buffer
	if err := json.Indent(&out, w.buf.Bytes(), "", indent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
