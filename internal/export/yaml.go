package export

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/roach88/avrconf/internal/ir"
)

// ContentYAML renders records as a YAML document with the same layout as
// Content. The document is built as a yaml.Node tree so mapping order follows
// declaration order.
func ContentYAML(records []ir.Record) ([]byte, error) {
	list := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range records {
		n, err := recordNode(r)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.Key(), err)
		}
		list.Content = append(list.Content, n)
	}

	doc := mapping(
		strNode("schema"), strNode(ir.SchemaVersion),
		strNode("records"), list,
	)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func recordNode(r ir.Record) (*yaml.Node, error) {
	var (
		id, parent, desc string
		sig              *ir.Signature
		attrs            ir.Attributes
	)
	switch r := r.(type) {
	case ir.ProgrammerRecord:
		id, parent, desc, attrs = r.ID, r.Parent, r.Description, r.Attributes
	case ir.PartRecord:
		id, parent, desc, attrs = r.ID, r.Parent, r.Description, r.Attributes
		if r.HasSignature {
			sig = &r.Signature
		}
	default:
		return nil, fmt.Errorf("unsupported record type %T", r)
	}

	n := mapping(
		strNode("kind"), strNode(string(r.Kind())),
		strNode("id"), strNode(id),
	)
	if parent != "" {
		n.Content = append(n.Content, strNode("parent"), strNode(parent))
	}
	n.Content = append(n.Content, strNode("description"), strNode(desc))
	if sig != nil {
		n.Content = append(n.Content, strNode("signature"), strNode(sig.String()))
	}
	an, err := attributesNode(attrs)
	if err != nil {
		return nil, err
	}
	n.Content = append(n.Content, strNode("attributes"), an)
	return n, nil
}

func attributesNode(attrs ir.Attributes) (*yaml.Node, error) {
	n := mapping()
	for name, v := range attrs.All() {
		vn, err := valueNode(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		n.Content = append(n.Content, strNode(name), vn)
	}
	return n, nil
}

func valueNode(v ir.Value) (*yaml.Node, error) {
	switch v := v.(type) {
	case ir.String:
		return strNode(string(v)), nil
	case ir.Int:
		return intNode(int64(v)), nil
	case ir.Bytes:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, b := range v {
			seq.Content = append(seq.Content, intNode(int64(b)))
		}
		return seq, nil
	case ir.Block:
		return attributesNode(v.Attrs)
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

func mapping(content ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: content}
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(i int64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(i, 10)}
}
