package lawxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
)

// Parse reads a full XML document from r into a Node tree. encoding/xml's
// struct-tag unmarshaling is the corpus-idiomatic way to read XML (it is
// what both the retrieved statutory-XML and patent-XML reference packages
// use), but it cannot express an arbitrary, schema-free mixed-content tree
// that must be losslessly round-tripped and then mutated — so this walks
// the token stream directly and builds the same node shape the reference
// implementation gets for free from xml.etree.ElementTree.
func Parse(r io.Reader) (*Tree, error) {
	dec := xml.NewDecoder(r)

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("lawxml: parsing XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := NewNode(t.Name.Local)
			for _, a := range t.Attr {
				n.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				n.parent = parent
				parent.Children = append(parent.Children, n)
			} else {
				root = n
			}
			stack = append(stack, n)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			cur := stack[len(stack)-1]
			if len(cur.Children) == 0 {
				cur.Text += string(t)
			} else {
				last := cur.Children[len(cur.Children)-1]
				last.Tail += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("lawxml: empty document")
	}
	return NewTree(root), nil
}

// Write serializes tree back to XML, with a UTF-8 declaration (spec.md §6).
// Attribute order is not significant to the spec, but is kept stable
// (insertion order is not tracked by a plain map, so this sorts attribute
// names). <A> elements are the exception: only "law"/"article"/"paragraph"/
// "item" are written, in that fixed, required-then-optional order to match
// the link element shape spec.md §6 describes; any other attribute on an
// <A> element is not written.
func Write(w io.Writer, tree *Tree) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	if err := writeNode(enc, tree.Root); err != nil {
		return err
	}
	return enc.Flush()
}

func writeNode(enc *xml.Encoder, n *Node) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Tag}}
	start.Attr = attrTokens(n)

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.Text != "" {
		if err := enc.EncodeToken(xml.CharData(n.Text)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := writeNode(enc, c); err != nil {
			return err
		}
		if c.Tail != "" {
			if err := enc.EncodeToken(xml.CharData(c.Tail)); err != nil {
				return err
			}
		}
	}
	return enc.EncodeToken(xml.EndElement{Name: start.Name})
}

func attrTokens(n *Node) []xml.Attr {
	if n.Tag == "A" {
		order := []string{"law", "article", "paragraph", "item"}
		attrs := make([]xml.Attr, 0, len(order))
		for _, name := range order {
			if v, ok := n.Attrs[name]; ok {
				attrs = append(attrs, xml.Attr{Name: xml.Name{Local: name}, Value: v})
			}
		}
		return attrs
	}

	names := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		names = append(names, k)
	}
	sort.Strings(names)

	attrs := make([]xml.Attr, 0, len(names))
	for _, k := range names {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: k}, Value: n.Attrs[k]})
	}
	return attrs
}
