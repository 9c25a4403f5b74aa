// Package lawxml is the document-tree abstraction the resolver and link
// splicer operate on: a mutable, parent-navigable mixed-content tree modeled
// directly on Python's xml.etree.ElementTree, which the reference
// implementation this package's algorithms are ported from relies on
// throughout (each node owns a leading Text, and each child owns its own
// Tail — the text immediately following it in its parent's content). That
// representation is what makes link splicing a local, non-reflowing edit:
// splitting a node's Text or a child's Tail never touches any other node.
package lawxml

import "strings"

// Node is one element of a parsed statute document. The XML parser/
// serializer itself is an external collaborator (spec.md §1); Node is the
// shape this package needs handed to it, and Parse/Write (codec.go) are a
// minimal implementation of that collaborator atop encoding/xml's token
// stream, since encoding/xml's struct-tag unmarshaling cannot preserve
// arbitrary mixed content losslessly.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Text     string // text before the first child
	Tail     string // text following this node in its parent's content (unused on the root)
	Children []*Node

	parent *Node
}

// NewNode creates a detached node with the given tag.
func NewNode(tag string) *Node {
	return &Node{Tag: tag, Attrs: map[string]string{}}
}

// Attr returns the named attribute and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// InsertChild inserts child at position idx among n's children, fixing up
// the parent pointer. idx == 0 inserts before all existing children.
func (n *Node) InsertChild(idx int, child *Node) {
	child.parent = n
	n.Children = append(n.Children, nil)
	copy(n.Children[idx+1:], n.Children[idx:])
	n.Children[idx] = child
}

// Iter walks the subtree rooted at n in document order (preorder),
// invoking fn for every node whose Tag matches tag (or every node, if tag
// is empty).
func (n *Node) Iter(tag string, fn func(*Node)) {
	if tag == "" || n.Tag == tag {
		fn(n)
	}
	for _, c := range n.Children {
		c.Iter(tag, fn)
	}
}

// FlattenedText recursively concatenates n's Text and the full text of
// every descendant, in document order — the invariant checked by the
// "text preservation" property (spec.md §8): splicing must never change
// this string for any sentence.
func (n *Node) FlattenedText() string {
	var out []byte
	out = append(out, n.Text...)
	for _, c := range n.Children {
		out = append(out, c.FlattenedText()...)
		out = append(out, c.Tail...)
	}
	return string(out)
}

// SentenceText builds the text the resolver scans (spec.md §4.4) and the
// splicer indexes link-record offsets against (§4.5): n's own Text,
// followed by each child's contribution. A child that is itself a
// previously-spliced link (Tag == "A") contributes its Text as well as its
// Tail, so a second link record can be positioned after the first within
// the same splicing pass; any other child (e.g. a Ruby annotation)
// contributes only its Tail — its own Text is not scanned, matching the
// reference behavior this package ports (Ruby support is explicitly out of
// scope here).
func (n *Node) SentenceText() string {
	var b strings.Builder
	b.WriteString(n.Text)
	for _, c := range n.Children {
		if c.Tag == "A" {
			b.WriteString(c.Text)
		}
		b.WriteString(c.Tail)
	}
	return b.String()
}
