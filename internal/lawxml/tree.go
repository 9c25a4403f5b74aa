package lawxml

import (
	"fmt"
	"strings"
)

// Tree wraps a document's root Node and the indexes the resolver needs:
// per-tag document-order listings (for the tree navigator, spec.md §4.4)
// built lazily and cached, since a document is processed once. Node already
// carries its own parent pointer (set by InsertChild / the parser), so no
// separate parent map is needed here — unlike the reference implementation,
// whose XML library does not expose parent pointers and has to build one.
type Tree struct {
	Root *Node

	byTag map[string][]*Node
}

// NewTree wraps root into a Tree, ready for querying.
func NewTree(root *Node) *Tree {
	return &Tree{Root: root}
}

// ElementsByTag returns every node with the given tag, in document order,
// computed once and cached.
func (t *Tree) ElementsByTag(tag string) []*Node {
	if t.byTag == nil {
		t.byTag = make(map[string][]*Node)
	}
	if els, ok := t.byTag[tag]; ok {
		return els
	}
	var els []*Node
	t.Root.Iter(tag, func(n *Node) { els = append(els, n) })
	t.byTag[tag] = els
	return els
}

// NearestAncestor walks up from n's parent looking for the closest ancestor
// with the given tag, returning nil if none exists.
func NearestAncestor(n *Node, tag string) *Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Tag == tag {
			return p
		}
	}
	return nil
}

// RelativeElement implements the tree navigator of spec.md §4.4: given the
// current sentence, a tag kind (Article/Paragraph/Item), and a signed
// offset k, it finds the nearest ancestor of that kind, locates it among
// all elements of that kind in document order, and returns the Num
// attribute of the element k positions away.
func (t *Tree) RelativeElement(sentence *Node, tag string, k int) (string, error) {
	self := NearestAncestor(sentence, tag)
	if self == nil {
		return "", fmt.Errorf("lawxml: no ancestor %s found for relative lookup", tag)
	}

	els := t.ElementsByTag(tag)
	selfIndex := -1
	for i, el := range els {
		if el == self {
			selfIndex = i
			break
		}
	}

	target := selfIndex + k
	if selfIndex < 0 || target < 0 || target >= len(els) {
		return "", fmt.Errorf("lawxml: relative lookup %s%+d out of range (self at %d of %d)", tag, k, selfIndex, len(els))
	}

	num, ok := els[target].Attr("Num")
	if !ok {
		return "", fmt.Errorf("lawxml: element at target position has no Num attribute")
	}
	return num, nil
}

// IsUnstable reports whether n's ancestor chain contains a
// supplementary-provision, appendix, or table element, per spec.md §4.4 —
// such a subtree's structural numbering is not guaranteed to be monotonic
// in document order, so relative lookups within it are unsafe.
func IsUnstable(n *Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Tag == "SupplProvision" || strings.HasPrefix(p.Tag, "Appdx") || strings.HasPrefix(p.Tag, "Table") {
			return true
		}
	}
	return false
}

// AncestorNums returns the Num attribute of the nearest enclosing Article,
// Paragraph, and Item (the "self_*" fallback context of spec.md §3),
// walking up from n's parent. Any of the three may be empty if no such
// ancestor exists.
func AncestorNums(n *Node) (article, paragraph, item string) {
	for p := n.Parent(); p != nil; p = p.Parent() {
		num, ok := p.Attr("Num")
		if !ok {
			continue
		}
		switch p.Tag {
		case "Article":
			if article == "" {
				article = num
			}
		case "Paragraph":
			if paragraph == "" {
				paragraph = num
			}
		case "Item":
			if item == "" {
				item = num
			}
		}
	}
	return article, paragraph, item
}
