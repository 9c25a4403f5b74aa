// Package diag models the non-fatal diagnostics the resolver and index
// loader raise while processing a corpus: the reference implementation's
// scattered print() calls, reshaped into a small typed value any driver can
// log, count, or filter. Every diagnostic carries a Kind and renders itself
// with String(), the same pattern this codebase's ancestry uses for its
// polymorphic result values.
package diag

import "fmt"

// Kind identifies which diagnostic a Diagnostic value carries.
type Kind int

const (
	AmbiguousNameKind Kind = iota
	RelativeOutOfRangeKind
	GrammarExceptionKind
	ShortNameSkippedKind
)

func (k Kind) String() string {
	switch k {
	case AmbiguousNameKind:
		return "ambiguous-name"
	case RelativeOutOfRangeKind:
		return "relative-out-of-range"
	case GrammarExceptionKind:
		return "grammar-exception"
	case ShortNameSkippedKind:
		return "short-name-skipped"
	default:
		return "unknown"
	}
}

// Diagnostic is any condition worth reporting but not worth aborting a run
// over.
type Diagnostic interface {
	Kind() Kind
	String() string
}

// AmbiguousName is raised when a statute name (or its bracketed
// disambiguator) resolves to zero or more than one statute ID — "法令名不整合
// または 法令不確定" in the reference implementation.
type AmbiguousName struct {
	Name string
	IDs  []string
	Doc  string
}

func (d AmbiguousName) Kind() Kind { return AmbiguousNameKind }

func (d AmbiguousName) String() string {
	if len(d.IDs) == 0 {
		return fmt.Sprintf("%s: statute name %q did not resolve to any statute ID", d.Doc, d.Name)
	}
	return fmt.Sprintf("%s: statute name %q resolved to %d statute IDs %v, expected exactly one", d.Doc, d.Name, len(d.IDs), d.IDs)
}

// RelativeOutOfRange is raised when a relative lookup ("前条", "次項", ...)
// has no target because the sentence's enclosing Article/Paragraph/Item is
// first, last, or missing entirely.
type RelativeOutOfRange struct {
	Tag    string
	Offset int
	Doc    string
}

func (d RelativeOutOfRange) Kind() Kind { return RelativeOutOfRangeKind }

func (d RelativeOutOfRange) String() string {
	return fmt.Sprintf("%s: relative lookup %s%+d has no target", d.Doc, d.Tag, d.Offset)
}

// GrammarException is raised when the citation grammar matches a span that
// the resolver cannot turn into a complete link: a numeral inside the match
// that fails to decode, or a citation that resolves to no statute ID. A
// decode failure inside an unstable subtree is not reported. It corresponds
// to the reference implementation's bare except clause around the grammar
// match.
type GrammarException struct {
	Text   string
	Offset int
	Doc    string
	Reason string
}

func (d GrammarException) Kind() Kind { return GrammarExceptionKind }

func (d GrammarException) String() string {
	return fmt.Sprintf("%s: grammar exception at offset %d (%s): %q", d.Doc, d.Offset, d.Reason, d.Text)
}

// ShortNameSkipped is raised when a row of the short-name table fails its
// cross-check against the statute index (its law number doesn't resolve
// uniquely, or its full name disagrees) and is skipped rather than loaded.
// LoadShortNames also raises it for a header or row the CSV reader cannot
// read, and LoadIndex for an index row lacking its 法令ID or 法令名 column.
type ShortNameSkipped struct {
	Row    []string
	Reason string
}

func (d ShortNameSkipped) Kind() Kind { return ShortNameSkippedKind }

func (d ShortNameSkipped) String() string {
	return fmt.Sprintf("short-name row %v skipped: %s", d.Row, d.Reason)
}

// Multi aggregates diagnostics across many sentences or documents into one
// end-of-run report.
type Multi struct {
	Items []Diagnostic
}

func (m *Multi) Add(d Diagnostic) {
	m.Items = append(m.Items, d)
}

func (m *Multi) AddAll(ds []Diagnostic) {
	m.Items = append(m.Items, ds...)
}

// Count returns how many aggregated diagnostics have the given kind.
func (m *Multi) Count(k Kind) int {
	n := 0
	for _, d := range m.Items {
		if d.Kind() == k {
			n++
		}
	}
	return n
}

func (m *Multi) Len() int { return len(m.Items) }
