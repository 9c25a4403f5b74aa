package diag

import "testing"

func TestMulti_CountByKind(t *testing.T) {
	var m Multi
	m.Add(AmbiguousName{Name: "民法", Doc: "a.xml"})
	m.Add(AmbiguousName{Name: "商法", Doc: "b.xml"})
	m.Add(RelativeOutOfRange{Tag: "Article", Offset: -1, Doc: "a.xml"})

	if got := m.Count(AmbiguousNameKind); got != 2 {
		t.Errorf("Count(AmbiguousNameKind) = %d, want 2", got)
	}
	if got := m.Count(RelativeOutOfRangeKind); got != 1 {
		t.Errorf("Count(RelativeOutOfRangeKind) = %d, want 1", got)
	}
	if got := m.Count(GrammarExceptionKind); got != 0 {
		t.Errorf("Count(GrammarExceptionKind) = %d, want 0", got)
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
}

func TestAmbiguousName_StringVariants(t *testing.T) {
	none := AmbiguousName{Name: "民法", Doc: "a.xml"}
	if none.String() == "" {
		t.Error("expected non-empty String() for zero-ID case")
	}

	multi := AmbiguousName{Name: "民法", IDs: []string{"L1", "L2"}, Doc: "a.xml"}
	if multi.String() == none.String() {
		t.Error("expected zero-ID and multi-ID cases to render differently")
	}
}
