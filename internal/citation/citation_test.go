package citation

import "testing"

func TestParse_AbsoluteArticle(t *testing.T) {
	text := "第九十条の規定"
	m, ok := Parse(text, 0)
	if !ok {
		t.Fatalf("Parse(%q, 0) did not match", text)
	}
	if m.Article.From != "九十" {
		t.Errorf("Article.From = %q, want 九十", m.Article.From)
	}
	if m.Law != "" {
		t.Errorf("Law = %q, want empty", m.Law)
	}
	if m.Start != 0 {
		t.Errorf("Start = %d, want 0", m.Start)
	}
}

func TestParse_SameLawWithArticle(t *testing.T) {
	text := "同法第一条"
	m, ok := Parse(text, 0)
	if !ok {
		t.Fatalf("Parse(%q, 0) did not match", text)
	}
	if m.Law != "同法" {
		t.Errorf("Law = %q, want 同法", m.Law)
	}
	if m.Article.From != "一" {
		t.Errorf("Article.From = %q, want 一", m.Article.From)
	}
}

func TestParse_RelativeArticleWithOffset(t *testing.T) {
	text := "前二条の規定"
	m, ok := Parse(text, 0)
	if !ok {
		t.Fatalf("Parse(%q, 0) did not match", text)
	}
	if m.Article.FromRel != "二" {
		t.Errorf("Article.FromRel = %q, want 二", m.Article.FromRel)
	}
}

func TestParse_RelativeArticleWithoutOffset(t *testing.T) {
	text := "前条の規定"
	m, ok := Parse(text, 0)
	if !ok {
		t.Fatalf("Parse(%q, 0) did not match", text)
	}
	if m.ArticleText == "" {
		t.Error("expected Article slot to have matched some text")
	}
	if m.Article.FromRel != "" {
		t.Errorf("Article.FromRel = %q, want empty (bare 前 implies offset 1)", m.Article.FromRel)
	}
}

func TestParse_SubNumberedArticle(t *testing.T) {
	text := "第九十条の五"
	m, ok := Parse(text, 0)
	if !ok {
		t.Fatalf("Parse(%q, 0) did not match", text)
	}
	if m.Article.From != "九十" || m.Article.FromSub != "五" {
		t.Errorf("Article = %+v, want From=九十 FromSub=五", m.Article)
	}
}

func TestParse_ArticleRange(t *testing.T) {
	text := "第一条から第三条まで"
	m, ok := Parse(text, 0)
	if !ok {
		t.Fatalf("Parse(%q, 0) did not match", text)
	}
	if m.Article.From != "一" || m.Article.To != "三" {
		t.Errorf("Article = %+v, want From=一 To=三", m.Article)
	}
}

func TestParse_CollectiveItem(t *testing.T) {
	text := "各号の規定"
	m, ok := Parse(text, 0)
	if !ok {
		t.Fatalf("Parse(%q, 0) did not match", text)
	}
	if m.ItemText == "" {
		t.Error("expected Item slot to have matched 各号")
	}
}

func TestParse_NoMatchReturnsFalse(t *testing.T) {
	if _, ok := Parse("その他の事情", 0); ok {
		t.Error("expected no match on plain text with no citation grammar")
	}
}

func TestParse_AnchoredAtOffset(t *testing.T) {
	text := "xx第一条"
	if _, ok := Parse(text, 0); ok {
		t.Fatal("expected no match when the grammar does not start exactly at offset 0")
	}
	m, ok := Parse(text, len("xx"))
	if !ok {
		t.Fatalf("Parse at offset %d did not match", len("xx"))
	}
	if m.Start != len("xx") {
		t.Errorf("Start = %d, want %d", m.Start, len("xx"))
	}
}

func TestParseConnector_CommaAndConjunction(t *testing.T) {
	text := "、又は次条"
	n := ParseConnector(text, 0)
	if n == 0 || n >= len(text) {
		t.Fatalf("ParseConnector returned %d, want a length covering the connector but not 次条", n)
	}
	if text[n:] != "次条" {
		t.Errorf("remainder after connector = %q, want 次条", text[n:])
	}
}

func TestParseConnector_NoConnectorIsZero(t *testing.T) {
	if n := ParseConnector("第一条", 0); n != 0 {
		t.Errorf("ParseConnector = %d, want 0", n)
	}
}
