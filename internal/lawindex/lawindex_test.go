package lawindex

import (
	"bytes"
	"strings"
	"testing"
)

const sampleIndexCSV = "法令ID,法令名,法令番号,未施行\n" +
	"129AC0000000089,民法,明治二十九年法律第八十九号,\n" +
	"132AC0000000048,商法,明治三十二年法律第四十八号,\n" +
	"999AC0000000001,未施行法,令和五年法律第一号,有\n"

func TestLoadIndex_SkipsNotYetInForce(t *testing.T) {
	idx, diags, err := LoadIndex(strings.NewReader(sampleIndexCSV))
	if err != nil {
		t.Fatalf("LoadIndex returned error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	if _, ids := idx.Names().LongestMatch("民法", 0); len(ids) != 1 || ids[0] != "129AC0000000089" {
		t.Errorf("民法 resolved to %v", ids)
	}
	if _, ids := idx.Names().LongestMatch("明治二十九年法律第八十九号", 0); len(ids) != 1 || ids[0] != "129AC0000000089" {
		t.Errorf("law number resolved to %v", ids)
	}
	if _, ids := idx.Names().LongestMatch("未施行法", 0); len(ids) != 0 {
		t.Errorf("expected 未施行法 to be skipped, got %v", ids)
	}
}

func TestCanonicalizeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"民法　抄", "民法"},
		{"明治二十九年法律第八十九号（民法）", "民法"},
		{"明治四十年法律第四十五号（刑法）", "明治四十年法律第四十五号（刑法）"},
		{"商法", "商法"},
	}
	for _, c := range cases {
		if got := canonicalizeName(c.in); got != c.want {
			t.Errorf("canonicalizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLoadShortNames_RegistersValidRowOnly(t *testing.T) {
	idx, _, err := LoadIndex(strings.NewReader(sampleIndexCSV))
	if err != nil {
		t.Fatalf("LoadIndex returned error: %v", err)
	}

	shortNames := "法令名,法令番号,略称1\n" +
		"民法,明治二十九年法律第八十九号,民法\n" +
		"存在しない法,令和九年法律第九号,謎略称\n"

	diags := LoadShortNames(idx, strings.NewReader(shortNames))
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic for the unresolvable row, got %d: %v", len(diags), diags)
	}

	if _, ids := idx.Names().LongestMatch("謎略称", 0); len(ids) != 0 {
		t.Errorf("expected 謎略称 not to be registered, got %v", ids)
	}
}

func TestDumpAndReadIndexCache_RoundTrip(t *testing.T) {
	idx, _, err := LoadIndex(strings.NewReader(sampleIndexCSV))
	if err != nil {
		t.Fatalf("LoadIndex returned error: %v", err)
	}

	var buf bytes.Buffer
	if err := idx.Dump(&buf); err != nil {
		t.Fatalf("Dump returned error: %v", err)
	}

	restored, err := ReadIndexCache(&buf)
	if err != nil {
		t.Fatalf("ReadIndexCache returned error: %v", err)
	}

	if _, ids := restored.Names().LongestMatch("民法", 0); len(ids) != 1 || ids[0] != "129AC0000000089" {
		t.Errorf("restored index resolved 民法 to %v", ids)
	}
	if row, ok := restored.Row("129AC0000000089"); !ok || len(row) == 0 {
		t.Errorf("restored index missing row for 129AC0000000089: %v", row)
	}
}
