package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ritamzico/linklaws/internal/lawindex"
)

const sampleIndexCSV = "法令ID,法令名,法令番号,未施行\n" +
	"L1,民法,明治二十九年法律第八十九号,\n"

func buildIndex(t *testing.T) *lawindex.Index {
	t.Helper()
	idx, _, err := lawindex.LoadIndex(strings.NewReader(sampleIndexCSV))
	if err != nil {
		t.Fatalf("LoadIndex returned error: %v", err)
	}
	return idx
}

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<Law>
<Article Num="1"><Paragraph Num="1"><Sentence>民法第九十条の規定による。</Sentence></Paragraph></Article>
</Law>`

func TestProcessCorpus_WritesLinkedOutput(t *testing.T) {
	idx := buildIndex(t)

	dir := t.TempDir()
	corpusDir := filepath.Join(dir, "corpus")
	outDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(corpusDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	docPath := filepath.Join(corpusDir, "L2_sample.xml")
	if err := os.WriteFile(docPath, []byte(sampleDocumentXML), 0o644); err != nil {
		t.Fatalf("writing sample document: %v", err)
	}

	summary, err := ProcessCorpus(context.Background(), Config{
		Index:     idx,
		CorpusDir: corpusDir,
		OutDir:    outDir,
		Workers:   2,
	})
	if err != nil {
		t.Fatalf("ProcessCorpus returned error: %v", err)
	}
	if summary.Documents != 1 {
		t.Fatalf("expected 1 document processed, got %d", summary.Documents)
	}
	if summary.Skipped != 0 {
		t.Fatalf("expected 0 skipped, got %d", summary.Skipped)
	}

	outPath := filepath.Join(outDir, "linked", "L2_sample.xml")
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, `law="L1"`) {
		t.Errorf("expected output to contain a link to L1, got: %s", got)
	}
	if !strings.Contains(got, `article="90"`) {
		t.Errorf("expected output to contain article=90, got: %s", got)
	}
}

func TestProcessCorpus_SkipsExistingOutput(t *testing.T) {
	idx := buildIndex(t)

	dir := t.TempDir()
	corpusDir := filepath.Join(dir, "corpus")
	outDir := filepath.Join(dir, "out")
	if err := os.MkdirAll(corpusDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	docPath := filepath.Join(corpusDir, "L2_sample.xml")
	if err := os.WriteFile(docPath, []byte(sampleDocumentXML), 0o644); err != nil {
		t.Fatalf("writing sample document: %v", err)
	}

	linkedDir := filepath.Join(outDir, "linked")
	if err := os.MkdirAll(linkedDir, 0o755); err != nil {
		t.Fatalf("mkdir linked: %v", err)
	}
	if err := os.WriteFile(filepath.Join(linkedDir, "L2_sample.xml"), []byte("already done"), 0o644); err != nil {
		t.Fatalf("seeding existing output: %v", err)
	}

	summary, err := ProcessCorpus(context.Background(), Config{
		Index:     idx,
		CorpusDir: corpusDir,
		OutDir:    outDir,
		Workers:   1,
	})
	if err != nil {
		t.Fatalf("ProcessCorpus returned error: %v", err)
	}
	if summary.Skipped != 1 {
		t.Fatalf("expected 1 skipped document, got %d", summary.Skipped)
	}
}

func TestSelfLawID(t *testing.T) {
	cases := []struct{ path, want string }{
		{"/a/b/129AC0000000089_民法.xml", "129AC0000000089"},
		{"/a/b/noUnderscore.xml", "noUnderscore"},
	}
	for _, c := range cases {
		if got := selfLawID(c.path); got != c.want {
			t.Errorf("selfLawID(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}
