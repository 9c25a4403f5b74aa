// Package corpus is the batch driver (C7): for each document in a corpus
// directory it discovers sentence-bearing leaves in document order,
// resolves and splices each one, then writes the result to a mirrored
// output path. Documents are independent and are fanned out across a
// worker pool, exactly as spec.md §5 describes (each document gets its own
// AliasTable and Context; nothing else is shared but the already-built index).
package corpus

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/oops"

	"github.com/ritamzico/linklaws/internal/diag"
	"github.com/ritamzico/linklaws/internal/lawindex"
	"github.com/ritamzico/linklaws/internal/lawxml"
	"github.com/ritamzico/linklaws/internal/resolver"
)

// Config configures one ProcessCorpus invocation.
type Config struct {
	Index     *lawindex.Index
	CorpusDir string
	OutDir    string
	Workers   int
	Logger    *slog.Logger
}

// Summary aggregates the outcome of a batch pass.
type Summary struct {
	Documents int
	Skipped   int
	Diags     diag.Multi
}

// ProcessCorpus walks cfg.CorpusDir for XML documents and writes the linked
// result of each under cfg.OutDir/linked, mirroring its relative path
// (spec.md §6).
// A document whose output path already exists is skipped, making a whole
// pass resumable after interruption (spec.md §5). Cancellation is checked
// between documents, never mid-document.
func ProcessCorpus(ctx context.Context, cfg Config) (Summary, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	var paths []string
	err := filepath.WalkDir(cfg.CorpusDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".xml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return Summary{}, oops.In("corpus").With("dir", cfg.CorpusDir).Wrapf(err, "walking corpus directory")
	}

	jobs := make(chan string)
	results := make(chan docResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(ctx, cfg, jobs, results)
		}()
	}

	go func() {
		defer close(jobs)
		for _, p := range paths {
			select {
			case <-ctx.Done():
				return
			case jobs <- p:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var summary Summary
	for r := range results {
		if r.err != nil {
			return summary, r.err
		}
		summary.Documents++
		if r.skipped {
			summary.Skipped++
		}
		summary.Diags.AddAll(r.diags)
		for _, d := range r.diags {
			logger.Warn("diagnostic", "kind", d.Kind().String(), "doc", r.path, "detail", d.String())
		}
	}

	return summary, nil
}

type docResult struct {
	path    string
	skipped bool
	diags   []diag.Diagnostic
	err     error
}

func worker(ctx context.Context, cfg Config, jobs <-chan string, results chan<- docResult) {
	for path := range jobs {
		select {
		case <-ctx.Done():
			results <- docResult{path: path, err: ctx.Err()}
			continue
		default:
		}

		rel, err := filepath.Rel(cfg.CorpusDir, path)
		if err != nil {
			results <- docResult{path: path, err: oops.In("corpus").Wrapf(err, "computing relative path")}
			continue
		}
		outPath := filepath.Join(cfg.OutDir, "linked", rel)

		if _, err := os.Stat(outPath); err == nil {
			results <- docResult{path: path, skipped: true}
			continue
		}

		diags, err := processDocument(cfg.Index, path, outPath)
		results <- docResult{path: path, diags: diags, err: err}
	}
}

// selfLawID derives self_law from a document's filename (spec.md §6): the
// statute ID is the prefix up to the first underscore.
func selfLawID(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '_'); i >= 0 {
		return base[:i]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func processDocument(idx *lawindex.Index, path, outPath string) ([]diag.Diagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, oops.In("corpus").With("path", path).Wrapf(err, "opening document")
	}
	defer f.Close()

	tree, err := lawxml.Parse(f)
	if err != nil {
		return nil, oops.In("corpus").With("path", path).Wrapf(err, "parsing document")
	}

	selfLaw := selfLawID(path)
	aliases := resolver.NewAliasTable()
	ctx := &resolver.Context{}

	var allDiags []diag.Diagnostic
	var sentences []*lawxml.Node
	tree.Root.Iter("Sentence", func(n *lawxml.Node) { sentences = append(sentences, n) })

	for _, sentence := range sentences {
		unstable := lawxml.IsUnstable(sentence)
		records, diags := resolver.Resolve(tree, sentence, idx, aliases, ctx, selfLaw, unstable)
		allDiags = append(allDiags, diags...)

		if err := lawxml.Splice(sentence, records); err != nil {
			return allDiags, oops.In("corpus").With("path", path).Wrapf(err, "splicing sentence")
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return allDiags, oops.In("corpus").With("path", outPath).Wrapf(err, "creating output directory")
	}
	out, err := os.Create(outPath)
	if err != nil {
		return allDiags, oops.In("corpus").With("path", outPath).Wrapf(err, "creating output file")
	}
	defer out.Close()

	if err := lawxml.Write(out, tree); err != nil {
		return allDiags, oops.In("corpus").With("path", outPath).Wrapf(err, "writing document")
	}

	return allDiags, nil
}
