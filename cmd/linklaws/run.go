package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ritamzico/linklaws/internal/corpus"
	"github.com/ritamzico/linklaws/internal/lawindex"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the batch pass over a corpus directory",
		RunE:  runRun,
	}

	cmd.Flags().String("index", "", "path to the statute index CSV (required)")
	cmd.Flags().String("short-names", "", "path to the short-name cross-reference CSV")
	cmd.Flags().String("corpus", "", "path to the corpus directory (required)")
	cmd.Flags().String("out", "", "path to the output directory (required)")
	cmd.Flags().Int("workers", 4, "number of documents to process concurrently")
	cmd.Flags().String("config", "", "optional YAML config file merged underneath the flags above")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	k, err := loadRunConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("linklaws: loading config: %w", err)
	}

	indexPath := k.String("index")
	corpusDir := k.String("corpus")
	outDir := k.String("out")
	workers := k.Int("workers")
	shortNamesPath := k.String("short-names")

	if indexPath == "" || corpusDir == "" || outDir == "" {
		return fmt.Errorf("linklaws: --index, --corpus, and --out are all required")
	}

	f, err := os.Open(indexPath)
	if err != nil {
		return fmt.Errorf("linklaws: opening index: %w", err)
	}
	idx, diags, err := lawindex.LoadIndex(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("linklaws: loading index: %w", err)
	}
	for _, d := range diags {
		slog.Warn("index diagnostic", "detail", d.String())
	}

	if shortNamesPath != "" {
		sf, err := os.Open(shortNamesPath)
		if err != nil {
			return fmt.Errorf("linklaws: opening short names: %w", err)
		}
		shortDiags := lawindex.LoadShortNames(idx, sf)
		sf.Close()
		for _, d := range shortDiags {
			slog.Warn("short-name diagnostic", "detail", d.String())
		}
	}

	summary, err := corpus.ProcessCorpus(context.Background(), corpus.Config{
		Index:     idx,
		CorpusDir: corpusDir,
		OutDir:    outDir,
		Workers:   workers,
	})
	if err != nil {
		return fmt.Errorf("linklaws: %w", err)
	}

	fmt.Printf("processed %d documents (%d skipped, %d diagnostics)\n",
		summary.Documents, summary.Skipped, summary.Diags.Len())
	return nil
}
