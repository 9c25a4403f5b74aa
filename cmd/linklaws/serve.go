package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/ritamzico/linklaws/internal/lawindex"
	"github.com/ritamzico/linklaws/internal/lawxml"
	"github.com/ritamzico/linklaws/internal/resolver"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a debug HTTP server exposing single-sentence resolution",
		RunE:  runServe,
	}
	cmd.Flags().String("index", "", "path to the statute index CSV (required)")
	cmd.Flags().String("short-names", "", "path to the short-name cross-reference CSV")
	cmd.Flags().String("addr", ":8080", "address to listen on")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	indexPath, _ := cmd.Flags().GetString("index")
	if indexPath == "" {
		return fmt.Errorf("linklaws: --index is required")
	}

	f, err := os.Open(indexPath)
	if err != nil {
		return fmt.Errorf("linklaws: opening index: %w", err)
	}
	idx, _, err := lawindex.LoadIndex(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("linklaws: loading index: %w", err)
	}

	if shortNamesPath, _ := cmd.Flags().GetString("short-names"); shortNamesPath != "" {
		sf, err := os.Open(shortNamesPath)
		if err != nil {
			return fmt.Errorf("linklaws: opening short names: %w", err)
		}
		lawindex.LoadShortNames(idx, sf)
		sf.Close()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/resolve", resolveHandler(idx))

	addr, _ := cmd.Flags().GetString("addr")
	fmt.Printf("linklaws serve listening on %s\n", addr)
	return http.ListenAndServe(addr, mux)
}

type resolveRequest struct {
	Text          string `json:"text"`
	SelfLaw       string `json:"self_law"`
	SelfArticle   string `json:"self_article"`
	SelfParagraph string `json:"self_paragraph"`
	SelfItem      string `json:"self_item"`
}

type resolveResponseRecord struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Law       string `json:"law"`
	Article   string `json:"article,omitempty"`
	Paragraph string `json:"paragraph,omitempty"`
	Item      string `json:"item,omitempty"`
}

type resolveResponse struct {
	Records     []resolveResponseRecord `json:"records"`
	Diagnostics []string                `json:"diagnostics,omitempty"`
}

// resolveHandler has no persistence and no auth — it is explicitly a
// debug-only surface for editor/IDE tooling integration (spec.md §6).
func resolveHandler(idx *lawindex.Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req resolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}

		sentence := lawxml.NewNode("Sentence")
		sentence.Text = req.Text

		item := lawxml.NewNode("Item")
		item.Attrs["Num"] = valueOr(req.SelfItem, "1")
		paragraph := lawxml.NewNode("Paragraph")
		paragraph.Attrs["Num"] = valueOr(req.SelfParagraph, "1")
		article := lawxml.NewNode("Article")
		article.Attrs["Num"] = valueOr(req.SelfArticle, "1")

		item.InsertChild(0, sentence)
		paragraph.InsertChild(0, item)
		article.InsertChild(0, paragraph)
		law := lawxml.NewNode("Law")
		law.InsertChild(0, article)
		tree := lawxml.NewTree(law)

		records, diags := resolver.Resolve(tree, sentence, idx, resolver.NewAliasTable(), &resolver.Context{}, req.SelfLaw, false)

		resp := resolveResponse{}
		for _, rec := range records {
			resp.Records = append(resp.Records, resolveResponseRecord{
				Start: rec.Start, End: rec.End, Law: rec.Law,
				Article: rec.Article, Paragraph: rec.Paragraph, Item: rec.Item,
			})
		}
		for _, d := range diags {
			resp.Diagnostics = append(resp.Diagnostics, d.String())
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
