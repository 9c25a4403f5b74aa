package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/spf13/cobra"

	"github.com/ritamzico/linklaws/internal/corpus"
	"github.com/ritamzico/linklaws/internal/replcmd"
)

func newReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session for loading an index and resolving ad hoc sentences",
		RunE:  runRepl,
	}
	cmd.Flags().String("index", "", "path to the statute index CSV, loaded before the prompt appears")
	cmd.Flags().String("short-names", "", "path to the short-name cross-reference CSV")
	cmd.Flags().Bool("color", true, "syntax-highlight spliced sentence previews")
	return cmd
}

func runRepl(cmd *cobra.Command, args []string) error {
	sess := replcmd.NewSession()
	sess.RunCorpus = func(path string) (string, error) {
		if sess.Index == nil {
			return "", fmt.Errorf("replcmd: no index loaded — run LOAD INDEX \"path.csv\" first")
		}
		summary, err := corpus.ProcessCorpus(cmd.Context(), corpus.Config{
			Index:     sess.Index,
			CorpusDir: path,
			OutDir:    path,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("processed %d documents (%d skipped, %d diagnostics)",
			summary.Documents, summary.Skipped, summary.Diags.Len()), nil
	}
	color, _ := cmd.Flags().GetBool("color")

	if indexPath, _ := cmd.Flags().GetString("index"); indexPath != "" {
		loadCmd, err := replcmd.Parse(fmt.Sprintf("LOAD INDEX %q", indexPath))
		if err != nil {
			return err
		}
		if shortNames, _ := cmd.Flags().GetString("short-names"); shortNames != "" {
			loadCmd.Load.ShortNamesPath = &shortNames
		}
		out, err := sess.Execute(loadCmd)
		if err != nil {
			return err
		}
		fmt.Println(out.Text)
	}

	fmt.Println(`linklaws repl — type HELP for commands, EXIT to quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmdAST, err := replcmd.Parse(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		out, err := sess.Execute(cmdAST)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		if color && strings.Contains(out.Text, "<") {
			printHighlighted(out.Text)
		} else {
			fmt.Println(out.Text)
		}

		if out.Exit {
			return nil
		}
	}
}

// printHighlighted renders text through chroma's XML lexer, falling back to
// plain output if the lexer, formatter or style can't be resolved, or if
// tokenising or formatting fails.
func printHighlighted(text string) {
	lexer := lexers.Get("xml")
	if lexer == nil {
		fmt.Println(text)
		return
	}
	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		fmt.Println(text)
		return
	}
	formatter := formatters.Get("terminal")
	style := styles.Get("monokai")
	if formatter == nil || style == nil {
		fmt.Println(text)
		return
	}
	if err := formatter.Format(os.Stdout, style, iterator); err != nil {
		fmt.Println(text)
		return
	}
	fmt.Println()
}
