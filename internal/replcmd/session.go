package replcmd

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/ritamzico/linklaws/internal/lawindex"
	"github.com/ritamzico/linklaws/internal/lawxml"
	"github.com/ritamzico/linklaws/internal/resolver"
)

// Session is the REPL's mutable state: the loaded index (nil until a LOAD
// command succeeds) and a per-session alias table, mirroring the
// per-document AliasTable lifetime the corpus driver uses, since a REPL
// session stands in for one document across however many RESOLVE commands
// the user issues.
type Session struct {
	Index   *lawindex.Index
	Aliases *resolver.AliasTable
	Context *resolver.Context

	// RunCorpus, when set by the cmd layer, lets a RUN command invoke the
	// batch driver without replcmd importing internal/corpus — keeping the
	// REPL grammar free of a dependency on the thing it is driving.
	RunCorpus func(path string) (string, error)
}

// NewSession returns an empty Session, ready to accept a LOAD command.
func NewSession() *Session {
	return &Session{Aliases: resolver.NewAliasTable(), Context: &resolver.Context{}}
}

// Outcome is what executing one Command produces: text to print, and
// whether the REPL loop should stop after printing it.
type Outcome struct {
	Text string
	Exit bool
}

// Parse lexes and parses one line of input into a Command.
func Parse(line string) (*Command, error) {
	cmd, err := commandParser.ParseString("", line)
	if err != nil {
		return nil, SyntaxError{Input: line, Message: err.Error()}
	}
	return cmd, nil
}

// Execute runs cmd against sess, mutating sess.Index/Aliases as needed.
func (sess *Session) Execute(cmd *Command) (Outcome, error) {
	switch {
	case cmd.Load != nil:
		return sess.execLoad(cmd.Load)
	case cmd.Resolve != nil:
		return sess.execResolve(cmd.Resolve)
	case cmd.Run != nil:
		return sess.execRun(cmd.Run)
	case cmd.Help:
		return Outcome{Text: helpText}, nil
	case cmd.Exit:
		return Outcome{Text: "bye", Exit: true}, nil
	default:
		return Outcome{}, fmt.Errorf("replcmd: empty command")
	}
}

func (sess *Session) execLoad(ast *LoadAST) (Outcome, error) {
	f, err := os.Open(ast.IndexPath)
	if err != nil {
		return Outcome{}, fmt.Errorf("replcmd: opening index %s: %w", ast.IndexPath, err)
	}
	defer f.Close()

	idx, diags, err := lawindex.LoadIndex(f)
	if err != nil {
		return Outcome{}, fmt.Errorf("replcmd: loading index %s: %w", ast.IndexPath, err)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "loaded index from %s (%d diagnostics)", ast.IndexPath, len(diags))

	if ast.ShortNamesPath != nil {
		sf, err := os.Open(*ast.ShortNamesPath)
		if err != nil {
			return Outcome{}, fmt.Errorf("replcmd: opening short names %s: %w", *ast.ShortNamesPath, err)
		}
		defer sf.Close()
		shortDiags := lawindex.LoadShortNames(idx, sf)
		fmt.Fprintf(&msg, "; loaded short names from %s (%d diagnostics)", *ast.ShortNamesPath, len(shortDiags))
	}

	sess.Index = idx
	sess.Aliases = resolver.NewAliasTable()
	sess.Context = &resolver.Context{}
	return Outcome{Text: msg.String()}, nil
}

func (sess *Session) execResolve(ast *ResolveAST) (Outcome, error) {
	if sess.Index == nil {
		return Outcome{}, fmt.Errorf("replcmd: no index loaded — run LOAD INDEX \"path.csv\" first")
	}

	sentence := lawxml.NewNode("Sentence")
	sentence.Text = ast.Text

	article := lawxml.NewNode("Article")
	article.Attrs["Num"] = valueOr(ast.Article, "1")
	paragraph := lawxml.NewNode("Paragraph")
	paragraph.Attrs["Num"] = valueOr(ast.Paragraph, "1")
	item := lawxml.NewNode("Item")
	item.Attrs["Num"] = valueOr(ast.Item, "1")

	item.InsertChild(0, sentence)
	paragraph.InsertChild(0, item)
	article.InsertChild(0, paragraph)

	law := lawxml.NewNode("Law")
	law.InsertChild(0, article)
	tree := lawxml.NewTree(law)

	records, diags := resolver.Resolve(tree, sentence, sess.Index, sess.Aliases, sess.Context, ast.Self, false)

	var out strings.Builder
	if len(records) == 0 {
		out.WriteString("no links resolved\n")
	}
	for _, r := range records {
		fmt.Fprintf(&out, "[%d:%d] %q -> law=%s", r.Start, r.End, ast.Text[r.Start:r.End], r.Law)
		if r.Article != "" {
			fmt.Fprintf(&out, " article=%s", r.Article)
		}
		if r.Paragraph != "" {
			fmt.Fprintf(&out, " paragraph=%s", r.Paragraph)
		}
		if r.Item != "" {
			fmt.Fprintf(&out, " item=%s", r.Item)
		}
		out.WriteByte('\n')
	}
	for _, d := range diags {
		fmt.Fprintf(&out, "diagnostic[%s]: %s\n", d.Kind(), d.String())
	}

	if err := lawxml.Splice(sentence, records); err != nil {
		return Outcome{}, fmt.Errorf("replcmd: splicing preview: %w", err)
	}
	var preview bytes.Buffer
	if err := lawxml.Write(&preview, lawxml.NewTree(sentence)); err != nil {
		return Outcome{}, fmt.Errorf("replcmd: writing preview: %w", err)
	}
	out.WriteString(strings.TrimPrefix(preview.String(), xml.Header))

	return Outcome{Text: strings.TrimRight(out.String(), "\n")}, nil
}

func (sess *Session) execRun(ast *RunAST) (Outcome, error) {
	if sess.RunCorpus == nil {
		return Outcome{}, fmt.Errorf("replcmd: RUN is not available in this session")
	}
	text, err := sess.RunCorpus(ast.Path)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Text: text}, nil
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

const helpText = `commands:
  LOAD INDEX "path.csv" [SHORTNAMES "path.csv"]   load a statute index
  RESOLVE "text" SELF <lawid> [ARTICLE <n>] [PARAGRAPH <n>] [ITEM <n>]
                                                    resolve one sentence
  RUN "path/to/corpus"                             run the batch driver
  HELP                                             show this message
  EXIT | QUIT                                      leave the REPL`
