// Package replcmd is the REPL command language for linklaws repl (spec.md
// §6): a small session-control grammar layered over the resolver, built
// with the same lexer+struct-tag participle style the teacher DSL used for
// its graph-query language, with all-new vocabulary (LOAD INDEX, RESOLVE,
// RUN, HELP, EXIT) in place of CREATE/DELETE/query verbs.
package replcmd

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var commandLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(LOAD|INDEX|SHORTNAMES|RESOLVE|SELF|ARTICLE|PARAGRAPH|ITEM|RUN|HELP|EXIT|QUIT)\b`},
	{Name: "String", Pattern: `"([^"\\]|\\.)*"`},
	{Name: "Ident", Pattern: `[a-zA-Z0-9_一-龯぀-ゟ゠-ヿ]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Command is the top-level AST node: exactly one of its fields is set.
type Command struct {
	Load    *LoadAST    `parser:"  \"LOAD\" \"INDEX\" @@"`
	Resolve *ResolveAST `parser:"| \"RESOLVE\" @@"`
	Run     *RunAST     `parser:"| \"RUN\" @@"`
	Help    bool        `parser:"| @\"HELP\""`
	Exit    bool        `parser:"| @( \"EXIT\" | \"QUIT\" )"`
}

// LoadAST: LOAD INDEX "<path>" [SHORTNAMES "<path>"]
type LoadAST struct {
	IndexPath      string  `parser:"@String"`
	ShortNamesPath *string `parser:"( \"SHORTNAMES\" @String )?"`
}

// ResolveAST: RESOLVE "<text>" SELF <lawid> [ARTICLE <n>] [PARAGRAPH <n>] [ITEM <n>]
type ResolveAST struct {
	Text      string  `parser:"@String"`
	Self      string  `parser:"\"SELF\" @Ident"`
	Article   *string `parser:"( \"ARTICLE\" @Ident )?"`
	Paragraph *string `parser:"( \"PARAGRAPH\" @Ident )?"`
	Item      *string `parser:"( \"ITEM\" @Ident )?"`
}

// RunAST: RUN "<path>" — process one corpus directory without leaving the REPL.
type RunAST struct {
	Path string `parser:"@String"`
}

var commandParser = participle.MustBuild[Command](
	participle.Lexer(commandLexer),
	participle.CaseInsensitive("Keyword"),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)
