// Package resolver implements the per-sentence context resolver (C5): the
// state machine that walks a sentence's flattened text and turns statute
// names, aliases, and citation-grammar phrases into lawxml.LinkRecords,
// threading a carry-over context across the scan the way the reference
// implementation's pre_law/pre_article/pre_paragraph/pre_item locals do.
package resolver

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ritamzico/linklaws/internal/citation"
	"github.com/ritamzico/linklaws/internal/diag"
	"github.com/ritamzico/linklaws/internal/lawindex"
	"github.com/ritamzico/linklaws/internal/lawxml"
	"github.com/ritamzico/linklaws/internal/nametrie"
	"github.com/ritamzico/linklaws/internal/numeral"
)

// AliasTable is the per-document alias dictionary (spec.md §3): same
// longest-match structure as the global statute index, populated lazily
// whenever the name-dictionary branch of Resolve sees a
// "〈name〉（…「alias」という）" definition following a matched statute name.
type AliasTable struct {
	trie *nametrie.Trie
}

// NewAliasTable returns an empty AliasTable, ready for one document.
func NewAliasTable() *AliasTable { return &AliasTable{trie: nametrie.New()} }

func (a *AliasTable) insert(name, id string) { a.trie.Insert(name, id) }

// LongestMatch exposes the underlying trie's lookup.
func (a *AliasTable) LongestMatch(text string, offset int) (string, []string) {
	return a.trie.LongestMatch(text, offset)
}

// Context holds the carry-over quadruple a sentence's partial citations
// inherit (spec.md §3). The reference implementation spells this field
// pre_artcile; PreArticle corrects the typo while keeping the same
// semantics (spec.md §9(c)).
type Context struct {
	PreLaw, PreArticle, PreParagraph, PreItem string
}

// aliasDefPattern recognizes "〈word〉（…「alias」という" immediately
// following a statute-name match: word must consist only of non-punctuation
// and nested parenthesized asides, so that it can be checked against the
// name the trie just matched.
var aliasDefPattern = regexp.MustCompile(`\A(?P<Word>([^、（）]|` + citation.Brackets + `)*)（[^（）]*「(?P<Alias>[^（）「」]*)」という`)

func matchAliasDef(text string, offset int) (word, alias string, ok bool) {
	loc := aliasDefPattern.FindStringSubmatchIndex(text[offset:])
	if loc == nil {
		return "", "", false
	}
	names := aliasDefPattern.SubexpNames()
	var wordStart, wordEnd, aliasStart, aliasEnd = -1, -1, -1, -1
	for i, n := range names {
		switch n {
		case "Word":
			wordStart, wordEnd = loc[2*i], loc[2*i+1]
		case "Alias":
			aliasStart, aliasEnd = loc[2*i], loc[2*i+1]
		}
	}
	if wordStart < 0 || aliasStart < 0 {
		return "", "", false
	}
	return text[offset+wordStart : offset+wordEnd], text[offset+aliasStart : offset+aliasEnd], true
}

// relativeLookupError distinguishes a failed tree-navigator lookup from
// any other grammar-processing error, so Resolve can raise the right
// diag.Kind for it.
type relativeLookupError struct {
	tag string
	k   int
	err error
}

func (e relativeLookupError) Error() string { return e.err.Error() }
func (e relativeLookupError) Unwrap() error { return e.err }

// unitResolution is the outcome of resolving one Article/Paragraph/Item
// slot of a citation match.
type unitResolution struct {
	value        string
	isRelative   bool
	useCarryOver bool
}

// resolveUnit implements the shared absolute/universal/relative/same-as-
// carry-over decision spec.md §4.3 describes identically for Article,
// Paragraph, and Item — collectiveMarker is "各条"/"各項"/"各号" and tag is
// the ancestor element name the tree navigator should look for.
func resolveUnit(tree *lawxml.Tree, sentence *lawxml.Node, tag, wholeText, collectiveMarker string, num citation.Numeral) (unitResolution, error) {
	relNum := 1
	if num.FromRel != "" {
		n, err := numeral.Decode(num.FromRel)
		if err != nil {
			return unitResolution{}, err
		}
		relNum = n
	}

	switch {
	case num.From != "":
		n, err := numeral.Decode(num.From)
		if err != nil {
			return unitResolution{}, err
		}
		value := strconv.Itoa(n)
		if num.FromSub != "" {
			sub, err := numeral.Decode(num.FromSub)
			if err != nil {
				return unitResolution{}, err
			}
			value += "_" + strconv.Itoa(sub)
		}
		return unitResolution{value: value}, nil

	case strings.Contains(wholeText, collectiveMarker):
		return unitResolution{value: "1"}, nil

	case strings.Contains(wholeText, "前"):
		v, err := tree.RelativeElement(sentence, tag, -relNum)
		if err != nil {
			return unitResolution{}, relativeLookupError{tag: tag, k: -relNum, err: err}
		}
		return unitResolution{value: v, isRelative: true}, nil

	case strings.Contains(wholeText, "次"):
		v, err := tree.RelativeElement(sentence, tag, relNum)
		if err != nil {
			return unitResolution{}, relativeLookupError{tag: tag, k: relNum, err: err}
		}
		return unitResolution{value: v, isRelative: true}, nil

	default:
		return unitResolution{useCarryOver: true}, nil
	}
}

// Resolve scans sentence's flattened text (lawxml.Node.SentenceText) and
// returns the LinkRecords and diagnostics produced by the five-step
// priority loop of spec.md §4.4. ctx is the caller-owned carry-over state;
// passing the same Context into consecutive sentences of one document lets
// a same-law/same-article reference in a later sentence resolve against an
// earlier one, per spec.md §5. selfLaw is the document's own statute ID;
// unstable reports whether sentence's ancestor chain is a supplementary
// provision, appendix, or table subtree (spec.md §4.4 "Unstable
// subtrees").
func Resolve(tree *lawxml.Tree, sentence *lawxml.Node, idx *lawindex.Index, aliases *AliasTable, ctx *Context, selfLaw string, unstable bool) ([]lawxml.LinkRecord, []diag.Diagnostic) {
	text := sentence.SentenceText()
	selfArticle, selfParagraph, _ := lawxml.AncestorNums(sentence)

	var records []lawxml.LinkRecord
	var diags []diag.Diagnostic
	linkEndLaw := make(map[int]string)

	offset := 0
	for offset < len(text) {
		if loc := citation.SquareBrackets.FindStringIndex(text[offset:]); loc != nil {
			offset += loc[1]
			continue
		}

		if name, ids := idx.Names().LongestMatch(text, offset); name != "" {
			startPos := offset
			endPos := startPos + len(name)

			endCheckPos := -1
			checkStart := -1
			if endPos < len(text) && strings.HasPrefix(text[endPos:], "（") {
				checkOffset := endPos + len("（")
				checkName, checkIDs := idx.Names().LongestMatch(text, checkOffset)
				if checkName != "" {
					ids = nametrie.Intersect(ids, checkIDs)
					checkStart = checkOffset
					endCheckPos = checkOffset + len(checkName)
				}
			}

			if len(ids) != 1 {
				diags = append(diags, diag.AmbiguousName{Name: name, IDs: ids})
				offset = endPos
				continue
			}

			lawID := ids[0]

			if word, alias, ok := matchAliasDef(text, startPos); ok && word == name {
				aliases.insert(alias, lawID)
			}

			ctx.PreLaw = lawID
			ctx.PreArticle, ctx.PreParagraph, ctx.PreItem = "", "", ""

			if _, seen := linkEndLaw[endPos]; !seen {
				linkEndLaw[endPos] = lawID
				records = append(records, lawxml.LinkRecord{Start: startPos, End: endPos, Law: lawID})
			}
			if endCheckPos >= 0 {
				if _, seen := linkEndLaw[endCheckPos]; !seen {
					linkEndLaw[endCheckPos] = lawID
					records = append(records, lawxml.LinkRecord{Start: checkStart, End: endCheckPos, Law: lawID})
				}
			}

			offset = endPos
			continue
		}

		if name, ids := aliases.LongestMatch(text, offset); name != "" {
			startPos := offset
			endPos := startPos + len(name)

			if len(ids) != 1 {
				diags = append(diags, diag.AmbiguousName{Name: name, IDs: ids})
				offset = endPos
				continue
			}

			lawID := ids[0]
			ctx.PreLaw = lawID
			ctx.PreArticle, ctx.PreParagraph, ctx.PreItem = "", "", ""

			if _, seen := linkEndLaw[endPos]; !seen {
				linkEndLaw[endPos] = lawID
				records = append(records, lawxml.LinkRecord{Start: startPos, End: endPos, Law: lawID})
			}

			offset = endPos
			continue
		}

		m, ok := citation.Parse(text, offset)
		if !ok {
			_, size := utf8.DecodeRuneInString(text[offset:])
			offset += size
			continue
		}

		law := ""
		specifyLevel := 0

		if boundLaw, seen := linkEndLaw[offset]; m.Law != "" && m.Law != "附則" {
			law = ctx.PreLaw
			specifyLevel = 1
			ctx.PreArticle = ""
		} else if seen {
			law = boundLaw
			specifyLevel = 1
			ctx.PreArticle = ""
			ctx.PreParagraph = ""
		} else {
			law = selfLaw
		}

		var article, paragraph, item string
		isRelative := false
		grammarFailed := false
		var grammarErr error

		if m.ArticleText != "" {
			specifyLevel = 2
			res, err := resolveUnit(tree, sentence, "Article", m.ArticleText, "各条", m.Article)
			if err != nil {
				grammarFailed, grammarErr = true, err
			} else if res.useCarryOver {
				article = ctx.PreArticle
			} else {
				article = res.value
				isRelative = isRelative || res.isRelative
			}
			ctx.PreParagraph = ""
		} else {
			article = selfArticle
		}

		if !grammarFailed && m.ParagraphText != "" {
			specifyLevel = 3
			res, err := resolveUnit(tree, sentence, "Paragraph", m.ParagraphText, "各項", m.Paragraph)
			if err != nil {
				grammarFailed, grammarErr = true, err
			} else if res.useCarryOver {
				paragraph = ctx.PreParagraph
			} else {
				paragraph = res.value
				isRelative = isRelative || res.isRelative
			}
		} else if !grammarFailed {
			paragraph = selfParagraph
		}

		if !grammarFailed && m.ItemText != "" {
			if specifyLevel == 2 {
				paragraph = "1"
			}
			specifyLevel = 4
			res, err := resolveUnit(tree, sentence, "Item", m.ItemText, "各号", m.Item)
			if err != nil {
				grammarFailed, grammarErr = true, err
			} else if res.useCarryOver {
				item = ctx.PreItem
			} else {
				item = res.value
				isRelative = isRelative || res.isRelative
			}
		} else if !grammarFailed {
			item = ""
		}

		if grammarFailed {
			var relErr relativeLookupError
			if errors.As(grammarErr, &relErr) {
				if !unstable {
					diags = append(diags, diag.RelativeOutOfRange{Tag: relErr.tag, Offset: relErr.k})
				}
			} else if !unstable {
				diags = append(diags, diag.GrammarException{Text: text, Offset: offset, Reason: grammarErr.Error()})
			}
			offset++
			continue
		}

		if specifyLevel < 2 {
			article = ""
		}
		if specifyLevel < 3 {
			paragraph = ""
		}

		if !(unstable && isRelative) {
			linkEndLaw[m.End] = law
			records = append(records, lawxml.LinkRecord{
				Start: m.Start, End: m.End,
				Law: law, Article: article, Paragraph: paragraph, Item: item,
			})
		}

		ctx.PreLaw = law
		ctx.PreArticle = article
		ctx.PreParagraph = paragraph
		ctx.PreItem = item

		offset += m.MatchedLength
	}

	var out []lawxml.LinkRecord
	for _, r := range records {
		if r.Law == "" {
			diags = append(diags, diag.GrammarException{Text: text, Offset: r.Start, Reason: "citation resolved to no statute"})
			continue
		}
		out = append(out, r)
	}
	return out, diags
}
