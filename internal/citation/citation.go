// Package citation implements the citation-phrase grammar: the part of a
// sentence that names a law, article, paragraph, or item, either by an
// explicit kanji numeral ("第九十条"), a relative marker ("前条", "次項"),
// or a collective marker ("各号"). One compiled regular expression drives
// the whole grammar, the same way the reference implementation composes a
// single Python `re` pattern out of per-slot fragments.
package citation

import "regexp"

// jpNumChars is the kanji-numeral character set the grammar accepts inside
// an Article/Paragraph/Item numeral or relative-offset numeral. It excludes
// 〇 and 万 — no statute numbers this low-level grammar slot, relative
// offset included, ranges into the ten-thousands.
const jpNumChars = "一二三四五六七八九十百千"

// jpnumText builds the regular-expression fragment for one numbered unit
// (article/paragraph/item), parameterised by a group-name prefix (tag) and
// the unit's title character (条/項/号). It mirrors jpnum_text in the
// reference implementation group for group:
//
//	(?P<tag>...)        the bare numeral, e.g. "九十"
//	(?P<tag_sub>...)    a trailing "の..." sub-numbering, e.g. the "五" in "九十の五"
//	(?P<tag_rel>...)    the numeral inside a 前/次 relative marker, e.g. the "二" in "前二条"
func jpnumText(tag, title string) string {
	return `((第(?P<` + tag + `>[` + jpNumChars + `]+)` + title +
		`([のノ](?P<` + tag + `_sub>[` + jpNumChars + `]+))*)` +
		`|((([前次](?P<` + tag + `_rel>[` + jpNumChars + `]*))|同|(前?各))` + title + `中?))`
}

// Brackets matches a parenthesized aside, up to three levels of nesting —
// deep enough for every statute-number aside the corpus contains. Exported
// so internal/resolver can reuse the same fragment for its alias-definition
// pattern.
const Brackets = `(（[^（）]*）)|(（[^（）]*（[^（）]*）[^（）]*）)|(（[^（）]*（[^（）]*（[^（）]*）[^（）]*）[^（）]*）)`

// continueWord matches one connector between citations in a list: a reading
// comma, one of the conjunctions below, or a parenthesized aside.
const continueWord = `(、|(及び)|(並びに)|(乃至)|(若しくは)|(又は)|(および)|(ならびに)|` + Brackets + `)`

var lawPattern = regexp.MustCompile(`\A` + continueWord + `*` +
	`(?P<LinkText>` +
	`(?P<Law>(同((法)|(令)|(省令)|(規則)|(施行規則)))?(附則)?)` +
	`(次の)?(?P<Article>(` + jpnumText("ArticleFrom", "条") + `(から` + jpnumText("ArticleTo", "条") + `)?)?)(まで)?` +
	`(次の)?(?P<Paragraph>(` + jpnumText("ParagraphFrom", "項") + `(から` + jpnumText("ParagraphTo", "項") + `)?)?)(まで)?` +
	`(次の)?(?P<Item>(` + jpnumText("ItemFrom", "号") + `(から` + jpnumText("ItemTo", "号") + `)?)?)(まで)?` +
	`)`)

var lawPatternGroups = lawPattern.SubexpNames()

// SquareBrackets matches a quoted aside ("「...」"), skipped wholesale by the
// resolver so that a defined term never gets mistaken for a citation.
var SquareBrackets = regexp.MustCompile(`\A「[^「」]*」`)

// Numeral carries the three numeral sub-captures a single slot (Article,
// Paragraph, or Item) can produce: an absolute From/To numeral pair (with
// optional "の" sub-numbering), or a relative-offset numeral for 前/次.
type Numeral struct {
	From, FromSub, FromRel string
	To, ToSub, ToRel       string
}

// Empty reports whether the slot matched nothing at all (neither an
// absolute numeral nor a relative/collective marker).
func (n Numeral) Empty() bool {
	return n == Numeral{}
}

// Match is one match of the citation grammar against a sentence's flattened
// text, starting at a given offset. Fields are empty strings when the
// corresponding group did not participate in the match, mirroring Python's
// `match.group(name) == ""` checks in the reference implementation.
type Match struct {
	// Start and End are byte offsets into the text Parse was given,
	// spanning Law+Article+Paragraph+Item (the reference implementation's
	// Link_text group) — the connector run that may precede it is excluded.
	Start, End int

	Law          string
	ArticleText  string
	Article      Numeral
	ParagraphText string
	Paragraph    Numeral
	ItemText     string
	Item         Numeral

	// MatchedLength is the length in bytes of the whole match, connector
	// run included — the caller advances its scan offset by this much.
	MatchedLength int
}

var connectorPattern = regexp.MustCompile(`\A` + continueWord + `*`)

// ParseConnector recognizes the leading connector run (spec.md §4.3) at
// offset — a sequence of reading commas, list conjunctions, and parenthesized
// asides, up to three levels deep — and returns its length in bytes, 0 if
// none is present. It reuses the same balanced-bracket fragment (Brackets)
// the alias-definition pattern in internal/resolver is built on, and exists
// separately from Parse so a caller can isolate just the connector run
// without running the rest of the grammar.
func ParseConnector(text string, offset int) int {
	loc := connectorPattern.FindStringIndex(text[offset:])
	if loc == nil {
		return 0
	}
	return loc[1]
}

// Parse attempts to match the citation grammar starting exactly at offset
// (a byte offset into text). It returns ok == false if the grammar does not
// match there at all, or if it matches but none of Law/Article/Paragraph/Item
// actually captured anything — the same "all slots empty" case the
// reference implementation treats as no citation found.
func Parse(text string, offset int) (Match, bool) {
	loc := lawPattern.FindStringSubmatchIndex(text[offset:])
	if loc == nil {
		return Match{}, false
	}

	group := func(name string) (string, bool) {
		for i, n := range lawPatternGroups {
			if n != name {
				continue
			}
			s, e := loc[2*i], loc[2*i+1]
			if s < 0 || e < 0 {
				return "", false
			}
			return text[offset+s : offset+e], true
		}
		return "", false
	}

	law, _ := group("Law")
	articleText, _ := group("Article")
	paragraphText, _ := group("Paragraph")
	itemText, _ := group("Item")

	if law == "" && articleText == "" && paragraphText == "" && itemText == "" {
		return Match{}, false
	}

	numeralFor := func(prefix string) Numeral {
		get := func(suffix string) string {
			v, _ := group(prefix + suffix)
			return v
		}
		return Numeral{
			From:    get("From"),
			FromSub: get("From_sub"),
			FromRel: get("From_rel"),
			To:      get("To"),
			ToSub:   get("To_sub"),
			ToRel:   get("To_rel"),
		}
	}

	linkStart, linkEnd := -1, -1
	for i, n := range lawPatternGroups {
		if n == "LinkText" {
			linkStart, linkEnd = loc[2*i], loc[2*i+1]
		}
	}
	if linkStart < 0 {
		return Match{}, false
	}

	return Match{
		Start:         offset + linkStart,
		End:           offset + linkEnd,
		Law:           law,
		ArticleText:   articleText,
		Article:       numeralFor("Article"),
		ParagraphText: paragraphText,
		Paragraph:     numeralFor("Paragraph"),
		ItemText:      itemText,
		Item:          numeralFor("Item"),
		MatchedLength: loc[1],
	}, true
}
