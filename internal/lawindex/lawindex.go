// Package lawindex loads the statute index and short-name table that the
// resolver's name-dictionary lookup (spec.md §4.1) depends on. Both tables
// funnel into the same nametrie.Trie the reference implementation builds as
// a plain nested dict keyed by character — a law's canonical name, its
// official statute number, and every cross-checked short name all resolve
// to the same statute ID through one longest-match lookup.
package lawindex

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ritamzico/linklaws/internal/diag"
	"github.com/ritamzico/linklaws/internal/nametrie"
)

// Index is the built statute name/number dictionary plus the raw CSV row
// for each statute ID, keyed for lookups the resolver and CLI need beyond
// name resolution (the law's title, for instance, when reporting a link).
type Index struct {
	names *nametrie.Trie
	rows  map[string][]string
	cols  []string
}

// Names exposes the underlying trie for LongestMatch lookups (spec.md §4.1,
// §4.4's step 3 and step 4).
func (idx *Index) Names() *nametrie.Trie { return idx.names }

// Row returns the raw CSV columns recorded for a statute ID, and whether
// one was found.
func (idx *Index) Row(lawID string) ([]string, bool) {
	r, ok := idx.rows[lawID]
	return r, ok
}

// titleBrackets recognizes a statute-number-prefixed title, e.g.
// "明治二十九年法律第八十九号（民法）", extracting the parenthesized true
// name.
var titleBrackets = regexp.MustCompile(`.*年.*第.*号（(?P<name>.*)）`)

// canonicalizeName implements fix_law_name: it strips the "　抄" (excerpt)
// marker and, when the name is really "<statute number>（<name>）", unwraps
// it to the bracketed name — except for 刑法 (the Penal Code), whose
// statute-number-prefixed form is itself how it is commonly cited and must
// not be rewritten.
func canonicalizeName(name string) string {
	name = strings.ReplaceAll(name, "　抄", "")
	m := titleBrackets.FindStringSubmatch(name)
	if m == nil {
		return name
	}
	inner := m[titleBrackets.SubexpIndex("name")]
	if inner == "刑法" {
		return name
	}
	return inner
}

// LoadIndex reads the statute index CSV (法令ID, 法令名, 法令番号, 未施行, ...),
// skipping any row whose 未施行 (not yet in force) column is non-empty, and
// inserts each remaining row's canonicalized name and statute number into
// the name dictionary under its 法令ID.
func LoadIndex(r io.Reader) (*Index, []diag.Diagnostic, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("lawindex: reading header: %w", err)
	}

	idx := &Index{
		names: nametrie.New(),
		rows:  make(map[string][]string),
		cols:  header,
	}

	colIndex := func(name string) int {
		for i, c := range header {
			if c == name {
				return i
			}
		}
		return -1
	}
	idCol := colIndex("法令ID")
	nameCol := colIndex("法令名")
	numberCol := colIndex("法令番号")
	notInForceCol := colIndex("未施行")

	var diags []diag.Diagnostic

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, diags, fmt.Errorf("lawindex: reading row: %w", err)
		}

		if notInForceCol >= 0 && notInForceCol < len(row) && row[notInForceCol] != "" {
			continue
		}
		if idCol < 0 || idCol >= len(row) || nameCol < 0 || nameCol >= len(row) {
			diags = append(diags, diag.ShortNameSkipped{Row: row, Reason: "index row missing 法令ID or 法令名 column"})
			continue
		}

		lawID := row[idCol]
		name := canonicalizeName(row[nameCol])

		idx.names.Insert(name, lawID)
		if numberCol >= 0 && numberCol < len(row) && row[numberCol] != "" {
			idx.names.Insert(row[numberCol], lawID)
		}
		idx.rows[lawID] = row
	}

	return idx, diags, nil
}

// LoadShortNames reads the short-name cross-reference table and registers
// each surviving alias into idx's name dictionary. Column 0 is the
// statute's full name, column 1 its official number, columns 2+ are short
// names. A row is skipped — with a diag.ShortNameSkipped, not an error —
// unless both of the following hold: the statute number resolves to
// exactly one law ID, and the canonicalized full name resolves to a set of
// law IDs containing that same ID.
func LoadShortNames(idx *Index, r io.Reader) []diag.Diagnostic {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		return []diag.Diagnostic{diag.ShortNameSkipped{Reason: fmt.Sprintf("reading header: %v", err)}}
	}

	var diags []diag.Diagnostic

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			diags = append(diags, diag.ShortNameSkipped{Reason: fmt.Sprintf("reading row: %v", err)})
			continue
		}
		if len(row) < 2 {
			diags = append(diags, diag.ShortNameSkipped{Row: row, Reason: "row has fewer than 2 columns"})
			continue
		}

		lawNumber := row[1]
		matchedNumber, ids := idx.names.LongestMatch(lawNumber, 0)
		if matchedNumber != lawNumber || len(ids) != 1 {
			diags = append(diags, diag.ShortNameSkipped{Row: row, Reason: "invalid law number"})
			continue
		}

		fullName := canonicalizeName(row[0])
		matchedName, idsCheck := idx.names.LongestMatch(fullName, 0)
		if matchedName != fullName || len(nametrie.Intersect(ids, idsCheck)) == 0 {
			diags = append(diags, diag.ShortNameSkipped{Row: row, Reason: "invalid law name"})
			continue
		}

		lawID := ids[0]
		for _, shortName := range row[2:] {
			if shortName != "" {
				idx.names.Insert(shortName, lawID)
			}
		}
	}

	return diags
}

// indexCache is the on-disk shape Dump/ReadIndexCache round-trip: a flat
// list of (name, id) insertions, replayed into a fresh trie on read. This
// avoids re-parsing the (potentially large) source CSVs on every
// invocation; it is a convenience, not a second source of truth, and is
// never consulted unless the caller confirms the cache file is newer than
// the CSV it was built from.
type indexCache struct {
	Names []nameEntry         `json:"names"`
	Rows  map[string][]string `json:"rows"`
	Cols  []string            `json:"cols"`
}

type nameEntry struct {
	Name string   `json:"name"`
	IDs  []string `json:"ids"`
}

// Dump writes idx to w as JSON.
func (idx *Index) Dump(w io.Writer) error {
	cache := indexCache{Rows: idx.rows, Cols: idx.cols}
	seen := make(map[string][]string)
	idx.names.Walk(func(name string, ids []string) {
		seen[name] = ids
	})
	for name, ids := range seen {
		cache.Names = append(cache.Names, nameEntry{Name: name, IDs: ids})
	}
	return json.NewEncoder(w).Encode(cache)
}

// ReadIndexCache reads back an Index previously written by Dump.
func ReadIndexCache(r io.Reader) (*Index, error) {
	var cache indexCache
	if err := json.NewDecoder(r).Decode(&cache); err != nil {
		return nil, fmt.Errorf("lawindex: decoding index cache: %w", err)
	}

	idx := &Index{names: nametrie.New(), rows: cache.Rows, cols: cache.Cols}
	for _, e := range cache.Names {
		for _, id := range e.IDs {
			idx.names.Insert(e.Name, id)
		}
	}
	return idx, nil
}

// stripBOM discards a leading UTF-8 byte-order mark, if present, so
// encoding/csv never sees it as part of the header's first column name.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	bom, err := br.Peek(3)
	if err == nil && string(bom) == "\xef\xbb\xbf" {
		br.Discard(3)
	}
	return br
}
