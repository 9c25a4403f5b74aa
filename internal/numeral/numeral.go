// Package numeral decodes Japanese kanji numerals (〇一二三四五六七八九十百千万)
// into integers, as used throughout article/paragraph/item numbering in
// statutory citations.
package numeral

import "fmt"

var digitValue = map[rune]int{
	'〇': 0, '一': 1, '二': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

var markerValue = map[rune]int{
	'十': 10,
	'百': 100,
	'千': 1000,
	'万': 10000,
}

// Decode converts a kanji numeral string to its integer value. It supports
// magnitudes up to 99999 and is total on well-formed input: a positional
// marker (万千百十) with no preceding digit counts as 1×marker, matching the
// way these numbers are written in legal text ("十二条" = article 12, not
// "1", "0", "2").
func Decode(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("numeral: empty input")
	}

	total := 0
	run := 0 // digits accumulated since the last marker, pending a marker or end-of-string
	sawDigitSinceMarker := false

	for _, r := range s {
		if v, ok := digitValue[r]; ok {
			run = run*10 + v
			sawDigitSinceMarker = true
			continue
		}

		if mv, ok := markerValue[r]; ok {
			if !sawDigitSinceMarker {
				run = 1
			}
			total += run * mv
			run = 0
			sawDigitSinceMarker = false
			continue
		}

		return 0, fmt.Errorf("numeral: invalid character %q in %q", r, s)
	}

	total += run

	if total > 99999 {
		return 0, fmt.Errorf("numeral: %q exceeds maximum supported magnitude 99999", s)
	}

	return total, nil
}
