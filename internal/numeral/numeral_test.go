package numeral

import (
	"strings"
	"testing"
)

// encode is the inverse of Decode, used only to generate round-trip test
// input; it is deliberately unexported since the spec only requires Decode.
func encode(n int) string {
	if n == 0 {
		return "〇"
	}

	var b strings.Builder
	digits := []rune("〇一二三四五六七八九")

	tiers := []struct {
		marker rune
		size   int
	}{
		{'万', 10000},
		{'千', 1000},
		{'百', 100},
		{'十', 10},
	}

	for _, tier := range tiers {
		d := n / tier.size
		n %= tier.size
		if d == 0 {
			continue
		}
		if d > 1 || tier.marker == '万' {
			b.WriteRune(digits[d])
		}
		b.WriteRune(tier.marker)
	}

	if n > 0 {
		b.WriteRune(digits[n])
	}

	return b.String()
}

func TestDecode_Basic(t *testing.T) {
	cases := map[string]int{
		"〇":   0,
		"一":   1,
		"九":   9,
		"十":   10,
		"十一":  11,
		"二十":  20,
		"九十":  90,
		"百":   100,
		"百一":  101,
		"二百":  200,
		"千":   1000,
		"万":   10000,
		"二万三千四十五": 23045,
	}

	for in, want := range cases {
		got, err := Decode(in)
		if err != nil {
			t.Fatalf("Decode(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Errorf("Decode(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestDecode_InvalidCharacter(t *testing.T) {
	if _, err := Decode("十a"); err == nil {
		t.Error("expected error for non-numeral character, got nil")
	}
}

func TestDecode_Empty(t *testing.T) {
	if _, err := Decode(""); err == nil {
		t.Error("expected error for empty input, got nil")
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	for n := 0; n <= 99999; n++ {
		// Every integer up to 2000 is checked, covering the 十, 百 and 千
		// tier boundaries; above that only multiples of 37 are sampled to
		// keep the test fast.
		if n > 2000 && n%37 != 0 {
			continue
		}

		s := encode(n)
		got, err := Decode(s)
		if err != nil {
			t.Fatalf("Decode(encode(%d)) = Decode(%q) returned error: %v", n, s, err)
		}
		if got != n {
			t.Errorf("Decode(encode(%d)) = Decode(%q) = %d, want %d", n, s, got, n)
		}
	}
}
