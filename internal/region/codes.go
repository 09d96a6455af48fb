// internal/region/codes.go
package region

import (
	"strings"
	"unicode"
)

// Upstream region ids are plain digit strings with fixed widths per level.
const (
	provinceIDLen = 2
	regencyIDLen  = 4
	districtIDLen = 7
	villageIDLen  = 10
)

// DigitsOnly strips everything but digits from a code. The mobile client
// sometimes sends dotted codes ("32.05.01"), the upstream API wants bare
// digits ("320501").
func DigitsOnly(code string) string {
	var b strings.Builder
	for _, r := range code {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeCode strips non-digits then pads with trailing zeros or
// truncates so the result has exactly the width of the requested level.
func NormalizeCode(code string, length int) string {
	digits := DigitsOnly(code)
	if len(digits) > length {
		return digits[:length]
	}
	for len(digits) < length {
		digits += "0"
	}
	return digits
}

// ToDotCode converts a bare digit code to the dotted form stored in the
// local wilayah table: "3205" becomes "32.05", "3205010" becomes
// "32.05.010".
func ToDotCode(digits string) string {
	if len(digits) <= provinceIDLen {
		return digits
	}

	parts := []string{digits[:provinceIDLen]}
	rest := digits[provinceIDLen:]

	if len(rest) <= 2 {
		parts = append(parts, rest)
	} else {
		parts = append(parts, rest[:2])
		parts = append(parts, rest[2:])
	}
	return strings.Join(parts, ".")
}

// ToVillageDotCode renders a full village id in the dotted 2.2.3.3 form
// the mobile client stores: "3205010001" becomes "32.05.010.001". Short
// ids are left-padded with zeros to the village width first.
func ToVillageDotCode(code string) string {
	digits := DigitsOnly(code)
	for len(digits) < villageIDLen {
		digits = "0" + digits
	}
	return strings.Join([]string{
		digits[:2], digits[2:4], digits[4:7], digits[7:10],
	}, ".")
}

// prefix returns the first n digits of a code, or the whole code when it
// is shorter. Parent ids embed as prefixes of child ids.
func prefix(digits string, n int) string {
	if len(digits) < n {
		return digits
	}
	return digits[:n]
}

// TitleCase lowercases a name then capitalizes each word. Upstream names
// arrive in all caps ("KAB. GARUT").
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
