package report

import "strings"

// Digits drops every character of raw that is not an ASCII digit.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatDocument renders a taxpayer number for display. Eleven digits are
// formatted as a CPF (###.###.###-##), fourteen as a CNPJ
// (##.###.###/####-##); any other length comes back as the bare digits.
func FormatDocument(raw string) string {
	n := Digits(raw)
	switch len(n) {
	case 11:
		return n[:3] + "." + n[3:6] + "." + n[6:9] + "-" + n[9:]
	case 14:
		return n[:2] + "." + n[2:5] + "." + n[5:8] + "/" + n[8:12] + "-" + n[12:]
	default:
		return n
	}
}
