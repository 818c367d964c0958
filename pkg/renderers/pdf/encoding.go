package pdf

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Placeholder replaces runes the core fonts cannot encode.
const Placeholder = '?'

// EncodeText converts UTF-8 text to the single-byte Windows-1252 repertoire
// used by the PDF core fonts. Text is NFC-normalised first so decomposed
// accents still map to their precomposed code points.
func EncodeText(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			b.WriteByte(byte(r))
			continue
		}
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte(Placeholder)
	}
	return b.String()
}
