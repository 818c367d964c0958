package render

import (
	"strings"
	"unicode"
)

// DefaultFileName is the download name used when the requester is blank.
const DefaultFileName = "Parecer"

// FileName builds a download name from the requester name. Only letters,
// digits, spaces, hyphens and underscores survive.
func FileName(requester, extension string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(requester) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	name := strings.TrimSpace(b.String())
	if name == "" {
		name = DefaultFileName
	}
	extension = strings.TrimPrefix(strings.TrimSpace(extension), ".")
	if extension == "" {
		return name
	}
	return name + "." + extension
}
