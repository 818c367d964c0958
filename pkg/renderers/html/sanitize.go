package html

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	notePolicyOnce sync.Once
	notePolicy     *bluemonday.Policy
)

func noteSanitizer() *bluemonday.Policy {
	notePolicyOnce.Do(func() {
		notePolicy = bluemonday.StrictPolicy()
	})
	return notePolicy
}

// noteHTML strips any markup pasted into a note, escapes the remaining text
// and turns line breaks into <br>.
func noteHTML(raw string) string {
	if raw == "" {
		return ""
	}
	policy := noteSanitizer()
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = policy.Sanitize(line)
	}
	return strings.Join(lines, "<br>")
}
