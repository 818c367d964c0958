package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplateName is the entry template rendered for every preview.
const TemplateName = "templates/report.tmpl"

// TemplatesFS exposes the embedded preview template so callers can extend or
// replace it.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
