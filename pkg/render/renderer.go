// Package render defines the contract shared by the report renderers and
// composes the layout every renderer draws, so the flow document, the fixed
// layout document and the preview stay consistent with each other.
package render

import "context"

// Renderer converts a composed Document into a byte stream (DOCX, PDF, HTML).
// Implementations return a nil slice whenever they return an error; a partial
// stream is never handed back.
type Renderer interface {
	Name() string
	ContentType() string
	Extension() string
	Render(ctx context.Context, doc Document, options RenderOptions) ([]byte, error)
}
