package template

import "io"

// Renderer executes a named template against data and writes the result to
// w. The HTML preview renders through it.
type Renderer interface {
	Render(w io.Writer, name string, data map[string]any) error
}
