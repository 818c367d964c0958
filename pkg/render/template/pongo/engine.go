// Package pongo backs template.Renderer with a pongo2 template set.
package pongo

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-parecer/pkg/render/template"
)

// Option configures the engine before construction.
type Option func(*Engine)

// WithFS sets the template bundle. It is required.
func WithFS(files fs.FS) Option {
	return func(e *Engine) {
		e.files = files
	}
}

// WithExtension overrides the ".tpl" suffix appended to template names.
func WithExtension(ext string) Option {
	return func(e *Engine) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		e.ext = ext
	}
}

// Engine renders templates from one pongo2 set. Compiled templates are
// cached by the set, so an Engine is safe for concurrent use.
type Engine struct {
	files fs.FS
	ext   string
	set   *pongo2.TemplateSet
}

var _ template.Renderer = (*Engine)(nil)

// New constructs an Engine over the WithFS bundle.
func New(options ...Option) (*Engine, error) {
	e := &Engine{ext: ".tpl"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.files == nil {
		return nil, errors.New("pongo: template fs is required")
	}
	e.set = pongo2.NewSet("parecer", pongo2.NewFSLoader(e.files))
	return e, nil
}

// Render executes name, adding the extension when it is missing.
func (e *Engine) Render(w io.Writer, name string, data map[string]any) error {
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	tmpl, err := e.set.FromCache(name)
	if err != nil {
		return fmt.Errorf("pongo: load template %q: %w", name, err)
	}
	if err := tmpl.ExecuteWriter(pongo2.Context(data), w); err != nil {
		return fmt.Errorf("pongo: execute template %q: %w", name, err)
	}
	return nil
}
