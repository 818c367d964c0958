// Package html renders a browser preview of the report with the same block
// order as the DOCX and PDF documents.
package html

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/goliatone/go-parecer/pkg/imaging"
	"github.com/goliatone/go-parecer/pkg/render"
	rendertemplate "github.com/goliatone/go-parecer/pkg/render/template"
	"github.com/goliatone/go-parecer/pkg/render/template/pongo"
)

// Option configures the preview renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.Renderer
	logger           *zap.Logger
	fontFamily       string
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// TemplateName.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.Renderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithLogger routes skipped-image warnings to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithFontFamily overrides the preview font (default Arial).
func WithFontFamily(family string) Option {
	return func(cfg *config) {
		if family != "" {
			cfg.fontFamily = family
		}
	}
}

// Renderer implements render.Renderer for the HTML preview.
type Renderer struct {
	templates  rendertemplate.Renderer
	logger     *zap.Logger
	fontFamily string
}

// New constructs the preview renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		logger:     zap.NewNop(),
		fontFamily: "Arial",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:  renderer,
		logger:     cfg.logger,
		fontFamily: cfg.fontFamily,
	}, nil
}

func (r *Renderer) Name() string        { return "html" }
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }
func (r *Renderer) Extension() string   { return "html" }

// Render executes the preview template against doc.
func (r *Renderer) Render(ctx context.Context, doc render.Document, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, fmt.Errorf("html: context is required: %w", render.ErrNotReady)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html: template renderer is nil: %w", render.ErrNotReady)
	}

	info := make([]map[string]any, 0, len(doc.Info))
	for _, line := range doc.Info {
		info = append(info, map[string]any{"label": line.Label, "value": line.Value})
	}

	sections := make([]map[string]any, 0, len(doc.Sections))
	for _, section := range doc.Sections {
		images := make([]string, 0, len(section.Images))
		for idx, blob := range section.Images {
			img, err := imaging.Prepare(blob, opts.Images)
			if err != nil {
				r.logger.Warn("skipping image",
					zap.String("renderer", r.Name()),
					zap.String("topic", section.Topic),
					zap.Int("index", idx),
					zap.Error(err),
				)
				continue
			}
			images = append(images, "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(img.Data))
		}
		sections = append(sections, map[string]any{
			"heading": section.Heading(),
			"topic":   section.Topic,
			"body":    noteHTML(section.Body),
			"images":  images,
		})
	}

	var buf bytes.Buffer
	err := r.templates.Render(&buf, TemplateName, map[string]any{
		"font":     r.fontFamily,
		"title":    doc.Title,
		"header":   doc.Header,
		"info":     info,
		"sections": sections,
		"signature": map[string]any{
			"rule":  doc.Signature.Rule,
			"name":  doc.Signature.Name,
			"place": doc.Signature.Place,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("html: render template: %v: %w", err, render.ErrNotReady)
	}
	return buf.Bytes(), nil
}
