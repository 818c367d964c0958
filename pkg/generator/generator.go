package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-parecer/pkg/imaging"
	"github.com/goliatone/go-parecer/pkg/render"
	"github.com/goliatone/go-parecer/pkg/renderers/docx"
	"github.com/goliatone/go-parecer/pkg/renderers/html"
	"github.com/goliatone/go-parecer/pkg/renderers/pdf"
	"github.com/goliatone/go-parecer/pkg/report"
)

// ErrUnknownFormat is returned when a request names a format no renderer
// serves.
var ErrUnknownFormat = errors.New("generator: unknown format")

// DefaultFormats are rendered when a request does not name any.
var DefaultFormats = []string{"docx", "pdf"}

// Option customises the generator configuration.
type Option func(*Generator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(g *Generator) {
		g.registry = registry
	}
}

// WithLogger sets the logger used by the generator and the default
// renderers.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithDefaultCity overrides the signature locality for records without one.
func WithDefaultCity(city string) Option {
	return func(g *Generator) {
		g.defaultCity = strings.TrimSpace(city)
	}
}

// WithRequiredFields lists the header fields that must be filled before
// anything is rendered. No fields disables the check.
func WithRequiredFields(fields ...report.Field) Option {
	return func(g *Generator) {
		g.required = append([]report.Field(nil), fields...)
	}
}

// WithClock replaces time.Now as the source of the signature date.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithImageOptions sets how images are prepared when a request carries none.
func WithImageOptions(opts imaging.Options) Option {
	return func(g *Generator) {
		g.images = opts
	}
}

// WithDefaultFormats overrides the formats rendered when a request omits them.
func WithDefaultFormats(formats ...string) Option {
	return func(g *Generator) {
		if len(formats) > 0 {
			g.formats = append([]string(nil), formats...)
		}
	}
}

// Generator renders records through a registry of renderers.
type Generator struct {
	registry      *render.Registry
	logger        *zap.Logger
	defaultCity   string
	required      []report.Field
	now           func() time.Time
	images        imaging.Options
	formats       []string
	initialiseErr error
}

// New constructs a Generator. Without WithRegistry the PDF, DOCX and HTML
// renderers are registered.
func New(options ...Option) *Generator {
	g := &Generator{
		logger:   zap.NewNop(),
		now:      time.Now,
		formats:  append([]string(nil), DefaultFormats...),
		required: []report.Field{report.FieldCAR},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	if g.registry == nil {
		registry, err := DefaultRegistry(g.logger)
		if err != nil {
			g.initialiseErr = err
		}
		g.registry = registry
	}
	return g
}

// DefaultRegistry returns a registry holding the built-in renderers.
func DefaultRegistry(logger *zap.Logger) (*render.Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := render.NewRegistry()
	registry.MustRegister(pdf.New(pdf.WithLogger(logger)))
	registry.MustRegister(docx.New(docx.WithLogger(logger)))

	preview, err := html.New(html.WithLogger(logger))
	if err != nil {
		return registry, fmt.Errorf("generator: default html renderer: %w", err)
	}
	registry.MustRegister(preview)
	return registry, nil
}

// Registry exposes the renderers the generator dispatches to.
func (g *Generator) Registry() *render.Registry {
	return g.registry
}

// Request describes one generation pass.
type Request struct {
	Record *report.Record
	// Formats names the renderers to run. Empty selects the configured
	// defaults.
	Formats []string
	// Options overrides the generator defaults field by field.
	Options render.RenderOptions
}

// Artifact is one rendered download.
type Artifact struct {
	Format      string
	FileName    string
	ContentType string
	Data        []byte
}

// Generate validates the record and renders every requested format. Either
// all artifacts are returned or none.
func (g *Generator) Generate(ctx context.Context, req Request) ([]Artifact, error) {
	if ctx == nil {
		return nil, errors.New("generator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := g.initialiseErr; err != nil {
		return nil, err
	}
	if req.Record == nil {
		return nil, errors.New("generator: record is required")
	}
	if err := req.Record.Validate(g.required...); err != nil {
		return nil, err
	}

	formats := req.Formats
	if len(formats) == 0 {
		formats = g.formats
	}
	renderers, err := g.renderersFor(formats)
	if err != nil {
		return nil, err
	}

	opts := g.resolveOptions(req.Options)
	doc := render.Compose(req.Record, opts)

	artifacts := make([]Artifact, 0, len(renderers))
	for _, renderer := range renderers {
		data, err := g.render(ctx, renderer, doc, opts)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{
			Format:      renderer.Name(),
			FileName:    render.FileName(req.Record.RequesterName, renderer.Extension()),
			ContentType: renderer.ContentType(),
			Data:        data,
		})
	}

	g.logger.Info("report generated",
		zap.Strings("formats", formatNames(artifacts)),
		zap.Int("sections", len(doc.Sections)),
	)
	return artifacts, nil
}

// Preview renders a single format without the required-field check, so a
// half-filled form can still be looked at.
func (g *Generator) Preview(ctx context.Context, rec *report.Record, format string, options render.RenderOptions) (Artifact, error) {
	if ctx == nil {
		return Artifact{}, errors.New("generator: context is required")
	}
	if err := g.initialiseErr; err != nil {
		return Artifact{}, err
	}
	if rec == nil {
		return Artifact{}, errors.New("generator: record is required")
	}
	renderers, err := g.renderersFor([]string{format})
	if err != nil {
		return Artifact{}, err
	}
	renderer := renderers[0]

	opts := g.resolveOptions(options)
	data, err := g.render(ctx, renderer, render.Compose(rec, opts), opts)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{
		Format:      renderer.Name(),
		FileName:    render.FileName(rec.RequesterName, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

func (g *Generator) render(ctx context.Context, renderer render.Renderer, doc render.Document, opts render.RenderOptions) ([]byte, error) {
	data, err := renderer.Render(ctx, doc, opts)
	if err == nil && len(data) == 0 {
		err = errors.New("empty output")
	}
	if err != nil {
		g.logger.Warn("render failed",
			zap.String("renderer", renderer.Name()),
			zap.Error(err),
		)
		if errors.Is(err, render.ErrNotReady) {
			return nil, fmt.Errorf("generator: render %s: %w", renderer.Name(), err)
		}
		return nil, fmt.Errorf("generator: render %s: %w: %w", renderer.Name(), render.ErrNotReady, err)
	}
	return data, nil
}

func (g *Generator) renderersFor(formats []string) ([]render.Renderer, error) {
	if g.registry == nil {
		return nil, errors.New("generator: renderer registry is nil")
	}
	seen := make(map[string]struct{}, len(formats))
	out := make([]render.Renderer, 0, len(formats))
	for _, raw := range formats {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		renderer, ok := g.registry.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownFormat, raw, strings.Join(g.registry.Formats(), ", "))
		}
		out = append(out, renderer)
	}
	if len(out) == 0 {
		return nil, errors.New("generator: no formats requested")
	}
	return out, nil
}

func (g *Generator) resolveOptions(opts render.RenderOptions) render.RenderOptions {
	if opts.Date.IsZero() {
		opts.Date = g.now()
	}
	if opts.DefaultCity == "" {
		opts.DefaultCity = g.defaultCity
	}
	if opts.Images == (imaging.Options{}) {
		opts.Images = g.images
	}
	return opts
}

func formatNames(artifacts []Artifact) []string {
	names := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		names = append(names, a.Format)
	}
	return names
}
