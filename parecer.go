// Package parecer is the top-level entry point for building Parecer Técnico
// reports: fill a report.Record, then render it with a Generator.
package parecer

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-parecer/pkg/backup"
	"github.com/goliatone/go-parecer/pkg/generator"
	"github.com/goliatone/go-parecer/pkg/render"
	"github.com/goliatone/go-parecer/pkg/renderers/html"
	"github.com/goliatone/go-parecer/pkg/report"
)

// Record aliases report.Record so simple callers need a single import.
type Record = report.Record

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// Artifact aliases generator.Artifact.
type Artifact = generator.Artifact

// NewRecord returns an empty record with the default deselect policy.
func NewRecord() *Record {
	return report.New()
}

// NewGenerator exposes the generator constructor from the top-level module.
func NewGenerator(options ...generator.Option) *generator.Generator {
	return generator.New(options...)
}

// Generate renders rec in every requested format, or the generator defaults
// (DOCX and PDF) when none are named.
func Generate(ctx context.Context, rec *Record, formats []string, options ...generator.Option) ([]Artifact, error) {
	return generator.New(options...).Generate(ctx, generator.Request{
		Record:  rec,
		Formats: formats,
	})
}

// ImportBackup restores a record from a backup blob.
func ImportBackup(data []byte) (*Record, error) {
	return backup.Import(data)
}

// ExportBackup serialises rec as a backup blob.
func ExportBackup(rec *Record) ([]byte, error) {
	return backup.Export(rec)
}

// EmbeddedTemplates exposes the built-in HTML preview templates so callers can
// copy or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
