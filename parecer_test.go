package parecer

import (
	"bytes"
	"io/fs"
	"testing"
	"time"

	"github.com/goliatone/go-parecer/pkg/generator"
	"github.com/goliatone/go-parecer/pkg/renderers/html"
	"github.com/goliatone/go-parecer/pkg/testsupport"
)

func TestGenerate_DefaultFormats(t *testing.T) {
	rec := testsupport.SampleRecord(t)

	artifacts, err := Generate(testsupport.Context(), rec, nil,
		generator.WithClock(func() time.Time { return testsupport.FixedDate }),
	)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(artifacts) != 2 || artifacts[0].Format != "docx" || artifacts[1].Format != "pdf" {
		t.Fatalf("unexpected artifacts %+v", artifacts)
	}
	if !bytes.HasPrefix(artifacts[1].Data, []byte("%PDF")) {
		t.Fatalf("pdf artifact does not start with the pdf header")
	}
	if artifacts[0].FileName != "Maria da Silva.docx" {
		t.Fatalf("file name = %q", artifacts[0].FileName)
	}
}

func TestBackupRoundTrip(t *testing.T) {
	rec := testsupport.SampleRecord(t)
	data, err := ExportBackup(rec)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	restored, err := ImportBackup(data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if diff := testsupport.CompareRecords(rec, restored); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), html.TemplateName); err != nil {
		t.Fatalf("embedded template missing: %v", err)
	}
	if NewRecord() == nil || NewGenerator() == nil {
		t.Fatalf("constructors returned nil")
	}
}
