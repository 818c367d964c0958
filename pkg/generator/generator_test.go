package generator_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-parecer/pkg/generator"
	"github.com/goliatone/go-parecer/pkg/render"
	"github.com/goliatone/go-parecer/pkg/report"
	"github.com/goliatone/go-parecer/pkg/testsupport"
)

func fixedClock() time.Time { return testsupport.FixedDate }

type stubRenderer struct {
	name string
	err  error
	got  render.Document
	opts render.RenderOptions
}

func (s *stubRenderer) Name() string        { return s.name }
func (s *stubRenderer) ContentType() string { return "text/plain" }
func (s *stubRenderer) Extension() string   { return s.name }
func (s *stubRenderer) Render(_ context.Context, doc render.Document, opts render.RenderOptions) ([]byte, error) {
	s.got = doc
	s.opts = opts
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.name + ":" + doc.Signature.Place), nil
}

func TestGenerate_DefaultFormats(t *testing.T) {
	gen := generator.New(generator.WithClock(fixedClock))

	artifacts, err := gen.Generate(testsupport.Context(), generator.Request{Record: testsupport.SampleRecord(t)})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var got []string
	for _, a := range artifacts {
		got = append(got, a.Format+"|"+a.FileName)
		if len(a.Data) == 0 {
			t.Fatalf("%s artifact is empty", a.Format)
		}
	}
	want := []string{"docx|Maria da Silva.docx", "pdf|Maria da Silva.pdf"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("artifacts mismatch (-want +got):\n%s", diff)
	}
	if !bytes.HasPrefix(artifacts[1].Data, []byte("%PDF-")) {
		t.Fatalf("pdf artifact is not a PDF")
	}
	if !bytes.HasPrefix(artifacts[0].Data, []byte("PK")) {
		t.Fatalf("docx artifact is not a zip package")
	}
}

func TestGenerate_RequiredFields(t *testing.T) {
	gen := generator.New(generator.WithRequiredFields(report.FieldCAR, report.FieldCity))

	_, err := gen.Generate(testsupport.Context(), generator.Request{Record: report.New()})
	var verr *report.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if diff := cmp.Diff([]report.Field{report.FieldCAR, report.FieldCity}, verr.Missing); diff != "" {
		t.Fatalf("missing fields mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_NoRequiredFields(t *testing.T) {
	stub := &stubRenderer{name: "txt"}
	registry := render.NewRegistry()
	registry.MustRegister(stub)

	gen := generator.New(
		generator.WithRegistry(registry),
		generator.WithRequiredFields(),
		generator.WithDefaultFormats("txt"),
		generator.WithClock(fixedClock),
	)
	artifacts, err := gen.Generate(testsupport.Context(), generator.Request{Record: report.New()})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := artifacts[0].FileName; got != "Parecer.txt" {
		t.Fatalf("file name = %q", got)
	}
}

func TestGenerate_AllOrNothing(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	registry := render.NewRegistry()
	registry.MustRegister(&stubRenderer{name: "ok"})
	registry.MustRegister(&stubRenderer{name: "bad", err: errors.New("engine exploded")})

	gen := generator.New(generator.WithRegistry(registry), generator.WithLogger(zap.New(core)))
	artifacts, err := gen.Generate(testsupport.Context(), generator.Request{
		Record:  testsupport.SampleRecord(t),
		Formats: []string{"ok", "bad"},
	})
	if !errors.Is(err, render.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if artifacts != nil {
		t.Fatalf("expected no artifacts, got %d", len(artifacts))
	}
	if logs.FilterMessage("render failed").Len() != 1 {
		t.Fatalf("render failure was not logged")
	}
}

func TestGenerate_UnknownFormat(t *testing.T) {
	gen := generator.New()
	_, err := gen.Generate(testsupport.Context(), generator.Request{
		Record:  testsupport.SampleRecord(t),
		Formats: []string{"odt"},
	})
	if !errors.Is(err, generator.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), "docx, html, pdf") {
		t.Fatalf("error does not list available formats: %v", err)
	}
}

func TestGenerate_ResolvesOptions(t *testing.T) {
	stub := &stubRenderer{name: "txt"}
	registry := render.NewRegistry()
	registry.MustRegister(stub)

	gen := generator.New(
		generator.WithRegistry(registry),
		generator.WithClock(fixedClock),
		generator.WithDefaultCity("Biritiba Mirim"),
	)

	rec := testsupport.SampleRecord(t)
	_ = rec.ClearField(report.FieldCity)
	if _, err := gen.Generate(testsupport.Context(), generator.Request{Record: rec, Formats: []string{"TXT"}}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := stub.got.Signature.Place; got != "Biritiba Mirim, 5 de março de 2024." {
		t.Fatalf("place = %q", got)
	}

	explicit := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	if _, err := gen.Generate(testsupport.Context(), generator.Request{
		Record:  rec,
		Formats: []string{"txt"},
		Options: render.RenderOptions{Date: explicit, DefaultCity: "Guararema"},
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := stub.got.Signature.Place; got != "Guararema, 31 de dezembro de 2025." {
		t.Fatalf("place = %q", got)
	}
}

func TestPreview_SkipsValidation(t *testing.T) {
	gen := generator.New(generator.WithClock(fixedClock))

	artifact, err := gen.Preview(testsupport.Context(), report.New(), "html", render.RenderOptions{})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if artifact.FileName != "Parecer.html" || !strings.HasPrefix(artifact.ContentType, "text/html") {
		t.Fatalf("unexpected artifact %+v", artifact)
	}
	if !bytes.Contains(artifact.Data, []byte("Mogi das Cruzes, 5 de março de 2024.")) {
		t.Fatalf("preview is missing the signature place")
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := generator.New().Generate(ctx, generator.Request{Record: testsupport.SampleRecord(t)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
