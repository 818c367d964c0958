package html

import (
	"context"
	"errors"
	"image/color"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-parecer/pkg/render"
	"github.com/goliatone/go-parecer/pkg/report"
	"github.com/goliatone/go-parecer/pkg/testsupport"
)

func renderRecord(t *testing.T, r *Renderer, rec *report.Record) string {
	t.Helper()
	opts := render.RenderOptions{Date: testsupport.FixedDate}
	out, err := r.Render(context.Background(), render.Compose(rec, opts), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func newRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRender_SampleScenario(t *testing.T) {
	out := renderRecord(t, newRenderer(t), testsupport.SampleRecord(t))

	wantInOrder := []string{
		"<h1>" + render.Title + "</h1>",
		"CAR: 1234",
		"SP-NOT: SPN-2024-01",
		"<strong>Nome do Imóvel Rural: </strong>Sítio Boa Vista",
		"<strong>CPF/CNPJ: </strong>123.456.789-01",
		"<h2>1. Observação</h2>",
		"teste",
		render.SignatureRule,
		"Salesópolis, 5 de março de 2024.",
	}
	rest := out
	for _, want := range wantInOrder {
		idx := strings.Index(rest, want)
		if idx < 0 {
			t.Fatalf("preview is missing %q (or it is out of order)", want)
		}
		rest = rest[idx+len(want):]
	}
}

func TestRender_SanitisesNotes(t *testing.T) {
	rec := testsupport.SampleRecord(t)
	rec.SetNote(report.ObservationTopic, "<script>alert(1)</script><b>área</b> a < b\nsegunda linha")
	_ = rec.SetField(report.FieldRequester, "<i>Ana</i>")

	out := renderRecord(t, newRenderer(t), rec)

	if strings.Contains(out, "<script>") || strings.Contains(out, "<b>") {
		t.Fatalf("markup survived sanitising:\n%s", out)
	}
	if !strings.Contains(out, "área a &lt; b<br>segunda linha") {
		t.Fatalf("note body not escaped as expected:\n%s", out)
	}
	if strings.Contains(out, "<i>Ana</i>") {
		t.Fatalf("requester name was not escaped")
	}
}

func TestRender_InlineImages(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := newRenderer(t, WithLogger(zap.New(core)))

	rec := testsupport.SampleRecord(t)
	rec.AddImage(report.ObservationTopic, testsupport.PNG(t, 10, 10, color.RGBA{B: 255, A: 255}))
	rec.AddImage(report.ObservationTopic, testsupport.CorruptImage())

	out := renderRecord(t, r, rec)
	if got := strings.Count(out, `src="data:image/jpeg;base64,`); got != 1 {
		t.Fatalf("expected one inline image, got %d", got)
	}
	if got := logs.FilterMessage("skipping image").Len(); got != 1 {
		t.Fatalf("expected one skipped image warning, got %d", got)
	}
}

func TestRender_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		TemplateName: {Data: []byte("{{ title }}|{% for s in sections %}{{ s.heading }};{% endfor %}")},
	}
	out := renderRecord(t, newRenderer(t, WithTemplatesFS(files)), testsupport.SampleRecord(t))
	if out != render.Title+"|1. Observação;" {
		t.Fatalf("unexpected output %q", out)
	}
}

type failingTemplates struct{}

func (failingTemplates) Render(io.Writer, string, map[string]any) error {
	return errors.New("boom")
}

func TestRender_TemplateFailureIsNotReady(t *testing.T) {
	r := newRenderer(t, WithTemplateRenderer(failingTemplates{}))
	out, err := r.Render(context.Background(), render.Document{}, render.RenderOptions{})
	if !errors.Is(err, render.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected no output")
	}
}

func TestRenderer_Metadata(t *testing.T) {
	r := newRenderer(t)
	if r.Name() != "html" || r.Extension() != "html" || !strings.HasPrefix(r.ContentType(), "text/html") {
		t.Fatalf("unexpected metadata %q %q %q", r.Name(), r.Extension(), r.ContentType())
	}
}
