package render

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "application/octet-stream" }
func (n namedRenderer) Extension() string   { return string(n) }
func (n namedRenderer) Render(context.Context, Document, RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(namedRenderer("pdf"))
	reg.MustRegister(namedRenderer("docx"))

	if err := reg.Register(namedRenderer("pdf")); err == nil {
		t.Fatalf("duplicate registration should fail")
	}
	if err := reg.Register(namedRenderer("")); err == nil {
		t.Fatalf("empty name should fail")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("nil renderer should fail")
	}

	if diff := cmp.Diff([]string{"docx", "pdf"}, reg.Formats()); diff != "" {
		t.Fatalf("formats mismatch (-want +got):\n%s", diff)
	}
	if got, ok := reg.Lookup("pdf"); !ok || got.Name() != "pdf" {
		t.Fatalf("lookup pdf = %v, %v", got, ok)
	}
	if _, ok := reg.Lookup("odt"); ok {
		t.Fatalf("unknown format found")
	}
}

func TestRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(namedRenderer("html"))
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	reg.MustRegister(namedRenderer("html"))
}
