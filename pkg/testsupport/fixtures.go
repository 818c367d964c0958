package testsupport

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-parecer/pkg/report"
)

// FixedDate is the render date used by fixtures so signature lines are
// stable across runs.
var FixedDate = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

// SampleRecord returns the reference scenario: CAR 1234, an 11 digit
// document and a single "Observação" topic with the note "teste".
func SampleRecord(t *testing.T) *report.Record {
	t.Helper()

	rec := report.New()
	mustSet(t, rec, report.FieldCAR, "1234")
	mustSet(t, rec, report.FieldSPNotice, "SPN-2024-01")
	mustSet(t, rec, report.FieldProperty, "Sítio Boa Vista")
	mustSet(t, rec, report.FieldRequester, "Maria da Silva")
	mustSet(t, rec, report.FieldDocument, "12345678901")
	mustSet(t, rec, report.FieldCity, "Salesópolis")
	if err := rec.ToggleTopic(report.ObservationTopic, true); err != nil {
		t.Fatalf("toggle topic: %v", err)
	}
	rec.SetNote(report.ObservationTopic, "teste")
	return rec
}

func mustSet(t *testing.T, rec *report.Record, field report.Field, value string) {
	t.Helper()
	if err := rec.SetField(field, value); err != nil {
		t.Fatalf("set %s: %v", field, err)
	}
}

// PNG encodes a solid w×h image.
func PNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// TransparentPNG encodes a fully transparent w×h image.
func TransparentPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	return PNG(t, w, h, color.NRGBA{R: 0, G: 0, B: 0, A: 0})
}

// JPEG encodes a solid w×h image at quality 90.
func JPEG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// CorruptImage returns bytes that no registered decoder accepts.
func CorruptImage() []byte {
	return []byte("definitely not an image")
}

// WriteFile writes data under t.TempDir() and returns the path.
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// CompareRecords diffs the exported state of two records. Nil and empty
// collections compare equal.
func CompareRecords(want, got *report.Record) string {
	return cmp.Diff(want, got, cmpopts.IgnoreUnexported(report.Record{}), cmpopts.EquateEmpty())
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
