package report

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetField_DocumentKeepsDigitsOnly(t *testing.T) {
	rec := New()
	if err := rec.SetField(FieldDocument, "123.456.789-01"); err != nil {
		t.Fatalf("set field: %v", err)
	}
	if rec.RequesterDocument != "12345678901" {
		t.Fatalf("document stored as %q", rec.RequesterDocument)
	}
	if got := FormatDocument(rec.Field(FieldDocument)); got != "123.456.789-01" {
		t.Fatalf("formatted document %q", got)
	}
}

func TestSetField_UnknownField(t *testing.T) {
	rec := New()
	err := rec.SetField(Field("cep"), "x")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestParseField(t *testing.T) {
	field, err := ParseField("  SP_NOT ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if field != FieldSPNotice {
		t.Fatalf("got %q", field)
	}
	if _, err := ParseField("unknown"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestToggleTopic_OrderAndIdempotence(t *testing.T) {
	rec := New()
	topics := Topics()

	mustToggle(t, rec, ObservationTopic, true)
	mustToggle(t, rec, topics[0], true)
	mustToggle(t, rec, ObservationTopic, true)
	mustToggle(t, rec, topics[2], true)

	want := []string{ObservationTopic, topics[0], topics[2]}
	if diff := cmp.Diff(want, rec.Selected); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}

	mustToggle(t, rec, topics[0], false)
	mustToggle(t, rec, topics[0], true)
	want = []string{ObservationTopic, topics[2], topics[0]}
	if diff := cmp.Diff(want, rec.Selected); diff != "" {
		t.Fatalf("reselect should append (-want +got):\n%s", diff)
	}
}

func TestToggleTopic_UnknownTopic(t *testing.T) {
	rec := New()
	if err := rec.ToggleTopic("Nada", true); !errors.Is(err, ErrUnknownTopic) {
		t.Fatalf("expected ErrUnknownTopic, got %v", err)
	}
	if len(rec.Selected) != 0 {
		t.Fatalf("unknown topic selected: %v", rec.Selected)
	}
}

func TestToggleTopic_KeepContentOrphansNotes(t *testing.T) {
	rec := New()
	mustToggle(t, rec, ObservationTopic, true)
	rec.SetNote(ObservationTopic, "texto")
	rec.AddImage(ObservationTopic, []byte{1})

	mustToggle(t, rec, ObservationTopic, false)
	if rec.Note(ObservationTopic) != "texto" {
		t.Fatalf("note dropped on deselect")
	}
	if len(rec.Images[ObservationTopic]) != 1 {
		t.Fatalf("images dropped on deselect")
	}
	if diff := cmp.Diff([]string{ObservationTopic}, rec.Orphans()); diff != "" {
		t.Fatalf("orphans mismatch (-want +got):\n%s", diff)
	}

	mustToggle(t, rec, ObservationTopic, true)
	if len(rec.Orphans()) != 0 {
		t.Fatalf("reselected topic still orphaned: %v", rec.Orphans())
	}
}

func TestToggleTopic_ClearAllPolicy(t *testing.T) {
	rec := New()
	rec.SetDeselectPolicy(ClearAll)
	mustToggle(t, rec, ObservationTopic, true)
	rec.SetNote(ObservationTopic, "texto")
	rec.AddImage(ObservationTopic, []byte{1})

	mustToggle(t, rec, ObservationTopic, false)
	if _, ok := rec.Notes[ObservationTopic]; ok {
		t.Fatalf("note kept under ClearAll")
	}
	if _, ok := rec.Images[ObservationTopic]; ok {
		t.Fatalf("images kept under ClearAll")
	}
}

func TestSetNote_EmptyDeletes(t *testing.T) {
	rec := New()
	rec.SetNote(ObservationTopic, "a")
	rec.SetNote(ObservationTopic, "")
	if _, ok := rec.Notes[ObservationTopic]; ok {
		t.Fatalf("empty note should delete the key")
	}
}

func TestClearNote_KeepsImages(t *testing.T) {
	rec := New()
	rec.SetNote(ObservationTopic, "a")
	rec.AddImage(ObservationTopic, []byte{1})
	rec.ClearNote(ObservationTopic)
	if rec.Note(ObservationTopic) != "" {
		t.Fatalf("note not cleared")
	}
	if len(rec.Images[ObservationTopic]) != 1 {
		t.Fatalf("images should survive ClearNote")
	}
}

func TestImages_AddRemoveSymmetry(t *testing.T) {
	rec := New()
	a, b, c := []byte("a"), []byte("b"), []byte("c")
	rec.AddImage(ObservationTopic, a)
	rec.AddImage(ObservationTopic, b)
	rec.AddImage(ObservationTopic, c)

	if !rec.RemoveImage(ObservationTopic, 0) {
		t.Fatalf("remove in bounds returned false")
	}
	rec.AddImage(ObservationTopic, a)

	want := [][]byte{b, c, a}
	if diff := cmp.Diff(want, rec.Images[ObservationTopic]); diff != "" {
		t.Fatalf("images mismatch (-want +got):\n%s", diff)
	}
	if rec.UploadSlot(ObservationTopic) != 4 {
		t.Fatalf("upload slot = %d, want 4", rec.UploadSlot(ObservationTopic))
	}
	if got := rec.UploadKey(ObservationTopic); got != "upload_Observação_4" {
		t.Fatalf("upload key %q", got)
	}
}

func TestRemoveImage_BoundsAndEmptyList(t *testing.T) {
	rec := New()
	rec.AddImage(ObservationTopic, []byte("a"))

	if rec.RemoveImage(ObservationTopic, 1) || rec.RemoveImage(ObservationTopic, -1) {
		t.Fatalf("out of range removal reported success")
	}
	if rec.RemoveImage("missing", 0) {
		t.Fatalf("removal on missing topic reported success")
	}
	if !rec.RemoveImage(ObservationTopic, 0) {
		t.Fatalf("expected removal")
	}
	if _, ok := rec.Images[ObservationTopic]; ok {
		t.Fatalf("empty list should be deleted")
	}
}

func TestValidate(t *testing.T) {
	rec := New()
	_ = rec.SetField(FieldRequester, "Maria")

	err := rec.Validate(FieldCAR, FieldRequester, FieldCity)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if diff := cmp.Diff([]Field{FieldCAR, FieldCity}, verr.Missing); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
	if verr.Error() != "report: missing required fields: CAR, Cidade" {
		t.Fatalf("message %q", verr.Error())
	}
	if err := rec.Validate(); err != nil {
		t.Fatalf("no required fields should pass: %v", err)
	}
}

func TestResetAndClone(t *testing.T) {
	rec := New()
	rec.SetDeselectPolicy(ClearAll)
	_ = rec.SetField(FieldCAR, "SP-1")
	mustToggle(t, rec, ObservationTopic, true)
	rec.SetNote(ObservationTopic, "texto")
	rec.AddImage(ObservationTopic, []byte{1, 2})

	clone := rec.Clone()
	clone.Images[ObservationTopic][0][0] = 9
	clone.Selected[0] = "x"
	if rec.Images[ObservationTopic][0][0] != 1 || rec.Selected[0] != ObservationTopic {
		t.Fatalf("clone shares state with original")
	}
	if clone.UploadSlot(ObservationTopic) != 1 {
		t.Fatalf("clone lost upload slot")
	}

	rec.Reset()
	if rec.CAR != "" || len(rec.Selected) != 0 || len(rec.Notes) != 0 || len(rec.Images) != 0 {
		t.Fatalf("reset left state behind: %+v", rec)
	}
	if rec.UploadSlot(ObservationTopic) != 0 {
		t.Fatalf("reset kept upload slots")
	}
	if rec.DeselectPolicy() != ClearAll {
		t.Fatalf("reset changed the deselect policy")
	}
}

func TestTopics_CatalogIsClosed(t *testing.T) {
	topics := Topics()
	if len(topics) != 18 {
		t.Fatalf("catalog has %d topics", len(topics))
	}
	topics[0] = "mutated"
	if Topics()[0] == "mutated" {
		t.Fatalf("Topics exposes internal storage")
	}
	if TopicPosition(ObservationTopic) != 17 {
		t.Fatalf("observation position %d", TopicPosition(ObservationTopic))
	}
	if TopicPosition("x") != -1 {
		t.Fatalf("unknown topic position should be -1")
	}
}

func mustToggle(t *testing.T, rec *Record, topic string, selected bool) {
	t.Helper()
	if err := rec.ToggleTopic(topic, selected); err != nil {
		t.Fatalf("toggle %q: %v", topic, err)
	}
}
