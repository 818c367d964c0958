package report

import (
	"fmt"
	"sort"
	"strings"
)

// Field names a scalar header field. The values double as the JSON keys used
// by the backup blob and the draft file.
type Field string

const (
	FieldCAR       Field = "car"
	FieldSPNotice  Field = "sp_not"
	FieldProperty  Field = "imovel"
	FieldRequester Field = "nome"
	FieldDocument  Field = "doc"
	FieldCity      Field = "cidade"
)

// Fields returns the header fields in form order.
func Fields() []Field {
	return []Field{FieldCAR, FieldSPNotice, FieldProperty, FieldRequester, FieldDocument, FieldCity}
}

// ParseField resolves a field name, ignoring surrounding whitespace and case.
func ParseField(name string) (Field, error) {
	candidate := Field(strings.ToLower(strings.TrimSpace(name)))
	for _, field := range Fields() {
		if field == candidate {
			return field, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Label returns the form label shown next to the field.
func (f Field) Label() string {
	switch f {
	case FieldCAR:
		return "CAR"
	case FieldSPNotice:
		return "SP-NOT (Número)"
	case FieldProperty:
		return "Nome do Imóvel"
	case FieldRequester:
		return "Nome do Requerente"
	case FieldDocument:
		return "CPF/CNPJ"
	case FieldCity:
		return "Cidade"
	default:
		return string(f)
	}
}

// DeselectPolicy decides what happens to a topic's content when the topic is
// deselected.
type DeselectPolicy int

const (
	// KeepContent leaves notes and images in place so re-selecting the topic
	// restores them. Deselected content is orphaned and not rendered.
	KeepContent DeselectPolicy = iota
	// ClearAll drops the topic's notes and images on deselect.
	ClearAll
)

// ParseDeselectPolicy maps "keep" and "clear" to a policy.
func ParseDeselectPolicy(raw string) (DeselectPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "keep":
		return KeepContent, nil
	case "clear", "clear_all":
		return ClearAll, nil
	default:
		return KeepContent, fmt.Errorf("report: unknown deselect policy %q", raw)
	}
}

// Record is the mutable form state of one report.
type Record struct {
	CAR               string
	SPNotice          string
	PropertyName      string
	RequesterName     string
	RequesterDocument string
	City              string

	// Selected holds topics in first-selection order, without duplicates.
	Selected []string
	Notes    map[string]string
	Images   map[string][][]byte

	policy DeselectPolicy
	slots  map[string]int
}

// New returns an empty record using the KeepContent deselect policy.
func New() *Record {
	return &Record{
		Notes:  make(map[string]string),
		Images: make(map[string][][]byte),
		slots:  make(map[string]int),
	}
}

// SetDeselectPolicy switches the behaviour of ToggleTopic(topic, false).
func (r *Record) SetDeselectPolicy(policy DeselectPolicy) {
	r.policy = policy
}

// DeselectPolicy reports the active deselect policy.
func (r *Record) DeselectPolicy() DeselectPolicy {
	return r.policy
}

// SetField overwrites a header field. Non-digit characters are dropped from
// the requester document before storage.
func (r *Record) SetField(name Field, value string) error {
	switch name {
	case FieldCAR:
		r.CAR = value
	case FieldSPNotice:
		r.SPNotice = value
	case FieldProperty:
		r.PropertyName = value
	case FieldRequester:
		r.RequesterName = value
	case FieldDocument:
		r.RequesterDocument = Digits(value)
	case FieldCity:
		r.City = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, string(name))
	}
	return nil
}

// Field returns the stored value of a header field, or "" for unknown names.
func (r *Record) Field(name Field) string {
	switch name {
	case FieldCAR:
		return r.CAR
	case FieldSPNotice:
		return r.SPNotice
	case FieldProperty:
		return r.PropertyName
	case FieldRequester:
		return r.RequesterName
	case FieldDocument:
		return r.RequesterDocument
	case FieldCity:
		return r.City
	default:
		return ""
	}
}

// ClearField empties a single header field.
func (r *Record) ClearField(name Field) error {
	return r.SetField(name, "")
}

// IsSelected reports whether topic is part of the current selection.
func (r *Record) IsSelected(topic string) bool {
	return r.selectedIndex(topic) >= 0
}

// ToggleTopic selects or deselects topic. Selecting appends it after the
// topics already selected; selecting it again is a no-op.
func (r *Record) ToggleTopic(topic string, selected bool) error {
	if !IsTopic(topic) {
		return fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}
	idx := r.selectedIndex(topic)
	if selected {
		if idx < 0 {
			r.Selected = append(r.Selected, topic)
		}
		return nil
	}
	if idx >= 0 {
		r.Selected = append(r.Selected[:idx:idx], r.Selected[idx+1:]...)
	}
	if r.policy == ClearAll {
		delete(r.Notes, topic)
		delete(r.Images, topic)
	}
	return nil
}

// SetNote stores text for topic. Empty text deletes the note, so an absent
// note and an empty one are the same thing.
func (r *Record) SetNote(topic, text string) {
	r.ensureMaps()
	if text == "" {
		delete(r.Notes, topic)
		return
	}
	r.Notes[topic] = text
}

// Note returns the note stored for topic, or "".
func (r *Record) Note(topic string) string {
	return r.Notes[topic]
}

// ClearNote removes only the note of topic; its images are kept.
func (r *Record) ClearNote(topic string) {
	delete(r.Notes, topic)
}

// AddImage appends blob to the image list of topic and advances the topic's
// upload slot.
func (r *Record) AddImage(topic string, blob []byte) {
	r.ensureMaps()
	r.Images[topic] = append(r.Images[topic], blob)
	r.slots[topic]++
}

// RemoveImage drops the image at index. The topic's list is deleted when it
// becomes empty. Out-of-range indexes are ignored.
func (r *Record) RemoveImage(topic string, index int) bool {
	list, ok := r.Images[topic]
	if !ok || index < 0 || index >= len(list) {
		return false
	}
	list = append(list[:index:index], list[index+1:]...)
	if len(list) == 0 {
		delete(r.Images, topic)
		return true
	}
	r.Images[topic] = list
	return true
}

// UploadSlot returns how many uploads topic has received in this session.
// Upload widgets key themselves on it so a fresh, empty slot follows every
// accepted upload.
func (r *Record) UploadSlot(topic string) int {
	return r.slots[topic]
}

// UploadKey is the widget identifier of the current upload slot of topic.
func (r *Record) UploadKey(topic string) string {
	return fmt.Sprintf("upload_%s_%d", topic, r.UploadSlot(topic))
}

// Orphans lists topics that still carry notes or images but are no longer
// selected, in catalog order.
func (r *Record) Orphans() []string {
	seen := make(map[string]struct{})
	for topic := range r.Notes {
		if !r.IsSelected(topic) {
			seen[topic] = struct{}{}
		}
	}
	for topic := range r.Images {
		if !r.IsSelected(topic) {
			seen[topic] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for topic := range seen {
		out = append(out, topic)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := TopicPosition(out[i]), TopicPosition(out[j])
		if pi != pj {
			return pi < pj
		}
		return out[i] < out[j]
	})
	return out
}

// Validate reports the required fields that are still blank.
func (r *Record) Validate(required ...Field) error {
	var missing []Field
	for _, field := range required {
		if strings.TrimSpace(r.Field(field)) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Missing: missing}
}

// Reset returns the record to its empty state. The deselect policy is kept.
func (r *Record) Reset() {
	policy := r.policy
	*r = *New()
	r.policy = policy
}

// Clone returns a deep copy of the record, image bytes included.
func (r *Record) Clone() *Record {
	out := New()
	out.CAR = r.CAR
	out.SPNotice = r.SPNotice
	out.PropertyName = r.PropertyName
	out.RequesterName = r.RequesterName
	out.RequesterDocument = r.RequesterDocument
	out.City = r.City
	out.policy = r.policy
	if len(r.Selected) > 0 {
		out.Selected = append([]string(nil), r.Selected...)
	}
	for topic, note := range r.Notes {
		out.Notes[topic] = note
	}
	for topic, list := range r.Images {
		copied := make([][]byte, len(list))
		for i, blob := range list {
			copied[i] = append([]byte(nil), blob...)
		}
		out.Images[topic] = copied
	}
	for topic, slot := range r.slots {
		out.slots[topic] = slot
	}
	return out
}

func (r *Record) selectedIndex(topic string) int {
	for i, candidate := range r.Selected {
		if candidate == topic {
			return i
		}
	}
	return -1
}

func (r *Record) ensureMaps() {
	if r.Notes == nil {
		r.Notes = make(map[string]string)
	}
	if r.Images == nil {
		r.Images = make(map[string][][]byte)
	}
	if r.slots == nil {
		r.slots = make(map[string]int)
	}
}
