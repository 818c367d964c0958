// Package draft persists the header fields, selection and notes of a report
// to a single flat JSON file. Images are not part of a draft.
package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-parecer/pkg/report"
)

// DefaultPath is the draft file used when none is configured.
const DefaultPath = "parecer_draft.json"

// NotePrefix prefixes the key of every note in the draft file.
const NotePrefix = "texto_"

const selectedKey = "selecionados"

// ErrMalformed reports a draft file that cannot be turned into a record.
var ErrMalformed = errors.New("draft: malformed draft")

// Store reads and writes one draft file.
type Store struct {
	path string
}

// New binds a store to path, falling back to DefaultPath.
func New(path string) *Store {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the file the store is bound to.
func (s *Store) Path() string {
	return s.path
}

// Save overwrites the draft file with rec. Notes of deselected topics are
// saved too so they survive a later re-selection.
func (s *Store) Save(rec *report.Record) error {
	if rec == nil {
		return errors.New("draft: record is nil")
	}
	data, err := Encode(rec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("draft: write %s: %w", s.path, err)
	}
	return nil
}

// Load reads the draft file into a new record. A missing file yields an
// empty record.
func (s *Store) Load() (*report.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return report.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("draft: read %s: %w", s.path, err)
	}
	return Decode(data)
}

// Encode renders rec in the flat draft layout.
func Encode(rec *report.Record) ([]byte, error) {
	flat := make(map[string]any, len(report.Fields())+1+len(rec.Notes))
	for _, field := range report.Fields() {
		flat[string(field)] = rec.Field(field)
	}
	flat[selectedKey] = append([]string{}, rec.Selected...)
	for topic, note := range rec.Notes {
		flat[NotePrefix+topic] = note
	}
	data, err := json.MarshalIndent(flat, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("draft: encode: %w", err)
	}
	return data, nil
}

// Decode parses the flat draft layout. Keys it does not know are ignored.
func Decode(data []byte) (*report.Record, error) {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	rec := report.New()
	for _, field := range report.Fields() {
		raw, ok := flat[string(field)]
		if !ok {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("%w: field %q: %v", ErrMalformed, field, err)
		}
		if err := rec.SetField(field, value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	if raw, ok := flat[selectedKey]; ok {
		var selected []string
		if err := json.Unmarshal(raw, &selected); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, selectedKey, err)
		}
		for _, topic := range selected {
			if err := rec.ToggleTopic(topic, true); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
		}
	}

	for key, raw := range flat {
		topic, ok := strings.CutPrefix(key, NotePrefix)
		if !ok || topic == "" {
			continue
		}
		var note string
		if err := json.Unmarshal(raw, &note); err != nil {
			return nil, fmt.Errorf("%w: note %q: %v", ErrMalformed, topic, err)
		}
		rec.SetNote(topic, note)
	}
	return rec, nil
}
