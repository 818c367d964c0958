// Package backup exports and imports the full report, images included, as a
// single JSON document.
package backup

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/goliatone/go-parecer/pkg/report"
)

// DefaultFileName is the suggested name of an exported backup.
const DefaultFileName = "backup_multi_imagens.json"

// ErrMalformed reports a backup that cannot be turned into a record.
var ErrMalformed = errors.New("backup: malformed backup")

// ImageList is the base64 image list of one topic. Older backups stored a
// single string instead of a list; both shapes decode.
type ImageList []string

// UnmarshalJSON accepts a list of strings, a single string or null.
func (l *ImageList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*l = ImageList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

// Blob is the wire shape of a backup. Field order matches the exported file.
type Blob struct {
	CAR      string               `json:"car"`
	SPNotice string               `json:"sp_not"`
	Property string               `json:"imovel"`
	Name     string               `json:"nome"`
	Document string               `json:"doc"`
	City     string               `json:"cidade"`
	Selected []string             `json:"selecionados"`
	Notes    map[string]string    `json:"textos"`
	Images   map[string]ImageList `json:"imagens_b64"`
}

// FromRecord captures rec as a blob. Topics without images are omitted.
func FromRecord(rec *report.Record) Blob {
	blob := Blob{
		CAR:      rec.CAR,
		SPNotice: rec.SPNotice,
		Property: rec.PropertyName,
		Name:     rec.RequesterName,
		Document: rec.RequesterDocument,
		City:     rec.City,
		Selected: append([]string{}, rec.Selected...),
		Notes:    make(map[string]string, len(rec.Notes)),
		Images:   make(map[string]ImageList, len(rec.Images)),
	}
	for topic, note := range rec.Notes {
		blob.Notes[topic] = note
	}
	for topic, list := range rec.Images {
		if len(list) == 0 {
			continue
		}
		encoded := make(ImageList, 0, len(list))
		for _, data := range list {
			encoded = append(encoded, base64.StdEncoding.EncodeToString(data))
		}
		blob.Images[topic] = encoded
	}
	return blob
}

// Record builds a new record from the blob. Unknown topics in the selection
// and undecodable images are rejected; the first occurrence of a duplicated
// selection wins.
func (b Blob) Record() (*report.Record, error) {
	rec := report.New()
	rec.CAR = b.CAR
	rec.SPNotice = b.SPNotice
	rec.PropertyName = b.Property
	rec.RequesterName = b.Name
	rec.RequesterDocument = report.Digits(b.Document)
	rec.City = b.City

	for _, topic := range b.Selected {
		if err := rec.ToggleTopic(topic, true); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	for topic, note := range b.Notes {
		rec.SetNote(topic, note)
	}
	for topic, list := range b.Images {
		for idx, encoded := range list {
			data, err := base64.StdEncoding.DecodeString(encoded)
			if err != nil {
				return nil, fmt.Errorf("%w: image %d of %q: %v", ErrMalformed, idx, topic, err)
			}
			rec.AddImage(topic, data)
		}
	}
	return rec, nil
}

// Export serialises rec with a four-space indent.
func Export(rec *report.Record) ([]byte, error) {
	if rec == nil {
		return nil, errors.New("backup: record is nil")
	}
	data, err := json.MarshalIndent(FromRecord(rec), "", "    ")
	if err != nil {
		return nil, fmt.Errorf("backup: encode: %w", err)
	}
	return data, nil
}

// Import decodes data into a fresh record. On error the caller's existing
// record is never touched because nothing is returned.
func Import(data []byte) (*report.Record, error) {
	var blob Blob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return blob.Record()
}

// Write exports rec to w.
func Write(w io.Writer, rec *report.Record) error {
	data, err := Export(rec)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("backup: write: %w", err)
	}
	return nil
}

// Read imports a backup from r.
func Read(r io.Reader) (*report.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("backup: read: %w", err)
	}
	return Import(data)
}
