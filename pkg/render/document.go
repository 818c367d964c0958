package render

import (
	"strconv"

	"github.com/goliatone/go-parecer/pkg/report"
)

const (
	// Title heads every report.
	Title = "Justificativa do Parecer Técnico"
	// SignatureRule is the line drawn above the requester's name.
	SignatureRule = "________________________________________"
)

// Document is the renderer-neutral layout of one report. Every renderer draws
// the same blocks in the same order.
type Document struct {
	Title     string
	Header    []string
	Info      []InfoLine
	Sections  []Section
	Signature Signature
}

// InfoLine is a bold label followed by a regular value.
type InfoLine struct {
	Label string
	Value string
}

// Section is one numbered topic of the report.
type Section struct {
	Number int
	Topic  string
	Body   string
	Images [][]byte
}

// Heading returns the bold section title, e.g. "1. Observação".
func (s Section) Heading() string {
	return strconv.Itoa(s.Number) + ". " + s.Topic
}

// Signature is the right-aligned closing block.
type Signature struct {
	Rule  string
	Name  string
	Place string
}

// Compose maps a record onto the shared layout. Only selected topics become
// sections, numbered in selection order, so orphaned notes and images are left
// out. Compose does not modify rec.
func Compose(rec *report.Record, opts RenderOptions) Document {
	if rec == nil {
		rec = report.New()
	}

	doc := Document{
		Title: Title,
		Header: []string{
			"CAR: " + rec.CAR,
			"SP-NOT: " + rec.SPNotice,
		},
		Info: []InfoLine{
			{Label: "Nome do Imóvel Rural: ", Value: rec.PropertyName},
			{Label: "Nome: ", Value: rec.RequesterName},
			{Label: "CPF/CNPJ: ", Value: report.FormatDocument(rec.RequesterDocument)},
		},
	}

	for i, topic := range rec.Selected {
		doc.Sections = append(doc.Sections, Section{
			Number: i + 1,
			Topic:  topic,
			Body:   rec.Note(topic),
			Images: rec.Images[topic],
		})
	}

	city := rec.City
	if city == "" {
		city = opts.fallbackCity()
	}
	doc.Signature = Signature{
		Rule:  SignatureRule,
		Name:  rec.RequesterName,
		Place: city + ", " + LongDate(opts.Date) + ".",
	}
	return doc
}
