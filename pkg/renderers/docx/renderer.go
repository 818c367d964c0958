// Package docx renders the report as a WordprocessingML flow document.
package docx

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/common/units"
	wordml "github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"
	"github.com/gomutex/godocx/wml/stypes"
	"go.uber.org/zap"

	"github.com/goliatone/go-parecer/pkg/imaging"
	"github.com/goliatone/go-parecer/pkg/render"
)

const (
	imageWidthEMU   = 5040000 // 14 cm
	emuPerInch      = 914400
	firstLineIndent = 709 // 1.25 cm in twips
	bodyHalfPoints  = 24
	titlePoints     = 14
	defaultFontFace = "Arial"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	corePropsPart   = "docProps/core.xml"
)

// A4 portrait with 3 cm top/left and 2 cm bottom/right margins, in twips.
const (
	pageWidth    = 11906
	pageHeight   = 16838
	marginTop    = 1701
	marginLeft   = 1701
	marginBottom = 1134
	marginRight  = 1134
)

// Renderer implements render.Renderer for DOCX output.
type Renderer struct {
	logger     *zap.Logger
	fontFamily string
}

// New constructs a DOCX renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{
		logger:     zap.NewNop(),
		fontFamily: defaultFontFace,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string        { return "docx" }
func (r *Renderer) ContentType() string { return contentTypeDOCX }
func (r *Renderer) Extension() string   { return "docx" }

// Render writes doc as a zipped WordprocessingML package.
func (r *Renderer) Render(ctx context.Context, doc render.Document, opts render.RenderOptions) (out []byte, err error) {
	if ctx == nil {
		return nil, fmt.Errorf("docx: context is required: %w", render.ErrNotReady)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = fmt.Errorf("docx: %v: %w", rec, render.ErrNotReady)
		}
	}()

	rd, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("docx: open base document: %v: %w", err, render.ErrNotReady)
	}
	r.setupPage(rd)

	title := rd.AddEmptyParagraph()
	title.Justification(stypes.JustificationCenter)
	title.AddText(doc.Title).Bold(true).Size(titlePoints)
	for _, line := range doc.Header {
		p := rd.AddEmptyParagraph()
		p.Justification(stypes.JustificationCenter)
		p.AddText(line).Bold(true)
	}
	rd.AddEmptyParagraph()

	for _, info := range doc.Info {
		p := rd.AddEmptyParagraph()
		p.AddText(info.Label).Bold(true)
		p.AddText(info.Value)
	}
	rd.AddEmptyParagraph()

	for _, section := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rd.AddEmptyParagraph().AddText(section.Heading()).Bold(true)
		r.bodyParagraph(rd, section.Body)

		for idx, blob := range section.Images {
			if err := r.picture(rd, blob, opts.Images); err != nil {
				r.logger.Warn("skipping image",
					zap.String("renderer", r.Name()),
					zap.String("topic", section.Topic),
					zap.Int("index", idx),
					zap.Error(err),
				)
			}
		}
	}

	spacer := rd.AddEmptyParagraph().AddRun()
	spacer.AddBreak(nil)
	spacer.AddBreak(nil)
	for _, line := range []string{doc.Signature.Rule, doc.Signature.Name, doc.Signature.Place} {
		p := rd.AddEmptyParagraph()
		p.Justification(stypes.JustificationRight)
		p.AddText(line)
	}

	rd.FileMap.Store(corePropsPart, coreProperties(doc.Title, opts.Date))

	var buf bytes.Buffer
	if err := rd.Write(&buf); err != nil {
		return nil, fmt.Errorf("docx: write package: %v: %w", err, render.ErrNotReady)
	}
	return buf.Bytes(), nil
}

// setupPage sets A4 geometry and replaces the theme fonts of the base
// document defaults with the configured family.
func (r *Renderer) setupPage(rd *wordml.RootDoc) {
	width, height := uint64(pageWidth), uint64(pageHeight)
	top, left, bottom, right := marginTop, marginLeft, marginBottom, marginRight
	sect := rd.Document.Body.SectPr
	if sect == nil {
		sect = ctypes.NewSectionProper()
		rd.Document.Body.SectPr = sect
	}
	sect.PageSize = &ctypes.PageSize{Width: &width, Height: &height}
	if sect.PageMargin == nil {
		sect.PageMargin = &ctypes.PageMargin{}
	}
	sect.PageMargin.Top = &top
	sect.PageMargin.Left = &left
	sect.PageMargin.Bottom = &bottom
	sect.PageMargin.Right = &right

	styles := rd.DocStyles
	if styles.DocDefaults == nil {
		styles.DocDefaults = &ctypes.DocDefault{}
	}
	if styles.DocDefaults.RunProp == nil {
		styles.DocDefaults.RunProp = &ctypes.RunPropDefault{}
	}
	if styles.DocDefaults.RunProp.RunProp == nil {
		styles.DocDefaults.RunProp.RunProp = &ctypes.RunProperty{}
	}
	defaults := styles.DocDefaults.RunProp.RunProp
	defaults.Fonts = &ctypes.RunFonts{
		Ascii:    r.fontFamily,
		HAnsi:    r.fontFamily,
		EastAsia: r.fontFamily,
		CS:       r.fontFamily,
	}
	defaults.Size = ctypes.NewFontSize(bodyHalfPoints)
	defaults.SizeCs = ctypes.NewFontSizeCS(bodyHalfPoints)
}

// bodyParagraph writes a justified, first-line indented paragraph where each
// newline in text becomes a line break inside the same run.
func (r *Renderer) bodyParagraph(rd *wordml.RootDoc, text string) {
	p := rd.AddEmptyParagraph()
	p.Justification(stypes.JustificationBoth)
	indent := uint64(firstLineIndent)
	ct := p.GetCT()
	if ct.Property == nil {
		ct.Property = ctypes.DefaultParaProperty()
	}
	ct.Property.Indent = &ctypes.Indent{FirstLine: &indent}

	lines := strings.Split(text, "\n")
	run := p.AddText(lines[0])
	for _, line := range lines[1:] {
		run.AddBreak(nil)
		run = p.AddText(line)
	}
}

// picture embeds blob 14 cm wide in its own centered paragraph, framed by
// empty paragraphs.
func (r *Renderer) picture(rd *wordml.RootDoc, blob []byte, opts imaging.Options) error {
	img, err := imaging.Prepare(blob, opts)
	if err != nil {
		return err
	}
	return imaging.WithTempFile(img, func(path string) error {
		rd.AddEmptyParagraph()
		p := rd.AddEmptyParagraph()
		p.Justification(stypes.JustificationCenter)
		height := int64(float64(imageWidthEMU) * img.AspectRatio())
		if _, err := p.AddPicture(path, inches(imageWidthEMU), inches(height)); err != nil {
			return fmt.Errorf("docx: embed picture: %w", err)
		}
		rd.AddEmptyParagraph()
		return nil
	})
}

// inches converts EMU to the inch unit godocx expects, offset by half an EMU
// so the truncating conversion back lands on emu exactly.
func inches(emu int64) units.Inch {
	return units.Inch((float64(emu) + 0.5) / emuPerInch)
}

// coreProperties replaces the base document metadata with the report title
// and issue date.
func coreProperties(title string, date time.Time) []byte {
	if date.IsZero() {
		date = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	stamp := date.UTC().Format(time.RFC3339)

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"><dc:title>`)
	_ = xml.EscapeText(&buf, []byte(title))
	buf.WriteString(`</dc:title><dc:creator>parecer</dc:creator><dcterms:created xsi:type="dcterms:W3CDTF">`)
	buf.WriteString(stamp)
	buf.WriteString(`</dcterms:created><dcterms:modified xsi:type="dcterms:W3CDTF">`)
	buf.WriteString(stamp)
	buf.WriteString(`</dcterms:modified></cp:coreProperties>`)
	return buf.Bytes()
}
