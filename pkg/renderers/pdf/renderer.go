// Package pdf renders the report as a fixed-layout A4 document using the PDF
// core fonts.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/goliatone/go-parecer/pkg/imaging"
	"github.com/goliatone/go-parecer/pkg/render"
)

const (
	pageWidth    = 210.0
	marginLeft   = 30.0
	marginTop    = 30.0
	marginRight  = 20.0
	imageWidth   = 120.0
	imageX       = (pageWidth - imageWidth) / 2
	pageBreakY   = 220.0
	bodyIndent   = "      "
	bodyFontSize = 12
)

// Renderer implements render.Renderer for PDF output.
type Renderer struct {
	logger      *zap.Logger
	fontFamily  string
	compression bool
}

// New constructs a PDF renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{
		logger:      zap.NewNop(),
		fontFamily:  "Arial",
		compression: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// WithCompression toggles stream compression. Tests disable it to inspect
// the page content.
func WithCompression(enabled bool) Option {
	return func(r *Renderer) {
		r.compression = enabled
	}
}

func (r *Renderer) Name() string        { return "pdf" }
func (r *Renderer) ContentType() string { return "application/pdf" }
func (r *Renderer) Extension() string   { return "pdf" }

// Render draws doc onto A4 pages. Images that cannot be prepared are logged
// and skipped; any other failure abandons the whole document.
func (r *Renderer) Render(ctx context.Context, doc render.Document, opts render.RenderOptions) (out []byte, err error) {
	if ctx == nil {
		return nil, fmt.Errorf("pdf: context is required: %w", render.ErrNotReady)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = fmt.Errorf("pdf: %v: %w", rec, render.ErrNotReady)
		}
	}()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compression)
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetTitle(doc.Title, true)
	pdf.SetHeaderFunc(func() {
		pdf.SetFont(r.fontFamily, "", 10)
		pdf.SetXY(-20, 20)
		pdf.CellFormat(0, 0, strconv.Itoa(pdf.PageNo()), "", 0, "R", false, 0, "")
		pdf.Ln(20)
	})
	pdf.AddPage()

	pdf.SetFont(r.fontFamily, "B", 14)
	pdf.CellFormat(0, 8, EncodeText(doc.Title), "", 1, "C", false, 0, "")

	pdf.SetFont(r.fontFamily, "B", bodyFontSize)
	for _, line := range doc.Header {
		pdf.CellFormat(0, 6, EncodeText(line), "", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	for i, info := range doc.Info {
		pdf.SetFont(r.fontFamily, "B", bodyFontSize)
		pdf.Write(6, EncodeText(info.Label))
		pdf.SetFont(r.fontFamily, "", bodyFontSize)
		pdf.Write(6, EncodeText(info.Value))
		if i == len(doc.Info)-1 {
			pdf.Ln(10)
		} else {
			pdf.Ln(6)
		}
	}

	for _, section := range doc.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pdf.SetFont(r.fontFamily, "B", bodyFontSize)
		pdf.CellFormat(0, 8, EncodeText(section.Heading()), "", 1, "L", false, 0, "")
		pdf.SetFont(r.fontFamily, "", bodyFontSize)
		pdf.MultiCell(0, 7, bodyIndent+EncodeText(section.Body), "", "J", false)

		if len(section.Images) > 0 {
			pdf.Ln(2)
			for idx, blob := range section.Images {
				r.placeImage(pdf, section, idx, blob, opts.Images)
			}
			pdf.Ln(2)
		}
		pdf.Ln(4)
	}

	pdf.Ln(10)
	pdf.CellFormat(0, 6, EncodeText(doc.Signature.Rule), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, EncodeText(doc.Signature.Name), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, EncodeText(doc.Signature.Place), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: output: %v: %w", err, render.ErrNotReady)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) placeImage(pdf *fpdf.Fpdf, section render.Section, idx int, blob []byte, opts imaging.Options) {
	img, err := imaging.Prepare(blob, opts)
	if err != nil {
		r.logger.Warn("skipping image",
			zap.String("renderer", r.Name()),
			zap.String("topic", section.Topic),
			zap.Int("index", idx),
			zap.Error(err),
		)
		return
	}

	err = imaging.WithTempFile(img, func(path string) error {
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
		}
		pdf.ImageOptions(path, imageX, -1, imageWidth, 0, true, fpdf.ImageOptions{ImageType: "JPG"}, 0, "")
		return nil
	})
	if err != nil {
		r.logger.Warn("skipping image",
			zap.String("renderer", r.Name()),
			zap.String("topic", section.Topic),
			zap.Int("index", idx),
			zap.Error(err),
		)
		return
	}
	pdf.Ln(5)
}
