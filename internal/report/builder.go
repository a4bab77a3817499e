package report

import (
	"bytes"
	"fmt"

	"github.com/lvillar/gofpdf"

	"github.com/fieldproof/fieldproof/consts"
	"github.com/fieldproof/fieldproof/internal/config"
	"github.com/fieldproof/fieldproof/internal/render"
)

// Builder turns a sequence of rendered page bitmaps into a single paginated
// PDF document. Each bitmap becomes exactly one full-bleed page, in input
// order, with a footer drawn over it in a second pass once the total page
// count is known.
type Builder struct {
	cfg config.ReportConfig
}

// NewBuilder creates a builder with the given report configuration.
func NewBuilder(cfg config.ReportConfig) *Builder {
	return &Builder{cfg: cfg}
}

// BuildDocument assembles the rendered pages into the final PDF.
func (b *Builder) BuildDocument(pages []render.EncodedPage) ([]byte, error) {
	return b.build(pages, true)
}

// build is the compression-parameterized core. Tests disable compression so
// content streams stay greppable.
func (b *Builder) build(pages []render.EncodedPage, compress bool) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to build")
	}

	pdf := gofpdf.NewDocument(
		gofpdf.WithOrientation(gofpdf.OrientationPortrait),
		gofpdf.WithUnit(gofpdf.UnitMillimeter),
		gofpdf.WithPageSize(gofpdf.PageSizeA4),
	)
	pdf.SetCompression(compress)
	// Pages are pre-composed bitmaps; the library must never inject its own
	// page breaks.
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(b.cfg.Brand+" Inspection Report", true)
	pdf.SetCreator(consts.ProjectName, true)

	for i, pg := range pages {
		name := fmt.Sprintf("page-%d", i+1)
		opts := gofpdf.ImageOptions{ImageType: pg.Format, ReadDpi: false}

		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(pg.Data))
		// Width pinned to the physical page, height derived from the bitmap
		// aspect ratio. Captures are A4-proportioned so this fills the page
		// without distortion.
		pdf.ImageOptions(name, 0, 0, b.cfg.PageWidthMM, 0, false, opts, 0, "")
	}

	b.drawFooters(pdf, len(pages))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	return buf.Bytes(), nil
}

// drawFooters overlays the running footer on every page. Runs after all
// pages exist so "Page i of N" can name the final count.
func (b *Builder) drawFooters(pdf *gofpdf.Fpdf, total int) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	for i := 1; i <= total; i++ {
		pdf.SetPage(i)
		pdf.SetXY(0, b.cfg.FooterOffsetMM)
		footer := fmt.Sprintf("%s Inspection Report | Confidential | Page %d of %d",
			b.cfg.Brand, i, total)
		pdf.CellFormat(b.cfg.PageWidthMM, 6, footer, "", 0, "C", false, 0, "")
	}
}
