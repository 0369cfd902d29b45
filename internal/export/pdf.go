package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-fonts/liberation/liberationsansbold"
	"github.com/go-fonts/liberation/liberationsansregular"
	"github.com/go-pdf/fpdf"

	"github.com/pfrederiksen/parkrun-stats/internal/event"
)

const (
	fontFamily = "LiberationSans"
	lineHeight = 6.0
)

type pdfDocument struct {
	pdf *fpdf.Fpdf
	w   float64
}

// WritePDF writes the full report: attendance, charts, course records,
// ranked winners and the series totals.
func WritePDF(w io.Writer, summary *event.Summary) error {
	return writePDF(w, summary, true)
}

func writePDF(w io.Writer, summary *event.Summary, compress bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	// Runner names come from every parkrun country, so text needs a
	// Unicode font rather than a core cp1252 one.
	pdf.AddUTF8FontFromBytes(fontFamily, "", liberationsansregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", liberationsansbold.TTF)
	pdf.SetTitle(Heading(summary), true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	d := &pdfDocument{pdf: pdf, w: pageW - left - right}

	if err := renderReport(d, summary); err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func (d *pdfDocument) title(text string) error {
	d.pdf.SetFont(fontFamily, "B", 20)
	d.pdf.MultiCell(d.w, 10, text, "", "C", false)
	d.pdf.Ln(4)
	return d.pdf.Error()
}

func (d *pdfDocument) section(text string) error {
	d.pdf.Ln(2)
	d.pdf.SetFont(fontFamily, "B", 15)
	d.pdf.CellFormat(d.w, 9, text, "B", 1, "L", false, 0, "")
	d.pdf.Ln(2)
	return d.pdf.Error()
}

func (d *pdfDocument) paragraph(text string) error {
	d.pdf.SetFont(fontFamily, "", 11)
	d.pdf.MultiCell(d.w, lineHeight, text, "", "L", false)
	return d.pdf.Error()
}

func (d *pdfDocument) bullets(lines []string) error {
	d.pdf.SetFont(fontFamily, "", 11)
	for _, line := range lines {
		d.pdf.CellFormat(6, lineHeight, "•", "", 0, "R", false, 0, "")
		d.pdf.MultiCell(d.w-6, lineHeight, line, "", "L", false)
	}
	return d.pdf.Error()
}

func (d *pdfDocument) image(name string, png []byte) error {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	// Charts render at 2:1.
	d.pdf.ImageOptions(name, -1, -1, d.w, d.w/2, true, opts, 0, "")
	d.pdf.Ln(2)
	return d.pdf.Error()
}

func (d *pdfDocument) table(caption string, header []string, rows [][]string) error {
	d.pdf.Ln(2)
	d.pdf.SetFont(fontFamily, "B", 12)
	d.pdf.CellFormat(d.w, 8, caption, "", 1, "L", false, 0, "")

	widths := []float64{0.08 * d.w, 0.52 * d.w, 0.25 * d.w, 0.15 * d.w}
	aligns := []string{"C", "L", "C", "C"}

	d.pdf.SetFont(fontFamily, "B", 10)
	d.pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		d.pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)

	d.pdf.SetFont(fontFamily, "", 10)
	for _, row := range rows {
		for j, c := range row {
			d.pdf.CellFormat(widths[j], 7, c, "1", 0, aligns[j], false, 0, "")
		}
		d.pdf.Ln(-1)
	}
	return d.pdf.Error()
}
