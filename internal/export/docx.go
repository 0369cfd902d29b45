package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/common/units"
	"github.com/gomutex/godocx/docx"

	"github.com/pfrederiksen/parkrun-stats/internal/event"
)

const (
	docxChartWidth  = units.Inch(6)
	docxChartHeight = units.Inch(3)
)

type docxDocument struct {
	doc *docx.RootDoc
	// dir holds chart images until the document is written.
	dir string
}

// WriteDOCX writes the report as a Word document with the same sections as
// WritePDF.
func WriteDOCX(w io.Writer, summary *event.Summary) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}

	dir, err := os.MkdirTemp("", "parkrun-docx-*")
	if err != nil {
		return fmt.Errorf("creating chart directory: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := renderReport(&docxDocument{doc: doc, dir: dir}, summary); err != nil {
		return err
	}
	// The document package saves to a path, so the file is staged next to
	// the charts and streamed from there.
	staged := filepath.Join(dir, "report.docx")
	if err := doc.SaveTo(staged); err != nil {
		return fmt.Errorf("writing docx: %w", err)
	}
	f, err := os.Open(staged)
	if err != nil {
		return fmt.Errorf("writing docx: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("writing docx: %w", err)
	}
	return nil
}

func (d *docxDocument) title(text string) error {
	_, err := d.doc.AddHeading(text, 0)
	return err
}

func (d *docxDocument) section(text string) error {
	_, err := d.doc.AddHeading(text, 1)
	return err
}

func (d *docxDocument) bullets(lines []string) error {
	for _, line := range lines {
		d.doc.AddParagraph(line).Style("List Bullet")
	}
	return nil
}

func (d *docxDocument) paragraph(text string) error {
	d.doc.AddParagraph(text)
	return nil
}

func (d *docxDocument) image(name string, png []byte) error {
	path := filepath.Join(d.dir, name+".png")
	if err := os.WriteFile(path, png, 0o600); err != nil {
		return fmt.Errorf("staging %s: %w", name, err)
	}
	if _, err := d.doc.AddPicture(path, docxChartWidth, docxChartHeight); err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}
	return nil
}

func (d *docxDocument) table(caption string, header []string, rows [][]string) error {
	d.doc.AddParagraph("").AddText(caption).Bold(true)

	tbl := d.doc.AddTable()
	tbl.Style("LightList-Accent1")

	head := tbl.AddRow()
	for _, h := range header {
		head.AddCell().AddParagraph(h)
	}
	for _, row := range rows {
		r := tbl.AddRow()
		for _, c := range row {
			r.AddCell().AddParagraph(c)
		}
	}
	return nil
}
