// Package pdf renders export documents as A4 portrait PDF files.
package pdf

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/mamadbah2/oliveraq/internal/export"
)

const (
	margin     = 15.0
	pageWidth  = 210.0
	bodyWidth  = pageWidth - 2*margin
	lineHeight = 7.0
	fontFamily = "Helvetica"
)

// Renderer implements export.Renderer with fpdf core fonts.
type Renderer struct {
	Author string
}

// New returns a renderer that stamps author in the file metadata.
func New(author string) *Renderer {
	return &Renderer{Author: author}
}

func (r *Renderer) Format() export.Format { return export.FormatPDF }

func (r *Renderer) ContentType() string { return "application/pdf" }

// Render lays out doc on as many pages as needed and writes the file to w.
func (r *Renderer) Render(w io.Writer, doc export.Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(doc.Title, true)
	if r.Author != "" {
		pdf.SetAuthor(r.Author, true)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(bodyWidth, 12, tr(doc.Title), "", 1, "C", false, 0, "")
	if doc.Subtitle != "" {
		pdf.SetFont(fontFamily, "", 11)
		pdf.CellFormat(bodyWidth, lineHeight, tr(doc.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	for _, section := range doc.Sections {
		writeSection(pdf, tr, section)
	}

	if len(doc.Footer) > 0 {
		pdf.Ln(10)
		pdf.SetFont(fontFamily, "I", 11)
		for _, line := range doc.Footer {
			pdf.CellFormat(bodyWidth, lineHeight, tr(line), "", 1, "R", false, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf %q: %w", doc.Title, err)
	}
	return nil
}

func writeSection(pdf *fpdf.Fpdf, tr func(string) string, section export.Section) {
	if section.Heading != "" {
		pdf.SetFont(fontFamily, "B", 13)
		pdf.CellFormat(bodyWidth, 9, tr(section.Heading), "B", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	pdf.SetFont(fontFamily, "", 11)
	for _, paragraph := range section.Paragraphs {
		pdf.MultiCell(bodyWidth, lineHeight, tr(paragraph), "", "J", false)
		pdf.Ln(2)
	}

	labelWidth := bodyWidth * 0.4
	for _, field := range section.Fields {
		pdf.SetFont(fontFamily, "B", 11)
		pdf.CellFormat(labelWidth, lineHeight, tr(field.Label), "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 11)
		pdf.CellFormat(bodyWidth-labelWidth, lineHeight, tr(field.Value), "", 1, "L", false, 0, "")
	}

	if section.Table != nil && len(section.Table.Columns) > 0 {
		writeTable(pdf, tr, *section.Table)
	}
	pdf.Ln(5)
}

func writeTable(pdf *fpdf.Fpdf, tr func(string) string, table export.Table) {
	width := bodyWidth / float64(len(table.Columns))
	size := 10.0
	if len(table.Columns) > 6 {
		size = 8
	}

	pdf.SetFont(fontFamily, "B", size)
	pdf.SetFillColor(220, 230, 200)
	for _, col := range table.Columns {
		pdf.CellFormat(width, lineHeight, tr(col), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", size)
	for _, row := range table.Rows {
		for i := range table.Columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(width, lineHeight, tr(cell), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
