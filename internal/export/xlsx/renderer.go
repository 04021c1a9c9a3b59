// Package xlsx renders export documents as a single-sheet workbook.
package xlsx

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/oliveraq/internal/export"
)

// SheetName is the name of the only worksheet.
const SheetName = "Rapport"

// Renderer implements export.Renderer with excelize.
type Renderer struct{}

// New returns a workbook renderer.
func New() *Renderer { return &Renderer{} }

func (r *Renderer) Format() export.Format { return export.FormatXLSX }

func (r *Renderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render writes the title, then each section top to bottom, one line per field or table row.
func (r *Renderer) Render(w io.Writer, doc export.Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6C8"}},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})

	row := 1
	setStyled(f, 1, row, doc.Title, titleStyle)
	row++
	if doc.Subtitle != "" {
		setCell(f, 1, row, doc.Subtitle)
		row++
	}
	row++

	maxCols := 2
	for _, section := range doc.Sections {
		if section.Heading != "" {
			setStyled(f, 1, row, section.Heading, boldStyle)
			row++
		}
		for _, paragraph := range section.Paragraphs {
			setCell(f, 1, row, paragraph)
			row++
		}
		for _, field := range section.Fields {
			setStyled(f, 1, row, field.Label, boldStyle)
			setCell(f, 2, row, field.Value)
			row++
		}
		if table := section.Table; table != nil {
			if len(table.Columns) > maxCols {
				maxCols = len(table.Columns)
			}
			for i, col := range table.Columns {
				setStyled(f, i+1, row, col, headerStyle)
			}
			row++
			for _, values := range table.Rows {
				for i, value := range values {
					setCell(f, i+1, row, value)
				}
				row++
			}
		}
		row++
	}

	for _, line := range doc.Footer {
		setCell(f, 1, row, line)
		row++
	}

	for i := 1; i <= maxCols; i++ {
		col, _ := excelize.ColumnNumberToName(i)
		_ = f.SetColWidth(SheetName, col, col, 22)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook %q: %w", doc.Title, err)
	}
	return nil
}

// setCell stores numbers as numbers so the sheet can sum them.
func setCell(f *excelize.File, col, row int, value string) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	if number, err := strconv.ParseFloat(value, 64); err == nil {
		_ = f.SetCellValue(SheetName, cell, number)
		return
	}
	_ = f.SetCellValue(SheetName, cell, value)
}

func setStyled(f *excelize.File, col, row int, value string, style int) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	_ = f.SetCellValue(SheetName, cell, value)
	_ = f.SetCellStyle(SheetName, cell, cell, style)
}
