// Package export describes printable documents independently of their file format.
package export

import (
	"fmt"
	"io"
)

// Format names an output file type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat reads a format query parameter. Blank means PDF.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", value)
}

// Field is a labelled value line.
type Field struct {
	Label string
	Value string
}

// Table is a grid with a header row. Every row has len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Section is a headed block. Any of its parts may be empty.
type Section struct {
	Heading    string
	Paragraphs []string
	Fields     []Field
	Table      *Table
}

// Document is what a Renderer turns into a file.
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
	Footer   []string
}

// Renderer writes a document in one format.
type Renderer interface {
	Format() Format
	ContentType() string
	Render(w io.Writer, doc Document) error
}
