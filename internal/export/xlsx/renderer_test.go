package xlsx

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/oliveraq/internal/export"
)

func TestRenderWritesWorkbook(t *testing.T) {
	doc := export.Document{
		Title: "État de stock",
		Sections: []export.Section{
			{Fields: []export.Field{{Label: "Total", Value: "400"}}},
			{Table: &export.Table{Columns: []string{"ID", "Type"}, Rows: [][]string{{"1", "Olive"}}}},
		},
	}

	var buf bytes.Buffer
	if err := New().Render(&buf, doc); err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	checks := map[string]string{
		"A1": "État de stock",
		"A3": "Total",
		"B3": "400",
		"A5": "ID",
		"B6": "Olive",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue(SheetName, cell)
		if err != nil || got != want {
			t.Fatalf("%s: want %q, got %q (%v)", cell, want, got, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := export.ParseFormat(""); err != nil || f != export.FormatPDF {
		t.Fatalf("blank should default to pdf, got %q %v", f, err)
	}
	if _, err := export.ParseFormat("csv"); err == nil {
		t.Fatal("csv should be rejected")
	}
}
