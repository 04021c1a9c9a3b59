// Package reporting builds printable documents (work attestation, invoices, monthly stock
// report), writes them to the export directory and publishes the monthly report.
package reporting

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/config"
	"github.com/mamadbah2/oliveraq/internal/domain/models"
	"github.com/mamadbah2/oliveraq/internal/export"
	"github.com/mamadbah2/oliveraq/internal/export/pdf"
	"github.com/mamadbah2/oliveraq/internal/export/xlsx"
)

// StockSheetRange receives the rows of each published monthly report.
const StockSheetRange = "Stock!A:J"

// Archive stores monthly report summaries.
type Archive interface {
	SaveMonthlyReport(ctx context.Context, summary models.StockReportSummary) error
}

// SheetExporter appends rows to a spreadsheet.
type SheetExporter interface {
	AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
}

// Notifier sends a short text to the manager.
type Notifier interface {
	Notify(ctx context.Context, body string) error
}

// StockSource produces the monthly report for the month containing day.
type StockSource interface {
	MonthlyReport(day models.Date) models.MonthlyStockReport
}

// File is a document written to the export directory.
type File struct {
	Name        string        `json:"name"`
	Path        string        `json:"path"`
	Format      export.Format `json:"format"`
	ContentType string        `json:"content_type"`
	Size        int64         `json:"size"`
}

// PublishResult tells which sinks accepted a published report.
type PublishResult struct {
	Period       string `json:"period"`
	File         File   `json:"file"`
	BatchCount   int    `json:"batch_count"`
	Archived     bool   `json:"archived"`
	ExportedRows int    `json:"exported_rows"`
	Notified     bool   `json:"notified"`
}

// Option configures optional sinks.
type Option func(*Service)

// WithArchive enables archiving of published reports.
func WithArchive(a Archive) Option { return func(s *Service) { s.archive = a } }

// WithSheets enables the spreadsheet export of published reports.
func WithSheets(e SheetExporter) Option { return func(s *Service) { s.sheets = e } }

// WithNotifier enables the manager notification of published reports.
func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }

// WithRenderer replaces the renderer of r's format.
func WithRenderer(r export.Renderer) Option {
	return func(s *Service) { s.renderers[r.Format()] = r }
}

// Service renders and exports documents.
type Service struct {
	business  config.BusinessConfig
	exportDir string
	renderers map[export.Format]export.Renderer
	calendar  models.Calendar
	now       func() time.Time
	archive   Archive
	sheets    SheetExporter
	notifier  Notifier
	logger    *zap.Logger
}

// NewService wires a reporting service writing under exportDir.
func NewService(business config.BusinessConfig, exportDir string, calendar models.Calendar, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		business:  business,
		exportDir: exportDir,
		renderers: map[export.Format]export.Renderer{
			export.FormatPDF:  pdf.New(business.Name),
			export.FormatXLSX: xlsx.New(),
		},
		calendar: calendar,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Renderer returns the renderer registered for format.
func (s *Service) Renderer(format export.Format) (export.Renderer, error) {
	r, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("no renderer for format %q", format)
	}
	return r, nil
}

// Render writes doc to w in format.
func (s *Service) Render(w io.Writer, doc export.Document, format export.Format) error {
	r, err := s.Renderer(format)
	if err != nil {
		return err
	}
	return r.Render(w, doc)
}

// WriteFile renders doc into the export directory under name.
func (s *Service) WriteFile(doc export.Document, name string, format export.Format) (File, error) {
	r, err := s.Renderer(format)
	if err != nil {
		return File{}, err
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, doc); err != nil {
		return File{}, err
	}

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return File{}, fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(s.exportDir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return File{}, fmt.Errorf("write %s: %w", name, err)
	}

	s.logger.Info("document exported", zap.String("file", path), zap.Int("bytes", buf.Len()))
	return File{Name: name, Path: path, Format: format, ContentType: r.ContentType(), Size: int64(buf.Len())}, nil
}

// ExportAttestation writes the work attestation of e as PDF.
func (s *Service) ExportAttestation(e models.Employee) (File, error) {
	return s.WriteFile(s.AttestationDocument(e), AttestationFileName(e), export.FormatPDF)
}

// ExportInvoice writes the invoice of o as PDF.
func (s *Service) ExportInvoice(o models.Order) (File, error) {
	return s.WriteFile(s.InvoiceDocument(o), InvoiceFileName(o), export.FormatPDF)
}

// ExportStockReport writes r in format.
func (s *Service) ExportStockReport(r models.MonthlyStockReport, format export.Format) (File, error) {
	return s.WriteFile(s.StockReportDocument(r), StockReportFileName(r, format), format)
}

// PublishMonthlyReport exports the current month's stock report as PDF, then hands it to
// the configured sinks. Only the file export can fail the call; sink failures are logged.
func (s *Service) PublishMonthlyReport(ctx context.Context, source StockSource) (PublishResult, error) {
	report := source.MonthlyReport(s.calendar.Today())

	file, err := s.ExportStockReport(report, export.FormatPDF)
	if err != nil {
		return PublishResult{}, fmt.Errorf("export monthly report: %w", err)
	}

	result := PublishResult{Period: report.Period(), File: file, BatchCount: len(report.Batches)}
	log := s.logger.With(zap.String("period", result.Period))

	if s.archive != nil {
		if err := s.archive.SaveMonthlyReport(ctx, report.Summary(s.now())); err != nil {
			log.Error("failed to archive monthly report", zap.Error(err))
		} else {
			result.Archived = true
		}
	}

	if s.sheets != nil && len(report.Batches) > 0 {
		rows := sheetRows(result.Period, report.Batches)
		if err := s.sheets.AppendRows(ctx, StockSheetRange, rows); err != nil {
			log.Error("failed to export monthly report to sheets", zap.Error(err))
		} else {
			result.ExportedRows = len(rows)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, SummaryMessage(s.business.Name, report)); err != nil {
			log.Warn("failed to notify manager", zap.Error(err))
		} else {
			result.Notified = true
		}
	}

	log.Info("monthly report published",
		zap.Int("batches", result.BatchCount),
		zap.Bool("archived", result.Archived),
		zap.Int("sheet_rows", result.ExportedRows),
		zap.Bool("notified", result.Notified))
	return result, nil
}

// SummaryMessage is the text sent to the manager for a published report.
func SummaryMessage(company string, r models.MonthlyStockReport) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s - État de stock %s\n", company, monthLabel(r.Start))
	fmt.Fprintf(&buf, "Productions : %d\n", len(r.Batches))
	fmt.Fprintf(&buf, "Total produit : %.2f L", r.TotalProducedL)
	for _, v := range r.ByType {
		fmt.Fprintf(&buf, "\n- %s : %.2f L (%.2f%%)", v.Type, v.Litres, v.Percent)
	}
	return buf.String()
}

func sheetRows(period string, batches []models.ProductionBatch) [][]interface{} {
	rows := make([][]interface{}, 0, len(batches))
	for _, b := range batches {
		row := []interface{}{period}
		for _, cell := range stockRow(b) {
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return rows
}
