// Package stock manages production batches: records, type filter, date/type sort,
// category chart and the monthly stock report.
package stock

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/domain/models"
	"github.com/mamadbah2/oliveraq/internal/service/pricing"
	"github.com/mamadbah2/oliveraq/internal/service/stats"
	"github.com/mamadbah2/oliveraq/internal/store"
)

const (
	deletePrompt = "Voulez-vous vraiment supprimer cette production ?"

	// FilterAll is the type filter entry that shows every batch.
	FilterAll = "Tous"

	defaultShelfLifeYears = 2
)

// SortOrder names a reordering of the production table.
type SortOrder string

const (
	SortDateAsc  SortOrder = "date_asc"
	SortDateDesc SortOrder = "date_desc"
	SortType     SortOrder = "type"
)

// ParseSortOrder validates a sort query parameter.
func ParseSortOrder(value string) (SortOrder, error) {
	switch order := SortOrder(strings.TrimSpace(value)); order {
	case SortDateAsc, SortDateDesc, SortType:
		return order, nil
	}
	return "", models.NewValidationError("sort", fmt.Sprintf("tri inconnu %q", value))
}

// FilterChoices lists the entries of the type filter.
func FilterChoices() []string {
	out := []string{FilterAll}
	for _, t := range models.ProductTypes {
		out = append(out, string(t))
	}
	return out
}

// Service owns the production table.
type Service struct {
	table    *store.Table[models.ProductionBatch]
	calendar models.Calendar
	logger   *zap.Logger
	form     *Form

	mu         sync.Mutex
	typeFilter string
}

// NewService builds an empty production table.
func NewService(calendar models.Calendar, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		table:      store.New[models.ProductionBatch](),
		calendar:   calendar,
		logger:     logger,
		typeFilter: FilterAll,
	}
	s.form = newForm(s)
	return s
}

// Form returns the production form bound to this table.
func (s *Service) Form() *Form { return s.form }

// Add validates input and appends a batch.
func (s *Service) Add(input models.BatchInput) (models.ProductionBatch, error) {
	batch, err := s.buildBatch(input)
	if err != nil {
		s.logger.Debug("production rejected", zap.Error(err))
		return models.ProductionBatch{}, err
	}

	row := s.table.Append(batch)
	s.reapplyFilter()
	s.logger.Info("production added",
		zap.String("ref", row.Ref),
		zap.String("identifier", batch.Identifier),
		zap.String("type", string(batch.Type)))
	return s.Get(row.Ref)
}

// Edit overwrites every field of the batch named by ref.
func (s *Service) Edit(ref string, input models.BatchInput) (models.ProductionBatch, error) {
	if ref == "" {
		return models.ProductionBatch{}, store.ErrNoSelection
	}
	batch, err := s.buildBatch(input)
	if err != nil {
		s.logger.Debug("production edit rejected", zap.String("ref", ref), zap.Error(err))
		return models.ProductionBatch{}, err
	}

	if _, err := s.table.Update(ref, func(current *models.ProductionBatch) error {
		*current = batch
		return nil
	}); err != nil {
		return models.ProductionBatch{}, err
	}
	s.reapplyFilter()
	s.logger.Info("production updated", zap.String("ref", ref))
	return s.Get(ref)
}

// Delete removes the batch after confirmation and renumbers the following ones.
func (s *Service) Delete(ref string, confirm store.Confirmer) (bool, error) {
	if ref == "" {
		return false, store.ErrNoSelection
	}
	if _, err := s.table.Get(ref); err != nil {
		return false, err
	}
	if !confirm.Ask(deletePrompt) {
		return false, nil
	}

	if _, err := s.table.Remove(ref); err != nil {
		return false, err
	}
	s.form.forget(ref)
	s.logger.Info("production deleted", zap.String("ref", ref))
	return true, nil
}

// Get returns one batch.
func (s *Service) Get(ref string) (models.ProductionBatch, error) {
	if ref == "" {
		return models.ProductionBatch{}, store.ErrNoSelection
	}
	row, err := s.table.Get(ref)
	if err != nil {
		return models.ProductionBatch{}, err
	}
	return view(row), nil
}

// List returns the batches visible under the current type filter.
func (s *Service) List() []models.ProductionBatch { return views(s.table.Visible()) }

// All returns every batch, hidden ones included.
func (s *Service) All() []models.ProductionBatch { return views(s.table.Rows()) }

// FilterByType shows only batches of productType. FilterAll or "" shows everything.
func (s *Service) FilterByType(productType string) []models.ProductionBatch {
	productType = strings.TrimSpace(productType)
	if productType == "" {
		productType = FilterAll
	}

	s.mu.Lock()
	s.typeFilter = productType
	s.mu.Unlock()

	s.reapplyFilter()
	return s.List()
}

// TypeFilter returns the active filter entry.
func (s *Service) TypeFilter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typeFilter
}

// Sort reorders the table and renumbers ids to match the new order.
func (s *Service) Sort(order SortOrder) error {
	var less func(a, b models.ProductionBatch) bool
	switch order {
	case SortDateAsc:
		less = func(a, b models.ProductionBatch) bool { return a.ProductionDate.Before(b.ProductionDate) }
	case SortDateDesc:
		less = func(a, b models.ProductionBatch) bool { return a.ProductionDate.After(b.ProductionDate) }
	case SortType:
		less = func(a, b models.ProductionBatch) bool { return a.Type < b.Type }
	default:
		return models.NewValidationError("sort", fmt.Sprintf("tri inconnu %q", order))
	}
	s.table.Sort(less, true)
	return nil
}

// Statistics counts the visible batches per product category.
func (s *Service) Statistics() stats.Breakdown {
	rows := s.table.Visible()
	categories := make([]string, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, row.Value.Type.Category())
	}
	return stats.NewBreakdown(stats.Tally(categories)...)
}

// MonthlyReport gathers every batch produced in the month containing day, whatever the
// current filter.
func (s *Service) MonthlyReport(day models.Date) models.MonthlyStockReport {
	report := models.MonthlyStockReport{
		Start:   day.MonthStart(),
		End:     day.MonthEnd(),
		Batches: []models.ProductionBatch{},
		ByType:  []models.TypeVolume{},
	}

	litres := map[string]float64{}
	for _, row := range s.table.Rows() {
		batch := row.Value
		if batch.ProductionDate.Before(report.Start) || batch.ProductionDate.After(report.End) {
			continue
		}
		report.Batches = append(report.Batches, view(row))
		if batch.Type.HasOutput() {
			report.TotalProducedL += batch.ProducedQuantity
			litres[string(batch.Type)] += batch.ProducedQuantity
		}
	}

	for productType, volume := range litres {
		share := 0.0
		if report.TotalProducedL > 0 {
			share = round2(volume * 100 / report.TotalProducedL)
		}
		report.ByType = append(report.ByType, models.TypeVolume{Type: productType, Litres: round2(volume), Percent: share})
	}
	sort.Slice(report.ByType, func(i, j int) bool { return report.ByType[i].Type < report.ByType[j].Type })
	report.TotalProducedL = round2(report.TotalProducedL)
	return report
}

// Today exposes the calendar used for date rules.
func (s *Service) Today() models.Date { return s.calendar.Today() }

func (s *Service) reapplyFilter() {
	filter := s.TypeFilter()
	if filter == FilterAll {
		s.table.ClearFilter()
		return
	}
	s.table.Filter(func(b models.ProductionBatch) bool { return string(b.Type) == filter })
}

func (s *Service) buildBatch(input models.BatchInput) (models.ProductionBatch, error) {
	today := s.calendar.Today()

	productType := input.Type
	if productType == "" {
		productType = models.ProductTypes[0]
	}
	if !validType(productType) {
		return models.ProductionBatch{}, models.NewValidationError("type", fmt.Sprintf("Type de produit inconnu %q.", productType))
	}
	hasOutput := productType.HasOutput()

	identifier := strings.TrimSpace(input.Identifier)
	rawText := strings.TrimSpace(input.RawQuantity)
	producedText := strings.TrimSpace(input.ProducedQuantity)

	switch {
	case identifier == "":
		return models.ProductionBatch{}, models.NewValidationError("identifier", "Veuillez entrer un identifiant de production.")
	case rawText == "":
		return models.ProductionBatch{}, models.NewValidationError("raw_quantity_kg", "Veuillez remplir la quantité de matière première.")
	case hasOutput && producedText == "":
		return models.ProductionBatch{}, models.NewValidationError("produced_quantity_l", "Veuillez remplir la quantité produite.")
	}

	raw, ok := pricing.ParseQuantity(rawText)
	if !ok {
		return models.ProductionBatch{}, models.NewValidationError("raw_quantity_kg", "La quantité de matière première doit être un nombre positif.")
	}
	var produced float64
	if hasOutput {
		if produced, ok = pricing.ParseQuantity(producedText); !ok {
			return models.ProductionBatch{}, models.NewValidationError("produced_quantity_l", "La quantité produite doit être un nombre positif.")
		}
	}

	productionDate := input.ProductionDate
	if productionDate.IsZero() {
		productionDate = today
	}
	if productionDate.After(today) {
		return models.ProductionBatch{}, models.NewValidationError("production_date", "La date de production ne peut pas être dans le futur.")
	}
	expiration := input.ExpirationDate
	if expiration.IsZero() {
		expiration = productionDate.AddYears(defaultShelfLifeYears)
	}
	if !expiration.After(productionDate) {
		return models.ProductionBatch{}, models.NewValidationError("expiration_date", "La date d'expiration doit être postérieure à la date de production.")
	}

	batch := models.ProductionBatch{
		Identifier:     identifier,
		ProductionDate: productionDate,
		Type:           productType,
		RawQuantityKg:  raw,
		Lot:            strings.TrimSpace(input.Lot),
		ExpirationDate: expiration,
	}
	if !hasOutput {
		return batch, nil
	}

	batch.ProducedQuantity = produced
	if yield, ok := pricing.ParseQuantity(input.Yield); ok {
		batch.Yield = round2(yield)
	} else {
		batch.Yield, _ = pricing.ComputeYield(productType, raw, produced)
	}

	batch.Quality = input.Quality
	if batch.Quality == "" {
		batch.Quality = models.Qualities[0]
	}
	if !validQuality(batch.Quality) {
		return models.ProductionBatch{}, models.NewValidationError("quality", fmt.Sprintf("Qualité inconnue %q.", batch.Quality))
	}
	return batch, nil
}

func validType(t models.ProductType) bool {
	for _, known := range models.ProductTypes {
		if t == known {
			return true
		}
	}
	return false
}

func validQuality(q models.Quality) bool {
	for _, known := range models.Qualities {
		if q == known {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatLitres renders a volume with two decimals, as printed in reports.
func FormatLitres(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func view(row store.Row[models.ProductionBatch]) models.ProductionBatch {
	b := row.Value
	b.Ref = row.Ref
	b.ID = row.Seq
	return b
}

func views(rows []store.Row[models.ProductionBatch]) []models.ProductionBatch {
	out := make([]models.ProductionBatch, 0, len(rows))
	for _, row := range rows {
		out = append(out, view(row))
	}
	return out
}
