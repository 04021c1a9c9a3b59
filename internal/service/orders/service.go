// Package orders manages client and supplier orders. One Service instance serves one
// counterparty kind; both kinds share every rule.
package orders

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/domain/models"
	"github.com/mamadbah2/oliveraq/internal/service/pricing"
	"github.com/mamadbah2/oliveraq/internal/service/stats"
	"github.com/mamadbah2/oliveraq/internal/store"
)

const (
	deletePrompt         = "Êtes-vous sûr de vouloir supprimer cette commande ?"
	defaultDeliveryDelay = 7
	defaultQuantity      = 1
)

// SortOrder names a reordering of an order table.
type SortOrder string

const (
	SortNameAsc  SortOrder = "name_asc"
	SortNameDesc SortOrder = "name_desc"
	SortDateDesc SortOrder = "date_desc"
)

// ParseSortOrder validates a sort query parameter.
func ParseSortOrder(value string) (SortOrder, error) {
	switch order := SortOrder(strings.TrimSpace(value)); order {
	case SortNameAsc, SortNameDesc, SortDateDesc:
		return order, nil
	}
	return "", models.NewValidationError("sort", fmt.Sprintf("tri inconnu %q", value))
}

// Statistics is the dashboard of an order table.
type Statistics struct {
	Kind           models.CounterpartyKind `json:"kind"`
	TotalOrders    int                     `json:"total_orders"`
	Counterparties int                     `json:"counterparties"`
	InProgress     int                     `json:"in_progress"`
	Delivered      int                     `json:"delivered"`
	DeliveryRate   float64                 `json:"delivery_rate"`
	Breakdown      stats.Breakdown         `json:"breakdown"`
	Performance    []stats.Performance     `json:"performance"`
	Best           stats.Performance       `json:"best"`
}

// Service owns one order table.
type Service struct {
	kind      models.CounterpartyKind
	table     *store.Table[models.Order]
	selection store.Selection
	calendar  models.Calendar
	logger    *zap.Logger

	mu      sync.Mutex
	lastSeq int
}

// NewService builds an empty order table for kind.
func NewService(kind models.CounterpartyKind, calendar models.Calendar, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		kind:     kind,
		table:    store.New[models.Order](),
		calendar: calendar,
		logger:   logger,
	}
}

// Kind returns the counterparty kind served.
func (s *Service) Kind() models.CounterpartyKind { return s.kind }

// Add validates input, derives prices and status, and appends the order with a new id.
func (s *Service) Add(input models.OrderInput) (models.Order, error) {
	order, err := s.buildOrder(input)
	if err != nil {
		s.logger.Debug("order rejected", zap.Error(err))
		return models.Order{}, err
	}
	if order.Quantity <= 0 {
		order.Quantity = defaultQuantity
	}

	s.mu.Lock()
	s.lastSeq++
	order.ID = s.kind.OrderID(s.lastSeq)
	row := s.table.Append(order)
	s.mu.Unlock()

	s.logger.Info("order added",
		zap.String("ref", row.Ref),
		zap.String("order_id", order.ID),
		zap.String("counterparty", order.Counterparty),
		zap.String("status", string(order.Status)))
	return s.Get(row.Ref)
}

// Edit overwrites the mutable fields of an order. The order id never changes, and the
// quantity is kept unless input carries a positive one.
func (s *Service) Edit(ref string, input models.OrderInput) (models.Order, error) {
	if ref == "" {
		return models.Order{}, store.ErrNoSelection
	}
	order, err := s.buildOrder(input)
	if err != nil {
		s.logger.Debug("order edit rejected", zap.String("ref", ref), zap.Error(err))
		return models.Order{}, err
	}

	if _, err := s.table.Update(ref, func(current *models.Order) error {
		order.ID = current.ID
		if order.Quantity <= 0 {
			order.Quantity = current.Quantity
		}
		*current = order
		return nil
	}); err != nil {
		return models.Order{}, err
	}
	s.logger.Info("order updated", zap.String("ref", ref), zap.String("order_id", order.ID))
	return s.Get(ref)
}

// Delete removes the order after confirmation. An unconfirmed delete returns false.
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

	removed, err := s.table.Remove(ref)
	if err != nil {
		return false, err
	}
	s.selection.ClearIf(ref)
	s.logger.Info("order deleted", zap.String("ref", ref), zap.String("order_id", removed.Value.ID))
	return true, nil
}

// Get returns one order.
func (s *Service) Get(ref string) (models.Order, error) {
	if ref == "" {
		return models.Order{}, store.ErrNoSelection
	}
	row, err := s.table.Get(ref)
	if err != nil {
		return models.Order{}, err
	}
	return view(row), nil
}

// List returns the visible orders in table order.
func (s *Service) List() []models.Order { return views(s.table.Visible()) }

// All returns every order, hidden ones included.
func (s *Service) All() []models.Order { return views(s.table.Rows()) }

// Search hides the orders whose counterparty name does not contain query, ignoring case.
func (s *Service) Search(query string) []models.Order {
	needle := strings.ToLower(strings.TrimSpace(query))
	s.table.Filter(func(o models.Order) bool {
		return strings.Contains(strings.ToLower(o.Counterparty), needle)
	})
	return s.List()
}

// Sort reorders the table. Order ids travel with their rows.
func (s *Service) Sort(order SortOrder) error {
	var less func(a, b models.Order) bool
	switch order {
	case SortNameAsc:
		less = func(a, b models.Order) bool { return a.Counterparty < b.Counterparty }
	case SortNameDesc:
		less = func(a, b models.Order) bool { return a.Counterparty > b.Counterparty }
	case SortDateDesc:
		less = func(a, b models.Order) bool { return a.OrderDate.After(b.OrderDate) }
	default:
		return models.NewValidationError("sort", fmt.Sprintf("tri inconnu %q", order))
	}
	s.table.Sort(less, false)
	return nil
}

// Statistics scans every order, hidden or not.
func (s *Service) Statistics() Statistics {
	rows := s.table.Rows()

	var inProgress, delivered int
	deliveries := make([]stats.Delivery, 0, len(rows))
	for _, row := range rows {
		isDelivered := row.Value.Status == models.StatusDelivered
		switch row.Value.Status {
		case models.StatusInProgress:
			inProgress++
		case models.StatusDelivered:
			delivered++
		}
		deliveries = append(deliveries, stats.Delivery{Counterparty: row.Value.Counterparty, Delivered: isDelivered})
	}

	performance, best := stats.RankCounterparties(deliveries)
	return Statistics{
		Kind:           s.kind,
		TotalOrders:    len(rows),
		Counterparties: len(performance),
		InProgress:     inProgress,
		Delivered:      delivered,
		DeliveryRate:   stats.Percent(delivered, len(rows)),
		Breakdown: stats.NewBreakdown(
			stats.Count{Name: string(models.StatusInProgress), Count: inProgress},
			stats.Count{Name: string(models.StatusDelivered), Count: delivered},
		),
		Performance: performance,
		Best:        best,
	}
}

// Select makes ref the current row for the next save.
func (s *Service) Select(ref string) (models.Order, error) {
	order, err := s.Get(ref)
	if err != nil {
		return models.Order{}, err
	}
	s.selection.Set(ref)
	return order, nil
}

// Selection returns the current row ref, "" in add mode.
func (s *Service) Selection() string { return s.selection.Ref() }

// BeginAdd switches the form to add mode.
func (s *Service) BeginAdd() { s.selection.Clear() }

// SaveSelected edits the selected order, or adds one when nothing is selected, then
// returns the form to add mode.
func (s *Service) SaveSelected(input models.OrderInput) (models.Order, error) {
	ref := s.selection.Ref()

	var (
		order models.Order
		err   error
	)
	if ref == "" {
		order, err = s.Add(input)
	} else {
		order, err = s.Edit(ref, input)
	}
	if err != nil {
		return models.Order{}, err
	}
	s.BeginAdd()
	return order, nil
}

func (s *Service) buildOrder(input models.OrderInput) (models.Order, error) {
	today := s.calendar.Today()

	counterparty := strings.TrimSpace(input.Counterparty)
	if counterparty == "" || strings.TrimSpace(input.PriceBeforeTax) == "" {
		return models.Order{}, models.NewValidationError("counterparty",
			fmt.Sprintf("Veuillez remplir au moins le nom du %s et le prix HT.", strings.ToLower(s.kind.Label())))
	}

	mode := input.PaymentMode
	if mode == "" {
		mode = models.PaymentCash
	}
	if !mode.Valid() {
		return models.Order{}, models.NewValidationError("payment_mode", fmt.Sprintf("Mode de paiement inconnu %q.", mode))
	}

	orderDate := input.OrderDate
	if orderDate.IsZero() {
		orderDate = today
	}
	deliveryDate := input.DeliveryDate
	if deliveryDate.IsZero() {
		deliveryDate = orderDate.AddDays(defaultDeliveryDelay)
	}

	invoice := pricing.ComputeInvoice(pricing.InvoiceForm{
		PriceBeforeTax: input.PriceBeforeTax,
		VATPct:         input.VATPct,
		DiscountPct:    input.DiscountPct,
		Advance:        input.Advance,
	}.WithDefaults().Input())

	return models.Order{
		Kind:               s.kind,
		Counterparty:       counterparty,
		Email:              strings.TrimSpace(input.Email),
		Phone:              strings.TrimSpace(input.Phone),
		Product:            strings.TrimSpace(input.Product),
		OrderDate:          orderDate,
		DeliveryDate:       deliveryDate,
		PriceBeforeTax:     invoice.PriceBeforeTax,
		VATPct:             invoice.VATPct,
		DiscountPct:        invoice.DiscountPct,
		PriceAfterDiscount: invoice.PriceAfterDiscount,
		PriceAfterTax:      invoice.PriceAfterTax,
		Advance:            invoice.Advance,
		RemainingBalance:   invoice.RemainingBalance,
		PaymentMode:        mode,
		Status:             models.StatusFor(deliveryDate, today),
		Quantity:           input.Quantity,
	}, nil
}

func view(row store.Row[models.Order]) models.Order {
	o := row.Value
	o.Ref = row.Ref
	return o
}

func views(rows []store.Row[models.Order]) []models.Order {
	out := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, view(row))
	}
	return out
}
