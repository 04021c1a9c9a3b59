package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/domain/models"
	"github.com/mamadbah2/oliveraq/internal/service/orders"
	"github.com/mamadbah2/oliveraq/internal/service/reporting"
)

// OrderHandler serves the client and supplier order tables under /orders/:kind.
type OrderHandler struct {
	tables  map[models.CounterpartyKind]*orders.Service
	reports *reporting.Service
	logger  *zap.Logger
}

// NewOrderHandler constructs the HTTP handler adapter over one service per kind.
func NewOrderHandler(services []*orders.Service, reports *reporting.Service, logger *zap.Logger) *OrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	tables := make(map[models.CounterpartyKind]*orders.Service, len(services))
	for _, svc := range services {
		tables[svc.Kind()] = svc
	}
	return &OrderHandler{tables: tables, reports: reports, logger: logger}
}

func (h *OrderHandler) table(c *gin.Context) (*orders.Service, bool) {
	kind, err := models.ParseCounterpartyKind(c.Param("kind"))
	if err == nil {
		if svc, ok := h.tables[kind]; ok {
			return svc, true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "type de commande inconnu"})
	return nil, false
}

// List applies ?q= and ?sort= when present, then returns the visible rows.
func (h *OrderHandler) List(c *gin.Context) {
	svc, ok := h.table(c)
	if !ok {
		return
	}
	if q, ok := c.GetQuery("q"); ok {
		svc.Search(q)
	}
	if value, ok := c.GetQuery("sort"); ok {
		order, err := orders.ParseSortOrder(value)
		if err == nil {
			err = svc.Sort(order)
		}
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"orders": svc.List(), "selected": svc.Selection()})
}

// Create adds an order.
func (h *OrderHandler) Create(c *gin.Context) {
	svc, ok := h.table(c)
	if !ok {
		return
	}
	var input models.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	order, err := svc.Add(input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Get returns one order.
func (h *OrderHandler) Get(c *gin.Context) {
	svc, ok := h.table(c)
	if !ok {
		return
	}
	order, err := svc.Get(c.Param("ref"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Update overwrites an order, keeping its id.
func (h *OrderHandler) Update(c *gin.Context) {
	svc, ok := h.table(c)
	if !ok {
		return
	}
	var input models.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	order, err := svc.Edit(c.Param("ref"), input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Delete removes an order when ?confirm=true.
func (h *OrderHandler) Delete(c *gin.Context) {
	svc, ok := h.table(c)
	if !ok {
		return
	}
	removed, err := svc.Delete(c.Param("ref"), confirmer(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	deleted(c, removed)
}

// Select makes the order the current row.
func (h *OrderHandler) Select(c *gin.Context) {
	svc, ok := h.table(c)
	if !ok {
		return
	}
	order, err := svc.Select(c.Param("ref"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// BeginAdd clears the selection so the next save adds.
func (h *OrderHandler) BeginAdd(c *gin.Context) {
	svc, ok := h.table(c)
	if !ok {
		return
	}
	svc.BeginAdd()
	c.Status(http.StatusNoContent)
}

// Save adds or edits depending on the selection.
func (h *OrderHandler) Save(c *gin.Context) {
	svc, ok := h.table(c)
	if !ok {
		return
	}
	var input models.OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	order, err := svc.SaveSelected(input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Stats returns the status chart and performer table.
func (h *OrderHandler) Stats(c *gin.Context) {
	svc, ok := h.table(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, svc.Statistics())
}

// Invoice exports and streams the invoice of an order.
func (h *OrderHandler) Invoice(c *gin.Context) {
	svc, ok := h.table(c)
	if !ok {
		return
	}
	order, err := svc.Get(c.Param("ref"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	file, err := h.reports.ExportInvoice(order)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.FileAttachment(file.Path, file.Name)
}
