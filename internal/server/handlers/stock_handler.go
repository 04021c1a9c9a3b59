package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/domain/models"
	"github.com/mamadbah2/oliveraq/internal/export"
	"github.com/mamadbah2/oliveraq/internal/service/reporting"
	"github.com/mamadbah2/oliveraq/internal/service/stock"
)

// StockHandler serves the production table, its form and the monthly report.
type StockHandler struct {
	svc     *stock.Service
	reports *reporting.Service
	logger  *zap.Logger
}

// NewStockHandler constructs the HTTP handler adapter.
func NewStockHandler(svc *stock.Service, reports *reporting.Service, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{svc: svc, reports: reports, logger: logger}
}

type typeRequest struct {
	Type models.ProductType `json:"type"`
}

type quantitiesRequest struct {
	Raw      string `json:"raw_quantity_kg"`
	Produced string `json:"produced_quantity_l"`
}

// List applies ?type= and ?sort= when present, then returns the visible rows.
func (h *StockHandler) List(c *gin.Context) {
	if value, ok := c.GetQuery("type"); ok {
		h.svc.FilterByType(value)
	}
	if value, ok := c.GetQuery("sort"); ok {
		order, err := stock.ParseSortOrder(value)
		if err == nil {
			err = h.svc.Sort(order)
		}
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"batches": h.svc.List(),
		"filter":  h.svc.TypeFilter(),
		"filters": stock.FilterChoices(),
	})
}

// Create adds a batch.
func (h *StockHandler) Create(c *gin.Context) {
	var input models.BatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	batch, err := h.svc.Add(input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, batch)
}

// Get returns one batch.
func (h *StockHandler) Get(c *gin.Context) {
	batch, err := h.svc.Get(c.Param("ref"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

// Update overwrites a batch.
func (h *StockHandler) Update(c *gin.Context) {
	var input models.BatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	batch, err := h.svc.Edit(c.Param("ref"), input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

// Delete removes a batch when ?confirm=true.
func (h *StockHandler) Delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Param("ref"), confirmer(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	deleted(c, ok)
}

// Stats returns the category chart of the visible rows.
func (h *StockHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Statistics())
}

// FormState returns the production form.
func (h *StockHandler) FormState(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Form().State())
}

// FormNew resets the form to add mode.
func (h *StockHandler) FormNew(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Form().BeginAdd())
}

// FormEdit loads a batch into the form.
func (h *StockHandler) FormEdit(c *gin.Context) {
	state, err := h.svc.Form().BeginEdit(c.Param("ref"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// FormType changes the product type.
func (h *StockHandler) FormType(c *gin.Context) {
	var req typeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.Form().SetType(req.Type))
}

// FormQuantities changes the quantities and returns the recomputed yield.
func (h *StockHandler) FormQuantities(c *gin.Context) {
	var req quantitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.Form().SetQuantities(req.Raw, req.Produced))
}

// FormFields replaces every editable field.
func (h *StockHandler) FormFields(c *gin.Context) {
	var input models.BatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.Form().SetFields(input))
}

// FormSave validates and stores the form.
func (h *StockHandler) FormSave(c *gin.Context) {
	batch, err := h.svc.Form().Save()
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"batch": batch, "form": h.svc.Form().State()})
}

// Report exports and streams the current month's stock report (?format=pdf|xlsx).
func (h *StockHandler) Report(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := h.svc.MonthlyReport(h.svc.Today())
	file, err := h.reports.ExportStockReport(report, format)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.FileAttachment(file.Path, file.Name)
}

// Publish runs the monthly report fan-out now.
func (h *StockHandler) Publish(c *gin.Context) {
	result, err := h.reports.PublishMonthlyReport(c.Request.Context(), h.svc)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
