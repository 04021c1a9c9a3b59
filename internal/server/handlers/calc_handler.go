package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/domain/models"
	"github.com/mamadbah2/oliveraq/internal/service/pricing"
)

// CalcHandler recomputes read-only form fields on each keystroke.
type CalcHandler struct {
	logger *zap.Logger
}

// NewCalcHandler constructs the HTTP handler adapter.
func NewCalcHandler(logger *zap.Logger) *CalcHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalcHandler{logger: logger}
}

type yieldRequest struct {
	Type     models.ProductType `json:"type"`
	Raw      string             `json:"raw_quantity_kg"`
	Produced string             `json:"produced_quantity_l"`
}

// Invoice returns the discounted, taxed and remaining amounts.
func (h *CalcHandler) Invoice(c *gin.Context) {
	var form pricing.InvoiceForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, pricing.RecomputeInvoice(form))
}

// Yield returns the yield text, blank when it cannot be computed.
func (h *CalcHandler) Yield(c *gin.Context) {
	var req yieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"yield": pricing.RecomputeYield(req.Type, req.Raw, req.Produced)})
}
