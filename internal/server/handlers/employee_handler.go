package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/oliveraq/internal/domain/models"
	"github.com/mamadbah2/oliveraq/internal/service/employees"
	"github.com/mamadbah2/oliveraq/internal/service/reporting"
)

// EmployeeHandler serves the staff table.
type EmployeeHandler struct {
	svc     *employees.Service
	reports *reporting.Service
	logger  *zap.Logger
}

// NewEmployeeHandler constructs the HTTP handler adapter.
func NewEmployeeHandler(svc *employees.Service, reports *reporting.Service, logger *zap.Logger) *EmployeeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeHandler{svc: svc, reports: reports, logger: logger}
}

// List applies ?q= (search) and ?sort= when present, then returns the visible rows.
func (h *EmployeeHandler) List(c *gin.Context) {
	if q, ok := c.GetQuery("q"); ok {
		h.svc.Search(q)
	}
	if value, ok := c.GetQuery("sort"); ok {
		order, err := employees.ParseSortOrder(value)
		if err == nil {
			err = h.svc.Sort(order)
		}
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"employees": h.svc.List(), "selected": h.svc.Selection()})
}

// Create adds an employee.
func (h *EmployeeHandler) Create(c *gin.Context) {
	var input models.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	employee, err := h.svc.Add(input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// Get returns one employee.
func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.svc.Get(c.Param("ref"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// Update overwrites an employee.
func (h *EmployeeHandler) Update(c *gin.Context) {
	var input models.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	employee, err := h.svc.Edit(c.Param("ref"), input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// Delete removes an employee when ?confirm=true.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Param("ref"), confirmer(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	deleted(c, ok)
}

// Select makes the employee the current row.
func (h *EmployeeHandler) Select(c *gin.Context) {
	employee, err := h.svc.Select(c.Param("ref"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// BeginAdd clears the selection so the next save adds.
func (h *EmployeeHandler) BeginAdd(c *gin.Context) {
	h.svc.BeginAdd()
	c.Status(http.StatusNoContent)
}

// Save adds or edits depending on the selection.
func (h *EmployeeHandler) Save(c *gin.Context) {
	var input models.EmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	employee, err := h.svc.SaveSelected(input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// Stats returns the age band chart.
func (h *EmployeeHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Statistics())
}

// Attestation exports and streams the work attestation of an employee.
func (h *EmployeeHandler) Attestation(c *gin.Context) {
	employee, err := h.svc.Get(c.Param("ref"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	file, err := h.reports.ExportAttestation(employee)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.FileAttachment(file.Path, file.Name)
}
