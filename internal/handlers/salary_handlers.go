package handlers

import (
	"net/http"

	"oa_backend/internal/models"
	"oa_backend/internal/services"
	"oa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SalaryHandler serves salary record CRUD.
type SalaryHandler struct {
	salaryService services.SalaryService
}

func NewSalaryHandler(ss services.SalaryService) *SalaryHandler {
	return &SalaryHandler{salaryService: ss}
}

func (h *SalaryHandler) GetRecords(c *gin.Context) {
	var filter models.SalaryFilter
	var ok bool
	if filter.UserID, ok = queryInt64(c, "user_id"); !ok {
		return
	}
	if filter.Year, ok = queryInt(c, "year"); !ok {
		return
	}
	if filter.Month, ok = queryInt(c, "month"); !ok {
		return
	}
	filter.Page, filter.Limit = pageParams(c)

	records, total, err := h.salaryService.ListRecords(filter)
	if err != nil {
		respondServiceError(c, err, "GetSalaryRecords")
		return
	}
	listResponse(c, records, total, filter.Page, filter.Limit)
}

func (h *SalaryHandler) GetRecord(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	rec, err := h.salaryService.GetRecord(id)
	if err != nil {
		respondServiceError(c, err, "GetSalaryRecord")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *SalaryHandler) CreateRecord(c *gin.Context) {
	var req services.CreateSalaryRecordRequest
	if !bindJSON(c, &req, "CreateSalaryRecord") {
		return
	}
	rec, err := h.salaryService.CreateRecord(req)
	if err != nil {
		respondServiceError(c, err, "CreateSalaryRecord")
		return
	}
	utils.LogInfo("salary record created", map[string]interface{}{"id": rec.ID, "user_id": rec.UserID, "year": rec.Year, "month": rec.Month})
	c.JSON(http.StatusCreated, rec)
}

func (h *SalaryHandler) UpdateRecord(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.UpdateSalaryRecordRequest
	if !bindJSON(c, &req, "UpdateSalaryRecord") {
		return
	}
	rec, err := h.salaryService.UpdateRecord(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateSalaryRecord")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *SalaryHandler) DeleteRecord(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.salaryService.DeleteRecord(id); err != nil {
		respondServiceError(c, err, "DeleteSalaryRecord")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Salary record deleted successfully"})
}
