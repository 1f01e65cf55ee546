package handlers

import (
	"net/http"

	"oa_backend/internal/repositories"
	"oa_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PerformanceHandler struct {
	performanceService services.PerformanceService
}

func NewPerformanceHandler(ps services.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{performanceService: ps}
}

func (h *PerformanceHandler) GetAll(c *gin.Context) {
	employeeID, ok := queryInt64(c, "employee_id")
	if !ok {
		return
	}
	page, limit := pageParams(c)
	result, total, err := h.performanceService.List(repositories.PerformanceFilter{EmployeeID: employeeID, Page: page, Limit: limit})
	if err != nil {
		respondServiceError(c, err, "GetPerformance")
		return
	}
	listResponse(c, result, total, page, limit)
}

func (h *PerformanceHandler) Create(c *gin.Context) {
	var req services.PerformanceRequest
	if !bindJSON(c, &req, "CreatePerformance") {
		return
	}
	p, err := h.performanceService.Create(req)
	if err != nil {
		respondServiceError(c, err, "CreatePerformance")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PerformanceHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.PerformanceRequest
	if !bindJSON(c, &req, "UpdatePerformance") {
		return
	}
	p, err := h.performanceService.Update(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdatePerformance")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PerformanceHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.performanceService.Delete(id); err != nil {
		respondServiceError(c, err, "DeletePerformance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Performance record deleted successfully"})
}
