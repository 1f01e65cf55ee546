package handlers

import (
	"net/http"

	"oa_backend/internal/repositories"
	"oa_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// CostHandler serves cost centers and cost allocations.
type CostHandler struct {
	costService services.CostService
}

func NewCostHandler(cs services.CostService) *CostHandler {
	return &CostHandler{costService: cs}
}

// --- Cost Center Handler Methods ---

func (h *CostHandler) GetCenters(c *gin.Context) {
	page, limit := pageParams(c)
	filter := repositories.CostCenterFilter{
		Keyword:  c.Query("keyword"),
		CostType: c.Query("cost_type"),
		Page:     page,
		Limit:    limit,
	}
	centers, total, err := h.costService.ListCenters(filter)
	if err != nil {
		respondServiceError(c, err, "GetCostCenters")
		return
	}
	listResponse(c, centers, total, page, limit)
}

func (h *CostHandler) CreateCenter(c *gin.Context) {
	var req services.CostCenterRequest
	if !bindJSON(c, &req, "CreateCostCenter") {
		return
	}
	center, err := h.costService.CreateCenter(req)
	if err != nil {
		respondServiceError(c, err, "CreateCostCenter")
		return
	}
	c.JSON(http.StatusCreated, center)
}

func (h *CostHandler) UpdateCenter(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.CostCenterRequest
	if !bindJSON(c, &req, "UpdateCostCenter") {
		return
	}
	center, err := h.costService.UpdateCenter(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateCostCenter")
		return
	}
	c.JSON(http.StatusOK, center)
}

// DeleteCenter answers 409 while allocations still reference the center.
func (h *CostHandler) DeleteCenter(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.costService.DeleteCenter(id); err != nil {
		respondServiceError(c, err, "DeleteCostCenter")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cost center deleted successfully"})
}

// --- Cost Allocation Handler Methods ---

func (h *CostHandler) GetAllocations(c *gin.Context) {
	page, limit := pageParams(c)
	filter := repositories.CostAllocationFilter{
		DateStart: queryString(c, "date_start"),
		DateEnd:   queryString(c, "date_end"),
		Page:      page,
		Limit:     limit,
	}
	allocations, total, err := h.costService.ListAllocations(filter)
	if err != nil {
		respondServiceError(c, err, "GetCostAllocations")
		return
	}
	listResponse(c, allocations, total, page, limit)
}

func (h *CostHandler) CreateAllocation(c *gin.Context) {
	var req services.CostAllocationRequest
	if !bindJSON(c, &req, "CreateCostAllocation") {
		return
	}
	alloc, err := h.costService.CreateAllocation(req)
	if err != nil {
		respondServiceError(c, err, "CreateCostAllocation")
		return
	}
	c.JSON(http.StatusCreated, alloc)
}

func (h *CostHandler) UpdateAllocation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.CostAllocationRequest
	if !bindJSON(c, &req, "UpdateCostAllocation") {
		return
	}
	alloc, err := h.costService.UpdateAllocation(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateCostAllocation")
		return
	}
	c.JSON(http.StatusOK, alloc)
}

func (h *CostHandler) DeleteAllocation(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.costService.DeleteAllocation(id); err != nil {
		respondServiceError(c, err, "DeleteCostAllocation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cost allocation deleted successfully"})
}
