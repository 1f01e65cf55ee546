package handlers

import (
	"net/http"

	"oa_backend/internal/models"
	"oa_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// AttendanceHandler serves check-in/out and attendance record maintenance.
type AttendanceHandler struct {
	attendanceService services.AttendanceService
}

func NewAttendanceHandler(as services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: as}
}

// CheckIn records a check-in or check-out for today.
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req services.CheckInRequest
	if !bindJSON(c, &req, "CheckIn") {
		return
	}
	result, err := h.attendanceService.CheckInOut(req)
	if err != nil {
		respondServiceError(c, err, "CheckIn")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetRecords lists attendance records with user and position names.
func (h *AttendanceHandler) GetRecords(c *gin.Context) {
	userID, ok := queryInt64(c, "user_id")
	if !ok {
		return
	}
	page, limit := pageParams(c)
	filter := models.AttendanceFilter{
		UserID:    userID,
		Date:      queryString(c, "date"),
		StartDate: queryString(c, "start_date"),
		EndDate:   queryString(c, "end_date"),
		Page:      page,
		Limit:     limit,
	}

	records, total, err := h.attendanceService.ListRecords(filter)
	if err != nil {
		respondServiceError(c, err, "GetRecords")
		return
	}
	listResponse(c, records, total, page, limit)
}

func (h *AttendanceHandler) CreateRecord(c *gin.Context) {
	var req services.AttendanceRecordRequest
	if !bindJSON(c, &req, "CreateRecord") {
		return
	}
	rec, err := h.attendanceService.CreateRecord(req)
	if err != nil {
		respondServiceError(c, err, "CreateRecord")
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *AttendanceHandler) UpdateRecord(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req services.UpdateAttendanceRecordRequest
	if !bindJSON(c, &req, "UpdateRecord") {
		return
	}
	if err := h.attendanceService.UpdateRecord(id, req); err != nil {
		respondServiceError(c, err, "UpdateRecord")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance record updated successfully", "id": id})
}

func (h *AttendanceHandler) DeleteRecord(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.attendanceService.DeleteRecord(id); err != nil {
		respondServiceError(c, err, "DeleteRecord")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance record deleted successfully"})
}
