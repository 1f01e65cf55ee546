package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"oa_backend/internal/services"
	"oa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the attendance and salary reports.
type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// parseAttendanceQuery reads year, month, date_start, date_end, user_id and department.
func parseAttendanceQuery(c *gin.Context) (services.AttendanceReportQuery, bool) {
	var q services.AttendanceReportQuery
	var ok bool
	if q.Year, ok = queryInt(c, "year"); !ok {
		return q, false
	}
	if q.Month, ok = queryInt(c, "month"); !ok {
		return q, false
	}
	if q.UserID, ok = queryInt64(c, "user_id"); !ok {
		return q, false
	}
	q.DateStart = queryString(c, "date_start")
	q.DateEnd = queryString(c, "date_end")
	q.Department = c.Query("department")
	return q, true
}

// GetAttendanceReport returns per-user attendance statistics for a period.
func (h *ReportHandler) GetAttendanceReport(c *gin.Context) {
	q, ok := parseAttendanceQuery(c)
	if !ok {
		return
	}
	report, err := h.reportService.AttendanceReport(q)
	if err != nil {
		respondServiceError(c, err, "GetAttendanceReport")
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportAttendanceReport streams the attendance report as an .xlsx workbook.
func (h *ReportHandler) ExportAttendanceReport(c *gin.Context) {
	q, ok := parseAttendanceQuery(c)
	if !ok {
		return
	}
	report, err := h.reportService.AttendanceReport(q)
	if err != nil {
		respondServiceError(c, err, "ExportAttendanceReport")
		return
	}

	var buf bytes.Buffer
	if err := services.WriteAttendanceWorkbook(report, &buf); err != nil {
		utils.LogError(err, "ExportAttendanceReport: building workbook")
		utils.RespondInternalError(c, "Failed to export attendance report.")
		return
	}
	filename := fmt.Sprintf("attendance_%s_%s.xlsx", report.Summary.Period.Start, report.Summary.Period.End)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetSalaryReport returns per-user salary totals for a year.
func (h *ReportHandler) GetSalaryReport(c *gin.Context) {
	var q services.SalaryReportQuery
	var ok bool
	if q.Year, ok = queryInt(c, "year"); !ok {
		return
	}
	if q.UserID, ok = queryInt64(c, "user_id"); !ok {
		return
	}
	q.Department = c.Query("department")

	report, err := h.reportService.SalaryReport(q)
	if err != nil {
		respondServiceError(c, err, "GetSalaryReport")
		return
	}
	c.JSON(http.StatusOK, report)
}
