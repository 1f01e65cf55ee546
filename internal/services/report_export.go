package services

import (
	"fmt"
	"io"

	"oa_backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	attendanceSheet = "Attendance"
	summarySheet    = "Summary"
)

var attendanceHeader = []interface{}{
	"User ID", "Name", "Username", "Position", "Organization",
	"Working Days", "Attendance Days", "Complete Days", "Absent Days", "Avg Work Hours",
}

// WriteAttendanceWorkbook renders an attendance report as an .xlsx workbook.
func WriteAttendanceWorkbook(report *models.AttendanceReport, w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if err := f.SetSheetRow(attendanceSheet, "A1", &attendanceHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, item := range report.Data {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			item.UserID, item.UserName, item.Username, item.PositionName, item.OrgName,
			item.WorkDays, item.AttendanceDays, item.CompleteDays, item.AbsentDays, item.AvgWorkHours,
		}
		if err := f.SetSheetRow(attendanceSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Period Start", report.Summary.Period.Start},
		{"Period End", report.Summary.Period.End},
		{"Total Working Days", report.Summary.TotalWorkingDays},
		{"Total Employees", report.Summary.TotalEmployees},
	}
	for i := range summary {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &summary[i]); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
