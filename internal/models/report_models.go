package models

import "github.com/shopspring/decimal"

// ReportFilter holds the optional subject filters shared by the reports.
type ReportFilter struct {
	UserID     *int64
	Department string // organization name, exact match
}

// AttendanceReportRow is one (user, attendance record) pair as read for aggregation.
// Record is nil for users without any record in the window.
type AttendanceReportRow struct {
	UserID       int64
	UserName     *string
	Username     *string
	PositionName *string
	OrgName      *string
	Record       *AttendanceRecord
}

// AttendanceSummaryItem is one user's line in the attendance report.
type AttendanceSummaryItem struct {
	UserID         int64   `json:"user_id"`
	UserName       string  `json:"user_name"`
	Username       string  `json:"username"`
	PositionName   string  `json:"position_name"`
	OrgName        string  `json:"org_name"`
	WorkDays       int     `json:"work_days"`
	AttendanceDays int     `json:"attendance_days"`
	CompleteDays   int     `json:"complete_days"`
	AbsentDays     int     `json:"absent_days"`
	AvgWorkHours   float64 `json:"avg_work_hours"`
}

// Period is an inclusive calendar window, dates as YYYY-MM-DD.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AttendanceReportSummary is the summary block of the attendance report.
type AttendanceReportSummary struct {
	Period           Period `json:"period"`
	TotalWorkingDays int    `json:"total_working_days"`
	TotalEmployees   int    `json:"total_employees"`
}

// AttendanceReport is the full attendance report response.
type AttendanceReport struct {
	Data    []AttendanceSummaryItem `json:"data"`
	Total   int                     `json:"total"`
	Summary AttendanceReportSummary `json:"summary"`
}

// SalarySummaryItem is one user's yearly salary aggregate.
type SalarySummaryItem struct {
	UserID          int64           `json:"user_id"`
	UserName        string          `json:"user_name"`
	Username        string          `json:"username"`
	PositionName    string          `json:"position_name"`
	OrgName         string          `json:"org_name"`
	TotalBaseSalary decimal.Decimal `json:"total_base_salary"`
	TotalBonus      decimal.Decimal `json:"total_bonus"`
	TotalAllowance  decimal.Decimal `json:"total_allowance"`
	TotalDeduction  decimal.Decimal `json:"total_deduction"`
	TotalSalary     decimal.Decimal `json:"total_salary"`
	SalaryMonths    int             `json:"salary_months"`
}

// SalaryPeriod identifies the year of a salary report.
type SalaryPeriod struct {
	Year int `json:"year"`
}

// SalaryReportSummary is the summary block of the salary report.
type SalaryReportSummary struct {
	Period         SalaryPeriod    `json:"period"`
	TotalEmployees int             `json:"total_employees"`
	TotalSalary    decimal.Decimal `json:"total_salary"`
	AvgSalary      decimal.Decimal `json:"avg_salary"`
}

// SalaryReport is the full salary report response.
type SalaryReport struct {
	Data    []SalarySummaryItem `json:"data"`
	Total   int                 `json:"total"`
	Summary SalaryReportSummary `json:"summary"`
}
