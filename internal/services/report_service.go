package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"oa_backend/internal/models"
	"oa_backend/internal/repositories"
	"oa_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// AttendanceReportQuery selects the report window and subjects.
// Year and Month together take precedence over DateStart/DateEnd.
type AttendanceReportQuery struct {
	Year       *int
	Month      *int
	DateStart  *string
	DateEnd    *string
	UserID     *int64
	Department string
}

// SalaryReportQuery selects the report year and subjects. A nil Year means the current year.
type SalaryReportQuery struct {
	Year       *int
	UserID     *int64
	Department string
}

// ReportService aggregates attendance and salary data. Reports are recomputed on every call.
type ReportService interface {
	AttendanceReport(q AttendanceReportQuery) (*models.AttendanceReport, error)
	SalaryReport(q SalaryReportQuery) (*models.SalaryReport, error)
}

type reportService struct {
	attendanceRepo repositories.AttendanceRepository
	salaryRepo     repositories.SalaryRepository
	loc            *time.Location
	now            func() time.Time
}

func NewReportService(ar repositories.AttendanceRepository, sr repositories.SalaryRepository, loc *time.Location) ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{attendanceRepo: ar, salaryRepo: sr, loc: loc, now: time.Now}
}

// resolvePeriod turns the query into a concrete inclusive window.
func (s *reportService) resolvePeriod(q AttendanceReportQuery) (time.Time, time.Time, error) {
	if q.Year != nil && q.Month != nil {
		if *q.Month < 1 || *q.Month > 12 {
			return time.Time{}, time.Time{}, validationf("month must be between 1 and 12")
		}
		if *q.Year < 1900 || *q.Year > 9999 {
			return time.Time{}, time.Time{}, validationf("year %d is out of range", *q.Year)
		}
		first, last := utils.MonthBounds(*q.Year, time.Month(*q.Month))
		return first, last, nil
	}

	today := utils.TruncateDay(s.now().In(s.loc))
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := today

	if q.DateStart != nil {
		t, err := utils.ParseDate(*q.DateStart)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date_start: %v", ErrValidation, err)
		}
		start = t
	}
	if q.DateEnd != nil {
		t, err := utils.ParseDate(*q.DateEnd)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date_end: %v", ErrValidation, err)
		}
		end = t
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, validationf("date_end %s is before date_start %s",
			end.Format(utils.DateLayout), start.Format(utils.DateLayout))
	}
	return start, end, nil
}

type userTally struct {
	item      models.AttendanceSummaryItem
	dates     map[string]struct{}
	present   map[string]struct{}
	hoursSum  float64
	completed int
}

func (s *reportService) AttendanceReport(q AttendanceReportQuery) (*models.AttendanceReport, error) {
	start, end, err := s.resolvePeriod(q)
	if err != nil {
		return nil, err
	}
	workDays := utils.WorkingDays(start, end)
	period := models.Period{Start: start.Format(utils.DateLayout), End: end.Format(utils.DateLayout)}

	rows, err := s.attendanceRepo.ListForReport(period.Start, period.End, models.ReportFilter{
		UserID:     q.UserID,
		Department: q.Department,
	})
	if err != nil {
		return nil, fmt.Errorf("loading attendance for report: %w", err)
	}

	var order []int64
	tallies := map[int64]*userTally{}
	for _, row := range rows {
		t, ok := tallies[row.UserID]
		if !ok {
			username := ""
			if row.Username != nil {
				username = *row.Username
			}
			userName := utils.StringOrDash(row.UserName)
			if userName == "-" && username != "" {
				userName = username
			}
			t = &userTally{
				item: models.AttendanceSummaryItem{
					UserID:       row.UserID,
					UserName:     userName,
					Username:     username,
					PositionName: utils.StringOrDash(row.PositionName),
					OrgName:      utils.StringOrDash(row.OrgName),
					WorkDays:     workDays,
				},
				dates:   map[string]struct{}{},
				present: map[string]struct{}{},
			}
			tallies[row.UserID] = t
			order = append(order, row.UserID)
		}

		rec := row.Record
		if rec == nil {
			continue
		}
		t.dates[rec.Date] = struct{}{}
		if rec.CheckinTime != nil || rec.CheckoutTime != nil {
			t.present[rec.Date] = struct{}{}
		}
		if rec.IsComplete() {
			t.completed++
			// A re-check-in after checkout can leave checkout earlier than checkin.
			if h := rec.CheckoutTime.Sub(*rec.CheckinTime).Hours(); h > 0 {
				t.hoursSum += h
			}
		}
	}

	data := make([]models.AttendanceSummaryItem, 0, len(order))
	for _, id := range order {
		t := tallies[id]
		t.item.AttendanceDays = len(t.dates)
		t.item.CompleteDays = t.completed
		if absent := workDays - len(t.present); absent > 0 {
			t.item.AbsentDays = absent
		}
		if t.completed > 0 {
			t.item.AvgWorkHours = math.Round(t.hoursSum/float64(t.completed)*100) / 100
		}
		data = append(data, t.item)
	}
	sort.SliceStable(data, func(i, j int) bool {
		return data[i].AttendanceDays > data[j].AttendanceDays
	})

	return &models.AttendanceReport{
		Data:  data,
		Total: len(data),
		Summary: models.AttendanceReportSummary{
			Period:           period,
			TotalWorkingDays: workDays,
			TotalEmployees:   len(data),
		},
	}, nil
}

func (s *reportService) SalaryReport(q SalaryReportQuery) (*models.SalaryReport, error) {
	year := s.now().In(s.loc).Year()
	if q.Year != nil {
		year = *q.Year
	}
	if year < 1900 || year > 9999 {
		return nil, validationf("year %d is out of range", year)
	}

	items, err := s.salaryRepo.SummarizeYear(year, models.ReportFilter{UserID: q.UserID, Department: q.Department})
	if err != nil {
		return nil, fmt.Errorf("loading salary summary: %w", err)
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalSalary)
	}
	avg := decimal.Zero
	if len(items) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(items)))).Round(2)
	}

	return &models.SalaryReport{
		Data:  items,
		Total: len(items),
		Summary: models.SalaryReportSummary{
			Period:         models.SalaryPeriod{Year: year},
			TotalEmployees: len(items),
			TotalSalary:    total,
			AvgSalary:      avg,
		},
	}, nil
}
