package services

import (
	"fmt"
	"sort"
	"time"

	"oa_backend/internal/models"
	"oa_backend/internal/repositories"
)

// memAttendanceRepo keeps attendance rows in memory and enforces the (user_id, date) key.
type memAttendanceRepo struct {
	nextID  int64
	records map[int64]*models.AttendanceRecord
	users   []models.AttendanceReportRow // subject rows, Record always nil
	err     error                        // returned by every call when set
}

func newMemAttendanceRepo() *memAttendanceRepo {
	return &memAttendanceRepo{records: map[int64]*models.AttendanceRecord{}}
}

func (m *memAttendanceRepo) addUser(id int64, realName, username, position, org string) {
	m.users = append(m.users, models.AttendanceReportRow{
		UserID:       id,
		UserName:     optional(realName),
		Username:     optional(username),
		PositionName: optional(position),
		OrgName:      optional(org),
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (m *memAttendanceRepo) find(userID int64, date string) *models.AttendanceRecord {
	for _, r := range m.records {
		if r.UserID == userID && r.Date == date {
			return r
		}
	}
	return nil
}

func (m *memAttendanceRepo) FindByUserAndDate(userID int64, date string) (*models.AttendanceRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	r := m.find(userID, date)
	if r == nil {
		return nil, repositories.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memAttendanceRepo) GetByID(id int64) (*models.AttendanceRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memAttendanceRepo) List(filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	out := []models.AttendanceRecord{}
	for _, r := range m.records {
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *memAttendanceRepo) Create(_ repositories.SQLExecutor, rec *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.find(rec.UserID, rec.Date) != nil {
		return nil, fmt.Errorf("%w: attendance_records_user_id_date_key", repositories.ErrDuplicateKey)
	}
	m.nextID++
	rec.ID = m.nextID
	cp := *rec
	m.records[rec.ID] = &cp
	return rec, nil
}

func (m *memAttendanceRepo) Update(_ repositories.SQLExecutor, rec *models.AttendanceRecord) error {
	if m.err != nil {
		return m.err
	}
	r, ok := m.records[rec.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	r.CheckinTime, r.CheckoutTime = rec.CheckinTime, rec.CheckoutTime
	r.CheckinLocation, r.CheckoutLocation = rec.CheckinLocation, rec.CheckoutLocation
	r.CheckinNotes, r.CheckoutNotes = rec.CheckinNotes, rec.CheckoutNotes
	return nil
}

func (m *memAttendanceRepo) Delete(_ repositories.SQLExecutor, id int64) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.records[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memAttendanceRepo) UpsertCheckIn(_ repositories.SQLExecutor, rec *models.AttendanceRecord) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if r := m.find(rec.UserID, rec.Date); r != nil {
		if rec.PositionID != nil {
			r.PositionID = rec.PositionID
		}
		r.CheckinTime, r.CheckinLocation, r.CheckinNotes = rec.CheckinTime, rec.CheckinLocation, rec.CheckinNotes
		return r.ID, nil
	}
	m.nextID++
	cp := *rec
	cp.ID = m.nextID
	m.records[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memAttendanceRepo) SetCheckOut(_ repositories.SQLExecutor, id int64, at time.Time, location, notes *string) error {
	if m.err != nil {
		return m.err
	}
	r, ok := m.records[id]
	if !ok {
		return repositories.ErrNotFound
	}
	r.CheckoutTime, r.CheckoutLocation, r.CheckoutNotes = &at, location, notes
	return nil
}

func (m *memAttendanceRepo) ListForReport(start, end string, filter models.ReportFilter) ([]models.AttendanceReportRow, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []models.AttendanceReportRow
	for _, u := range m.users {
		if filter.UserID != nil && u.UserID != *filter.UserID {
			continue
		}
		if filter.Department != "" && (u.OrgName == nil || *u.OrgName != filter.Department) {
			continue
		}
		var recs []*models.AttendanceRecord
		for _, r := range m.records {
			if r.UserID == u.UserID && r.Date >= start && r.Date <= end {
				recs = append(recs, r)
			}
		}
		sort.Slice(recs, func(i, j int) bool { return recs[i].Date < recs[j].Date })
		if len(recs) == 0 {
			out = append(out, u)
			continue
		}
		for _, r := range recs {
			row := u
			cp := *r
			row.Record = &cp
			out = append(out, row)
		}
	}
	return out, nil
}

// memSalaryRepo serves SummarizeYear from a fixed slice.
type memSalaryRepo struct {
	nextID  int64
	records map[int64]*models.SalaryRecord
	summary []models.SalarySummaryItem
	year    int
}

func newMemSalaryRepo() *memSalaryRepo {
	return &memSalaryRepo{records: map[int64]*models.SalaryRecord{}}
}

func (m *memSalaryRepo) GetByID(id int64) (*models.SalaryRecord, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memSalaryRepo) List(filter models.SalaryFilter) ([]models.SalaryRecord, int, error) {
	out := []models.SalaryRecord{}
	for _, r := range m.records {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *memSalaryRepo) Create(_ repositories.SQLExecutor, rec *models.SalaryRecord) (*models.SalaryRecord, error) {
	for _, r := range m.records {
		if r.UserID == rec.UserID && r.Year == rec.Year && r.Month == rec.Month {
			return nil, fmt.Errorf("%w: salary_records_user_id_year_month_key", repositories.ErrDuplicateKey)
		}
	}
	m.nextID++
	rec.ID = m.nextID
	cp := *rec
	m.records[rec.ID] = &cp
	return rec, nil
}

func (m *memSalaryRepo) Update(_ repositories.SQLExecutor, rec *models.SalaryRecord) error {
	if _, ok := m.records[rec.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *memSalaryRepo) Delete(_ repositories.SQLExecutor, id int64) error {
	if _, ok := m.records[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memSalaryRepo) SummarizeYear(year int, _ models.ReportFilter) ([]models.SalarySummaryItem, error) {
	m.year = year
	return m.summary, nil
}

// memCostRepo keeps centers and allocations in memory.
type memCostRepo struct {
	nextID      int64
	centers     map[int64]*models.CostCenter
	allocations map[int64]*models.CostAllocation
}

func newMemCostRepo() *memCostRepo {
	return &memCostRepo{centers: map[int64]*models.CostCenter{}, allocations: map[int64]*models.CostAllocation{}}
}

func (m *memCostRepo) GetCenterByID(id int64) (*models.CostCenter, error) {
	c, ok := m.centers[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCostRepo) ListCenters(repositories.CostCenterFilter) ([]models.CostCenter, int, error) {
	out := []models.CostCenter{}
	for _, c := range m.centers {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *memCostRepo) CreateCenter(_ repositories.SQLExecutor, center *models.CostCenter) (*models.CostCenter, error) {
	for _, c := range m.centers {
		if c.Code == center.Code {
			return nil, fmt.Errorf("%w: cost_centers_code_key", repositories.ErrDuplicateKey)
		}
	}
	m.nextID++
	center.ID = m.nextID
	cp := *center
	m.centers[center.ID] = &cp
	return center, nil
}

func (m *memCostRepo) UpdateCenter(_ repositories.SQLExecutor, center *models.CostCenter) error {
	if _, ok := m.centers[center.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *center
	m.centers[center.ID] = &cp
	return nil
}

func (m *memCostRepo) DeleteCenter(_ repositories.SQLExecutor, id int64) error {
	if _, ok := m.centers[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.centers, id)
	return nil
}

func (m *memCostRepo) CountAllocationsFor(centerID int64) (int, error) {
	n := 0
	for _, a := range m.allocations {
		if a.FromCenter == centerID || a.ToCenter == centerID {
			n++
		}
	}
	return n, nil
}

func (m *memCostRepo) GetAllocationByID(id int64) (*models.CostAllocation, error) {
	a, ok := m.allocations[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memCostRepo) ListAllocations(repositories.CostAllocationFilter) ([]models.CostAllocation, int, error) {
	out := []models.CostAllocation{}
	for _, a := range m.allocations {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (m *memCostRepo) CreateAllocation(_ repositories.SQLExecutor, alloc *models.CostAllocation) (*models.CostAllocation, error) {
	if _, ok := m.centers[alloc.FromCenter]; !ok {
		return nil, repositories.ErrForeignKey
	}
	if _, ok := m.centers[alloc.ToCenter]; !ok {
		return nil, repositories.ErrForeignKey
	}
	m.nextID++
	alloc.ID = m.nextID
	cp := *alloc
	m.allocations[alloc.ID] = &cp
	return alloc, nil
}

func (m *memCostRepo) UpdateAllocation(_ repositories.SQLExecutor, alloc *models.CostAllocation) error {
	if _, ok := m.allocations[alloc.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *alloc
	m.allocations[alloc.ID] = &cp
	return nil
}

func (m *memCostRepo) DeleteAllocation(_ repositories.SQLExecutor, id int64) error {
	if _, ok := m.allocations[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.allocations, id)
	return nil
}

// fixedClock returns a settable clock for services that read the time.
type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time { return c.t }
