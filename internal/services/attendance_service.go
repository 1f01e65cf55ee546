package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"oa_backend/internal/models"
	"oa_backend/internal/repositories"
	"oa_backend/pkg/utils"
)

// --- Attendance DTOs ---

// CheckInRequest is the body of a punch.
type CheckInRequest struct {
	UserID     int64   `json:"user_id" binding:"required,gt=0"`
	PositionID *int64  `json:"position_id"`
	Type       string  `json:"type" binding:"required,oneof=checkin checkout"`
	Location   *string `json:"location"`
	Notes      *string `json:"notes"`
}

// CheckInResult reports which record the punch landed on.
type CheckInResult struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// AttendanceRecordRequest is the body of a manual create.
type AttendanceRecordRequest struct {
	UserID           int64   `json:"user_id" binding:"required,gt=0"`
	PositionID       *int64  `json:"position_id"`
	Date             string  `json:"date" binding:"required,isodate"`
	CheckinTime      *string `json:"checkin_time"`
	CheckoutTime     *string `json:"checkout_time"`
	CheckinLocation  *string `json:"checkin_location"`
	CheckoutLocation *string `json:"checkout_location"`
	CheckinNotes     *string `json:"checkin_notes"`
	CheckoutNotes    *string `json:"checkout_notes"`
}

// UpdateAttendanceRecordRequest overwrites the time, location and note columns.
type UpdateAttendanceRecordRequest struct {
	CheckinTime      *string `json:"checkin_time"`
	CheckoutTime     *string `json:"checkout_time"`
	CheckinLocation  *string `json:"checkin_location"`
	CheckoutLocation *string `json:"checkout_location"`
	CheckinNotes     *string `json:"checkin_notes"`
	CheckoutNotes    *string `json:"checkout_notes"`
}

// AttendanceService is the check-in/out transition plus manual record maintenance.
type AttendanceService interface {
	CheckInOut(req CheckInRequest) (*CheckInResult, error)

	ListRecords(filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error)
	CreateRecord(req AttendanceRecordRequest) (*models.AttendanceRecord, error)
	UpdateRecord(id int64, req UpdateAttendanceRecordRequest) error
	DeleteRecord(id int64) error
}

type attendanceService struct {
	repo repositories.AttendanceRepository
	db   *sql.DB
	loc  *time.Location
	now  func() time.Time
}

// NewAttendanceService creates the service. loc decides which calendar day a punch belongs to.
func NewAttendanceService(repo repositories.AttendanceRepository, db *sql.DB, loc *time.Location) AttendanceService {
	if loc == nil {
		loc = time.Local
	}
	return &attendanceService{repo: repo, db: db, loc: loc, now: time.Now}
}

func (s *attendanceService) CheckInOut(req CheckInRequest) (*CheckInResult, error) {
	if req.UserID <= 0 {
		return nil, validationf("user_id must be a positive integer")
	}
	if req.Type != models.PunchCheckIn && req.Type != models.PunchCheckOut {
		return nil, validationf("type must be %s or %s", models.PunchCheckIn, models.PunchCheckOut)
	}

	now := s.now().In(s.loc)
	today := now.Format(utils.DateLayout)

	if req.Type == models.PunchCheckIn {
		rec := &models.AttendanceRecord{
			UserID:          req.UserID,
			PositionID:      req.PositionID,
			Date:            today,
			CheckinTime:     &now,
			CheckinLocation: req.Location,
			CheckinNotes:    req.Notes,
		}
		id, err := s.repo.UpsertCheckIn(s.db, rec)
		if err != nil {
			return nil, translateRepoError(err, "check in")
		}
		return &CheckInResult{Message: "check-in recorded", ID: id}, nil
	}

	existing, err := s.repo.FindByUserAndDate(req.UserID, today)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: must check in before checking out", ErrPreconditionFailed)
		}
		return nil, fmt.Errorf("looking up today's attendance: %w", err)
	}
	if existing.CheckinTime != nil && now.Before(*existing.CheckinTime) {
		return nil, validationf("check-out time %s is earlier than check-in time %s",
			now.Format(time.RFC3339), existing.CheckinTime.In(s.loc).Format(time.RFC3339))
	}
	if err := s.repo.SetCheckOut(s.db, existing.ID, now, req.Location, req.Notes); err != nil {
		return nil, translateRepoError(err, "check out")
	}
	return &CheckInResult{Message: "check-out recorded", ID: existing.ID}, nil
}

func (s *attendanceService) ListRecords(filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	filter.Page, filter.Limit = utils.NormalizePage(filter.Page, filter.Limit)
	for _, d := range []*string{filter.Date, filter.StartDate, filter.EndDate} {
		if d == nil {
			continue
		}
		if _, err := utils.ParseDate(*d); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	records, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("listing attendance records: %w", err)
	}
	return records, total, nil
}

// parseTimestamp accepts RFC3339 or a bare "YYYY-MM-DD HH:MM:SS" in the service location.
func (s *attendanceService) parseTimestamp(field string, v *string) (*time.Time, error) {
	if v == nil || utils.IsEmpty(*v) {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *v); err == nil {
		return &t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, *v, s.loc); err == nil {
			return &t, nil
		}
	}
	return nil, validationf("%s %q is not a valid timestamp", field, *v)
}

func (s *attendanceService) applyTimes(rec *models.AttendanceRecord, checkin, checkout *string) error {
	in, err := s.parseTimestamp("checkin_time", checkin)
	if err != nil {
		return err
	}
	out, err := s.parseTimestamp("checkout_time", checkout)
	if err != nil {
		return err
	}
	if in != nil && out != nil && out.Before(*in) {
		return validationf("checkout_time must not be earlier than checkin_time")
	}
	rec.CheckinTime, rec.CheckoutTime = in, out
	return nil
}

func (s *attendanceService) CreateRecord(req AttendanceRecordRequest) (*models.AttendanceRecord, error) {
	if req.UserID <= 0 {
		return nil, validationf("user_id must be a positive integer")
	}
	if _, err := utils.ParseDate(req.Date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	rec := &models.AttendanceRecord{
		UserID:           req.UserID,
		PositionID:       req.PositionID,
		Date:             req.Date,
		CheckinLocation:  req.CheckinLocation,
		CheckoutLocation: req.CheckoutLocation,
		CheckinNotes:     req.CheckinNotes,
		CheckoutNotes:    req.CheckoutNotes,
	}
	if err := s.applyTimes(rec, req.CheckinTime, req.CheckoutTime); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(s.db, rec)
	if err != nil {
		return nil, translateRepoError(err, fmt.Sprintf("attendance for user %d on %s", req.UserID, req.Date))
	}
	return created, nil
}

func (s *attendanceService) UpdateRecord(id int64, req UpdateAttendanceRecordRequest) error {
	rec := &models.AttendanceRecord{
		ID:               id,
		CheckinLocation:  req.CheckinLocation,
		CheckoutLocation: req.CheckoutLocation,
		CheckinNotes:     req.CheckinNotes,
		CheckoutNotes:    req.CheckoutNotes,
	}
	if err := s.applyTimes(rec, req.CheckinTime, req.CheckoutTime); err != nil {
		return err
	}
	return translateRepoError(s.repo.Update(s.db, rec), fmt.Sprintf("attendance record %d", id))
}

func (s *attendanceService) DeleteRecord(id int64) error {
	return translateRepoError(s.repo.Delete(s.db, id), fmt.Sprintf("attendance record %d", id))
}
