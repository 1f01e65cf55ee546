package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"oa_backend/internal/models"
)

// AttendanceRepository defines the database operations over attendance_records.
type AttendanceRepository interface {
	FindByUserAndDate(userID int64, date string) (*models.AttendanceRecord, error)
	GetByID(id int64) (*models.AttendanceRecord, error)
	List(filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error)
	Create(executor SQLExecutor, rec *models.AttendanceRecord) (*models.AttendanceRecord, error)
	Update(executor SQLExecutor, rec *models.AttendanceRecord) error
	Delete(executor SQLExecutor, id int64) error

	// UpsertCheckIn inserts the day's row or overwrites its check-in half.
	UpsertCheckIn(executor SQLExecutor, rec *models.AttendanceRecord) (int64, error)
	// SetCheckOut overwrites the check-out half of an existing row.
	SetCheckOut(executor SQLExecutor, id int64, at time.Time, location, notes *string) error

	// ListForReport returns one row per (user, record in window); users without
	// records in the window appear once with a nil Record.
	ListForReport(start, end string, filter models.ReportFilter) ([]models.AttendanceReportRow, error)
}

type attendanceRepository struct {
	db *sql.DB
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
func NewAttendanceRepository(db *sql.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `ar.id, ar.user_id, ar.position_id, TO_CHAR(ar.date, 'YYYY-MM-DD'),
	ar.checkin_time, ar.checkout_time, ar.checkin_location, ar.checkout_location,
	ar.checkin_notes, ar.checkout_notes, ar.created_at, ar.updated_at`

func scanAttendance(row scanner, extra ...interface{}) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	var positionID sql.NullInt64
	var checkin, checkout sql.NullTime
	var inLoc, outLoc, inNotes, outNotes sql.NullString

	dest := []interface{}{
		&rec.ID, &rec.UserID, &positionID, &rec.Date,
		&checkin, &checkout, &inLoc, &outLoc,
		&inNotes, &outNotes, &rec.CreatedAt, &rec.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if positionID.Valid {
		rec.PositionID = &positionID.Int64
	}
	if checkin.Valid {
		rec.CheckinTime = &checkin.Time
	}
	if checkout.Valid {
		rec.CheckoutTime = &checkout.Time
	}
	rec.CheckinLocation = nullStringPtr(inLoc)
	rec.CheckoutLocation = nullStringPtr(outLoc)
	rec.CheckinNotes = nullStringPtr(inNotes)
	rec.CheckoutNotes = nullStringPtr(outNotes)
	return &rec, nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func (r *attendanceRepository) FindByUserAndDate(userID int64, date string) (*models.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + `
	          FROM attendance_records ar
	          WHERE ar.user_id = $1 AND ar.date = $2`
	rec, err := scanAttendance(r.db.QueryRow(query, userID, date))
	if err != nil {
		return nil, classify(err, fmt.Sprintf("finding attendance for user %d on %s", userID, date))
	}
	return rec, nil
}

func (r *attendanceRepository) GetByID(id int64) (*models.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + `
	          FROM attendance_records ar
	          WHERE ar.id = $1`
	rec, err := scanAttendance(r.db.QueryRow(query, id))
	if err != nil {
		return nil, classify(err, fmt.Sprintf("getting attendance record %d", id))
	}
	return rec, nil
}

func (r *attendanceRepository) List(filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	records := []models.AttendanceRecord{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + attendanceColumns + `,
	    u.real_name, u.username, p.name,
	    COUNT(*) OVER() as total_count
	  FROM attendance_records ar
	  LEFT JOIN users u ON ar.user_id = u.id
	  LEFT JOIN positions p ON ar.position_id = p.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("ar.user_id = $%d", argCount))
		args = append(args, *filter.UserID)
		argCount++
	}
	if filter.Date != nil {
		conditions = append(conditions, fmt.Sprintf("ar.date = $%d", argCount))
		args = append(args, *filter.Date)
		argCount++
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("ar.date BETWEEN $%d AND $%d", argCount, argCount+1))
		args = append(args, *filter.StartDate, *filter.EndDate)
		argCount += 2
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY ar.date DESC, ar.created_at DESC")

	clause, args := pageClause(filter.Page, filter.Limit, argCount, args)
	queryBuilder.WriteString(clause)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying attendance records: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var userName, username, positionName sql.NullString
		var rowTotal int
		rec, err := scanAttendance(rows, &userName, &username, &positionName, &rowTotal)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning attendance record: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal
		rec.UserName = nullStringPtr(userName)
		rec.Username = nullStringPtr(username)
		rec.PositionName = nullStringPtr(positionName)
		records = append(records, *rec)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating attendance rows: %v", ErrDatabaseError, err)
	}
	return records, totalCount, nil
}

func (r *attendanceRepository) Create(executor SQLExecutor, rec *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	query := `INSERT INTO attendance_records
	            (user_id, position_id, date, checkin_time, checkout_time, checkin_location,
	             checkout_location, checkin_notes, checkout_notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	          RETURNING id, created_at, updated_at`

	err := executor.QueryRow(query,
		rec.UserID, rec.PositionID, rec.Date, rec.CheckinTime, rec.CheckoutTime,
		rec.CheckinLocation, rec.CheckoutLocation, rec.CheckinNotes, rec.CheckoutNotes, time.Now(),
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("creating attendance for user %d on %s", rec.UserID, rec.Date))
	}
	return rec, nil
}

func (r *attendanceRepository) Update(executor SQLExecutor, rec *models.AttendanceRecord) error {
	query := `UPDATE attendance_records SET
	            checkin_time = $1, checkout_time = $2, checkin_location = $3, checkout_location = $4,
	            checkin_notes = $5, checkout_notes = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		rec.CheckinTime, rec.CheckoutTime, rec.CheckinLocation, rec.CheckoutLocation,
		rec.CheckinNotes, rec.CheckoutNotes, time.Now(), rec.ID,
	)
	if err != nil {
		return classify(err, fmt.Sprintf("updating attendance record %d", rec.ID))
	}
	return expectAffected(result, fmt.Sprintf("updating attendance record %d", rec.ID))
}

func (r *attendanceRepository) Delete(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return classify(err, fmt.Sprintf("deleting attendance record %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting attendance record %d", id))
}

func (r *attendanceRepository) UpsertCheckIn(executor SQLExecutor, rec *models.AttendanceRecord) (int64, error) {
	query := `INSERT INTO attendance_records
	            (user_id, position_id, date, checkin_time, checkin_location, checkin_notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	          ON CONFLICT (user_id, date) DO UPDATE SET
	            position_id = COALESCE(EXCLUDED.position_id, attendance_records.position_id),
	            checkin_time = EXCLUDED.checkin_time,
	            checkin_location = EXCLUDED.checkin_location,
	            checkin_notes = EXCLUDED.checkin_notes,
	            updated_at = EXCLUDED.updated_at
	          RETURNING id`

	var id int64
	err := executor.QueryRow(query,
		rec.UserID, rec.PositionID, rec.Date, rec.CheckinTime,
		rec.CheckinLocation, rec.CheckinNotes, time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, classify(err, fmt.Sprintf("checking in user %d on %s", rec.UserID, rec.Date))
	}
	return id, nil
}

func (r *attendanceRepository) SetCheckOut(executor SQLExecutor, id int64, at time.Time, location, notes *string) error {
	query := `UPDATE attendance_records SET
	            checkout_time = $1, checkout_location = $2, checkout_notes = $3, updated_at = $4
	          WHERE id = $5`
	result, err := executor.Exec(query, at, location, notes, time.Now(), id)
	if err != nil {
		return classify(err, fmt.Sprintf("checking out attendance record %d", id))
	}
	return expectAffected(result, fmt.Sprintf("checking out attendance record %d", id))
}

func (r *attendanceRepository) ListForReport(start, end string, filter models.ReportFilter) ([]models.AttendanceReportRow, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    u.id, u.real_name, u.username, p.name, o.name,
	    ar.id, TO_CHAR(ar.date, 'YYYY-MM-DD'), ar.checkin_time, ar.checkout_time
	  FROM users u
	  LEFT JOIN positions p ON u.position_id = p.id
	  LEFT JOIN organizations o ON u.organization_id = o.id
	  LEFT JOIN attendance_records ar ON ar.user_id = u.id AND ar.date >= $1 AND ar.date <= $2`)

	args := []interface{}{start, end}
	argCount := 3
	// A user asked for by id is reported even when inactive and idle.
	if filter.UserID != nil {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE u.id = $%d", argCount))
		args = append(args, *filter.UserID)
		argCount++
	} else {
		queryBuilder.WriteString(" WHERE (u.is_active = TRUE OR ar.id IS NOT NULL)")
	}
	if filter.Department != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND o.name = $%d", argCount))
		args = append(args, filter.Department)
	}
	queryBuilder.WriteString(" ORDER BY u.id, ar.date")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying attendance report: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	result := []models.AttendanceReportRow{}
	for rows.Next() {
		var row models.AttendanceReportRow
		var realName, username, positionName, orgName, date sql.NullString
		var recordID sql.NullInt64
		var checkin, checkout sql.NullTime
		if err := rows.Scan(
			&row.UserID, &realName, &username, &positionName, &orgName,
			&recordID, &date, &checkin, &checkout,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning attendance report row: %v", ErrDatabaseError, err)
		}
		row.UserName = nullStringPtr(realName)
		row.Username = nullStringPtr(username)
		row.PositionName = nullStringPtr(positionName)
		row.OrgName = nullStringPtr(orgName)
		if recordID.Valid {
			rec := &models.AttendanceRecord{ID: recordID.Int64, UserID: row.UserID, Date: date.String}
			if checkin.Valid {
				rec.CheckinTime = &checkin.Time
			}
			if checkout.Valid {
				rec.CheckoutTime = &checkout.Time
			}
			row.Record = rec
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating attendance report rows: %v", ErrDatabaseError, err)
	}
	return result, nil
}
