package repositories

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"oa_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUpsertCheckInUsesOnConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	at := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO attendance_records .* ON CONFLICT \(user_id, date\) DO UPDATE SET .* RETURNING id`).
		WithArgs(int64(7), nil, "2025-03-04", at, nil, nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(55)))

	repo := NewAttendanceRepository(db)
	id, err := repo.UpsertCheckIn(db, &models.AttendanceRecord{UserID: 7, Date: "2025-03-04", CheckinTime: &at})
	if err != nil {
		t.Fatalf("UpsertCheckIn: %v", err)
	}
	if id != 55 {
		t.Fatalf("id = %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFindByUserAndDateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM attendance_records ar WHERE ar.user_id = \$1 AND ar.date = \$2`).
		WithArgs(int64(1), "2025-03-04").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewAttendanceRepository(db).FindByUserAndDate(1, "2025-03-04")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSetCheckOutMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE attendance_records SET checkout_time = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewAttendanceRepository(db).SetCheckOut(db, 99, time.Now(), nil, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListForReportKeepsUsersWithoutRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	in := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2025, 1, 2, 18, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "real_name", "username", "position", "org", "ar_id", "date", "checkin_time", "checkout_time"}).
		AddRow(int64(1), "Alice", "alice", "Engineer", "R&D", int64(10), "2025-01-02", in, out).
		AddRow(int64(1), "Alice", "alice", "Engineer", "R&D", int64(11), "2025-01-03", in, nil).
		AddRow(int64(2), nil, "bob", nil, "R&D", nil, nil, nil, nil)

	mock.ExpectQuery(`FROM users u .* LEFT JOIN attendance_records ar ON ar.user_id = u.id AND ar.date >= \$1 AND ar.date <= \$2 .* AND o.name = \$3 ORDER BY u.id, ar.date`).
		WithArgs("2025-01-01", "2025-01-31", "R&D").
		WillReturnRows(rows)

	got, err := NewAttendanceRepository(db).ListForReport("2025-01-01", "2025-01-31", models.ReportFilter{Department: "R&D"})
	if err != nil {
		t.Fatalf("ListForReport: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d", len(got))
	}
	if got[0].Record == nil || got[0].Record.CheckoutTime == nil || !got[0].Record.CheckoutTime.Equal(out) {
		t.Fatalf("first record = %+v", got[0].Record)
	}
	if got[1].Record == nil || got[1].Record.CheckoutTime != nil {
		t.Fatalf("second record = %+v", got[1].Record)
	}
	if got[2].Record != nil || got[2].UserName != nil || got[2].PositionName != nil || *got[2].Username != "bob" {
		t.Fatalf("user without records = %+v", got[2])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListForReportKeepsRequestedInactiveUser(t *testing.T) {
	var query string
	matcher := sqlmock.QueryMatcherFunc(func(_, actual string) error {
		query = actual
		if strings.Contains(actual, "is_active") {
			return fmt.Errorf("query filters on is_active: %s", actual)
		}
		return nil
	})
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery("attendance report").
		WithArgs("2025-01-01", "2025-01-31", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "real_name", "username", "position", "org", "ar_id", "date", "checkin_time", "checkout_time"}).
			AddRow(int64(7), "Retired", "retired", nil, nil, nil, nil, nil, nil))

	userID := int64(7)
	got, err := NewAttendanceRepository(db).ListForReport("2025-01-01", "2025-01-31", models.ReportFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("ListForReport: %v", err)
	}
	if !strings.Contains(query, "WHERE u.id = $3") {
		t.Errorf("query = %s", query)
	}
	if len(got) != 1 || got[0].UserID != 7 || got[0].Record != nil {
		t.Fatalf("rows = %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListAttendancePaginates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	now := time.Now()
	cols := []string{"id", "user_id", "position_id", "date", "checkin_time", "checkout_time",
		"checkin_location", "checkout_location", "checkin_notes", "checkout_notes", "created_at", "updated_at",
		"real_name", "username", "position", "total_count"}
	mock.ExpectQuery(`WHERE ar.user_id = \$1 ORDER BY ar.date DESC, ar.created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(int64(4), 10, 10).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(3), int64(4), nil, "2025-01-02", now, nil, "HQ", nil, nil, nil, now, now, "Dana", "dana", nil, 11))

	userID := int64(4)
	records, total, err := NewAttendanceRepository(db).List(models.AttendanceFilter{UserID: &userID, Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 11 || len(records) != 1 {
		t.Fatalf("total = %d, records = %d", total, len(records))
	}
	r := records[0]
	if r.CheckoutTime != nil || r.CheckinLocation == nil || *r.CheckinLocation != "HQ" || *r.UserName != "Dana" || r.PositionName != nil {
		t.Fatalf("record = %+v", r)
	}
}
