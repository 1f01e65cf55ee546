package models

import "time"

// Attendance punch types.
const (
	PunchCheckIn  = "checkin"
	PunchCheckOut = "checkout"
)

// AttendanceRecord is one user's attendance for one calendar day.
// (UserID, Date) is unique.
type AttendanceRecord struct {
	ID               int64      `json:"id" db:"id"`
	UserID           int64      `json:"user_id" db:"user_id"`
	PositionID       *int64     `json:"position_id,omitempty" db:"position_id"`
	Date             string     `json:"date" db:"date"` // YYYY-MM-DD
	CheckinTime      *time.Time `json:"checkin_time,omitempty" db:"checkin_time"`
	CheckoutTime     *time.Time `json:"checkout_time,omitempty" db:"checkout_time"`
	CheckinLocation  *string    `json:"checkin_location,omitempty" db:"checkin_location"`
	CheckoutLocation *string    `json:"checkout_location,omitempty" db:"checkout_location"`
	CheckinNotes     *string    `json:"checkin_notes,omitempty" db:"checkin_notes"`
	CheckoutNotes    *string    `json:"checkout_notes,omitempty" db:"checkout_notes"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`

	// Joined display columns, only populated by list queries.
	UserName     *string `json:"user_name,omitempty"`
	Username     *string `json:"username,omitempty"`
	PositionName *string `json:"position_name,omitempty"`
}

// IsComplete reports whether both halves of the day are recorded.
func (r *AttendanceRecord) IsComplete() bool {
	return r.CheckinTime != nil && r.CheckoutTime != nil
}

// AttendanceFilter narrows attendance record listings.
type AttendanceFilter struct {
	UserID    *int64
	Date      *string
	StartDate *string
	EndDate   *string
	Page      int
	Limit     int
}
