package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Performance is a scored evaluation of an employee.
type Performance struct {
	ID             int64           `json:"id" db:"id"`
	EmployeeID     int64           `json:"employee_id" db:"employee_id"`
	EvaluationDate string          `json:"evaluation_date" db:"evaluation_date"`
	Score          decimal.Decimal `json:"score" db:"score"`
	Comments       string          `json:"comments" db:"comments"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`

	EmployeeName *string `json:"employee_name,omitempty"`
}
