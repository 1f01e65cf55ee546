package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryRecord is a user's pay for one month. (UserID, Year, Month) is unique.
type SalaryRecord struct {
	ID         int64           `json:"id" db:"id"`
	UserID     int64           `json:"user_id" db:"user_id"`
	Year       int             `json:"year" db:"year"`
	Month      int             `json:"month" db:"month"`
	BaseSalary decimal.Decimal `json:"base_salary" db:"base_salary"`
	Bonus      decimal.Decimal `json:"bonus" db:"bonus"`
	Allowance  decimal.Decimal `json:"allowance" db:"allowance"`
	Deduction  decimal.Decimal `json:"deduction" db:"deduction"`
	Notes      *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`

	UserName     *string `json:"user_name,omitempty"`
	PositionName *string `json:"position_name,omitempty"`
}

// Total is base salary plus bonus and allowance, minus deduction.
func (s *SalaryRecord) Total() decimal.Decimal {
	return s.BaseSalary.Add(s.Bonus).Add(s.Allowance).Sub(s.Deduction)
}

// SalaryFilter narrows salary record listings.
type SalaryFilter struct {
	UserID *int64
	Year   *int
	Month  *int
	Page   int
	Limit  int
}
