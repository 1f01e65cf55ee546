package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostCenter is an accounting grouping that costs are allocated from and to.
type CostCenter struct {
	ID          int64     `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	CostType    *string   `json:"cost_type,omitempty" db:"cost_type"`
	Description *string   `json:"description,omitempty" db:"description"`
	ParentID    int64     `json:"parent_id" db:"parent_id"`
	Status      int       `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CostAllocation moves an amount from one cost center to another.
type CostAllocation struct {
	ID             int64           `json:"id" db:"id"`
	FromCenter     int64           `json:"from_center" db:"from_center"`
	ToCenter       int64           `json:"to_center" db:"to_center"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	AllocationDate string          `json:"allocation_date" db:"allocation_date"`
	Description    *string         `json:"description,omitempty" db:"description"`
	Notes          *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`

	FromCenterName *string `json:"from_center_name,omitempty"`
	ToCenterName   *string `json:"to_center_name,omitempty"`
}
