package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Talent pool statuses.
const (
	TalentStatusInPool    = 1
	TalentStatusOnboarded = 2
)

// Talent is a candidate kept in the talent pool.
type Talent struct {
	ID                    int64     `json:"id" db:"id"`
	Name                  string    `json:"name" db:"name"`
	Email                 *string   `json:"email,omitempty" db:"email"`
	Phone                 *string   `json:"phone,omitempty" db:"phone"`
	Gender                *string   `json:"gender,omitempty" db:"gender"`
	Age                   *int      `json:"age,omitempty" db:"age"`
	Education             *string   `json:"education,omitempty" db:"education"`
	ExperienceYears       *int      `json:"experience_years,omitempty" db:"experience_years"`
	CurrentPosition       *string   `json:"current_position,omitempty" db:"current_position"`
	CurrentCompany        *string   `json:"current_company,omitempty" db:"current_company"`
	ExpectedSalary        *string   `json:"expected_salary,omitempty" db:"expected_salary"`
	Skills                *string   `json:"skills,omitempty" db:"skills"`
	WorkExperience        *string   `json:"work_experience,omitempty" db:"work_experience"`
	EducationBackground   *string   `json:"education_background,omitempty" db:"education_background"`
	Source                string    `json:"source" db:"source"`
	SourceURL             *string   `json:"source_url,omitempty" db:"source_url"`
	RecruitmentPositionID *int64    `json:"recruitment_position_id,omitempty" db:"recruitment_position_id"`
	Status                int       `json:"status" db:"status"`
	Notes                 *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`

	RecruitmentPositionTitle *string `json:"recruitment_position_title,omitempty"`
}

// OnboardingApplication is a pending hire created from a talent.
type OnboardingApplication struct {
	ID           int64            `json:"id" db:"id"`
	UserID       int64            `json:"user_id" db:"user_id"`
	PositionID   int64            `json:"position_id" db:"position_id"`
	OrgID        int64            `json:"org_id" db:"org_id"`
	StartDate    string           `json:"start_date" db:"start_date"`
	Salary       *decimal.Decimal `json:"salary,omitempty" db:"salary"`
	ContractType *string          `json:"contract_type,omitempty" db:"contract_type"`
	Notes        *string          `json:"notes,omitempty" db:"notes"`
	Status       int              `json:"status" db:"status"`
}
