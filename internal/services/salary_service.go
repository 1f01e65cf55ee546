package services

import (
	"database/sql"
	"fmt"

	"oa_backend/internal/models"
	"oa_backend/internal/repositories"
	"oa_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// --- Salary DTOs ---
type CreateSalaryRecordRequest struct {
	UserID     int64            `json:"user_id" binding:"required,gt=0"`
	Year       int              `json:"year" binding:"required,min=1900,max=9999"`
	Month      int              `json:"month" binding:"required,min=1,max=12"`
	BaseSalary decimal.Decimal  `json:"base_salary"`
	Bonus      *decimal.Decimal `json:"bonus"`
	Allowance  *decimal.Decimal `json:"allowance"`
	Deduction  *decimal.Decimal `json:"deduction"`
	Notes      *string          `json:"notes"`
}

// UpdateSalaryRecordRequest changes amounts only; the (user, year, month) key is fixed.
type UpdateSalaryRecordRequest struct {
	BaseSalary *decimal.Decimal `json:"base_salary"`
	Bonus      *decimal.Decimal `json:"bonus"`
	Allowance  *decimal.Decimal `json:"allowance"`
	Deduction  *decimal.Decimal `json:"deduction"`
	Notes      *string          `json:"notes"`
}

type SalaryService interface {
	ListRecords(filter models.SalaryFilter) ([]models.SalaryRecord, int, error)
	GetRecord(id int64) (*models.SalaryRecord, error)
	CreateRecord(req CreateSalaryRecordRequest) (*models.SalaryRecord, error)
	UpdateRecord(id int64, req UpdateSalaryRecordRequest) (*models.SalaryRecord, error)
	DeleteRecord(id int64) error
}

type salaryService struct {
	repo repositories.SalaryRepository
	db   *sql.DB
}

func NewSalaryService(repo repositories.SalaryRepository, db *sql.DB) SalaryService {
	return &salaryService{repo: repo, db: db}
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// salaryPrecision matches the NUMERIC(12, 2) salary columns.
const salaryPrecision = 12

func checkAmounts(rec *models.SalaryRecord) error {
	for name, v := range map[string]decimal.Decimal{
		"base_salary": rec.BaseSalary,
		"bonus":       rec.Bonus,
		"allowance":   rec.Allowance,
		"deduction":   rec.Deduction,
	} {
		if v.IsNegative() {
			return validationf("%s must not be negative", name)
		}
		if err := checkMoney(name, v, salaryPrecision); err != nil {
			return err
		}
	}
	return nil
}

func (s *salaryService) ListRecords(filter models.SalaryFilter) ([]models.SalaryRecord, int, error) {
	filter.Page, filter.Limit = utils.NormalizePage(filter.Page, filter.Limit)
	if filter.Month != nil && (*filter.Month < 1 || *filter.Month > 12) {
		return nil, 0, validationf("month must be between 1 and 12")
	}
	records, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("listing salary records: %w", err)
	}
	return records, total, nil
}

func (s *salaryService) GetRecord(id int64) (*models.SalaryRecord, error) {
	rec, err := s.repo.GetByID(id)
	if err != nil {
		return nil, translateRepoError(err, fmt.Sprintf("salary record %d", id))
	}
	return rec, nil
}

func (s *salaryService) CreateRecord(req CreateSalaryRecordRequest) (*models.SalaryRecord, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, validationf("month must be between 1 and 12")
	}
	if req.Year < 1900 || req.Year > 9999 {
		return nil, validationf("year %d is out of range", req.Year)
	}
	rec := &models.SalaryRecord{
		UserID:     req.UserID,
		Year:       req.Year,
		Month:      req.Month,
		BaseSalary: req.BaseSalary,
		Bonus:      orZero(req.Bonus),
		Allowance:  orZero(req.Allowance),
		Deduction:  orZero(req.Deduction),
		Notes:      req.Notes,
	}
	if err := checkAmounts(rec); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(s.db, rec)
	if err != nil {
		return nil, translateRepoError(err,
			fmt.Sprintf("salary record for user %d in %d-%02d", req.UserID, req.Year, req.Month))
	}
	return created, nil
}

func (s *salaryService) UpdateRecord(id int64, req UpdateSalaryRecordRequest) (*models.SalaryRecord, error) {
	rec, err := s.repo.GetByID(id)
	if err != nil {
		return nil, translateRepoError(err, fmt.Sprintf("salary record %d", id))
	}
	if req.BaseSalary != nil {
		rec.BaseSalary = *req.BaseSalary
	}
	if req.Bonus != nil {
		rec.Bonus = *req.Bonus
	}
	if req.Allowance != nil {
		rec.Allowance = *req.Allowance
	}
	if req.Deduction != nil {
		rec.Deduction = *req.Deduction
	}
	if req.Notes != nil {
		rec.Notes = req.Notes
	}
	if err := checkAmounts(rec); err != nil {
		return nil, err
	}
	if err := s.repo.Update(s.db, rec); err != nil {
		return nil, translateRepoError(err, fmt.Sprintf("salary record %d", id))
	}
	return rec, nil
}

func (s *salaryService) DeleteRecord(id int64) error {
	return translateRepoError(s.repo.Delete(s.db, id), fmt.Sprintf("salary record %d", id))
}
