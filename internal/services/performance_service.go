package services

import (
	"database/sql"
	"fmt"

	"oa_backend/internal/models"
	"oa_backend/internal/repositories"
	"oa_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

type PerformanceRequest struct {
	EmployeeID     int64           `json:"employee_id" binding:"required,gt=0"`
	EvaluationDate string          `json:"evaluation_date" binding:"required,isodate"`
	Score          decimal.Decimal `json:"score"`
	Comments       string          `json:"comments" binding:"required"`
}

type PerformanceService interface {
	List(filter repositories.PerformanceFilter) ([]models.Performance, int, error)
	Create(req PerformanceRequest) (*models.Performance, error)
	Update(id int64, req PerformanceRequest) (*models.Performance, error)
	Delete(id int64) error
}

type performanceService struct {
	repo repositories.PerformanceRepository
	db   *sql.DB
}

func NewPerformanceService(repo repositories.PerformanceRepository, db *sql.DB) PerformanceService {
	return &performanceService{repo: repo, db: db}
}

var maxScore = decimal.NewFromInt(100)

func performanceFromRequest(req PerformanceRequest) (*models.Performance, error) {
	if req.EmployeeID <= 0 {
		return nil, validationf("employee_id must be a positive integer")
	}
	if _, err := utils.ParseDate(req.EvaluationDate); err != nil {
		return nil, fmt.Errorf("%w: evaluation_date: %v", ErrValidation, err)
	}
	if req.Score.IsNegative() || req.Score.GreaterThan(maxScore) {
		return nil, validationf("score must be between 0 and 100")
	}
	if utils.IsEmpty(req.Comments) {
		return nil, validationf("comments are required")
	}
	return &models.Performance{
		EmployeeID:     req.EmployeeID,
		EvaluationDate: req.EvaluationDate,
		Score:          req.Score,
		Comments:       req.Comments,
	}, nil
}

func (s *performanceService) List(filter repositories.PerformanceFilter) ([]models.Performance, int, error) {
	filter.Page, filter.Limit = utils.NormalizePage(filter.Page, filter.Limit)
	result, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("listing performance: %w", err)
	}
	return result, total, nil
}

func (s *performanceService) Create(req PerformanceRequest) (*models.Performance, error) {
	p, err := performanceFromRequest(req)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(s.db, p)
	if err != nil {
		return nil, translateRepoError(err, fmt.Sprintf("performance for employee %d", req.EmployeeID))
	}
	return created, nil
}

func (s *performanceService) Update(id int64, req PerformanceRequest) (*models.Performance, error) {
	p, err := performanceFromRequest(req)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.repo.Update(s.db, p); err != nil {
		return nil, translateRepoError(err, fmt.Sprintf("performance %d", id))
	}
	return p, nil
}

func (s *performanceService) Delete(id int64) error {
	return translateRepoError(s.repo.Delete(s.db, id), fmt.Sprintf("performance %d", id))
}
