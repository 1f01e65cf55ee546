package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"oa_backend/internal/models"
	"oa_backend/internal/repositories"
	"oa_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// --- Cost Accounting DTOs ---
type CostCenterRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	CostType    *string `json:"cost_type"`
	Description *string `json:"description"`
	ParentID    int64   `json:"parent_id" binding:"min=0"`
	Status      *int    `json:"status"`
}

type CostAllocationRequest struct {
	FromCenter     int64           `json:"from_center" binding:"required,gt=0"`
	ToCenter       int64           `json:"to_center" binding:"required,gt=0"`
	Amount         decimal.Decimal `json:"amount"`
	AllocationDate *string         `json:"allocation_date"`
	Description    *string         `json:"description"`
	Notes          *string         `json:"notes"`
}

type CostService interface {
	ListCenters(filter repositories.CostCenterFilter) ([]models.CostCenter, int, error)
	CreateCenter(req CostCenterRequest) (*models.CostCenter, error)
	UpdateCenter(id int64, req CostCenterRequest) (*models.CostCenter, error)
	// DeleteCenter refuses while any allocation references the center.
	DeleteCenter(id int64) error

	ListAllocations(filter repositories.CostAllocationFilter) ([]models.CostAllocation, int, error)
	CreateAllocation(req CostAllocationRequest) (*models.CostAllocation, error)
	UpdateAllocation(id int64, req CostAllocationRequest) (*models.CostAllocation, error)
	DeleteAllocation(id int64) error
}

type costService struct {
	repo repositories.CostRepository
	db   *sql.DB
	loc  *time.Location
	now  func() time.Time
}

func NewCostService(repo repositories.CostRepository, db *sql.DB, loc *time.Location) CostService {
	if loc == nil {
		loc = time.Local
	}
	return &costService{repo: repo, db: db, loc: loc, now: time.Now}
}

func (s *costService) ListCenters(filter repositories.CostCenterFilter) ([]models.CostCenter, int, error) {
	filter.Page, filter.Limit = utils.NormalizePage(filter.Page, filter.Limit)
	centers, total, err := s.repo.ListCenters(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("listing cost centers: %w", err)
	}
	return centers, total, nil
}

func (s *costService) centerFromRequest(req CostCenterRequest) (*models.CostCenter, error) {
	if utils.IsEmpty(req.Code) || utils.IsEmpty(req.Name) {
		return nil, validationf("code and name are required")
	}
	c := &models.CostCenter{
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		CostType:    req.CostType,
		Description: req.Description,
		ParentID:    req.ParentID,
		Status:      1,
	}
	if req.Status != nil {
		c.Status = *req.Status
	}
	return c, nil
}

func (s *costService) CreateCenter(req CostCenterRequest) (*models.CostCenter, error) {
	c, err := s.centerFromRequest(req)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.CreateCenter(s.db, c)
	if err != nil {
		return nil, translateRepoError(err, fmt.Sprintf("cost center code %q", c.Code))
	}
	return created, nil
}

func (s *costService) UpdateCenter(id int64, req CostCenterRequest) (*models.CostCenter, error) {
	c, err := s.centerFromRequest(req)
	if err != nil {
		return nil, err
	}
	if req.ParentID == id {
		return nil, validationf("a cost center cannot be its own parent")
	}
	c.ID = id
	if err := s.repo.UpdateCenter(s.db, c); err != nil {
		return nil, translateRepoError(err, fmt.Sprintf("cost center %d", id))
	}
	return c, nil
}

func (s *costService) DeleteCenter(id int64) error {
	n, err := s.repo.CountAllocationsFor(id)
	if err != nil {
		return fmt.Errorf("checking references of cost center %d: %w", id, err)
	}
	if n > 0 {
		return fmt.Errorf("%w: cost center %d is used by %d allocation(s)", ErrInUse, id, n)
	}
	err = s.repo.DeleteCenter(s.db, id)
	if errors.Is(err, repositories.ErrForeignKey) {
		// An allocation was added after the count.
		return fmt.Errorf("%w: cost center %d", ErrInUse, id)
	}
	return translateRepoError(err, fmt.Sprintf("cost center %d", id))
}

func (s *costService) ListAllocations(filter repositories.CostAllocationFilter) ([]models.CostAllocation, int, error) {
	filter.Page, filter.Limit = utils.NormalizePage(filter.Page, filter.Limit)
	for _, d := range []*string{filter.DateStart, filter.DateEnd} {
		if d == nil {
			continue
		}
		if _, err := utils.ParseDate(*d); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	allocations, total, err := s.repo.ListAllocations(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("listing cost allocations: %w", err)
	}
	return allocations, total, nil
}

// allocationPrecision matches cost_allocations.amount NUMERIC(14, 2).
const allocationPrecision = 14

func (s *costService) allocationFromRequest(req CostAllocationRequest) (*models.CostAllocation, error) {
	if req.FromCenter == req.ToCenter {
		return nil, validationf("from_center and to_center must differ")
	}
	if !req.Amount.IsPositive() {
		return nil, validationf("amount must be greater than zero")
	}
	if err := checkMoney("amount", req.Amount, allocationPrecision); err != nil {
		return nil, err
	}
	date := s.now().In(s.loc).Format(utils.DateLayout)
	if req.AllocationDate != nil && !utils.IsEmpty(*req.AllocationDate) {
		if _, err := utils.ParseDate(*req.AllocationDate); err != nil {
			return nil, fmt.Errorf("%w: allocation_date: %v", ErrValidation, err)
		}
		date = *req.AllocationDate
	}
	return &models.CostAllocation{
		FromCenter:     req.FromCenter,
		ToCenter:       req.ToCenter,
		Amount:         req.Amount,
		AllocationDate: date,
		Description:    req.Description,
		Notes:          req.Notes,
	}, nil
}

func (s *costService) CreateAllocation(req CostAllocationRequest) (*models.CostAllocation, error) {
	a, err := s.allocationFromRequest(req)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.CreateAllocation(s.db, a)
	if err != nil {
		return nil, translateRepoError(err, fmt.Sprintf("cost allocation %d -> %d", a.FromCenter, a.ToCenter))
	}
	return created, nil
}

func (s *costService) UpdateAllocation(id int64, req CostAllocationRequest) (*models.CostAllocation, error) {
	a, err := s.allocationFromRequest(req)
	if err != nil {
		return nil, err
	}
	a.ID = id
	if err := s.repo.UpdateAllocation(s.db, a); err != nil {
		return nil, translateRepoError(err, fmt.Sprintf("cost allocation %d", id))
	}
	return a, nil
}

func (s *costService) DeleteAllocation(id int64) error {
	return translateRepoError(s.repo.DeleteAllocation(s.db, id), fmt.Sprintf("cost allocation %d", id))
}
