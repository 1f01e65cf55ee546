package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"oa_backend/internal/models"
)

// CostCenterFilter narrows cost center listings.
type CostCenterFilter struct {
	Keyword  string // matched against name and code
	CostType string
	Page     int
	Limit    int
}

// CostAllocationFilter narrows cost allocation listings.
type CostAllocationFilter struct {
	DateStart *string
	DateEnd   *string
	Page      int
	Limit     int
}

// CostRepository defines the database operations over cost centers and allocations.
type CostRepository interface {
	GetCenterByID(id int64) (*models.CostCenter, error)
	ListCenters(filter CostCenterFilter) ([]models.CostCenter, int, error)
	CreateCenter(executor SQLExecutor, center *models.CostCenter) (*models.CostCenter, error)
	UpdateCenter(executor SQLExecutor, center *models.CostCenter) error
	DeleteCenter(executor SQLExecutor, id int64) error
	// CountAllocationsFor counts allocations naming the center as source or target.
	CountAllocationsFor(centerID int64) (int, error)

	GetAllocationByID(id int64) (*models.CostAllocation, error)
	ListAllocations(filter CostAllocationFilter) ([]models.CostAllocation, int, error)
	CreateAllocation(executor SQLExecutor, alloc *models.CostAllocation) (*models.CostAllocation, error)
	UpdateAllocation(executor SQLExecutor, alloc *models.CostAllocation) error
	DeleteAllocation(executor SQLExecutor, id int64) error
}

type costRepository struct {
	db *sql.DB
}

// NewCostRepository creates a new instance of CostRepository.
func NewCostRepository(db *sql.DB) CostRepository {
	return &costRepository{db: db}
}

const costCenterColumns = `cc.id, cc.code, cc.name, cc.cost_type, cc.description,
	cc.parent_id, cc.status, cc.created_at, cc.updated_at`

func scanCostCenter(row scanner, extra ...interface{}) (*models.CostCenter, error) {
	var c models.CostCenter
	var costType, description sql.NullString
	dest := []interface{}{
		&c.ID, &c.Code, &c.Name, &costType, &description,
		&c.ParentID, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	c.CostType = nullStringPtr(costType)
	c.Description = nullStringPtr(description)
	return &c, nil
}

func (r *costRepository) GetCenterByID(id int64) (*models.CostCenter, error) {
	query := `SELECT ` + costCenterColumns + ` FROM cost_centers cc WHERE cc.id = $1`
	c, err := scanCostCenter(r.db.QueryRow(query, id))
	if err != nil {
		return nil, classify(err, fmt.Sprintf("getting cost center %d", id))
	}
	return c, nil
}

func (r *costRepository) ListCenters(filter CostCenterFilter) ([]models.CostCenter, int, error) {
	centers := []models.CostCenter{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + costCenterColumns + `, COUNT(*) OVER() as total_count
	  FROM cost_centers cc`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.Keyword != "" {
		conditions = append(conditions, fmt.Sprintf("(cc.name ILIKE $%d OR cc.code ILIKE $%d)", argCount, argCount))
		args = append(args, "%"+filter.Keyword+"%")
		argCount++
	}
	if filter.CostType != "" {
		conditions = append(conditions, fmt.Sprintf("cc.cost_type = $%d", argCount))
		args = append(args, filter.CostType)
		argCount++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY cc.code ASC")

	clause, args := pageClause(filter.Page, filter.Limit, argCount, args)
	queryBuilder.WriteString(clause)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying cost centers: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rowTotal int
		c, err := scanCostCenter(rows, &rowTotal)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning cost center: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal
		centers = append(centers, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating cost centers: %v", ErrDatabaseError, err)
	}
	return centers, totalCount, nil
}

func (r *costRepository) CreateCenter(executor SQLExecutor, center *models.CostCenter) (*models.CostCenter, error) {
	query := `INSERT INTO cost_centers (code, name, cost_type, description, parent_id, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	          RETURNING id, created_at, updated_at`
	err := executor.QueryRow(query,
		center.Code, center.Name, center.CostType, center.Description,
		center.ParentID, center.Status, time.Now(),
	).Scan(&center.ID, &center.CreatedAt, &center.UpdatedAt)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("creating cost center %q", center.Code))
	}
	return center, nil
}

func (r *costRepository) UpdateCenter(executor SQLExecutor, center *models.CostCenter) error {
	query := `UPDATE cost_centers SET
	            code = $1, name = $2, cost_type = $3, description = $4, parent_id = $5, status = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		center.Code, center.Name, center.CostType, center.Description,
		center.ParentID, center.Status, time.Now(), center.ID,
	)
	if err != nil {
		return classify(err, fmt.Sprintf("updating cost center %d", center.ID))
	}
	return expectAffected(result, fmt.Sprintf("updating cost center %d", center.ID))
}

func (r *costRepository) DeleteCenter(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM cost_centers WHERE id = $1`, id)
	if err != nil {
		return classify(err, fmt.Sprintf("deleting cost center %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting cost center %d", id))
}

func (r *costRepository) CountAllocationsFor(centerID int64) (int, error) {
	var n int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM cost_allocations WHERE from_center = $1 OR to_center = $1`, centerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: counting allocations for cost center %d: %v", ErrDatabaseError, centerID, err)
	}
	return n, nil
}

const costAllocationColumns = `ca.id, ca.from_center, ca.to_center, ca.amount,
	TO_CHAR(ca.allocation_date, 'YYYY-MM-DD'), ca.description, ca.notes, ca.created_at, ca.updated_at,
	fc.name, tc.name`

const costAllocationFrom = ` FROM cost_allocations ca
	  LEFT JOIN cost_centers fc ON ca.from_center = fc.id
	  LEFT JOIN cost_centers tc ON ca.to_center = tc.id`

func scanCostAllocation(row scanner, extra ...interface{}) (*models.CostAllocation, error) {
	var a models.CostAllocation
	var description, notes, fromName, toName sql.NullString
	dest := []interface{}{
		&a.ID, &a.FromCenter, &a.ToCenter, &a.Amount,
		&a.AllocationDate, &description, &notes, &a.CreatedAt, &a.UpdatedAt,
		&fromName, &toName,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	a.Description = nullStringPtr(description)
	a.Notes = nullStringPtr(notes)
	a.FromCenterName = nullStringPtr(fromName)
	a.ToCenterName = nullStringPtr(toName)
	return &a, nil
}

func (r *costRepository) GetAllocationByID(id int64) (*models.CostAllocation, error) {
	query := `SELECT ` + costAllocationColumns + costAllocationFrom + ` WHERE ca.id = $1`
	a, err := scanCostAllocation(r.db.QueryRow(query, id))
	if err != nil {
		return nil, classify(err, fmt.Sprintf("getting cost allocation %d", id))
	}
	return a, nil
}

func (r *costRepository) ListAllocations(filter CostAllocationFilter) ([]models.CostAllocation, int, error) {
	allocations := []models.CostAllocation{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + costAllocationColumns + `, COUNT(*) OVER() as total_count` + costAllocationFrom)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.DateStart != nil {
		conditions = append(conditions, fmt.Sprintf("ca.allocation_date >= $%d", argCount))
		args = append(args, *filter.DateStart)
		argCount++
	}
	if filter.DateEnd != nil {
		conditions = append(conditions, fmt.Sprintf("ca.allocation_date <= $%d", argCount))
		args = append(args, *filter.DateEnd)
		argCount++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY ca.allocation_date DESC, ca.id DESC")

	clause, args := pageClause(filter.Page, filter.Limit, argCount, args)
	queryBuilder.WriteString(clause)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying cost allocations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rowTotal int
		a, err := scanCostAllocation(rows, &rowTotal)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning cost allocation: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal
		allocations = append(allocations, *a)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating cost allocations: %v", ErrDatabaseError, err)
	}
	return allocations, totalCount, nil
}

func (r *costRepository) CreateAllocation(executor SQLExecutor, alloc *models.CostAllocation) (*models.CostAllocation, error) {
	query := `INSERT INTO cost_allocations
	            (from_center, to_center, amount, allocation_date, description, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	          RETURNING id, created_at, updated_at`
	err := executor.QueryRow(query,
		alloc.FromCenter, alloc.ToCenter, alloc.Amount, alloc.AllocationDate,
		alloc.Description, alloc.Notes, time.Now(),
	).Scan(&alloc.ID, &alloc.CreatedAt, &alloc.UpdatedAt)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("creating cost allocation %d -> %d", alloc.FromCenter, alloc.ToCenter))
	}
	return alloc, nil
}

func (r *costRepository) UpdateAllocation(executor SQLExecutor, alloc *models.CostAllocation) error {
	query := `UPDATE cost_allocations SET
	            from_center = $1, to_center = $2, amount = $3, allocation_date = $4,
	            description = $5, notes = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		alloc.FromCenter, alloc.ToCenter, alloc.Amount, alloc.AllocationDate,
		alloc.Description, alloc.Notes, time.Now(), alloc.ID,
	)
	if err != nil {
		return classify(err, fmt.Sprintf("updating cost allocation %d", alloc.ID))
	}
	return expectAffected(result, fmt.Sprintf("updating cost allocation %d", alloc.ID))
}

func (r *costRepository) DeleteAllocation(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM cost_allocations WHERE id = $1`, id)
	if err != nil {
		return classify(err, fmt.Sprintf("deleting cost allocation %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting cost allocation %d", id))
}
