package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"oa_backend/internal/models"
)

// PerformanceFilter narrows performance listings.
type PerformanceFilter struct {
	EmployeeID *int64
	Page       int
	Limit      int
}

// PerformanceRepository defines the database operations over performance evaluations.
type PerformanceRepository interface {
	GetByID(id int64) (*models.Performance, error)
	List(filter PerformanceFilter) ([]models.Performance, int, error)
	Create(executor SQLExecutor, p *models.Performance) (*models.Performance, error)
	Update(executor SQLExecutor, p *models.Performance) error
	Delete(executor SQLExecutor, id int64) error
}

type performanceRepository struct {
	db *sql.DB
}

func NewPerformanceRepository(db *sql.DB) PerformanceRepository {
	return &performanceRepository{db: db}
}

const performanceSelect = `SELECT pf.id, pf.employee_id, TO_CHAR(pf.evaluation_date, 'YYYY-MM-DD'),
	    pf.score, pf.comments, pf.created_at, pf.updated_at, u.real_name
	  FROM performance pf
	  LEFT JOIN users u ON pf.employee_id = u.id`

func scanPerformance(row scanner, extra ...interface{}) (*models.Performance, error) {
	var p models.Performance
	var employeeName sql.NullString
	dest := []interface{}{
		&p.ID, &p.EmployeeID, &p.EvaluationDate,
		&p.Score, &p.Comments, &p.CreatedAt, &p.UpdatedAt, &employeeName,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.EmployeeName = nullStringPtr(employeeName)
	return &p, nil
}

func (r *performanceRepository) GetByID(id int64) (*models.Performance, error) {
	p, err := scanPerformance(r.db.QueryRow(performanceSelect+` WHERE pf.id = $1`, id))
	if err != nil {
		return nil, classify(err, fmt.Sprintf("getting performance %d", id))
	}
	return p, nil
}

func (r *performanceRepository) List(filter PerformanceFilter) ([]models.Performance, int, error) {
	result := []models.Performance{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(strings.Replace(performanceSelect, "u.real_name", "u.real_name, COUNT(*) OVER() as total_count", 1))

	var args []interface{}
	argCount := 1
	if filter.EmployeeID != nil {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE pf.employee_id = $%d", argCount))
		args = append(args, *filter.EmployeeID)
		argCount++
	}
	queryBuilder.WriteString(" ORDER BY pf.evaluation_date DESC, pf.id DESC")

	clause, args := pageClause(filter.Page, filter.Limit, argCount, args)
	queryBuilder.WriteString(clause)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying performance: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rowTotal int
		p, err := scanPerformance(rows, &rowTotal)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning performance: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal
		result = append(result, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating performance rows: %v", ErrDatabaseError, err)
	}
	return result, totalCount, nil
}

func (r *performanceRepository) Create(executor SQLExecutor, p *models.Performance) (*models.Performance, error) {
	query := `INSERT INTO performance (employee_id, evaluation_date, score, comments, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $5)
	          RETURNING id, created_at, updated_at`
	err := executor.QueryRow(query, p.EmployeeID, p.EvaluationDate, p.Score, p.Comments, time.Now()).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("creating performance for employee %d", p.EmployeeID))
	}
	return p, nil
}

func (r *performanceRepository) Update(executor SQLExecutor, p *models.Performance) error {
	query := `UPDATE performance SET evaluation_date = $1, score = $2, comments = $3, updated_at = $4
	          WHERE id = $5`
	result, err := executor.Exec(query, p.EvaluationDate, p.Score, p.Comments, time.Now(), p.ID)
	if err != nil {
		return classify(err, fmt.Sprintf("updating performance %d", p.ID))
	}
	return expectAffected(result, fmt.Sprintf("updating performance %d", p.ID))
}

func (r *performanceRepository) Delete(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM performance WHERE id = $1`, id)
	if err != nil {
		return classify(err, fmt.Sprintf("deleting performance %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting performance %d", id))
}
