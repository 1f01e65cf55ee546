package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"oa_backend/internal/models"
)

// SalaryRepository defines the database operations over salary_records.
type SalaryRepository interface {
	GetByID(id int64) (*models.SalaryRecord, error)
	List(filter models.SalaryFilter) ([]models.SalaryRecord, int, error)
	Create(executor SQLExecutor, rec *models.SalaryRecord) (*models.SalaryRecord, error)
	Update(executor SQLExecutor, rec *models.SalaryRecord) error
	Delete(executor SQLExecutor, id int64) error

	// SummarizeYear aggregates a year's salary records per user.
	SummarizeYear(year int, filter models.ReportFilter) ([]models.SalarySummaryItem, error)
}

type salaryRepository struct {
	db *sql.DB
}

// NewSalaryRepository creates a new instance of SalaryRepository.
func NewSalaryRepository(db *sql.DB) SalaryRepository {
	return &salaryRepository{db: db}
}

const salaryColumns = `sr.id, sr.user_id, sr.year, sr.month, sr.base_salary, sr.bonus,
	sr.allowance, sr.deduction, sr.notes, sr.created_at, sr.updated_at`

func scanSalary(row scanner, extra ...interface{}) (*models.SalaryRecord, error) {
	var rec models.SalaryRecord
	var notes sql.NullString
	dest := []interface{}{
		&rec.ID, &rec.UserID, &rec.Year, &rec.Month, &rec.BaseSalary, &rec.Bonus,
		&rec.Allowance, &rec.Deduction, &notes, &rec.CreatedAt, &rec.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	rec.Notes = nullStringPtr(notes)
	return &rec, nil
}

func (r *salaryRepository) GetByID(id int64) (*models.SalaryRecord, error) {
	query := `SELECT ` + salaryColumns + ` FROM salary_records sr WHERE sr.id = $1`
	rec, err := scanSalary(r.db.QueryRow(query, id))
	if err != nil {
		return nil, classify(err, fmt.Sprintf("getting salary record %d", id))
	}
	return rec, nil
}

func (r *salaryRepository) List(filter models.SalaryFilter) ([]models.SalaryRecord, int, error) {
	records := []models.SalaryRecord{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + salaryColumns + `,
	    u.real_name, p.name,
	    COUNT(*) OVER() as total_count
	  FROM salary_records sr
	  LEFT JOIN users u ON sr.user_id = u.id
	  LEFT JOIN positions p ON u.position_id = p.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("sr.user_id = $%d", argCount))
		args = append(args, *filter.UserID)
		argCount++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("sr.year = $%d", argCount))
		args = append(args, *filter.Year)
		argCount++
	}
	if filter.Month != nil {
		conditions = append(conditions, fmt.Sprintf("sr.month = $%d", argCount))
		args = append(args, *filter.Month)
		argCount++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY sr.year DESC, sr.month DESC, sr.created_at DESC")

	clause, args := pageClause(filter.Page, filter.Limit, argCount, args)
	queryBuilder.WriteString(clause)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying salary records: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var userName, positionName sql.NullString
		var rowTotal int
		rec, err := scanSalary(rows, &userName, &positionName, &rowTotal)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning salary record: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal
		rec.UserName = nullStringPtr(userName)
		rec.PositionName = nullStringPtr(positionName)
		records = append(records, *rec)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating salary rows: %v", ErrDatabaseError, err)
	}
	return records, totalCount, nil
}

func (r *salaryRepository) Create(executor SQLExecutor, rec *models.SalaryRecord) (*models.SalaryRecord, error) {
	query := `INSERT INTO salary_records
	            (user_id, year, month, base_salary, bonus, allowance, deduction, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	          RETURNING id, created_at, updated_at`
	err := executor.QueryRow(query,
		rec.UserID, rec.Year, rec.Month, rec.BaseSalary, rec.Bonus,
		rec.Allowance, rec.Deduction, rec.Notes, time.Now(),
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("creating salary record for user %d %d-%02d", rec.UserID, rec.Year, rec.Month))
	}
	return rec, nil
}

func (r *salaryRepository) Update(executor SQLExecutor, rec *models.SalaryRecord) error {
	query := `UPDATE salary_records SET
	            base_salary = $1, bonus = $2, allowance = $3, deduction = $4, notes = $5, updated_at = $6
	          WHERE id = $7`
	result, err := executor.Exec(query,
		rec.BaseSalary, rec.Bonus, rec.Allowance, rec.Deduction, rec.Notes, time.Now(), rec.ID,
	)
	if err != nil {
		return classify(err, fmt.Sprintf("updating salary record %d", rec.ID))
	}
	return expectAffected(result, fmt.Sprintf("updating salary record %d", rec.ID))
}

func (r *salaryRepository) Delete(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM salary_records WHERE id = $1`, id)
	if err != nil {
		return classify(err, fmt.Sprintf("deleting salary record %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting salary record %d", id))
}

func (r *salaryRepository) SummarizeYear(year int, filter models.ReportFilter) ([]models.SalarySummaryItem, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    sr.user_id, u.real_name, u.username, p.name, o.name,
	    COALESCE(SUM(sr.base_salary), 0),
	    COALESCE(SUM(sr.bonus), 0),
	    COALESCE(SUM(sr.allowance), 0),
	    COALESCE(SUM(sr.deduction), 0),
	    COALESCE(SUM(sr.base_salary + sr.bonus + sr.allowance - sr.deduction), 0) as total_salary,
	    COUNT(DISTINCT sr.month)
	  FROM salary_records sr
	  LEFT JOIN users u ON sr.user_id = u.id
	  LEFT JOIN positions p ON u.position_id = p.id
	  LEFT JOIN organizations o ON u.organization_id = o.id
	  WHERE sr.year = $1`)

	args := []interface{}{year}
	argCount := 2
	if filter.UserID != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND sr.user_id = $%d", argCount))
		args = append(args, *filter.UserID)
		argCount++
	}
	if filter.Department != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND o.name = $%d", argCount))
		args = append(args, filter.Department)
	}
	queryBuilder.WriteString(" GROUP BY sr.user_id, u.real_name, u.username, p.name, o.name ORDER BY total_salary DESC, sr.user_id")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying salary report: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	items := []models.SalarySummaryItem{}
	for rows.Next() {
		var item models.SalarySummaryItem
		var realName, username, positionName, orgName sql.NullString
		if err := rows.Scan(
			&item.UserID, &realName, &username, &positionName, &orgName,
			&item.TotalBaseSalary, &item.TotalBonus, &item.TotalAllowance, &item.TotalDeduction,
			&item.TotalSalary, &item.SalaryMonths,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning salary report row: %v", ErrDatabaseError, err)
		}
		item.Username = stringOr(username, "")
		item.UserName = stringOr(realName, stringOr(username, "-"))
		item.PositionName = stringOr(positionName, "-")
		item.OrgName = stringOr(orgName, "-")
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating salary report rows: %v", ErrDatabaseError, err)
	}
	return items, nil
}

// stringOr returns the column value, or fallback when it is NULL or empty.
func stringOr(ns sql.NullString, fallback string) string {
	if ns.Valid && ns.String != "" {
		return ns.String
	}
	return fallback
}
