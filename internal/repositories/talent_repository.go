package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"oa_backend/internal/models"
)

// TalentFilter narrows talent pool listings.
type TalentFilter struct {
	Keyword string // matched against name, email and phone
	Status  *int
	Source  string
	Page    int
	Limit   int
}

// TalentRepository defines the database operations over the talent pool and the
// onboarding applications created from it.
type TalentRepository interface {
	GetByID(id int64) (*models.Talent, error)
	List(filter TalentFilter) ([]models.Talent, int, error)
	Create(executor SQLExecutor, talent *models.Talent) (*models.Talent, error)
	Update(executor SQLExecutor, talent *models.Talent) error
	Delete(executor SQLExecutor, id int64) error
	LinkRecruitment(executor SQLExecutor, id, recruitmentPositionID int64) error
	SetStatus(executor SQLExecutor, id int64, status int) error
	CreateOnboarding(executor SQLExecutor, app *models.OnboardingApplication) (int64, error)
}

type talentRepository struct {
	db *sql.DB
}

// NewTalentRepository creates a new instance of TalentRepository.
func NewTalentRepository(db *sql.DB) TalentRepository {
	return &talentRepository{db: db}
}

const talentColumns = `tp.id, tp.name, tp.email, tp.phone, tp.gender, tp.age, tp.education,
	tp.experience_years, tp.current_position, tp.current_company, tp.expected_salary,
	tp.skills, tp.work_experience, tp.education_background, tp.source, tp.source_url,
	tp.recruitment_position_id, tp.status, tp.notes, tp.created_at, tp.updated_at,
	rp.title`

const talentFrom = ` FROM talent_pool tp
	  LEFT JOIN recruitment_positions rp ON tp.recruitment_position_id = rp.id`

func nullIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func scanTalent(row scanner, extra ...interface{}) (*models.Talent, error) {
	var t models.Talent
	var email, phone, gender, education, currentPosition, currentCompany, expectedSalary sql.NullString
	var skills, workExperience, educationBackground, sourceURL, notes, positionTitle sql.NullString
	var age, experienceYears, recruitmentPositionID sql.NullInt64
	dest := []interface{}{
		&t.ID, &t.Name, &email, &phone, &gender, &age, &education,
		&experienceYears, &currentPosition, &currentCompany, &expectedSalary,
		&skills, &workExperience, &educationBackground, &t.Source, &sourceURL,
		&recruitmentPositionID, &t.Status, &notes, &t.CreatedAt, &t.UpdatedAt,
		&positionTitle,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	t.Email = nullStringPtr(email)
	t.Phone = nullStringPtr(phone)
	t.Gender = nullStringPtr(gender)
	t.Age = nullIntPtr(age)
	t.Education = nullStringPtr(education)
	t.ExperienceYears = nullIntPtr(experienceYears)
	t.CurrentPosition = nullStringPtr(currentPosition)
	t.CurrentCompany = nullStringPtr(currentCompany)
	t.ExpectedSalary = nullStringPtr(expectedSalary)
	t.Skills = nullStringPtr(skills)
	t.WorkExperience = nullStringPtr(workExperience)
	t.EducationBackground = nullStringPtr(educationBackground)
	t.SourceURL = nullStringPtr(sourceURL)
	if recruitmentPositionID.Valid {
		id := recruitmentPositionID.Int64
		t.RecruitmentPositionID = &id
	}
	t.Notes = nullStringPtr(notes)
	t.RecruitmentPositionTitle = nullStringPtr(positionTitle)
	return &t, nil
}

func (r *talentRepository) GetByID(id int64) (*models.Talent, error) {
	t, err := scanTalent(r.db.QueryRow(`SELECT `+talentColumns+talentFrom+` WHERE tp.id = $1`, id))
	if err != nil {
		return nil, classify(err, fmt.Sprintf("getting talent %d", id))
	}
	return t, nil
}

func (r *talentRepository) List(filter TalentFilter) ([]models.Talent, int, error) {
	talents := []models.Talent{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + talentColumns + `, COUNT(*) OVER() as total_count` + talentFrom)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.Keyword != "" {
		conditions = append(conditions, fmt.Sprintf("(tp.name ILIKE $%d OR tp.email ILIKE $%d OR tp.phone ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, "%"+filter.Keyword+"%")
		argCount++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("tp.status = $%d", argCount))
		args = append(args, *filter.Status)
		argCount++
	}
	if filter.Source != "" {
		conditions = append(conditions, fmt.Sprintf("tp.source = $%d", argCount))
		args = append(args, filter.Source)
		argCount++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY tp.created_at DESC, tp.id DESC")

	clause, args := pageClause(filter.Page, filter.Limit, argCount, args)
	queryBuilder.WriteString(clause)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying talents: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rowTotal int
		t, err := scanTalent(rows, &rowTotal)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning talent: %v", ErrDatabaseError, err)
		}
		totalCount = rowTotal
		talents = append(talents, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating talents: %v", ErrDatabaseError, err)
	}
	return talents, totalCount, nil
}

func (r *talentRepository) Create(executor SQLExecutor, t *models.Talent) (*models.Talent, error) {
	query := `INSERT INTO talent_pool
	            (name, email, phone, gender, age, education, experience_years, current_position,
	             current_company, expected_salary, skills, work_experience, education_background,
	             source, source_url, recruitment_position_id, status, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $19)
	          RETURNING id, created_at, updated_at`
	err := executor.QueryRow(query,
		t.Name, t.Email, t.Phone, t.Gender, t.Age, t.Education, t.ExperienceYears, t.CurrentPosition,
		t.CurrentCompany, t.ExpectedSalary, t.Skills, t.WorkExperience, t.EducationBackground,
		t.Source, t.SourceURL, t.RecruitmentPositionID, t.Status, t.Notes, time.Now(),
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("creating talent %q", t.Name))
	}
	return t, nil
}

// Update replaces every editable column. Source and source_url are fixed at creation.
func (r *talentRepository) Update(executor SQLExecutor, t *models.Talent) error {
	query := `UPDATE talent_pool SET
	            name = $1, email = $2, phone = $3, gender = $4, age = $5, education = $6,
	            experience_years = $7, current_position = $8, current_company = $9,
	            expected_salary = $10, skills = $11, work_experience = $12,
	            education_background = $13, recruitment_position_id = $14, status = $15,
	            notes = $16, updated_at = $17
	          WHERE id = $18`
	result, err := executor.Exec(query,
		t.Name, t.Email, t.Phone, t.Gender, t.Age, t.Education,
		t.ExperienceYears, t.CurrentPosition, t.CurrentCompany,
		t.ExpectedSalary, t.Skills, t.WorkExperience,
		t.EducationBackground, t.RecruitmentPositionID, t.Status,
		t.Notes, time.Now(), t.ID,
	)
	if err != nil {
		return classify(err, fmt.Sprintf("updating talent %d", t.ID))
	}
	return expectAffected(result, fmt.Sprintf("updating talent %d", t.ID))
}

func (r *talentRepository) Delete(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM talent_pool WHERE id = $1`, id)
	if err != nil {
		return classify(err, fmt.Sprintf("deleting talent %d", id))
	}
	return expectAffected(result, fmt.Sprintf("deleting talent %d", id))
}

func (r *talentRepository) LinkRecruitment(executor SQLExecutor, id, recruitmentPositionID int64) error {
	result, err := executor.Exec(
		`UPDATE talent_pool SET recruitment_position_id = $1, updated_at = $2 WHERE id = $3`,
		recruitmentPositionID, time.Now(), id,
	)
	if err != nil {
		return classify(err, fmt.Sprintf("linking talent %d to recruitment position %d", id, recruitmentPositionID))
	}
	return expectAffected(result, fmt.Sprintf("linking talent %d", id))
}

func (r *talentRepository) SetStatus(executor SQLExecutor, id int64, status int) error {
	result, err := executor.Exec(`UPDATE talent_pool SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return classify(err, fmt.Sprintf("setting status of talent %d", id))
	}
	return expectAffected(result, fmt.Sprintf("setting status of talent %d", id))
}

func (r *talentRepository) CreateOnboarding(executor SQLExecutor, app *models.OnboardingApplication) (int64, error) {
	query := `INSERT INTO onboarding_applications
	            (user_id, position_id, org_id, start_date, salary, contract_type, notes, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	          RETURNING id`
	var id int64
	err := executor.QueryRow(query,
		app.UserID, app.PositionID, app.OrgID, app.StartDate, app.Salary,
		app.ContractType, app.Notes, app.Status, time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, classify(err, fmt.Sprintf("creating onboarding application for user %d", app.UserID))
	}
	return id, nil
}
