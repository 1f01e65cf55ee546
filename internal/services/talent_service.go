package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"oa_backend/internal/models"
	"oa_backend/internal/repositories"
	"oa_backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// --- Talent Pool DTOs ---
type TalentRequest struct {
	Name                  string  `json:"name" binding:"required"`
	Email                 *string `json:"email" binding:"omitempty,email"`
	Phone                 *string `json:"phone"`
	Gender                *string `json:"gender"`
	Age                   *int    `json:"age" binding:"omitempty,min=0,max=150"`
	Education             *string `json:"education"`
	ExperienceYears       *int    `json:"experience_years" binding:"omitempty,min=0"`
	CurrentPosition       *string `json:"current_position"`
	CurrentCompany        *string `json:"current_company"`
	ExpectedSalary        *string `json:"expected_salary"`
	Skills                *string `json:"skills"`
	WorkExperience        *string `json:"work_experience"`
	EducationBackground   *string `json:"education_background"`
	Source                *string `json:"source"`
	SourceURL             *string `json:"source_url"`
	RecruitmentPositionID *int64  `json:"recruitment_position_id" binding:"omitempty,gt=0"`
	Status                *int    `json:"status" binding:"omitempty,min=1"`
	Notes                 *string `json:"notes"`
}

type LinkRecruitmentRequest struct {
	RecruitmentPositionID int64 `json:"recruitment_position_id" binding:"required,gt=0"`
}

type ConvertToOnboardingRequest struct {
	PositionID   int64            `json:"position_id" binding:"required,gt=0"`
	OrgID        int64            `json:"org_id" binding:"required,gt=0"`
	StartDate    string           `json:"start_date" binding:"required"`
	Salary       *decimal.Decimal `json:"salary"`
	ContractType *string          `json:"contract_type" binding:"omitempty,max=20"`
	Notes        *string          `json:"notes"`
}

// OnboardingResult reports what ConvertToOnboarding created.
type OnboardingResult struct {
	OnboardingID int64 `json:"onboarding_id"`
	UserID       int64 `json:"user_id"`
	UserCreated  bool  `json:"user_created"`
}

const (
	defaultTalentSource = "manual"
	maxTalentNameLength = 50
	// onboardingSalaryPrecision matches onboarding_applications.salary NUMERIC(10, 2).
	onboardingSalaryPrecision = 10
)

type TalentService interface {
	List(filter repositories.TalentFilter) ([]models.Talent, int, error)
	Get(id int64) (*models.Talent, error)
	Create(req TalentRequest) (*models.Talent, error)
	Update(id int64, req TalentRequest) (*models.Talent, error)
	Delete(id int64) error
	LinkRecruitment(id int64, req LinkRecruitmentRequest) error
	// ConvertToOnboarding opens an onboarding application for the talent, creating
	// a Staff account for its email when none exists, and marks the talent onboarded.
	ConvertToOnboarding(id int64, req ConvertToOnboardingRequest) (*OnboardingResult, error)
}

type talentService struct {
	repo     repositories.TalentRepository
	authRepo repositories.AuthRepository
	db       *sql.DB
}

func NewTalentService(repo repositories.TalentRepository, authRepo repositories.AuthRepository, db *sql.DB) TalentService {
	return &talentService{repo: repo, authRepo: authRepo, db: db}
}

func (s *talentService) List(filter repositories.TalentFilter) ([]models.Talent, int, error) {
	filter.Page, filter.Limit = utils.NormalizePage(filter.Page, filter.Limit)
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	talents, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("listing talents: %w", err)
	}
	return talents, total, nil
}

func (s *talentService) Get(id int64) (*models.Talent, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, translateRepoError(err, fmt.Sprintf("talent %d", id))
	}
	return t, nil
}

func talentFromRequest(req TalentRequest) (*models.Talent, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationf("name is required")
	}
	if utf8.RuneCountInString(name) > maxTalentNameLength {
		return nil, validationf("name must be at most %d characters", maxTalentNameLength)
	}
	t := &models.Talent{
		Name:                  name,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Gender:                req.Gender,
		Age:                   req.Age,
		Education:             req.Education,
		ExperienceYears:       req.ExperienceYears,
		CurrentPosition:       req.CurrentPosition,
		CurrentCompany:        req.CurrentCompany,
		ExpectedSalary:        req.ExpectedSalary,
		Skills:                req.Skills,
		WorkExperience:        req.WorkExperience,
		EducationBackground:   req.EducationBackground,
		Source:                defaultTalentSource,
		SourceURL:             req.SourceURL,
		RecruitmentPositionID: req.RecruitmentPositionID,
		Status:                models.TalentStatusInPool,
		Notes:                 req.Notes,
	}
	if req.Source != nil && !utils.IsEmpty(*req.Source) {
		t.Source = strings.TrimSpace(*req.Source)
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	return t, nil
}

func (s *talentService) Create(req TalentRequest) (*models.Talent, error) {
	t, err := talentFromRequest(req)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(s.db, t)
	if err != nil {
		return nil, translateRepoError(err, fmt.Sprintf("talent %q", t.Name))
	}
	return created, nil
}

func (s *talentService) Update(id int64, req TalentRequest) (*models.Talent, error) {
	t, err := talentFromRequest(req)
	if err != nil {
		return nil, err
	}
	t.ID = id
	if err := s.repo.Update(s.db, t); err != nil {
		return nil, translateRepoError(err, fmt.Sprintf("talent %d", id))
	}
	return s.Get(id)
}

func (s *talentService) Delete(id int64) error {
	return translateRepoError(s.repo.Delete(s.db, id), fmt.Sprintf("talent %d", id))
}

func (s *talentService) LinkRecruitment(id int64, req LinkRecruitmentRequest) error {
	return translateRepoError(s.repo.LinkRecruitment(s.db, id, req.RecruitmentPositionID), fmt.Sprintf("talent %d", id))
}

func (s *talentService) ConvertToOnboarding(id int64, req ConvertToOnboardingRequest) (*OnboardingResult, error) {
	if _, err := utils.ParseDate(req.StartDate); err != nil {
		return nil, fmt.Errorf("%w: start_date: %v", ErrValidation, err)
	}
	if req.Salary != nil {
		if req.Salary.IsNegative() {
			return nil, validationf("salary must not be negative")
		}
		if err := checkMoney("salary", *req.Salary, onboardingSalaryPrecision); err != nil {
			return nil, err
		}
	}

	talent, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if talent.Status == models.TalentStatusOnboarded {
		return nil, fmt.Errorf("%w: talent %d is already onboarded", ErrPreconditionFailed, id)
	}
	if talent.Email == nil || utils.IsEmpty(*talent.Email) {
		return nil, fmt.Errorf("%w: talent %d has no email to create an account from", ErrPreconditionFailed, id)
	}
	email := strings.TrimSpace(*talent.Email)

	result := &OnboardingResult{}
	var newUser *models.User
	existing, err := s.authRepo.FindUserByEmail(email)
	switch {
	case err == nil:
		result.UserID = existing.ID
	case errors.Is(err, repositories.ErrNotFound):
		newUser, err = s.newHireAccount(talent, email, req)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("looking up user by email: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if newUser != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash placeholder password: %w", err)
		}
		result.UserID, err = s.authRepo.CreateUser(tx, newUser, string(hash))
		if err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return nil, fmt.Errorf("%w: username %q", ErrConflict, newUser.Username)
			}
			return nil, translateRepoError(err, fmt.Sprintf("account for talent %d", id))
		}
		result.UserCreated = true
	}

	notes := req.Notes
	if notes == nil || utils.IsEmpty(*notes) {
		fromPool := "from talent pool: " + talent.Name
		notes = &fromPool
	}
	result.OnboardingID, err = s.repo.CreateOnboarding(tx, &models.OnboardingApplication{
		UserID:       result.UserID,
		PositionID:   req.PositionID,
		OrgID:        req.OrgID,
		StartDate:    req.StartDate,
		Salary:       req.Salary,
		ContractType: req.ContractType,
		Notes:        notes,
		Status:       1,
	})
	if err != nil {
		return nil, translateRepoError(err, fmt.Sprintf("onboarding application for talent %d", id))
	}
	if err := s.repo.SetStatus(tx, id, models.TalentStatusOnboarded); err != nil {
		return nil, translateRepoError(err, fmt.Sprintf("talent %d", id))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit onboarding transaction: %w", err)
	}
	return result, nil
}

// newHireAccount prepares a Staff user named after the email's local part. A
// taken name gets the talent id appended.
func (s *talentService) newHireAccount(talent *models.Talent, email string, req ConvertToOnboardingRequest) (*models.User, error) {
	role, err := s.authRepo.FindRoleByName(DefaultRoleName)
	if err != nil {
		return nil, fmt.Errorf("looking up role %s: %w", DefaultRoleName, err)
	}
	username := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		username = email[:at]
	}
	_, _, err = s.authRepo.FindUserByUsername(username)
	switch {
	case err == nil:
		username = fmt.Sprintf("%s_%d", username, talent.ID)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("checking username %q: %w", username, err)
	}
	name := talent.Name
	return &models.User{
		Username:       username,
		RealName:       &name,
		Email:          &email,
		OrganizationID: &req.OrgID,
		PositionID:     &req.PositionID,
		RoleID:         &role.ID,
	}, nil
}
