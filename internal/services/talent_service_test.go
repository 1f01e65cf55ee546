package services

import (
	"errors"
	"testing"

	"oa_backend/internal/models"
	"oa_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

type memTalentRepo struct {
	nextID        int64
	talents       map[int64]*models.Talent
	onboardings   []models.OnboardingApplication
	onboardingErr error
	lastFilter    repositories.TalentFilter
}

func newMemTalentRepo() *memTalentRepo {
	return &memTalentRepo{talents: map[int64]*models.Talent{}}
}

func (m *memTalentRepo) GetByID(id int64) (*models.Talent, error) {
	t, ok := m.talents[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTalentRepo) List(filter repositories.TalentFilter) ([]models.Talent, int, error) {
	m.lastFilter = filter
	out := []models.Talent{}
	for _, t := range m.talents {
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (m *memTalentRepo) Create(_ repositories.SQLExecutor, t *models.Talent) (*models.Talent, error) {
	m.nextID++
	cp := *t
	cp.ID = m.nextID
	m.talents[cp.ID] = &cp
	return &cp, nil
}

func (m *memTalentRepo) Update(_ repositories.SQLExecutor, t *models.Talent) error {
	if _, ok := m.talents[t.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *t
	m.talents[t.ID] = &cp
	return nil
}

func (m *memTalentRepo) Delete(_ repositories.SQLExecutor, id int64) error {
	if _, ok := m.talents[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.talents, id)
	return nil
}

func (m *memTalentRepo) LinkRecruitment(_ repositories.SQLExecutor, id, positionID int64) error {
	t, ok := m.talents[id]
	if !ok {
		return repositories.ErrNotFound
	}
	t.RecruitmentPositionID = &positionID
	return nil
}

func (m *memTalentRepo) SetStatus(_ repositories.SQLExecutor, id int64, status int) error {
	t, ok := m.talents[id]
	if !ok {
		return repositories.ErrNotFound
	}
	t.Status = status
	return nil
}

func (m *memTalentRepo) CreateOnboarding(_ repositories.SQLExecutor, app *models.OnboardingApplication) (int64, error) {
	if m.onboardingErr != nil {
		return 0, m.onboardingErr
	}
	m.onboardings = append(m.onboardings, *app)
	return int64(len(m.onboardings)), nil
}

func seedTalent(t *testing.T, svc TalentService, name, email string) *models.Talent {
	t.Helper()
	req := TalentRequest{Name: name}
	if email != "" {
		req.Email = &email
	}
	talent, err := svc.Create(req)
	if err != nil {
		t.Fatalf("create talent: %v", err)
	}
	return talent
}

func TestTalentCRUD(t *testing.T) {
	repo := newMemTalentRepo()
	svc := NewTalentService(repo, newMemAuthRepo(), nil)

	created := seedTalent(t, svc, "  Li Lei ", "")
	if created.Name != "Li Lei" || created.Source != "manual" || created.Status != models.TalentStatusInPool {
		t.Fatalf("created = %+v", created)
	}

	source, status := "referral", 3
	updated, err := svc.Update(created.ID, TalentRequest{Name: "Li Lei", Source: &source, Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != 3 {
		t.Errorf("status = %d, want 3", updated.Status)
	}

	if err := svc.LinkRecruitment(created.ID, LinkRecruitmentRequest{RecruitmentPositionID: 4}); err != nil {
		t.Fatalf("link: %v", err)
	}
	if got, _ := svc.Get(created.ID); got.RecruitmentPositionID == nil || *got.RecruitmentPositionID != 4 {
		t.Errorf("recruitment position = %v", got.RecruitmentPositionID)
	}

	if _, _, err := svc.List(repositories.TalentFilter{Keyword: " lei ", Limit: 500}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.lastFilter.Keyword != "lei" || repo.lastFilter.Page != 1 || repo.lastFilter.Limit != 100 {
		t.Errorf("filter = %+v", repo.lastFilter)
	}

	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("get after delete err = %v, want ErrRecordNotFound", err)
	}
}

func TestTalentMissingRecords(t *testing.T) {
	svc := NewTalentService(newMemTalentRepo(), newMemAuthRepo(), nil)
	if _, err := svc.Update(9, TalentRequest{Name: "Ghost"}); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("update err = %v", err)
	}
	if err := svc.Delete(9); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("delete err = %v", err)
	}
	if err := svc.LinkRecruitment(9, LinkRecruitmentRequest{RecruitmentPositionID: 1}); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("link err = %v", err)
	}
	if _, err := svc.Create(TalentRequest{Name: "   "}); !errors.Is(err, ErrValidation) {
		t.Errorf("blank name err = %v", err)
	}
}

func TestConvertToOnboardingCreatesAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo, authRepo := newMemTalentRepo(), newMemAuthRepo()
	svc := NewTalentService(repo, authRepo, db)
	talent := seedTalent(t, svc, "Li Lei", "li.lei@example.com")

	mock.ExpectBegin()
	mock.ExpectCommit()
	res, err := svc.ConvertToOnboarding(talent.ID, ConvertToOnboardingRequest{
		PositionID: 2, OrgID: 3, StartDate: "2025-07-01", Salary: decPtr("12000.50"),
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !res.UserCreated || res.OnboardingID != 1 {
		t.Fatalf("result = %+v", res)
	}
	user := authRepo.users[res.UserID]
	if user == nil || user.Username != "li.lei" || *user.Email != "li.lei@example.com" || user.RoleName() != DefaultRoleName {
		t.Fatalf("user = %+v", user)
	}
	if *user.OrganizationID != 3 || *user.PositionID != 2 {
		t.Errorf("user placement = org %d position %d", *user.OrganizationID, *user.PositionID)
	}

	app := repo.onboardings[0]
	if app.UserID != res.UserID || app.StartDate != "2025-07-01" || *app.Notes != "from talent pool: Li Lei" || app.Status != 1 {
		t.Errorf("application = %+v", app)
	}
	if repo.talents[talent.ID].Status != models.TalentStatusOnboarded {
		t.Errorf("talent status = %d", repo.talents[talent.ID].Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ConvertToOnboarding(talent.ID, ConvertToOnboardingRequest{PositionID: 2, OrgID: 3, StartDate: "2025-07-01"}); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("second convert err = %v, want ErrPreconditionFailed", err)
	}
}

func TestConvertToOnboardingReusesAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo, authRepo := newMemTalentRepo(), newMemAuthRepo()
	email := "Han.Meimei@Example.com"
	existingID, _ := authRepo.CreateUser(nil, &models.User{Username: "meimei", Email: &email}, "hash")
	svc := NewTalentService(repo, authRepo, db)
	talent := seedTalent(t, svc, "Han Meimei", "han.meimei@example.com")

	mock.ExpectBegin()
	mock.ExpectCommit()
	res, err := svc.ConvertToOnboarding(talent.ID, ConvertToOnboardingRequest{PositionID: 1, OrgID: 1, StartDate: "2025-08-01"})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if res.UserCreated || res.UserID != existingID || len(authRepo.users) != 1 {
		t.Fatalf("result = %+v, users = %d", res, len(authRepo.users))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestConvertToOnboardingAvoidsTakenUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo, authRepo := newMemTalentRepo(), newMemAuthRepo()
	authRepo.CreateUser(nil, &models.User{Username: "zhang"}, "hash")
	svc := NewTalentService(repo, authRepo, db)
	talent := seedTalent(t, svc, "Zhang Wei", "zhang@example.org")

	mock.ExpectBegin()
	mock.ExpectCommit()
	res, err := svc.ConvertToOnboarding(talent.ID, ConvertToOnboardingRequest{PositionID: 1, OrgID: 1, StartDate: "2025-08-01"})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got := authRepo.users[res.UserID].Username; got != "zhang_1" {
		t.Errorf("username = %q, want zhang_1", got)
	}
}

func TestConvertToOnboardingRejectsBadInput(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo := newMemTalentRepo()
	svc := NewTalentService(repo, newMemAuthRepo(), db)
	noEmail := seedTalent(t, svc, "No Mail", "")
	withEmail := seedTalent(t, svc, "Has Mail", "has@example.com")
	negative := decimal.NewFromInt(-1)

	testCases := []struct {
		name string
		id   int64
		req  ConvertToOnboardingRequest
		want error
	}{
		{"missing talent", 99, ConvertToOnboardingRequest{PositionID: 1, OrgID: 1, StartDate: "2025-08-01"}, ErrRecordNotFound},
		{"no email", noEmail.ID, ConvertToOnboardingRequest{PositionID: 1, OrgID: 1, StartDate: "2025-08-01"}, ErrPreconditionFailed},
		{"bad date", withEmail.ID, ConvertToOnboardingRequest{PositionID: 1, OrgID: 1, StartDate: "08/01/2025"}, ErrValidation},
		{"negative salary", withEmail.ID, ConvertToOnboardingRequest{PositionID: 1, OrgID: 1, StartDate: "2025-08-01", Salary: &negative}, ErrValidation},
		{"salary over column range", withEmail.ID, ConvertToOnboardingRequest{PositionID: 1, OrgID: 1, StartDate: "2025-08-01", Salary: decPtr("100000000")}, ErrValidation},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.ConvertToOnboarding(tc.id, tc.req); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
	if len(repo.onboardings) != 0 {
		t.Errorf("onboardings stored despite failures: %d", len(repo.onboardings))
	}
	// No transaction is opened for rejected input.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestConvertToOnboardingRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	repo := newMemTalentRepo()
	repo.onboardingErr = repositories.ErrForeignKey
	svc := NewTalentService(repo, newMemAuthRepo(), db)
	talent := seedTalent(t, svc, "Li Lei", "li.lei@example.com")

	mock.ExpectBegin()
	mock.ExpectRollback()
	if _, err := svc.ConvertToOnboarding(talent.ID, ConvertToOnboardingRequest{PositionID: 404, OrgID: 1, StartDate: "2025-07-01"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if repo.talents[talent.ID].Status != models.TalentStatusInPool {
		t.Errorf("talent status = %d, want in pool", repo.talents[talent.ID].Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
