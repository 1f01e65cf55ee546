package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"oa_backend/internal/models"
	"oa_backend/internal/repositories"
	"oa_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

type memAuthRepo struct {
	users  map[int64]*models.User
	hashes map[int64]string
	roles  []models.Role
}

func newMemAuthRepo() *memAuthRepo {
	return &memAuthRepo{
		users:  map[int64]*models.User{},
		hashes: map[int64]string{},
		roles:  []models.Role{{ID: 1, Name: "Admin"}, {ID: 2, Name: "Staff"}, {ID: 3, Name: "Finance"}},
	}
}

func (m *memAuthRepo) CreateUser(_ repositories.SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	for _, u := range m.users {
		if u.Username == user.Username {
			return 0, repositories.ErrDuplicateKey
		}
	}
	id := int64(len(m.users) + 1)
	cp := *user
	cp.ID, cp.IsActive = id, true
	for _, r := range m.roles {
		if user.RoleID != nil && r.ID == *user.RoleID {
			role := r
			cp.Role = &role
		}
	}
	m.users[id] = &cp
	m.hashes[id] = hashedPassword
	return id, nil
}

func (m *memAuthRepo) FindUserByUsername(username string) (*models.User, string, error) {
	for id, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, m.hashes[id], nil
		}
	}
	return nil, "", repositories.ErrNotFound
}

func (m *memAuthRepo) FindUserByID(userID int64) (*models.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memAuthRepo) FindUserByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memAuthRepo) UpdateUserRole(_ repositories.SQLExecutor, userID, roleID int64) error {
	u, ok := m.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	for _, r := range m.roles {
		if r.ID == roleID {
			role := r
			u.RoleID, u.Role = &role.ID, &role
			return nil
		}
	}
	return repositories.ErrForeignKey
}

func (m *memAuthRepo) FindRoleByName(name string) (*models.Role, error) {
	for _, r := range m.roles {
		if strings.EqualFold(r.Name, name) {
			role := r
			return &role, nil
		}
	}
	return nil, repositories.ErrNotFound
}

const testSecret = "test-secret"

func registerAndLogin(t *testing.T, repo *memAuthRepo) (*models.User, *AuthResponse) {
	t.Helper()
	svc := NewAuthService(repo, nil, testSecret, time.Hour)
	user, err := svc.RegisterUser(RegisterUserRequest{Username: "wang", Password: "s3cret-pass", RealName: "Wang Fang"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	resp, err := svc.LoginUser(LoginRequest{Username: "wang", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return user, resp
}

func TestRegisterAndLoginIssuesValidToken(t *testing.T) {
	repo := newMemAuthRepo()
	user, resp := registerAndLogin(t, repo)

	if user.Role == nil || user.Role.Name != DefaultRoleName {
		t.Fatalf("role = %+v, want %s", user.Role, DefaultRoleName)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.hashes[user.ID]), []byte("s3cret-pass")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
	claims, err := utils.ValidateToken([]byte(testSecret), resp.AccessToken)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != DefaultRoleName || claims.Username != "wang" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestAssignRoleChangesTokenRole(t *testing.T) {
	repo := newMemAuthRepo()
	user, _ := registerAndLogin(t, repo)
	svc := NewAuthService(repo, nil, testSecret, time.Hour)

	updated, err := svc.AssignRole(user.ID, AssignRoleRequest{RoleName: "finance"})
	if err != nil {
		t.Fatalf("AssignRole: %v", err)
	}
	if updated.RoleName() != "Finance" {
		t.Fatalf("role = %s, want Finance", updated.RoleName())
	}
	resp, err := svc.LoginUser(LoginRequest{Username: "wang", Password: "s3cret-pass"})
	if err != nil {
		t.Fatal(err)
	}
	claims, err := utils.ValidateToken([]byte(testSecret), resp.AccessToken)
	if err != nil || claims.Role != "Finance" {
		t.Fatalf("claims = %+v, err = %v", claims, err)
	}

	if _, err := svc.AssignRole(user.ID, AssignRoleRequest{RoleName: "wizard"}); !errors.Is(err, ErrRoleNotFound) {
		t.Errorf("unknown role err = %v, want ErrRoleNotFound", err)
	}
	if _, err := svc.AssignRole(404, AssignRoleRequest{RoleName: "Admin"}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user err = %v, want ErrUserNotFound", err)
	}
}

func TestRegisterErrors(t *testing.T) {
	repo := newMemAuthRepo()
	svc := NewAuthService(repo, nil, testSecret, time.Hour)

	if _, err := svc.RegisterUser(RegisterUserRequest{Username: "x", Password: "password1", RealName: "X"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.RegisterUser(RegisterUserRequest{Username: "x", Password: "password2", RealName: "Y"}); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("duplicate err = %v, want ErrUsernameExists", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newMemAuthRepo()
	user, _ := registerAndLogin(t, repo)
	svc := NewAuthService(repo, nil, testSecret, time.Hour)

	if _, err := svc.LoginUser(LoginRequest{Username: "wang", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, err := svc.LoginUser(LoginRequest{Username: "nobody", Password: "s3cret-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v", err)
	}
	repo.users[user.ID].IsActive = false
	if _, err := svc.LoginUser(LoginRequest{Username: "wang", Password: "s3cret-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("inactive user err = %v", err)
	}
}
