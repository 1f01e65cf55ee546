package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"oa_backend/internal/models"
)

// AuthRepository defines the interface for authentication-related database operations.
type AuthRepository interface {
	CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error)
	FindUserByUsername(username string) (*models.User, string, error) // Returns User, HashedPassword, Error
	FindUserByID(userID int64) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	FindRoleByName(name string) (*models.Role, error)
	UpdateUserRole(executor SQLExecutor, userID, roleID int64) error
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

// CreateUser inserts an active user. The unique constraint on username surfaces as ErrDuplicateKey.
func (r *authRepository) CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	query := `INSERT INTO users
	            (username, password_hash, real_name, email, organization_id, position_id, role_id, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, $8)
	          RETURNING id`

	var userID int64
	err := executor.QueryRow(query,
		user.Username, hashedPassword, user.RealName, user.Email,
		user.OrganizationID, user.PositionID, user.RoleID, time.Now(),
	).Scan(&userID)
	if err != nil {
		return 0, classify(err, fmt.Sprintf("creating user %q", user.Username))
	}
	return userID, nil
}

const userSelect = `
		SELECT u.id, u.username, u.password_hash, u.real_name, u.email, u.organization_id, u.position_id,
		       u.role_id, u.is_active, u.created_at, u.updated_at, ro.name
		FROM users u
		LEFT JOIN roles ro ON u.role_id = ro.id`

func scanUser(row scanner) (*models.User, string, error) {
	user := &models.User{}
	var hashedPassword string
	var realName, email, roleName sql.NullString
	var orgID, positionID, roleID sql.NullInt64

	err := row.Scan(
		&user.ID, &user.Username, &hashedPassword, &realName, &email, &orgID, &positionID,
		&roleID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &roleName,
	)
	if err != nil {
		return nil, "", err
	}
	user.RealName = nullStringPtr(realName)
	user.Email = nullStringPtr(email)
	if orgID.Valid {
		user.OrganizationID = &orgID.Int64
	}
	if positionID.Valid {
		user.PositionID = &positionID.Int64
	}
	if roleID.Valid {
		user.RoleID = &roleID.Int64
		if roleName.Valid {
			user.Role = &models.Role{ID: roleID.Int64, Name: roleName.String}
		}
	}
	return user, hashedPassword, nil
}

// FindUserByUsername retrieves a user by their username, with the stored password hash.
func (r *authRepository) FindUserByUsername(username string) (*models.User, string, error) {
	user, hash, err := scanUser(r.db.QueryRow(userSelect+` WHERE u.username = $1`, username))
	if err != nil {
		return nil, "", classify(err, fmt.Sprintf("finding user by username %s", username))
	}
	return user, hash, nil
}

// FindUserByID retrieves a user profile. The password hash is not returned.
func (r *authRepository) FindUserByID(userID int64) (*models.User, error) {
	user, _, err := scanUser(r.db.QueryRow(userSelect+` WHERE u.id = $1`, userID))
	if err != nil {
		return nil, classify(err, fmt.Sprintf("finding user by ID %d", userID))
	}
	return user, nil
}

// FindUserByEmail matches the email case-insensitively.
func (r *authRepository) FindUserByEmail(email string) (*models.User, error) {
	user, _, err := scanUser(r.db.QueryRow(userSelect+` WHERE LOWER(u.email) = LOWER($1) ORDER BY u.id LIMIT 1`, email))
	if err != nil {
		return nil, classify(err, fmt.Sprintf("finding user by email %s", email))
	}
	return user, nil
}

func (r *authRepository) UpdateUserRole(executor SQLExecutor, userID, roleID int64) error {
	result, err := executor.Exec(`UPDATE users SET role_id = $1, updated_at = $2 WHERE id = $3`, roleID, time.Now(), userID)
	if err != nil {
		return classify(err, fmt.Sprintf("updating role of user %d", userID))
	}
	return expectAffected(result, fmt.Sprintf("updating role of user %d", userID))
}

// FindRoleByName looks a role up case-insensitively.
func (r *authRepository) FindRoleByName(name string) (*models.Role, error) {
	var role models.Role
	err := r.db.QueryRow(`SELECT id, name FROM roles WHERE LOWER(name) = LOWER($1)`, name).
		Scan(&role.ID, &role.Name)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("finding role %q", name))
	}
	return &role, nil
}
