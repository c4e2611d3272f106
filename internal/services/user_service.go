package services

import (
	"database/sql"
	"fmt"

	"github.com/astreus-ai/astreus-admin-be/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for account services.
type UserServiceProvider interface {
	GetAllUsers() ([]models.User, error)
	GetUserByID(id string) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
	CreateUser(username, password string, isAdmin bool) (models.User, error)
	DeleteUser(id, callerUsername string) error
	AuthenticateUser(username, password string) (models.User, error)
}

// UserService provides business logic for account management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = "id, username, is_admin, created_at, updated_at"

// GetAllUsers retrieves every account, without password hashes.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query("SELECT " + userColumns + " FROM users ORDER BY created_at ASC")
	if err != nil {
		return nil, wrapDB(err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.IsAdmin, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDB(err)
	}
	return users, nil
}

// GetUserByID retrieves a single account by its ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.IsAdmin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return models.User{}, wrapDB(err)
	}
	return user, nil
}

// GetUserByUsername retrieves a single account by username, including the
// password hash for credential checks.
func (s *UserService) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow(
		"SELECT id, username, password_hash, is_admin, created_at, updated_at FROM users WHERE username = ?",
		username)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user %s: %w", username, ErrNotFound)
		}
		return models.User{}, wrapDB(err)
	}
	return user, nil
}

// CreateUser creates a new account, hashing its password. The username must
// not already be taken.
func (s *UserService) CreateUser(username, password string, isAdmin bool) (models.User, error) {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)", username).Scan(&exists)
	if err != nil {
		return models.User{}, wrapDB(err)
	}
	if exists {
		return models.User{}, fmt.Errorf("user %s: %w", username, ErrUsernameTaken)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New().String(),
		Username: username,
		IsAdmin:  isAdmin,
	}

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, password_hash, is_admin) VALUES(?, ?, ?, ?)")
	if err != nil {
		return models.User{}, wrapDB(err)
	}
	defer stmt.Close()

	if _, err = stmt.Exec(user.ID, user.Username, string(hashedPassword), user.IsAdmin); err != nil {
		return models.User{}, wrapDB(err)
	}

	return s.GetUserByID(user.ID)
}

// DeleteUser removes an account. Callers may not delete themselves, and the
// last remaining administrator account may not be deleted. The guards and the
// delete run inside one transaction so concurrent deletions cannot slip past
// the admin count.
func (s *UserService) DeleteUser(id, callerUsername string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return wrapDB(err)
	}
	defer tx.Rollback()

	var target models.User
	row := tx.QueryRow("SELECT id, username, is_admin FROM users WHERE id = ?", id)
	if err := row.Scan(&target.ID, &target.Username, &target.IsAdmin); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return wrapDB(err)
	}

	if target.Username == callerUsername {
		return ErrSelfDelete
	}
	if target.IsAdmin {
		var admins int
		if err := tx.QueryRow("SELECT COUNT(*) FROM users WHERE is_admin = 1").Scan(&admins); err != nil {
			return wrapDB(err)
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if _, err := tx.Exec("DELETE FROM users WHERE id = ?", id); err != nil {
		return wrapDB(err)
	}
	return tx.Commit()
}

// AuthenticateUser verifies an account's credentials.
func (s *UserService) AuthenticateUser(username, password string) (models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("authentication failed: invalid password")
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}
