package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"alegria_backend/internal/models"
)

// AuthRepository defines the interface for staff account database operations.
type AuthRepository interface {
	CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error)
	FindUserByUsername(username string) (*models.User, string, error) // Returns User, HashedPassword, Error
	FindUserByID(userID int64) (*models.User, error)
	CountUsers(executor SQLExecutor) (int, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

// CreateUser inserts a new active user. Username uniqueness is enforced by the users table.
func (r *authRepository) CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	query := `INSERT INTO users (username, password_hash, full_name, role, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, TRUE, $5, $6)
	          RETURNING id`

	now := time.Now()
	user.IsActive = true
	user.CreatedAt, user.UpdatedAt = now, now

	err := executor.QueryRow(query, user.Username, hashedPassword, user.FullName, user.Role, now, now).Scan(&user.ID)
	if err != nil {
		return 0, mapWriteError(err, "creating user")
	}
	return user.ID, nil
}

func (r *authRepository) findUser(where string, arg interface{}) (*models.User, string, error) {
	query := `SELECT id, username, password_hash, full_name, role, is_active, created_at, updated_at
	          FROM users WHERE ` + where

	user := &models.User{}
	var hashedPassword string
	var fullName sql.NullString
	err := r.db.QueryRow(query, arg).Scan(
		&user.ID, &user.Username, &hashedPassword, &fullName, &user.Role,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, "", err
	}
	if fullName.Valid {
		user.FullName = &fullName.String
	}
	return user, hashedPassword, nil
}

// FindUserByUsername returns the user and their password hash for login checks.
func (r *authRepository) FindUserByUsername(username string) (*models.User, string, error) {
	user, hash, err := r.findUser("username = $1", username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: finding user by username %s: %v", ErrDatabaseError, username, err)
	}
	return user, hash, nil
}

// FindUserByID retrieves the profile of a user; the hash is not exposed.
func (r *authRepository) FindUserByID(userID int64) (*models.User, error) {
	user, _, err := r.findUser("id = $1", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by ID %d: %v", ErrDatabaseError, userID, err)
	}
	return user, nil
}

// CountUsers tells whether the installation is still waiting for its first account.
func (r *authRepository) CountUsers(executor SQLExecutor) (int, error) {
	if executor == nil {
		executor = r.db
	}
	var total int
	if err := executor.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: counting users: %v", ErrDatabaseError, err)
	}
	return total, nil
}
