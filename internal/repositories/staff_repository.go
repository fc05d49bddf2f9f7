package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"alegria_backend/internal/models"
)

// StaffRepository lists and maintains the staff accounts stored in users.
type StaffRepository interface {
	CountStaff(searchTerm *string) (int, error)
	GetStaff(searchTerm *string, offset, limit int) ([]models.User, error)
	UpdateStaffAccount(executor SQLExecutor, user *models.User) error
	UpdatePasswordHash(executor SQLExecutor, userID int64, hashedPassword string) error
	CountActiveAdmins(executor SQLExecutor) (int, error)
}

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new instance of StaffRepository.
func NewStaffRepository(db *sql.DB) StaffRepository {
	return &staffRepository{db: db}
}

func staffSearchCondition(searchTerm *string) (string, []interface{}) {
	if searchTerm == nil || strings.TrimSpace(*searchTerm) == "" {
		return "", nil
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(*searchTerm)) + "%"
	return " WHERE (LOWER(username) LIKE $1 OR LOWER(COALESCE(full_name, '')) LIKE $1)", []interface{}{pattern}
}

func (r *staffRepository) CountStaff(searchTerm *string) (int, error) {
	where, args := staffSearchCondition(searchTerm)
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: counting staff accounts: %v", ErrDatabaseError, err)
	}
	return total, nil
}

// GetStaff returns one window of accounts ordered by username. Password hashes are never read.
func (r *staffRepository) GetStaff(searchTerm *string, offset, limit int) ([]models.User, error) {
	where, args := staffSearchCondition(searchTerm)
	query := fmt.Sprintf(`SELECT id, username, full_name, role, is_active, created_at, updated_at
	          FROM users%s
	          ORDER BY username ASC
	          LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying staff accounts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		var fullName sql.NullString
		if err := rows.Scan(&u.ID, &u.Username, &fullName, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning staff account: %v", ErrDatabaseError, err)
		}
		if fullName.Valid {
			u.FullName = &fullName.String
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating staff account rows: %v", ErrDatabaseError, err)
	}
	return users, nil
}

func (r *staffRepository) UpdateStaffAccount(executor SQLExecutor, user *models.User) error {
	query := `UPDATE users SET full_name = $1, role = $2, is_active = $3, updated_at = $4 WHERE id = $5`

	user.UpdatedAt = time.Now()
	result, err := executor.Exec(query, user.FullName, user.Role, user.IsActive, user.UpdatedAt, user.ID)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("updating staff account ID %d", user.ID))
	}
	return expectAffected(result, fmt.Sprintf("updating staff account ID %d", user.ID))
}

func (r *staffRepository) UpdatePasswordHash(executor SQLExecutor, userID int64, hashedPassword string) error {
	if executor == nil {
		executor = r.db
	}
	result, err := executor.Exec(`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`, hashedPassword, time.Now(), userID)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("updating password of user ID %d", userID))
	}
	return expectAffected(result, fmt.Sprintf("updating password of user ID %d", userID))
}

// CountActiveAdmins guards against locking every administrator out. The admin
// rows stay locked until the surrounding transaction ends, so concurrent
// demotions are counted one after the other.
func (r *staffRepository) CountActiveAdmins(executor SQLExecutor) (int, error) {
	if executor == nil {
		executor = r.db
	}
	rows, err := executor.Query(`SELECT id FROM users WHERE role = $1 AND is_active = TRUE ORDER BY id FOR UPDATE`, models.RoleAdmin)
	if err != nil {
		return 0, fmt.Errorf("%w: counting active admins: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		total++
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: counting active admins: %v", ErrDatabaseError, err)
	}
	return total, nil
}
