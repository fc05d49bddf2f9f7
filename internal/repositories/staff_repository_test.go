package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alegria_backend/internal/models"
)

func TestStaffRepository_GetStaff(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	search := " Ana "
	mock.ExpectQuery(`FROM users WHERE \(LOWER\(username\) LIKE \$1 OR LOWER\(COALESCE\(full_name, ''\)\) LIKE \$1\)\s+ORDER BY username ASC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs("%ana%", 13, 13).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "full_name", "role", "is_active", "created_at", "updated_at"}).
			AddRow(4, "ana", "Ana Gil", models.RoleStaff, true, now, now).
			AddRow(7, "mariana", nil, models.RoleAdmin, false, now, now))

	users, err := NewStaffRepository(db).GetStaff(&search, 13, 13)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.NotNil(t, users[0].FullName)
	assert.Equal(t, "Ana Gil", *users[0].FullName)
	assert.Nil(t, users[1].FullName)
	assert.False(t, users[1].IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepository_CountStaffWithoutSearch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	total, err := NewStaffRepository(db).CountStaff(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepository_UpdateStaffAccountNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET full_name = \$1, role = \$2, is_active = \$3, updated_at = \$4 WHERE id = \$5`).
		WithArgs(nil, models.RoleStaff, true, sqlmock.AnyArg(), int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewStaffRepository(db).UpdateStaffAccount(db, &models.User{ID: 8, Role: models.RoleStaff, IsActive: true})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepository_CountActiveAdmins(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id FROM users WHERE role = \$1 AND is_active = TRUE ORDER BY id FOR UPDATE`).
		WithArgs(models.RoleAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(5))

	total, err := NewStaffRepository(db).CountActiveAdmins(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
