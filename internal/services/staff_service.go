package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"alegria_backend/internal/models"
	"alegria_backend/internal/repositories"
	"alegria_backend/pkg/utils"
)

var ErrLastAdmin = errors.New("at least one active administrator must remain")

// UpdateStaffRequest changes only the fields that are sent.
type UpdateStaffRequest struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// StaffService is the administrator's view of the staff accounts.
type StaffService interface {
	GetStaff(searchTerm *string, req PageRequest) (*Page[models.User], error)
	GetStaffByID(userID int64) (*models.User, error)
	UpdateStaff(userID int64, req UpdateStaffRequest) (*models.User, error)
	ResetPassword(userID int64, req ResetPasswordRequest) error
}

type staffService struct {
	staffRepo repositories.StaffRepository
	authRepo  repositories.AuthRepository
	txManager repositories.TxManager
}

func NewStaffService(staffRepo repositories.StaffRepository, authRepo repositories.AuthRepository, txManager repositories.TxManager) StaffService {
	return &staffService{staffRepo: staffRepo, authRepo: authRepo, txManager: txManager}
}

func (s *staffService) GetStaff(searchTerm *string, req PageRequest) (*Page[models.User], error) {
	return paginate(req,
		func() (int, error) { return s.staffRepo.CountStaff(searchTerm) },
		func(offset, limit int) ([]models.User, error) { return s.staffRepo.GetStaff(searchTerm, offset, limit) },
	)
}

func (s *staffService) GetStaffByID(userID int64) (*models.User, error) {
	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get staff account: %w", err)
	}
	return user, nil
}

// UpdateStaff applies the requested changes. Demoting or deactivating the last
// active Admin is refused.
func (s *staffService) UpdateStaff(userID int64, req UpdateStaffRequest) (*models.User, error) {
	user, err := s.GetStaffByID(userID)
	if err != nil {
		return nil, err
	}
	wasActiveAdmin := user.Role == models.RoleAdmin && user.IsActive

	if req.Role != nil {
		if !models.IsValidRole(*req.Role) {
			return nil, fmt.Errorf("%w: '%s'", ErrRoleNotFound, *req.Role)
		}
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.FullName != nil {
		user.FullName = utils.NewNullString(strings.TrimSpace(*req.FullName))
	}
	losesAdmin := wasActiveAdmin && (user.Role != models.RoleAdmin || !user.IsActive)

	err = s.txManager.WithinTx(func(tx repositories.SQLExecutor) error {
		if losesAdmin {
			// The account itself is still counted until the update runs.
			admins, err := s.staffRepo.CountActiveAdmins(tx)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdmin
			}
		}
		return s.staffRepo.UpdateStaffAccount(tx, user)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, ErrLastAdmin) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update staff account: %w", err)
	}

	utils.LogInfo("Staff account updated", map[string]interface{}{"user_id": user.ID, "role": user.Role, "is_active": user.IsActive})
	return user, nil
}

func (s *staffService) ResetPassword(userID int64, req ResetPasswordRequest) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.staffRepo.UpdatePasswordHash(nil, userID, string(hashed)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}
