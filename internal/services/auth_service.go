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

// --- Custom Service Errors ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrRoleNotFound       = errors.New("specified role not found")
	ErrRegistrationClosed = errors.New("only an administrator can register new users")
)

// --- Data Transfer Objects (DTOs) ---

// LoginRequest DTO
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterUserRequest DTO
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
	Role     string `json:"role"` // "Admin" or "Staff"; Staff when empty. Ignored for the first account.
}

// AuthResponse DTO
type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"` // seconds
}

// --- AuthService Interface ---
type AuthService interface {
	// RegisterUser creates a staff account. actorRole is the role of the caller, empty when anonymous.
	RegisterUser(actorRole string, req RegisterUserRequest) (*models.User, error)
	LoginUser(req LoginRequest) (*AuthResponse, error)
	GetUserProfile(userID int64) (*models.User, error)
}

type authService struct {
	authRepo  repositories.AuthRepository
	txManager repositories.TxManager
	tokens    *utils.TokenManager
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(authRepo repositories.AuthRepository, txManager repositories.TxManager, tokens *utils.TokenManager) AuthService {
	return &authService{
		authRepo:  authRepo,
		txManager: txManager,
		tokens:    tokens,
	}
}

// RegisterUser handles the business logic for user registration. Registration is
// open only while no account exists; that first account is always an Admin.
func (s *authService) RegisterUser(actorRole string, req RegisterUserRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.RoleStaff
	}
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("%w: '%s'", ErrRoleNotFound, req.Role)
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		FullName: utils.NewNullString(strings.TrimSpace(req.FullName)),
	}

	err = s.txManager.WithinTx(func(tx repositories.SQLExecutor) error {
		existing, err := s.authRepo.CountUsers(tx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		switch {
		case existing == 0:
			user.Role = models.RoleAdmin
		case actorRole != models.RoleAdmin:
			return ErrRegistrationClosed
		default:
			user.Role = role
		}

		if _, err := s.authRepo.CreateUser(tx, user, string(hashedPasswordBytes)); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return ErrUsernameExists
			}
			return fmt.Errorf("failed to register user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.LogInfo("User registered", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return user, nil
}

// LoginUser handles user login and token generation.
func (s *authService) LoginUser(req LoginRequest) (*AuthResponse, error) {
	user, storedHashedPassword, err := s.authRepo.FindUserByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		User:        user,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
	}, nil
}

// GetUserProfile retrieves a user's profile by their ID.
func (s *authService) GetUserProfile(userID int64) (*models.User, error) {
	user, err := s.authRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}
	return user, nil
}
