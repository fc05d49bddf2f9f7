package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alegria_backend/internal/models"
	"alegria_backend/pkg/utils"
)

func newAuth() (AuthService, *utils.TokenManager) {
	tokens := utils.NewTokenManager("test-secret-0123456789", time.Hour)
	return NewAuthService(newMemAuthRepo(), &fakeTxManager{}, tokens), tokens
}

func TestRegisterUser_FirstAccountIsAdmin(t *testing.T) {
	svc, _ := newAuth()

	first, err := svc.RegisterUser("", RegisterUserRequest{Username: "owner", Password: "password1", Role: models.RoleStaff})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, first.Role)

	_, err = svc.RegisterUser("", RegisterUserRequest{Username: "waiter", Password: "password1"})
	assert.ErrorIs(t, err, ErrRegistrationClosed)

	_, err = svc.RegisterUser(models.RoleStaff, RegisterUserRequest{Username: "waiter", Password: "password1"})
	assert.ErrorIs(t, err, ErrRegistrationClosed)

	second, err := svc.RegisterUser(models.RoleAdmin, RegisterUserRequest{Username: "waiter", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, second.Role)

	_, err = svc.RegisterUser(models.RoleAdmin, RegisterUserRequest{Username: "waiter", Password: "password1"})
	assert.ErrorIs(t, err, ErrUsernameExists)

	_, err = svc.RegisterUser(models.RoleAdmin, RegisterUserRequest{Username: "chef", Password: "password1", Role: "Cook"})
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestLoginUser(t *testing.T) {
	svc, tokens := newAuth()
	user, err := svc.RegisterUser("", RegisterUserRequest{Username: "owner", Password: "password1"})
	require.NoError(t, err)

	resp, err := svc.LoginUser(LoginRequest{Username: " owner ", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := tokens.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = svc.LoginUser(LoginRequest{Username: "owner", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.LoginUser(LoginRequest{Username: "nobody", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUserProfile(t *testing.T) {
	svc, _ := newAuth()
	user, err := svc.RegisterUser("", RegisterUserRequest{Username: "owner", Password: "password1", FullName: "Rosa Mas"})
	require.NoError(t, err)

	profile, err := svc.GetUserProfile(user.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.FullName)
	assert.Equal(t, "Rosa Mas", *profile.FullName)

	_, err = svc.GetUserProfile(99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
