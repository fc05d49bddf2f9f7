package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"alegria_backend/internal/handlers"
	"alegria_backend/internal/models"
	"alegria_backend/pkg/utils"
)

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) (string, *utils.APIError) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", "")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>", "")
	}
	return parts[1], nil
}

func setClaims(c *gin.Context, claims *utils.Claims) {
	c.Set(handlers.ContextUserID, claims.UserID)
	c.Set(handlers.ContextUsername, claims.Username)
	c.Set(handlers.ContextUserRole, claims.Role)
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, apiErr := bearerToken(c)
		if apiErr != nil {
			utils.RespondWithError(c, apiErr)
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token", err.Error()))
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the user claims when a valid token is sent and lets
// anonymous requests through. A malformed or invalid token is still rejected.
func OptionalAuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		AuthMiddleware(tokens)(c)
	}
}

// RoleAuthMiddleware creates a Gin middleware for role-based authorization.
// It checks if the user role (from JWT claims) is one of the allowed roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleStr := c.GetString(handlers.ContextUserRole)
		if roleStr == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "User role not found in token claims.", ""))
			return
		}

		for _, r := range allowedRoles {
			if strings.EqualFold(roleStr, r) {
				c.Next()
				return
			}
		}

		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
			"You do not have permission to access this resource.", "Required roles: "+strings.Join(allowedRoles, ", ")))
	}
}

// AdminOnlyForWrites lets every authenticated role read and restricts other methods to Admin.
func AdminOnlyForWrites() gin.HandlerFunc {
	adminOnly := RoleAuthMiddleware(models.RoleAdmin)
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			adminOnly(c)
		}
	}
}
