package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alegria_backend/internal/handlers"
	"alegria_backend/internal/models"
	"alegria_backend/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error utils.APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func newTestEngine(mw ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	handlersChain := append(mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64(handlers.ContextUserID),
			"role":    c.GetString(handlers.ContextUserRole),
		})
	})
	engine.Any("/protected", handlersChain...)
	return engine
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("middleware-secret-123", time.Hour)
	valid, err := tokens.GenerateAccessToken(7, "marta", models.RoleStaff)
	require.NoError(t, err)
	foreign, err := utils.NewTokenManager("another-secret-4567", time.Hour).GenerateAccessToken(7, "marta", models.RoleStaff)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"signed with another secret", "Bearer " + foreign, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(AuthMiddleware(tokens))
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"user_id":7,"role":"Staff"}`, w.Body.String())
			} else {
				assert.Equal(t, utils.ErrCodeUnauthorized, errorCode(t, w))
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("middleware-secret-123", time.Hour)
	engine := newTestEngine(OptionalAuthMiddleware(tokens))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/protected", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0,"role":""}`, w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func withRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if role != "" {
			c.Set(handlers.ContextUserRole, role)
		}
		c.Next()
	}
}

func TestRoleAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"allowed", models.RoleAdmin, http.StatusOK},
		{"case insensitive", "admin", http.StatusOK},
		{"not allowed", models.RoleStaff, http.StatusForbidden},
		{"no role", "", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(withRole(tt.role), RoleAuthMiddleware(models.RoleAdmin))
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAdminOnlyForWrites(t *testing.T) {
	tests := []struct {
		method     string
		role       string
		wantStatus int
	}{
		{http.MethodGet, models.RoleStaff, http.StatusOK},
		{http.MethodPost, models.RoleStaff, http.StatusForbidden},
		{http.MethodDelete, models.RoleStaff, http.StatusForbidden},
		{http.MethodPut, models.RoleAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" as "+tt.role, func(t *testing.T) {
			engine := newTestEngine(withRole(tt.role), AdminOnlyForWrites())
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, "/protected", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limit, err := RateLimitMiddleware("2-M")
	require.NoError(t, err)
	engine := newTestEngine(limit)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, utils.ErrCodeTooManyRequests, errorCode(t, w))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	// Another client has its own budget.
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	_, err = RateLimitMiddleware("lots")
	assert.Error(t, err)
}
