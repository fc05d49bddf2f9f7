package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"alegria_backend/internal/services"
)

// StaffHandler holds the staff service.
type StaffHandler struct {
	staffService    services.StaffService
	defaultPageSize int
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(ss services.StaffService, defaultPageSize int) *StaffHandler {
	return &StaffHandler{staffService: ss, defaultPageSize: defaultPageSize}
}

// GetStaff handles fetching the staff accounts with pagination and search.
func (h *StaffHandler) GetStaff(c *gin.Context) {
	pageReq, ok := pageRequestFromQuery(c, h.defaultPageSize)
	if !ok {
		return
	}

	var searchTerm *string
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		searchTerm = &search
	}

	page, err := h.staffService.GetStaff(searchTerm, pageReq)
	if err != nil {
		respondServiceError(c, err, "GetStaff: Error from staffService.GetStaff", "Failed to fetch staff accounts.")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *StaffHandler) GetStaffByID(c *gin.Context) {
	userID, ok := parseIDParam(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.staffService.GetStaffByID(userID)
	if err != nil {
		respondServiceError(c, err, "GetStaffByID: Error from staffService.GetStaffByID", "Failed to fetch staff account.")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateStaff changes the full name, role or active flag of an account.
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	userID, ok := parseIDParam(c, "id", "user")
	if !ok {
		return
	}

	var req services.UpdateStaffRequest
	if !bindJSON(c, &req, "UpdateStaff") {
		return
	}

	user, err := h.staffService.UpdateStaff(userID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateStaff: Error from staffService.UpdateStaff", "Failed to update staff account.")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *StaffHandler) ResetPassword(c *gin.Context) {
	userID, ok := parseIDParam(c, "id", "user")
	if !ok {
		return
	}

	var req services.ResetPasswordRequest
	if !bindJSON(c, &req, "ResetPassword") {
		return
	}

	if err := h.staffService.ResetPassword(userID, req); err != nil {
		respondServiceError(c, err, "ResetPassword: Error from staffService.ResetPassword", "Failed to reset password.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
