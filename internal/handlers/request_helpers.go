package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"alegria_backend/internal/services"
	"alegria_backend/pkg/pagination"
	"alegria_backend/pkg/utils"
)

// Context keys set by the auth middleware.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextUserRole = "userRole"
)

// parseIDParam reads a positive int64 path parameter. It responds 400 and returns
// false when the value is malformed.
func parseIDParam(c *gin.Context, name, label string) (int64, bool) {
	raw := c.Param(name)
	id, err := utils.StrToInt64(raw)
	if err != nil || id <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+label+" ID format.", raw))
		return 0, false
	}
	return id, true
}

// pageRequestFromQuery reads page (zero-based), page_size and action from the query string.
func pageRequestFromQuery(c *gin.Context, defaultPageSize int) (services.PageRequest, bool) {
	req := services.PageRequest{PageSize: defaultPageSize}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			utils.RespondValidationFailed(c, "page must be a non-negative integer")
			return req, false
		}
		req.Page = page
	}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			utils.RespondValidationFailed(c, pagination.ErrInvalidPageSize.Error())
			return req, false
		}
		req.PageSize = size
	}
	req.Action = pagination.ParseAction(c.Query("action"))
	return req, true
}

// optionalInt64Query parses an optional integer filter. It responds 400 on bad input.
func optionalInt64Query(c *gin.Context, name string) (*int64, bool) {
	value, err := utils.OptionalInt64(c.Query(name))
	if err != nil {
		utils.RespondValidationFailed(c, name+" must be an integer")
		return nil, false
	}
	return value, true
}

func bindJSON(c *gin.Context, dst interface{}, operation string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.LogError(err, operation+": Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
		return false
	}
	return true
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// serviceErrors maps service sentinels to HTTP responses. First match wins.
var serviceErrors = []errorMapping{
	{pagination.ErrInvalidPageSize, http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid page size."},
	{services.ErrValidation, http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed."},
	{services.ErrClientValidation, http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed."},
	{services.ErrDateFormat, http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date."},
	{services.ErrInvalidReportPeriod, http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid report period."},
	{services.ErrInvalidStay, http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid stay dates."},
	{services.ErrNoRooms, http.StatusBadRequest, utils.ErrCodeValidationFailed, "No rooms requested."},
	{services.ErrInvalidTable, http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid table."},
	{services.ErrInvalidPaymentMethod, http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid payment method."},
	{services.ErrReservationRequired, http.StatusBadRequest, utils.ErrCodeValidationFailed, "Reservation required."},
	{services.ErrRoleNotFound, http.StatusBadRequest, utils.ErrCodeBadRequest, "Specified role not found."},

	{services.ErrCategoryNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Product category not found."},
	{services.ErrProductNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Product not found."},
	{services.ErrRoomTypeNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Room type not found."},
	{services.ErrRoomNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Room not found."},
	{services.ErrClientNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Client not found."},
	{services.ErrReservationNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Reservation not found."},
	{services.ErrTicketNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Ticket not found."},
	{services.ErrTemporalProductNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Ticket product not found."},
	{services.ErrInvoiceNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "Invoice not found."},
	{services.ErrUserNotFound, http.StatusNotFound, utils.ErrCodeNotFound, "User profile not found."},

	{services.ErrIdentityDocumentExists, http.StatusConflict, utils.ErrCodeConflict, "Identity document already registered."},
	{services.ErrUsernameExists, http.StatusConflict, utils.ErrCodeConflict, "Username already exists."},
	{services.ErrRoomNotAvailable, http.StatusConflict, utils.ErrCodeConflict, "Room not available."},
	{services.ErrTicketLocked, http.StatusConflict, utils.ErrCodeConflict, "Ticket is locked."},
	{services.ErrEmptyTicket, http.StatusConflict, utils.ErrCodeConflict, "Ticket is empty."},
	{services.ErrReservationNotOccupied, http.StatusConflict, utils.ErrCodeConflict, "Reservation is not in progress."},
	{services.ErrLastAdmin, http.StatusConflict, utils.ErrCodeConflict, "At least one active administrator must remain."},

	{services.ErrInvalidCredentials, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid username or password."},
	{services.ErrRegistrationClosed, http.StatusForbidden, utils.ErrCodeForbidden, "Only an administrator can register users."},
}

// respondServiceError logs err and answers with the mapped status, or 500 with fallback.
func respondServiceError(c *gin.Context, err error, operation, fallback string) {
	utils.LogError(err, operation)
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			utils.RespondWithError(c, utils.NewAPIError(m.status, m.code, m.message, err.Error()))
			return
		}
	}
	utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
}
