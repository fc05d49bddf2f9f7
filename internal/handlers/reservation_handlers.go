package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"alegria_backend/internal/models"
	"alegria_backend/internal/services"
	"alegria_backend/pkg/utils"
)

const queryDateLayout = "2006-01-02"

// ReservationHandler serves hotel reservations.
type ReservationHandler struct {
	reservationService services.ReservationService
	defaultPageSize    int
}

func NewReservationHandler(rs services.ReservationService, defaultPageSize int) *ReservationHandler {
	return &ReservationHandler{reservationService: rs, defaultPageSize: defaultPageSize}
}

func optionalDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		utils.RespondValidationFailed(c, name+" must use the YYYY-MM-DD format")
		return nil, false
	}
	return &t, true
}

func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req services.ReservationRequest
	if !bindJSON(c, &req, "CreateReservation") {
		return
	}
	reservation, err := h.reservationService.CreateReservation(req)
	if err != nil {
		respondServiceError(c, err, "CreateReservation: Error from reservationService.CreateReservation", "Failed to create reservation.")
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// GetReservations lists reservations filtered by client_id, date_from and date_to.
func (h *ReservationHandler) GetReservations(c *gin.Context) {
	pageReq, ok := pageRequestFromQuery(c, h.defaultPageSize)
	if !ok {
		return
	}

	var filters models.ReservationFilters
	if filters.ClientID, ok = optionalInt64Query(c, "client_id"); !ok {
		return
	}
	if filters.DateFrom, ok = optionalDateQuery(c, "date_from"); !ok {
		return
	}
	if filters.DateTo, ok = optionalDateQuery(c, "date_to"); !ok {
		return
	}

	page, err := h.reservationService.GetReservations(filters, pageReq)
	if err != nil {
		respondServiceError(c, err, "GetReservations: Error from reservationService.GetReservations", "Failed to fetch reservations.")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetOccupiedReservations lists the stays a bar ticket can be charged to right now.
func (h *ReservationHandler) GetOccupiedReservations(c *gin.Context) {
	reservations, err := h.reservationService.GetOccupiedReservations()
	if err != nil {
		respondServiceError(c, err, "GetOccupiedReservations: Error from reservationService.GetOccupiedReservations", "Failed to fetch occupied reservations.")
		return
	}
	c.JSON(http.StatusOK, reservations)
}

func (h *ReservationHandler) GetReservationByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "reservation")
	if !ok {
		return
	}
	reservation, err := h.reservationService.GetReservationByID(id)
	if err != nil {
		respondServiceError(c, err, "GetReservationByID: Error from reservationService.GetReservationByID", "Failed to fetch reservation.")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "reservation")
	if !ok {
		return
	}
	var req services.ReservationRequest
	if !bindJSON(c, &req, "UpdateReservation") {
		return
	}
	reservation, err := h.reservationService.UpdateReservation(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateReservation: Error from reservationService.UpdateReservation", "Failed to update reservation.")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "reservation")
	if !ok {
		return
	}
	if err := h.reservationService.DeleteReservation(id); err != nil {
		respondServiceError(c, err, "DeleteReservation: Error from reservationService.DeleteReservation", "Failed to delete reservation.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted successfully"})
}
