package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"alegria_backend/internal/models"
	"alegria_backend/internal/services"
	"alegria_backend/pkg/utils"
)

// BarHandler serves the open tickets of the bar, restaurant and garden tables.
type BarHandler struct {
	barService services.BarService
}

func NewBarHandler(bs services.BarService) *BarHandler {
	return &BarHandler{barService: bs}
}

// GetTickets lists every open ticket with its products.
func (h *BarHandler) GetTickets(c *gin.Context) {
	tickets, err := h.barService.GetTickets()
	if err != nil {
		respondServiceError(c, err, "GetTickets: Error from barService.GetTickets", "Failed to fetch tickets.")
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *BarHandler) GetTicketByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "ticket")
	if !ok {
		return
	}
	ticket, err := h.barService.GetTicketByID(id)
	if err != nil {
		respondServiceError(c, err, "GetTicketByID: Error from barService.GetTicketByID", "Failed to fetch ticket.")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// AddProductToTable handles POST /bar/tables/:location/:table/products.
// The body carries the catalogue product_id; one unit is added.
func (h *BarHandler) AddProductToTable(c *gin.Context) {
	location, err := models.ParseTableLocation(c.Param("location"))
	if err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	table, err := strconv.Atoi(c.Param("table"))
	if err != nil {
		utils.RespondValidationFailed(c, "table must be an integer")
		return
	}

	var body struct {
		ProductID int64 `json:"product_id" binding:"required"`
	}
	if !bindJSON(c, &body, "AddProductToTable") {
		return
	}

	ticket, err := h.barService.AddProductToTable(services.AddProductToTableRequest{
		TableID:   table,
		Location:  location,
		ProductID: body.ProductID,
	})
	if err != nil {
		respondServiceError(c, err, "AddProductToTable: Error from barService.AddProductToTable", "Failed to add product to table.")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *BarHandler) UpdateTemporalProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "ticket product")
	if !ok {
		return
	}
	var req services.UpdateTemporalProductRequest
	if !bindJSON(c, &req, "UpdateTemporalProduct") {
		return
	}
	ticket, err := h.barService.UpdateTemporalProduct(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateTemporalProduct: Error from barService.UpdateTemporalProduct", "Failed to update ticket product.")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// DeleteTemporalProduct answers with the remaining ticket, or ticket_closed when
// the removed line was the last one.
func (h *BarHandler) DeleteTemporalProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "ticket product")
	if !ok {
		return
	}
	ticket, err := h.barService.DeleteTemporalProduct(id)
	if err != nil {
		respondServiceError(c, err, "DeleteTemporalProduct: Error from barService.DeleteTemporalProduct", "Failed to delete ticket product.")
		return
	}
	if ticket == nil {
		c.JSON(http.StatusOK, gin.H{"ticket_closed": true})
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *BarHandler) DeleteTicket(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "ticket")
	if !ok {
		return
	}
	if err := h.barService.DeleteTicket(id); err != nil {
		respondServiceError(c, err, "DeleteTicket: Error from barService.DeleteTicket", "Failed to delete ticket.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ticket deleted successfully"})
}

// PrintTicket accepts an optional body choosing the ticket_type (receipt by default).
func (h *BarHandler) PrintTicket(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "ticket")
	if !ok {
		return
	}
	var req services.PrintTicketRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req, "PrintTicket") {
		return
	}
	doc, err := h.barService.PrintTicket(id, req)
	if err != nil {
		respondServiceError(c, err, "PrintTicket: Error from barService.PrintTicket", "Failed to print ticket.")
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *BarHandler) UnlockTicket(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "ticket")
	if !ok {
		return
	}
	ticket, err := h.barService.UnlockTicket(id)
	if err != nil {
		respondServiceError(c, err, "UnlockTicket: Error from barService.UnlockTicket", "Failed to unlock ticket.")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *BarHandler) PayTicket(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "ticket")
	if !ok {
		return
	}
	var req services.PayTicketRequest
	if !bindJSON(c, &req, "PayTicket") {
		return
	}
	doc, err := h.barService.PayTicket(id, req)
	if err != nil {
		respondServiceError(c, err, "PayTicket: Error from barService.PayTicket", "Failed to pay ticket.")
		return
	}
	c.JSON(http.StatusOK, doc)
}
