package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"alegria_backend/internal/services"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService   services.ClientService
	defaultPageSize int
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService, defaultPageSize int) *ClientHandler {
	return &ClientHandler{clientService: cs, defaultPageSize: defaultPageSize}
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.ClientRequest
	if !bindJSON(c, &req, "CreateClient") {
		return
	}

	client, err := h.clientService.CreateClient(req)
	if err != nil {
		respondServiceError(c, err, "CreateClient: Error from clientService.CreateClient", "Failed to create client.")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClients handles fetching clients with pagination and search.
func (h *ClientHandler) GetClients(c *gin.Context) {
	pageReq, ok := pageRequestFromQuery(c, h.defaultPageSize)
	if !ok {
		return
	}

	var searchTerm *string
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		searchTerm = &search
	}

	page, err := h.clientService.GetClients(searchTerm, pageReq)
	if err != nil {
		respondServiceError(c, err, "GetClients: Error from clientService.GetClients", "Failed to fetch clients.")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id", "client")
	if !ok {
		return
	}

	client, err := h.clientService.GetClientByID(clientID)
	if err != nil {
		respondServiceError(c, err, "GetClientByID: Error from clientService.GetClientByID", "Failed to fetch client.")
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient handles updating a client.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id", "client")
	if !ok {
		return
	}

	var req services.ClientRequest
	if !bindJSON(c, &req, "UpdateClient") {
		return
	}

	client, err := h.clientService.UpdateClient(clientID, req)
	if err != nil {
		respondServiceError(c, err, "UpdateClient: Error from clientService.UpdateClient", "Failed to update client.")
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles deleting a client.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id", "client")
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(clientID); err != nil {
		respondServiceError(c, err, "DeleteClient: Error from clientService.DeleteClient", "Failed to delete client.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
