package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alegria_backend/internal/services"
)

// RoomHandler serves room types and rooms.
type RoomHandler struct {
	roomService     services.RoomService
	defaultPageSize int
}

func NewRoomHandler(rs services.RoomService, defaultPageSize int) *RoomHandler {
	return &RoomHandler{roomService: rs, defaultPageSize: defaultPageSize}
}

func (h *RoomHandler) CreateRoomType(c *gin.Context) {
	var req services.RoomTypeRequest
	if !bindJSON(c, &req, "CreateRoomType") {
		return
	}
	roomType, err := h.roomService.CreateRoomType(req)
	if err != nil {
		respondServiceError(c, err, "CreateRoomType: Error from roomService.CreateRoomType", "Failed to create room type.")
		return
	}
	c.JSON(http.StatusCreated, roomType)
}

func (h *RoomHandler) GetRoomTypes(c *gin.Context) {
	pageReq, ok := pageRequestFromQuery(c, h.defaultPageSize)
	if !ok {
		return
	}
	page, err := h.roomService.GetRoomTypes(pageReq)
	if err != nil {
		respondServiceError(c, err, "GetRoomTypes: Error from roomService.GetRoomTypes", "Failed to fetch room types.")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *RoomHandler) GetRoomTypeByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "room type")
	if !ok {
		return
	}
	roomType, err := h.roomService.GetRoomTypeByID(id)
	if err != nil {
		respondServiceError(c, err, "GetRoomTypeByID: Error from roomService.GetRoomTypeByID", "Failed to fetch room type.")
		return
	}
	c.JSON(http.StatusOK, roomType)
}

func (h *RoomHandler) UpdateRoomType(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "room type")
	if !ok {
		return
	}
	var req services.RoomTypeRequest
	if !bindJSON(c, &req, "UpdateRoomType") {
		return
	}
	roomType, err := h.roomService.UpdateRoomType(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateRoomType: Error from roomService.UpdateRoomType", "Failed to update room type.")
		return
	}
	c.JSON(http.StatusOK, roomType)
}

func (h *RoomHandler) DeleteRoomType(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "room type")
	if !ok {
		return
	}
	if err := h.roomService.DeleteRoomType(id); err != nil {
		respondServiceError(c, err, "DeleteRoomType: Error from roomService.DeleteRoomType", "Failed to delete room type.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room type deleted successfully"})
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req services.RoomRequest
	if !bindJSON(c, &req, "CreateRoom") {
		return
	}
	room, err := h.roomService.CreateRoom(req)
	if err != nil {
		respondServiceError(c, err, "CreateRoom: Error from roomService.CreateRoom", "Failed to create room.")
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h *RoomHandler) GetRooms(c *gin.Context) {
	pageReq, ok := pageRequestFromQuery(c, h.defaultPageSize)
	if !ok {
		return
	}
	page, err := h.roomService.GetRooms(pageReq)
	if err != nil {
		respondServiceError(c, err, "GetRooms: Error from roomService.GetRooms", "Failed to fetch rooms.")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *RoomHandler) GetRoomByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "room")
	if !ok {
		return
	}
	room, err := h.roomService.GetRoomByID(id)
	if err != nil {
		respondServiceError(c, err, "GetRoomByID: Error from roomService.GetRoomByID", "Failed to fetch room.")
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "room")
	if !ok {
		return
	}
	var req services.RoomRequest
	if !bindJSON(c, &req, "UpdateRoom") {
		return
	}
	room, err := h.roomService.UpdateRoom(id, req)
	if err != nil {
		respondServiceError(c, err, "UpdateRoom: Error from roomService.UpdateRoom", "Failed to update room.")
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "room")
	if !ok {
		return
	}
	if err := h.roomService.DeleteRoom(id); err != nil {
		respondServiceError(c, err, "DeleteRoom: Error from roomService.DeleteRoom", "Failed to delete room.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}
