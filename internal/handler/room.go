package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"room_chat/internal/service"
	"room_chat/pkg/errors"
	"room_chat/pkg/logger"
)

type RoomHandler struct {
	roomService service.RoomService
	log         logger.Logger
}

func NewRoomHandler(roomService service.RoomService, log logger.Logger) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		log:         log,
	}
}

type CreateRoomRequest struct {
	RoomName string `json:"roomName"`
	Password string `json:"password"`
	Username string `json:"username"`
	RoomType string `json:"roomType"`
}

func (h *RoomHandler) Create(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "roomName required"})
		return
	}

	room, err := h.roomService.Create(req.RoomName, req.Password, req.Username, req.RoomType)
	if err != nil {
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	shareURL := fmt.Sprintf("%s://%s/room/%s", scheme, c.Request.Host, room.ID)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"roomId":   room.ID,
		"roomName": room.Name,
		"shareUrl": shareURL,
	})
}

type JoinRoomRequest struct {
	RoomID   string `json:"roomId"`
	Password string `json:"password"`
}

// Join is the pre-join access check: it validates the room's existence and
// secret before the client opens the websocket.
func (h *RoomHandler) Join(c *gin.Context) {
	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "roomId required"})
		return
	}

	if err := h.roomService.VerifySecret(req.RoomID, req.Password); err != nil {
		switch err {
		case errors.ErrRoomNotFound:
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "Room not found"})
		case errors.ErrInvalidAccessSecret:
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "Invalid password"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	room, err := h.roomService.Get(req.RoomID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "Room not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "roomName": room.Name})
}

type CheckUsernameRequest struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

func (h *RoomHandler) CheckUsername(c *gin.Context) {
	var req CheckUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RoomID == "" || req.Username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "available": false, "message": "roomId & username required"})
		return
	}

	available, err := h.roomService.CheckUsernameAvailable(req.RoomID, req.Username)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "available": false, "message": "Room not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "available": available})
}

func (h *RoomHandler) ListPublic(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rooms":   h.roomService.ListPublic(),
	})
}

func (h *RoomHandler) Info(c *gin.Context) {
	roomID := c.Param("id")

	room, err := h.roomService.Get(roomID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Room not found"})
		return
	}
	active, err := h.roomService.ActiveCount(roomID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Room not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"room": gin.H{
			"id":          room.ID,
			"name":        room.Name,
			"type":        room.Visibility,
			"activeUsers": active,
		},
	})
}
