package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"room_chat/internal/service"
	"room_chat/pkg/errors"
	"room_chat/pkg/logger"
)

type MediaHandler struct {
	mediaService service.MediaService
	log          logger.Logger
}

func NewMediaHandler(mediaService service.MediaService, log logger.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		log:          log,
	}
}

func (h *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "No file uploaded"})
		return
	}

	result, err := h.mediaService.Store(file)
	if err != nil {
		h.log.Error("Upload failed", "filename", file.Filename, "error", err)
		c.JSON(errors.HTTPStatusFromError(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"url":          result.URL,
		"originalName": result.OriginalName,
		"type":         result.Kind,
	})
}
