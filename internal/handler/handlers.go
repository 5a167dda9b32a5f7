package handler

import (
	"room_chat/internal/config"
	"room_chat/internal/service"
	"room_chat/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	Room      *RoomHandler
	Media     *MediaHandler
	WebSocket *WebSocketHandler
}

func NewHandlers(services *service.Services, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(),
		Room:      NewRoomHandler(services.Room, log),
		Media:     NewMediaHandler(services.Media, log),
		WebSocket: NewWebSocketHandler(services.Chat, cfg, log),
	}
}
