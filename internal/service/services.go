package service

import (
	"room_chat/internal/config"
	"room_chat/internal/repository"
	"room_chat/pkg/logger"
)

type Services struct {
	Room      RoomService
	Chat      ChatService
	Media     MediaService
	RateLimit RateLimitService // nil when Redis is not configured
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log logger.Logger) (*Services, error) {
	roomSvc, err := NewRoomService(repos.Room, cfg, log)
	if err != nil {
		return nil, err
	}

	mediaSvc, err := NewMediaService(cfg, log)
	if err != nil {
		return nil, err
	}

	bcaster := NewBroadcaster(log)

	services := &Services{
		Room:  roomSvc,
		Chat:  NewChatService(repos.Room, roomSvc, bcaster, cfg, log),
		Media: mediaSvc,
	}
	if repos.RateLimit != nil {
		services.RateLimit = NewRateLimitService(repos.RateLimit, log)
	}
	return services, nil
}
