package repository

import (
	"github.com/redis/go-redis/v9"

	"room_chat/internal/config"
	"room_chat/pkg/logger"
)

type Repositories struct {
	Room      RoomRepository
	RateLimit RateLimitRepository // nil when Redis is not configured
}

func NewRepositories(rdb *redis.Client, cfg *config.Config, log logger.Logger) *Repositories {
	repos := &Repositories{
		Room: NewRoomRepository(cfg.Chat.HistoryLimit, log),
	}
	if rdb != nil {
		repos.RateLimit = NewRateLimitRepository(rdb, log)
	}
	return repos
}
