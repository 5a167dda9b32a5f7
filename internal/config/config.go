package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Upload      UploadConfig
	Chat        ChatConfig
	Redis       RedisConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

type ChatConfig struct {
	HistoryLimit  int
	EditWindow    time.Duration
	SendQueueSize int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 9281),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Upload: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "public/uploads"),
			MaxBytes: getEnvAsInt64("UPLOAD_MAX_BYTES", 50*1024*1024),
		},
		Chat: ChatConfig{
			HistoryLimit:  getEnvAsInt("CHAT_HISTORY_LIMIT", 1000),
			EditWindow:    getEnvAsDuration("CHAT_EDIT_WINDOW", 15*time.Minute),
			SendQueueSize: getEnvAsInt("CHAT_SEND_QUEUE_SIZE", 256),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Chat.HistoryLimit <= 0 {
		return fmt.Errorf("chat history limit must be positive")
	}
	if c.Chat.SendQueueSize <= 0 {
		return fmt.Errorf("chat send queue size must be positive")
	}
	if c.Upload.Dir == "" {
		return fmt.Errorf("upload directory must be set")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload max size must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
