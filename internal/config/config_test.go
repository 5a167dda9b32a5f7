package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 9281, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, int64(50*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, 1000, cfg.Chat.HistoryLimit)
	assert.Equal(t, 15*time.Minute, cfg.Chat.EditWindow)
	assert.Equal(t, 256, cfg.Chat.SendQueueSize)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("CHAT_HISTORY_LIMIT", "50")
	t.Setenv("CHAT_EDIT_WINDOW", "1m")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("UPLOAD_MAX_BYTES", "1048576")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Chat.HistoryLimit)
	assert.Equal(t, time.Minute, cfg.Chat.EditWindow)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, int64(1048576), cfg.Upload.MaxBytes)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("CHAT_EDIT_WINDOW", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9281, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Chat.EditWindow)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Upload: UploadConfig{Dir: "uploads", MaxBytes: 1},
		Chat:   ChatConfig{HistoryLimit: 1, SendQueueSize: 1},
	}
	require.NoError(t, cfg.validate())

	cfg.Chat.HistoryLimit = 0
	assert.Error(t, cfg.validate())
	cfg.Chat.HistoryLimit = 1

	cfg.Upload.Dir = ""
	assert.Error(t, cfg.validate())
}
