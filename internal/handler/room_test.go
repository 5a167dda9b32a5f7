package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room_chat/internal/config"
	"room_chat/internal/repository"
	"room_chat/internal/service"
	"room_chat/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Chat: config.ChatConfig{
			HistoryLimit:  1000,
			EditWindow:    15 * time.Minute,
			SendQueueSize: 16,
		},
	}
}

func newTestRouter(t *testing.T) (*gin.Engine, service.RoomService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	log := logger.NewNop()
	repo := repository.NewRoomRepository(cfg.Chat.HistoryLimit, log)
	roomSvc, err := service.NewRoomService(repo, cfg, log)
	require.NoError(t, err)

	h := NewRoomHandler(roomSvc, log)
	r := gin.New()
	r.POST("/create-room", h.Create)
	r.POST("/join-room", h.Join)
	r.POST("/check-username", h.CheckUsername)
	r.GET("/public-rooms", h.ListPublic)
	r.GET("/room/:id/info", h.Info)
	return r, roomSvc
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestCreateRoom(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/create-room", gin.H{
		"roomName": "My Room",
		"username": "alice",
		"roomType": "public",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "My Room", resp["roomName"])
	roomID, _ := resp["roomId"].(string)
	assert.Len(t, roomID, 8)
	assert.Contains(t, resp["shareUrl"], "/room/"+roomID)
}

func TestCreateRoomMissingName(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/create-room", gin.H{"roomName": "   "})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])
}

func TestJoinRoom(t *testing.T) {
	r, roomSvc := newTestRouter(t)
	room, err := roomSvc.Create("Locked", "hunter2", "alice", "private")
	require.NoError(t, err)

	w, resp := doJSON(t, r, http.MethodPost, "/join-room", gin.H{"roomId": room.ID, "password": "hunter2"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Locked", resp["roomName"])

	// the pre-join check reports failures with a 200 body, not a status
	w, resp = doJSON(t, r, http.MethodPost, "/join-room", gin.H{"roomId": room.ID, "password": "wrong"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Invalid password", resp["error"])

	w, resp = doJSON(t, r, http.MethodPost, "/join-room", gin.H{"roomId": "missing"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Room not found", resp["error"])
}

func TestCheckUsername(t *testing.T) {
	r, _ := newTestRouter(t)

	_, resp := doJSON(t, r, http.MethodPost, "/check-username", gin.H{
		"roomId":   repository.GeneralRoomID,
		"username": "alice",
	})
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, true, resp["available"])

	w, resp := doJSON(t, r, http.MethodPost, "/check-username", gin.H{"roomId": repository.GeneralRoomID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["available"])
}

func TestPublicRoomsListsGeneral(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/public-rooms", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])

	rooms, ok := resp["rooms"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, rooms)

	first := rooms[0].(map[string]any)
	assert.Equal(t, repository.GeneralRoomID, first["id"])
}

func TestRoomInfo(t *testing.T) {
	r, roomSvc := newTestRouter(t)
	room, err := roomSvc.Create("Info Room", "", "alice", "public")
	require.NoError(t, err)

	w, resp := doJSON(t, r, http.MethodGet, "/room/"+room.ID+"/info", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	info := resp["room"].(map[string]any)
	assert.Equal(t, "Info Room", info["name"])
	assert.Equal(t, "public", info["type"])
	assert.Equal(t, float64(0), info["activeUsers"])

	w, _ = doJSON(t, r, http.MethodGet, "/room/missing/info", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
