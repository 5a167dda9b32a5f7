package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"room_chat/internal/config"
	"room_chat/internal/service"
	"room_chat/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict origins once the frontend host is fixed
	},
}

type WebSocketHandler struct {
	chatService service.ChatService
	queueSize   int
	log         logger.Logger
}

func NewWebSocketHandler(chatService service.ChatService, cfg *config.Config, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		chatService: chatService,
		queueSize:   cfg.Chat.SendQueueSize,
		log:         log,
	}
}

// HandleChat upgrades the request and runs the connection's read loop
// until the peer goes away. The write loop runs in its own goroutine.
func (h *WebSocketHandler) HandleChat(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := newClient(conn, h.chatService, h.queueSize, h.log)
	h.log.Debug("Client connected", "conn_id", client.ID(), "remote", conn.RemoteAddr())

	go client.writePump()
	client.readPump()
}
