package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"room_chat/internal/domain"
	"room_chat/internal/service"
	"room_chat/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// client is one websocket connection. It implements domain.Conn: Send
// queues onto a buffered channel and drops when the peer cannot keep up,
// so the engine never blocks on a slow consumer.
type client struct {
	id   string
	conn *websocket.Conn
	chat service.ChatService
	send chan []byte
	done chan struct{}
	log  logger.Logger
}

func newClient(conn *websocket.Conn, chat service.ChatService, queueSize int, log logger.Logger) *client {
	return &client{
		id:   uuid.NewString(),
		conn: conn,
		chat: chat,
		send: make(chan []byte, queueSize),
		done: make(chan struct{}),
		log:  log,
	}
}

func (c *client) ID() string {
	return c.id
}

func (c *client) Send(ev domain.ServerEvent) {
	data, err := domain.EncodeServerEvent(ev)
	if err != nil {
		c.log.Error("Failed to encode event", "event", ev.EventName(), "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		c.log.Warn("Send queue full, dropping event", "conn_id", c.id, "event", ev.EventName())
	}
}

// readPump drives the connection: every inbound frame is decoded and
// dispatched. On any read error the connection is torn down through the
// same path as an explicit leave.
func (c *client) readPump() {
	defer func() {
		c.chat.Disconnect(c)
		close(c.done)
		c.conn.Close()
		c.log.Debug("Client disconnected", "conn_id", c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Unexpected close", "conn_id", c.id, "error", err)
			}
			return
		}

		ev, err := domain.DecodeClientEvent(raw)
		if err != nil {
			c.Send(domain.ErrorEvent{Message: "invalid message format"})
			continue
		}
		c.dispatch(ev)
	}
}

// dispatch routes one decoded client event into the engine. The switch is
// exhaustive over the client event vocabulary; protocol errors go back to
// this connection only.
func (c *client) dispatch(ev domain.ClientEvent) {
	var err error
	switch ev := ev.(type) {
	case domain.JoinRoomEvent:
		err = c.chat.Join(c, ev.RoomID, ev.Username, ev.Password)
	case domain.SendMessageEvent:
		err = c.chat.Send(c, ev.Body, ev.Kind, ev.Media, ev.ReplyTo)
	case domain.TypingStartEvent:
		c.chat.TypingStart(c)
	case domain.TypingStopEvent:
		c.chat.TypingStop(c)
	case domain.EditMessageEvent:
		err = c.chat.Edit(c, ev.MessageID, ev.NewBody)
	case domain.DeleteMessageEvent:
		err = c.chat.Delete(c, ev.MessageID)
	case domain.LeaveRoomEvent:
		c.chat.Leave(c)
	}

	if err != nil {
		c.Send(domain.ErrorEvent{Message: err.Error()})
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
