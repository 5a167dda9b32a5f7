package service

import (
	"room_chat/internal/domain"
	"room_chat/internal/repository"
	"room_chat/pkg/logger"
)

// Broadcaster fans events out to room members. It carries no business
// logic and delivery is fire-and-forget: a connection that cannot take the
// event simply misses it. Callers invoke it from inside the room's
// critical section, which is what gives per-room delivery order.
type Broadcaster struct {
	log logger.Logger
}

func NewBroadcaster(log logger.Logger) *Broadcaster {
	return &Broadcaster{log: log}
}

// ToRoom delivers an event to every current member of the room.
func (b *Broadcaster) ToRoom(room *repository.RoomState, ev domain.ServerEvent) {
	room.EachConn(func(_ string, conn domain.Conn) {
		conn.Send(ev)
	})
}

// ToRoomExcept delivers to every member but the excluded connection.
func (b *Broadcaster) ToRoomExcept(room *repository.RoomState, excludeConnID string, ev domain.ServerEvent) {
	room.EachConn(func(connID string, conn domain.Conn) {
		if connID == excludeConnID {
			return
		}
		conn.Send(ev)
	})
}

// ToConn delivers an event to a single connection.
func (b *Broadcaster) ToConn(conn domain.Conn, ev domain.ServerEvent) {
	conn.Send(ev)
}
