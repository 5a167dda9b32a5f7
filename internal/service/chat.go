package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"room_chat/internal/config"
	"room_chat/internal/domain"
	"room_chat/internal/repository"
	"room_chat/pkg/errors"
	"room_chat/pkg/logger"
)

// ChatService is the room/session broadcast engine: it binds connections
// to rooms, authors messages into room history, and drives presence and
// typing fan-out. Errors it returns are reported to the offending
// connection only; they never affect the rest of the room.
type ChatService interface {
	Join(conn domain.Conn, roomID, username, secret string) error
	Leave(conn domain.Conn)
	Disconnect(conn domain.Conn)
	Send(conn domain.Conn, body, kind string, media *domain.FileData, replyTo string) error
	Edit(conn domain.Conn, messageID, newBody string) error
	Delete(conn domain.Conn, messageID string) error
	TypingStart(conn domain.Conn)
	TypingStop(conn domain.Conn)
}

type chatService struct {
	roomRepo   repository.RoomRepository
	roomSvc    RoomService
	bcaster    *Broadcaster
	editWindow time.Duration
	log        logger.Logger

	// bindings maps a connection id to the single room it is in. The
	// atomic fetch-and-delete in removeFromRoom is what makes leave and
	// disconnect exactly-once.
	mu       sync.Mutex
	bindings map[string]string
}

func NewChatService(roomRepo repository.RoomRepository, roomSvc RoomService, bcaster *Broadcaster, cfg *config.Config, log logger.Logger) ChatService {
	return &chatService{
		roomRepo:   roomRepo,
		roomSvc:    roomSvc,
		bcaster:    bcaster,
		editWindow: cfg.Chat.EditWindow,
		bindings:   make(map[string]string),
		log:        log,
	}
}

func (s *chatService) Join(conn domain.Conn, roomID, username, secret string) error {
	s.mu.Lock()
	_, bound := s.bindings[conn.ID()]
	s.mu.Unlock()
	if bound {
		return fmt.Errorf("%w: already in a room", errors.ErrValidation)
	}

	if err := s.roomSvc.VerifySecret(roomID, secret); err != nil {
		return err
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = "User-" + uuid.NewString()[:8]
	}

	err := s.roomRepo.WithRoom(roomID, func(room *repository.RoomState) error {
		if room.HasMemberName(username) {
			return errors.ErrUsernameTaken
		}
		room.AddMember(conn.ID(), username, conn)

		// history replay is private to the joiner, then the whole room
		// (joiner included) sees the announcement and the new count
		s.bcaster.ToConn(conn, domain.ChatHistoryEvent{Messages: room.History()})
		count := room.MemberCount()
		s.bcaster.ToRoom(room, domain.UserJoinedEvent{Username: username, ActiveUsers: count})
		s.bcaster.ToRoom(room, domain.ActiveUsersEvent{Count: count})
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.bindings[conn.ID()] = roomID
	s.mu.Unlock()

	s.log.Info("User joined room", "room_id", roomID, "username", username)
	return nil
}

func (s *chatService) Leave(conn domain.Conn) {
	s.removeFromRoom(conn)
}

func (s *chatService) Disconnect(conn domain.Conn) {
	s.removeFromRoom(conn)
}

// removeFromRoom is the single exit path shared by explicit leave and
// transport disconnect. A second invocation for the same connection finds
// no binding and is a no-op.
func (s *chatService) removeFromRoom(conn domain.Conn) {
	s.mu.Lock()
	roomID, ok := s.bindings[conn.ID()]
	if ok {
		delete(s.bindings, conn.ID())
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	_ = s.roomRepo.WithRoom(roomID, func(room *repository.RoomState) error {
		username, ok := room.MemberName(conn.ID())
		if !ok {
			return nil
		}
		room.RemoveMember(conn.ID())
		count := room.MemberCount()
		s.bcaster.ToRoom(room, domain.UserLeftEvent{Username: username, ActiveUsers: count})
		s.bcaster.ToRoom(room, domain.ActiveUsersEvent{Count: count})
		s.log.Info("User left room", "room_id", roomID, "username", username)
		return nil
	})
}

func (s *chatService) boundRoom(conn domain.Conn) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roomID, ok := s.bindings[conn.ID()]
	if !ok {
		return "", errors.ErrNotInRoom
	}
	return roomID, nil
}

func (s *chatService) Send(conn domain.Conn, body, kind string, media *domain.FileData, replyTo string) error {
	roomID, err := s.boundRoom(conn)
	if err != nil {
		return err
	}
	if body == "" && media == nil {
		return fmt.Errorf("%w: empty message", errors.ErrValidation)
	}
	if kind == "" {
		kind = domain.MessageKindText
		if media != nil {
			kind = media.Kind
			if kind == "" {
				kind = domain.MessageKindImage
			}
		}
	}

	return s.roomRepo.WithRoom(roomID, func(room *repository.RoomState) error {
		author, ok := room.MemberName(conn.ID())
		if !ok {
			return errors.ErrNotInRoom
		}

		msg := domain.Message{
			ID:        uuid.NewString(),
			Author:    author,
			Body:      body,
			Kind:      kind,
			Media:     media,
			ReplyTo:   replyTo,
			Timestamp: time.Now().UnixMilli(),
		}
		room.AppendMessage(msg)

		s.bcaster.ToRoom(room, domain.NewMessageEvent{Message: msg})
		if replyTo != "" {
			s.bcaster.ToRoom(room, domain.ReplyNotificationEvent{
				Text:      author + " replied",
				IsGeneral: false,
			})
		}
		return nil
	})
}

func (s *chatService) Edit(conn domain.Conn, messageID, newBody string) error {
	roomID, err := s.boundRoom(conn)
	if err != nil {
		return err
	}

	return s.roomRepo.WithRoom(roomID, func(room *repository.RoomState) error {
		username, ok := room.MemberName(conn.ID())
		if !ok {
			return errors.ErrNotInRoom
		}
		msg, ok := room.FindMessage(messageID)
		if !ok {
			return errors.ErrMessageNotFound
		}
		// authorization tracks the current display name, not a stable
		// identity
		if msg.Author != username {
			return errors.ErrNotAuthor
		}
		if s.editWindow > 0 && time.Since(time.UnixMilli(msg.Timestamp)) > s.editWindow {
			return errors.ErrEditWindowExpired
		}

		msg.Body = newBody
		msg.Edited = true
		s.bcaster.ToRoom(room, domain.MessageEditedEvent{MessageID: messageID, NewBody: newBody})
		return nil
	})
}

func (s *chatService) Delete(conn domain.Conn, messageID string) error {
	roomID, err := s.boundRoom(conn)
	if err != nil {
		return err
	}

	return s.roomRepo.WithRoom(roomID, func(room *repository.RoomState) error {
		username, ok := room.MemberName(conn.ID())
		if !ok {
			return errors.ErrNotInRoom
		}
		msg, ok := room.FindMessage(messageID)
		if !ok {
			return errors.ErrMessageNotFound
		}
		if msg.Author != username {
			return errors.ErrNotAuthor
		}

		room.DeleteMessage(messageID)
		s.bcaster.ToRoom(room, domain.MessageDeletedEvent{MessageID: messageID})
		return nil
	})
}

func (s *chatService) TypingStart(conn domain.Conn) {
	s.broadcastTyping(conn, true)
}

func (s *chatService) TypingStop(conn domain.Conn) {
	s.broadcastTyping(conn, false)
}

// broadcastTyping relays transient typing state to everyone but the
// sender. No state is kept and repeated starts are plain re-broadcasts;
// the client is responsible for emitting the stop.
func (s *chatService) broadcastTyping(conn domain.Conn, typing bool) {
	roomID, err := s.boundRoom(conn)
	if err != nil {
		return
	}

	_ = s.roomRepo.WithRoom(roomID, func(room *repository.RoomState) error {
		username, ok := room.MemberName(conn.ID())
		if !ok {
			return nil
		}
		if typing {
			s.bcaster.ToRoomExcept(room, conn.ID(), domain.UserTypingEvent{Username: username})
		} else {
			s.bcaster.ToRoomExcept(room, conn.ID(), domain.UserStoppedTypingEvent{Username: username})
		}
		return nil
	})
}
