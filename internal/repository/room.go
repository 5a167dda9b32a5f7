package repository

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"room_chat/internal/domain"
	"room_chat/pkg/errors"
	"room_chat/pkg/logger"
)

// GeneralRoomID is the id of the pre-seeded public room that exists from
// process start.
const GeneralRoomID = "general"

const generalWelcome = "Welcome to the General Chat..! This is a public room where everyone can chat. Be respectful and have fun.! 🎉"

// RoomRepository is the process-wide room registry. Rooms live for the
// process lifetime; there is no expiry. All mutation of a single room's
// membership or history happens inside WithRoom, which serializes it.
type RoomRepository interface {
	Create(room *domain.Room) error
	Get(id string) (*domain.Room, error)
	ListPublic() []domain.RoomSummary
	ActiveCount(id string) (int, error)
	WithRoom(id string, fn func(*RoomState) error) error
}

// RoomState is the mutable state of one room: metadata plus live
// membership and bounded history. Its methods do not lock; callers reach
// it only through RoomRepository.WithRoom, which holds the room's mutex
// for the duration of the callback.
type RoomState struct {
	Room domain.Room

	mu           sync.Mutex
	members      map[string]member // connection id -> member
	history      []domain.Message
	historyLimit int
}

type member struct {
	name string
	conn domain.Conn
}

// MemberName returns the display name bound to a connection id.
func (s *RoomState) MemberName(connID string) (string, bool) {
	m, ok := s.members[connID]
	if !ok {
		return "", false
	}
	return m.name, true
}

// HasMemberName reports whether a display name is already held by any
// member, case-insensitively.
func (s *RoomState) HasMemberName(name string) bool {
	for _, m := range s.members {
		if strings.EqualFold(m.name, name) {
			return true
		}
	}
	return false
}

func (s *RoomState) AddMember(connID, name string, conn domain.Conn) {
	s.members[connID] = member{name: name, conn: conn}
}

func (s *RoomState) RemoveMember(connID string) {
	delete(s.members, connID)
}

func (s *RoomState) MemberCount() int {
	return len(s.members)
}

// EachConn visits every member connection. Iteration order is unspecified.
func (s *RoomState) EachConn(fn func(connID string, conn domain.Conn)) {
	for id, m := range s.members {
		fn(id, m.conn)
	}
}

// History returns a copy of the message log, oldest first.
func (s *RoomState) History() []domain.Message {
	out := make([]domain.Message, len(s.history))
	copy(out, s.history)
	return out
}

// AppendMessage appends to the history, evicting the oldest entry when the
// limit is exceeded.
func (s *RoomState) AppendMessage(msg domain.Message) {
	s.history = append(s.history, msg)
	if len(s.history) > s.historyLimit {
		n := copy(s.history, s.history[1:])
		s.history = s.history[:n]
	}
}

// FindMessage returns a pointer into the history for in-place mutation.
func (s *RoomState) FindMessage(id string) (*domain.Message, bool) {
	for i := range s.history {
		if s.history[i].ID == id {
			return &s.history[i], true
		}
	}
	return nil, false
}

// DeleteMessage removes a message from the history. It reports whether the
// message was present.
func (s *RoomState) DeleteMessage(id string) bool {
	for i := range s.history {
		if s.history[i].ID == id {
			s.history = append(s.history[:i], s.history[i+1:]...)
			return true
		}
	}
	return false
}

type roomRepository struct {
	mu           sync.RWMutex
	rooms        map[string]*RoomState
	historyLimit int
	log          logger.Logger
}

// NewRoomRepository builds the registry with the general room already
// seeded, holding its welcome system message.
func NewRoomRepository(historyLimit int, log logger.Logger) RoomRepository {
	r := &roomRepository{
		rooms:        make(map[string]*RoomState),
		historyLimit: historyLimit,
		log:          log,
	}
	r.seedGeneralRoom()
	return r
}

func (r *roomRepository) seedGeneralRoom() {
	state := r.newState(domain.Room{
		ID:         GeneralRoomID,
		Name:       "General Chat",
		Visibility: domain.VisibilityPublic,
		Creator:    "System",
		CreatedAt:  time.Now(),
	})
	state.history = append(state.history, domain.Message{
		ID:        uuid.NewString(),
		Author:    "System",
		Body:      generalWelcome,
		Kind:      domain.MessageKindText,
		Timestamp: time.Now().UnixMilli(),
	})
	r.rooms[GeneralRoomID] = state
}

func (r *roomRepository) newState(room domain.Room) *RoomState {
	return &RoomState{
		Room:         room,
		members:      make(map[string]member),
		historyLimit: r.historyLimit,
	}
}

func (r *roomRepository) Create(room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room.ID]; ok {
		return errors.ErrRoomExists
	}
	r.rooms[room.ID] = r.newState(*room)
	r.log.Info("Room created", "room_id", room.ID, "name", room.Name, "visibility", room.Visibility)
	return nil
}

func (r *roomRepository) Get(id string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[id]
	if !ok {
		return nil, errors.ErrRoomNotFound
	}
	room := state.Room
	return &room, nil
}

func (r *roomRepository) ListPublic() []domain.RoomSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]domain.RoomSummary, 0)
	for _, state := range r.rooms {
		if state.Room.Visibility != domain.VisibilityPublic {
			continue
		}
		state.mu.Lock()
		active := len(state.members)
		state.mu.Unlock()
		list = append(list, domain.RoomSummary{
			ID:          state.Room.ID,
			Name:        state.Room.Name,
			Creator:     state.Room.Creator,
			ActiveUsers: active,
			CreatedAt:   state.Room.CreatedAt.UnixMilli(),
		})
	}
	return list
}

func (r *roomRepository) ActiveCount(id string) (int, error) {
	r.mu.RLock()
	state, ok := r.rooms[id]
	r.mu.RUnlock()
	if !ok {
		return 0, errors.ErrRoomNotFound
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return len(state.members), nil
}

func (r *roomRepository) WithRoom(id string, fn func(*RoomState) error) error {
	r.mu.RLock()
	state, ok := r.rooms[id]
	r.mu.RUnlock()
	if !ok {
		return errors.ErrRoomNotFound
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return fn(state)
}
