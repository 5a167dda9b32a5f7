package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/jaevor/go-nanoid"
	"golang.org/x/crypto/bcrypt"

	"room_chat/internal/config"
	"room_chat/internal/domain"
	"room_chat/internal/repository"
	"room_chat/pkg/errors"
	"room_chat/pkg/logger"
)

const (
	roomIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	roomIDLength   = 8

	// id collision retries before giving up
	createRetries = 5
)

type RoomService interface {
	Create(name, secret, creator, visibility string) (*domain.Room, error)
	Get(id string) (*domain.Room, error)
	ListPublic() []domain.RoomSummary
	ActiveCount(id string) (int, error)
	CheckUsernameAvailable(roomID, username string) (bool, error)
	VerifySecret(roomID, secret string) error
}

type roomService struct {
	roomRepo  repository.RoomRepository
	newRoomID func() string
	log       logger.Logger
}

func NewRoomService(roomRepo repository.RoomRepository, cfg *config.Config, log logger.Logger) (RoomService, error) {
	gen, err := nanoid.CustomASCII(roomIDAlphabet, roomIDLength)
	if err != nil {
		return nil, fmt.Errorf("room id generator: %w", err)
	}
	return &roomService{
		roomRepo:  roomRepo,
		newRoomID: gen,
		log:       log,
	}, nil
}

func (s *roomService) Create(name, secret, creator, visibility string) (*domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: roomName required", errors.ErrValidation)
	}
	if creator == "" {
		creator = "Anon"
	}
	if visibility != domain.VisibilityPublic {
		visibility = domain.VisibilityPrivate
	}

	var secretHash *string
	if secret != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			s.log.Error("Failed to hash room secret", "error", err)
			return nil, errors.ErrInternalServer
		}
		h := string(hash)
		secretHash = &h
	}

	room := &domain.Room{
		Name:       name,
		Visibility: visibility,
		SecretHash: secretHash,
		Creator:    creator,
		CreatedAt:  time.Now(),
	}

	for i := 0; i < createRetries; i++ {
		room.ID = s.newRoomID()
		err := s.roomRepo.Create(room)
		if err == nil {
			return room, nil
		}
		if err != errors.ErrRoomExists {
			return nil, err
		}
	}

	s.log.Error("Room id collisions exhausted retries", "name", name)
	return nil, errors.ErrInternalServer
}

func (s *roomService) Get(id string) (*domain.Room, error) {
	return s.roomRepo.Get(id)
}

func (s *roomService) ListPublic() []domain.RoomSummary {
	return s.roomRepo.ListPublic()
}

func (s *roomService) ActiveCount(id string) (int, error) {
	return s.roomRepo.ActiveCount(id)
}

func (s *roomService) CheckUsernameAvailable(roomID, username string) (bool, error) {
	var available bool
	err := s.roomRepo.WithRoom(roomID, func(room *repository.RoomState) error {
		available = !room.HasMemberName(username)
		return nil
	})
	if err != nil {
		return false, err
	}
	return available, nil
}

// VerifySecret checks a join attempt against the room's access secret. A
// room without a secret accepts any value.
func (s *roomService) VerifySecret(roomID, secret string) error {
	room, err := s.roomRepo.Get(roomID)
	if err != nil {
		return err
	}
	if !room.HasSecret() {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*room.SecretHash), []byte(secret)); err != nil {
		return errors.ErrInvalidAccessSecret
	}
	return nil
}
