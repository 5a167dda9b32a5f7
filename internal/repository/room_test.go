package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room_chat/internal/domain"
	"room_chat/pkg/errors"
	"room_chat/pkg/logger"
)

type stubConn struct {
	id string
}

func (c *stubConn) ID() string { return c.id }

func (c *stubConn) Send(ev domain.ServerEvent) {}

func newTestRepo(historyLimit int) RoomRepository {
	return NewRoomRepository(historyLimit, logger.NewNop())
}

func TestGeneralRoomSeeded(t *testing.T) {
	repo := newTestRepo(1000)

	room, err := repo.Get(GeneralRoomID)
	require.NoError(t, err)
	assert.Equal(t, "General Chat", room.Name)
	assert.Equal(t, domain.VisibilityPublic, room.Visibility)
	assert.Equal(t, "System", room.Creator)

	err = repo.WithRoom(GeneralRoomID, func(state *RoomState) error {
		history := state.History()
		require.Len(t, history, 1)
		assert.Equal(t, "System", history[0].Author)
		assert.Equal(t, domain.MessageKindText, history[0].Kind)
		return nil
	})
	require.NoError(t, err)
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(1000)

	room := &domain.Room{
		ID:         "abc123",
		Name:       "Test Room",
		Visibility: domain.VisibilityPrivate,
		Creator:    "alice",
		CreatedAt:  time.Now(),
	}
	require.NoError(t, repo.Create(room))

	got, err := repo.Get("abc123")
	require.NoError(t, err)
	assert.Equal(t, "Test Room", got.Name)

	_, err = repo.Get("missing")
	assert.ErrorIs(t, err, errors.ErrRoomNotFound)
}

func TestCreateDuplicateID(t *testing.T) {
	repo := newTestRepo(1000)

	room := &domain.Room{ID: "dup", Name: "First", Visibility: domain.VisibilityPrivate}
	require.NoError(t, repo.Create(room))

	err := repo.Create(&domain.Room{ID: "dup", Name: "Second", Visibility: domain.VisibilityPrivate})
	assert.ErrorIs(t, err, errors.ErrRoomExists)
}

func TestListPublicOnlyPublicRooms(t *testing.T) {
	repo := newTestRepo(1000)

	require.NoError(t, repo.Create(&domain.Room{ID: "pub1", Name: "Open", Visibility: domain.VisibilityPublic, Creator: "bob"}))
	require.NoError(t, repo.Create(&domain.Room{ID: "priv1", Name: "Hidden", Visibility: domain.VisibilityPrivate}))

	list := repo.ListPublic()
	ids := make([]string, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	assert.Contains(t, ids, "pub1")
	assert.Contains(t, ids, GeneralRoomID)
	assert.NotContains(t, ids, "priv1")
}

func TestListPublicReportsActiveCount(t *testing.T) {
	repo := newTestRepo(1000)
	require.NoError(t, repo.Create(&domain.Room{ID: "pub", Name: "Open", Visibility: domain.VisibilityPublic}))

	err := repo.WithRoom("pub", func(state *RoomState) error {
		state.AddMember("c1", "alice", &stubConn{id: "c1"})
		state.AddMember("c2", "bob", &stubConn{id: "c2"})
		return nil
	})
	require.NoError(t, err)

	for _, s := range repo.ListPublic() {
		if s.ID == "pub" {
			assert.Equal(t, 2, s.ActiveUsers)
			return
		}
	}
	t.Fatal("room pub missing from public listing")
}

func TestWithRoomNotFound(t *testing.T) {
	repo := newTestRepo(1000)

	err := repo.WithRoom("nope", func(*RoomState) error { return nil })
	assert.ErrorIs(t, err, errors.ErrRoomNotFound)
}

func TestMembershipCaseInsensitive(t *testing.T) {
	repo := newTestRepo(1000)
	require.NoError(t, repo.Create(&domain.Room{ID: "r1", Name: "R", Visibility: domain.VisibilityPrivate}))

	err := repo.WithRoom("r1", func(state *RoomState) error {
		state.AddMember("c1", "Alice", &stubConn{id: "c1"})

		assert.True(t, state.HasMemberName("alice"))
		assert.True(t, state.HasMemberName("ALICE"))
		assert.False(t, state.HasMemberName("bob"))

		name, ok := state.MemberName("c1")
		assert.True(t, ok)
		assert.Equal(t, "Alice", name)

		state.RemoveMember("c1")
		assert.False(t, state.HasMemberName("alice"))
		assert.Equal(t, 0, state.MemberCount())
		return nil
	})
	require.NoError(t, err)
}

func TestHistoryTruncationFIFO(t *testing.T) {
	repo := newTestRepo(3)
	require.NoError(t, repo.Create(&domain.Room{ID: "r1", Name: "R", Visibility: domain.VisibilityPrivate}))

	err := repo.WithRoom("r1", func(state *RoomState) error {
		for i := 0; i < 5; i++ {
			state.AppendMessage(domain.Message{
				ID:   fmt.Sprintf("m%d", i),
				Body: fmt.Sprintf("msg %d", i),
			})
		}
		history := state.History()
		require.Len(t, history, 3)
		// the two oldest were evicted
		assert.Equal(t, "m2", history[0].ID)
		assert.Equal(t, "m4", history[2].ID)
		return nil
	})
	require.NoError(t, err)
}

func TestFindAndDeleteMessage(t *testing.T) {
	repo := newTestRepo(1000)
	require.NoError(t, repo.Create(&domain.Room{ID: "r1", Name: "R", Visibility: domain.VisibilityPrivate}))

	err := repo.WithRoom("r1", func(state *RoomState) error {
		state.AppendMessage(domain.Message{ID: "m1", Body: "one"})
		state.AppendMessage(domain.Message{ID: "m2", Body: "two"})

		msg, ok := state.FindMessage("m1")
		require.True(t, ok)
		msg.Body = "edited"
		msg.Edited = true

		history := state.History()
		assert.Equal(t, "edited", history[0].Body)
		assert.True(t, history[0].Edited)

		assert.True(t, state.DeleteMessage("m1"))
		assert.False(t, state.DeleteMessage("m1"))

		_, ok = state.FindMessage("m1")
		assert.False(t, ok)
		require.Len(t, state.History(), 1)
		return nil
	})
	require.NoError(t, err)
}
