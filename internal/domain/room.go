package domain

import "time"

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Room is the immutable metadata of a chat room. Live membership and
// message history are kept by the repository under the room's lock.
type Room struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Visibility string    `json:"type"`
	SecretHash *string   `json:"-"`
	Creator    string    `json:"creator"`
	CreatedAt  time.Time `json:"createdAt"`
}

// HasSecret reports whether joining the room requires a shared secret.
func (r *Room) HasSecret() bool {
	return r.SecretHash != nil
}

// RoomSummary is the projection of a room exposed by the public listing.
type RoomSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Creator     string `json:"creator"`
	ActiveUsers int    `json:"activeUsers"`
	CreatedAt   int64  `json:"createdAt"`
}
