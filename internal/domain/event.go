package domain

import (
	"encoding/json"
	"fmt"
)

// Conn is one live client connection as the chat engine sees it. Send must
// never block; implementations queue outgoing events and drop them when the
// peer cannot keep up.
type Conn interface {
	ID() string
	Send(ev ServerEvent)
}

// Wire event names, both directions.
const (
	EventJoinRoom    = "join-room"
	EventSendMessage = "send-message"
	EventTypingStart = "typing-start"
	EventTypingStop  = "typing-stop"
	EventEditMessage = "edit-message"
	EventDeleteMsg   = "delete-message"
	EventLeaveRoom   = "leave-room"

	EventChatHistory       = "chat-history"
	EventNewMessage        = "new-message"
	EventMessageEdited     = "message-edited"
	EventMessageDeleted    = "message-deleted"
	EventUserJoined        = "user-joined"
	EventUserLeft          = "user-left"
	EventActiveUsers       = "active-users-update"
	EventUserTyping        = "user-typing"
	EventUserStoppedTyping = "user-stopped-typing"
	EventReplyNotification = "reply-notification"
	EventError             = "error"
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ServerEvent is the closed set of server-to-client events. The unexported
// method keeps the set closed to this package.
type ServerEvent interface {
	EventName() string
	payload() any
}

type ChatHistoryEvent struct {
	Messages []Message
}

func (ChatHistoryEvent) EventName() string { return EventChatHistory }
func (e ChatHistoryEvent) payload() any    { return e.Messages }

type NewMessageEvent struct {
	Message Message
}

func (NewMessageEvent) EventName() string { return EventNewMessage }
func (e NewMessageEvent) payload() any    { return e.Message }

type MessageEditedEvent struct {
	MessageID string `json:"messageId"`
	NewBody   string `json:"newMessage"`
}

func (MessageEditedEvent) EventName() string { return EventMessageEdited }
func (e MessageEditedEvent) payload() any    { return e }

type MessageDeletedEvent struct {
	MessageID string `json:"messageId"`
}

func (MessageDeletedEvent) EventName() string { return EventMessageDeleted }
func (e MessageDeletedEvent) payload() any    { return e }

type UserJoinedEvent struct {
	Username    string `json:"username"`
	ActiveUsers int    `json:"activeUsers"`
}

func (UserJoinedEvent) EventName() string { return EventUserJoined }
func (e UserJoinedEvent) payload() any    { return e }

type UserLeftEvent struct {
	Username    string `json:"username"`
	ActiveUsers int    `json:"activeUsers"`
}

func (UserLeftEvent) EventName() string { return EventUserLeft }
func (e UserLeftEvent) payload() any    { return e }

type ActiveUsersEvent struct {
	Count int `json:"count"`
}

func (ActiveUsersEvent) EventName() string { return EventActiveUsers }
func (e ActiveUsersEvent) payload() any    { return e }

type UserTypingEvent struct {
	Username string `json:"username"`
}

func (UserTypingEvent) EventName() string { return EventUserTyping }
func (e UserTypingEvent) payload() any    { return e }

type UserStoppedTypingEvent struct {
	Username string `json:"username"`
}

func (UserStoppedTypingEvent) EventName() string { return EventUserStoppedTyping }
func (e UserStoppedTypingEvent) payload() any    { return e }

type ReplyNotificationEvent struct {
	Text      string `json:"text"`
	IsGeneral bool   `json:"isGeneral"`
}

func (ReplyNotificationEvent) EventName() string { return EventReplyNotification }
func (e ReplyNotificationEvent) payload() any    { return e }

// ErrorEvent carries a human-readable message; its wire payload is a bare
// string.
type ErrorEvent struct {
	Message string
}

func (ErrorEvent) EventName() string { return EventError }
func (e ErrorEvent) payload() any    { return e.Message }

// EncodeServerEvent wraps an event in the {"event","data"} envelope.
func EncodeServerEvent(ev ServerEvent) ([]byte, error) {
	data, err := json.Marshal(ev.payload())
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", ev.EventName(), err)
	}
	return json.Marshal(envelope{Event: ev.EventName(), Data: data})
}

// ClientEvent is the closed set of client-to-server events.
type ClientEvent interface {
	isClientEvent()
}

type JoinRoomEvent struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type SendMessageEvent struct {
	Body    string    `json:"message"`
	Kind    string    `json:"type"`
	Media   *FileData `json:"fileData"`
	ReplyTo string    `json:"replyTo"`
}

type TypingStartEvent struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type TypingStopEvent struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type EditMessageEvent struct {
	MessageID string `json:"messageId"`
	NewBody   string `json:"newMessage"`
}

type DeleteMessageEvent struct {
	MessageID string `json:"messageId"`
}

type LeaveRoomEvent struct{}

func (JoinRoomEvent) isClientEvent()      {}
func (SendMessageEvent) isClientEvent()   {}
func (TypingStartEvent) isClientEvent()   {}
func (TypingStopEvent) isClientEvent()    {}
func (EditMessageEvent) isClientEvent()   {}
func (DeleteMessageEvent) isClientEvent() {}
func (LeaveRoomEvent) isClientEvent()     {}

// DecodeClientEvent parses an incoming frame into one of the ClientEvent
// variants. Unknown event names are an error; the connection stays up.
func DecodeClientEvent(raw []byte) (ClientEvent, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed event envelope: %w", err)
	}

	unmarshal := func(v any) error {
		if len(env.Data) == 0 {
			return nil
		}
		if err := json.Unmarshal(env.Data, v); err != nil {
			return fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		return nil
	}

	switch env.Event {
	case EventJoinRoom:
		var ev JoinRoomEvent
		if err := unmarshal(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case EventSendMessage:
		var ev SendMessageEvent
		if err := unmarshal(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case EventTypingStart:
		var ev TypingStartEvent
		if err := unmarshal(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case EventTypingStop:
		var ev TypingStopEvent
		if err := unmarshal(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case EventEditMessage:
		var ev EditMessageEvent
		if err := unmarshal(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case EventDeleteMsg:
		var ev DeleteMessageEvent
		if err := unmarshal(&ev); err != nil {
			return nil, err
		}
		return ev, nil
	case EventLeaveRoom:
		return LeaveRoomEvent{}, nil
	default:
		return nil, fmt.Errorf("unknown event %q", env.Event)
	}
}
