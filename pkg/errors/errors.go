package errors

import (
	"errors"
	"net/http"
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomExists          = errors.New("room already exists")
	ErrUsernameTaken       = errors.New("username already taken in this room")
	ErrInvalidAccessSecret = errors.New("invalid room password")
	ErrNotInRoom           = errors.New("not in a room")
	ErrMessageNotFound     = errors.New("message not found")
	ErrNotAuthor           = errors.New("only the author can modify this message")
	ErrEditWindowExpired   = errors.New("edit window has expired")
	ErrValidation          = errors.New("validation failed")
	ErrInternalServer      = errors.New("internal server error")
)

type APIError struct {
	Message string `json:"error"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(message string, code int) *APIError {
	return &APIError{
		Message: message,
		Code:    code,
	}
}

func HTTPStatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidAccessSecret), errors.Is(err, ErrNotAuthor):
		return http.StatusForbidden
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrRoomExists):
		return http.StatusConflict
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotInRoom), errors.Is(err, ErrEditWindowExpired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
