package api

import (
	"errors"
	"net/http"

	"github.com/fentz26/elhem/internal/tasks"
)

// Sentinel errors for API requests.
var (
	ErrUnauthenticated = errors.New("User authentication required")
	ErrUserNotFound    = errors.New("User not found")
	ErrTaskNotFound    = errors.New("Task not found")
	ErrInvalidJSON     = errors.New("invalid json")
	ErrBodyTooLarge    = errors.New("request body too large")
)

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidJSON), errors.Is(err, tasks.ErrInvalidTask), errors.Is(err, tasks.ErrInvalidPriority):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
