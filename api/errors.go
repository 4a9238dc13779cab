package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// Error is a non-OK response from the backend, carrying the HTTP status and
// whatever message the server put in the body.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// IsAuthError reports whether err means the session is gone or was never
// established (401/403 or one of the auth sentinels).
func IsAuthError(err error) bool {
	if errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrInvalidCredentials) {
		return true
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	return false
}
