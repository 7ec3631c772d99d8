package api

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when the backend reports there is no active
// session (HTTP 401).
var ErrUnauthenticated = errors.New("not authenticated")

// Error is a failure the backend reported deliberately, i.e. an
// `{error: true, message: ...}` envelope rather than a transport failure. Its
// message is suitable for showing to the user.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return "request rejected by server"
	}
	return e.Message
}

type statusError struct {
	path   string
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.path, e.status)
}
