package ai

import (
	"errors"
	"fmt"
)

var ErrUnavailable = errors.New("ai provider unavailable")

// StatusError carries the upstream HTTP status of a failed service call so
// the chat path can propagate it to the caller.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
}

// UpstreamStatus extracts the status code from err, or 0 when unknown.
func UpstreamStatus(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
