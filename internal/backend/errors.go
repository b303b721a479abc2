package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrClientNotInitialized is returned when the backend client is used
	// before Open was called.
	ErrClientNotInitialized = errors.New("backend client not initialized")
)

// APIError is the error envelope the procurement API returns on non-2xx
// responses. Message carries the human readable text the screens surface
// verbatim in the page banner.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// IsNotFound reports whether err is an API error with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
