package corehub

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned by the private client when the core API
// rejects the bearer token; by then the visitor session is already cleared
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the core API, carrying the
// server-provided message when one was present in the body
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("core api: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("core api: %s (status %d)", e.Message, e.StatusCode)
}

// UserMessage returns the message fit for surfacing to the visitor
func (e *APIError) UserMessage() string {
	if e.Message == "" {
		return "request failed"
	}
	return e.Message
}

// AsAPIError unwraps err into an *APIError, if it is one
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
