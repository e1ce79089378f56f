package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a normalized error from the hosted backend. Every non-2xx
// response from the REST or auth surface becomes one of these.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the hosted backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// errorPayload covers the error body shapes the hosted backend produces.
// PostgREST uses "message", the auth surface uses "error_description" or "msg".
type errorPayload struct {
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
	Msg              string `json:"msg"`
}

// newAPIError builds an APIError from a response body, surfacing the
// server-reported message verbatim when one is present.
func newAPIError(status int, body []byte) *APIError {
	msg := ""
	if len(body) > 0 {
		var payload errorPayload
		if err := json.Unmarshal(body, &payload); err == nil {
			switch {
			case payload.ErrorDescription != "":
				msg = payload.ErrorDescription
			case payload.Message != "":
				msg = payload.Message
			case payload.Msg != "":
				msg = payload.Msg
			}
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}
