package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the EventPass API. Message carries the
// server's payload verbatim for 4xx responses so forms can surface it; 5xx
// responses get a generic message instead.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// TransportError is a network-level failure: no response was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is a 401 API response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 API response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// errorPayload matches the API's error envelope. The backend is not entirely
// consistent, so both keys are tried.
type errorPayload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

const genericFailureMessage = "something went wrong, please try again"

func errorFromResponse(status int, body []byte) error {
	apiErr := &APIError{Status: status, Message: genericFailureMessage}
	if status >= http.StatusInternalServerError {
		return apiErr
	}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			apiErr.Message = msg
		} else if msg := strings.TrimSpace(payload.Error); msg != "" {
			apiErr.Message = msg
		}
	}
	return apiErr
}
