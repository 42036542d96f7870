package elements

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents an error response from the formulas API.
type APIError struct {
	StatusCode int    `json:"-"         yaml:"status_code"`
	Message    string `json:"message"   yaml:"message"`
	RequestID  string `json:"requestId" yaml:"request_id"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	message := e.Message
	if message == "" {
		message = http.StatusText(e.StatusCode)
	}

	return fmt.Sprintf("%s, requestId: %s", message, e.RequestID)
}

// ParseAPIError builds an APIError from a response status and body. Bodies
// that are not the API's JSON error document keep the status text as message.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{}

	err := json.Unmarshal(body, apiErr)
	if err != nil {
		apiErr = &APIError{}
	}

	apiErr.StatusCode = statusCode

	return apiErr
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// RequestID returns the upstream request id carried by err, if any.
func RequestID(err error) string {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.RequestID
	}

	return ""
}
