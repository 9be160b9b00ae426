package mesh

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from the controller. ErrorText and
// Message are taken from the failure envelope when the body decodes as one.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorText  string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.ErrorText != "" && e.Message != "":
		return fmt.Sprintf("%s: %s (status %d)", e.ErrorText, e.Message, e.StatusCode)
	case e.ErrorText != "":
		return fmt.Sprintf("%s (status %d)", e.ErrorText, e.StatusCode)
	case e.Message != "":
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	default:
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
}

// ParseAPIError builds an APIError from a non-2xx response body. A body that
// is not a failure envelope still yields an error carrying the status.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	if len(body) > 0 {
		// Best effort: the body may be HTML or empty on proxy errors.
		_ = json.Unmarshal(body, apiErr)
	}

	return apiErr
}

// Static errors wrapped with context throughout the module.
var (
	ErrBaseURLRequired     = errors.New("base URL is required")
	ErrConfigRequired      = errors.New("config is required")
	ErrUnknownNodeRole     = errors.New("unknown node role")
	ErrUnknownNodeStatus   = errors.New("unknown node status")
	ErrUnknownPolicyAction = errors.New("unknown policy action")
	ErrNoMoreItems         = errors.New("no more items")
	ErrServerRejected      = errors.New("server rejected the request")
)

// IsUnauthorized reports whether err is a 401 from the controller.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsNotFound reports whether err is a 404 from the controller.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}
