package idp

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes the provider uses in error bodies.
const (
	ErrorCodeInvalidGrant = "invalid_grant"
	ErrorCodeNotFound     = "not_found"
	ErrorCodeServerError  = "server_error"
)

// APIError is a typed error for any non-2xx provider response.
type APIError struct {
	// StatusCode is the HTTP status of the failed response.
	StatusCode int `json:"-"`

	// Code is the provider's machine-readable error code.
	Code string `json:"error"`

	// Description is the human-readable detail, if any.
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("idp: %s (HTTP %d)", e.Code, e.StatusCode)
	}
	return fmt.Sprintf("idp: %s: %s", e.Code, e.Description)
}

// IsNotFound reports whether err is a provider 404.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// parseErrorResponse turns an error response body into an *APIError.
// Falls back to a generic error built from the status code when the
// body isn't the provider's error shape.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
