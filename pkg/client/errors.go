package client

import (
	"fmt"
	"net/http"
)

// APIError represents an error returned by the API
type APIError struct {
	StatusCode int                    `json:"-"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("API error: %s (status: %d)", e.Message, e.StatusCode)
}

// IsNotFound returns true for 404 responses
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true for 401 responses
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsForbidden returns true for 403 responses, including entitlement
// rejections such as redeeming a coupon without an active subscription
func (e *APIError) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// IsConflict returns true for 409 responses
func (e *APIError) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}

// IsAlreadySubscribed returns true when a subscribe attempt was rejected
// because an earlier window is still open. The existing window's expiry
// is available under Details["expires_at"].
func (e *APIError) IsAlreadySubscribed() bool {
	return e.Code == "ALREADY_SUBSCRIBED"
}

// IsValidationError returns true for 400 responses
func (e *APIError) IsValidationError() bool {
	return e.StatusCode == http.StatusBadRequest
}

// IsServerError returns true for 5xx responses
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= http.StatusInternalServerError
}
