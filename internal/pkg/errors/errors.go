package errors

import (
	"fmt"
	"net/http"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Common error codes
const (
	ErrCodeInternal             = "INTERNAL_ERROR"
	ErrCodeBadRequest           = "BAD_REQUEST"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeConflict             = "CONFLICT"
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeRateLimited          = "RATE_LIMITED"
	ErrCodeStorageUnavailable   = "STORAGE_UNAVAILABLE"
	ErrCodePlanNotFound         = "PLAN_NOT_FOUND"
	ErrCodeAlreadySubscribed    = "ALREADY_SUBSCRIBED"
	ErrCodeNoActiveSubscription = "NO_ACTIVE_SUBSCRIPTION"
	ErrCodeCouponExhausted      = "COUPON_EXHAUSTED"
	ErrCodeCouponExpired        = "COUPON_EXPIRED"
	ErrCodeOTPInvalid           = "OTP_INVALID"
	ErrCodeOTPExpired           = "OTP_EXPIRED"
)

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Internal:   err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Common error constructors

// Internal creates an internal server error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

// Forbidden creates a forbidden error
func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message, http.StatusForbidden)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message, http.StatusConflict)
}

// ValidationError creates a validation error
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

// RateLimited creates a rate limited error
func RateLimited(message string) *AppError {
	return New(ErrCodeRateLimited, message, http.StatusTooManyRequests)
}

// StorageUnavailable wraps a persistence failure. It is the only error kind
// callers may treat as transient; nothing below the HTTP layer retries it.
func StorageUnavailable(message string, err error) *AppError {
	return Wrap(err, ErrCodeStorageUnavailable, message, http.StatusServiceUnavailable)
}

// PlanNotFound creates an error for a missing subscription plan
func PlanNotFound(planID int64) *AppError {
	return New(ErrCodePlanNotFound, fmt.Sprintf("Plan %d not found", planID), http.StatusNotFound)
}

// AlreadySubscribed creates an error for a blocked subscribe attempt.
// Details carry the existing window's expiration for display.
func AlreadySubscribed(expiresAt interface{}) *AppError {
	return New(ErrCodeAlreadySubscribed, "An active subscription already exists", http.StatusConflict).
		WithDetails(map[string]interface{}{"expires_at": expiresAt})
}

// NoActiveSubscription creates an error for a cancel with nothing to cancel
func NoActiveSubscription() *AppError {
	return New(ErrCodeNoActiveSubscription, "No active subscription", http.StatusBadRequest)
}

// IsCode reports whether err is an AppError with the given code
func IsCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
