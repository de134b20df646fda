package errors

import (
	stderrors "errors"
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
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeDatabase           = "DATABASE_ERROR"
	ErrCodeConnectorTransient = "CONNECTOR_TRANSIENT"
	ErrCodeConnectorPermanent = "CONNECTOR_PERMANENT"
	ErrCodeDelivery           = "DELIVERY_ERROR"
	ErrCodeRateLimited        = "RATE_LIMITED"
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

// NotFound creates a not found error
func NotFound(entity string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message, http.StatusConflict)
}

// ValidationError creates a validation error
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

// DatabaseError creates a database error
func DatabaseError(message string, err error) *AppError {
	return Wrap(err, ErrCodeDatabase, message, http.StatusInternalServerError)
}

// ConnectorTransient marks a provider failure that is safe to retry,
// e.g. rate limiting or a timeout.
func ConnectorTransient(provider, message string, err error) *AppError {
	return Wrap(err, ErrCodeConnectorTransient,
		fmt.Sprintf("%s: %s", provider, message),
		http.StatusServiceUnavailable)
}

// ConnectorPermanent marks a provider failure that retrying cannot fix,
// e.g. rejected credentials or an unsupported provider.
func ConnectorPermanent(provider, message string, err error) *AppError {
	return Wrap(err, ErrCodeConnectorPermanent,
		fmt.Sprintf("%s: %s", provider, message),
		http.StatusBadGateway)
}

// RateLimited creates a too-many-requests error
func RateLimited(message string) *AppError {
	return New(ErrCodeRateLimited, message, http.StatusTooManyRequests)
}

// DeliveryError creates a notification channel delivery error
func DeliveryError(channel string, err error) *AppError {
	return Wrap(err, ErrCodeDelivery,
		fmt.Sprintf("delivery to %s failed", channel),
		http.StatusBadGateway)
}

// code extracts the AppError code from an error chain, if any.
func code(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsTransient reports whether err is a retryable connector error.
func IsTransient(err error) bool {
	return code(err) == ErrCodeConnectorTransient
}

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool {
	return code(err) == ErrCodeConflict
}

// IsNotFound reports whether err is a not found error.
func IsNotFound(err error) bool {
	return code(err) == ErrCodeNotFound
}
