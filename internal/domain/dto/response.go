package dto

import (
	"net/http"
	"time"
)

// Machine readable error codes, one per HTTP status family.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeUnauthorized    = "unauthorized"
	ErrCodeForbidden       = "forbidden"
	ErrCodeNotFound        = "not_found"
	ErrCodeConflict        = "conflict"
	ErrCodePayloadTooLarge = "payload_too_large"
	ErrCodeUnprocessable   = "unprocessable_entity"
	ErrCodeRateLimit       = "rate_limit_exceeded"
	ErrCodeTimeout         = "timeout"
	ErrCodeUnavailable     = "service_unavailable"
	ErrCodeInternal        = "internal_error"
)

// SuccessResponse is the envelope of every JSON success body.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data is the LayoutResult, Layout or page the endpoint returns
	Data      interface{} `json:"data" swaggertype:"object"`
	RequestID string      `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time   `json:"timestamp" example:"2026-03-01T12:00:00Z"`
} // @name SuccessResponse

// ErrorResponse is the envelope of every JSON error body. Details names
// offending fields, or file lines for imports.
// @Description Standardized error response
type ErrorResponse struct {
	Error     string            `json:"error" example:"invalid_request"`
	Message   string            `json:"message,omitempty" example:"Area and item dimensions must be positive integers"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2026-03-01T12:00:00Z"`
} // @name ErrorResponse

// NewError stamps an error body with the current UTC time.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: code, Message: message, Timestamp: time.Now().UTC()}
}

// WithRequestID returns a copy of e carrying requestID.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// ErrCodeFromStatus maps an HTTP status to the machine readable error code.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType:
		return ErrCodeInvalidRequest
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusRequestEntityTooLarge:
		return ErrCodePayloadTooLarge
	case http.StatusUnprocessableEntity:
		return ErrCodeUnprocessable
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrCodeTimeout
	case http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	}
	return ErrCodeInternal
}
