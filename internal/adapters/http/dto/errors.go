// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import "net/http"

// ErrorResponse is the standard error envelope for all error responses.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND", "ALREADY_SUBSCRIBED").
	Code string `json:"code"`

	// Message is the user-facing message.
	Message string `json:"message"`

	// Details carries field-level messages for validation errors.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	// ErrorCodeNotFound indicates the subscriber or token does not exist.
	ErrorCodeNotFound = "NOT_FOUND"

	// ErrorCodeAlreadySubscribed indicates a subscribe on an active address.
	ErrorCodeAlreadySubscribed = "ALREADY_SUBSCRIBED"

	// ErrorCodeConflict indicates any other state conflict.
	ErrorCodeConflict = "CONFLICT"

	// ErrorCodeValidation indicates request validation failed.
	ErrorCodeValidation = "VALIDATION_ERROR"

	// ErrorCodeBadRequest indicates the request body could not be decoded.
	ErrorCodeBadRequest = "BAD_REQUEST"

	// ErrorCodeRateLimited indicates the client exhausted its window.
	ErrorCodeRateLimited = "RATE_LIMITED"

	// ErrorCodeConfiguration indicates the server is missing required settings.
	ErrorCodeConfiguration = "CONFIGURATION_ERROR"

	// ErrorCodeTimeout indicates the request deadline passed.
	ErrorCodeTimeout = "TIMEOUT"

	// ErrorCodeInternal indicates an internal server error.
	ErrorCodeInternal = "INTERNAL_ERROR"
)

// User-facing messages.
const (
	MsgCreated           = "Welcome! Your daily wisdom will arrive at 7 AM your local time."
	MsgResubscribed      = "Welcome back! You have been re-subscribed."
	MsgUnsubscribed      = "You have been successfully unsubscribed. We hope to see you again!"
	MsgAlreadySubscribed = "This email is already subscribed!"
	MsgEmailNotFound     = "Email not found in our subscribers list."
	MsgTokenNotFound     = "This unsubscribe link is invalid or has already been used."
	MsgRateLimited       = "Too many requests. Please try again in a minute."
	MsgConfiguration     = "Server configuration error"
	MsgInternal          = "Something went wrong. Please try again."
	MsgBadRequest        = "Invalid request body"
	MsgTimeout           = "Request timed out. Please try again."
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes. A duplicate
// subscription is a client error, not a 409.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest, ErrorCodeAlreadySubscribed:
		return http.StatusBadRequest
	case ErrorCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
