package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/daily-stoic/internal/adapters/clients"
	"github.com/jsamuelsen/daily-stoic/internal/domain"
)

// ErrorResponse is the error body returned by the email provider.
//
//	{"statusCode": 422, "name": "invalid_from_address", "message": "..."}
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

// Provider error names that point at our own configuration rather than at
// the recipient or the provider's health.
const (
	ErrNameMissingAPIKey      = "missing_api_key"
	ErrNameInvalidAPIKey      = "invalid_api_key"
	ErrNameRestrictedAPIKey   = "restricted_api_key"
	ErrNameInvalidFromAddress = "invalid_from_address"
	ErrNameDailyQuotaExceeded = "daily_quota_exceeded"
)

// ParseErrorResponse decodes an error body. Returns nil when the body is
// empty or not the provider's format.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(body).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.Name == "" && errResp.Message == "" {
		return nil
	}

	return &errResp
}

// MapHTTPError translates a failed provider call into a domain error.
//
//   - client failures (breaker open, transport) → UnavailableError
//   - 401/403 and key or sender problems → ConfigurationError
//   - 400/422 → ValidationError
//   - 429 and 5xx → UnavailableError
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	var errResp *ErrorResponse
	if resp.Body != nil {
		errResp = ParseErrorResponse(resp.Body)
	}

	return mapStatusCode(resp.StatusCode, errResp, serviceName, operation)
}

func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("circuit breaker open during %s", operation))

	default:
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, err))
	}
}

func mapStatusCode(status int, errResp *ErrorResponse, serviceName, operation string) error {
	message := defaultMessageForStatus(status, operation)
	name := ""

	if errResp != nil {
		name = errResp.Name
		if errResp.Message != "" {
			message = errResp.Message
		}
	}

	switch name {
	case ErrNameMissingAPIKey, ErrNameInvalidAPIKey, ErrNameRestrictedAPIKey:
		return domain.NewConfigurationError("email.api_key", message)
	case ErrNameInvalidFromAddress:
		return domain.NewConfigurationError("email.from", message)
	case ErrNameDailyQuotaExceeded:
		return domain.NewUnavailableError(serviceName, message)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.NewConfigurationError("email.api_key", message)

	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return domain.NewValidationError("", message)

	case status == http.StatusTooManyRequests:
		return domain.NewUnavailableError(serviceName, "rate limit exceeded")

	case status >= http.StatusInternalServerError:
		return domain.NewUnavailableError(serviceName, message)

	default:
		return domain.NewUnavailableError(serviceName, fmt.Sprintf("%s: unexpected status %d", operation, status))
	}
}

func defaultMessageForStatus(status int, operation string) string {
	switch status {
	case http.StatusUnauthorized:
		return "authentication required"
	case http.StatusForbidden:
		return "access denied"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "invalid request"
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return fmt.Sprintf("%s failed with status %d", operation, status)
	}
}
