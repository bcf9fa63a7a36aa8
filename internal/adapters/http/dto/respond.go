package dto

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/daily-stoic/internal/domain"
	"github.com/jsamuelsen/daily-stoic/internal/platform/logging"
)

// HeaderRetryAfter tells a rate limited client how many seconds to wait.
const HeaderRetryAfter = "Retry-After"

// MapDomainError maps a domain error to an HTTP status code and error response.
// Store and gateway failures share the generic 500 message so internals
// are not exposed.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsValidation(err):
		var ve *domain.ValidationError

		msg := "request validation failed"
		if errors.As(err, &ve) {
			msg = ve.Message
		}

		resp := NewErrorResponse(ErrorCodeValidation, msg)
		if ve != nil && ve.Field != "" {
			resp.Error.Details = map[string]string{ve.Field: ve.Message}
		}

		return http.StatusBadRequest, resp

	case domain.IsAlreadySubscribed(err):
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeAlreadySubscribed, MsgAlreadySubscribed)

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())

	case domain.IsNotFound(err):
		msg := MsgEmailNotFound

		var nf *domain.NotFoundError
		if errors.As(err, &nf) && nf.ID == "" {
			msg = MsgTokenNotFound
		}

		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, msg)

	case domain.IsRateLimited(err):
		return http.StatusTooManyRequests, NewErrorResponse(ErrorCodeRateLimited, MsgRateLimited)

	case domain.IsConfiguration(err):
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeConfiguration, MsgConfiguration)

	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, MsgInternal)
	}
}

// GetTraceID returns the active trace id, or "".
func GetTraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// HandleError writes the mapped error response. 5xx errors are logged with
// the underlying cause.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "request failed",
			slog.Any("error", err),
			slog.String("code", resp.Error.Code),
		)
	}

	var rl *domain.RateLimitError
	if errors.As(err, &rl) {
		c.Header(HeaderRetryAfter, strconv.Itoa(RetryAfterSeconds(rl.RetryAfter.Seconds())))
	}

	c.JSON(status, resp)
}

// AbortWithError aborts the chain with the mapped error response.
func AbortWithError(c *gin.Context, err error) {
	HandleError(c, err)
	c.Abort()
}

// AbortWithErrorCode aborts the chain with an explicit code and message.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	resp := NewErrorResponse(code, message).WithTraceID(GetTraceID(c))
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), resp)
}

// HandleBindError answers a failed BindAndValidate. Decode failures are a
// bad request; tag failures list the offending fields.
func HandleBindError(c *gin.Context, err error) {
	if IsValidationError(err) {
		fields := ValidationErrors(err)
		c.JSON(http.StatusBadRequest,
			NewErrorResponseWithDetails(ErrorCodeValidation, firstMessage(fields), fields).WithTraceID(GetTraceID(c)))

		return
	}

	c.JSON(http.StatusBadRequest, NewErrorResponse(ErrorCodeBadRequest, MsgBadRequest).WithTraceID(GetTraceID(c)))
}

// RetryAfterSeconds rounds a positive wait up to whole seconds, minimum 1.
func RetryAfterSeconds(secs float64) int {
	n := int(secs)
	if float64(n) < secs {
		n++
	}

	return max(n, 1)
}

func firstMessage(fields map[string]string) string {
	if msg, ok := fields["email"]; ok {
		return msg
	}

	for _, msg := range fields {
		return msg
	}

	return "request validation failed"
}
