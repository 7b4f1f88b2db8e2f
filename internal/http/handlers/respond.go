package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/sharedfeed/internal/auth"
	"github.com/geocoder89/sharedfeed/internal/service"
	"github.com/gin-gonic/gin"
)

// Envelope wraps every JSON response body.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondOK(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, Envelope{Success: true, Data: data, RequestID: requestIDFrom(ctx)})
}

func RespondError(ctx *gin.Context, status int, code, message string, data any) {
	ctx.JSON(status, Envelope{
		Success:   false,
		Data:      data,
		Error:     message,
		Code:      code,
		RequestID: requestIDFrom(ctx),
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details any) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnauthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondInternal(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusInternalServerError, code, message, nil)
}

// respondServiceError maps core and token errors onto status and code.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStoreUnavailable):
		slog.Default().ErrorContext(ctx.Request.Context(), "store_unavailable",
			"request_id", requestIDFrom(ctx),
			"err", err,
		)
		RespondInternal(ctx, "store_unavailable", err.Error())

	case errors.Is(err, service.ErrMissingField):
		RespondError(ctx, http.StatusBadRequest, "missing_field", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidPostType):
		RespondError(ctx, http.StatusBadRequest, "invalid_post_type", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidDateFormat):
		RespondError(ctx, http.StatusBadRequest, "invalid_date_format", err.Error(), nil)
	case errors.Is(err, service.ErrDuplicatePassword):
		RespondError(ctx, http.StatusBadRequest, "duplicate_password", "Password already in use", nil)

	case errors.Is(err, service.ErrInvalidCredentials):
		RespondUnauthorized(ctx, "invalid_credentials", "Invalid credentials")
	case errors.Is(err, auth.ErrExpiredToken):
		RespondUnauthorized(ctx, "expired_token", "Token expired")
	case errors.Is(err, auth.ErrWrongTokenKind):
		RespondUnauthorized(ctx, "wrong_token_kind", "Wrong token kind")
	case errors.Is(err, auth.ErrInvalidSignature):
		RespondUnauthorized(ctx, "invalid_token", "Invalid token")

	case errors.Is(err, service.ErrUserNotFound):
		RespondError(ctx, http.StatusNotFound, "user_not_found", "User not found", nil)

	case errors.Is(err, auth.ErrConfig):
		RespondInternal(ctx, "config_error", "Token service misconfigured")

	default:
		slog.Default().ErrorContext(ctx.Request.Context(), "unhandled_error",
			"request_id", requestIDFrom(ctx),
			"err", err,
		)
		RespondInternal(ctx, "internal_error", err.Error())
	}
}
