package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/geocoder89/sharedfeed/internal/actorctx"
	"github.com/geocoder89/sharedfeed/internal/auth"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (string, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "Missing or invalid access token")
			return
		}

		userID, err := m.jwt.VerifyAccessToken(raw)
		if err != nil {
			code, msg := tokenErrorCode(err)
			abortJSON(c, http.StatusUnauthorized, code, msg)
			return
		}

		c.Set(CtxUserID, userID)
		c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), userID))
		trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.String("user.id", userID))

		c.Next()
	}
}

func tokenErrorCode(err error) (string, string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "expired_token", "Access token expired"
	case errors.Is(err, auth.ErrWrongTokenKind):
		return "wrong_token_kind", "Wrong token kind"
	default:
		return "invalid_token", "Invalid access token"
	}
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// abortJSON writes the same envelope shape the handlers use.
func abortJSON(c *gin.Context, status int, code, message string) {
	reqID, _ := c.Get(CtxRequestID)
	rid, _ := reqID.(string)

	c.AbortWithStatusJSON(status, gin.H{
		"success":   false,
		"data":      nil,
		"error":     message,
		"code":      code,
		"requestId": rid,
	})
}
