package middlewares_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/sharedfeed/internal/actorctx"
	"github.com/geocoder89/sharedfeed/internal/auth"
	"github.com/geocoder89/sharedfeed/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	verifyFn func(token string) (string, error)
}

func (f fakeVerifier) VerifyAccessToken(token string) (string, error) {
	return f.verifyFn(token)
}

type envelope struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId"`
}

func newAuthRouter(v middlewares.TokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.RequestID())
	r.GET("/me", middlewares.NewAuthMiddleware(v).RequireAuth(), func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		actor, _ := actorctx.UserIDFrom(c.Request.Context())
		c.String(http.StatusOK, id+"|"+actor)
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	v := fakeVerifier{verifyFn: func(token string) (string, error) {
		switch token {
		case "good":
			return "u1", nil
		case "expired":
			return "", auth.ErrExpiredToken
		case "refresh":
			return "", auth.ErrWrongTokenKind
		default:
			return "", fmt.Errorf("%w: bad", auth.ErrInvalidSignature)
		}
	}}

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantErr  string
	}{
		{"no header", "", http.StatusUnauthorized, "unauthorized"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "unauthorized"},
		{"empty bearer", "Bearer   ", http.StatusUnauthorized, "unauthorized"},
		{"expired", "Bearer expired", http.StatusUnauthorized, "expired_token"},
		{"wrong kind", "Bearer refresh", http.StatusUnauthorized, "wrong_token_kind"},
		{"bad signature", "Bearer forged", http.StatusUnauthorized, "invalid_token"},
		{"ok", "Bearer good", http.StatusOK, ""},
	}

	r := newAuthRouter(v)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantCode, w.Body.String())
			}

			if tt.wantErr == "" {
				if w.Body.String() != "u1|u1" {
					t.Fatalf("unexpected body %q", w.Body.String())
				}
				return
			}

			var env envelope
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatalf("bad json: %v", err)
			}
			if env.Success || env.Code != tt.wantErr {
				t.Fatalf("unexpected envelope %+v", env)
			}
			if env.RequestID == "" || env.RequestID != w.Header().Get("X-Request-Id") {
				t.Fatalf("request id not propagated: %+v", env)
			}
		})
	}
}

func TestRequireJSON(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.RequireJSON())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("a=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("got %d", w.Code)
	}
}

func TestRequestIDEchoesIncomingHeader(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-Id"); got != "abc" {
		t.Fatalf("got %q", got)
	}
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.MaxBodyBytes(4))
	r.POST("/x", func(c *gin.Context) {
		buf := make([]byte, 16)
		_, err := c.Request.Body.Read(buf)
		for err == nil {
			_, err = c.Request.Body.Read(buf)
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("0123456789")))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("got %d", w.Code)
	}
}
