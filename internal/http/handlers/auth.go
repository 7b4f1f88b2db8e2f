package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/geocoder89/sharedfeed/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthFlow interface {
	Login(ctx context.Context, password string) (service.AuthResult, error)
	Signup(ctx context.Context, name, password string) (service.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type AuthHandler struct {
	svc AuthFlow
}

func NewAuthHandler(svc AuthFlow) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type LoginRequest struct {
	Password string `json:"password" binding:"max=512"`
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"max=200"`
	Password string `json:"password" binding:"max=512"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	res, err := h.svc.Login(ctx.Request.Context(), req.Password)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	RespondOK(ctx, http.StatusOK, res)
}

func (h *AuthHandler) Signup(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	res, err := h.svc.Signup(ctx.Request.Context(), req.Name, req.Password)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	RespondOK(ctx, http.StatusCreated, res)
}

// Refresh takes the refresh token from the Authorization header, or from a
// JSON body when no bearer token is sent.
func (h *AuthHandler) Refresh(ctx *gin.Context) {
	token := bearerToken(ctx)

	if token == "" && ctx.Request.ContentLength != 0 {
		var req RefreshRequest
		if !BindJSON(ctx, &req) {
			return
		}
		token = strings.TrimSpace(req.Refresh)
	}

	access, err := h.svc.Refresh(ctx.Request.Context(), token)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	RespondOK(ctx, http.StatusOK, RefreshResponse{Access: access})
}

func bearerToken(ctx *gin.Context) string {
	h := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
