package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler takes the store ping used by readiness. A nil ping always
// reports ready.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	RespondOK(ctx, http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	if h.ping != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), time.Second)
		defer cancel()

		if err := h.ping(pingCtx); err != nil {
			RespondError(ctx, http.StatusServiceUnavailable, "not_ready", err.Error(), gin.H{"status": "not_ready"})
			return
		}
	}

	RespondOK(ctx, http.StatusOK, gin.H{"status": "ready"})
}
