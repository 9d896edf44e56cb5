package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"activation-service.backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// ServiceInfo identifies the running service in health and debug output
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
	StartedAt   time.Time
}

// HealthHandler reports liveness and store connectivity
type HealthHandler struct {
	store pinger
	info  ServiceInfo
	now   func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store pinger, info ServiceInfo) *HealthHandler {
	if info.StartedAt.IsZero() {
		info.StartedAt = time.Now()
	}
	return &HealthHandler{store: store, info: info, now: time.Now}
}

// Health answers 200 even when the store is unreachable; status turns to
// "degraded" in that case.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status, database := "ok", "connected"
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			logger.Warn(c.Request.Context(), "Health check store ping failed", zap.Error(err))
			status, database = "degraded", "error"
		}
	}

	now := h.now()
	c.JSON(http.StatusOK, gin.H{
		"status":      status,
		"service":     h.info.Name,
		"version":     h.info.Version,
		"environment": h.info.Environment,
		"database":    database,
		"uptime":      now.Sub(h.info.StartedAt).Seconds(),
		"timestamp":   now.UTC(),
	})
}
