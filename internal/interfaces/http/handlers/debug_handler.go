package handlers

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"activation-service.backend/internal/domain/entities"
	"activation-service.backend/internal/interfaces/http/response"
)

const debugSampleSize = 10

type debugService interface {
	ListCodes(ctx context.Context) ([]*entities.ActivationCode, error)
	Logs(ctx context.Context, filter entities.LogFilter) ([]*entities.VerificationLog, error)
}

type statsService interface {
	GetStats(ctx context.Context) (*entities.StatsSnapshot, error)
}

// DebugHandler exposes store samples and process details. Only mounted in
// development.
type DebugHandler struct {
	admin debugService
	stats statsService
	info  ServiceInfo
	now   func() time.Time
}

// NewDebugHandler creates a new debug handler
func NewDebugHandler(admin debugService, stats statsService, info ServiceInfo) *DebugHandler {
	if info.StartedAt.IsZero() {
		info.StartedAt = time.Now()
	}
	return &DebugHandler{admin: admin, stats: stats, info: info, now: time.Now}
}

// Database returns the newest codes, the newest log entries and the stats
// GET /debug/database
func (h *DebugHandler) Database(c *gin.Context) {
	ctx := c.Request.Context()

	codes, err := h.admin.ListCodes(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(codes) > debugSampleSize {
		codes = codes[:debugSampleSize]
	}

	logs, err := h.admin.Logs(ctx, entities.LogFilter{Limit: debugSampleSize})
	if err != nil {
		response.Error(c, err)
		return
	}

	stats, err := h.stats.GetStats(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"activation_codes":  codes,
		"verification_logs": logs,
		"stats":             stats,
	}, MsgStatsOK)
}

// System returns process and runtime details
// GET /debug/system
func (h *DebugHandler) System(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	response.Success(c, http.StatusOK, gin.H{
		"pid":         os.Getpid(),
		"uptime":      h.now().Sub(h.info.StartedAt).Seconds(),
		"go_version":  runtime.Version(),
		"goroutines":  runtime.NumGoroutine(),
		"environment": h.info.Environment,
		"version":     h.info.Version,
		"memory": gin.H{
			"alloc":       mem.Alloc,
			"total_alloc": mem.TotalAlloc,
			"sys":         mem.Sys,
			"heap_inuse":  mem.HeapInuse,
			"num_gc":      mem.NumGC,
		},
	}, MsgStatsOK)
}
