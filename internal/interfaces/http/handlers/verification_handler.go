package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"activation-service.backend/internal/domain/entities"
	"activation-service.backend/internal/interfaces/http/middleware"
	"activation-service.backend/internal/interfaces/http/response"
)

const (
	MsgInvalidBody = "invalid request body"
	MsgStatsOK     = "ok"
)

type verificationService interface {
	Verify(ctx context.Context, input *entities.VerifyInput) (*entities.VerifyOutcome, error)
	GetStats(ctx context.Context) (*entities.StatsSnapshot, error)
}

// VerificationHandler serves the public verification API
type VerificationHandler struct {
	service verificationService
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(service verificationService) *VerificationHandler {
	return &VerificationHandler{service: service}
}

type verifyRequest struct {
	Code       string `json:"code"`
	ProductKey string `json:"product_key"`
	DeviceID   string `json:"device_id"`
}

// Verify checks an activation code
// POST /api/verify
func (h *VerificationHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if middleware.IsBodyTooLarge(err) {
			response.Fail(c, http.StatusRequestEntityTooLarge, middleware.MsgBodyTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	outcome, err := h.service.Verify(c.Request.Context(), &entities.VerifyInput{
		Code:       req.Code,
		ProductKey: req.ProductKey,
		DeviceID:   req.DeviceID,
		IPAddress:  c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// a failed verification is still a 200
	if !outcome.Success {
		response.Fail(c, http.StatusOK, outcome.Message)
		return
	}
	response.Success(c, http.StatusOK, outcome.Data, outcome.Message)
}

// Stats returns today's verification counters
// GET /api/stats
func (h *VerificationHandler) Stats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats, MsgStatsOK)
}
