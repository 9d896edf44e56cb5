package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"activation-service.backend/internal/infrastructure/metrics"
	"activation-service.backend/internal/interfaces/http/response"
	"activation-service.backend/pkg/logger"
)

// MsgTooManyRequests is returned with 429
const MsgTooManyRequests = "too many requests, please try again later"

type limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// retryAfterer reports how long a limited key should wait
type retryAfterer interface {
	RetryAfter(ctx context.Context, key string) time.Duration
}

// RateLimit limits requests per client IP. A nil limiter disables it and a
// limiter error lets the request through.
func RateLimit(l limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		allowed, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn(c.Request.Context(), "Rate limiter unavailable, allowing request",
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if !allowed {
			metrics.IncRateLimited()
			if ra, ok := l.(retryAfterer); ok {
				if d := ra.RetryAfter(c.Request.Context(), c.ClientIP()); d > 0 {
					c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.Seconds()))))
				}
			}
			response.Fail(c, http.StatusTooManyRequests, MsgTooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}
