package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"activation-service.backend/internal/config"
	"activation-service.backend/internal/interfaces/http/handlers"
	"activation-service.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	verificationHandler *handlers.VerificationHandler
	healthHandler       *handlers.HealthHandler
	debugHandler        *handlers.DebugHandler
	rateLimit           gin.HandlerFunc
	bodyLimit           gin.HandlerFunc
}

func newRouter(cfg config.ServerConfig, d routeDeps) (*gin.Engine, error) {
	r := gin.New()
	// ClientIP keys the rate limit and the audit log, so X-Forwarded-For is
	// only honoured from configured proxies.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.SecurityHeaders())

	applyCORSMiddleware(r, cfg.CORSAllowedOrigins)
	registerHealthRoute(r, d.healthHandler)
	registerMetricsRoute(r)
	registerAPIRoutes(r, d)
	if d.debugHandler != nil {
		registerDebugRoutes(r, d.debugHandler)
	}
	registerNotFound(r)
	return r, nil
}

func registerAPIRoutes(r *gin.Engine, d routeDeps) {
	api := r.Group("/api")
	{
		verify := []gin.HandlerFunc{}
		if d.bodyLimit != nil {
			verify = append(verify, d.bodyLimit)
		}
		if d.rateLimit != nil {
			verify = append(verify, d.rateLimit)
		}
		verify = append(verify, d.verificationHandler.Verify)

		api.POST("/verify", verify...)
		api.GET("/stats", d.verificationHandler.Stats)
	}
}

func registerDebugRoutes(r *gin.Engine, h *handlers.DebugHandler) {
	debug := r.Group("/debug")
	{
		debug.GET("/database", h.Database)
		debug.GET("/system", h.System)
	}
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
