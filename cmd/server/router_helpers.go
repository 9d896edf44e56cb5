package main

import (
	"github.com/gin-gonic/gin"

	"activation-service.backend/internal/interfaces/http/handlers"
	"activation-service.backend/internal/interfaces/http/middleware"
	"activation-service.backend/internal/interfaces/http/response"
)

func applyCORSMiddleware(r *gin.Engine, allowOrigins []string) {
	r.Use(middleware.CORS(allowOrigins))
}

func registerHealthRoute(r *gin.Engine, h *handlers.HealthHandler) {
	if h == nil {
		h = handlers.NewHealthHandler(nil, handlers.ServiceInfo{})
	}
	r.GET("/health", h.Health)
}

func registerNotFound(r *gin.Engine) {
	r.NoRoute(response.NotFound)
}
