package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ngoinfo/grantpilot/internal/interfaces/http/handlers"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler *handlers.AuthHandler
}

// SetupAuthRoutes configures the passwordless authentication routes.
// Per-endpoint rate limiting happens inside the auth service, keyed on
// email and client IP.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/auth")
	{
		auth.POST("/magic-link/request", cfg.AuthHandler.RequestMagicLink)
		auth.POST("/magic-link/consume", cfg.AuthHandler.ConsumeMagicLink)

		auth.GET("/google/start", cfg.AuthHandler.GoogleStart)
		auth.GET("/google/callback", cfg.AuthHandler.GoogleCallback)

		auth.POST("/refresh", cfg.AuthHandler.Refresh)
		auth.POST("/logout", cfg.AuthHandler.Logout)
	}
}
