package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ngoinfo/grantpilot/internal/interfaces/http/handlers"
	"github.com/ngoinfo/grantpilot/internal/interfaces/http/middleware"
)

// ProfileRouteConfig holds dependencies for NGO profile routes.
type ProfileRouteConfig struct {
	ProfileHandler *handlers.ProfileHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupProfileRoutes configures the current-user profile routes.
func SetupProfileRoutes(engine *gin.Engine, cfg *ProfileRouteConfig) {
	profile := engine.Group("/api/profile", cfg.AuthMiddleware.RequireAuth())
	{
		profile.POST("", cfg.ProfileHandler.Create)
		profile.PUT("", cfg.ProfileHandler.Update)
		profile.GET("", cfg.ProfileHandler.Get)
		profile.GET("/completeness", cfg.ProfileHandler.GetCompleteness)
	}
}
