package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ngoinfo/grantpilot/internal/interfaces/http/handlers"
	"github.com/ngoinfo/grantpilot/internal/interfaces/http/middleware"
)

// FitScanRouteConfig holds dependencies for fit scan routes.
type FitScanRouteConfig struct {
	FitScanHandler     *handlers.FitScanHandler
	EntitlementHandler *handlers.EntitlementHandler
	AuthMiddleware     *middleware.AuthMiddleware
}

// SetupFitScanRoutes configures fit scan execution, retrieval, and the
// entitlement snapshot the frontend uses to gate the scan button.
func SetupFitScanRoutes(engine *gin.Engine, cfg *FitScanRouteConfig) {
	api := engine.Group("/api", cfg.AuthMiddleware.RequireAuth())
	{
		api.POST("/fit-scans", cfg.FitScanHandler.Run)
		api.GET("/fit-scans/:id", cfg.FitScanHandler.Get)

		api.GET("/me/entitlements", cfg.EntitlementHandler.GetMyEntitlements)
	}
}
